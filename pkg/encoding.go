package ulmo

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Trees cross the process boundary as YAML documents: every node is a
// mapping with a "kind" discriminator plus that kind's fields. This is not a
// source-language syntax; it is the serialized form of an already-built
// tree.

// MarshalTree encodes a tree as YAML.
func MarshalTree(node Node) ([]byte, error) {
	doc, err := encodeNode(node)
	if err != nil {
		return nil, err
	}

	return yaml.Marshal(doc)
}

// UnmarshalTree decodes a YAML document into a tree.
func UnmarshalTree(data []byte) (Node, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse tree document: %w", err)
	}

	return decodeNode(doc)
}

func encodeNode(node Node) (map[string]interface{}, error) {
	switch n := node.(type) {
	case *IntLit:
		return map[string]interface{}{"kind": "int", "value": n.Value}, nil
	case *FloatLit:
		return map[string]interface{}{"kind": "float", "value": n.Value}, nil
	case *StringLit:
		return map[string]interface{}{"kind": "string", "value": n.Value}, nil
	case *BoolLit:
		return map[string]interface{}{"kind": "bool", "value": n.Value}, nil
	case *NullLit:
		return map[string]interface{}{"kind": "null"}, nil
	case *Identifier:
		return map[string]interface{}{"kind": "ident", "name": n.Name}, nil
	case *BinaryExpr:
		left, err := encodeNode(n.Left)
		if err != nil {
			return nil, err
		}

		right, err := encodeNode(n.Right)
		if err != nil {
			return nil, err
		}

		return map[string]interface{}{
			"kind":  "binary",
			"op":    string(n.Op),
			"left":  left,
			"right": right,
		}, nil
	case *CallExpr:
		args, err := encodeExprs(n.Args)
		if err != nil {
			return nil, err
		}

		return map[string]interface{}{"kind": "call", "name": n.Name, "args": args}, nil
	case *VarDecl:
		value, err := encodeNode(n.Value)
		if err != nil {
			return nil, err
		}

		return map[string]interface{}{"kind": "var", "name": n.Name, "value": value}, nil
	case *Assign:
		value, err := encodeNode(n.Value)
		if err != nil {
			return nil, err
		}

		return map[string]interface{}{"kind": "assign", "name": n.Name, "value": value}, nil
	case *If:
		cond, err := encodeNode(n.Cond)
		if err != nil {
			return nil, err
		}

		then, err := encodeStmts(n.Then)
		if err != nil {
			return nil, err
		}

		doc := map[string]interface{}{"kind": "if", "cond": cond, "then": then}

		if len(n.Else) > 0 {
			els, err := encodeStmts(n.Else)
			if err != nil {
				return nil, err
			}

			doc["else"] = els
		}

		return doc, nil
	case *Loop:
		body, err := encodeStmts(n.Body)
		if err != nil {
			return nil, err
		}

		return map[string]interface{}{"kind": "loop", "count": n.Count, "body": body}, nil
	case *Return:
		value, err := encodeNode(n.Value)
		if err != nil {
			return nil, err
		}

		return map[string]interface{}{"kind": "return", "value": value}, nil
	case *ExprStmt:
		x, err := encodeNode(n.X)
		if err != nil {
			return nil, err
		}

		return map[string]interface{}{"kind": "expr", "value": x}, nil
	case *FuncDecl:
		body, err := encodeStmts(n.Body)
		if err != nil {
			return nil, err
		}

		return map[string]interface{}{
			"kind":   "func",
			"name":   n.Name,
			"params": n.Params,
			"body":   body,
		}, nil
	case *Program:
		stmts, err := encodeStmts(n.Statements)
		if err != nil {
			return nil, err
		}

		return map[string]interface{}{"kind": "program", "statements": stmts}, nil
	}

	return nil, fmt.Errorf("encode: unknown node type %T", node)
}

func encodeExprs(exprs []Expr) ([]interface{}, error) {
	out := make([]interface{}, len(exprs))
	for i, e := range exprs {
		doc, err := encodeNode(e)
		if err != nil {
			return nil, err
		}

		out[i] = doc
	}

	return out, nil
}

func encodeStmts(stmts []Stmt) ([]interface{}, error) {
	out := make([]interface{}, len(stmts))
	for i, s := range stmts {
		doc, err := encodeNode(s)
		if err != nil {
			return nil, err
		}

		out[i] = doc
	}

	return out, nil
}

func decodeNode(doc interface{}) (Node, error) {
	m, kind, err := nodeKind(doc)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "var", "assign", "if", "loop", "return", "expr", "func", "program":
		return decodeStmt(m, kind)
	default:
		return decodeExpr(m, kind)
	}
}

func nodeKind(doc interface{}) (map[string]interface{}, string, error) {
	m, ok := doc.(map[string]interface{})
	if !ok {
		return nil, "", fmt.Errorf("decode: node must be a mapping, got %T", doc)
	}

	kind, ok := m["kind"].(string)
	if !ok {
		return nil, "", fmt.Errorf("decode: node is missing a kind")
	}

	return m, kind, nil
}

func decodeExpr(m map[string]interface{}, kind string) (Expr, error) {
	switch kind {
	case "int":
		v, err := intField(m, "value")
		if err != nil {
			return nil, err
		}

		return &IntLit{Value: v}, nil
	case "float":
		switch v := m["value"].(type) {
		case float64:
			return &FloatLit{Value: v}, nil
		case int:
			return &FloatLit{Value: float64(v)}, nil
		default:
			return nil, fmt.Errorf("decode: float node needs a numeric value, got %T", m["value"])
		}
	case "string":
		v, ok := m["value"].(string)
		if !ok {
			return nil, fmt.Errorf("decode: string node needs a string value")
		}

		return &StringLit{Value: v}, nil
	case "bool":
		v, ok := m["value"].(bool)
		if !ok {
			return nil, fmt.Errorf("decode: bool node needs a boolean value")
		}

		return &BoolLit{Value: v}, nil
	case "null":
		return &NullLit{}, nil
	case "ident":
		name, err := stringField(m, "name")
		if err != nil {
			return nil, err
		}

		return &Identifier{Name: name}, nil
	case "binary":
		op, err := stringField(m, "op")
		if err != nil {
			return nil, err
		}

		left, err := decodeExprField(m, "left")
		if err != nil {
			return nil, err
		}

		right, err := decodeExprField(m, "right")
		if err != nil {
			return nil, err
		}

		return &BinaryExpr{Op: BinaryOp(op), Left: left, Right: right}, nil
	case "call":
		name, err := stringField(m, "name")
		if err != nil {
			return nil, err
		}

		args, err := decodeExprList(m["args"])
		if err != nil {
			return nil, err
		}

		return &CallExpr{Name: name, Args: args}, nil
	}

	return nil, fmt.Errorf("decode: unknown node kind %q", kind)
}

func decodeStmt(m map[string]interface{}, kind string) (Stmt, error) {
	switch kind {
	case "var":
		name, err := stringField(m, "name")
		if err != nil {
			return nil, err
		}

		value, err := decodeExprField(m, "value")
		if err != nil {
			return nil, err
		}

		return &VarDecl{Name: name, Value: value}, nil
	case "assign":
		name, err := stringField(m, "name")
		if err != nil {
			return nil, err
		}

		value, err := decodeExprField(m, "value")
		if err != nil {
			return nil, err
		}

		return &Assign{Name: name, Value: value}, nil
	case "if":
		cond, err := decodeExprField(m, "cond")
		if err != nil {
			return nil, err
		}

		then, err := decodeStmtList(m["then"])
		if err != nil {
			return nil, err
		}

		var els []Stmt
		if _, present := m["else"]; present {
			els, err = decodeStmtList(m["else"])
			if err != nil {
				return nil, err
			}
		}

		return &If{Cond: cond, Then: then, Else: els}, nil
	case "loop":
		count, err := intField(m, "count")
		if err != nil {
			return nil, err
		}

		if count < 0 {
			return nil, fmt.Errorf("decode: loop count must not be negative, got %d", count)
		}

		body, err := decodeStmtList(m["body"])
		if err != nil {
			return nil, err
		}

		return &Loop{Count: count, Body: body}, nil
	case "return":
		value, err := decodeExprField(m, "value")
		if err != nil {
			return nil, err
		}

		return &Return{Value: value}, nil
	case "expr":
		x, err := decodeExprField(m, "value")
		if err != nil {
			return nil, err
		}

		return &ExprStmt{X: x}, nil
	case "func":
		name, err := stringField(m, "name")
		if err != nil {
			return nil, err
		}

		params, err := decodeNameList(m["params"])
		if err != nil {
			return nil, err
		}

		body, err := decodeStmtList(m["body"])
		if err != nil {
			return nil, err
		}

		return &FuncDecl{Name: name, Params: params, Body: body}, nil
	case "program":
		stmts, err := decodeStmtList(m["statements"])
		if err != nil {
			return nil, err
		}

		return &Program{Statements: stmts}, nil
	}

	return nil, fmt.Errorf("decode: unknown statement kind %q", kind)
}

func decodeExprField(m map[string]interface{}, field string) (Expr, error) {
	doc, present := m[field]
	if !present {
		return nil, fmt.Errorf("decode: %q node is missing %q", m["kind"], field)
	}

	sub, kind, err := nodeKind(doc)
	if err != nil {
		return nil, err
	}

	return decodeExpr(sub, kind)
}

func decodeExprList(doc interface{}) ([]Expr, error) {
	if doc == nil {
		return nil, nil
	}

	list, ok := doc.([]interface{})
	if !ok {
		return nil, fmt.Errorf("decode: expected a sequence of expressions, got %T", doc)
	}

	out := make([]Expr, len(list))
	for i, item := range list {
		sub, kind, err := nodeKind(item)
		if err != nil {
			return nil, err
		}

		e, err := decodeExpr(sub, kind)
		if err != nil {
			return nil, err
		}

		out[i] = e
	}

	return out, nil
}

func decodeStmtList(doc interface{}) ([]Stmt, error) {
	if doc == nil {
		return nil, nil
	}

	list, ok := doc.([]interface{})
	if !ok {
		return nil, fmt.Errorf("decode: expected a sequence of statements, got %T", doc)
	}

	out := make([]Stmt, len(list))
	for i, item := range list {
		sub, kind, err := nodeKind(item)
		if err != nil {
			return nil, err
		}

		s, err := decodeStmt(sub, kind)
		if err != nil {
			return nil, err
		}

		out[i] = s
	}

	return out, nil
}

func decodeNameList(doc interface{}) ([]string, error) {
	if doc == nil {
		return nil, nil
	}

	list, ok := doc.([]interface{})
	if !ok {
		return nil, fmt.Errorf("decode: expected a sequence of names, got %T", doc)
	}

	out := make([]string, len(list))
	for i, item := range list {
		name, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("decode: parameter names must be strings, got %T", item)
		}

		out[i] = name
	}

	return out, nil
}

func stringField(m map[string]interface{}, field string) (string, error) {
	v, ok := m[field].(string)
	if !ok {
		return "", fmt.Errorf("decode: %q node needs a string %q", m["kind"], field)
	}

	return v, nil
}

func intField(m map[string]interface{}, field string) (int64, error) {
	switch v := m[field].(type) {
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	default:
		return 0, fmt.Errorf("decode: %q node needs an integer %q", m["kind"], field)
	}
}
