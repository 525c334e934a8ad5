package ulmo

// Node is any vertex of a tree: an expression or a statement. Trees are
// value-like; no rewrite in this package mutates a node after construction.
type Node interface{}

// Expr is the expression side of the tree.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the statement side of the tree.
type Stmt interface {
	Node
	stmtNode()
}

type IntLit struct {
	Value int64
}

type FloatLit struct {
	Value float64
}

type StringLit struct {
	Value string
}

type BoolLit struct {
	Value bool
}

type NullLit struct{}

// Identifier is a free or bound variable reference. It is a lookup key only;
// it does not own the named entity.
type Identifier struct {
	Name string
}

type BinaryOp string

const (
	BinaryAdd   BinaryOp = "+"
	BinarySub   BinaryOp = "-"
	BinaryMul   BinaryOp = "*"
	BinaryDiv   BinaryOp = "/"
	BinaryEq    BinaryOp = "=="
	BinaryNotEq BinaryOp = "!="
	BinaryLt    BinaryOp = "<"
	BinaryGt    BinaryOp = ">"
	BinaryAnd   BinaryOp = "&&"
	BinaryOr    BinaryOp = "||"
)

type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

type CallExpr struct {
	Name string
	Args []Expr
}

func (*IntLit) exprNode()     {}
func (*FloatLit) exprNode()   {}
func (*StringLit) exprNode()  {}
func (*BoolLit) exprNode()    {}
func (*NullLit) exprNode()    {}
func (*Identifier) exprNode() {}
func (*BinaryExpr) exprNode() {}
func (*CallExpr) exprNode()   {}

// VarDecl introduces a new binding.
type VarDecl struct {
	Name  string
	Value Expr
}

// Assign rebinds an existing name.
type Assign struct {
	Name  string
	Value Expr
}

// If branches on a condition. Else may be nil when the statement has no else
// branch; a nil and an empty branch are structurally equivalent.
type If struct {
	Cond Expr
	Then []Stmt
	Else []Stmt
}

// Loop is a bounded counted loop. Count is statically known at construction
// time and never negative; there is no break or continue.
type Loop struct {
	Count int64
	Body  []Stmt
}

type Return struct {
	Value Expr
}

// ExprStmt evaluates an expression for its effect and discards the result.
type ExprStmt struct {
	X Expr
}

type FuncDecl struct {
	Name   string
	Params []string
	Body   []Stmt
}

// Program is the root of a tree.
type Program struct {
	Statements []Stmt
}

func (*VarDecl) stmtNode()  {}
func (*Assign) stmtNode()   {}
func (*If) stmtNode()       {}
func (*Loop) stmtNode()     {}
func (*Return) stmtNode()   {}
func (*ExprStmt) stmtNode() {}
func (*FuncDecl) stmtNode() {}
func (*Program) stmtNode()  {}

// Equal reports node-by-node structural equality of two trees.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *IntLit:
		b, ok := b.(*IntLit)
		return ok && a.Value == b.Value
	case *FloatLit:
		b, ok := b.(*FloatLit)
		return ok && a.Value == b.Value
	case *StringLit:
		b, ok := b.(*StringLit)
		return ok && a.Value == b.Value
	case *BoolLit:
		b, ok := b.(*BoolLit)
		return ok && a.Value == b.Value
	case *NullLit:
		_, ok := b.(*NullLit)
		return ok
	case *Identifier:
		b, ok := b.(*Identifier)
		return ok && a.Name == b.Name
	case *BinaryExpr:
		b, ok := b.(*BinaryExpr)
		return ok && a.Op == b.Op && Equal(a.Left, b.Left) && Equal(a.Right, b.Right)
	case *CallExpr:
		b, ok := b.(*CallExpr)
		return ok && a.Name == b.Name && equalExprs(a.Args, b.Args)
	case *VarDecl:
		b, ok := b.(*VarDecl)
		return ok && a.Name == b.Name && Equal(a.Value, b.Value)
	case *Assign:
		b, ok := b.(*Assign)
		return ok && a.Name == b.Name && Equal(a.Value, b.Value)
	case *If:
		b, ok := b.(*If)
		return ok && Equal(a.Cond, b.Cond) && equalStmts(a.Then, b.Then) && equalStmts(a.Else, b.Else)
	case *Loop:
		b, ok := b.(*Loop)
		return ok && a.Count == b.Count && equalStmts(a.Body, b.Body)
	case *Return:
		b, ok := b.(*Return)
		return ok && Equal(a.Value, b.Value)
	case *ExprStmt:
		b, ok := b.(*ExprStmt)
		return ok && Equal(a.X, b.X)
	case *FuncDecl:
		b, ok := b.(*FuncDecl)
		return ok && a.Name == b.Name && equalNames(a.Params, b.Params) && equalStmts(a.Body, b.Body)
	case *Program:
		b, ok := b.(*Program)
		return ok && equalStmts(a.Statements, b.Statements)
	}

	return false
}

func equalExprs(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

func equalStmts(a, b []Stmt) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}

	return true
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// CloneExpr returns a deep copy of an expression with no subtrees shared
// with the input.
func CloneExpr(e Expr) Expr {
	switch e := e.(type) {
	case *IntLit:
		return &IntLit{Value: e.Value}
	case *FloatLit:
		return &FloatLit{Value: e.Value}
	case *StringLit:
		return &StringLit{Value: e.Value}
	case *BoolLit:
		return &BoolLit{Value: e.Value}
	case *NullLit:
		return &NullLit{}
	case *Identifier:
		return &Identifier{Name: e.Name}
	case *BinaryExpr:
		return &BinaryExpr{
			Op:    e.Op,
			Left:  CloneExpr(e.Left),
			Right: CloneExpr(e.Right),
		}
	case *CallExpr:
		args := make([]Expr, len(e.Args))
		for i, arg := range e.Args {
			args[i] = CloneExpr(arg)
		}

		return &CallExpr{Name: e.Name, Args: args}
	}

	return e
}

// CloneStmt returns a deep copy of a statement with no subtrees shared with
// the input.
func CloneStmt(s Stmt) Stmt {
	switch s := s.(type) {
	case *VarDecl:
		return &VarDecl{Name: s.Name, Value: CloneExpr(s.Value)}
	case *Assign:
		return &Assign{Name: s.Name, Value: CloneExpr(s.Value)}
	case *If:
		return &If{
			Cond: CloneExpr(s.Cond),
			Then: cloneStmts(s.Then),
			Else: cloneStmts(s.Else),
		}
	case *Loop:
		return &Loop{Count: s.Count, Body: cloneStmts(s.Body)}
	case *Return:
		return &Return{Value: CloneExpr(s.Value)}
	case *ExprStmt:
		return &ExprStmt{X: CloneExpr(s.X)}
	case *FuncDecl:
		params := make([]string, len(s.Params))
		copy(params, s.Params)

		return &FuncDecl{Name: s.Name, Params: params, Body: cloneStmts(s.Body)}
	case *Program:
		return &Program{Statements: cloneStmts(s.Statements)}
	}

	return s
}

func cloneStmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}

	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = CloneStmt(s)
	}

	return out
}
