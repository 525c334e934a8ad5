package ulmo

import (
	"strconv"
	"strings"
)

// CodeGenerator renders a tree back to indented textual syntax. Output is
// deterministic: the same tree always renders to the same bytes. Binary
// expressions are fully parenthesized so the text is unambiguous regardless
// of any source grammar's precedence rules.
type CodeGenerator struct {
	indentLevel int
	indentSize  int
}

func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{
		indentSize: 4,
	}
}

// Generate renders a tree as text, one statement per line.
func (g *CodeGenerator) Generate(node Node) string {
	return g.generateNode(node)
}

func (g *CodeGenerator) generateNode(node Node) string {
	switch n := node.(type) {
	case *Program:
		lines := make([]string, len(n.Statements))
		for i, s := range n.Statements {
			lines[i] = g.generateNode(s)
		}

		return strings.Join(lines, "\n")
	case *FuncDecl:
		var b strings.Builder
		indent := g.indent()

		b.WriteString(indent)
		b.WriteString("fn ")
		b.WriteString(n.Name)
		b.WriteString("(")
		b.WriteString(strings.Join(n.Params, ", "))
		b.WriteString(") {\n")

		g.indentLevel++
		for _, s := range n.Body {
			b.WriteString(g.generateNode(s))
			b.WriteString("\n")
		}
		g.indentLevel--

		b.WriteString(indent)
		b.WriteString("}")

		return b.String()
	case *VarDecl:
		return g.indent() + "let " + n.Name + " = " + g.generateExpr(n.Value) + ";"
	case *Assign:
		return g.indent() + n.Name + " = " + g.generateExpr(n.Value) + ";"
	case *If:
		var b strings.Builder
		indent := g.indent()

		b.WriteString(indent)
		b.WriteString("if ")
		b.WriteString(g.generateExpr(n.Cond))
		b.WriteString(" {\n")

		g.indentLevel++
		for _, s := range n.Then {
			b.WriteString(g.generateNode(s))
			b.WriteString("\n")
		}
		g.indentLevel--

		b.WriteString(indent)
		b.WriteString("}")

		if len(n.Else) > 0 {
			b.WriteString(" else {\n")

			g.indentLevel++
			for _, s := range n.Else {
				b.WriteString(g.generateNode(s))
				b.WriteString("\n")
			}
			g.indentLevel--

			b.WriteString(indent)
			b.WriteString("}")
		}

		return b.String()
	case *Loop:
		var b strings.Builder
		indent := g.indent()

		b.WriteString(indent)
		b.WriteString("repeat ")
		b.WriteString(strconv.FormatInt(n.Count, 10))
		b.WriteString(" {\n")

		g.indentLevel++
		for _, s := range n.Body {
			b.WriteString(g.generateNode(s))
			b.WriteString("\n")
		}
		g.indentLevel--

		b.WriteString(indent)
		b.WriteString("}")

		return b.String()
	case *Return:
		return g.indent() + "return " + g.generateExpr(n.Value) + ";"
	case *ExprStmt:
		return g.indent() + g.generateExpr(n.X) + ";"
	}

	return g.generateExpr(node)
}

func (g *CodeGenerator) generateExpr(node Node) string {
	switch n := node.(type) {
	case *IntLit:
		return strconv.FormatInt(n.Value, 10)
	case *FloatLit:
		return strconv.FormatFloat(n.Value, 'g', -1, 64)
	case *StringLit:
		return strconv.Quote(n.Value)
	case *BoolLit:
		return strconv.FormatBool(n.Value)
	case *NullLit:
		return "null"
	case *Identifier:
		return n.Name
	case *BinaryExpr:
		return "(" + g.generateExpr(n.Left) + " " + string(n.Op) + " " + g.generateExpr(n.Right) + ")"
	case *CallExpr:
		args := make([]string, len(n.Args))
		for i, arg := range n.Args {
			args[i] = g.generateExpr(arg)
		}

		return n.Name + "(" + strings.Join(args, ", ") + ")"
	}

	return ""
}

func (g *CodeGenerator) indent() string {
	return strings.Repeat(" ", g.indentLevel*g.indentSize)
}
