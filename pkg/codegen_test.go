package ulmo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	cases := []struct {
		name   string
		tree   Node
		expect string
	}{
		{
			"integer literal",
			&IntLit{Value: 42},
			"42",
		},
		{
			"negative integer",
			&IntLit{Value: -7},
			"-7",
		},
		{
			"float literal",
			&FloatLit{Value: 2.5},
			"2.5",
		},
		{
			"string literal",
			&StringLit{Value: "hi"},
			`"hi"`,
		},
		{
			"boolean and null",
			&BinaryExpr{Op: BinaryEq, Left: &BoolLit{Value: true}, Right: &NullLit{}},
			"(true == null)",
		},
		{
			"identifier",
			&Identifier{Name: "variable"},
			"variable",
		},
		{
			"binary operation is parenthesized",
			&BinaryExpr{Op: BinaryAdd, Left: &IntLit{Value: 1}, Right: &IntLit{Value: 2}},
			"(1 + 2)",
		},
		{
			"nested binary operations",
			&BinaryExpr{
				Op:    BinaryMul,
				Left:  &BinaryExpr{Op: BinaryAdd, Left: &Identifier{Name: "a"}, Right: &IntLit{Value: 1}},
				Right: &Identifier{Name: "b"},
			},
			"((a + 1) * b)",
		},
		{
			"call expression",
			&CallExpr{Name: "max", Args: []Expr{&Identifier{Name: "a"}, &IntLit{Value: 3}}},
			"max(a, 3)",
		},
		{
			"variable declaration",
			&VarDecl{Name: "x", Value: &IntLit{Value: 10}},
			"let x = 10;",
		},
		{
			"assignment",
			&Assign{Name: "x", Value: &BinaryExpr{Op: BinarySub, Left: &Identifier{Name: "x"}, Right: &IntLit{Value: 1}}},
			"x = (x - 1);",
		},
		{
			"expression statement",
			&ExprStmt{X: &CallExpr{Name: "print", Args: []Expr{&Identifier{Name: "x"}}}},
			"print(x);",
		},
		{
			"return",
			&Return{Value: &Identifier{Name: "a"}},
			"return a;",
		},
		{
			"function with body",
			&FuncDecl{Name: "test", Params: []string{"a"}, Body: []Stmt{
				&Return{Value: &Identifier{Name: "a"}},
			}},
			"fn test(a) {\n    return a;\n}",
		},
		{
			"if with else",
			&If{
				Cond: &BinaryExpr{Op: BinaryGt, Left: &Identifier{Name: "a"}, Right: &Identifier{Name: "b"}},
				Then: []Stmt{&Return{Value: &Identifier{Name: "a"}}},
				Else: []Stmt{&Return{Value: &Identifier{Name: "b"}}},
			},
			"if (a > b) {\n    return a;\n} else {\n    return b;\n}",
		},
		{
			"loop",
			&Loop{Count: 3, Body: []Stmt{
				&Assign{Name: "n", Value: &BinaryExpr{Op: BinaryAdd, Left: &Identifier{Name: "n"}, Right: &IntLit{Value: 1}}},
			}},
			"repeat 3 {\n    n = (n + 1);\n}",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			g := NewCodeGenerator()
			assert.Equal(t, c.expect, g.Generate(c.tree))
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	tree := &Program{Statements: []Stmt{
		&FuncDecl{Name: "f", Params: []string{"x"}, Body: []Stmt{
			&VarDecl{Name: "y", Value: &BinaryExpr{
				Op:    BinaryMul,
				Left:  &Identifier{Name: "x"},
				Right: &IntLit{Value: 2},
			}},
			&Return{Value: &Identifier{Name: "y"}},
		}},
	}}

	first := NewCodeGenerator().Generate(tree)
	second := NewCodeGenerator().Generate(tree)

	assert.Equal(t, first, second)
}

func TestGenerateReusableGenerator(t *testing.T) {
	// Indentation must come back to zero after every statement, so one
	// generator can render many trees.
	g := NewCodeGenerator()

	f := &FuncDecl{Name: "f", Body: []Stmt{&Return{Value: &IntLit{Value: 1}}}}

	assert.Equal(t, g.Generate(f), g.Generate(f))
	assert.Equal(t, "let x = 1;", g.Generate(&VarDecl{Name: "x", Value: &IntLit{Value: 1}}))
}
