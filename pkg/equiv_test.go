package ulmo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEquivalent(t *testing.T) {
	cases := []struct {
		name      string
		scenarios []map[string]int64
		a         Expr
		b         Expr
		want      bool
	}{
		{
			"agreeing expressions",
			[]map[string]int64{{"x": 5}},
			&BinaryExpr{Op: BinaryAdd, Left: &Identifier{Name: "x"}, Right: &IntLit{Value: 3}},
			&IntLit{Value: 8},
			true,
		},
		{
			"disagreeing expressions",
			[]map[string]int64{{"x": 5}},
			&BinaryExpr{Op: BinaryAdd, Left: &Identifier{Name: "x"}, Right: &IntLit{Value: 3}},
			&IntLit{Value: 10},
			false,
		},
		{
			"one of several scenarios disagrees",
			[]map[string]int64{{"x": 0}, {"x": 1}},
			&BinaryExpr{Op: BinaryMul, Left: &Identifier{Name: "x"}, Right: &Identifier{Name: "x"}},
			&Identifier{Name: "x"},
			false,
		},
		{
			"unbound name is inconclusive, not a failure",
			[]map[string]int64{{"x": 5}},
			&Identifier{Name: "y"},
			&IntLit{Value: 1},
			true,
		},
		{
			"division by zero is inconclusive",
			[]map[string]int64{{"x": 0}},
			&BinaryExpr{Op: BinaryDiv, Left: &IntLit{Value: 1}, Right: &Identifier{Name: "x"}},
			&IntLit{Value: 99},
			true,
		},
		{
			"calls are not evaluable",
			[]map[string]int64{{"x": 5}},
			&CallExpr{Name: "f", Args: []Expr{&Identifier{Name: "x"}}},
			&IntLit{Value: 0},
			true,
		},
		{
			"comparisons evaluate to one or zero",
			[]map[string]int64{{"a": 2, "b": 3}},
			&BinaryExpr{Op: BinaryLt, Left: &Identifier{Name: "a"}, Right: &Identifier{Name: "b"}},
			&IntLit{Value: 1},
			true,
		},
		{
			"boolean literals follow the integer convention",
			[]map[string]int64{{}},
			&BoolLit{Value: true},
			&IntLit{Value: 1},
			true,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			checker := NewEquivalenceChecker()
			for _, s := range c.scenarios {
				checker.AddScenario(s)
			}

			assert.Equal(t, c.want, checker.Equivalent(c.a, c.b))
		})
	}
}

func TestEquivalentStructuralFallback(t *testing.T) {
	// With no scenarios the only oracle is structural equality.
	checker := NewEquivalenceChecker()

	a := &BinaryExpr{Op: BinaryAdd, Left: &Identifier{Name: "x"}, Right: &IntLit{Value: 0}}
	b := &Identifier{Name: "x"}

	assert.False(t, checker.Equivalent(a, b))
	assert.True(t, checker.Equivalent(a, a))

	checker.AddScenario(map[string]int64{"x": 4})
	assert.True(t, checker.Equivalent(a, b))
}
