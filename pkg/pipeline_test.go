package ulmo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineVerifiesFoldedExpression(t *testing.T) {
	p := NewPipeline()
	p.AddScenario(map[string]int64{})

	stmt := &VarDecl{
		Name: "x",
		Value: &BinaryExpr{
			Op:    BinaryAdd,
			Left:  &IntLit{Value: 2},
			Right: &IntLit{Value: 3},
		},
	}

	result := p.Run(stmt, ConstantFolding)

	assert.Equal(t, 1, result.Changes)
	assert.Equal(t, Verified, result.Status)
	assert.True(t, Equal(result.Rewritten, &VarDecl{Name: "x", Value: &IntLit{Value: 5}}))
}

func TestPipelineVerifiesSimplificationUnderBindings(t *testing.T) {
	p := NewPipeline()
	p.AddScenario(map[string]int64{"x": 7})
	p.AddScenario(map[string]int64{"x": -1})

	stmt := &Return{Value: &BinaryExpr{
		Op:    BinaryAdd,
		Left:  &Identifier{Name: "x"},
		Right: &IntLit{Value: 0},
	}}

	result := p.Run(stmt, ExpressionSimplification)

	assert.Equal(t, Verified, result.Status)
	assert.True(t, Equal(result.Rewritten, &Return{Value: &Identifier{Name: "x"}}))
}

func TestPipelineInconclusiveWithoutScenarios(t *testing.T) {
	p := NewPipeline()

	stmt := &ExprStmt{X: &BinaryExpr{
		Op:    BinaryMul,
		Left:  &IntLit{Value: 6},
		Right: &IntLit{Value: 7},
	}}

	result := p.Run(stmt, ConstantFolding)

	assert.Equal(t, Inconclusive, result.Status)
	assert.Equal(t, 1, result.Changes)
}

func TestPipelineInconclusiveForCompoundStatements(t *testing.T) {
	p := NewPipeline()
	p.AddScenario(map[string]int64{})

	stmt := &If{
		Cond: &IntLit{Value: 1},
		Then: []Stmt{
			&ExprStmt{X: &CallExpr{Name: "tick"}},
		},
	}

	result := p.Run(stmt, DeadCodeElimination)

	assert.Equal(t, Inconclusive, result.Status)
}

func TestPipelineMaxUnrollPassthrough(t *testing.T) {
	p := NewPipeline()
	p.Optimizer().MaxUnroll = 2

	stmt := &Loop{
		Count: 3,
		Body: []Stmt{
			&ExprStmt{X: &CallExpr{Name: "tick"}},
		},
	}

	result := p.Run(stmt, LoopUnrolling)

	assert.Equal(t, 0, result.Changes)
	assert.True(t, Equal(result.Rewritten, stmt))
}

func TestVerificationStatusString(t *testing.T) {
	cases := []struct {
		status   VerificationStatus
		expected string
	}{
		{Verified, "verified"},
		{Mismatch, "mismatch"},
		{Inconclusive, "inconclusive"},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, c.status.String())
	}
}
