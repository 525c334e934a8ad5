package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ulmo "go.ulmo.dev/pkg"
)

func writeTree(t *testing.T, node ulmo.Node) string {
	t.Helper()

	data, err := ulmo.MarshalTree(node)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := NewRootCommand()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func sampleProgram() *ulmo.Program {
	return &ulmo.Program{
		Statements: []ulmo.Stmt{
			&ulmo.FuncDecl{
				Name:   "main",
				Params: nil,
				Body: []ulmo.Stmt{
					&ulmo.VarDecl{Name: "x", Value: &ulmo.IntLit{Value: 1}},
					&ulmo.Return{Value: &ulmo.BinaryExpr{
						Op:    ulmo.BinaryAdd,
						Left:  &ulmo.Identifier{Name: "x"},
						Right: &ulmo.IntLit{Value: 2},
					}},
				},
			},
		},
	}
}

func TestAnalyzeText(t *testing.T) {
	path := writeTree(t, sampleProgram())

	out, _, err := runCommand(t, "analyze", path)
	require.NoError(t, err)

	assert.Contains(t, out, "functions:  1")
	assert.Contains(t, out, "variables:  1")
	assert.Contains(t, out, "calls:      0")
}

func TestAnalyzeJSON(t *testing.T) {
	path := writeTree(t, sampleProgram())

	out, _, err := runCommand(t, "analyze", path, "--format", "json")
	require.NoError(t, err)

	var stats ulmo.Statistics
	require.NoError(t, json.Unmarshal([]byte(out), &stats))

	assert.Equal(t, 1, stats.Functions)
	assert.Equal(t, 1, stats.Variables)
	assert.Equal(t, 0, stats.Calls)
}

func TestAnalyzeVerboseGoesToStderr(t *testing.T) {
	path := writeTree(t, sampleProgram())

	out, errOut, err := runCommand(t, "analyze", path, "--verbose", "--format", "json")
	require.NoError(t, err)

	assert.Contains(t, errOut, "analyzing")
	require.NoError(t, json.Unmarshal([]byte(out), &ulmo.Statistics{}))
}

func TestAnalyzeMissingFile(t *testing.T) {
	_, _, err := runCommand(t, "analyze", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestOptimizeConstantFolding(t *testing.T) {
	path := writeTree(t, &ulmo.VarDecl{
		Name: "x",
		Value: &ulmo.BinaryExpr{
			Op:    ulmo.BinaryAdd,
			Left:  &ulmo.IntLit{Value: 2},
			Right: &ulmo.IntLit{Value: 3},
		},
	})

	out, _, err := runCommand(t, "optimize", path, "--strategy", "constant-folding")
	require.NoError(t, err)

	assert.Contains(t, out, "strategy:     constant-folding")
	assert.Contains(t, out, "preservation: guaranteed")
	assert.Contains(t, out, "changes:      1")
	assert.Contains(t, out, "let x = 5;")
}

func TestOptimizeJSON(t *testing.T) {
	path := writeTree(t, &ulmo.Loop{
		Count: 2,
		Body: []ulmo.Stmt{
			&ulmo.ExprStmt{X: &ulmo.CallExpr{Name: "tick"}},
		},
	})

	out, _, err := runCommand(t, "optimize", path, "--strategy", "loop-unrolling", "--format", "json")
	require.NoError(t, err)

	var report OptimizeReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, "loop-unrolling", report.Strategy)
	assert.Equal(t, "likely", report.Preservation)
	assert.Equal(t, 1, report.Changes)
	assert.Contains(t, report.Code, "tick()")
	assert.NotContains(t, report.Code, "repeat")
}

func TestOptimizeMaxUnrollFlag(t *testing.T) {
	path := writeTree(t, &ulmo.Loop{
		Count: 4,
		Body: []ulmo.Stmt{
			&ulmo.ExprStmt{X: &ulmo.CallExpr{Name: "tick"}},
		},
	})

	out, _, err := runCommand(t, "optimize", path, "--strategy", "loop-unrolling", "--max-unroll", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "changes:      0")
	assert.Contains(t, out, "repeat 4 {")
}

func TestOptimizeScenarioVerification(t *testing.T) {
	path := writeTree(t, &ulmo.Return{Value: &ulmo.BinaryExpr{
		Op:    ulmo.BinaryAdd,
		Left:  &ulmo.Identifier{Name: "x"},
		Right: &ulmo.IntLit{Value: 0},
	}})

	out, _, err := runCommand(t, "optimize", path,
		"--strategy", "simplification", "--scenario", "x=5", "--scenario", "x=-3")
	require.NoError(t, err)

	assert.Contains(t, out, "verification: verified")
	assert.Contains(t, out, "return x;")
}

func TestOptimizeBadScenario(t *testing.T) {
	path := writeTree(t, &ulmo.ExprStmt{X: &ulmo.IntLit{Value: 1}})

	_, _, err := runCommand(t, "optimize", path, "--scenario", "nonsense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid scenario binding")
}

func TestOptimizeUnknownStrategy(t *testing.T) {
	path := writeTree(t, &ulmo.ExprStmt{X: &ulmo.IntLit{Value: 1}})

	_, _, err := runCommand(t, "optimize", path, "--strategy", "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown strategy")
}

func TestOptimizeRejectsExpressionRoot(t *testing.T) {
	path := writeTree(t, &ulmo.IntLit{Value: 1})

	_, _, err := runCommand(t, "optimize", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a statement")
}

func TestEmitSource(t *testing.T) {
	path := writeTree(t, sampleProgram())

	out, _, err := runCommand(t, "emit", path)
	require.NoError(t, err)

	assert.Contains(t, out, "fn main() {")
	assert.Contains(t, out, "let x = 1;")
	assert.Contains(t, out, "return (x + 2);")
}

func TestEmitLLVM(t *testing.T) {
	path := writeTree(t, sampleProgram())

	out, _, err := runCommand(t, "emit", path, "--llvm")
	require.NoError(t, err)

	assert.Contains(t, out, "define i64 @main()")
	assert.Contains(t, out, "ret i64")
}

func TestEmitLLVMRequiresProgram(t *testing.T) {
	path := writeTree(t, &ulmo.VarDecl{Name: "x", Value: &ulmo.IntLit{Value: 1}})

	_, _, err := runCommand(t, "emit", path, "--llvm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "program")
}

func TestEmitJSON(t *testing.T) {
	path := writeTree(t, sampleProgram())

	out, _, err := runCommand(t, "emit", path, "--format", "json")
	require.NoError(t, err)

	var report EmitReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, "source", report.Target)
	assert.Contains(t, report.Code, "fn main() {")
}

func TestInvalidFormat(t *testing.T) {
	path := writeTree(t, sampleProgram())

	_, _, err := runCommand(t, "analyze", path, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
