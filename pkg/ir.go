package ulmo

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// ValueLookup maps names to their lowered LLVM values within one scope.
type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

// Inherit copies every binding of t2 into the lookup.
func (l *ValueLookup) Inherit(t2 *ValueLookup) {
	for k, v := range t2.vals {
		l.Set(k, v)
	}
}

func (l *ValueLookup) Get(id string) (value.Value, error) {
	if val, ok := l.vals[id]; ok {
		return val, nil
	}

	return nil, fmt.Errorf("lower: undefined name %q", id)
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// LLVMGenerator lowers a tree to an LLVM module. All values are i64. Only
// function definitions have an LLVM surface; other top-level statements are
// skipped.
type LLVMGenerator struct {
	prog *Program
}

func NewLLVMGenerator(prog *Program) *LLVMGenerator {
	return &LLVMGenerator{
		prog: prog,
	}
}

func (g *LLVMGenerator) Do() (*ir.Module, error) {
	b := newLLVMBuilder()

	for _, stmt := range g.prog.Statements {
		if f, ok := stmt.(*FuncDecl); ok {
			if err := b.function(f); err != nil {
				return nil, err
			}
		}
	}

	return b.mod, nil
}

type llvmBuilder struct {
	mod    *ir.Module
	fn     *ir.Func
	block  *ir.Block
	values *ValueLookup
}

func newLLVMBuilder() *llvmBuilder {
	b := &llvmBuilder{
		mod:    ir.NewModule(),
		values: NewValueLookup(),
	}

	defineBuiltins(b)
	return b
}

func (b *llvmBuilder) function(decl *FuncDecl) error {
	params := make([]*ir.Param, len(decl.Params))
	for i, name := range decl.Params {
		params[i] = ir.NewParam(name, types.I64)
	}

	f := b.mod.NewFunc(decl.Name, types.I64, params...)
	b.values.Set(decl.Name, f)

	prevFn, prevBlock, prevVals := b.fn, b.block, b.values

	b.fn = f
	b.block = f.NewBlock("")
	b.values = NewValueLookup()
	b.values.Inherit(prevVals)

	defer func() {
		b.fn = prevFn
		b.block = prevBlock
		b.values = prevVals
	}()

	for i, name := range decl.Params {
		b.values.Set(name, params[i])
	}

	if err := b.stmts(decl.Body); err != nil {
		return err
	}

	if b.block.Term == nil {
		b.block.NewRet(constant.NewInt(types.I64, 0))
	}

	return nil
}

func (b *llvmBuilder) stmts(stmts []Stmt) error {
	for _, s := range stmts {
		if err := b.stmt(s); err != nil {
			return err
		}
	}

	return nil
}

func (b *llvmBuilder) stmt(stmt Stmt) error {
	switch s := stmt.(type) {
	case *VarDecl:
		v, err := b.expr(s.Value)
		if err != nil {
			return err
		}

		b.values.Set(s.Name, v)
	case *Assign:
		v, err := b.expr(s.Value)
		if err != nil {
			return err
		}

		b.values.Set(s.Name, v)
	case *ExprStmt:
		if _, err := b.expr(s.X); err != nil {
			return err
		}
	case *Return:
		v, err := b.expr(s.Value)
		if err != nil {
			return err
		}

		b.block.NewRet(v)
	case *If:
		return b.branch(s)
	case *Loop:
		// The iteration count is static, so the body lowers by repetition.
		for i := int64(0); i < s.Count; i++ {
			if err := b.stmts(s.Body); err != nil {
				return err
			}

			if b.block.Term != nil {
				break
			}
		}
	case *FuncDecl:
		return b.function(s)
	case *Program:
		return b.stmts(s.Statements)
	default:
		return fmt.Errorf("lower: unsupported statement %T", stmt)
	}

	return nil
}

// branch lowers an if statement to a conditional branch with a join block.
// There are no phi nodes: a name rebound inside a branch keeps its last
// lowered value at the join.
func (b *llvmBuilder) branch(s *If) error {
	cond, err := b.expr(s.Cond)
	if err != nil {
		return err
	}

	taken := b.block.NewICmp(enum.IPredNE, cond, constant.NewInt(types.I64, 0))

	thenBlock := b.fn.NewBlock("")
	elseBlock := b.fn.NewBlock("")
	joinBlock := b.fn.NewBlock("")

	b.block.NewCondBr(taken, thenBlock, elseBlock)

	b.block = thenBlock
	if err := b.stmts(s.Then); err != nil {
		return err
	}

	if b.block.Term == nil {
		b.block.NewBr(joinBlock)
	}

	b.block = elseBlock
	if err := b.stmts(s.Else); err != nil {
		return err
	}

	if b.block.Term == nil {
		b.block.NewBr(joinBlock)
	}

	b.block = joinBlock
	return nil
}

func (b *llvmBuilder) expr(expr Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *IntLit:
		return constant.NewInt(types.I64, e.Value), nil
	case *BoolLit:
		return constant.NewInt(types.I64, boolToInt(e.Value)), nil
	case *NullLit:
		return constant.NewInt(types.I64, 0), nil
	case *Identifier:
		return b.values.Get(e.Name)
	case *BinaryExpr:
		return b.binary(e)
	case *CallExpr:
		return b.call(e)
	default:
		return nil, fmt.Errorf("lower: unsupported expression %T", expr)
	}
}

func (b *llvmBuilder) binary(e *BinaryExpr) (value.Value, error) {
	l, err := b.expr(e.Left)
	if err != nil {
		return nil, err
	}

	r, err := b.expr(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case BinaryAdd:
		return b.block.NewAdd(l, r), nil
	case BinarySub:
		return b.block.NewSub(l, r), nil
	case BinaryMul:
		return b.block.NewMul(l, r), nil
	case BinaryDiv:
		return b.block.NewSDiv(l, r), nil
	case BinaryEq:
		return b.compare(enum.IPredEQ, l, r), nil
	case BinaryNotEq:
		return b.compare(enum.IPredNE, l, r), nil
	case BinaryLt:
		return b.compare(enum.IPredSLT, l, r), nil
	case BinaryGt:
		return b.compare(enum.IPredSGT, l, r), nil
	case BinaryAnd:
		lb := b.block.NewICmp(enum.IPredNE, l, constant.NewInt(types.I64, 0))
		rb := b.block.NewICmp(enum.IPredNE, r, constant.NewInt(types.I64, 0))

		return b.block.NewZExt(b.block.NewAnd(lb, rb), types.I64), nil
	case BinaryOr:
		lb := b.block.NewICmp(enum.IPredNE, l, constant.NewInt(types.I64, 0))
		rb := b.block.NewICmp(enum.IPredNE, r, constant.NewInt(types.I64, 0))

		return b.block.NewZExt(b.block.NewOr(lb, rb), types.I64), nil
	default:
		return nil, fmt.Errorf("lower: unexpected binary op %q", e.Op)
	}
}

// compare yields an i64 with the nonzero-is-true convention.
func (b *llvmBuilder) compare(pred enum.IPred, l, r value.Value) value.Value {
	return b.block.NewZExt(b.block.NewICmp(pred, l, r), types.I64)
}

func (b *llvmBuilder) call(e *CallExpr) (value.Value, error) {
	callee, err := b.values.Get(e.Name)
	if err != nil {
		return nil, err
	}

	args := make([]value.Value, len(e.Args))
	for i, arg := range e.Args {
		v, err := b.expr(arg)
		if err != nil {
			return nil, err
		}

		args[i] = v
	}

	return b.block.NewCall(callee, args...), nil
}
