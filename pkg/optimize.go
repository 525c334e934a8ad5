package ulmo

// Strategy names one behavior-preserving rewrite rule. Strategies are
// applied one at a time; composing them is the caller's call, and a
// composition is only as safe as its weakest member.
type Strategy int

const (
	ConstantFolding Strategy = iota
	ExpressionSimplification
	DeadCodeElimination
	LoopUnrolling
	FunctionInlining
)

func (s Strategy) String() string {
	switch s {
	case ConstantFolding:
		return "constant-folding"
	case ExpressionSimplification:
		return "simplification"
	case DeadCodeElimination:
		return "dead-code-elimination"
	case LoopUnrolling:
		return "loop-unrolling"
	case FunctionInlining:
		return "function-inlining"
	default:
		return "unknown"
	}
}

// PreservationLevel classifies how confidently a rewrite keeps observable
// behavior intact.
type PreservationLevel int

const (
	// Guaranteed rewrites never change observable behavior.
	Guaranteed PreservationLevel = iota
	// Likely rewrites are correct in isolation but rest on assumptions that
	// composition with other passes could invalidate.
	Likely
	// Unsafe rewrites must not be relied on to preserve behavior.
	Unsafe
)

func (l PreservationLevel) String() string {
	switch l {
	case Guaranteed:
		return "guaranteed"
	case Likely:
		return "likely"
	case Unsafe:
		return "unsafe"
	default:
		return "unknown"
	}
}

// RewriteResult carries one rewritten statement together with the strategy's
// preservation guarantee and the number of applied changes.
type RewriteResult struct {
	Original  Stmt
	Rewritten Stmt
	Strategy  Strategy
	Level     PreservationLevel
	Changes   int
}

// Optimizer applies semantic rewrite strategies to statements. Every rewrite
// is a pure function: the input tree is never mutated, a new tree comes
// back.
type Optimizer struct {
	// MaxUnroll bounds loop unrolling; loops with a larger iteration count
	// are left untouched.
	MaxUnroll int64

	consts map[string]int64
}

func NewOptimizer() *Optimizer {
	return &Optimizer{
		MaxUnroll: 8,
		consts:    make(map[string]int64),
	}
}

// MarkConstant registers a variable as bound to a known constant, letting
// ConstantFold substitute references to it.
func (o *Optimizer) MarkConstant(name string, value int64) {
	o.consts[name] = value
}

// Rewrite applies one strategy to a statement.
func (o *Optimizer) Rewrite(stmt Stmt, strategy Strategy) RewriteResult {
	changes := 0

	var rewritten Stmt
	switch strategy {
	case ConstantFolding:
		rewritten = o.foldStmt(stmt, &changes)
	case ExpressionSimplification:
		rewritten = o.simplifyStmt(stmt, &changes)
	case DeadCodeElimination:
		rewritten = o.eliminateStmt(stmt, &changes)
	case LoopUnrolling:
		rewritten = o.unrollStmt(stmt, &changes)
	default:
		// Function inlining needs capture and shadowing analysis this
		// package does not do; it passes the input through untouched.
		rewritten = stmt
	}

	return RewriteResult{
		Original:  stmt,
		Rewritten: rewritten,
		Strategy:  strategy,
		Level:     strategy.Level(),
		Changes:   changes,
	}
}

// Level reports the preservation guarantee attached to a strategy.
func (s Strategy) Level() PreservationLevel {
	switch s {
	case ConstantFolding, ExpressionSimplification:
		return Guaranteed
	case DeadCodeElimination, LoopUnrolling:
		return Likely
	default:
		return Unsafe
	}
}

// ConstantFold reduces an expression by evaluating operators whose operands
// are integer literals and by substituting variables marked constant.
// Division by a literal zero is left unfolded so the original's runtime
// behavior is preserved.
func (o *Optimizer) ConstantFold(expr Expr) Expr {
	switch e := expr.(type) {
	case *BinaryExpr:
		left := o.ConstantFold(e.Left)
		right := o.ConstantFold(e.Right)

		if l, ok := left.(*IntLit); ok {
			if r, ok := right.(*IntLit); ok {
				if v, ok := evalBinary(e.Op, l.Value, r.Value); ok {
					return &IntLit{Value: v}
				}
			}
		}

		return &BinaryExpr{Op: e.Op, Left: left, Right: right}
	case *Identifier:
		if v, ok := o.consts[e.Name]; ok {
			return &IntLit{Value: v}
		}

		return e
	case *CallExpr:
		args := make([]Expr, len(e.Args))
		for i, arg := range e.Args {
			args[i] = o.ConstantFold(arg)
		}

		return &CallExpr{Name: e.Name, Args: args}
	}

	return expr
}

func (o *Optimizer) foldStmt(stmt Stmt, changes *int) Stmt {
	switch s := stmt.(type) {
	case *VarDecl:
		return &VarDecl{Name: s.Name, Value: o.foldExpr(s.Value, changes)}
	case *Assign:
		return &Assign{Name: s.Name, Value: o.foldExpr(s.Value, changes)}
	case *Return:
		return &Return{Value: o.foldExpr(s.Value, changes)}
	case *ExprStmt:
		return &ExprStmt{X: o.foldExpr(s.X, changes)}
	case *If:
		return &If{
			Cond: o.foldExpr(s.Cond, changes),
			Then: o.foldStmts(s.Then, changes),
			Else: o.foldStmts(s.Else, changes),
		}
	case *Loop:
		return &Loop{Count: s.Count, Body: o.foldStmts(s.Body, changes)}
	case *FuncDecl:
		return &FuncDecl{Name: s.Name, Params: s.Params, Body: o.foldStmts(s.Body, changes)}
	case *Program:
		return &Program{Statements: o.foldStmts(s.Statements, changes)}
	}

	return stmt
}

func (o *Optimizer) foldExpr(expr Expr, changes *int) Expr {
	folded := o.ConstantFold(expr)
	if !Equal(folded, expr) {
		*changes++
	}

	return folded
}

func (o *Optimizer) foldStmts(stmts []Stmt, changes *int) []Stmt {
	if stmts == nil {
		return nil
	}

	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = o.foldStmt(s, changes)
	}

	return out
}

func (o *Optimizer) simplifyStmt(stmt Stmt, changes *int) Stmt {
	switch s := stmt.(type) {
	case *VarDecl:
		return &VarDecl{Name: s.Name, Value: o.SimplifyExpr(s.Value, changes)}
	case *Assign:
		return &Assign{Name: s.Name, Value: o.SimplifyExpr(s.Value, changes)}
	case *Return:
		return &Return{Value: o.SimplifyExpr(s.Value, changes)}
	case *ExprStmt:
		return &ExprStmt{X: o.SimplifyExpr(s.X, changes)}
	case *If:
		return &If{
			Cond: o.SimplifyExpr(s.Cond, changes),
			Then: o.simplifyStmts(s.Then, changes),
			Else: o.simplifyStmts(s.Else, changes),
		}
	case *Loop:
		return &Loop{Count: s.Count, Body: o.simplifyStmts(s.Body, changes)}
	case *FuncDecl:
		return &FuncDecl{Name: s.Name, Params: s.Params, Body: o.simplifyStmts(s.Body, changes)}
	case *Program:
		return &Program{Statements: o.simplifyStmts(s.Statements, changes)}
	}

	return stmt
}

func (o *Optimizer) simplifyStmts(stmts []Stmt, changes *int) []Stmt {
	if stmts == nil {
		return nil
	}

	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = o.simplifyStmt(s, changes)
	}

	return out
}

// SimplifyExpr applies local algebraic identities bottom-up: x+0, 0+x and
// x*1, 1*x reduce to x; x*0 and 0*x reduce to 0. Each identity holds for
// every value of x under this tree's integer arithmetic.
func (o *Optimizer) SimplifyExpr(expr Expr, changes *int) Expr {
	switch e := expr.(type) {
	case *BinaryExpr:
		left := o.SimplifyExpr(e.Left, changes)
		right := o.SimplifyExpr(e.Right, changes)

		switch e.Op {
		case BinaryAdd:
			if isIntLit(right, 0) {
				*changes++
				return left
			}

			if isIntLit(left, 0) {
				*changes++
				return right
			}
		case BinaryMul:
			if isIntLit(right, 1) {
				*changes++
				return left
			}

			if isIntLit(left, 1) {
				*changes++
				return right
			}

			if isIntLit(left, 0) || isIntLit(right, 0) {
				*changes++
				return &IntLit{Value: 0}
			}
		}

		return &BinaryExpr{Op: e.Op, Left: left, Right: right}
	case *CallExpr:
		args := make([]Expr, len(e.Args))
		for i, arg := range e.Args {
			args[i] = o.SimplifyExpr(arg, changes)
		}

		return &CallExpr{Name: e.Name, Args: args}
	}

	return expr
}

func isIntLit(e Expr, v int64) bool {
	lit, ok := e.(*IntLit)
	return ok && lit.Value == v
}

func (o *Optimizer) eliminateStmt(stmt Stmt, changes *int) Stmt {
	switch s := stmt.(type) {
	case *If:
		if taken, ok := literalTruth(s.Cond); ok {
			*changes++

			branch := s.Then
			if !taken {
				branch = s.Else
			}

			switch len(branch) {
			case 0:
				// Nothing survives; leave a no-op in statement position.
				return &ExprStmt{X: &IntLit{Value: 0}}
			case 1:
				return branch[0]
			default:
				// The survivors have to stay a single statement, so they
				// keep a shell whose condition is always taken, whichever
				// side they came from.
				return &If{Cond: &IntLit{Value: 1}, Then: branch}
			}
		}

		return &If{
			Cond: s.Cond,
			Then: o.eliminateStmts(s.Then, changes),
			Else: o.eliminateStmts(s.Else, changes),
		}
	case *Loop:
		return &Loop{Count: s.Count, Body: o.eliminateStmts(s.Body, changes)}
	case *FuncDecl:
		return &FuncDecl{Name: s.Name, Params: s.Params, Body: o.eliminateStmts(s.Body, changes)}
	case *Program:
		return &Program{Statements: o.eliminateStmts(s.Statements, changes)}
	}

	return stmt
}

func (o *Optimizer) eliminateStmts(stmts []Stmt, changes *int) []Stmt {
	if stmts == nil {
		return nil
	}

	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = o.eliminateStmt(s, changes)
	}

	return out
}

// literalTruth reports whether a condition is a literal, and if so whether
// it is true. Integers follow the nonzero-is-true convention.
func literalTruth(cond Expr) (truth, ok bool) {
	switch c := cond.(type) {
	case *IntLit:
		return c.Value != 0, true
	case *BoolLit:
		return c.Value, true
	}

	return false, false
}

func (o *Optimizer) unrollStmt(stmt Stmt, changes *int) Stmt {
	switch s := stmt.(type) {
	case *Loop:
		if s.Count <= 0 || s.Count > o.MaxUnroll {
			return s
		}

		*changes++

		unrolled := make([]Stmt, 0, int(s.Count)*len(s.Body))
		for i := int64(0); i < s.Count; i++ {
			// Each repetition is a fresh copy so no subtree ends up with
			// two parents.
			unrolled = append(unrolled, cloneStmts(s.Body)...)
		}

		return &If{Cond: &IntLit{Value: 1}, Then: unrolled}
	case *If:
		return &If{
			Cond: s.Cond,
			Then: o.unrollStmts(s.Then, changes),
			Else: o.unrollStmts(s.Else, changes),
		}
	case *FuncDecl:
		return &FuncDecl{Name: s.Name, Params: s.Params, Body: o.unrollStmts(s.Body, changes)}
	case *Program:
		return &Program{Statements: o.unrollStmts(s.Statements, changes)}
	}

	return stmt
}

func (o *Optimizer) unrollStmts(stmts []Stmt, changes *int) []Stmt {
	if stmts == nil {
		return nil
	}

	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = o.unrollStmt(s, changes)
	}

	return out
}

// evalBinary evaluates one operator over two integers. Comparisons and
// logical operators yield 1 or 0. The second result is false when the
// operation is undefined, which here means division by zero.
func evalBinary(op BinaryOp, l, r int64) (int64, bool) {
	switch op {
	case BinaryAdd:
		return l + r, true
	case BinarySub:
		return l - r, true
	case BinaryMul:
		return l * r, true
	case BinaryDiv:
		if r == 0 {
			return 0, false
		}

		return l / r, true
	case BinaryEq:
		return boolToInt(l == r), true
	case BinaryNotEq:
		return boolToInt(l != r), true
	case BinaryLt:
		return boolToInt(l < r), true
	case BinaryGt:
		return boolToInt(l > r), true
	case BinaryAnd:
		return boolToInt(l != 0 && r != 0), true
	case BinaryOr:
		return boolToInt(l != 0 || r != 0), true
	}

	return 0, false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}

	return 0
}
