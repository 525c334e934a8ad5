package ulmo

// Pipeline drives a rewrite end to end: apply one strategy, then sample the
// result against the original under the registered scenarios.
type Pipeline struct {
	optimizer *Optimizer
	checker   *EquivalenceChecker
}

func NewPipeline() *Pipeline {
	return &Pipeline{
		optimizer: NewOptimizer(),
		checker:   NewEquivalenceChecker(),
	}
}

// Optimizer exposes the underlying optimizer for configuration.
func (p *Pipeline) Optimizer() *Optimizer {
	return p.optimizer
}

// AddScenario registers one variable binding used for verification.
func (p *Pipeline) AddScenario(bindings map[string]int64) {
	p.checker.AddScenario(bindings)
}

// VerificationStatus classifies the sampled comparison of a rewrite's
// output against its input.
type VerificationStatus int

const (
	// Inconclusive means the statements carry no comparable expression.
	Inconclusive VerificationStatus = iota
	// Verified means every sampled scenario agreed.
	Verified
	// Mismatch means at least one scenario produced different values.
	Mismatch
)

func (s VerificationStatus) String() string {
	switch s {
	case Verified:
		return "verified"
	case Mismatch:
		return "mismatch"
	default:
		return "inconclusive"
	}
}

// PipelineResult is a rewrite together with its verification outcome.
type PipelineResult struct {
	RewriteResult
	Status VerificationStatus
}

// Run rewrites the statement with the given strategy and verifies the
// result. Statements that do not carry a single comparable expression
// (ifs, loops, function definitions) report Inconclusive.
func (p *Pipeline) Run(stmt Stmt, strategy Strategy) PipelineResult {
	result := p.optimizer.Rewrite(stmt, strategy)

	return PipelineResult{
		RewriteResult: result,
		Status:        p.verify(result.Original, result.Rewritten),
	}
}

func (p *Pipeline) verify(original, rewritten Stmt) VerificationStatus {
	// The checker's structural fallback is the wrong oracle here: a rewrite
	// is supposed to change structure. Without samples there is no verdict.
	if len(p.checker.scenarios) == 0 {
		return Inconclusive
	}

	before, ok := carriedExpr(original)
	if !ok {
		return Inconclusive
	}

	after, ok := carriedExpr(rewritten)
	if !ok {
		return Inconclusive
	}

	if p.checker.Equivalent(before, after) {
		return Verified
	}

	return Mismatch
}

// carriedExpr extracts the single expression a statement evaluates, when
// there is exactly one.
func carriedExpr(stmt Stmt) (Expr, bool) {
	switch s := stmt.(type) {
	case *VarDecl:
		return s.Value, true
	case *Assign:
		return s.Value, true
	case *Return:
		return s.Value, true
	case *ExprStmt:
		return s.X, true
	}

	return nil, false
}
