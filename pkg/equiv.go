package ulmo

// EquivalenceChecker sample-tests two expressions for agreement under a set
// of variable bindings. It is a finite-sample check, not a proof: it can
// report two expressions equivalent that differ outside the sampled
// scenarios, but it never reports a difference that the samples do not show.
type EquivalenceChecker struct {
	scenarios []map[string]int64
}

func NewEquivalenceChecker() *EquivalenceChecker {
	return &EquivalenceChecker{}
}

// AddScenario registers one concrete assignment of integer values to
// variable names.
func (c *EquivalenceChecker) AddScenario(vars map[string]int64) {
	c.scenarios = append(c.scenarios, vars)
}

// Equivalent reports whether two expressions agree on every registered
// scenario. With no scenarios registered, structural equality is the only
// available oracle. A scenario where either side is undefined (an unbound
// name, a call, division by zero) is inconclusive and skipped.
func (c *EquivalenceChecker) Equivalent(a, b Expr) bool {
	if len(c.scenarios) == 0 {
		return Equal(a, b)
	}

	for _, scenario := range c.scenarios {
		va, oka := evalExpr(a, scenario)
		vb, okb := evalExpr(b, scenario)

		if !oka || !okb {
			continue
		}

		if va != vb {
			return false
		}
	}

	return true
}

func evalExpr(e Expr, vars map[string]int64) (int64, bool) {
	switch e := e.(type) {
	case *IntLit:
		return e.Value, true
	case *BoolLit:
		return boolToInt(e.Value), true
	case *Identifier:
		v, ok := vars[e.Name]
		return v, ok
	case *BinaryExpr:
		l, ok := evalExpr(e.Left, vars)
		if !ok {
			return 0, false
		}

		r, ok := evalExpr(e.Right, vars)
		if !ok {
			return 0, false
		}

		return evalBinary(e.Op, l, r)
	}

	// Calls and non-integer literals are not evaluable here.
	return 0, false
}
