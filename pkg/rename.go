package ulmo

// Renamer rewrites identifiers uniformly across a tree: function names at
// definition and call sites, parameter names, declared and assigned variable
// names, and plain references. Names without a mapping pass through
// unchanged. The rewrite is semantics-preserving as long as the caller's
// table introduces no collisions within a scope; the Renamer does not detect
// collisions.
type Renamer struct {
	renames map[string]string
}

func NewRenamer() *Renamer {
	return &Renamer{
		renames: make(map[string]string),
	}
}

// AddRename maps every occurrence of old to new.
func (r *Renamer) AddRename(old, new string) {
	r.renames[old] = new
}

// Transform returns a structurally new tree with all renames applied. The
// input tree is left untouched.
func (r *Renamer) Transform(node Node) Node {
	switch n := node.(type) {
	case Expr:
		return r.TransformExpr(n)
	case Stmt:
		return r.TransformStmt(n)
	}

	return node
}

func (r *Renamer) TransformExpr(e Expr) Expr {
	switch e := e.(type) {
	case *Identifier:
		return &Identifier{Name: r.rename(e.Name)}
	case *BinaryExpr:
		return &BinaryExpr{
			Op:    e.Op,
			Left:  r.TransformExpr(e.Left),
			Right: r.TransformExpr(e.Right),
		}
	case *CallExpr:
		args := make([]Expr, len(e.Args))
		for i, arg := range e.Args {
			args[i] = r.TransformExpr(arg)
		}

		return &CallExpr{Name: r.rename(e.Name), Args: args}
	}

	// Literals carry no names.
	return CloneExpr(e)
}

func (r *Renamer) TransformStmt(s Stmt) Stmt {
	switch s := s.(type) {
	case *VarDecl:
		return &VarDecl{Name: r.rename(s.Name), Value: r.TransformExpr(s.Value)}
	case *Assign:
		return &Assign{Name: r.rename(s.Name), Value: r.TransformExpr(s.Value)}
	case *If:
		return &If{
			Cond: r.TransformExpr(s.Cond),
			Then: r.transformStmts(s.Then),
			Else: r.transformStmts(s.Else),
		}
	case *Loop:
		return &Loop{Count: s.Count, Body: r.transformStmts(s.Body)}
	case *Return:
		return &Return{Value: r.TransformExpr(s.Value)}
	case *ExprStmt:
		return &ExprStmt{X: r.TransformExpr(s.X)}
	case *FuncDecl:
		params := make([]string, len(s.Params))
		for i, p := range s.Params {
			params[i] = r.rename(p)
		}

		return &FuncDecl{
			Name:   r.rename(s.Name),
			Params: params,
			Body:   r.transformStmts(s.Body),
		}
	case *Program:
		return &Program{Statements: r.transformStmts(s.Statements)}
	}

	return CloneStmt(s)
}

func (r *Renamer) transformStmts(stmts []Stmt) []Stmt {
	if stmts == nil {
		return nil
	}

	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = r.TransformStmt(s)
	}

	return out
}

func (r *Renamer) rename(name string) string {
	if to, ok := r.renames[name]; ok {
		return to
	}

	return name
}
