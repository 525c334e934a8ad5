package ulmo

// Statistics aggregates structural facts about a tree.
type Statistics struct {
	Functions int `json:"functions"`
	Variables int `json:"variables"`
	Calls     int `json:"calls"`
	MaxDepth  int `json:"max_depth"`
}

// Analyze walks a tree read-only and collects aggregate statistics. The root
// sits at depth 0; every step into a child subtree adds one.
func Analyze(node Node) Statistics {
	a := &analyzer{}
	a.visit(node, 0)

	return a.stats
}

type analyzer struct {
	stats Statistics
}

func (a *analyzer) visit(node Node, depth int) {
	if depth > a.stats.MaxDepth {
		a.stats.MaxDepth = depth
	}

	switch n := node.(type) {
	case *BinaryExpr:
		a.visit(n.Left, depth+1)
		a.visit(n.Right, depth+1)
	case *CallExpr:
		a.stats.Calls++
		for _, arg := range n.Args {
			a.visit(arg, depth+1)
		}
	case *VarDecl:
		a.stats.Variables++
		a.visit(n.Value, depth+1)
	case *Assign:
		a.visit(n.Value, depth+1)
	case *If:
		a.visit(n.Cond, depth+1)
		a.visitStmts(n.Then, depth+1)
		a.visitStmts(n.Else, depth+1)
	case *Loop:
		a.visitStmts(n.Body, depth+1)
	case *Return:
		a.visit(n.Value, depth+1)
	case *ExprStmt:
		a.visit(n.X, depth+1)
	case *FuncDecl:
		a.stats.Functions++
		a.visitStmts(n.Body, depth+1)
	case *Program:
		a.visitStmts(n.Statements, depth+1)
	}
}

func (a *analyzer) visitStmts(stmts []Stmt, depth int) {
	for _, s := range stmts {
		a.visit(s, depth)
	}
}
