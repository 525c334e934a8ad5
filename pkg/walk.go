package ulmo

// Visitor is called once for every node reached by Walk. Implementations
// type-switch on the node kinds they care about and ignore the rest; the
// structural recursion is Walk's job, not the visitor's.
type Visitor interface {
	Visit(node Node) error
}

// Walk traverses a tree in pre-order, visiting every reachable subtree
// exactly once and left to right: a condition before its branches, a left
// operand before the right, a declaration value before later siblings.
// Traversal stops at the first visitor error and returns it.
func Walk(v Visitor, node Node) error {
	if err := v.Visit(node); err != nil {
		return err
	}

	switch n := node.(type) {
	case *BinaryExpr:
		if err := Walk(v, n.Left); err != nil {
			return err
		}

		return Walk(v, n.Right)
	case *CallExpr:
		return walkExprs(v, n.Args)
	case *VarDecl:
		return Walk(v, n.Value)
	case *Assign:
		return Walk(v, n.Value)
	case *If:
		if err := Walk(v, n.Cond); err != nil {
			return err
		}

		if err := walkStmts(v, n.Then); err != nil {
			return err
		}

		return walkStmts(v, n.Else)
	case *Loop:
		return walkStmts(v, n.Body)
	case *Return:
		return Walk(v, n.Value)
	case *ExprStmt:
		return Walk(v, n.X)
	case *FuncDecl:
		return walkStmts(v, n.Body)
	case *Program:
		return walkStmts(v, n.Statements)
	}

	return nil
}

func walkExprs(v Visitor, exprs []Expr) error {
	for _, e := range exprs {
		if err := Walk(v, e); err != nil {
			return err
		}
	}

	return nil
}

func walkStmts(v Visitor, stmts []Stmt) error {
	for _, s := range stmts {
		if err := Walk(v, s); err != nil {
			return err
		}
	}

	return nil
}

type nodeCounter struct {
	count int
}

func (c *nodeCounter) Visit(Node) error {
	c.count++
	return nil
}

// CountNodes reports the total number of nodes in a tree.
func CountNodes(node Node) int {
	c := &nodeCounter{}
	_ = Walk(c, node)

	return c.count
}
