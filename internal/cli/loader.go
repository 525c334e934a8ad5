package cli

import (
	"fmt"
	"os"

	ulmo "go.ulmo.dev/pkg"
)

// LoadTree reads a serialized tree document from disk.
func LoadTree(path string) (ulmo.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tree file: %w", err)
	}

	node, err := ulmo.UnmarshalTree(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return node, nil
}

// LoadStmt reads a tree document whose root must be a statement.
func LoadStmt(path string) (ulmo.Stmt, error) {
	node, err := LoadTree(path)
	if err != nil {
		return nil, err
	}

	stmt, ok := node.(ulmo.Stmt)
	if !ok {
		return nil, fmt.Errorf("load %s: tree root must be a statement, got an expression", path)
	}

	return stmt, nil
}
