package strtab

import (
	"errors"
	"fmt"

	"go.flagc.dev/flagc/ast"
	"go.flagc.dev/flagc/expr"
)

// ErrUnknownNode indicates an expression node the interning pass does
// not recognize.
var ErrUnknownNode = errors.New("unknown node")

// Intern rewrites a parsed expression into its string-interned form:
// property paths and string literals become indexes into t, while
// numeric and boolean literals pass through inline. Repeated strings
// share one table entry.
func Intern(t *Table, node expr.Node) (ast.Expr, error) {
	switch n := node.(type) {
	case *expr.Binary:
		left, err := Intern(t, n.Left)
		if err != nil {
			return nil, err
		}

		right, err := Intern(t, n.Right)
		if err != nil {
			return nil, err
		}

		return &ast.Binary{Op: n.Op, Left: left, Right: right}, nil

	case *expr.Logical:
		left, err := Intern(t, n.Left)
		if err != nil {
			return nil, err
		}

		var right ast.Expr

		if n.Right != nil {
			right, err = Intern(t, n.Right)
			if err != nil {
				return nil, err
			}
		}

		return &ast.Logical{Op: n.Op, Left: left, Right: right}, nil

	case *expr.Property:
		return &ast.Property{Index: t.Add(n.Path)}, nil

	case *expr.StringLit:
		return &ast.StringLit{Index: t.Add(n.Value)}, nil

	case *expr.IntLit:
		return &ast.IntLit{Value: n.Value}, nil

	case *expr.FloatLit:
		return &ast.FloatLit{Value: n.Value}, nil

	case *expr.BoolLit:
		return &ast.BoolLit{Value: n.Value}, nil

	case *expr.Call:
		args := make([]ast.Expr, 0, len(n.Args))

		for _, arg := range n.Args {
			interned, err := Intern(t, arg)
			if err != nil {
				return nil, err
			}

			args = append(args, interned)
		}

		return &ast.Call{Code: n.Code, Args: args}, nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnknownNode, node)
}
