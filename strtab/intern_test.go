package strtab_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.flagc.dev/flagc/ast"
	"go.flagc.dev/flagc/expr"
	"go.flagc.dev/flagc/strtab"
)

func TestInternRewritesStrings(t *testing.T) {
	t.Parallel()

	node, err := expr.Parse("user.role == 'admin'")
	require.NoError(t, err)

	table := strtab.New()

	interned, err := strtab.Intern(table, node)
	require.NoError(t, err)

	want := &ast.Binary{
		Op:    ast.OpEQ,
		Left:  &ast.Property{Index: 0},
		Right: &ast.StringLit{Index: 1},
	}
	assert.Equal(t, want, interned)
	assert.Equal(t, []string{"user.role", "admin"}, table.Strings())
}

func TestInternPassesScalarsThrough(t *testing.T) {
	t.Parallel()

	node, err := expr.Parse("count >= 10 AND ratio < 0.5 OR NOT enabled == true")
	require.NoError(t, err)

	table := strtab.New()

	interned, err := strtab.Intern(table, node)
	require.NoError(t, err)

	// Only the property paths hit the table; numbers and booleans
	// stay inline.
	assert.Equal(t, []string{"count", "ratio", "enabled"}, table.Strings())

	want := &ast.Logical{
		Op: ast.OpOr,
		Left: &ast.Logical{
			Op: ast.OpAnd,
			Left: &ast.Binary{
				Op:    ast.OpGTE,
				Left:  &ast.Property{Index: 0},
				Right: &ast.IntLit{Value: 10},
			},
			Right: &ast.Binary{
				Op:    ast.OpLT,
				Left:  &ast.Property{Index: 1},
				Right: &ast.FloatLit{Value: 0.5},
			},
		},
		Right: &ast.Logical{
			Op: ast.OpNot,
			Left: &ast.Binary{
				Op:    ast.OpEQ,
				Left:  &ast.Property{Index: 2},
				Right: &ast.BoolLit{Value: true},
			},
		},
	}
	assert.Equal(t, want, interned)
}

func TestInternDeduplicatesAcrossExpressions(t *testing.T) {
	t.Parallel()

	table := strtab.New()

	first, err := expr.Parse("user.role == 'admin'")
	require.NoError(t, err)

	second, err := expr.Parse("user.role != 'admin'")
	require.NoError(t, err)

	_, err = strtab.Intern(table, first)
	require.NoError(t, err)

	interned, err := strtab.Intern(table, second)
	require.NoError(t, err)

	want := &ast.Binary{
		Op:    ast.OpNE,
		Left:  &ast.Property{Index: 0},
		Right: &ast.StringLit{Index: 1},
	}
	assert.Equal(t, want, interned)
	assert.Equal(t, 2, table.Len())
}

func TestInternCall(t *testing.T) {
	t.Parallel()

	table := strtab.New()

	node := &expr.Call{
		Code: 1,
		Args: []expr.Node{&expr.StringLit{Value: "beta_users"}},
	}

	interned, err := strtab.Intern(table, node)
	require.NoError(t, err)

	want := &ast.Call{
		Code: 1,
		Args: []ast.Expr{&ast.StringLit{Index: 0}},
	}
	assert.Equal(t, want, interned)
}
