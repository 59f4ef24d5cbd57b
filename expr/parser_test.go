package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.flagc.dev/flagc/ast"
	"go.flagc.dev/flagc/expr"
)

func TestParseLiterals(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  expr.Node
	}{
		"true": {
			input: "true",
			want:  &expr.BoolLit{Value: true},
		},
		"false": {
			input: "false",
			want:  &expr.BoolLit{Value: false},
		},
		"integer": {
			input: "42",
			want:  &expr.IntLit{Value: 42},
		},
		"float": {
			input: "3.25",
			want:  &expr.FloatLit{Value: 3.25},
		},
		"single quoted string": {
			input: "'admin'",
			want:  &expr.StringLit{Value: "admin"},
		},
		"double quoted string": {
			input: `"admin"`,
			want:  &expr.StringLit{Value: "admin"},
		},
		"escaped quote": {
			input: `'it\'s'`,
			want:  &expr.StringLit{Value: "it's"},
		},
		"escaped backslash": {
			input: `'a\\b'`,
			want:  &expr.StringLit{Value: `a\b`},
		},
		"escape is verbatim": {
			input: `'a\nb'`,
			want:  &expr.StringLit{Value: "anb"},
		},
		"identifier": {
			input: "beta",
			want:  &expr.Property{Path: "beta"},
		},
		"dotted path is one token": {
			input: "user.role",
			want:  &expr.Property{Path: "user.role"},
		},
		"keyword casing is exact": {
			input: "And",
			want:  &expr.Property{Path: "And"},
		},
		"keyword prefix is an identifier": {
			input: "andrew",
			want:  &expr.Property{Path: "andrew"},
		},
		"True is an identifier": {
			input: "True",
			want:  &expr.Property{Path: "True"},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := expr.Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseComparisons(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		op    ast.CompareOp
	}{
		"equals":         {input: "a == 1", op: ast.OpEQ},
		"not equals":     {input: "a != 1", op: ast.OpNE},
		"greater":        {input: "a > 1", op: ast.OpGT},
		"less":           {input: "a < 1", op: ast.OpLT},
		"greater equals": {input: "a >= 1", op: ast.OpGTE},
		"less equals":    {input: "a <= 1", op: ast.OpLTE},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := expr.Parse(tc.input)
			require.NoError(t, err)

			want := &expr.Binary{
				Op:    tc.op,
				Left:  &expr.Property{Path: "a"},
				Right: &expr.IntLit{Value: 1},
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestParsePrecedence(t *testing.T) {
	t.Parallel()

	t.Run("AND binds tighter than OR", func(t *testing.T) {
		t.Parallel()

		got, err := expr.Parse("a OR b AND c")
		require.NoError(t, err)

		want := &expr.Logical{
			Op:   ast.OpOr,
			Left: &expr.Property{Path: "a"},
			Right: &expr.Logical{
				Op:    ast.OpAnd,
				Left:  &expr.Property{Path: "b"},
				Right: &expr.Property{Path: "c"},
			},
		}
		assert.Equal(t, want, got)
	})

	t.Run("NOT binds tighter than AND", func(t *testing.T) {
		t.Parallel()

		got, err := expr.Parse("NOT a AND b")
		require.NoError(t, err)

		want := &expr.Logical{
			Op: ast.OpAnd,
			Left: &expr.Logical{
				Op:   ast.OpNot,
				Left: &expr.Property{Path: "a"},
			},
			Right: &expr.Property{Path: "b"},
		}
		assert.Equal(t, want, got)
	})

	t.Run("comparison binds tightest", func(t *testing.T) {
		t.Parallel()

		got, err := expr.Parse("a == 1 AND b == 2")
		require.NoError(t, err)

		want := &expr.Logical{
			Op: ast.OpAnd,
			Left: &expr.Binary{
				Op:    ast.OpEQ,
				Left:  &expr.Property{Path: "a"},
				Right: &expr.IntLit{Value: 1},
			},
			Right: &expr.Binary{
				Op:    ast.OpEQ,
				Left:  &expr.Property{Path: "b"},
				Right: &expr.IntLit{Value: 2},
			},
		}
		assert.Equal(t, want, got)
	})

	t.Run("parentheses override precedence", func(t *testing.T) {
		t.Parallel()

		got, err := expr.Parse("(a OR b) AND c")
		require.NoError(t, err)

		want := &expr.Logical{
			Op: ast.OpAnd,
			Left: &expr.Logical{
				Op:    ast.OpOr,
				Left:  &expr.Property{Path: "a"},
				Right: &expr.Property{Path: "b"},
			},
			Right: &expr.Property{Path: "c"},
		}
		assert.Equal(t, want, got)
	})

	t.Run("OR is left associative", func(t *testing.T) {
		t.Parallel()

		got, err := expr.Parse("a OR b OR c")
		require.NoError(t, err)

		want := &expr.Logical{
			Op: ast.OpOr,
			Left: &expr.Logical{
				Op:    ast.OpOr,
				Left:  &expr.Property{Path: "a"},
				Right: &expr.Property{Path: "b"},
			},
			Right: &expr.Property{Path: "c"},
		}
		assert.Equal(t, want, got)
	})

	t.Run("NOT chains", func(t *testing.T) {
		t.Parallel()

		got, err := expr.Parse("NOT NOT a")
		require.NoError(t, err)

		want := &expr.Logical{
			Op: ast.OpNot,
			Left: &expr.Logical{
				Op:   ast.OpNot,
				Left: &expr.Property{Path: "a"},
			},
		}
		assert.Equal(t, want, got)
	})

	t.Run("whitespace is insignificant", func(t *testing.T) {
		t.Parallel()

		compact, err := expr.Parse("a==1")
		require.NoError(t, err)

		spaced, err := expr.Parse("  a \t==\n 1 ")
		require.NoError(t, err)

		assert.Equal(t, compact, spaced)
	})
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input      string
		wantOffset int
	}{
		"empty input": {
			input:      "",
			wantOffset: 0,
		},
		"chained comparison": {
			input:      "a == b == c",
			wantOffset: 7,
		},
		"trailing token": {
			input:      "a == 1 b",
			wantOffset: 7,
		},
		"unterminated single quote": {
			input:      "'abc",
			wantOffset: 0,
		},
		"unterminated after escape": {
			input:      `'abc\`,
			wantOffset: 0,
		},
		"bare equals": {
			input:      "a = 1",
			wantOffset: 2,
		},
		"bare bang": {
			input:      "!a",
			wantOffset: 0,
		},
		"unknown character": {
			input:      "a && b",
			wantOffset: 2,
		},
		"unmatched open paren": {
			input:      "(a OR b",
			wantOffset: 0,
		},
		"dangling close paren": {
			input:      "a)",
			wantOffset: 1,
		},
		"operator without operand": {
			input:      "a ==",
			wantOffset: 4,
		},
		"AND without right operand": {
			input:      "a AND",
			wantOffset: 5,
		},
		"NOT without operand": {
			input:      "NOT",
			wantOffset: 3,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := expr.Parse(tc.input)
			require.Error(t, err)

			var parseErr *expr.ParseError

			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tc.wantOffset, parseErr.Offset)
		})
	}
}

func TestParseTrailingDotNumber(t *testing.T) {
	t.Parallel()

	// "1." lexes as the integer 1 followed by a stray dot.
	_, err := expr.Parse("1.")
	require.Error(t, err)

	var parseErr *expr.ParseError

	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 1, parseErr.Offset)
}
