package ast_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"go.flagc.dev/flagc/ast"
)

// sampleArtifact mirrors a compiled boolean flag served under
// user.role == 'admin', plus one segment.
func sampleArtifact(withSegments bool) *ast.Artifact {
	a := &ast.Artifact{
		Version:     ast.FormatVersion,
		Environment: "production",
		Strings:     []string{"user.role", "admin", "ON", "OFF", "new_dashboard", "beta_users"},
		Flags: [][]ast.Rule{
			{
				&ast.ServeRule{
					When: &ast.Binary{
						Op:    ast.OpEQ,
						Left:  &ast.Property{Index: 0},
						Right: &ast.StringLit{Index: 1},
					},
					Value: 2,
				},
				&ast.ServeRule{Value: 3},
			},
		},
		FlagNames: []uint32{4},
	}

	if withSegments {
		a.Segments = []ast.Segment{
			{
				Name: 5,
				When: &ast.Binary{
					Op:    ast.OpEQ,
					Left:  &ast.Property{Index: 0},
					Right: &ast.StringLit{Index: 1},
				},
			},
		}
	}

	return a
}

// topLevelKeys decodes just the top-level map keys, in wire order.
func topLevelKeys(t *testing.T, data []byte) []string {
	t.Helper()

	dec := msgpack.NewDecoder(bytes.NewReader(data))

	n, err := dec.DecodeMapLen()
	require.NoError(t, err)

	keys := make([]string, 0, n)

	for range n {
		key, err := dec.DecodeString()
		require.NoError(t, err)

		keys = append(keys, key)
		require.NoError(t, dec.Skip())
	}

	return keys
}

func TestEncodeFieldOrder(t *testing.T) {
	t.Parallel()

	data, err := ast.Encode(sampleArtifact(true))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"v", "env", "strs", "flags", "flagNames", "segments"},
		topLevelKeys(t, data))
}

func TestEncodeOmitsEmptySegments(t *testing.T) {
	t.Parallel()

	data, err := ast.Encode(sampleArtifact(false))
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"v", "env", "strs", "flags", "flagNames"},
		topLevelKeys(t, data))
}

func TestEncodeDeterministic(t *testing.T) {
	t.Parallel()

	first, err := ast.Encode(sampleArtifact(true))
	require.NoError(t, err)

	second, err := ast.Encode(sampleArtifact(true))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEncodeNil(t *testing.T) {
	t.Parallel()

	_, err := ast.Encode(nil)
	require.ErrorIs(t, err, ast.ErrNilArtifact)
}

func TestEncodeGenericShape(t *testing.T) {
	t.Parallel()

	data, err := ast.Encode(sampleArtifact(true))
	require.NoError(t, err)

	var decoded map[string]any

	require.NoError(t, msgpack.Unmarshal(data, &decoded))

	assert.Equal(t, "1.0", decoded["v"])
	assert.Equal(t, "production", decoded["env"])

	strs, ok := decoded["strs"].([]any)
	require.True(t, ok)
	assert.Len(t, strs, 6)
	assert.Equal(t, "user.role", strs[0])

	flags, ok := decoded["flags"].([]any)
	require.True(t, ok)
	require.Len(t, flags, 1)

	rules, ok := flags[0].([]any)
	require.True(t, ok)
	require.Len(t, rules, 2)

	// The conditional serve rule is [0, [0, 0, [2, 0], [3, 1]], 2].
	first, ok := rules[0].([]any)
	require.True(t, ok)
	require.Len(t, first, 3)
	assert.EqualValues(t, 0, first[0])
	assert.NotNil(t, first[1])

	// The trailing default rule has a nil condition.
	last, ok := rules[1].([]any)
	require.True(t, ok)
	require.Len(t, last, 3)
	assert.Nil(t, last[1])
	assert.EqualValues(t, 3, last[2])
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		artifact *ast.Artifact
	}{
		"with segments": {
			artifact: sampleArtifact(true),
		},
		"without segments": {
			artifact: sampleArtifact(false),
		},
		"all rule and literal kinds": {
			artifact: &ast.Artifact{
				Version:     ast.FormatVersion,
				Environment: "staging",
				Strings:     []string{"a", "b", "c"},
				Flags: [][]ast.Rule{
					{
						&ast.VariationsRule{
							When: &ast.Logical{
								Op: ast.OpAnd,
								Left: &ast.Binary{
									Op:    ast.OpGT,
									Left:  &ast.Property{Index: 0},
									Right: &ast.IntLit{Value: 10},
								},
								Right: &ast.Logical{
									Op: ast.OpNot,
									Left: &ast.Binary{
										Op:    ast.OpLTE,
										Left:  &ast.Property{Index: 1},
										Right: &ast.FloatLit{Value: 0.5},
									},
								},
							},
							Variations: []ast.WeightedVariation{
								{Value: 1, Weight: 50},
								{Value: 2, Weight: 30},
							},
						},
						&ast.RolloutRule{
							When:       &ast.BoolLit{Value: true},
							Value:      2,
							Percentage: 100,
						},
						&ast.ServeRule{Value: 0},
					},
				},
				FlagNames: []uint32{0},
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			data, err := ast.Encode(tc.artifact)
			require.NoError(t, err)

			decoded, err := ast.Decode(data)
			require.NoError(t, err)

			assert.Equal(t, tc.artifact, decoded)
		})
	}
}

func TestDecodeSkipsUnknownTopLevelKeys(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	enc := msgpack.NewEncoder(&buf)

	require.NoError(t, enc.EncodeMapLen(3))
	require.NoError(t, enc.EncodeString("v"))
	require.NoError(t, enc.EncodeString("1.0"))
	require.NoError(t, enc.EncodeString("sig"))
	require.NoError(t, enc.EncodeBytes([]byte{0xde, 0xad}))
	require.NoError(t, enc.EncodeString("env"))
	require.NoError(t, enc.EncodeString("production"))

	decoded, err := ast.Decode(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "1.0", decoded.Version)
	assert.Equal(t, "production", decoded.Environment)
}

func TestDecodeSkipsUnknownRuleType(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	enc := msgpack.NewEncoder(&buf)

	require.NoError(t, enc.EncodeMapLen(1))
	require.NoError(t, enc.EncodeString("flags"))
	require.NoError(t, enc.EncodeArrayLen(1))
	require.NoError(t, enc.EncodeArrayLen(2))

	// A rule type from a future format version.
	require.NoError(t, enc.EncodeArrayLen(3))
	require.NoError(t, enc.EncodeUint(9))
	require.NoError(t, enc.EncodeNil())
	require.NoError(t, enc.EncodeString("opaque"))

	// Followed by a known serve rule.
	require.NoError(t, enc.EncodeArrayLen(3))
	require.NoError(t, enc.EncodeUint(0))
	require.NoError(t, enc.EncodeNil())
	require.NoError(t, enc.EncodeUint(7))

	decoded, err := ast.Decode(buf.Bytes())
	require.NoError(t, err)

	require.Len(t, decoded.Flags, 1)
	require.Len(t, decoded.Flags[0], 1)
	assert.Equal(t, &ast.ServeRule{Value: 7}, decoded.Flags[0][0])
}

func TestDecodeRejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := ast.Decode([]byte{0xc1, 0x00})
	require.ErrorIs(t, err, ast.ErrMalformed)
}
