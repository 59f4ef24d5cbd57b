package expr

import "go.flagc.dev/flagc/ast"

// Node is a string-bearing expression tree node, the parser's output.
// Property paths and string literals carry their text inline; the
// strtab package rewrites them to string-table indexes.
type Node interface {
	isNode()
}

// Binary is a comparison between two operands.
type Binary struct {
	Left  Node
	Right Node
	Op    ast.CompareOp
}

// Logical combines operands with AND, OR, or NOT. For NOT, Right is
// nil and Left holds the single operand.
type Logical struct {
	Left  Node
	Right Node
	Op    ast.LogicalOp
}

// Property is a dotted context path kept as a single string, e.g.
// "user.role". It is not split on dots in this format version.
type Property struct {
	Path string
}

// StringLit is a quoted string literal.
type StringLit struct {
	Value string
}

// IntLit is an integer literal.
type IntLit struct {
	Value int64
}

// FloatLit is a floating-point literal.
type FloatLit struct {
	Value float64
}

// BoolLit is a `true` or `false` literal.
type BoolLit struct {
	Value bool
}

// Call is a reserved function-call node. The parser emits none in
// this format version.
type Call struct {
	Args []Node
	Code uint8
}

func (*Binary) isNode() {}
func (*Logical) isNode() {}
func (*Property) isNode() {}
func (*StringLit) isNode() {}
func (*IntLit) isNode() {}
func (*FloatLit) isNode() {}
func (*BoolLit) isNode() {}
func (*Call) isNode() {}
