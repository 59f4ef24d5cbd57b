// Package strtab provides the insertion-ordered, deduplicating string
// table shared by every string in a compiled artifact, and the
// interning pass that rewrites parsed expressions to index references.
//
// A [Table] is an owned value scoped to a single compile call. It is
// not safe for concurrent use; concurrent compilations must use
// independent tables.
package strtab

// Table assigns stable indexes to strings in first-insertion order.
//
// Create instances with [New].
type Table struct {
	index  map[string]uint32
	values []string
}

// New returns an empty [Table].
func New() *Table {
	return &Table{index: make(map[string]uint32)}
}

// Add returns the index of s, inserting it if not yet present.
// Adding an existing string returns its original index.
func (t *Table) Add(s string) uint32 {
	if idx, ok := t.index[s]; ok {
		return idx
	}

	idx := uint32(len(t.values))
	t.index[s] = idx
	t.values = append(t.values, s)

	return idx
}

// Get returns the string at index i.
func (t *Table) Get(i uint32) (string, bool) {
	if int(i) >= len(t.values) {
		return "", false
	}

	return t.values[i], true
}

// Strings returns a copy of the table contents in insertion order.
func (t *Table) Strings() []string {
	out := make([]string, len(t.values))
	copy(out, t.values)

	return out
}

// Len returns the number of distinct strings in the table.
func (t *Table) Len() int {
	return len(t.values)
}
