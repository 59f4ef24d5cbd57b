// Package stringtest provides helpers for constructing multi-line
// expected strings in tests with explicit line endings.
package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"✗ Validation failed",
//		"",
//		"flags.yaml",
//	) // -> "✗ Validation failed\n\nflags.yaml"
func JoinLF(ss ...string) string {
	var sb strings.Builder
	for i, s := range ss {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(s)
	}

	return sb.String()
}
