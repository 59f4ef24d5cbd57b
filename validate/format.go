package validate

import (
	"fmt"
	"strings"
)

// FormatErrors renders validation errors for humans:
//
//	✗ Validation failed
//
//	flags.yaml:12:3
//	  Error: duplicate flag name "new_dashboard" (first defined at flags[0])
//	  Path: /flags/2/name
//	  Suggestion: flag names must be unique; rename one of the duplicates
//
// Line and column are appended to the file only when known; Path and
// Suggestion lines appear only when set. Returns "" for no errors.
func FormatErrors(errs []Error) string {
	if len(errs) == 0 {
		return ""
	}

	var sb strings.Builder

	sb.WriteString("✗ Validation failed\n")

	for _, e := range errs {
		sb.WriteByte('\n')
		sb.WriteString(e.File)

		if e.Line > 0 {
			fmt.Fprintf(&sb, ":%d", e.Line)

			if e.Column > 0 {
				fmt.Fprintf(&sb, ":%d", e.Column)
			}
		}

		sb.WriteByte('\n')
		fmt.Fprintf(&sb, "  Error: %s\n", e.Message)

		if e.Path != "" {
			fmt.Fprintf(&sb, "  Path: %s\n", e.Path)
		}

		if e.Suggestion != "" {
			fmt.Fprintf(&sb, "  Suggestion: %s\n", e.Suggestion)
		}
	}

	return sb.String()
}
