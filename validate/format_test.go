package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go.flagc.dev/flagc/stringtest"
	"go.flagc.dev/flagc/validate"
)

func TestFormatErrorsEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, validate.FormatErrors(nil))
}

func TestFormatErrors(t *testing.T) {
	t.Parallel()

	errs := []validate.Error{
		{
			File:       "flags.yaml",
			Line:       5,
			Column:     11,
			Message:    `duplicate flag name "new_dashboard" (first defined at flags[0])`,
			Path:       "/flags/1/name",
			Suggestion: "flag names must be unique; rename one of the duplicates",
		},
		{
			File:    "production.deployment.yaml",
			Message: "missing properties: 'environment'",
		},
	}

	want := stringtest.JoinLF(
		"✗ Validation failed",
		"",
		"flags.yaml:5:11",
		`  Error: duplicate flag name "new_dashboard" (first defined at flags[0])`,
		"  Path: /flags/1/name",
		"  Suggestion: flag names must be unique; rename one of the duplicates",
		"",
		"production.deployment.yaml",
		"  Error: missing properties: 'environment'",
		"",
	)

	assert.Equal(t, want, validate.FormatErrors(errs))
}

func TestFormatErrorsLineWithoutColumn(t *testing.T) {
	t.Parallel()

	errs := []validate.Error{
		{
			File:    "flags.yaml",
			Line:    3,
			Message: "oops",
		},
	}

	want := stringtest.JoinLF(
		"✗ Validation failed",
		"",
		"flags.yaml:3",
		"  Error: oops",
		"",
	)

	assert.Equal(t, want, validate.FormatErrors(errs))
}
