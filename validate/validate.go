package validate

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"go.flagc.dev/flagc/config"
	"go.flagc.dev/flagc/schema"
)

// Error is one validation finding, attached to a file and, when
// resolvable, a source position and JSON-pointer path.
type Error struct {
	File       string
	Message    string
	Path       string
	Suggestion string
	Line       int
	Column     int
}

// Result is the outcome of validating one document.
type Result struct {
	Errors []Error
	Valid  bool
}

// Definitions validates a flag definitions document: structural
// schema validation followed by semantic cross-checks.
func Definitions(doc *config.Document) Result {
	errs := structural(doc, schema.Definitions)
	errs = append(errs, semanticDefinitions(doc)...)

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Deployment validates a deployment document: structural schema
// validation followed by semantic cross-checks.
func Deployment(doc *config.Document) Result {
	errs := structural(doc, schema.Deployment)
	errs = append(errs, semanticDeployment(doc)...)

	return Result{Valid: len(errs) == 0, Errors: errs}
}

func structural(doc *config.Document, compiled func() (*jsonschema.Schema, error)) []Error {
	sch, err := compiled()
	if err != nil {
		return []Error{{
			File:    doc.Path,
			Message: "internal: " + err.Error(),
		}}
	}

	err = sch.Validate(config.JSONTree(doc.Tree))
	if err == nil {
		return nil
	}

	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []Error{{File: doc.Path, Message: err.Error()}}
	}

	var errs []Error

	for _, leaf := range leafCauses(validationErr) {
		e := Error{
			File:       doc.Path,
			Message:    leaf.Message,
			Path:       leaf.InstanceLocation,
			Suggestion: keywordSuggestion(leaf.KeywordLocation),
		}

		if line, column, ok := doc.Locate(leaf.InstanceLocation); ok {
			e.Line = line
			e.Column = column
		}

		errs = append(errs, e)
	}

	return errs
}

// leafCauses flattens a validation error tree to the errors that carry
// the concrete failures.
func leafCauses(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}

	var leaves []*jsonschema.ValidationError

	for _, cause := range err.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}

	return leaves
}

// keyword extracts the failing schema keyword from a keyword location
// such as "/properties/flags/items/$ref/required".
func keyword(keywordLocation string) string {
	segments := strings.Split(keywordLocation, "/")

	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if seg == "" || seg == "$ref" || isDigits(seg) {
			continue
		}

		return seg
	}

	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
