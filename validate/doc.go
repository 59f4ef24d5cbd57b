// Package validate checks flag definition and deployment documents
// before compilation.
//
// Validation runs in two stages that always both execute: structural
// validation against the bundled JSON Schemas (all errors collected,
// not first-failure), then semantic cross-checks for rules JSON Schema
// cannot express — duplicate flag names, multivariate flags without
// variations, rule payload presence, weight sums, rollout ranges.
// Errors from both stages are concatenated into one [Result].
//
// Validation never fails with a Go error on malformed data; every
// problem becomes an [Error] value, rendered for humans by
// [FormatErrors].
package validate
