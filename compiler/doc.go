// Package compiler lowers a validated deployment against its flag
// definitions into an evaluation artifact.
//
// [Compile] is a pure, synchronous function: it owns a fresh string
// table per call, walks the deployment's rules and segments in
// document order, normalizes served values, appends each flag's
// trailing default serve rule, and assembles the [ast.Artifact].
// [Serialize] encodes an artifact to its MessagePack wire form, and
// [CompileAndSerialize] composes the two.
//
// Compile assumes both documents passed the validate package; it still
// fails on the cross-document problems validation cannot see, such as
// deployment rules naming an unknown flag or variation.
package compiler
