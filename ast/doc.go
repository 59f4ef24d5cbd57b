// Package ast defines the evaluation artifact data model shared by the
// compiler, the encoder, and external decoders.
//
// An [Artifact] holds everything a runtime SDK needs to evaluate flags
// for one environment: the interned string table, per-flag rule lists,
// and optional segment definitions. Rules and expressions are sealed
// sum types ([Rule], [Expr]); they are converted to the compact
// positional-array wire layout only at the [Encode] boundary, and
// [Decode] converts back. For values decoded with a generic MessagePack
// reader instead, the type guards ([IsArtifact], [IsRule],
// [IsVariation], [IsExpression]) check structural shape without
// panicking on untrusted input.
package ast
