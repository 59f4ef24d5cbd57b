// Package config reads flag definition and deployment documents and
// decodes them into the typed model the validator and compiler share.
//
// Documents are YAML or JSON, distinguished by file extension
// ([DetectFormat]). Both formats are decoded by goccy/go-yaml with
// ordered mappings, so the deployment's rule and segment order — which
// fixes the artifact's string-interning order — survives decoding.
//
// A [Document] keeps the raw bytes, the generic tree, and a lazily
// parsed source AST used to resolve JSON-pointer paths back to line
// and column positions for error reporting.
package config
