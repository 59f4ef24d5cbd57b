// Package schemagen constructs the bundled document schemas
// programmatically. The schema package embeds the JSON these
// definitions render to; cmd/schemagen regenerates those files so the
// Go definitions stay the single source of truth.
package schemagen
