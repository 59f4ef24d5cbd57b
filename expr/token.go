package expr

import "fmt"

// tokenKind classifies a lexed token.
type tokenKind uint8

const (
	tokenEOF tokenKind = iota
	tokenString
	tokenInt
	tokenFloat
	tokenIdent
	tokenBool
	tokenAnd
	tokenOr
	tokenNot
	tokenEQ
	tokenNE
	tokenGT
	tokenLT
	tokenGTE
	tokenLTE
	tokenLParen
	tokenRParen
)

// token is one lexed unit with its byte offset in the input.
type token struct {
	text string
	pos  int
	kind tokenKind
}

func (t token) describe() string {
	switch t.kind {
	case tokenEOF:
		return "end of input"
	case tokenString:
		return fmt.Sprintf("string %q", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// ParseError reports a malformed condition with the byte offset where
// lexing or parsing failed.
type ParseError struct {
	Message string
	Offset  int
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

func errorAt(pos int, format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Offset:  pos,
	}
}
