package expr

// lexer scans condition text into tokens.
type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (token, error) {
	l.skipSpace()

	start := l.pos

	if l.pos >= len(l.input) {
		return token{kind: tokenEOF, pos: start}, nil
	}

	c := l.input[l.pos]

	switch {
	case c == '\'' || c == '"':
		return l.lexString(c)

	case c >= '0' && c <= '9':
		return l.lexNumber()

	case isIdentStart(c):
		return l.lexIdent()

	case c == '(':
		l.pos++

		return token{kind: tokenLParen, text: "(", pos: start}, nil

	case c == ')':
		l.pos++

		return token{kind: tokenRParen, text: ")", pos: start}, nil

	case c == '=':
		if l.peekAt(1) == '=' {
			l.pos += 2

			return token{kind: tokenEQ, text: "==", pos: start}, nil
		}

		return token{}, errorAt(start, "unexpected character %q", string(c))

	case c == '!':
		if l.peekAt(1) == '=' {
			l.pos += 2

			return token{kind: tokenNE, text: "!=", pos: start}, nil
		}

		return token{}, errorAt(start, "unexpected character %q", string(c))

	case c == '>':
		if l.peekAt(1) == '=' {
			l.pos += 2

			return token{kind: tokenGTE, text: ">=", pos: start}, nil
		}

		l.pos++

		return token{kind: tokenGT, text: ">", pos: start}, nil

	case c == '<':
		if l.peekAt(1) == '=' {
			l.pos += 2

			return token{kind: tokenLTE, text: "<=", pos: start}, nil
		}

		l.pos++

		return token{kind: tokenLT, text: "<", pos: start}, nil
	}

	return token{}, errorAt(start, "unexpected character %q", string(c))
}

// lexString scans a quoted string. A backslash escapes the next
// character verbatim.
func (l *lexer) lexString(quote byte) (token, error) {
	start := l.pos
	l.pos++

	var out []byte

	for l.pos < len(l.input) {
		c := l.input[l.pos]

		switch c {
		case '\\':
			if l.pos+1 >= len(l.input) {
				return token{}, errorAt(start, "unterminated string")
			}

			out = append(out, l.input[l.pos+1])
			l.pos += 2

		case quote:
			l.pos++

			return token{kind: tokenString, text: string(out), pos: start}, nil

		default:
			out = append(out, c)
			l.pos++
		}
	}

	return token{}, errorAt(start, "unterminated string")
}

// lexNumber scans digits with an optional fractional part. A trailing
// dot without digits is left for the next token to reject.
func (l *lexer) lexNumber() (token, error) {
	start := l.pos

	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}

	kind := tokenInt

	if l.pos+1 < len(l.input) && l.input[l.pos] == '.' && isDigit(l.input[l.pos+1]) {
		kind = tokenFloat
		l.pos++

		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}

	return token{kind: kind, text: l.input[start:l.pos], pos: start}, nil
}

// lexIdent scans an identifier path; dots are part of the token.
// Keywords are recognized by exact, case-sensitive match.
func (l *lexer) lexIdent() (token, error) {
	start := l.pos
	l.pos++

	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}

	text := l.input[start:l.pos]

	kind := tokenIdent

	switch text {
	case "AND":
		kind = tokenAnd
	case "OR":
		kind = tokenOr
	case "NOT":
		kind = tokenNot
	case "true", "false":
		kind = tokenBool
	}

	return token{kind: kind, text: text, pos: start}, nil
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		switch l.input[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}

	return l.input[l.pos+offset]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}
