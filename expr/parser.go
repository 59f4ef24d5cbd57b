package expr

import (
	"strconv"

	"go.flagc.dev/flagc/ast"
)

// Parse parses a condition string into its expression tree.
//
// The whole input must form a single expression: trailing tokens,
// including the second operator of a comparison chain, are errors.
// Errors are [*ParseError] values carrying the byte offset.
func Parse(input string) (Node, error) {
	p := &parser{lex: lexer{input: input}}

	err := p.advance()
	if err != nil {
		return nil, err
	}

	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if p.tok.kind != tokenEOF {
		return nil, errorAt(p.tok.pos, "unexpected %s after expression", p.tok.describe())
	}

	return node, nil
}

type parser struct {
	lex lexer
	tok token
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.tok.kind == tokenOr {
		err = p.advance()
		if err != nil {
			return nil, err
		}

		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = &Logical{Op: ast.OpOr, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for p.tok.kind == tokenAnd {
		err = p.advance()
		if err != nil {
			return nil, err
		}

		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}

		left = &Logical{Op: ast.OpAnd, Left: left, Right: right}
	}

	return left, nil
}

func (p *parser) parseNot() (Node, error) {
	if p.tok.kind != tokenNot {
		return p.parseCompare()
	}

	err := p.advance()
	if err != nil {
		return nil, err
	}

	operand, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	return &Logical{Op: ast.OpNot, Left: operand}, nil
}

func (p *parser) parseCompare() (Node, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	op, ok := compareOp(p.tok.kind)
	if !ok {
		return left, nil
	}

	err = p.advance()
	if err != nil {
		return nil, err
	}

	right, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	// Comparison chains (a == b == c) are not associative here; a
	// second comparison operator is left in place and rejected by the
	// caller as a trailing token.
	return &Binary{Op: op, Left: left, Right: right}, nil
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.tok

	switch tok.kind {
	case tokenBool:
		err := p.advance()
		if err != nil {
			return nil, err
		}

		return &BoolLit{Value: tok.text == "true"}, nil

	case tokenString:
		err := p.advance()
		if err != nil {
			return nil, err
		}

		return &StringLit{Value: tok.text}, nil

	case tokenInt:
		value, err := strconv.ParseInt(tok.text, 10, 64)
		if err != nil {
			return nil, errorAt(tok.pos, "invalid integer %q", tok.text)
		}

		err = p.advance()
		if err != nil {
			return nil, err
		}

		return &IntLit{Value: value}, nil

	case tokenFloat:
		value, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, errorAt(tok.pos, "invalid number %q", tok.text)
		}

		err = p.advance()
		if err != nil {
			return nil, err
		}

		return &FloatLit{Value: value}, nil

	case tokenIdent:
		err := p.advance()
		if err != nil {
			return nil, err
		}

		return &Property{Path: tok.text}, nil

	case tokenLParen:
		err := p.advance()
		if err != nil {
			return nil, err
		}

		node, err := p.parseOr()
		if err != nil {
			return nil, err
		}

		if p.tok.kind != tokenRParen {
			return nil, errorAt(tok.pos, "unmatched opening parenthesis")
		}

		err = p.advance()
		if err != nil {
			return nil, err
		}

		return node, nil
	}

	return nil, errorAt(tok.pos, "expected a value, got %s", tok.describe())
}

func compareOp(kind tokenKind) (ast.CompareOp, bool) {
	switch kind {
	case tokenEQ:
		return ast.OpEQ, true
	case tokenNE:
		return ast.OpNE, true
	case tokenGT:
		return ast.OpGT, true
	case tokenLT:
		return ast.OpLT, true
	case tokenGTE:
		return ast.OpGTE, true
	case tokenLTE:
		return ast.OpLTE, true
	}

	return 0, false
}
