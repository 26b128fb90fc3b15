package kicadsexp

import (
	"fmt"
	"io"
	"strings"
)

// Parser parses S-expressions from a lexer
type Parser struct {
	lexer   *Lexer
	current Token
}

// NewParser creates a new parser from an io.Reader
func NewParser(r io.Reader) *Parser {
	return &Parser{
		lexer: NewLexer(r),
	}
}

// ParseAll parses all top-level S-expressions from the input
func (p *Parser) ParseAll() ([]Sexp, error) {
	var result []Sexp

	if err := p.advance(); err != nil {
		return nil, err
	}

	for p.current.Type != TokenEOF {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		result = append(result, expr)

		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (p *Parser) advance() error {
	tok, err := p.lexer.NextToken()
	if err != nil {
		return err
	}
	p.current = tok
	return nil
}

// parseExpr parses a single S-expression
func (p *Parser) parseExpr() (Sexp, error) {
	switch p.current.Type {
	case TokenLeftParen:
		return p.parseList()

	case TokenSymbol, TokenString:
		return Symbol(p.current.Value), nil

	case TokenRightParen:
		return nil, fmt.Errorf("line %d: unexpected ')'", p.current.Line)

	default:
		return nil, fmt.Errorf("line %d: unexpected EOF", p.current.Line)
	}
}

// parseList parses a list: (name item ...)
// The first element must be an atom and becomes the node name.
func (p *Parser) parseList() (Sexp, error) {
	open := p.current.Line

	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.current.Type != TokenSymbol && p.current.Type != TokenString {
		return nil, fmt.Errorf("line %d: list must start with a name, got %v", open, p.current.Type)
	}
	node := &Node{Name: p.current.Value}

	for {
		if err := p.advance(); err != nil {
			return nil, err
		}

		if p.current.Type == TokenRightParen {
			break
		}
		if p.current.Type == TokenEOF {
			return nil, fmt.Errorf("line %d: unexpected EOF in list %q", open, node.Name)
		}

		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		node.Items = append(node.Items, elem)
	}

	return node, nil
}

// Parse parses all S-expressions from an io.Reader.
func Parse(r io.Reader) ([]Sexp, error) {
	return NewParser(r).ParseAll()
}

// ParseString parses S-expressions from a string
func ParseString(s string) ([]Sexp, error) {
	return Parse(strings.NewReader(s))
}

// ParseNode parses a document holding exactly one top-level list.
func ParseNode(r io.Reader) (*Node, error) {
	sexps, err := Parse(r)
	if err != nil {
		return nil, err
	}
	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}
	node, ok := sexps[0].(*Node)
	if !ok {
		return nil, fmt.Errorf("expected a list at top level, got %q", sexps[0].String())
	}
	if len(sexps) > 1 {
		return nil, fmt.Errorf("unexpected data after top-level %q", node.Name)
	}
	return node, nil
}
