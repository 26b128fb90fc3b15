package kicadsexp

import (
	"bufio"
	"fmt"
	"io"
	"unicode"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLeftParen
	TokenRightParen
	TokenSymbol
	TokenString
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLeftParen:
		return "'('"
	case TokenRightParen:
		return "')'"
	case TokenSymbol:
		return "symbol"
	case TokenString:
		return "string"
	default:
		return fmt.Sprintf("token(%d)", int(t))
	}
}

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value string
	Line  int
}

// Lexer tokenizes S-expressions from an io.Reader
type Lexer struct {
	reader *bufio.Reader
	peeked *rune
	line   int
}

// NewLexer creates a new lexer
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(r),
		line:   1,
	}
}

// NextToken reads the next token from the input
func (l *Lexer) NextToken() (Token, error) {
	// Skip whitespace
	for {
		ch, err := l.peek()
		if err != nil {
			if err == io.EOF {
				return Token{Type: TokenEOF, Line: l.line}, nil
			}
			return Token{}, err
		}
		if !unicode.IsSpace(ch) {
			break
		}
		l.read()
	}

	ch, _ := l.peek()
	switch ch {
	case '(':
		l.read()
		return Token{Type: TokenLeftParen, Value: "(", Line: l.line}, nil

	case ')':
		l.read()
		return Token{Type: TokenRightParen, Value: ")", Line: l.line}, nil

	case '"':
		return l.readString()

	default:
		return l.readSymbol()
	}
}

// peek looks at the next rune without consuming it
func (l *Lexer) peek() (rune, error) {
	if l.peeked != nil {
		return *l.peeked, nil
	}

	ch, _, err := l.reader.ReadRune()
	if err != nil {
		return 0, err
	}

	l.peeked = &ch
	return ch, nil
}

// read consumes and returns the next rune
func (l *Lexer) read() (rune, error) {
	var ch rune
	if l.peeked != nil {
		ch = *l.peeked
		l.peeked = nil
	} else {
		var err error
		ch, _, err = l.reader.ReadRune()
		if err != nil {
			return 0, err
		}
	}
	if ch == '\n' {
		l.line++
	}
	return ch, nil
}

// readString reads a quoted string
func (l *Lexer) readString() (Token, error) {
	start := l.line
	l.read() // opening quote

	var result []rune
	for {
		ch, err := l.read()
		if err != nil {
			if err == io.EOF {
				return Token{}, fmt.Errorf("line %d: unexpected EOF in string", start)
			}
			return Token{}, err
		}

		if ch == '"' {
			break
		}

		if ch == '\\' {
			next, err := l.read()
			if err != nil {
				return Token{}, fmt.Errorf("line %d: unexpected EOF after backslash", start)
			}
			switch next {
			case 'n':
				result = append(result, '\n')
			case 't':
				result = append(result, '\t')
			case 'r':
				result = append(result, '\r')
			default:
				result = append(result, next)
			}
			continue
		}

		result = append(result, ch)
	}

	return Token{Type: TokenString, Value: string(result), Line: start}, nil
}

// readSymbol reads an unquoted symbol (identifier, number, etc.)
func (l *Lexer) readSymbol() (Token, error) {
	var result []rune

	for {
		ch, err := l.peek()
		if err != nil {
			if err == io.EOF {
				break
			}
			return Token{}, err
		}

		if unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			break
		}

		l.read()
		result = append(result, ch)
	}

	if len(result) == 0 {
		return Token{}, fmt.Errorf("line %d: empty symbol", l.line)
	}

	return Token{Type: TokenSymbol, Value: string(result), Line: l.line}, nil
}
