package bind

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownField reports a child keyword with no registered field kind.
	ErrUnknownField = errors.New("unknown field")
	// ErrMalformed reports a value a field kind cannot parse.
	ErrMalformed = errors.New("malformed value")
	// ErrUnknownFormat reports a document whose root keyword is not the expected one.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrIncompletePair reports a pair of attributes where only one is set.
	ErrIncompletePair = errors.New("incomplete attribute pair")
)

// Error is a load failure tied to the offending keyword and its raw content.
type Error struct {
	Record  string // name of the enclosing node
	Keyword string // offending child keyword or token
	Value   string // raw text of the offending item
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v in %s", e.Record, e.Keyword, e.Err, e.Value)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func unknown(keyword string) error {
	return fmt.Errorf("%w %q", ErrUnknownField, keyword)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}

// asMalformed classifies a codec error as a malformed value unless it already
// carries one of the sentinel kinds.
func asMalformed(err error) error {
	if errors.Is(err, ErrUnknownField) || errors.Is(err, ErrMalformed) || errors.Is(err, ErrIncompletePair) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}
