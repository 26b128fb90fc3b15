// Package bind maps generic S-expression trees onto typed records and back.
//
// A record declares its shape once, as an ordered table of keyword to field
// kind, built by Fields on each instance so that every kind is bound to a
// pointer into that instance:
//
//	func (v *Via) Fields() []bind.Field {
//		return []bind.Field{
//			bind.F("at", bind.Pos(&v.At)),
//			bind.F("size", bind.Distance(&v.Size)),
//			bind.F("layers", bind.Flags(&v.Layers)),
//			bind.F("net", bind.Int(&v.Net)),
//		}
//	}
//
// Load dispatches every child of a node through that table and fails on any
// keyword the table does not declare, and on a second occurrence of a
// keyword bound to a single value. Save walks the table in order and skips
// attributes that were never set, so save(load(x)) reproduces x.
//
// The set of field kinds is closed: Kind has unexported methods and every
// implementation lives in this package.
package bind

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp/kicadsexp"
)

// Kind is a decode/encode strategy for one attribute shape.
type Kind interface {
	// decode sets the bound attribute from the keyword's node.
	decode(n *kicadsexp.Node) error
	// encode returns the nodes for the bound attribute, or nil when unset.
	encode(keyword string) ([]kicadsexp.Sexp, error)
}

// repeatable is implemented by kinds that accept their keyword more than
// once. Every other kind rejects a second occurrence.
type repeatable interface {
	repeated()
}

// Field associates a child keyword with the kind that handles it.
type Field struct {
	Keyword string
	Kind    Kind
}

// F builds a Field.
func F(keyword string, kind Kind) Field {
	return Field{Keyword: keyword, Kind: kind}
}

// Record is a type bound to a node through its field table.
type Record interface {
	Fields() []Field
}

// Header is implemented by records with leading positional attributes, such
// as a module's name or a pad's number, type and shape. DecodeHeader consumes
// them from the front of the node's items and returns the remainder.
type Header interface {
	DecodeHeader(name string, items []kicadsexp.Sexp) ([]kicadsexp.Sexp, error)
	EncodeHeader(name string) []kicadsexp.Sexp
}

// Validator is implemented by records with cross-field constraints. Validate
// runs after load and before save.
type Validator interface {
	Validate() error
}

// Load populates rec from node n. Any failure aborts the whole load.
func Load(rec Record, n *kicadsexp.Node) error {
	items := n.Items
	if h, ok := rec.(Header); ok {
		rest, err := h.DecodeHeader(n.Name, items)
		if err != nil {
			return &Error{Record: n.Name, Keyword: n.Name, Value: n.String(), Err: asMalformed(err)}
		}
		items = rest
	}

	fields := rec.Fields()
	seen := make(map[string]bool)
	for _, item := range items {
		switch v := item.(type) {
		case kicadsexp.Symbol:
			f, ok := lookup(fields, string(v))
			tok, isToken := f.Kind.(*tokenField)
			if !ok || !isToken {
				return &Error{Record: n.Name, Keyword: string(v), Value: n.String(), Err: ErrUnknownField}
			}
			if *tok.dst {
				return &Error{Record: n.Name, Keyword: string(v), Value: n.String(), Err: malformed("duplicate %s", v)}
			}
			*tok.dst = true

		case *kicadsexp.Node:
			f, ok := lookup(fields, v.Name)
			if !ok {
				return &Error{Record: n.Name, Keyword: v.Name, Value: v.String(), Err: ErrUnknownField}
			}
			if _, isToken := f.Kind.(*tokenField); isToken {
				return &Error{Record: n.Name, Keyword: v.Name, Value: v.String(), Err: malformed("flag written as a list")}
			}
			if _, ok := f.Kind.(repeatable); !ok {
				if seen[v.Name] {
					return &Error{Record: n.Name, Keyword: v.Name, Value: v.String(), Err: malformed("duplicate %s", v.Name)}
				}
				seen[v.Name] = true
			}
			if err := f.Kind.decode(v); err != nil {
				var nested *Error
				if errors.As(err, &nested) {
					return fmt.Errorf("%s: %w", n.Name, err)
				}
				return &Error{Record: n.Name, Keyword: v.Name, Value: v.String(), Err: asMalformed(err)}
			}
		}
	}

	if val, ok := rec.(Validator); ok {
		if err := val.Validate(); err != nil {
			return &Error{Record: n.Name, Keyword: n.Name, Value: n.String(), Err: err}
		}
	}
	return nil
}

// Save builds the node for rec under the given keyword.
func Save(rec Record, keyword string) (*kicadsexp.Node, error) {
	if val, ok := rec.(Validator); ok {
		if err := val.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", keyword, err)
		}
	}

	n := &kicadsexp.Node{Name: keyword}
	if h, ok := rec.(Header); ok {
		n.Items = append(n.Items, h.EncodeHeader(keyword)...)
	}
	for _, f := range rec.Fields() {
		items, err := f.Kind.encode(f.Keyword)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", keyword, err)
		}
		n.Items = append(n.Items, items...)
	}
	return n, nil
}

// LoadRoot loads a top-level record and checks the root keyword.
func LoadRoot(rec Record, keyword string, n *kicadsexp.Node) error {
	if n.Name != keyword {
		return &Error{Record: n.Name, Keyword: n.Name, Value: "expected " + keyword, Err: ErrUnknownFormat}
	}
	return Load(rec, n)
}

func lookup(fields []Field, keyword string) (Field, bool) {
	for _, f := range fields {
		if f.Keyword == keyword {
			return f, true
		}
	}
	return Field{}, false
}

// TakeAtoms splits count leading atoms off items, for use in DecodeHeader.
func TakeAtoms(items []kicadsexp.Sexp, count int) ([]string, []kicadsexp.Sexp, error) {
	if len(items) < count {
		return nil, nil, malformed("expected %d leading values, got %d", count, len(items))
	}
	out := make([]string, count)
	for i := 0; i < count; i++ {
		sym, ok := items[i].(kicadsexp.Symbol)
		if !ok {
			return nil, nil, malformed("expected value at position %d, got %s", i, items[i].String())
		}
		out[i] = string(sym)
	}
	return out, items[count:], nil
}

// Symbols converts strings to atoms, for use in EncodeHeader.
func Symbols(values ...string) []kicadsexp.Sexp {
	out := make([]kicadsexp.Sexp, len(values))
	for i, v := range values {
		out[i] = kicadsexp.Symbol(v)
	}
	return out
}
