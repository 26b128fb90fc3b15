// Package kicadsexp provides a lightweight streaming S-expression reader and
// writer for KiCad files.
//
// A document is a tree of *Node values. Every list starts with a name atom,
// the rest of the list is an ordered sequence of items, each either a Symbol
// (bare token or quoted string) or a nested *Node. Quoting is not part of the
// tree: the writer quotes an atom only when the atom needs it, which is the
// rule KiCad's own formatter follows.
package kicadsexp

import "strings"

// Sexp represents an S-expression item: a Symbol or a *Node.
type Sexp interface {
	// IsLeaf returns true if this is an atom (not a list)
	IsLeaf() bool

	// String returns the single-line textual representation
	String() string
}

// Symbol represents an atom (identifier, number or string contents).
type Symbol string

func (s Symbol) IsLeaf() bool   { return true }
func (s Symbol) String() string { return Quote(string(s)) }

// Node is a named list: (name item item ...).
type Node struct {
	Name  string
	Items []Sexp
}

// NewNode builds a node from a name and items.
func NewNode(name string, items ...Sexp) *Node {
	return &Node{Name: name, Items: items}
}

// Atoms builds a node whose items are all atoms.
func Atoms(name string, values ...string) *Node {
	n := &Node{Name: name, Items: make([]Sexp, len(values))}
	for i, v := range values {
		n.Items[i] = Symbol(v)
	}
	return n
}

func (n *Node) IsLeaf() bool { return false }

func (n *Node) String() string {
	var b strings.Builder
	writeInline(&b, n)
	return b.String()
}

// Len returns the number of items after the name.
func (n *Node) Len() int {
	return len(n.Items)
}

// Atom returns the item at index i if it is an atom.
func (n *Node) Atom(i int) (string, bool) {
	if i < 0 || i >= len(n.Items) {
		return "", false
	}
	sym, ok := n.Items[i].(Symbol)
	return string(sym), ok
}

// Child returns the item at index i if it is a list.
func (n *Node) Child(i int) (*Node, bool) {
	if i < 0 || i >= len(n.Items) {
		return nil, false
	}
	child, ok := n.Items[i].(*Node)
	return child, ok
}

// Find returns the first child list with the given name.
func (n *Node) Find(name string) (*Node, bool) {
	for _, item := range n.Items {
		if child, ok := item.(*Node); ok && child.Name == name {
			return child, true
		}
	}
	return nil, false
}

// FindAll returns all child lists with the given name, in order.
func (n *Node) FindAll(name string) []*Node {
	var result []*Node
	for _, item := range n.Items {
		if child, ok := item.(*Node); ok && child.Name == name {
			result = append(result, child)
		}
	}
	return result
}

// Equal reports whether two trees have the same names and items.
func Equal(a, b Sexp) bool {
	switch x := a.(type) {
	case Symbol:
		y, ok := b.(Symbol)
		return ok && x == y
	case *Node:
		y, ok := b.(*Node)
		if !ok || x.Name != y.Name || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !Equal(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	}
	return a == nil && b == nil
}
