package kicadsexp

import (
	"bufio"
	"io"
	"strings"
)

const indentStep = "  "

// Quote returns s as it must appear in a file: bare when possible, otherwise
// wrapped in double quotes with backslash escapes.
func Quote(s string) string {
	if !needsQuotes(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \t\n\r()\"\\")
}

// Write serializes a node tree to w. Lists whose children are all flat are
// written on one line; deeper lists put each child list on its own line.
func Write(w io.Writer, n *Node) error {
	bw := bufio.NewWriter(w)
	writeNode(bw, n, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

// Format returns the multi-line representation produced by Write.
func Format(n *Node) string {
	var b strings.Builder
	Write(&b, n)
	return b.String()
}

type stringWriter interface {
	WriteString(string) (int, error)
	WriteByte(byte) error
}

func writeNode(w stringWriter, n *Node, depth int) {
	if isFlat(n) {
		writeInline(w, n)
		return
	}

	w.WriteByte('(')
	w.WriteString(Quote(n.Name))
	for _, item := range n.Items {
		switch v := item.(type) {
		case Symbol:
			w.WriteByte(' ')
			w.WriteString(v.String())
		case *Node:
			w.WriteByte('\n')
			w.WriteString(strings.Repeat(indentStep, depth+1))
			writeNode(w, v, depth+1)
		}
	}
	w.WriteByte('\n')
	w.WriteString(strings.Repeat(indentStep, depth))
	w.WriteByte(')')
}

func writeInline(w stringWriter, n *Node) {
	w.WriteByte('(')
	w.WriteString(Quote(n.Name))
	for _, item := range n.Items {
		w.WriteByte(' ')
		switch v := item.(type) {
		case Symbol:
			w.WriteString(v.String())
		case *Node:
			writeInline(w, v)
		}
	}
	w.WriteByte(')')
}

// isFlat reports whether no child list of n has child lists of its own.
func isFlat(n *Node) bool {
	for _, item := range n.Items {
		child, ok := item.(*Node)
		if !ok {
			continue
		}
		for _, grandchild := range child.Items {
			if _, ok := grandchild.(*Node); ok {
				return false
			}
		}
	}
	return true
}
