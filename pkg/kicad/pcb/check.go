package pcb

import (
	"bytes"
	"fmt"
	"strings"

	chewsexp "github.com/chewxy/sexp"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp/kicadsexp"
)

// RoundTrip is the result of loading a board and saving it again. Both
// texts are in the writer's canonical layout so that only content
// differences show up.
type RoundTrip struct {
	Original string
	Saved    string
	Diffs    []diffmatchpatch.Diff
	// Leaf counts of both texts as seen by an independent S-expression
	// reader; -1 when that reader rejects the text.
	OriginalLeaves int
	SavedLeaves    int
}

// Equal reports whether saving reproduced the input.
func (rt *RoundTrip) Equal() bool {
	return rt.Original == rt.Saved
}

// Changed returns the number of diff chunks that are not equal.
func (rt *RoundTrip) Changed() int {
	n := 0
	for _, d := range rt.Diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			n++
		}
	}
	return n
}

// Report lists removed lines prefixed by "-" and added lines by "+".
func (rt *RoundTrip) Report() []string {
	var out []string
	for _, d := range rt.Diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		default:
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			out = append(out, prefix+line)
		}
	}
	return out
}

// CheckRoundTrip parses board text, binds it, saves it and compares the
// result with the input.
func CheckRoundTrip(data []byte) (*RoundTrip, error) {
	root, err := kicadsexp.ParseNode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}
	original := kicadsexp.Format(root)

	board, err := FromNode(root)
	if err != nil {
		return nil, err
	}
	n, err := board.Node()
	if err != nil {
		return nil, err
	}
	saved := kicadsexp.Format(n)

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(original, saved)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	return &RoundTrip{
		Original:       original,
		Saved:          saved,
		Diffs:          diffs,
		OriginalLeaves: leafCount(original),
		SavedLeaves:    leafCount(saved),
	}, nil
}

func leafCount(text string) int {
	exprs, err := chewsexp.ParseString(text)
	if err != nil {
		return -1
	}
	total := 0
	for _, e := range exprs {
		if e.IsLeaf() {
			total++
			continue
		}
		total += e.LeafCount()
	}
	return total
}
