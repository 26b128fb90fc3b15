// Package gschem reads gEDA gschem .sch schematics into source elements.
//
// A gschem file is a sequence of objects. Each object starts with a one
// letter header line; text objects and paths are followed by a counted
// number of raw lines. An object may be followed by a { } block of attribute
// texts, and a component by a [ ] block holding its embedded symbol.
package gschem

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/kiconv/pkg/element"
)

var (
	// ErrUnknownKeyword is returned for an object type the reader does not know.
	ErrUnknownKeyword = errors.New("unknown object type")
	// ErrOrphanAttribute is returned for an attribute block with no object before it.
	ErrOrphanAttribute = errors.New("attribute block without an object")
	// ErrUnbalanced is returned for a stray or unterminated { } or [ ] block.
	ErrUnbalanced = errors.New("unbalanced block")
	// ErrTruncated is returned when the file ends inside a counted text or path.
	ErrTruncated = errors.New("unexpected end of file")
)

// SyntaxError locates a failure to read one line.
type SyntaxError struct {
	Line    int
	Keyword string
	Err     error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Keyword, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// Schematic is the content of one .sch file.
type Schematic struct {
	Version    string
	FileFormat int
	Elements   []element.Element
}

// ParseFile reads and parses a .sch file
func ParseFile(filename string) (*Schematic, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads a gschem schematic from r.
func Parse(r io.Reader) (*Schematic, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read schematic: %w", err)
	}
	return ParseString(string(data))
}

// ParseString parses gschem text.
func ParseString(text string) (*Schematic, error) {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	p := &parser{lines: strings.Split(text, "\n"), sch: &Schematic{}}
	elems, err := p.objects(false)
	if err != nil {
		return nil, err
	}
	p.sch.Elements = elems
	return p.sch, nil
}

type parser struct {
	lines []string
	pos   int // index of the next line
	sch   *Schematic
}

func (p *parser) next() (string, bool) {
	if p.pos >= len(p.lines) {
		return "", false
	}
	line := p.lines[p.pos]
	p.pos++
	return line, true
}

func (p *parser) errorf(keyword string, err error) error {
	return &SyntaxError{Line: p.pos, Keyword: keyword, Err: err}
}

// objects reads objects up to the end of input, or up to the closing ']'
// of an embedded symbol.
func (p *parser) objects(embedded bool) ([]element.Element, error) {
	var elems []element.Element
	// attrs receives the attribute block following the last object; nil when
	// that object is not converted.
	var attrs *element.Attributes
	haveObject := false

	for {
		line, ok := p.next()
		if !ok {
			if embedded {
				return nil, p.errorf("[", ErrUnbalanced)
			}
			return elems, nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		keyword := fields[0]

		switch keyword {
		case "{":
			if !haveObject {
				return nil, p.errorf(keyword, ErrOrphanAttribute)
			}
			list, err := p.attributes()
			if err != nil {
				return nil, err
			}
			if attrs != nil {
				*attrs = append(*attrs, list...)
			}
			continue
		case "[":
			if !haveObject {
				return nil, p.errorf(keyword, ErrUnbalanced)
			}
			// Embedded symbol contents describe the symbol, not the schematic.
			if _, err := p.objects(true); err != nil {
				return nil, err
			}
			continue
		case "]":
			if !embedded {
				return nil, p.errorf(keyword, ErrUnbalanced)
			}
			return elems, nil
		case "}":
			return nil, p.errorf(keyword, ErrUnbalanced)
		}

		if !objectKeywords[keyword] {
			return nil, p.errorf(keyword, ErrUnknownKeyword)
		}
		h, err := headerParser.ParseString("", line)
		if err != nil {
			return nil, p.errorf(keyword, err)
		}

		haveObject, attrs = true, nil
		switch {
		case h.Version != nil:
			p.sch.Version, p.sch.FileFormat = h.Version.Date, h.Version.FileFormat
			haveObject = false
		case h.Net != nil:
			n := h.Net
			w := &element.Wire{X1: n.X1, Y1: n.Y1, X2: n.X2, Y2: n.Y2}
			elems = append(elems, w)
			attrs = &w.Attributes
		case h.Component != nil:
			c := h.Component
			s := &element.Symbol{Basename: c.Basename, X: c.X, Y: c.Y, Angle: c.Angle, Mirror: c.Mirror != 0}
			elems = append(elems, s)
			attrs = &s.Attributes
		case h.Text != nil:
			body, err := p.text(h.Text)
			if err != nil {
				return nil, err
			}
			t := h.Text
			elems = append(elems, &element.Text{
				X: t.X, Y: t.Y, Align: strconv.Itoa(t.Alignment), Size: t.Size, Body: body,
			})
		case h.Path != nil:
			if err := p.skipPath(h.Path); err != nil {
				return nil, err
			}
		case h.Picture != nil:
			if err := p.skipPicture(h.Picture); err != nil {
				return nil, err
			}
		}
	}
}

// attributes reads a { } block. Only text objects may appear in it; those
// that do not hold key=value text are dropped.
func (p *parser) attributes() ([]element.Attribute, error) {
	var list []element.Attribute
	for {
		line, ok := p.next()
		if !ok {
			return nil, p.errorf("{", ErrUnbalanced)
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "}" {
			return list, nil
		}
		if fields[0] != "T" {
			return nil, p.errorf(fields[0], fmt.Errorf("%w inside attribute block", ErrUnknownKeyword))
		}
		h, err := headerParser.ParseString("", line)
		if err != nil {
			return nil, p.errorf(fields[0], err)
		}
		body, err := p.text(h.Text)
		if err != nil {
			return nil, err
		}
		if attr, ok := element.ParseAttribute(body, h.Text.X, h.Text.Y, h.Text.Visibility == 1); ok {
			list = append(list, attr)
		}
	}
}

// text reads the lines of a text object.
func (p *parser) text(t *textHeader) (string, error) {
	n := t.NumLines
	if n == 0 {
		n = 1
	}
	body := make([]string, 0, n)
	for i := 0; i < n; i++ {
		line, ok := p.next()
		if !ok {
			return "", p.errorf("T", ErrTruncated)
		}
		body = append(body, line)
	}
	return strings.Join(body, "\n"), nil
}

func (p *parser) skipPath(h *pathHeader) error {
	if len(h.Args) == 0 {
		return p.errorf("H", fmt.Errorf("missing line count"))
	}
	for i := 0; i < h.Args[len(h.Args)-1]; i++ {
		if _, ok := p.next(); !ok {
			return p.errorf("H", ErrTruncated)
		}
	}
	return nil
}

func (p *parser) skipPicture(h *pictureHeader) error {
	if _, ok := p.next(); !ok {
		return p.errorf("G", ErrTruncated)
	}
	if h.Embedded != 1 {
		return nil
	}
	for {
		line, ok := p.next()
		if !ok {
			return p.errorf("G", ErrTruncated)
		}
		if strings.TrimSpace(line) == "." {
			return nil
		}
	}
}
