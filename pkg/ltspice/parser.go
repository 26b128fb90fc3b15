// Package ltspice reads LTspice .asc schematics into source elements.
//
// Each line of an .asc file is one statement introduced by a keyword.
// SYMATTR and WINDOW lines belong to the SYMBOL statement above them; any
// other statement closes the current symbol.
package ltspice

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/OpenTraceLab/kiconv/pkg/element"
)

var (
	// ErrUnknownKeyword is returned for a statement the reader does not know.
	ErrUnknownKeyword = errors.New("unknown keyword")
	// ErrOrphanAttribute is returned for SYMATTR or WINDOW outside a symbol.
	ErrOrphanAttribute = errors.New("attribute outside a SYMBOL")
	// ErrOrientation is returned for a SYMBOL orientation other than R<deg> or M<deg>.
	ErrOrientation = errors.New("invalid orientation")
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

// Schematic is the content of one .asc file.
type Schematic struct {
	Version  string
	Sheet    int
	Width    int
	Height   int
	Elements []element.Element
}

// ParseFile reads and parses an .asc file
func ParseFile(filename string) (*Schematic, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads an .asc schematic. UTF-16LE input, with or without a byte
// order mark, is accepted alongside UTF-8.
func Parse(r io.Reader) (*Schematic, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read schematic: %w", err)
	}
	text, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode schematic: %w", err)
	}
	return ParseString(text)
}

// ParseString parses already decoded .asc text.
func ParseString(text string) (*Schematic, error) {
	sch := &Schematic{}
	var current *element.Symbol

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), "\r")
		fields := strings.Fields(raw)
		if len(fields) == 0 {
			continue
		}
		keyword := fields[0]
		if !keywords[keyword] {
			return nil, &SyntaxError{Line: lineNo, Keyword: keyword, Err: ErrUnknownKeyword}
		}

		stmt, err := lineParser.ParseString("", raw)
		if err != nil {
			return nil, &SyntaxError{Line: lineNo, Keyword: keyword, Err: err}
		}

		switch {
		case stmt.SymAttr != nil:
			if current == nil {
				return nil, &SyntaxError{Line: lineNo, Keyword: keyword, Err: ErrOrphanAttribute}
			}
			current.Attributes = append(current.Attributes, element.Attribute{
				Key:   stmt.SymAttr.Key,
				Value: tail(raw, 2),
				X:     current.X,
				Y:     current.Y,
			})
			continue
		case stmt.Window != nil:
			if current == nil {
				return nil, &SyntaxError{Line: lineNo, Keyword: keyword, Err: ErrOrphanAttribute}
			}
			current.Windows = append(current.Windows, strings.Join(stmt.Window.Args, " "))
			continue
		}

		current = nil
		switch {
		case stmt.Version != nil:
			sch.Version = stmt.Version.Number
		case stmt.Sheet != nil:
			sch.Sheet, sch.Width, sch.Height = stmt.Sheet.Number, stmt.Sheet.Width, stmt.Sheet.Height
		case stmt.Wire != nil:
			w := stmt.Wire
			sch.Elements = append(sch.Elements, &element.Wire{X1: w.X1, Y1: w.Y1, X2: w.X2, Y2: w.Y2})
		case stmt.Flag != nil:
			f := stmt.Flag
			sch.Elements = append(sch.Elements, &element.Flag{X: f.X, Y: f.Y, Name: f.Name})
		case stmt.Symbol != nil:
			s := stmt.Symbol
			angle, mirror, err := parseOrientation(s.Orientation)
			if err != nil {
				return nil, &SyntaxError{Line: lineNo, Keyword: keyword, Err: err}
			}
			current = &element.Symbol{Basename: s.Basename, X: s.X, Y: s.Y, Angle: angle, Mirror: mirror}
			sch.Elements = append(sch.Elements, current)
		case stmt.Text != nil:
			t := stmt.Text
			sch.Elements = append(sch.Elements, &element.Text{
				X: t.X, Y: t.Y, Align: t.Align, Size: t.Size,
				Body: tail(raw, 5),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan schematic: %w", err)
	}
	return sch, nil
}

// tail returns the text after the first n fields of a statement. Each field
// is followed by one separator, so spacing inside the rest is kept.
func tail(line string, n int) string {
	rest := line
	for i := 0; i < n; i++ {
		rest = strings.TrimLeft(rest, " \t")
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			return ""
		}
		rest = rest[end+1:]
	}
	return rest
}

// parseOrientation decodes R<deg> or M<deg>.
func parseOrientation(s string) (angle int, mirror bool, err error) {
	if len(s) < 2 || (s[0] != 'R' && s[0] != 'M') {
		return 0, false, fmt.Errorf("%w: %q", ErrOrientation, s)
	}
	angle, err = strconv.Atoi(s[1:])
	if err != nil || angle < 0 || angle >= 360 || angle%90 != 0 {
		return 0, false, fmt.Errorf("%w: %q", ErrOrientation, s)
	}
	return angle, s[0] == 'M', nil
}

// decode converts the raw file to UTF-8. A byte order mark always wins;
// without one, a zero in the second byte means UTF-16LE since every .asc
// statement starts with an ASCII letter.
func decode(data []byte) (string, error) {
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if looksUTF16LE(data) {
		fallback = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func looksUTF16LE(data []byte) bool {
	if bytes.HasPrefix(data, []byte{0xef, 0xbb, 0xbf}) {
		return false
	}
	return len(data) >= 2 && data[0] != 0 && data[1] == 0
}
