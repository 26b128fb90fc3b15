package convert

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Dialect names a source schematic format.
type Dialect string

const (
	LTspice Dialect = "ltspice"
	GSchem  Dialect = "gschem"
)

// ErrUnknownDialect is returned for a format name or file extension that no
// converter handles.
var ErrUnknownDialect = errors.New("unknown source format")

// DetectDialect picks the dialect from a file extension.
func DetectDialect(path string) (Dialect, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asc":
		return LTspice, nil
	case ".sch":
		return GSchem, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownDialect, path)
}

// ParseDialect validates a dialect name.
func ParseDialect(name string) (Dialect, error) {
	d := Dialect(strings.ToLower(name))
	if _, ok := dialects[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}
	return d, nil
}

// fieldRule places one source attribute. index is 0 to 2 for the reference,
// value and footprint fields and -1 for a named extra field. yoff is used
// by dialects whose attribute texts have no position of their own.
type fieldRule struct {
	index int
	name  string
	yoff  int
	ref   bool
}

type dialect struct {
	coord  func(x, y int) (int, int)
	fields map[string]fieldRule
	// anchorText places attribute texts below the symbol anchor, always
	// visible, instead of at the attribute's own position.
	anchorText bool
}

var dialects = map[Dialect]*dialect{
	LTspice: {
		coord: LTspiceCoord,
		fields: map[string]fieldRule{
			"InstName":     {index: 0, yoff: -20, ref: true},
			"Value":        {index: 1},
			"footprint":    {index: 2, yoff: 20},
			"mpn":          {index: -1, name: "mpn", yoff: 40},
			"manufacturer": {index: -1, name: "manufacturer", yoff: 60},
		},
		anchorText: true,
	},
	GSchem: {
		coord: GSchemCoord,
		fields: map[string]fieldRule{
			"refdes":       {index: 0, ref: true},
			"value":        {index: 1},
			"footprint":    {index: 2},
			"mpn":          {index: -1, name: "mpn"},
			"manufacturer": {index: -1, name: "manufacturer"},
		},
	},
}

// LTspiceCoord scales LTspice grid units to mils by 3.937, truncating
// toward zero.
func LTspiceCoord(x, y int) (int, int) {
	return x * 3937 / 1000, y * 3937 / 1000
}

// GSchemCoord halves gschem mils and flips the Y axis, rounding toward
// negative infinity.
func GSchemCoord(x, y int) (int, int) {
	return floorDiv(x, 2), floorDiv(-y, 2)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
