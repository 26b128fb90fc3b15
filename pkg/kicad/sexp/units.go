package sexp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// KiCad board files carry lengths as decimal millimetres; internally every
// length is an integer number of nanometres.
const (
	NanometersPerMM = 1_000_000
	distanceScale   = 6 // decimal digits between mm and nm
)

// ParseDistance converts decimal millimetre text to nanometres. The
// conversion is exact; text with more than six fractional digits is rejected.
func ParseDistance(text string) (int64, error) {
	if text == "" {
		return 0, fmt.Errorf("invalid distance: empty value")
	}
	d, _, err := apd.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("invalid distance %q: %w", text, err)
	}
	if d.Form != apd.Finite {
		return 0, fmt.Errorf("invalid distance %q: not a finite number", text)
	}
	d.Exponent += distanceScale
	nm, err := d.Int64()
	if err != nil {
		return 0, fmt.Errorf("invalid distance %q: %w", text, err)
	}
	return nm, nil
}

// FormatDistance converts nanometres to the shortest exact millimetre text.
func FormatDistance(nm int64) string {
	if nm == 0 {
		return "0"
	}
	d := apd.New(nm, -distanceScale)
	d.Reduce(d)
	return d.Text('f')
}

// MM converts nanometres to floating point millimetres for display.
func MM(nm int64) float64 {
	return float64(nm) / NanometersPerMM
}

// ParseHex parses a base-16 number with an optional 0x prefix.
func ParseHex(text string) (uint64, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hex value %q: %w", text, err)
	}
	return v, nil
}

// FormatHex formats v as upper-case hex without a prefix.
func FormatHex(v uint64) string {
	return strings.ToUpper(strconv.FormatUint(v, 16))
}

// ParseBool reports whether the token is one of KiCad's truth spellings.
func ParseBool(text string) bool {
	return text == "yes" || text == "true"
}

// ParseInt parses a decimal integer token.
func ParseInt(text string) (int, error) {
	v, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", text, err)
	}
	return v, nil
}

// ParseFloat parses a decimal floating point token.
func ParseFloat(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", text, err)
	}
	return v, nil
}

// FormatFloat formats v with the fewest digits that read back exactly.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Fixed is a number that keeps the count of fractional digits it was written
// with. KiCad 5 writes plot settings with %f, as in (linewidth 0.100000).
// Places 0 writes the shortest form.
type Fixed struct {
	Value  float64
	Places int
}

// ParseFixed parses a decimal token and records its fractional digits.
func ParseFixed(text string) (Fixed, error) {
	v, err := ParseFloat(text)
	if err != nil {
		return Fixed{}, err
	}
	f := Fixed{Value: v}
	if _, frac, ok := strings.Cut(text, "."); ok && !strings.ContainsAny(text, "eE") {
		f.Places = len(frac)
	}
	return f, nil
}

func (f Fixed) String() string {
	if f.Places > 0 {
		return strconv.FormatFloat(f.Value, 'f', f.Places, 64)
	}
	return FormatFloat(f.Value)
}
