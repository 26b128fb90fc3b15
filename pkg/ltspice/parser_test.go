package ltspice

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/OpenTraceLab/kiconv/pkg/element"
)

const divider = `Version 4
SHEET 1 880 680
WIRE 96 96 16 96
WIRE 208 96 176 96
FLAG 16 176 0
FLAG 208 96 out
IOPIN 208 96 Out
SYMBOL res 160 80 R90
WINDOW 0 0 56 VBottom 2
WINDOW 3 32 56 VTop 2
SYMATTR InstName R1
SYMATTR Value 10k
SYMBOL voltage 16 80 M180
SYMATTR InstName V1
SYMATTR Value SINE(0 1 1k)
TEXT -16 200 Left 2 !.tran 10m
LINE Normal 0 0 32 32 2
`

func TestParseDivider(t *testing.T) {
	sch, err := ParseString(divider)
	require.NoError(t, err)

	assert.Equal(t, "4", sch.Version)
	assert.Equal(t, 1, sch.Sheet)
	assert.Equal(t, 880, sch.Width)
	assert.Equal(t, 680, sch.Height)

	want := []element.Element{
		&element.Wire{X1: 96, Y1: 96, X2: 16, Y2: 96},
		&element.Wire{X1: 208, Y1: 96, X2: 176, Y2: 96},
		&element.Flag{X: 16, Y: 176, Name: "0"},
		&element.Flag{X: 208, Y: 96, Name: "out"},
		&element.Symbol{
			Basename: "res", X: 160, Y: 80, Angle: 90,
			Attributes: element.Attributes{
				{Key: "InstName", Value: "R1", X: 160, Y: 80},
				{Key: "Value", Value: "10k", X: 160, Y: 80},
			},
			Windows: []string{"0 0 56 VBottom 2", "3 32 56 VTop 2"},
		},
		&element.Symbol{
			Basename: "voltage", X: 16, Y: 80, Angle: 180, Mirror: true,
			Attributes: element.Attributes{
				{Key: "InstName", Value: "V1", X: 16, Y: 80},
				{Key: "Value", Value: "SINE(0 1 1k)", X: 16, Y: 80},
			},
		},
		&element.Text{X: -16, Y: 200, Align: "Left", Size: 2, Body: "!.tran 10m"},
	}
	assert.Equal(t, want, sch.Elements)
}

func TestParseKeepsSpacing(t *testing.T) {
	sch, err := ParseString("SYMBOL voltage 0 0 R0\nSYMATTR SpiceLine Rser=1  Cpar=2\nTEXT 0 32 Left 2 ;two  spaces\tand tab\n")
	require.NoError(t, err)
	require.Len(t, sch.Elements, 2)

	sym := sch.Elements[0].(*element.Symbol)
	attr, ok := sym.Attributes.Get("SpiceLine")
	require.True(t, ok)
	assert.Equal(t, "Rser=1  Cpar=2", attr.Value)
	assert.Equal(t, ";two  spaces\tand tab", sch.Elements[1].(*element.Text).Body)
}

func TestTail(t *testing.T) {
	tests := []struct {
		line string
		n    int
		want string
	}{
		{"SYMATTR Value 10k", 2, "10k"},
		{"SYMATTR Value a  b", 2, "a  b"},
		{"SYMATTR  Value x", 2, "x"},
		{"SYMATTR Value", 2, ""},
		{"TEXT 1 2 Left 2 !.op", 5, "!.op"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tail(tt.line, tt.n), tt.line)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		keyword string
		err     error
	}{
		{"unknown keyword", "Version 4\nBOGUS 1 2\n", 2, "BOGUS", ErrUnknownKeyword},
		{"orphan symattr", "Version 4\nSYMATTR InstName R1\n", 2, "SYMATTR", ErrOrphanAttribute},
		{"symattr after wire", "SYMBOL res 0 0 R0\nWIRE 0 0 1 1\nSYMATTR Value 1\n", 3, "SYMATTR", ErrOrphanAttribute},
		{"orphan window", "WINDOW 0 1 2 Left 2\n", 1, "WINDOW", ErrOrphanAttribute},
		{"bad orientation", "SYMBOL res 0 0 R45\n", 1, "SYMBOL", ErrOrientation},
		{"bad orientation prefix", "SYMBOL res 0 0 X90\n", 1, "SYMBOL", ErrOrientation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)

			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.line, se.Line)
			assert.Equal(t, tt.keyword, se.Keyword)
		})
	}
}

func TestParseMalformedNumbers(t *testing.T) {
	_, err := ParseString("WIRE 1 2 x 4\n")
	var se *SyntaxError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 1, se.Line)
	assert.Equal(t, "WIRE", se.Keyword)

	_, err = ParseString("WIRE 1 2 3\n")
	require.Error(t, err)
}

func TestParseBlankAndCRLF(t *testing.T) {
	sch, err := ParseString("Version 4\r\n\r\nWIRE 1 2 3 4\r\n")
	require.NoError(t, err)
	require.Len(t, sch.Elements, 1)
	assert.Equal(t, &element.Wire{X1: 1, Y1: 2, X2: 3, Y2: 4}, sch.Elements[0])
}

func TestParseUTF16(t *testing.T) {
	src := "Version 4\nSHEET 1 880 680\nWIRE 1 2 3 4\n"

	for _, policy := range []unicode.BOMPolicy{unicode.IgnoreBOM, unicode.UseBOM} {
		encoded, err := unicode.UTF16(unicode.LittleEndian, policy).NewEncoder().String(src)
		require.NoError(t, err)

		sch, err := Parse(bytes.NewReader([]byte(encoded)))
		require.NoError(t, err)
		assert.Equal(t, "4", sch.Version)
		require.Len(t, sch.Elements, 1)
	}
}

func TestParseUTF8BOM(t *testing.T) {
	sch, err := Parse(bytes.NewReader([]byte("\xef\xbb\xbfVersion 4\nFLAG 0 0 Vcc\n")))
	require.NoError(t, err)
	assert.Equal(t, "4", sch.Version)
	assert.Equal(t, []element.Element{&element.Flag{Name: "Vcc"}}, sch.Elements)
}

func TestParseOrientation(t *testing.T) {
	tests := []struct {
		in     string
		angle  int
		mirror bool
	}{
		{"R0", 0, false},
		{"R90", 90, false},
		{"R270", 270, false},
		{"M0", 0, true},
		{"M180", 180, true},
	}
	for _, tt := range tests {
		angle, mirror, err := parseOrientation(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.angle, angle, tt.in)
		assert.Equal(t, tt.mirror, mirror, tt.in)
	}
}
