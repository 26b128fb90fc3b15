package gschem

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// HeaderLexer splits an object header line into words.
var HeaderLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[^\s]+`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

// header is the first line of a gschem object.
type header struct {
	Version   *versionHeader   `  @@`
	Net       *netHeader       `| @@`
	Component *componentHeader `| @@`
	Text      *textHeader      `| @@`
	Path      *pathHeader      `| @@`
	Picture   *pictureHeader   `| @@`
	Graphic   *graphicHeader   `| @@`
}

type versionHeader struct {
	Date       string `"v" @Word`
	FileFormat int    `@Word`
}

type netHeader struct {
	X1    int `"N" @Word`
	Y1    int `@Word`
	X2    int `@Word`
	Y2    int `@Word`
	Color int `@Word`
}

type componentHeader struct {
	X          int    `"C" @Word`
	Y          int    `@Word`
	Selectable int    `@Word`
	Angle      int    `@Word`
	Mirror     int    `@Word`
	Basename   string `@Word`
}

// textHeader is followed by NumLines raw text lines. Files older than file
// format 1 omit the count and carry a single line.
type textHeader struct {
	X             int `"T" @Word`
	Y             int `@Word`
	Color         int `@Word`
	Size          int `@Word`
	Visibility    int `@Word`
	ShowNameValue int `@Word`
	Angle         int `@Word`
	Alignment     int `@Word`
	NumLines      int `@Word?`
}

// pathHeader ends with the number of path data lines that follow.
type pathHeader struct {
	Keyword string `@"H"`
	Args    []int  `@Word*`
}

// pictureHeader is followed by the image filename and, when embedded, by
// encoded image data up to a line holding a single dot.
type pictureHeader struct {
	X        int `"G" @Word`
	Y        int `@Word`
	Width    int `@Word`
	Height   int `@Word`
	Angle    int `@Word`
	Mirrored int `@Word`
	Embedded int `@Word`
}

// graphicHeader covers objects without a counterpart in the converted
// schematic: lines, boxes, circles, arcs, pins and buses.
type graphicHeader struct {
	Keyword string   `@("L" | "B" | "V" | "A" | "P" | "U")`
	Args    []string `@Word*`
}

var objectKeywords = map[string]bool{
	"v": true, "N": true, "C": true, "T": true, "H": true, "G": true,
	"L": true, "B": true, "V": true, "A": true, "P": true, "U": true,
}

var headerParser = participle.MustBuild[header](
	participle.Lexer(HeaderLexer),
	participle.Elide("Whitespace"),
)
