package ltspice

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// LineLexer splits one .asc line into whitespace separated words. Numbers are
// words too; the grammar converts them when it captures into int fields.
var LineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Word", Pattern: `[^\s]+`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

// line is a single .asc statement. Exactly one member is set after a
// successful parse.
type line struct {
	Version *versionLine `  @@`
	Sheet   *sheetLine   `| @@`
	Wire    *wireLine    `| @@`
	Flag    *flagLine    `| @@`
	Symbol  *symbolLine  `| @@`
	SymAttr *symAttrLine `| @@`
	Window  *windowLine  `| @@`
	Text    *textLine    `| @@`
	Ignored *ignoredLine `| @@`
}

type versionLine struct {
	Number string `"Version" @Word`
}

type sheetLine struct {
	Number int `"SHEET" @Word`
	Width  int `@Word`
	Height int `@Word`
}

type wireLine struct {
	X1 int `"WIRE" @Word`
	Y1 int `@Word`
	X2 int `@Word`
	Y2 int `@Word`
}

type flagLine struct {
	X    int    `"FLAG" @Word`
	Y    int    `@Word`
	Name string `@Word`
}

type symbolLine struct {
	Basename    string `"SYMBOL" @Word`
	X           int    `@Word`
	Y           int    `@Word`
	Orientation string `@Word`
}

type symAttrLine struct {
	Key   string   `"SYMATTR" @Word`
	Value []string `@Word*`
}

type windowLine struct {
	Keyword string   `@"WINDOW"`
	Args    []string `@Word*`
}

type textLine struct {
	X     int      `"TEXT" @Word`
	Y     int      `@Word`
	Align string   `@Word`
	Size  int      `@Word`
	Body  []string `@Word*`
}

// ignoredLine covers drawing and port statements that have no counterpart in
// the converted schematic.
type ignoredLine struct {
	Keyword string   `@("LINE" | "RECTANGLE" | "CIRCLE" | "ARC" | "IOPIN" | "DATAFLAG" | "BUSTAP")`
	Args    []string `@Word*`
}

// keywords lists every statement the grammar accepts.
var keywords = map[string]bool{
	"Version":   true,
	"SHEET":     true,
	"WIRE":      true,
	"FLAG":      true,
	"SYMBOL":    true,
	"SYMATTR":   true,
	"WINDOW":    true,
	"TEXT":      true,
	"LINE":      true,
	"RECTANGLE": true,
	"CIRCLE":    true,
	"ARC":       true,
	"IOPIN":     true,
	"DATAFLAG":  true,
	"BUSTAP":    true,
}

var lineParser = participle.MustBuild[line](
	participle.Lexer(LineLexer),
	participle.Elide("Whitespace"),
)
