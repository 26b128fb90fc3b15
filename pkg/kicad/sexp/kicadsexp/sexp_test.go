package kicadsexp

import (
	"strings"
	"testing"
)

func TestParseNode(t *testing.T) {
	node, err := ParseNode(strings.NewReader(`(kicad_pcb (version 20171130) (host pcbnew "(5.1.5)-3")
  (net 1 "Net-(R1-Pad1)")
)`))
	if err != nil {
		t.Fatalf("ParseNode() unexpected error: %v", err)
	}
	if node.Name != "kicad_pcb" {
		t.Errorf("Name = %q, want kicad_pcb", node.Name)
	}
	if node.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", node.Len())
	}

	host, ok := node.Find("host")
	if !ok {
		t.Fatal("host node not found")
	}
	if v, _ := host.Atom(1); v != "(5.1.5)-3" {
		t.Errorf("host build = %q, want (5.1.5)-3", v)
	}

	net, _ := node.Child(2)
	if v, _ := net.Atom(1); v != "Net-(R1-Pad1)" {
		t.Errorf("net name = %q", v)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unclosed list", input: "(a (b 1)"},
		{name: "stray close", input: ")"},
		{name: "unterminated string", input: `(a "b`},
		{name: "nameless list", input: "((a))"},
		{name: "empty", input: "   "},
		{name: "top-level atom", input: "abc"},
		{name: "trailing data", input: "(a) (b)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseNode(strings.NewReader(tt.input)); err == nil {
				t.Errorf("ParseNode(%q) expected error, got nil", tt.input)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"F.Cu", "F.Cu"},
		{"", `""`},
		{"Net-(R1-Pad1)", `"Net-(R1-Pad1)"`},
		{"two words", `"two words"`},
		{`say "hi"`, `"say \"hi\""`},
		{`a\b`, `"a\\b"`},
		{"0x010fc_ffffffff", "0x010fc_ffffffff"},
	}

	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestWriteRoundTrip(t *testing.T) {
	input := `(module R_0805 (layer F.Cu) (tedit 5B36C52B)
  (fp_text reference R1 (at 0 -1.65) (layer F.SilkS)
    (effects (font (size 1 1) (thickness 0.15)))
  )
  (pad 1 smd roundrect (at -0.9375 0) (size 0.975 1.4) (layers F.Cu F.Paste F.Mask) (net 2 "Net-(C1-Pad1)"))
  (descr "Resistor SMD 0805, \"reflow\"")
)`
	first, err := ParseNode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseNode() unexpected error: %v", err)
	}

	text := Format(first)
	second, err := ParseNode(strings.NewReader(text))
	if err != nil {
		t.Fatalf("re-parse of %q failed: %v", text, err)
	}

	if !Equal(first, second) {
		t.Errorf("round trip changed tree:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestWriteLayout(t *testing.T) {
	n := NewNode("setup",
		Atoms("last_trace_width", "0.25"),
		NewNode("pcbplotparams", Atoms("mode", "1")),
	)

	want := "(setup\n  (last_trace_width 0.25)\n  (pcbplotparams (mode 1))\n)\n"
	if got := Format(n); got != want {
		t.Errorf("Format() =\n%s\nwant\n%s", got, want)
	}

	flat := Atoms("layers", "*.Cu", "*.Mask")
	if got := Format(flat); got != "(layers *.Cu *.Mask)\n" {
		t.Errorf("Format(flat) = %q", got)
	}
}

func TestLexerLines(t *testing.T) {
	_, err := ParseString("(a\n(b\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q should point at line 2", err)
	}
}
