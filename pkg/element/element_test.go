package element

import "testing"

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		text  string
		key   string
		value string
		ok    bool
	}{
		{"refdes=R1", "refdes", "R1", true},
		{"netname=\\_RST\\_", "netname", "\\_RST\\_", true},
		{"value=a=b", "value", "a=b", true},
		{"value=", "value", "", true},
		{"no attribute here", "", "", false},
		{"=orphan", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			attr, ok := ParseAttribute(tt.text, 10, 20, true)
			if ok != tt.ok {
				t.Fatalf("ParseAttribute(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			}
			if !ok {
				return
			}
			if attr.Key != tt.key || attr.Value != tt.value {
				t.Errorf("ParseAttribute(%q) = %q=%q, want %q=%q", tt.text, attr.Key, attr.Value, tt.key, tt.value)
			}
			if attr.X != 10 || attr.Y != 20 || !attr.Visible {
				t.Errorf("position/visibility not kept: %+v", attr)
			}
		})
	}
}

func TestAttributesGet(t *testing.T) {
	attrs := Attributes{
		{Key: "refdes", Value: "R1"},
		{Key: "value", Value: "10k"},
		{Key: "value", Value: "ignored"},
	}

	if a, ok := attrs.Get("value"); !ok || a.Value != "10k" {
		t.Errorf("Get(value) = %+v, %v; want first match", a, ok)
	}
	if _, ok := attrs.Get("footprint"); ok {
		t.Error("Get(footprint) found a missing key")
	}
}

func TestElementVariants(t *testing.T) {
	elems := []Element{&Wire{}, &Symbol{}, &Flag{}, &Text{}}
	for _, e := range elems {
		switch e.(type) {
		case *Wire, *Symbol, *Flag, *Text:
		default:
			t.Errorf("unexpected element type %T", e)
		}
	}
}
