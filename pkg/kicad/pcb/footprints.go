package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/bind"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp/kicadsexp"
)

// Module represents a placed footprint
type Module struct {
	Name              string // Library footprint name, e.g. "Resistor_SMD:R_0603"
	Locked            bool
	Placed            bool
	Layer             bind.Optional[string]
	Tedit             bind.Optional[uint64]
	Tstamp            bind.Optional[uint64]
	At                bind.Optional[sexp.Pos]
	Descr             bind.Optional[string]
	Tags              bind.Optional[string]
	Path              bind.Optional[string]
	AutoplaceCost90   bind.Optional[int]
	AutoplaceCost180  bind.Optional[int]
	SolderMaskMargin  bind.Optional[int64]
	SolderPasteMargin bind.Optional[int64]
	SolderPasteRatio  bind.Optional[float64]
	Clearance         bind.Optional[int64]
	ZoneConnect       bind.Optional[int]
	ThermalWidth      bind.Optional[int64]
	ThermalGap        bind.Optional[int64]
	Attr              bind.Optional[string]
	Texts             []*Text
	Lines             []*Line
	Circles           []*Circle
	Arcs              []*Arc
	Polys             []*Poly
	Pads              []*Pad
	Models            []*Model
}

func (m *Module) Fields() []bind.Field {
	return []bind.Field{
		bind.F("locked", bind.Token(&m.Locked)),
		bind.F("placed", bind.Token(&m.Placed)),
		bind.F("layer", bind.String(&m.Layer)),
		bind.F("tedit", bind.Hex(&m.Tedit)),
		bind.F("tstamp", bind.Hex(&m.Tstamp)),
		bind.F("at", bind.Pos(&m.At)),
		bind.F("descr", bind.String(&m.Descr)),
		bind.F("tags", bind.String(&m.Tags)),
		bind.F("path", bind.String(&m.Path)),
		bind.F("autoplace_cost90", bind.Int(&m.AutoplaceCost90)),
		bind.F("autoplace_cost180", bind.Int(&m.AutoplaceCost180)),
		bind.F("solder_mask_margin", bind.Distance(&m.SolderMaskMargin)),
		bind.F("solder_paste_margin", bind.Distance(&m.SolderPasteMargin)),
		bind.F("solder_paste_ratio", bind.Float(&m.SolderPasteRatio)),
		bind.F("clearance", bind.Distance(&m.Clearance)),
		bind.F("zone_connect", bind.Int(&m.ZoneConnect)),
		bind.F("thermal_width", bind.Distance(&m.ThermalWidth)),
		bind.F("thermal_gap", bind.Distance(&m.ThermalGap)),
		bind.F("attr", bind.String(&m.Attr)),
		bind.F("fp_text", bind.Many(&m.Texts)),
		bind.F("fp_line", bind.Many(&m.Lines)),
		bind.F("fp_circle", bind.Many(&m.Circles)),
		bind.F("fp_arc", bind.Many(&m.Arcs)),
		bind.F("fp_poly", bind.Many(&m.Polys)),
		bind.F("pad", bind.Many(&m.Pads)),
		bind.F("model", bind.Many(&m.Models)),
	}
}

func (m *Module) DecodeHeader(name string, items []kicadsexp.Sexp) ([]kicadsexp.Sexp, error) {
	head, rest, err := bind.TakeAtoms(items, 1)
	if err != nil {
		return nil, err
	}
	m.Name = head[0]
	return rest, nil
}

func (m *Module) EncodeHeader(name string) []kicadsexp.Sexp {
	return bind.Symbols(m.Name)
}

// Reference returns the reference designator text, e.g. "R1"
func (m *Module) Reference() string {
	return m.fieldText("reference")
}

// Value returns the value text, e.g. "10k"
func (m *Module) Value() string {
	return m.fieldText("value")
}

func (m *Module) fieldText(kind string) string {
	for _, t := range m.Texts {
		if t.Type == kind {
			return t.Text
		}
	}
	return ""
}

// Pad represents a footprint pad
type Pad struct {
	Number                 string // Pad number/name
	Type                   string // thru_hole, smd, connect, np_thru_hole
	Shape                  string // circle, rect, oval, trapezoid, roundrect, custom
	At                     bind.Optional[sexp.Pos]
	Size                   bind.Optional[sexp.Size]
	RectDelta              bind.Optional[sexp.Size]
	Drill                  *Drill
	Layers                 bind.Optional[[]string]
	RoundrectRatio         bind.Optional[float64]
	ChamferRatio           bind.Optional[float64]
	Chamfer                bind.Optional[[]string]
	Net                    bind.Optional[Net]
	PinFunction            bind.Optional[string]
	DieLength              bind.Optional[int64]
	SolderMaskMargin       bind.Optional[int64]
	SolderPasteMargin      bind.Optional[int64]
	SolderPasteMarginRatio bind.Optional[float64]
	Clearance              bind.Optional[int64]
	ZoneConnect            bind.Optional[int]
	ThermalWidth           bind.Optional[int64]
	ThermalGap             bind.Optional[int64]
	Tstamp                 bind.Optional[uint64]
}

func (p *Pad) Fields() []bind.Field {
	return []bind.Field{
		bind.F("at", bind.Pos(&p.At)),
		bind.F("size", bind.Size(&p.Size)),
		bind.F("rect_delta", bind.Size(&p.RectDelta)),
		bind.F("drill", bind.One(&p.Drill)),
		bind.F("layers", bind.Flags(&p.Layers)),
		bind.F("roundrect_rratio", bind.Float(&p.RoundrectRatio)),
		bind.F("chamfer_ratio", bind.Float(&p.ChamferRatio)),
		bind.F("chamfer", bind.Flags(&p.Chamfer)),
		bind.F("net", bind.NetRef(&p.Net)),
		bind.F("pinfunction", bind.String(&p.PinFunction)),
		bind.F("die_length", bind.Distance(&p.DieLength)),
		bind.F("solder_mask_margin", bind.Distance(&p.SolderMaskMargin)),
		bind.F("solder_paste_margin", bind.Distance(&p.SolderPasteMargin)),
		bind.F("solder_paste_margin_ratio", bind.Float(&p.SolderPasteMarginRatio)),
		bind.F("clearance", bind.Distance(&p.Clearance)),
		bind.F("zone_connect", bind.Int(&p.ZoneConnect)),
		bind.F("thermal_width", bind.Distance(&p.ThermalWidth)),
		bind.F("thermal_gap", bind.Distance(&p.ThermalGap)),
		bind.F("tstamp", bind.Hex(&p.Tstamp)),
	}
}

func (p *Pad) DecodeHeader(name string, items []kicadsexp.Sexp) ([]kicadsexp.Sexp, error) {
	head, rest, err := bind.TakeAtoms(items, 3)
	if err != nil {
		return nil, err
	}
	p.Number, p.Type, p.Shape = head[0], head[1], head[2]
	return rest, nil
}

func (p *Pad) EncodeHeader(name string) []kicadsexp.Sexp {
	return bind.Symbols(p.Number, p.Type, p.Shape)
}

// Drill is a pad hole: (drill [oval] D [D2] [(offset X Y)])
type Drill struct {
	Oval   bool
	Size   int64
	Height bind.Optional[int64] // second axis of an oval hole
	Offset bind.Optional[sexp.Pos]
}

func (d *Drill) Fields() []bind.Field {
	return []bind.Field{
		bind.F("offset", bind.Pos(&d.Offset)),
	}
}

func (d *Drill) DecodeHeader(name string, items []kicadsexp.Sexp) ([]kicadsexp.Sexp, error) {
	if len(items) > 0 && items[0] == kicadsexp.Symbol("oval") {
		d.Oval = true
		items = items[1:]
	}
	var sizes []int64
	for len(items) > 0 && len(sizes) < 2 {
		sym, ok := items[0].(kicadsexp.Symbol)
		if !ok {
			break
		}
		v, err := sexp.ParseDistance(string(sym))
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, v)
		items = items[1:]
	}
	if len(sizes) == 0 {
		return nil, fmt.Errorf("missing drill size")
	}
	d.Size = sizes[0]
	if len(sizes) == 2 {
		d.Height.Set(sizes[1])
	}
	return items, nil
}

func (d *Drill) EncodeHeader(name string) []kicadsexp.Sexp {
	var values []string
	if d.Oval {
		values = append(values, "oval")
	}
	values = append(values, sexp.FormatDistance(d.Size))
	if h, ok := d.Height.Get(); ok {
		values = append(values, sexp.FormatDistance(h))
	}
	return bind.Symbols(values...)
}

// Model is a 3D model reference attached to a module
type Model struct {
	Path   string
	At     bind.Optional[sexp.XYZ]
	Offset bind.Optional[sexp.XYZ]
	Scale  bind.Optional[sexp.XYZ]
	Rotate bind.Optional[sexp.XYZ]
}

func (m *Model) Fields() []bind.Field {
	return []bind.Field{
		bind.F("at", bind.XYZ(&m.At)),
		bind.F("offset", bind.XYZ(&m.Offset)),
		bind.F("scale", bind.XYZ(&m.Scale)),
		bind.F("rotate", bind.XYZ(&m.Rotate)),
	}
}

func (m *Model) DecodeHeader(name string, items []kicadsexp.Sexp) ([]kicadsexp.Sexp, error) {
	head, rest, err := bind.TakeAtoms(items, 1)
	if err != nil {
		return nil, err
	}
	m.Path = head[0]
	return rest, nil
}

func (m *Model) EncodeHeader(name string) []kicadsexp.Sexp {
	return bind.Symbols(m.Path)
}

// Text is a board (gr_text) or footprint (fp_text) text item. Footprint
// texts carry a kind before the text: reference, value or user.
type Text struct {
	Type    string
	Text    string
	At      bind.Optional[sexp.Pos]
	Layer   bind.Optional[string]
	Hidden  bool
	Tstamp  bind.Optional[uint64]
	Effects *Effects
}

func (t *Text) Fields() []bind.Field {
	return []bind.Field{
		bind.F("at", bind.Pos(&t.At)),
		bind.F("layer", bind.String(&t.Layer)),
		bind.F("hide", bind.Token(&t.Hidden)),
		bind.F("tstamp", bind.Hex(&t.Tstamp)),
		bind.F("effects", bind.One(&t.Effects)),
	}
}

func (t *Text) DecodeHeader(name string, items []kicadsexp.Sexp) ([]kicadsexp.Sexp, error) {
	if name == "fp_text" {
		head, rest, err := bind.TakeAtoms(items, 2)
		if err != nil {
			return nil, err
		}
		t.Type, t.Text = head[0], head[1]
		return rest, nil
	}
	head, rest, err := bind.TakeAtoms(items, 1)
	if err != nil {
		return nil, err
	}
	t.Text = head[0]
	return rest, nil
}

func (t *Text) EncodeHeader(name string) []kicadsexp.Sexp {
	if name == "fp_text" {
		return bind.Symbols(t.Type, t.Text)
	}
	return bind.Symbols(t.Text)
}

// Effects describes how a text is rendered
type Effects struct {
	Font    bind.Optional[bind.Font]
	Justify bind.Optional[[]string]
	Hidden  bool
}

func (e *Effects) Fields() []bind.Field {
	return []bind.Field{
		bind.F("font", bind.FontField(&e.Font)),
		bind.F("justify", bind.Flags(&e.Justify)),
		bind.F("hide", bind.Token(&e.Hidden)),
	}
}
