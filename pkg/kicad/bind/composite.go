package bind

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp/kicadsexp"
)

// recordPtr constrains P to be *T and a Record, so that One and Many can
// allocate a fresh T and bind it.
type recordPtr[T any] interface {
	*T
	Record
}

type oneField[T any, P recordPtr[T]] struct{ dst **T }

// One binds a nested record owned one-to-one. A nil pointer is unset.
func One[T any, P recordPtr[T]](dst **T) Kind { return &oneField[T, P]{dst} }

func (f *oneField[T, P]) decode(n *kicadsexp.Node) error {
	v := new(T)
	if err := Load(P(v), n); err != nil {
		return err
	}
	*f.dst = v
	return nil
}

func (f *oneField[T, P]) encode(keyword string) ([]kicadsexp.Sexp, error) {
	if *f.dst == nil {
		return nil, nil
	}
	n, err := Save(P(*f.dst), keyword)
	if err != nil {
		return nil, err
	}
	return one(n), nil
}

type manyField[T any, P recordPtr[T]] struct{ dst *[]*T }

// Many binds a repeated keyword to an ordered collection of nested records.
func Many[T any, P recordPtr[T]](dst *[]*T) Kind { return &manyField[T, P]{dst} }

func (f *manyField[T, P]) repeated() {}

func (f *manyField[T, P]) decode(n *kicadsexp.Node) error {
	v := new(T)
	if err := Load(P(v), n); err != nil {
		return err
	}
	*f.dst = append(*f.dst, v)
	return nil
}

func (f *manyField[T, P]) encode(keyword string) ([]kicadsexp.Sexp, error) {
	var out []kicadsexp.Sexp
	for i, v := range *f.dst {
		n, err := Save(P(v), keyword)
		if err != nil {
			return nil, fmt.Errorf("%s #%d: %w", keyword, i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// NetTable is the board's net id to name association. Iteration follows
// insertion order.
type NetTable struct {
	ids   []int
	names map[int]string
}

// Add associates id with name. Re-adding an id renames it in place.
func (t *NetTable) Add(id int, name string) {
	if t.names == nil {
		t.names = make(map[int]string)
	}
	if _, ok := t.names[id]; !ok {
		t.ids = append(t.ids, id)
	}
	t.names[id] = name
}

// Name returns the name of net id.
func (t *NetTable) Name(id int) (string, bool) {
	name, ok := t.names[id]
	return name, ok
}

// ID returns the id of the first net called name.
func (t *NetTable) ID(name string) (int, bool) {
	for _, id := range t.ids {
		if t.names[id] == name {
			return id, true
		}
	}
	return 0, false
}

// IDs returns the net ids in insertion order.
func (t *NetTable) IDs() []int {
	return append([]int(nil), t.ids...)
}

// Len returns the number of nets.
func (t *NetTable) Len() int {
	return len(t.ids)
}

type netsField struct{ dst *NetTable }

// Nets binds the repeated (net ID NAME) keyword to a net table.
func Nets(dst *NetTable) Kind { return &netsField{dst} }

func (f *netsField) repeated() {}

func (f *netsField) decode(n *kicadsexp.Node) error {
	net, err := decodeNet(n)
	if err != nil {
		return err
	}
	if _, dup := f.dst.Name(net.ID); dup {
		return malformed("duplicate net %d", net.ID)
	}
	f.dst.Add(net.ID, net.Name)
	return nil
}

func (f *netsField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	var out []kicadsexp.Sexp
	for _, id := range f.dst.ids {
		out = append(out, kicadsexp.Atoms(keyword, strconv.Itoa(id), f.dst.names[id]))
	}
	return out, nil
}

// Net is a single net reference.
type Net struct {
	ID   int
	Name string
}

type netRefField struct{ dst *Optional[Net] }

// NetRef binds a singular (net ID NAME) pair.
func NetRef(dst *Optional[Net]) Kind { return &netRefField{dst} }

func (f *netRefField) decode(n *kicadsexp.Node) error {
	net, err := decodeNet(n)
	if err != nil {
		return err
	}
	f.dst.Set(net)
	return nil
}

func (f *netRefField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	net, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(kicadsexp.Atoms(keyword, strconv.Itoa(net.ID), net.Name)), nil
}

func decodeNet(n *kicadsexp.Node) (Net, error) {
	if err := sexp.CheckArity(n, 2); err != nil {
		return Net{}, err
	}
	id, err := sexp.GetInt(n, 0)
	if err != nil {
		return Net{}, err
	}
	name, err := sexp.GetString(n, 1)
	if err != nil {
		return Net{}, err
	}
	return Net{ID: id, Name: name}, nil
}

type membersField struct{ dst *[]string }

// Members binds a repeated single-value keyword, such as a net class's
// add_net, to an ordered list.
func Members(dst *[]string) Kind { return &membersField{dst} }

func (f *membersField) repeated() {}

func (f *membersField) decode(n *kicadsexp.Node) error {
	if err := sexp.CheckArity(n, 1); err != nil {
		return err
	}
	v, err := sexp.GetString(n, 0)
	if err != nil {
		return err
	}
	*f.dst = append(*f.dst, v)
	return nil
}

func (f *membersField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	var out []kicadsexp.Sexp
	for _, v := range *f.dst {
		out = append(out, kicadsexp.Atoms(keyword, v))
	}
	return out, nil
}

// Font is a text font description.
type Font struct {
	Size      Optional[sexp.Size]
	Thickness Optional[int64]
	Bold      bool
	Italic    bool
}

type fontField struct{ dst *Optional[Font] }

// FontField binds (font (size W H) (thickness T) [bold] [italic]).
func FontField(dst *Optional[Font]) Kind { return &fontField{dst} }

func (f *fontField) decode(n *kicadsexp.Node) error {
	var font Font
	for _, item := range n.Items {
		switch v := item.(type) {
		case kicadsexp.Symbol:
			switch v {
			case "italic":
				if font.Italic {
					return malformed("duplicate italic")
				}
				font.Italic = true
			case "bold":
				if font.Bold {
					return malformed("duplicate bold")
				}
				font.Bold = true
			default:
				return unknown(string(v))
			}
		case *kicadsexp.Node:
			if (v.Name == "size" && font.Size.IsSet()) || (v.Name == "thickness" && font.Thickness.IsSet()) {
				return malformed("duplicate %s", v.Name)
			}
			switch v.Name {
			case "size":
				xy, err := sexp.GetXY(v)
				if err != nil {
					return fmt.Errorf("size: %w", err)
				}
				font.Size.Set(sexp.Size{Width: xy.X, Height: xy.Y})
			case "thickness":
				if err := sexp.CheckArity(v, 1); err != nil {
					return fmt.Errorf("thickness: %w", err)
				}
				t, err := sexp.GetDistance(v, 0)
				if err != nil {
					return fmt.Errorf("thickness: %w", err)
				}
				font.Thickness.Set(t)
			default:
				return unknown(v.Name)
			}
		}
	}
	f.dst.Set(font)
	return nil
}

func (f *fontField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	font, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	n := kicadsexp.NewNode(keyword)
	if size, ok := font.Size.Get(); ok {
		n.Items = append(n.Items, sexp.XYNode("size", sexp.XY{X: size.Width, Y: size.Height}))
	}
	if t, ok := font.Thickness.Get(); ok {
		n.Items = append(n.Items, kicadsexp.Atoms("thickness", sexp.FormatDistance(t)))
	}
	if font.Bold {
		n.Items = append(n.Items, kicadsexp.Symbol("bold"))
	}
	if font.Italic {
		n.Items = append(n.Items, kicadsexp.Symbol("italic"))
	}
	return one(n), nil
}

// LayerSelection is the plot layer mask, written as two hex halves joined by
// an underscore. The digit widths and prefix of a loaded token are kept so
// the token is written back unchanged; zero widths format minimally.
type LayerSelection struct {
	High       uint64
	Low        uint64
	NoPrefix   bool // no 0x before the high half
	HighDigits int
	LowDigits  int
}

// String formats the selection token.
func (s LayerSelection) String() string {
	prefix := "0x"
	if s.NoPrefix {
		prefix = ""
	}
	return fmt.Sprintf("%s%0*x_%0*x", prefix, s.HighDigits, s.High, s.LowDigits, s.Low)
}

// ParseLayerSelection parses a HIGH_LOW hex token.
func ParseLayerSelection(token string) (LayerSelection, error) {
	high, low, ok := strings.Cut(token, "_")
	if !ok || strings.Contains(low, "_") {
		return LayerSelection{}, fmt.Errorf("invalid layer selection %q", token)
	}
	var s LayerSelection
	digits := strings.TrimPrefix(strings.TrimPrefix(high, "0x"), "0X")
	s.NoPrefix = digits == high
	var err error
	if s.High, err = strconv.ParseUint(digits, 16, 64); err != nil {
		return LayerSelection{}, fmt.Errorf("invalid layer selection %q: %w", token, err)
	}
	if s.Low, err = strconv.ParseUint(low, 16, 64); err != nil {
		return LayerSelection{}, fmt.Errorf("invalid layer selection %q: %w", token, err)
	}
	s.HighDigits, s.LowDigits = len(digits), len(low)
	return s, nil
}

type selectionField struct{ dst *Optional[LayerSelection] }

// SelectionField binds a layer selection token.
func SelectionField(dst *Optional[LayerSelection]) Kind { return &selectionField{dst} }

func (f *selectionField) decode(n *kicadsexp.Node) error {
	if err := sexp.CheckArity(n, 1); err != nil {
		return err
	}
	token, err := sexp.GetString(n, 0)
	if err != nil {
		return err
	}
	s, err := ParseLayerSelection(token)
	if err != nil {
		return err
	}
	f.dst.Set(s)
	return nil
}

func (f *selectionField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	s, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(kicadsexp.Atoms(keyword, s.String())), nil
}

// Hatch is a zone outline hatch style and pitch.
type Hatch struct {
	Style string
	Pitch int64
}

type hatchField struct{ dst *Optional[Hatch] }

// HatchField binds (hatch STYLE PITCH).
func HatchField(dst *Optional[Hatch]) Kind { return &hatchField{dst} }

func (f *hatchField) decode(n *kicadsexp.Node) error {
	if err := sexp.CheckArity(n, 2); err != nil {
		return err
	}
	style, err := sexp.GetString(n, 0)
	if err != nil {
		return err
	}
	pitch, err := sexp.GetDistance(n, 1)
	if err != nil {
		return err
	}
	f.dst.Set(Hatch{Style: style, Pitch: pitch})
	return nil
}

func (f *hatchField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	h, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(kicadsexp.Atoms(keyword, h.Style, sexp.FormatDistance(h.Pitch))), nil
}

// Connect styles. Thermal is implied when no style token is written.
const (
	ConnectThermal      = "thermal"
	ConnectNo           = "no"
	ConnectYes          = "yes"
	ConnectThruHoleOnly = "thru_hole_only"
)

// Connect is a zone's pad connection style and clearance.
type Connect struct {
	Style     string
	Clearance int64
}

type connectField struct{ dst *Optional[Connect] }

// ConnectField binds (connect_pads [STYLE] (clearance D)).
func ConnectField(dst *Optional[Connect]) Kind { return &connectField{dst} }

func (f *connectField) decode(n *kicadsexp.Node) error {
	c := Connect{Style: ConnectThermal}
	items := n.Items
	if len(items) > 0 {
		if sym, ok := items[0].(kicadsexp.Symbol); ok {
			switch string(sym) {
			case ConnectNo, ConnectYes, ConnectThruHoleOnly:
				c.Style = string(sym)
			default:
				return fmt.Errorf("invalid connect style %q", string(sym))
			}
			items = items[1:]
		}
	}
	if len(items) != 1 {
		return fmt.Errorf("expected (clearance D), got %d items", len(items))
	}
	clr, ok := items[0].(*kicadsexp.Node)
	if !ok {
		return fmt.Errorf("expected (clearance D), got %s", items[0].String())
	}
	if clr.Name != "clearance" {
		return unknown(clr.Name)
	}
	if err := sexp.CheckArity(clr, 1); err != nil {
		return fmt.Errorf("clearance: %w", err)
	}
	d, err := sexp.GetDistance(clr, 0)
	if err != nil {
		return fmt.Errorf("clearance: %w", err)
	}
	c.Clearance = d
	f.dst.Set(c)
	return nil
}

func (f *connectField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	c, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	n := kicadsexp.NewNode(keyword)
	if c.Style != ConnectThermal && c.Style != "" {
		n.Items = append(n.Items, kicadsexp.Symbol(c.Style))
	}
	n.Items = append(n.Items, kicadsexp.Atoms("clearance", sexp.FormatDistance(c.Clearance)))
	return one(n), nil
}

type keepoutsField struct{ dst *Optional[[]string] }

// Keepouts binds (keepout (CATEGORY not_allowed)...) to an ordered set of
// category names. A category listed twice is malformed.
func Keepouts(dst *Optional[[]string]) Kind { return &keepoutsField{dst} }

func (f *keepoutsField) decode(n *kicadsexp.Node) error {
	var set []string
	seen := make(map[string]bool)
	for _, item := range n.Items {
		c, ok := item.(*kicadsexp.Node)
		if !ok {
			return fmt.Errorf("expected (CATEGORY not_allowed), got %s", item.String())
		}
		if err := sexp.CheckArity(c, 1); err != nil {
			return fmt.Errorf("%s: %w", c.Name, err)
		}
		if v, _ := c.Atom(0); v != "not_allowed" {
			return fmt.Errorf("%s: unknown keyword %s", c.Name, c.Items[0].String())
		}
		if seen[c.Name] {
			return malformed("duplicate keepout %s", c.Name)
		}
		seen[c.Name] = true
		set = append(set, c.Name)
	}
	f.dst.Set(set)
	return nil
}

func (f *keepoutsField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	set, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	n := kicadsexp.NewNode(keyword)
	for _, c := range set {
		n.Items = append(n.Items, kicadsexp.Atoms(c, "not_allowed"))
	}
	return one(n), nil
}

type xyListField struct{ dst *Optional[[]sexp.XY] }

// XYList binds (pts (xy X Y)...).
func XYList(dst *Optional[[]sexp.XY]) Kind { return &xyListField{dst} }

func (f *xyListField) decode(n *kicadsexp.Node) error {
	pts, err := decodePts(n)
	if err != nil {
		return err
	}
	f.dst.Set(pts)
	return nil
}

func (f *xyListField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	pts, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(encodePts(keyword, pts)), nil
}

type pointsField struct{ dst *Optional[[]sexp.XY] }

// Points binds (polygon (pts (xy X Y)...)).
func Points(dst *Optional[[]sexp.XY]) Kind { return &pointsField{dst} }

func (f *pointsField) decode(n *kicadsexp.Node) error {
	if n.Len() != 1 {
		return fmt.Errorf("expected (pts ...), got %d items", n.Len())
	}
	pts, ok := n.Child(0)
	if !ok || pts.Name != "pts" {
		return fmt.Errorf("expected (pts ...), got %s", n.Items[0].String())
	}
	xy, err := decodePts(pts)
	if err != nil {
		return err
	}
	f.dst.Set(xy)
	return nil
}

func (f *pointsField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	pts, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(kicadsexp.NewNode(keyword, encodePts("pts", pts))), nil
}

func decodePts(n *kicadsexp.Node) ([]sexp.XY, error) {
	out := make([]sexp.XY, 0, n.Len())
	for _, item := range n.Items {
		c, ok := item.(*kicadsexp.Node)
		if !ok || c.Name != "xy" {
			return nil, fmt.Errorf("%s: expected (xy X Y), got %s", n.Name, item.String())
		}
		p, err := sexp.GetXY(c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", n.Name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func encodePts(keyword string, pts []sexp.XY) *kicadsexp.Node {
	n := kicadsexp.NewNode(keyword)
	for _, p := range pts {
		n.Items = append(n.Items, sexp.XYNode("xy", p))
	}
	return n
}

// Layer is one entry of the board layer table.
type Layer struct {
	Number int
	Name   string
	Type   string
	Flags  []string // trailing atoms such as hide
}

type layersField struct{ dst *Optional[[]Layer] }

// Layers binds (layers (N NAME TYPE [flags...])...).
func Layers(dst *Optional[[]Layer]) Kind { return &layersField{dst} }

func (f *layersField) decode(n *kicadsexp.Node) error {
	var layers []Layer
	for _, item := range n.Items {
		c, ok := item.(*kicadsexp.Node)
		if !ok {
			return fmt.Errorf("expected (N NAME TYPE), got %s", item.String())
		}
		num, err := strconv.Atoi(c.Name)
		if err != nil {
			return fmt.Errorf("invalid layer number %q", c.Name)
		}
		atoms, err := sexp.GetStrings(c)
		if err != nil {
			return fmt.Errorf("layer %d: %w", num, err)
		}
		if len(atoms) < 2 {
			return fmt.Errorf("layer %d: expected name and type, got %d items", num, len(atoms))
		}
		l := Layer{Number: num, Name: atoms[0], Type: atoms[1]}
		if len(atoms) > 2 {
			l.Flags = atoms[2:]
		}
		layers = append(layers, l)
	}
	f.dst.Set(layers)
	return nil
}

func (f *layersField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	layers, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	n := kicadsexp.NewNode(keyword)
	for _, l := range layers {
		values := append([]string{l.Name, l.Type}, l.Flags...)
		n.Items = append(n.Items, kicadsexp.Atoms(strconv.Itoa(l.Number), values...))
	}
	return one(n), nil
}
