package bind

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp/kicadsexp"
)

type testInner struct {
	Width Optional[int64]
	Layer Optional[string]
}

func (r *testInner) Fields() []Field {
	return []Field{
		F("width", Distance(&r.Width)),
		F("layer", String(&r.Layer)),
	}
}

// testRecord declares one field of every kind.
type testRecord struct {
	Name      string
	Hidden    bool
	Label     Optional[string]
	Enabled   Optional[bool]
	Zone45    Optional[bool]
	Count     Optional[int]
	Angle     Optional[float64]
	Pen       Optional[sexp.Fixed]
	Stamp     Optional[uint64]
	Thickness Optional[int64]
	Size      Optional[sexp.Size]
	At        Optional[sexp.Pos]
	Offset    Optional[sexp.XYZ]
	Layers    Optional[[]string]
	Inner     *testInner
	Items     []*testInner
	Nets      NetTable
	Net       Optional[Net]
	Members   []string
	Font      Optional[Font]
	Selection Optional[LayerSelection]
	Hatch     Optional[Hatch]
	Connect   Optional[Connect]
	Keepout   Optional[[]string]
	Polygon   Optional[[]sexp.XY]
	Pts       Optional[[]sexp.XY]
	Table     Optional[[]Layer]
}

func (r *testRecord) DecodeHeader(name string, items []kicadsexp.Sexp) ([]kicadsexp.Sexp, error) {
	head, rest, err := TakeAtoms(items, 1)
	if err != nil {
		return nil, err
	}
	r.Name = head[0]
	return rest, nil
}

func (r *testRecord) EncodeHeader(name string) []kicadsexp.Sexp {
	return Symbols(r.Name)
}

func (r *testRecord) Fields() []Field {
	return []Field{
		F("hide", Token(&r.Hidden)),
		F("label", String(&r.Label)),
		F("enabled", Bool(&r.Enabled)),
		F("zone45", YesNo(&r.Zone45)),
		F("count", Int(&r.Count)),
		F("angle", Float(&r.Angle)),
		F("pen", Fixed(&r.Pen)),
		F("stamp", Hex(&r.Stamp)),
		F("thickness", Distance(&r.Thickness)),
		F("size", Size(&r.Size)),
		F("at", Pos(&r.At)),
		F("offset", XYZ(&r.Offset)),
		F("layers", Flags(&r.Layers)),
		F("inner", One(&r.Inner)),
		F("item", Many(&r.Items)),
		F("net", Nets(&r.Nets)),
		F("netref", NetRef(&r.Net)),
		F("add_net", Members(&r.Members)),
		F("font", FontField(&r.Font)),
		F("sel", SelectionField(&r.Selection)),
		F("hatch", HatchField(&r.Hatch)),
		F("connect", ConnectField(&r.Connect)),
		F("keepout", Keepouts(&r.Keepout)),
		F("polygon", Points(&r.Polygon)),
		F("pts", XYList(&r.Pts)),
		F("table", Layers(&r.Table)),
	}
}

type testPair struct {
	Net     Optional[int]
	NetName Optional[string]
}

func (r *testPair) Fields() []Field {
	return []Field{
		F("net", Int(&r.Net)),
		F("net_name", String(&r.NetName)),
	}
}

func (r *testPair) Validate() error {
	if r.Net.IsSet() != r.NetName.IsSet() {
		return ErrIncompletePair
	}
	return nil
}

const maximal = `(rec R1 hide (label "a b") (enabled true) (zone45 no) (count 3) (angle 90) (pen 15.000000)
  (stamp 5A2F) (thickness 1.6) (size 1.5 2) (at 10 -3.81 90) (offset (xyz 0 0 1.25))
  (layers F.Cu B.Cu) (inner (width 0.25) (layer F.SilkS)) (item (width 1)) (item (layer B.Cu))
  (net 0 "") (net 1 GND) (netref 1 GND) (add_net GND) (add_net VCC)
  (font (size 1 1) (thickness 0.15) italic) (sel 0x00030_80000001) (hatch edge 0.508)
  (connect (clearance 0.508)) (keepout (tracks not_allowed) (vias not_allowed))
  (polygon (pts (xy 0 0) (xy 10 0) (xy 10 5))) (pts (xy 1 1))
  (table (0 F.Cu signal) (31 B.Cu signal hide)))`

func parse(t *testing.T, text string) *kicadsexp.Node {
	t.Helper()
	n, err := kicadsexp.ParseNode(strings.NewReader(text))
	if err != nil {
		t.Fatalf("ParseNode() error = %v", err)
	}
	return n
}

var exportAll = cmp.Exporter(func(reflect.Type) bool { return true })

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"minimal", "(rec R1)"},
		{"maximal", maximal},
		{"connect style", "(rec R2 (connect thru_hole_only (clearance 0.2)))"},
		{"position without angle", "(rec R3 (at 0 0))"},
		{"position with zero angle", "(rec R4 (at 0 0 0))"},
		{"bare layer selection", "(rec R5 (sel 0000_80000000))"},
		{"bold font", "(rec R6 (font (size 1.27 1.27) bold italic))"},
		{"fixed places", "(rec R7 (pen 0.100000))"},
		{"fixed shortest", "(rec R8 (pen 15))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := parse(t, tt.input)

			var r testRecord
			if err := Load(&r, in); err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			out, err := Save(&r, "rec")
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if diff := cmp.Diff(kicadsexp.Format(in), kicadsexp.Format(out)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadMaximal(t *testing.T) {
	var r testRecord
	if err := Load(&r, parse(t, maximal)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if r.Name != "R1" || !r.Hidden {
		t.Errorf("header = %q hidden=%v, want R1 hidden", r.Name, r.Hidden)
	}
	if got := r.Label.Or(""); got != "a b" {
		t.Errorf("Label = %q, want %q", got, "a b")
	}
	if got := r.Thickness.Or(0); got != 1_600_000 {
		t.Errorf("Thickness = %d, want 1600000", got)
	}
	want := sexp.Pos{X: 10_000_000, Y: -3_810_000, Angle: 90, HasAngle: true}
	if got, _ := r.At.Get(); got != want {
		t.Errorf("At = %+v, want %+v", got, want)
	}
	if got, _ := r.Pen.Get(); got != (sexp.Fixed{Value: 15, Places: 6}) {
		t.Errorf("Pen = %+v, want 15 with 6 places", got)
	}
	if got := r.Stamp.Or(0); got != 0x5A2F {
		t.Errorf("Stamp = %X, want 5A2F", got)
	}
	if len(r.Items) != 2 || r.Items[0].Width.Or(0) != 1_000_000 || !r.Items[1].Layer.IsSet() {
		t.Errorf("Items not loaded in order: %+v", r.Items)
	}
	if r.Inner == nil || r.Inner.Layer.Or("") != "F.SilkS" {
		t.Errorf("Inner = %+v", r.Inner)
	}
	if diff := cmp.Diff([]string{"GND", "VCC"}, r.Members); diff != "" {
		t.Errorf("Members mismatch (-want +got):\n%s", diff)
	}
	c, _ := r.Connect.Get()
	if c.Style != ConnectThermal || c.Clearance != 508_000 {
		t.Errorf("Connect = %+v, want thermal 508000", c)
	}
	layers, _ := r.Table.Get()
	if len(layers) != 2 || layers[1].Number != 31 || layers[1].Name != "B.Cu" || len(layers[1].Flags) != 1 {
		t.Errorf("Table = %+v", layers)
	}
}

func TestBlankFieldOmission(t *testing.T) {
	r := testRecord{Name: "R1"}
	r.Label.Set("only")
	r.Count.Set(0)

	out, err := Save(&r, "rec")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got, want := out.String(), "(rec R1 (label only) (count 0))"; got != want {
		t.Errorf("Save() = %s, want %s", got, want)
	}

	var back testRecord
	if err := Load(&back, out); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if back.Angle.IsSet() || back.Font.IsSet() || back.Inner != nil {
		t.Errorf("unset attributes became set: %+v", back)
	}
	if !back.Count.IsSet() || back.Count.Or(-1) != 0 {
		t.Errorf("Count = %+v, want set zero", back.Count)
	}
}

func TestSaveLoadRecord(t *testing.T) {
	r := &testRecord{Name: "U1", Hidden: true}
	r.Angle.Set(45.5)
	r.Size.Set(sexp.Size{Width: 1_000_000, Height: 2_540_000})
	r.Offset.Set(sexp.XYZ{X: 1, Y: -2, Z: 3})
	r.Inner = &testInner{}
	r.Inner.Width.Set(150_000)
	r.Items = []*testInner{{}, {}}
	r.Items[1].Layer.Set("Edge.Cuts")
	r.Nets.Add(0, "")
	r.Nets.Add(3, "/CLK")
	r.Net.Set(Net{ID: 3, Name: "/CLK"})
	r.Members = []string{"/CLK"}
	r.Font.Set(Font{Size: Some(sexp.Size{Width: 1, Height: 1}), Italic: true})
	r.Selection.Set(LayerSelection{High: 0x10fc, Low: 0xffffffff, HighDigits: 5, LowDigits: 8})
	r.Hatch.Set(Hatch{Style: "full", Pitch: 508_000})
	r.Connect.Set(Connect{Style: ConnectNo, Clearance: 1})
	r.Keepout.Set([]string{"copperpour"})
	r.Polygon.Set([]sexp.XY{{X: 1, Y: 2}, {X: 3, Y: 4}})
	r.Table.Set([]Layer{{Number: 44, Name: "Edge.Cuts", Type: "user"}})

	n, err := Save(r, "rec")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	var back testRecord
	if err := Load(&back, n); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(r, &back, exportAll); diff != "" {
		t.Errorf("load(save(r)) mismatch (-want +got):\n%s", diff)
	}
}

func TestNetTable(t *testing.T) {
	var r testRecord
	if err := Load(&r, parse(t, `(rec R1 (net 0 "") (net 1 GND))`)); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if r.Nets.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", r.Nets.Len())
	}
	for id, want := range map[int]string{1: "GND", 0: ""} {
		if got, ok := r.Nets.Name(id); !ok || got != want {
			t.Errorf("Name(%d) = %q, %v, want %q", id, got, ok, want)
		}
	}
	if id, ok := r.Nets.ID("GND"); !ok || id != 1 {
		t.Errorf("ID(GND) = %d, %v", id, ok)
	}

	out, err := Save(&r, "rec")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := len(out.FindAll("net")); got != 2 {
		t.Errorf("encoded %d net nodes, want 2", got)
	}
}

func TestLayerSelection(t *testing.T) {
	tests := []struct {
		token     string
		high, low uint64
		wantErr   bool
	}{
		{token: "0000_80000000", high: 0, low: 0x80000000},
		{token: "0x010fc_ffffffff", high: 0x10fc, low: 0xffffffff},
		{token: "0x00030_80000001", high: 0x30, low: 0x80000001},
		{token: "ABCD_EF", high: 0xabcd, low: 0xef},
		{token: "80000000", wantErr: true},
		{token: "1_2_3", wantErr: true},
		{token: "0x_1", wantErr: true},
		{token: "zz_1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			s, err := ParseLayerSelection(tt.token)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLayerSelection() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if s.High != tt.high || s.Low != tt.low {
				t.Errorf("got (%#x, %#x), want (%#x, %#x)", s.High, s.Low, tt.high, tt.low)
			}
			if !strings.EqualFold(s.String(), tt.token) {
				t.Errorf("String() = %q, want %q", s.String(), tt.token)
			}
		})
	}

	if got := (LayerSelection{High: 1, Low: 0x80000000}).String(); got != "0x1_80000000" {
		t.Errorf("minimal String() = %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    error
		keyword string
	}{
		{"unknown keyword", "(rec R1 (bogus 1))", ErrUnknownField, "bogus"},
		{"unknown token", "(rec R1 visible)", ErrUnknownField, "visible"},
		{"nested unknown keyword", "(rec R1 (inner (bogus 1)))", ErrUnknownField, "bogus"},
		{"repeated nested unknown keyword", "(rec R1 (item (width 1)) (item (drill 1)))", ErrUnknownField, "drill"},
		{"token as list", "(rec R1 (hide))", ErrMalformed, "hide"},
		{"bad integer", "(rec R1 (count x))", ErrMalformed, "count"},
		{"bad fixed", "(rec R1 (pen 1.x))", ErrMalformed, "pen"},
		{"integer arity", "(rec R1 (count 1 2))", ErrMalformed, "count"},
		{"bad distance", "(rec R1 (thickness 1.0000001))", ErrMalformed, "thickness"},
		{"short position", "(rec R1 (at 1))", ErrMalformed, "at"},
		{"wrong xyz wrapper", "(rec R1 (offset (abc 1 2 3)))", ErrMalformed, "offset"},
		{"flag list with node", "(rec R1 (layers F.Cu (x)))", ErrMalformed, "layers"},
		{"unknown font field", "(rec R1 (font (size 1 1) (face Arial)))", ErrUnknownField, "font"},
		{"unknown font flag", "(rec R1 (font underline))", ErrUnknownField, "font"},
		{"bad connect style", "(rec R1 (connect maybe (clearance 1)))", ErrMalformed, "connect"},
		{"connect without clearance", "(rec R1 (connect yes))", ErrMalformed, "connect"},
		{"connect unknown node", "(rec R1 (connect (gap 1)))", ErrUnknownField, "connect"},
		{"keepout allowed", "(rec R1 (keepout (tracks allowed)))", ErrMalformed, "keepout"},
		{"polygon without pts", "(rec R1 (polygon (xy 0 0)))", ErrMalformed, "polygon"},
		{"polygon bad point", "(rec R1 (polygon (pts (arc 0 0))))", ErrMalformed, "polygon"},
		{"bad selection", "(rec R1 (sel 12))", ErrMalformed, "sel"},
		{"bad layer number", "(rec R1 (table (x F.Cu signal)))", ErrMalformed, "table"},
		{"net arity", "(rec R1 (net 1))", ErrMalformed, "net"},
		{"missing header", "(rec)", ErrMalformed, "rec"},
		{"repeated scalar", "(rec R1 (count 1) (count 2))", ErrMalformed, "count"},
		{"repeated record", "(rec R1 (inner (width 1)) (inner (layer B.Cu)))", ErrMalformed, "inner"},
		{"repeated nested scalar", "(rec R1 (item (width 1) (width 2)))", ErrMalformed, "width"},
		{"repeated token", "(rec R1 hide hide)", ErrMalformed, "hide"},
		{"repeated net id", "(rec R1 (net 1 GND) (net 1 VCC))", ErrMalformed, "net"},
		{"repeated font flag", "(rec R1 (font italic italic))", ErrMalformed, "font"},
		{"repeated font size", "(rec R1 (font (size 1 1) (size 2 2)))", ErrMalformed, "font"},
		{"repeated keepout", "(rec R1 (keepout (tracks not_allowed) (tracks not_allowed)))", ErrMalformed, "keepout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r testRecord
			err := Load(&r, parse(t, tt.input))
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want %v", err, tt.want)
			}
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("Load() error %T is not *Error", err)
			}
			if e.Keyword != tt.keyword {
				t.Errorf("Keyword = %q, want %q (%v)", e.Keyword, tt.keyword, err)
			}
		})
	}
}

func TestRequiredPair(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"(zone)", false},
		{"(zone (net 1) (net_name GND))", false},
		{"(zone (net 1))", true},
		{"(zone (net_name GND))", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var r testPair
			err := Load(&r, parse(t, tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrIncompletePair) {
				t.Errorf("Load() error = %v, want ErrIncompletePair", err)
			}
		})
	}

	var r testPair
	r.Net.Set(2)
	if _, err := Save(&r, "zone"); !errors.Is(err, ErrIncompletePair) {
		t.Errorf("Save() error = %v, want ErrIncompletePair", err)
	}
}

func TestLoadRoot(t *testing.T) {
	var r testInner
	err := LoadRoot(&r, "kicad_pcb", parse(t, "(kicad_sch (width 1))"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("LoadRoot() error = %v, want ErrUnknownFormat", err)
	}
	if err := LoadRoot(&r, "kicad_pcb", parse(t, "(kicad_pcb (width 1))")); err != nil {
		t.Errorf("LoadRoot() error = %v", err)
	}
}
