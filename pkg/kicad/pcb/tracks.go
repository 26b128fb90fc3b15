package pcb

import (
	"github.com/OpenTraceLab/kiconv/pkg/kicad/bind"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp"
)

// Segment represents a copper track segment
type Segment struct {
	Start  bind.Optional[sexp.Pos]
	End    bind.Optional[sexp.Pos]
	Width  bind.Optional[int64]
	Layer  bind.Optional[string]
	Net    bind.Optional[int]
	Tstamp bind.Optional[uint64]
	Status bind.Optional[uint64]
}

func (s *Segment) Fields() []bind.Field {
	return []bind.Field{
		bind.F("start", bind.Pos(&s.Start)),
		bind.F("end", bind.Pos(&s.End)),
		bind.F("width", bind.Distance(&s.Width)),
		bind.F("layer", bind.String(&s.Layer)),
		bind.F("net", bind.Int(&s.Net)),
		bind.F("tstamp", bind.Hex(&s.Tstamp)),
		bind.F("status", bind.Hex(&s.Status)),
	}
}

// Via represents a via
type Via struct {
	Blind  bool
	Micro  bool
	At     bind.Optional[sexp.Pos]
	Size   bind.Optional[int64]
	Drill  bind.Optional[int64]
	Layers bind.Optional[[]string] // Layer pair
	Net    bind.Optional[int]
	Tstamp bind.Optional[uint64]
	Status bind.Optional[uint64]
}

func (v *Via) Fields() []bind.Field {
	return []bind.Field{
		bind.F("blind", bind.Token(&v.Blind)),
		bind.F("micro", bind.Token(&v.Micro)),
		bind.F("at", bind.Pos(&v.At)),
		bind.F("size", bind.Distance(&v.Size)),
		bind.F("drill", bind.Distance(&v.Drill)),
		bind.F("layers", bind.Flags(&v.Layers)),
		bind.F("net", bind.Int(&v.Net)),
		bind.F("tstamp", bind.Hex(&v.Tstamp)),
		bind.F("status", bind.Hex(&v.Status)),
	}
}

// Zone represents a copper pour or keepout area
type Zone struct {
	Net          bind.Optional[int]
	NetName      bind.Optional[string]
	Layer        bind.Optional[string]
	Layers       bind.Optional[[]string]
	Tstamp       bind.Optional[uint64]
	Hatch        bind.Optional[bind.Hatch]
	Priority     bind.Optional[int]
	Timestamp    bind.Optional[uint64]
	ConnectPads  bind.Optional[bind.Connect]
	MinThickness bind.Optional[int64]
	Keepout      bind.Optional[[]string]
	Fill         *Fill
	Polygon      bind.Optional[[]sexp.XY]
	Filled       []*FilledPolygon
}

func (z *Zone) Fields() []bind.Field {
	return []bind.Field{
		bind.F("net", bind.Int(&z.Net)),
		bind.F("net_name", bind.String(&z.NetName)),
		bind.F("layer", bind.String(&z.Layer)),
		bind.F("layers", bind.Flags(&z.Layers)),
		bind.F("tstamp", bind.Hex(&z.Tstamp)),
		bind.F("hatch", bind.HatchField(&z.Hatch)),
		bind.F("priority", bind.Int(&z.Priority)),
		bind.F("timestamp", bind.Hex(&z.Timestamp)),
		bind.F("connect_pads", bind.ConnectField(&z.ConnectPads)),
		bind.F("min_thickness", bind.Distance(&z.MinThickness)),
		bind.F("keepout", bind.Keepouts(&z.Keepout)),
		bind.F("fill", bind.One(&z.Fill)),
		bind.F("polygon", bind.Points(&z.Polygon)),
		bind.F("filled_polygon", bind.Many(&z.Filled)),
	}
}

// Validate rejects a zone that names only one side of its net.
func (z *Zone) Validate() error {
	if z.Net.IsSet() != z.NetName.IsSet() {
		return bind.ErrIncompletePair
	}
	return nil
}

// Fill holds the zone fill settings. Filled reports the bare yes flag
// written once the zone has been filled.
type Fill struct {
	Filled             bool
	Mode               bind.Optional[string]
	ArcSegments        bind.Optional[int]
	ThermalGap         bind.Optional[int64]
	ThermalBridgeWidth bind.Optional[int64]
	Smoothing          bind.Optional[string]
	Radius             bind.Optional[int64]
}

func (f *Fill) Fields() []bind.Field {
	return []bind.Field{
		bind.F("yes", bind.Token(&f.Filled)),
		bind.F("mode", bind.String(&f.Mode)),
		bind.F("arc_segments", bind.Int(&f.ArcSegments)),
		bind.F("thermal_gap", bind.Distance(&f.ThermalGap)),
		bind.F("thermal_bridge_width", bind.Distance(&f.ThermalBridgeWidth)),
		bind.F("smoothing", bind.String(&f.Smoothing)),
		bind.F("radius", bind.Distance(&f.Radius)),
	}
}

// FilledPolygon is one polygon of a zone's computed fill
type FilledPolygon struct {
	Points bind.Optional[[]sexp.XY]
}

func (p *FilledPolygon) Fields() []bind.Field {
	return []bind.Field{
		bind.F("pts", bind.XYList(&p.Points)),
	}
}
