package pcb

import (
	"fmt"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/bind"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp/kicadsexp"
)

// General contains the board summary counters
type General struct {
	Thickness  bind.Optional[int64]
	Drawings   bind.Optional[int]
	Tracks     bind.Optional[int]
	Zones      bind.Optional[int]
	Modules    bind.Optional[int]
	Nets       bind.Optional[int]
	Links      bind.Optional[int]
	NoConnects bind.Optional[int]
	Area       bind.Optional[[]string]
}

func (g *General) Fields() []bind.Field {
	return []bind.Field{
		bind.F("links", bind.Int(&g.Links)),
		bind.F("no_connects", bind.Int(&g.NoConnects)),
		bind.F("area", bind.Flags(&g.Area)),
		bind.F("thickness", bind.Distance(&g.Thickness)),
		bind.F("drawings", bind.Int(&g.Drawings)),
		bind.F("tracks", bind.Int(&g.Tracks)),
		bind.F("zones", bind.Int(&g.Zones)),
		bind.F("modules", bind.Int(&g.Modules)),
		bind.F("nets", bind.Int(&g.Nets)),
	}
}

// TitleBlock is the drawing sheet title block
type TitleBlock struct {
	Title    bind.Optional[string]
	Date     bind.Optional[string]
	Rev      bind.Optional[string]
	Company  bind.Optional[string]
	Comments []*Comment
}

func (t *TitleBlock) Fields() []bind.Field {
	return []bind.Field{
		bind.F("title", bind.String(&t.Title)),
		bind.F("date", bind.String(&t.Date)),
		bind.F("rev", bind.String(&t.Rev)),
		bind.F("company", bind.String(&t.Company)),
		bind.F("comment", bind.Many(&t.Comments)),
	}
}

// Comment is a numbered title block comment line
type Comment struct {
	Number int
	Text   string
}

func (c *Comment) Fields() []bind.Field { return nil }

func (c *Comment) DecodeHeader(name string, items []kicadsexp.Sexp) ([]kicadsexp.Sexp, error) {
	head, rest, err := bind.TakeAtoms(items, 2)
	if err != nil {
		return nil, err
	}
	if c.Number, err = sexp.ParseInt(head[0]); err != nil {
		return nil, err
	}
	c.Text = head[1]
	return rest, nil
}

func (c *Comment) EncodeHeader(name string) []kicadsexp.Sexp {
	return bind.Symbols(fmt.Sprint(c.Number), c.Text)
}

// Setup contains board design rules and defaults
type Setup struct {
	LastTraceWidth          bind.Optional[int64]
	TraceClearance          bind.Optional[int64]
	ZoneClearance           bind.Optional[int64]
	Zone45Only              bind.Optional[bool]
	TraceMin                bind.Optional[int64]
	SegmentWidth            bind.Optional[int64]
	EdgeWidth               bind.Optional[int64]
	ViaSize                 bind.Optional[int64]
	ViaDrill                bind.Optional[int64]
	ViaMinSize              bind.Optional[int64]
	ViaMinDrill             bind.Optional[int64]
	UviaSize                bind.Optional[int64]
	UviaDrill               bind.Optional[int64]
	UviasAllowed            bind.Optional[bool]
	UviaMinSize             bind.Optional[int64]
	UviaMinDrill            bind.Optional[int64]
	BlindBuriedViasAllowed  bind.Optional[bool]
	PcbTextWidth            bind.Optional[int64]
	PcbTextSize             bind.Optional[sexp.Size]
	ModEdgeWidth            bind.Optional[int64]
	ModTextSize             bind.Optional[sexp.Size]
	ModTextWidth            bind.Optional[int64]
	PadSize                 bind.Optional[sexp.Size]
	PadDrill                bind.Optional[int64]
	PadToMaskClearance      bind.Optional[int64]
	SolderMaskMinWidth      bind.Optional[int64]
	PadToPasteClearance     bind.Optional[int64]
	PadToPasteClearanceRate bind.Optional[float64]
	AuxAxisOrigin           bind.Optional[sexp.Pos]
	GridOrigin              bind.Optional[sexp.Pos]
	VisibleElements         bind.Optional[uint64]
	PlotParams              *PlotParams
}

func (s *Setup) Fields() []bind.Field {
	return []bind.Field{
		bind.F("last_trace_width", bind.Distance(&s.LastTraceWidth)),
		bind.F("trace_clearance", bind.Distance(&s.TraceClearance)),
		bind.F("zone_clearance", bind.Distance(&s.ZoneClearance)),
		bind.F("zone_45_only", bind.YesNo(&s.Zone45Only)),
		bind.F("trace_min", bind.Distance(&s.TraceMin)),
		bind.F("segment_width", bind.Distance(&s.SegmentWidth)),
		bind.F("edge_width", bind.Distance(&s.EdgeWidth)),
		bind.F("via_size", bind.Distance(&s.ViaSize)),
		bind.F("via_drill", bind.Distance(&s.ViaDrill)),
		bind.F("via_min_size", bind.Distance(&s.ViaMinSize)),
		bind.F("via_min_drill", bind.Distance(&s.ViaMinDrill)),
		bind.F("uvia_size", bind.Distance(&s.UviaSize)),
		bind.F("uvia_drill", bind.Distance(&s.UviaDrill)),
		bind.F("uvias_allowed", bind.YesNo(&s.UviasAllowed)),
		bind.F("uvia_min_size", bind.Distance(&s.UviaMinSize)),
		bind.F("uvia_min_drill", bind.Distance(&s.UviaMinDrill)),
		bind.F("blind_buried_vias_allowed", bind.YesNo(&s.BlindBuriedViasAllowed)),
		bind.F("pcb_text_width", bind.Distance(&s.PcbTextWidth)),
		bind.F("pcb_text_size", bind.Size(&s.PcbTextSize)),
		bind.F("mod_edge_width", bind.Distance(&s.ModEdgeWidth)),
		bind.F("mod_text_size", bind.Size(&s.ModTextSize)),
		bind.F("mod_text_width", bind.Distance(&s.ModTextWidth)),
		bind.F("pad_size", bind.Size(&s.PadSize)),
		bind.F("pad_drill", bind.Distance(&s.PadDrill)),
		bind.F("pad_to_mask_clearance", bind.Distance(&s.PadToMaskClearance)),
		bind.F("solder_mask_min_width", bind.Distance(&s.SolderMaskMinWidth)),
		bind.F("pad_to_paste_clearance", bind.Distance(&s.PadToPasteClearance)),
		bind.F("pad_to_paste_clearance_ratio", bind.Float(&s.PadToPasteClearanceRate)),
		bind.F("aux_axis_origin", bind.Pos(&s.AuxAxisOrigin)),
		bind.F("grid_origin", bind.Pos(&s.GridOrigin)),
		bind.F("visible_elements", bind.Hex(&s.VisibleElements)),
		bind.F("pcbplotparams", bind.One(&s.PlotParams)),
	}
}

// PlotParams holds the plot dialog settings
type PlotParams struct {
	LayerSelection              bind.Optional[bind.LayerSelection]
	UseGerberExtensions         bind.Optional[bool]
	UseGerberAttributes         bind.Optional[bool]
	UseGerberAdvancedAttributes bind.Optional[bool]
	CreateGerberJobFile         bind.Optional[bool]
	UseGerberX2Format           bind.Optional[bool]
	GerberPrecision             bind.Optional[int]
	ExcludeEdgeLayer            bind.Optional[bool]
	LineWidth                   bind.Optional[sexp.Fixed] // mm
	PlotFrameRef                bind.Optional[bool]
	ViasOnMask                  bind.Optional[bool]
	Mode                        bind.Optional[int]
	UseAuxOrigin                bind.Optional[bool]
	HPGLPenNumber               bind.Optional[int]
	HPGLPenSpeed                bind.Optional[int]
	HPGLPenDiameter             bind.Optional[sexp.Fixed]
	DXFPolygonMode              bind.Optional[bool]
	DXFImperialUnits            bind.Optional[bool]
	DXFUsePcbnewFont            bind.Optional[bool]
	PSNegative                  bind.Optional[bool]
	PSA4Output                  bind.Optional[bool]
	PlotReference               bind.Optional[bool]
	PlotValue                   bind.Optional[bool]
	PlotInvisibleText           bind.Optional[bool]
	PadsOnSilk                  bind.Optional[bool]
	SubtractMaskFromSilk        bind.Optional[bool]
	OutputFormat                bind.Optional[int]
	Mirror                      bind.Optional[bool]
	DrillShape                  bind.Optional[int]
	ScaleSelection              bind.Optional[int]
	OutputDirectory             bind.Optional[string]
}

func (p *PlotParams) Fields() []bind.Field {
	return []bind.Field{
		bind.F("layerselection", bind.SelectionField(&p.LayerSelection)),
		bind.F("usegerberextensions", bind.Bool(&p.UseGerberExtensions)),
		bind.F("usegerberattributes", bind.Bool(&p.UseGerberAttributes)),
		bind.F("usegerberadvancedattributes", bind.Bool(&p.UseGerberAdvancedAttributes)),
		bind.F("creategerberjobfile", bind.Bool(&p.CreateGerberJobFile)),
		bind.F("usegerberx2format", bind.Bool(&p.UseGerberX2Format)),
		bind.F("gerberprecision", bind.Int(&p.GerberPrecision)),
		bind.F("excludeedgelayer", bind.Bool(&p.ExcludeEdgeLayer)),
		bind.F("linewidth", bind.Fixed(&p.LineWidth)),
		bind.F("plotframeref", bind.Bool(&p.PlotFrameRef)),
		bind.F("viasonmask", bind.Bool(&p.ViasOnMask)),
		bind.F("mode", bind.Int(&p.Mode)),
		bind.F("useauxorigin", bind.Bool(&p.UseAuxOrigin)),
		bind.F("hpglpennumber", bind.Int(&p.HPGLPenNumber)),
		bind.F("hpglpenspeed", bind.Int(&p.HPGLPenSpeed)),
		bind.F("hpglpendiameter", bind.Fixed(&p.HPGLPenDiameter)),
		bind.F("dxfpolygonmode", bind.Bool(&p.DXFPolygonMode)),
		bind.F("dxfimperialunits", bind.Bool(&p.DXFImperialUnits)),
		bind.F("dxfusepcbnewfont", bind.Bool(&p.DXFUsePcbnewFont)),
		bind.F("psnegative", bind.Bool(&p.PSNegative)),
		bind.F("psa4output", bind.Bool(&p.PSA4Output)),
		bind.F("plotreference", bind.Bool(&p.PlotReference)),
		bind.F("plotvalue", bind.Bool(&p.PlotValue)),
		bind.F("plotinvisibletext", bind.Bool(&p.PlotInvisibleText)),
		bind.F("padsonsilk", bind.Bool(&p.PadsOnSilk)),
		bind.F("subtractmaskfromsilk", bind.Bool(&p.SubtractMaskFromSilk)),
		bind.F("outputformat", bind.Int(&p.OutputFormat)),
		bind.F("mirror", bind.Bool(&p.Mirror)),
		bind.F("drillshape", bind.Int(&p.DrillShape)),
		bind.F("scaleselection", bind.Int(&p.ScaleSelection)),
		bind.F("outputdirectory", bind.String(&p.OutputDirectory)),
	}
}

// NetClass is a named set of routing rules and its member nets
type NetClass struct {
	Name          string
	Description   string
	Clearance     bind.Optional[int64]
	TraceWidth    bind.Optional[int64]
	ViaDia        bind.Optional[int64]
	ViaDrill      bind.Optional[int64]
	UviaDia       bind.Optional[int64]
	UviaDrill     bind.Optional[int64]
	DiffPairWidth bind.Optional[int64]
	DiffPairGap   bind.Optional[int64]
	Nets          []string
}

func (c *NetClass) Fields() []bind.Field {
	return []bind.Field{
		bind.F("clearance", bind.Distance(&c.Clearance)),
		bind.F("trace_width", bind.Distance(&c.TraceWidth)),
		bind.F("via_dia", bind.Distance(&c.ViaDia)),
		bind.F("via_drill", bind.Distance(&c.ViaDrill)),
		bind.F("uvia_dia", bind.Distance(&c.UviaDia)),
		bind.F("uvia_drill", bind.Distance(&c.UviaDrill)),
		bind.F("diff_pair_width", bind.Distance(&c.DiffPairWidth)),
		bind.F("diff_pair_gap", bind.Distance(&c.DiffPairGap)),
		bind.F("add_net", bind.Members(&c.Nets)),
	}
}

func (c *NetClass) DecodeHeader(name string, items []kicadsexp.Sexp) ([]kicadsexp.Sexp, error) {
	head, rest, err := bind.TakeAtoms(items, 2)
	if err != nil {
		return nil, err
	}
	c.Name, c.Description = head[0], head[1]
	return rest, nil
}

func (c *NetClass) EncodeHeader(name string) []kicadsexp.Sexp {
	return bind.Symbols(c.Name, c.Description)
}
