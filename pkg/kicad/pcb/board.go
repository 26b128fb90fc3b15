package pcb

import (
	"github.com/OpenTraceLab/kiconv/pkg/kicad/bind"
)

// RootKeyword is the top-level keyword of a board file.
const RootKeyword = "kicad_pcb"

// Board represents a complete KiCad PCB
type Board struct {
	Version    bind.Optional[int]      // File format version
	Host       bind.Optional[[]string] // Generator name and version
	General    *General
	Page       bind.Optional[[]string] // Paper size, optionally with user dimensions
	TitleBlock *TitleBlock
	Layers     bind.Optional[[]Layer]
	Setup      *Setup
	Nets       bind.NetTable
	NetClasses []*NetClass
	Modules    []*Module
	Arcs       []*Arc
	Circles    []*Circle
	Texts      []*Text
	Lines      []*Line
	Polys      []*Poly
	Segments   []*Segment
	Vias       []*Via
	Zones      []*Zone
}

func (b *Board) Fields() []bind.Field {
	return []bind.Field{
		bind.F("version", bind.Int(&b.Version)),
		bind.F("host", bind.Flags(&b.Host)),
		bind.F("general", bind.One(&b.General)),
		bind.F("page", bind.Flags(&b.Page)),
		bind.F("title_block", bind.One(&b.TitleBlock)),
		bind.F("layers", bind.Layers(&b.Layers)),
		bind.F("setup", bind.One(&b.Setup)),
		bind.F("net", bind.Nets(&b.Nets)),
		bind.F("net_class", bind.Many(&b.NetClasses)),
		bind.F("module", bind.Many(&b.Modules)),
		bind.F("gr_arc", bind.Many(&b.Arcs)),
		bind.F("gr_circle", bind.Many(&b.Circles)),
		bind.F("gr_text", bind.Many(&b.Texts)),
		bind.F("gr_line", bind.Many(&b.Lines)),
		bind.F("gr_poly", bind.Many(&b.Polys)),
		bind.F("segment", bind.Many(&b.Segments)),
		bind.F("via", bind.Many(&b.Vias)),
		bind.F("zone", bind.Many(&b.Zones)),
	}
}

// GetNet returns a net by name
func (b *Board) GetNet(name string) (Net, bool) {
	id, ok := b.Nets.ID(name)
	if !ok {
		return Net{}, false
	}
	return Net{ID: id, Name: name}, true
}

// GetNetPads returns all pads connected to a specific net, with the module
// each belongs to.
func (b *Board) GetNetPads(netName string) []PlacedPad {
	var pads []PlacedPad
	for _, m := range b.Modules {
		for _, pad := range m.Pads {
			if net, ok := pad.Net.Get(); ok && net.Name == netName {
				pads = append(pads, PlacedPad{Module: m, Pad: pad})
			}
		}
	}
	return pads
}

// GetNetSegments returns all track segments connected to a specific net
func (b *Board) GetNetSegments(netName string) []*Segment {
	id, ok := b.Nets.ID(netName)
	if !ok {
		return nil
	}
	var segments []*Segment
	for _, s := range b.Segments {
		if n, ok := s.Net.Get(); ok && n == id {
			segments = append(segments, s)
		}
	}
	return segments
}

// GetNetVias returns all vias connected to a specific net
func (b *Board) GetNetVias(netName string) []*Via {
	id, ok := b.Nets.ID(netName)
	if !ok {
		return nil
	}
	var vias []*Via
	for _, v := range b.Vias {
		if n, ok := v.Net.Get(); ok && n == id {
			vias = append(vias, v)
		}
	}
	return vias
}

// GetNetZones returns all zones filling a specific net
func (b *Board) GetNetZones(netName string) []*Zone {
	var zones []*Zone
	for _, z := range b.Zones {
		if name, ok := z.NetName.Get(); ok && name == netName {
			zones = append(zones, z)
		}
	}
	return zones
}

// PlacedPad is a pad together with its owning module.
type PlacedPad struct {
	Module *Module
	Pad    *Pad
}

// NetInfo contains information about a net and its connections
type NetInfo struct {
	Net      Net
	Pads     []PlacedPad
	Segments []*Segment
	Vias     []*Via
	Zones    []*Zone
}

// GetNetInfo returns complete information about a net
func (b *Board) GetNetInfo(netName string) *NetInfo {
	net, ok := b.GetNet(netName)
	if !ok {
		return nil
	}

	return &NetInfo{
		Net:      net,
		Pads:     b.GetNetPads(netName),
		Segments: b.GetNetSegments(netName),
		Vias:     b.GetNetVias(netName),
		Zones:    b.GetNetZones(netName),
	}
}

// GetAllNetNames returns a list of all net names in the board, in file order
func (b *Board) GetAllNetNames() []string {
	ids := b.Nets.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i], _ = b.Nets.Name(id)
	}
	return names
}
