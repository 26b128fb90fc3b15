package pcb

import (
	"github.com/OpenTraceLab/kiconv/pkg/kicad/bind"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp"
)

// Shared types (aliases to the binding and sexp packages)
type Net = bind.Net
type Layer = bind.Layer
type XY = sexp.XY
type Pos = sexp.Pos
type Size = sexp.Size
type BoundingBox = sexp.BoundingBox

// LayerMap indexes the board's layer table by ordinal and by name.
type LayerMap struct {
	byNumber map[int]*Layer
	byName   map[string]*Layer
	copper   []string
}

// copperTypes are the layer kinds that carry copper.
var copperTypes = map[string]bool{"signal": true, "power": true, "mixed": true, "jumper": true}

// NewLayerMap indexes the board's layers. A board without a layers list
// yields an empty map.
func (b *Board) NewLayerMap() *LayerMap {
	layers, _ := b.Layers.Get()
	lm := &LayerMap{
		byNumber: make(map[int]*Layer, len(layers)),
		byName:   make(map[string]*Layer, len(layers)),
	}
	for i := range layers {
		l := &layers[i]
		lm.byNumber[l.Number] = l
		lm.byName[l.Name] = l
		if copperTypes[l.Type] {
			lm.copper = append(lm.copper, l.Name)
		}
	}
	return lm
}

func (lm *LayerMap) GetByName(name string) (*Layer, bool) {
	l, ok := lm.byName[name]
	return l, ok
}

func (lm *LayerMap) GetByNumber(num int) (*Layer, bool) {
	l, ok := lm.byNumber[num]
	return l, ok
}

// IsCopperLayer reports whether name is a known copper layer.
func (lm *LayerMap) IsCopperLayer(name string) bool {
	l, ok := lm.byName[name]
	return ok && copperTypes[l.Type]
}

// Copper returns the copper layer names in file order.
func (lm *LayerMap) Copper() []string {
	return lm.copper
}
