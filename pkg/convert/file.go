package convert

import (
	"fmt"

	"github.com/OpenTraceLab/kiconv/pkg/element"
	"github.com/OpenTraceLab/kiconv/pkg/gschem"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/eeschema"
	"github.com/OpenTraceLab/kiconv/pkg/ltspice"
)

// ReadFile reads the source elements of a schematic in the given dialect.
func ReadFile(d Dialect, filename string) ([]element.Element, error) {
	switch d {
	case LTspice:
		sch, err := ltspice.ParseFile(filename)
		if err != nil {
			return nil, err
		}
		return sch.Elements, nil
	case GSchem:
		sch, err := gschem.ParseFile(filename)
		if err != nil {
			return nil, err
		}
		return sch.Elements, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, d)
}

// ConvertFile converts the schematic src into a KiCad legacy schematic at
// dst. Nothing is written when src cannot be read.
func ConvertFile(d Dialect, src, dst string, cfg Config) (Diagnostics, error) {
	c, err := New(d, cfg)
	if err != nil {
		return Diagnostics{}, err
	}
	elems, err := ReadFile(d, src)
	if err != nil {
		return Diagnostics{}, fmt.Errorf("failed to read %s: %w", src, err)
	}

	sch, diags := c.Convert(elems)
	c.log.Info("converted schematic", "source", src, "components", len(sch.Components()), "warnings", len(diags.Warnings))

	if err := eeschema.WriteFile(dst, sch); err != nil {
		return diags, err
	}
	return diags, nil
}
