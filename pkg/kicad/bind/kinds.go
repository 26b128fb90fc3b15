package bind

import (
	"strconv"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp"
	"github.com/OpenTraceLab/kiconv/pkg/kicad/sexp/kicadsexp"
)

// Scalar kinds. Each decodes a node of the form (keyword value...) into one
// Optional attribute and encodes it back only when it is set.

type stringField struct{ dst *Optional[string] }

// String binds a single verbatim value.
func String(dst *Optional[string]) Kind { return &stringField{dst} }

func (f *stringField) decode(n *kicadsexp.Node) error {
	if err := sexp.CheckArity(n, 1); err != nil {
		return err
	}
	v, err := sexp.GetString(n, 0)
	if err != nil {
		return err
	}
	f.dst.Set(v)
	return nil
}

func (f *stringField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	v, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(kicadsexp.Atoms(keyword, v)), nil
}

type boolField struct {
	dst     *Optional[bool]
	yes, no string
}

// Bool binds a truth value written as true/false.
func Bool(dst *Optional[bool]) Kind { return &boolField{dst: dst, yes: "true", no: "false"} }

// YesNo binds a truth value written as yes/no.
func YesNo(dst *Optional[bool]) Kind { return &boolField{dst: dst, yes: "yes", no: "no"} }

func (f *boolField) decode(n *kicadsexp.Node) error {
	if err := sexp.CheckArity(n, 1); err != nil {
		return err
	}
	v, err := sexp.GetString(n, 0)
	if err != nil {
		return err
	}
	f.dst.Set(sexp.ParseBool(v))
	return nil
}

func (f *boolField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	v, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	if v {
		return one(kicadsexp.Atoms(keyword, f.yes)), nil
	}
	return one(kicadsexp.Atoms(keyword, f.no)), nil
}

type intField struct{ dst *Optional[int] }

// Int binds a decimal integer.
func Int(dst *Optional[int]) Kind { return &intField{dst} }

func (f *intField) decode(n *kicadsexp.Node) error {
	if err := sexp.CheckArity(n, 1); err != nil {
		return err
	}
	v, err := sexp.GetInt(n, 0)
	if err != nil {
		return err
	}
	f.dst.Set(v)
	return nil
}

func (f *intField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	v, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(kicadsexp.Atoms(keyword, strconv.Itoa(v))), nil
}

type floatField struct{ dst *Optional[float64] }

// Float binds a decimal floating point number.
func Float(dst *Optional[float64]) Kind { return &floatField{dst} }

func (f *floatField) decode(n *kicadsexp.Node) error {
	if err := sexp.CheckArity(n, 1); err != nil {
		return err
	}
	v, err := sexp.GetFloat(n, 0)
	if err != nil {
		return err
	}
	f.dst.Set(v)
	return nil
}

func (f *floatField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	v, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(kicadsexp.Atoms(keyword, sexp.FormatFloat(v))), nil
}

type fixedField struct{ dst *Optional[sexp.Fixed] }

// Fixed binds a decimal number written back with its original precision.
func Fixed(dst *Optional[sexp.Fixed]) Kind { return &fixedField{dst} }

func (f *fixedField) decode(n *kicadsexp.Node) error {
	if err := sexp.CheckArity(n, 1); err != nil {
		return err
	}
	text, err := sexp.GetString(n, 0)
	if err != nil {
		return err
	}
	v, err := sexp.ParseFixed(text)
	if err != nil {
		return err
	}
	f.dst.Set(v)
	return nil
}

func (f *fixedField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	v, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(kicadsexp.Atoms(keyword, v.String())), nil
}

type hexField struct{ dst *Optional[uint64] }

// Hex binds a base-16 number, written upper-case without prefix.
func Hex(dst *Optional[uint64]) Kind { return &hexField{dst} }

func (f *hexField) decode(n *kicadsexp.Node) error {
	if err := sexp.CheckArity(n, 1); err != nil {
		return err
	}
	v, err := sexp.GetHex(n, 0)
	if err != nil {
		return err
	}
	f.dst.Set(v)
	return nil
}

func (f *hexField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	v, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(kicadsexp.Atoms(keyword, sexp.FormatHex(v))), nil
}

type distanceField struct{ dst *Optional[int64] }

// Distance binds one length in nanometres.
func Distance(dst *Optional[int64]) Kind { return &distanceField{dst} }

func (f *distanceField) decode(n *kicadsexp.Node) error {
	if err := sexp.CheckArity(n, 1); err != nil {
		return err
	}
	v, err := sexp.GetDistance(n, 0)
	if err != nil {
		return err
	}
	f.dst.Set(v)
	return nil
}

func (f *distanceField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	v, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(kicadsexp.Atoms(keyword, sexp.FormatDistance(v))), nil
}

type sizeField struct{ dst *Optional[sexp.Size] }

// Size binds a pair of lengths.
func Size(dst *Optional[sexp.Size]) Kind { return &sizeField{dst} }

func (f *sizeField) decode(n *kicadsexp.Node) error {
	xy, err := sexp.GetXY(n)
	if err != nil {
		return err
	}
	f.dst.Set(sexp.Size{Width: xy.X, Height: xy.Y})
	return nil
}

func (f *sizeField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	v, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(sexp.XYNode(keyword, sexp.XY{X: v.Width, Y: v.Height})), nil
}

type posField struct{ dst *Optional[sexp.Pos] }

// Pos binds two lengths and an optional angle, keeping the arity.
func Pos(dst *Optional[sexp.Pos]) Kind { return &posField{dst} }

func (f *posField) decode(n *kicadsexp.Node) error {
	v, err := sexp.GetPos(n)
	if err != nil {
		return err
	}
	f.dst.Set(v)
	return nil
}

func (f *posField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	v, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(sexp.PosNode(keyword, v)), nil
}

type xyzField struct{ dst *Optional[sexp.XYZ] }

// XYZ binds (keyword (xyz X Y Z)). Any wrapper other than xyz is an error.
func XYZ(dst *Optional[sexp.XYZ]) Kind { return &xyzField{dst} }

func (f *xyzField) decode(n *kicadsexp.Node) error {
	if err := sexp.CheckArity(n, 1); err != nil {
		return err
	}
	inner, ok := n.Child(0)
	if !ok {
		return malformed("expected (xyz X Y Z)")
	}
	if inner.Name != "xyz" {
		return malformed("unknown coordinates %q", inner.Name)
	}
	if err := sexp.CheckArity(inner, 3); err != nil {
		return err
	}
	var v [3]int64
	for i := range v {
		d, err := sexp.GetDistance(inner, i)
		if err != nil {
			return err
		}
		v[i] = d
	}
	f.dst.Set(sexp.XYZ{X: v[0], Y: v[1], Z: v[2]})
	return nil
}

func (f *xyzField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	v, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	xyz := kicadsexp.Atoms("xyz", sexp.FormatDistance(v.X), sexp.FormatDistance(v.Y), sexp.FormatDistance(v.Z))
	return one(kicadsexp.NewNode(keyword, xyz)), nil
}

type flagsField struct{ dst *Optional[[]string] }

// Flags binds a raw token sequence, preserved verbatim.
func Flags(dst *Optional[[]string]) Kind { return &flagsField{dst} }

func (f *flagsField) decode(n *kicadsexp.Node) error {
	v, err := sexp.GetStrings(n)
	if err != nil {
		return err
	}
	f.dst.Set(v)
	return nil
}

func (f *flagsField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	v, ok := f.dst.Get()
	if !ok {
		return nil, nil
	}
	return one(kicadsexp.Atoms(keyword, v...)), nil
}

// tokenField is a bare atom flag such as hide or locked. It is matched by
// Load against atom children rather than list children.
type tokenField struct{ dst *bool }

// Token binds a bare flag atom, emitted only when true.
func Token(dst *bool) Kind { return &tokenField{dst} }

func (f *tokenField) decode(n *kicadsexp.Node) error {
	return malformed("flag written as a list")
}

func (f *tokenField) encode(keyword string) ([]kicadsexp.Sexp, error) {
	if !*f.dst {
		return nil, nil
	}
	return []kicadsexp.Sexp{kicadsexp.Symbol(keyword)}, nil
}

func one(n *kicadsexp.Node) []kicadsexp.Sexp {
	return []kicadsexp.Sexp{n}
}
