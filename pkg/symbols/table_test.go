package symbols

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/orient"
)

func TestDefaultTables(t *testing.T) {
	lt, err := Default(LTspice)
	require.NoError(t, err)
	assert.Equal(t, "ltspice", lt.Name)
	assert.Len(t, lt.Symbols, 9)

	e, ok := lt.Lookup("res")
	require.True(t, ok)
	assert.Equal(t, Entry{Lib: "Device:R", XOff: 10, YOff: 10}, e)

	e, ok = lt.Lookup("0")
	require.True(t, ok)
	assert.Equal(t, "power:GND", e.Lib)

	e, ok = lt.Lookup(Fallback)
	require.True(t, ok)
	assert.Equal(t, "power:PWR_FLAG", e.Lib)

	gs, err := Default(GSchem)
	require.NoError(t, err)
	assert.Len(t, gs.Symbols, 8)

	e, ok = gs.Lookup("connector2-2.sym")
	require.True(t, ok)
	assert.Equal(t, Entry{Lib: "Connector:Conn_01x02_Male", XOff: 200, YOff: 600, Rotate: 180}, e)

	_, ok = gs.Lookup("opamp.sym")
	assert.False(t, ok)
}

func TestDefaultUnknownDialect(t *testing.T) {
	_, err := Default("eagle")
	assert.Error(t, err)
}

func TestParseNormalizesRotation(t *testing.T) {
	table, err := Parse([]byte(`
symbols:
  diode: {lib: "Device:D", rotate: -90}
  led:   {lib: "Device:LED", rotate: 450}
`))
	require.NoError(t, err)
	assert.Equal(t, 270, table.Symbols["diode"].Rotate)
	assert.Equal(t, 90, table.Symbols["led"].Rotate)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{"odd rotation", `symbols: {res: {lib: "Device:R", rotate: 45}}`, orient.ErrRotation},
		{"missing library", `symbols: {res: {lib: "R"}}`, ErrInvalidEntry},
		{"empty symbol", `symbols: {res: {lib: "Device:"}}`, ErrInvalidEntry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.err), "got %v", err)
		})
	}

	_, err := Parse([]byte("symbols: [not, a, map]"))
	assert.Error(t, err)
}

func TestLoadFileAndMerge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: extra
symbols:
  res: {lib: "Device:R_Small", xoff: 5, yoff: 5}
  diode: {lib: "Device:D"}
`), 0644))

	extra, err := LoadFile(path)
	require.NoError(t, err)

	base, err := Default(LTspice)
	require.NoError(t, err)

	merged := base.Merge(extra)
	assert.Equal(t, "ltspice", merged.Name)
	assert.Equal(t, "Device:R_Small", merged.Symbols["res"].Lib)
	assert.Equal(t, "Device:D", merged.Symbols["diode"].Lib)
	assert.Equal(t, "Device:C", merged.Symbols["cap"].Lib)

	// The base table is left untouched.
	assert.Equal(t, "Device:R", base.Symbols["res"].Lib)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	base, err := Default(GSchem)
	require.NoError(t, err)

	data, err := Marshal(base)
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, base, again)
}
