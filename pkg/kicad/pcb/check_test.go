package pcb

import (
	"errors"
	"strings"
	"testing"

	"github.com/OpenTraceLab/kiconv/pkg/kicad/bind"
)

func TestCheckRoundTripEqual(t *testing.T) {
	for name, text := range map[string]string{"minimal": minimalBoard, "maximal": maximalBoard} {
		t.Run(name, func(t *testing.T) {
			rt, err := CheckRoundTrip([]byte(text))
			if err != nil {
				t.Fatalf("CheckRoundTrip() error = %v", err)
			}
			if !rt.Equal() {
				t.Errorf("round trip changed the board:\n%s", strings.Join(rt.Report(), "\n"))
			}
			if rt.Changed() != 0 || len(rt.Report()) != 0 {
				t.Errorf("Changed() = %d, Report() = %v; want no changes", rt.Changed(), rt.Report())
			}
			if rt.OriginalLeaves != rt.SavedLeaves {
				t.Errorf("leaf counts differ: %d vs %d", rt.OriginalLeaves, rt.SavedLeaves)
			}
		})
	}
}

func TestCheckRoundTripKeepsPlotPrecision(t *testing.T) {
	text := `(kicad_pcb (version 20171130)
  (setup (pcbplotparams (linewidth 0.100000) (hpglpendiameter 15.000000))))`

	rt, err := CheckRoundTrip([]byte(text))
	if err != nil {
		t.Fatalf("CheckRoundTrip() error = %v", err)
	}
	if !rt.Equal() {
		t.Errorf("plot settings changed:\n%s", strings.Join(rt.Report(), "\n"))
	}
}

func TestCheckRoundTripNormalizes(t *testing.T) {
	text := `(kicad_pcb (version 20171130)
  (segment (start 0 0) (end 1 0) (width 0.250) (layer F.Cu) (net 0)))`

	rt, err := CheckRoundTrip([]byte(text))
	if err != nil {
		t.Fatalf("CheckRoundTrip() error = %v", err)
	}
	if rt.Equal() {
		t.Fatal("Equal() = true for a width with trailing zeros")
	}
	if rt.Changed() == 0 {
		t.Error("Changed() = 0, want the segment line")
	}

	var removed, added bool
	for _, line := range rt.Report() {
		if strings.HasPrefix(line, "- ") && strings.Contains(line, "(width 0.250)") {
			removed = true
		}
		if strings.HasPrefix(line, "+ ") && strings.Contains(line, "(width 0.25)") {
			added = true
		}
	}
	if !removed || !added {
		t.Errorf("Report() = %q, want the width rewritten", rt.Report())
	}
	if rt.OriginalLeaves != rt.SavedLeaves {
		t.Errorf("leaf counts differ: %d vs %d", rt.OriginalLeaves, rt.SavedLeaves)
	}
}

func TestCheckRoundTripErrors(t *testing.T) {
	if _, err := CheckRoundTrip([]byte(`(kicad_pcb (version 1) (bogus 1))`)); !errors.Is(err, bind.ErrUnknownField) {
		t.Errorf("unknown field: error = %v, want ErrUnknownField", err)
	}
	if _, err := CheckRoundTrip([]byte(`(kicad_pcb (version 1)`)); err == nil {
		t.Error("unbalanced input: expected an error")
	}
}
