package plotmap

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

// TestPlotScale tests the scale bar geometry on the test map.
func TestPlotScale(t *testing.T) {
	m := newTestMap(t)

	bar, err := m.PlotScale(50, DefaultScaleOptions())
	if err != nil {
		t.Fatalf("PlotScale() failed: %v", err)
	}
	if bar.LengthKm != 50 {
		t.Errorf("LengthKm = %g, want 50", bar.LengthKm)
	}

	// one degree is 111194.9 m; at the anchor latitude of -3.8 degrees
	// and 0.03125 degrees per pixel that is about 3467 m per pixel
	if math.Abs(bar.MetersPerPixel-3467.2) > 1 {
		t.Errorf("MetersPerPixel = %g, want about 3467.2", bar.MetersPerPixel)
	}
	if got := bar.X1 - bar.X0; !almost(got, bar.LengthKm*1000/bar.MetersPerPixel) {
		t.Errorf("Bar width = %g px, want the ground length over the resolution", got)
	}

	// the anchor sits at 80 percent of the width, 12 percent up
	if math.Abs((bar.X0+bar.X1)/2-592) > 1e-6 {
		t.Errorf("Bar center x = %g, want 592", (bar.X0+bar.X1)/2)
	}
	if math.Abs(bar.Y-415.6) > 1e-6 {
		t.Errorf("Bar y = %g, want 415.6", bar.Y)
	}
}

// TestPlotScaleDeterministic tests that equal maps get equal bars.
func TestPlotScaleDeterministic(t *testing.T) {
	b1, err := newTestMap(t).PlotScale(25, DefaultScaleOptions())
	if err != nil {
		t.Fatalf("PlotScale() failed: %v", err)
	}
	b2, err := newTestMap(t).PlotScale(25, DefaultScaleOptions())
	if err != nil {
		t.Fatalf("PlotScale() failed: %v", err)
	}
	if *b1 != *b2 {
		t.Errorf("Bars differ between identical maps: %+v vs %+v", *b1, *b2)
	}
}

// TestPlotScaleStyles tests the simple style and custom options.
func TestPlotScaleStyles(t *testing.T) {
	m := newTestMap(t)

	opts := ScaleOptions{XPos: 0.3, YPos: 0.5, Style: ScaleSimple, Units: "mi", Color: color.NRGBA{R: 200, A: 255}}
	if _, err := m.PlotScale(10, opts); err != nil {
		t.Fatalf("PlotScale() simple style failed: %v", err)
	}
}

// TestPlotScaleErrors tests length validation.
func TestPlotScaleErrors(t *testing.T) {
	tests := []struct {
		name     string
		lengthKm float64
	}{
		{"zero length", 0},
		{"negative length", -5},
		{"wider than the axes", 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMap(t)
			_, err := m.PlotScale(tt.lengthKm, DefaultScaleOptions())
			if err == nil {
				t.Fatal("PlotScale() succeeded, want error")
			}
			var derr *DataError
			if !errors.As(err, &derr) {
				t.Errorf("PlotScale() error = %v, want *DataError", err)
			}
		})
	}
}

// TestTrimFloat tests the label number formatting.
func TestTrimFloat(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{25, "25"},
		{2.5, "2.5"},
		{12.75, "12.75"},
		{0.2 * 3, "0.6"},
		{-40, "-40"},
	}
	for _, tt := range tests {
		if got := trimFloat(tt.v); got != tt.want {
			t.Errorf("trimFloat(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
