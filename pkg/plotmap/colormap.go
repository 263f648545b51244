package plotmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"
)

// Colormap maps a normalized position in [0, 1] to a color by linear
// interpolation between fixed stops.
type Colormap struct {
	name  string
	stops []gg.RGBA
}

// Name returns the registry name of the colormap.
func (c Colormap) Name() string { return c.name }

// At returns the color at position t, clamped to [0, 1].
func (c Colormap) At(t float64) gg.RGBA {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	if len(c.stops) == 1 {
		return c.stops[0]
	}
	pos := t * float64(len(c.stops)-1)
	i := int(math.Floor(pos))
	if i >= len(c.stops)-1 {
		return c.stops[len(c.stops)-1]
	}
	return c.stops[i].Lerp(c.stops[i+1], pos-float64(i))
}

// Reversed returns the colormap with the stop order flipped.
func (c Colormap) Reversed() Colormap {
	stops := make([]gg.RGBA, len(c.stops))
	for i, s := range c.stops {
		stops[len(stops)-1-i] = s
	}
	return Colormap{name: c.name + "_r", stops: stops}
}

// colormaps holds the stop tables of the named colormaps. Any name may be
// suffixed with "_r" for the reversed ramp.
var colormaps = map[string][]gg.RGBA{
	"jet": {
		gg.RGB(0, 0, 0.5),
		gg.RGB(0, 0, 1),
		gg.RGB(0, 0.5, 1),
		gg.RGB(0, 1, 1),
		gg.RGB(0.5, 1, 0.5),
		gg.RGB(1, 1, 0),
		gg.RGB(1, 0.5, 0),
		gg.RGB(1, 0, 0),
		gg.RGB(0.5, 0, 0),
	},
	"viridis": {
		rgb8(0x44, 0x01, 0x54),
		rgb8(0x48, 0x28, 0x78),
		rgb8(0x3e, 0x49, 0x89),
		rgb8(0x31, 0x68, 0x8e),
		rgb8(0x26, 0x82, 0x8e),
		rgb8(0x1f, 0x9e, 0x89),
		rgb8(0x35, 0xb7, 0x79),
		rgb8(0x6e, 0xce, 0x58),
		rgb8(0xb5, 0xde, 0x2b),
		rgb8(0xfd, 0xe7, 0x25),
	},
	// 9-class sequential blues
	"blues": {
		rgb8(247, 251, 255),
		rgb8(222, 235, 247),
		rgb8(198, 219, 239),
		rgb8(158, 202, 225),
		rgb8(107, 174, 214),
		rgb8(66, 146, 198),
		rgb8(33, 113, 181),
		rgb8(8, 81, 156),
		rgb8(8, 48, 107),
	},
	"gray": {
		gg.RGB(0, 0, 0),
		gg.RGB(1, 1, 1),
	},
	"greys": {
		gg.RGB(1, 1, 1),
		gg.RGB(0, 0, 0),
	},
}

func rgb8(r, g, b uint8) gg.RGBA {
	return gg.RGB(float64(r)/255, float64(g)/255, float64(b)/255)
}

// colormapByName resolves a colormap name, case-insensitively, honoring
// the "_r" reversal suffix.
func colormapByName(name string) (Colormap, error) {
	key := strings.ToLower(name)
	reversed := false
	if strings.HasSuffix(key, "_r") {
		reversed = true
		key = strings.TrimSuffix(key, "_r")
	}
	stops, ok := colormaps[key]
	if !ok {
		return Colormap{}, fmt.Errorf("unknown colormap %q", name)
	}
	cm := Colormap{name: key, stops: stops}
	if reversed {
		cm = cm.Reversed()
	}
	return cm, nil
}

// ScalarMapping records how a scalar image draw mapped data values to
// colors. The Map keeps the mapping of the most recent scalar draw so a
// colorbar can be calibrated against it.
type ScalarMapping struct {
	VMin, VMax float64
	Cmap       Colormap

	// Bounds switches the mapping to discrete mode: values fall into
	// len(Bounds)-1 intervals, each painted with one color.
	Bounds []float64
}

// Color maps a data value through the recorded scale.
func (m ScalarMapping) Color(v float64) gg.RGBA {
	if len(m.Bounds) > 1 {
		n := len(m.Bounds) - 1
		i := 0
		for i < n-1 && v >= m.Bounds[i+1] {
			i++
		}
		return m.Cmap.At((float64(i) + 0.5) / float64(n))
	}
	if m.VMax <= m.VMin {
		return m.Cmap.At(0)
	}
	return m.Cmap.At((v - m.VMin) / (m.VMax - m.VMin))
}
