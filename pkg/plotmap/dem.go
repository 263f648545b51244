package plotmap

import (
	"math"

	"github.com/gogpu/gg"
)

// PlotDEM draws a digital elevation model as hillshaded gray relief.
// The shading uses the Horn gradient kernel with the configured light
// direction and is stretched over the full gray range. Cells touching
// missing elevations stay transparent. The layer carries no scalar
// mapping.
func (m *Map) PlotDEM(path string, opts DEMOptions) (*ImageLayer, error) {
	const op = "plot dem"
	r, err := openLayerRaster(path, opts.Region)
	if err != nil {
		return nil, err
	}
	band, err := r.ds.Band(1)
	if err != nil {
		return nil, &DataError{Op: op, Reason: path, Err: err}
	}

	azimuth := opts.Azimuth
	if azimuth == 0 {
		azimuth = 100
	}
	altitude := opts.Altitude
	if altitude == 0 {
		altitude = 65
	}
	vertExag := opts.VertExag
	if vertExag == 0 {
		vertExag = 1
	}

	shade := hillshade(band, r.Width(), r.Height(), r.IsNoData, azimuth, altitude, vertExag)
	sample := newSampler(InterpNearest, shade, r.Width(), r.Height(), math.IsNaN)
	colorAt := func(v float64) (gg.RGBA, bool) {
		return gg.RGBA{R: v, G: v, B: v, A: 1}, true
	}
	return m.drawRasterLayer(op, r, sample, colorAt, 1)
}

// hillshade computes Horn shaded relief of an elevation grid. Azimuth
// is degrees clockwise from north, altitude degrees above the horizon.
// The result is rescaled to [0, 1]; cells whose 3x3 neighborhood
// contains a missing elevation become NaN. Edge rows and columns are
// replicated.
func hillshade(z []float64, w, h int, bad func(float64) bool, azimuthDeg, altitudeDeg, vertExag float64) []float64 {
	out := make([]float64, len(z))
	zenith := (90 - altitudeDeg) * math.Pi / 180
	azMath := (360 - azimuthDeg + 90) * math.Pi / 180

	at := func(c, r int) float64 {
		return z[clampInt(r, 0, h-1)*w+clampInt(c, 0, w-1)]
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			var n [3][3]float64
			ok := true
			for dr := -1; dr <= 1 && ok; dr++ {
				for dc := -1; dc <= 1; dc++ {
					v := at(col+dc, row+dr)
					if bad(v) {
						ok = false
						break
					}
					n[dr+1][dc+1] = v
				}
			}
			if !ok {
				out[row*w+col] = math.NaN()
				continue
			}

			// rows grow southward, so the bottom row is the south side
			dzdx := ((n[0][2] + 2*n[1][2] + n[2][2]) - (n[0][0] + 2*n[1][0] + n[2][0])) / 8
			dzdy := ((n[2][0] + 2*n[2][1] + n[2][2]) - (n[0][0] + 2*n[0][1] + n[0][2])) / 8
			slope := math.Atan(vertExag * math.Hypot(dzdx, dzdy))
			aspect := math.Atan2(dzdy, -dzdx)
			v := math.Cos(zenith)*math.Cos(slope) + math.Sin(zenith)*math.Sin(slope)*math.Cos(azMath-aspect)

			out[row*w+col] = v
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}

	for i, v := range out {
		if math.IsNaN(v) {
			continue
		}
		if hi > lo {
			out[i] = (v - lo) / (hi - lo)
		} else {
			out[i] = 0.5
		}
	}
	return out
}
