package plotmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/gogpu/gg"
	shp "github.com/jonas-p/go-shp"
)

// Feature is one shapefile record: its rings of geographic vertices and
// the record attributes.
type Feature struct {
	rings  [][][2]float64
	closed bool
	attrs  map[string]string

	minLon, minLat, maxLon, maxLat float64
}

// Rings returns the vertex rings in lon/lat degrees. Polygon rings
// close implicitly; polyline parts are open.
func (f *Feature) Rings() [][][2]float64 { return f.rings }

// Closed reports whether the feature came from polygon records rather
// than polylines.
func (f *Feature) Closed() bool { return f.closed }

// Attribute returns a record attribute by field name.
func (f *Feature) Attribute(name string) (string, bool) {
	v, ok := f.attrs[name]
	return v, ok
}

// Attributes returns the record attributes keyed by field name. The map
// is shared; callers must not modify it.
func (f *Feature) Attributes() map[string]string { return f.attrs }

// Extent returns the feature's geographic bounding box.
func (f *Feature) Extent() Extent {
	return Extent{MinLon: f.minLon, MaxLon: f.maxLon, MinLat: f.minLat, MaxLat: f.maxLat}
}

// Bounds implements rtreego.Spatial so features can live in the R-tree.
func (f *Feature) Bounds() rtreego.Rect {
	point := rtreego.Point{f.minLon, f.minLat}

	// the R-tree needs nonzero extents; pad degenerate boxes by about
	// 11 meters at the equator
	const epsilon = 0.0001
	lonLength := f.maxLon - f.minLon
	latLength := f.maxLat - f.minLat
	if lonLength < epsilon {
		lonLength = epsilon
	}
	if latLength < epsilon {
		latLength = epsilon
	}

	rect, _ := rtreego.NewRect(point, []float64{lonLength, latLength})
	return rect
}

func newFeature(rings [][][2]float64, closed bool, attrs map[string]string) *Feature {
	f := &Feature{
		rings:  rings,
		closed: closed,
		attrs:  attrs,
		minLon: math.Inf(1),
		minLat: math.Inf(1),
		maxLon: math.Inf(-1),
		maxLat: math.Inf(-1),
	}
	for _, ring := range rings {
		for _, v := range ring {
			f.minLon = math.Min(f.minLon, v[0])
			f.maxLon = math.Max(f.maxLon, v[0])
			f.minLat = math.Min(f.minLat, v[1])
			f.maxLat = math.Max(f.maxLat, v[1])
		}
	}
	return f
}

// FeatureSet is an R-tree indexed collection of features loaded from a
// shapefile, queried by geographic extent.
type FeatureSet struct {
	features []*Feature
	tree     *rtreego.Rtree
}

// LoadPolygons reads the polygon and polyline records of a shapefile in
// geographic coordinates. Rings with too few vertices are dropped, and
// records left without rings are skipped, as are point and other
// geometry types. Loading a file with no usable records is an error.
func LoadPolygons(path string) (*FeatureSet, error) {
	const op = "load polygons"
	r, err := shp.Open(path)
	if err != nil {
		return nil, &DataError{Op: op, Reason: path, Err: err}
	}
	defer r.Close()

	fields := r.Fields()
	set := &FeatureSet{tree: rtreego.NewTree(2, 25, 50)}
	for r.Next() {
		row, shape := r.Shape()

		var rings [][][2]float64
		closed := false
		switch g := shape.(type) {
		case *shp.Polygon:
			// a closed ring needs at least a triangle plus the
			// repeated first vertex
			rings = splitParts(g.Points, g.Parts, 4)
			closed = true
		case *shp.PolyLine:
			rings = splitParts(g.Points, g.Parts, 2)
		default:
			continue
		}
		if len(rings) == 0 {
			continue
		}

		attrs := make(map[string]string, len(fields))
		for i := range fields {
			// dbf pads values to the field width
			attrs[fields[i].String()] = strings.Trim(r.ReadAttribute(row, i), "\x00 ")
		}

		f := newFeature(rings, closed, attrs)
		set.features = append(set.features, f)
		set.tree.Insert(f)
	}
	if err := r.Err(); err != nil {
		return nil, &DataError{Op: op, Reason: path, Err: err}
	}
	if len(set.features) == 0 {
		return nil, &DataError{Op: op, Reason: fmt.Sprintf("%s contains no polygon features", path)}
	}
	return set, nil
}

// splitParts cuts a shapefile's flat vertex list at the part offsets,
// dropping parts shorter than minLen vertices.
func splitParts(points []shp.Point, parts []int32, minLen int) [][][2]float64 {
	if len(parts) == 0 && len(points) >= minLen {
		parts = []int32{0}
	}
	var out [][][2]float64
	for i, start := range parts {
		end := len(points)
		if i+1 < len(parts) {
			end = int(parts[i+1])
		}
		s := int(start)
		if s < 0 || end > len(points) || end-s < minLen {
			continue
		}
		ring := make([][2]float64, end-s)
		for j, p := range points[s:end] {
			ring[j] = [2]float64{p.X, p.Y}
		}
		out = append(out, ring)
	}
	return out
}

// Len returns the number of features.
func (s *FeatureSet) Len() int { return len(s.features) }

// Features returns all features in load order.
func (s *FeatureSet) Features() []*Feature { return s.features }

// FeaturesInExtent returns the features whose bounding boxes intersect
// the extent.
func (s *FeatureSet) FeaturesInExtent(ext Extent) []*Feature {
	point := rtreego.Point{ext.MinLon, ext.MinLat}
	lengths := []float64{ext.Width(), ext.Height()}
	const epsilon = 0.0001
	if lengths[0] < epsilon {
		lengths[0] = epsilon
	}
	if lengths[1] < epsilon {
		lengths[1] = epsilon
	}
	rect, _ := rtreego.NewRect(point, lengths)

	spatials := s.tree.SearchIntersect(rect)
	out := make([]*Feature, 0, len(spatials))
	for _, sp := range spatials {
		out = append(out, sp.(*Feature))
	}
	return out
}

// VectorLayer reports what a PlotPolygons call put on the map.
type VectorLayer struct {
	// Drawn is the number of features that intersected the extent and
	// were drawn.
	Drawn int
}

// PlotPolygons draws the features of a set that intersect the map
// extent, projected onto the axes and clipped to them. Closed features
// are filled when a face color is set; edges are stroked when an edge
// color is set, or black when the options name no color at all. All
// vertices are projected before anything is drawn, so a projection
// failure leaves the surface untouched.
func (m *Map) PlotPolygons(set *FeatureSet, opts PolygonOptions) (*VectorLayer, error) {
	const op = "plot polygons"
	if set == nil || set.Len() == 0 {
		return nil, &DataError{Op: op, Reason: "empty feature set"}
	}
	feats := set.FeaturesInExtent(m.extent)
	if len(feats) == 0 {
		return &VectorLayer{}, nil
	}

	paths := make([][][][2]float64, len(feats))
	for i, f := range feats {
		p, err := m.projectRings(f)
		if err != nil {
			return nil, &DataError{Op: op, Reason: "project feature", Err: err}
		}
		paths[i] = p
	}

	alpha := opts.Alpha
	if alpha <= 0 || alpha > 1 {
		alpha = 1
	}
	lineWidth := opts.LineWidth
	if lineWidth <= 0 {
		lineWidth = 1
	}
	var face, edge *gg.RGBA
	if opts.FaceColor != nil {
		c := toRGBA(opts.FaceColor)
		c.A *= alpha
		face = &c
	}
	if opts.EdgeColor != nil {
		c := toRGBA(opts.EdgeColor)
		c.A *= alpha
		edge = &c
	}
	if face == nil && edge == nil {
		c := gg.Black
		c.A = alpha
		edge = &c
	}

	dc := m.fig.dc
	ax, ay, aw, ah := m.ax.Rect()
	dc.SetLineWidth(lineWidth)
	for i, f := range feats {
		if face != nil && f.closed {
			traced := 0
			for _, ring := range paths[i] {
				c := clipRing(ring, ax, ay, ax+aw, ay+ah)
				if c == nil {
					continue
				}
				traceRing(dc, c)
				traced++
			}
			if traced > 0 {
				dc.SetColor(face.Color())
				if err := dc.Fill(); err != nil {
					return nil, &DataError{Op: op, Reason: "draw", Err: err}
				}
			}
		}
		if edge != nil {
			traced := 0
			for _, ring := range paths[i] {
				pts := ring
				if f.closed {
					pts = closeRing(ring)
				}
				for _, run := range clipPolyline(pts, ax, ay, ax+aw, ay+ah) {
					tracePolyline(dc, run)
					traced++
				}
			}
			if traced > 0 {
				dc.SetColor(edge.Color())
				if err := dc.Stroke(); err != nil {
					return nil, &DataError{Op: op, Reason: "draw", Err: err}
				}
			}
		}
	}
	return &VectorLayer{Drawn: len(feats)}, nil
}

// projectRings maps every ring vertex of a feature to figure pixels.
func (m *Map) projectRings(f *Feature) ([][][2]float64, error) {
	out := make([][][2]float64, len(f.rings))
	for ri, ring := range f.rings {
		px := make([][2]float64, len(ring))
		for i, v := range ring {
			x, y, err := m.toPixel(v[0], v[1])
			if err != nil {
				return nil, err
			}
			px[i] = [2]float64{x, y}
		}
		out[ri] = px
	}
	return out, nil
}

// traceRing adds a closed ring to the current path.
func traceRing(dc *gg.Context, ring [][2]float64) {
	for i, p := range ring {
		if i == 0 {
			dc.MoveTo(p[0], p[1])
		} else {
			dc.LineTo(p[0], p[1])
		}
	}
	dc.ClosePath()
}

// tracePolyline adds an open run to the current path.
func tracePolyline(dc *gg.Context, pts [][2]float64) {
	for i, p := range pts {
		if i == 0 {
			dc.MoveTo(p[0], p[1])
		} else {
			dc.LineTo(p[0], p[1])
		}
	}
}

// closeRing appends the first vertex when the record did not repeat it,
// so outlines stroke their closing edge.
func closeRing(ring [][2]float64) [][2]float64 {
	if len(ring) == 0 || ring[0] == ring[len(ring)-1] {
		return ring
	}
	out := make([][2]float64, len(ring)+1)
	copy(out, ring)
	out[len(ring)] = ring[0]
	return out
}
