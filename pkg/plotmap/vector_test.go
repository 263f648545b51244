package plotmap

import (
	"errors"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	shp "github.com/jonas-p/go-shp"
)

// writeShapefile creates a shapefile in a test temp directory and fills
// it through the build callback.
func writeShapefile(t *testing.T, shapeType shp.ShapeType, build func(w *shp.Writer)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.shp")
	w, err := shp.Create(path, shapeType)
	if err != nil {
		t.Fatalf("Failed to create shapefile: %v", err)
	}
	build(w)
	w.Close()
	return path
}

// squarePolygon builds a closed square ring anchored at its southwest
// corner.
func squarePolygon(minX, minY, size float64) *shp.Polygon {
	pts := []shp.Point{
		{X: minX, Y: minY},
		{X: minX + size, Y: minY},
		{X: minX + size, Y: minY + size},
		{X: minX, Y: minY + size},
		{X: minX, Y: minY},
	}
	return &shp.Polygon{
		Box:       shp.Box{MinX: minX, MinY: minY, MaxX: minX + size, MaxY: minY + size},
		NumParts:  1,
		NumPoints: int32(len(pts)),
		Parts:     []int32{0},
		Points:    pts,
	}
}

// TestLoadPolygons tests loading polygon records with attributes.
func TestLoadPolygons(t *testing.T) {
	path := writeShapefile(t, shp.POLYGON, func(w *shp.Writer) {
		w.SetFields([]shp.Field{shp.StringField("NAME", 16)})
		w.Write(squarePolygon(0, 0, 4))
		w.WriteAttribute(0, 0, "alpha")
		w.Write(squarePolygon(50, 50, 1))
		w.WriteAttribute(1, 0, "beta")
	})

	set, err := LoadPolygons(path)
	if err != nil {
		t.Fatalf("Failed to load polygons: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Feature count = %d, want 2", set.Len())
	}

	f := set.Features()[0]
	if !f.Closed() {
		t.Error("Polygon feature should be closed")
	}
	if len(f.Rings()) != 1 {
		t.Fatalf("Ring count = %d, want 1", len(f.Rings()))
	}
	if n := len(f.Rings()[0]); n != 5 {
		t.Errorf("Ring vertex count = %d, want 5", n)
	}
	if name, ok := f.Attribute("NAME"); !ok || name != "alpha" {
		t.Errorf("NAME attribute = %q (ok=%v), want \"alpha\"", name, ok)
	}

	ext := f.Extent()
	if ext.MinLon != 0 || ext.MaxLon != 4 || ext.MinLat != 0 || ext.MaxLat != 4 {
		t.Errorf("Feature extent = %+v, want 0..4 on both axes", ext)
	}
}

// TestLoadPolylines tests that open polyline records load as unclosed
// features.
func TestLoadPolylines(t *testing.T) {
	path := writeShapefile(t, shp.POLYLINE, func(w *shp.Writer) {
		w.Write(&shp.PolyLine{
			Box:       shp.Box{MinX: 0, MinY: 0, MaxX: 3, MaxY: 2},
			NumParts:  1,
			NumPoints: 2,
			Parts:     []int32{0},
			Points:    []shp.Point{{X: 0, Y: 0}, {X: 3, Y: 2}},
		})
	})

	set, err := LoadPolygons(path)
	if err != nil {
		t.Fatalf("Failed to load polylines: %v", err)
	}
	if set.Len() != 1 {
		t.Fatalf("Feature count = %d, want 1", set.Len())
	}

	f := set.Features()[0]
	if f.Closed() {
		t.Error("Polyline feature should not be closed")
	}
	if len(f.Rings()) != 1 || len(f.Rings()[0]) != 2 {
		t.Errorf("Rings = %v, want one open part with 2 vertices", f.Rings())
	}
}

// TestLoadPolygonsMissing tests that a missing shapefile reports a data
// error.
func TestLoadPolygonsMissing(t *testing.T) {
	_, err := LoadPolygons(filepath.Join(t.TempDir(), "nowhere.shp"))
	if err == nil {
		t.Fatal("Expected error for missing shapefile")
	}
	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Errorf("Expected DataError, got %T", err)
	}
}

// TestLoadPolygonsEmpty tests that a shapefile without a single usable
// ring is rejected.
func TestLoadPolygonsEmpty(t *testing.T) {
	// three vertices cannot form a closed ring (the first one has to
	// repeat at the end)
	path := writeShapefile(t, shp.POLYGON, func(w *shp.Writer) {
		w.Write(&shp.Polygon{
			Box:       shp.Box{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1},
			NumParts:  1,
			NumPoints: 3,
			Parts:     []int32{0},
			Points:    []shp.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}},
		})
	})

	_, err := LoadPolygons(path)
	var dataErr *DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("Expected DataError for shapefile without usable rings, got %v", err)
	}
	if !strings.Contains(err.Error(), "no polygon features") {
		t.Errorf("Error = %q, should mention missing polygon features", err)
	}
}

// TestLoadPolygonsSkipsPoints tests that point geometry is ignored.
func TestLoadPolygonsSkipsPoints(t *testing.T) {
	path := writeShapefile(t, shp.POINT, func(w *shp.Writer) {
		w.Write(&shp.Point{X: 1, Y: 2})
	})
	if _, err := LoadPolygons(path); err == nil {
		t.Error("Expected error for a shapefile holding only points")
	}
}

// TestFeaturesInExtent tests R-tree queries against feature bounding
// boxes.
func TestFeaturesInExtent(t *testing.T) {
	path := writeShapefile(t, shp.POLYGON, func(w *shp.Writer) {
		w.SetFields([]shp.Field{shp.StringField("NAME", 16)})
		w.Write(squarePolygon(0, 0, 4))
		w.WriteAttribute(0, 0, "alpha")
		w.Write(squarePolygon(50, 50, 1))
		w.WriteAttribute(1, 0, "beta")
	})
	set, err := LoadPolygons(path)
	if err != nil {
		t.Fatalf("Failed to load polygons: %v", err)
	}

	near := set.FeaturesInExtent(Extent{MinLon: -1, MaxLon: 5, MinLat: -1, MaxLat: 4})
	if len(near) != 1 {
		t.Fatalf("Features near origin = %d, want 1", len(near))
	}
	if name, _ := near[0].Attribute("NAME"); name != "alpha" {
		t.Errorf("Near feature NAME = %q, want \"alpha\"", name)
	}

	all := set.FeaturesInExtent(Extent{MinLon: -10, MaxLon: 60, MinLat: -10, MaxLat: 60})
	if len(all) != 2 {
		t.Errorf("Features in covering extent = %d, want 2", len(all))
	}

	none := set.FeaturesInExtent(Extent{MinLon: 20, MaxLon: 30, MinLat: 20, MaxLat: 30})
	if len(none) != 0 {
		t.Errorf("Features in empty region = %d, want 0", len(none))
	}
}

// TestFeatureBounds tests the feature extent and the padding of
// degenerate R-tree rectangles.
func TestFeatureBounds(t *testing.T) {
	f := newFeature([][][2]float64{{{0, 0}, {4, 0}, {4, 3}, {0, 3}, {0, 0}}}, true, nil)
	ext := f.Extent()
	if ext.MinLon != 0 || ext.MaxLon != 4 || ext.MinLat != 0 || ext.MaxLat != 3 {
		t.Errorf("Extent = %+v, want lon 0..4 lat 0..3", ext)
	}

	degenerate := newFeature([][][2]float64{{{7, 7}, {7, 7}}}, false, nil)
	rect := degenerate.Bounds()
	if rect.Size() <= 0 {
		t.Errorf("Degenerate bounds size = %f, should be positive", rect.Size())
	}
}

// TestSplitParts tests cutting the flat shapefile vertex list into
// rings.
func TestSplitParts(t *testing.T) {
	pts := []shp.Point{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 0},
		{X: 5, Y: 5}, {X: 6, Y: 5},
		{X: 8, Y: 8}, {X: 9, Y: 8}, {X: 9, Y: 9}, {X: 8, Y: 8},
	}
	parts := []int32{0, 5, 7}

	rings := splitParts(pts, parts, 4)
	if len(rings) != 2 {
		t.Fatalf("Ring count = %d, want 2 (the 2 vertex part drops)", len(rings))
	}
	if len(rings[0]) != 5 || len(rings[1]) != 4 {
		t.Errorf("Ring lengths = %d and %d, want 5 and 4", len(rings[0]), len(rings[1]))
	}
	if rings[1][0] != [2]float64{8, 8} {
		t.Errorf("Second ring starts at %v, want [8 8]", rings[1][0])
	}

	lines := splitParts(pts, parts, 2)
	if len(lines) != 3 {
		t.Errorf("Line count = %d, want 3", len(lines))
	}

	// records without part offsets hold a single ring
	single := splitParts(pts[:5], nil, 4)
	if len(single) != 1 || len(single[0]) != 5 {
		t.Fatalf("Rings from offset-free record = %v, want one ring of 5 vertices", single)
	}
}

// TestPlotPolygons tests drawing features onto the map axes.
func TestPlotPolygons(t *testing.T) {
	m := newTestMap(t)

	if _, err := m.PlotPolygons(nil, PolygonOptions{}); err == nil {
		t.Error("Expected error for nil feature set")
	}

	path := writeShapefile(t, shp.POLYGON, func(w *shp.Writer) {
		w.Write(squarePolygon(-4, -3, 6))
	})
	set, err := LoadPolygons(path)
	if err != nil {
		t.Fatalf("Failed to load polygons: %v", err)
	}

	opts := PolygonOptions{
		FaceColor: color.NRGBA{G: 160, B: 120, A: 255},
		EdgeColor: color.NRGBA{A: 255},
		LineWidth: 1.5,
		Alpha:     0.8,
	}
	layer, err := m.PlotPolygons(set, opts)
	if err != nil {
		t.Fatalf("Failed to plot polygons: %v", err)
	}
	if layer.Drawn != 1 {
		t.Errorf("Drawn = %d, want 1", layer.Drawn)
	}

	// an empty options struct still strokes a black outline
	if _, err := m.PlotPolygons(set, PolygonOptions{}); err != nil {
		t.Errorf("Failed to plot with default style: %v", err)
	}
}

// TestPlotPolygonsOutsideExtent tests that features beyond the map
// extent draw nothing without failing.
func TestPlotPolygonsOutsideExtent(t *testing.T) {
	m := newTestMap(t)

	path := writeShapefile(t, shp.POLYGON, func(w *shp.Writer) {
		w.Write(squarePolygon(50, 50, 1))
	})
	set, err := LoadPolygons(path)
	if err != nil {
		t.Fatalf("Failed to load polygons: %v", err)
	}

	layer, err := m.PlotPolygons(set, PolygonOptions{})
	if err != nil {
		t.Fatalf("Plotting features outside the extent should be a no-op, got %v", err)
	}
	if layer.Drawn != 0 {
		t.Errorf("Drawn = %d, want 0", layer.Drawn)
	}
}
