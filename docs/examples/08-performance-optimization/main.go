package main

import (
	"fmt"
	"log"

	"github.com/atedstone/plotmap/pkg/plotmap"
)

// Load only the window that intersects the map extent instead of the
// whole continent-scale grid
func openStudyArea(path string, area plotmap.Extent) (*plotmap.Raster, error) {
	return plotmap.OpenRasterRegion(path, area)
}

// Decimate a raster that holds far more cells than the figure has
// pixels; drawing time scales with the cell count
func coarsenForOverview(r *plotmap.Raster, figWidth int) *plotmap.Raster {
	factor := r.Width() / figWidth
	if factor < 2 {
		return r
	}
	return r.Coarsen(factor)
}

func main() {
	area := plotmap.Extent{MinLon: -52, MaxLon: -48, MinLat: 66.5, MaxLat: 69.5}
	origin := -50.0

	m, err := plotmap.New(plotmap.Config{
		Extent:    &area,
		OriginLon: &origin,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	r, err := openStudyArea("velocity.tif", area.Expand(0.25))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Windowed read: %dx%d cells\n", r.Width(), r.Height())

	r = coarsenForOverview(r, m.Figure().Width())
	fmt.Printf("After coarsening: %dx%d cells\n", r.Width(), r.Height())

	// Nearest-neighbour sampling is the default and the cheap option.
	// Bilinear looks smoother but touches four cells per pixel.
	_, err = m.PlotData(r, plotmap.DataOptions{
		Colormap:      "viridis",
		Interpolation: plotmap.InterpNearest,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := m.SaveFigure("overview.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Wrote overview.png")
}
