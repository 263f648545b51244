package main

import (
	"fmt"
	"log"

	"github.com/atedstone/plotmap/pkg/plotmap"
)

func main() {
	// Build the map from the raster footprint, putting the projection
	// origin on the grid's own central meridian
	m, err := plotmap.New(plotmap.Config{
		DSFile:       "velocity.tif",
		OriginPolicy: plotmap.OriginCentralMeridian,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	r, err := plotmap.OpenRaster("velocity.tif")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Raster: %dx%d cells, %d band(s)\n", r.Width(), r.Height(), r.BandCount())

	// Clip the color range and pick a ramp
	vmin, vmax := 0.0, 300.0
	layer, err := m.PlotData(r, plotmap.DataOptions{
		VMin:     &vmin,
		VMax:     &vmax,
		Colormap: "viridis",
	})
	if err != nil {
		log.Fatal(err)
	}
	if layer.Empty {
		log.Fatal("raster does not overlap the map extent")
	}

	// Annotate with a colorbar; the arrow marks clipped high values
	cb, err := m.PlotColorbar(plotmap.ColorbarOptions{
		Label:  "ice velocity (m/yr)",
		Extend: plotmap.ExtendMax,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Colorbar ticks: %v\n", cb.Ticks)

	if err := m.SaveFigure("velocity.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Wrote velocity.png")
}
