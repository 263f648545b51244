package main

import (
	"fmt"
	"log"

	"github.com/atedstone/plotmap/pkg/plotmap"
)

func main() {
	// Map of Greenland on a transverse Mercator projection
	extent := plotmap.Extent{MinLon: -75, MaxLon: -10, MinLat: 57.5, MaxLat: 84}
	origin := -42.0

	m, err := plotmap.New(plotmap.Config{
		Extent:    &extent,
		OriginLon: &origin,
		Lat0:      71,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	// Gridlines every 10 degrees of longitude, 5 of latitude
	grid, err := m.GeoTicks(10, 5, plotmap.DefaultTickOptions())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Drew %d meridians and %d parallels\n",
		len(grid.Meridians), len(grid.Parallels))

	// 500 km scale bar in the bottom-right corner
	bar, err := m.PlotScale(500, plotmap.DefaultScaleOptions())
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Ground resolution at the bar: %.0f m/pixel\n", bar.MetersPerPixel)

	if err := m.SaveFigure("greenland.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Wrote greenland.png")
}
