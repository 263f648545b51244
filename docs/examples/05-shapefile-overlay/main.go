package main

import (
	"fmt"
	"image/color"
	"log"

	"github.com/atedstone/plotmap/pkg/plotmap"
)

func main() {
	extent := plotmap.Extent{MinLon: -55, MaxLon: -48, MinLat: 66, MaxLat: 70}
	origin := -51.5

	m, err := plotmap.New(plotmap.Config{
		Extent:    &extent,
		OriginLon: &origin,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	// Load the coastline once; the set carries an R-tree for fast
	// extent queries
	coast, err := plotmap.LoadPolygons("coastline.shp")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Loaded %d features\n", coast.Len())

	visible := coast.FeaturesInExtent(m.Extent())
	fmt.Printf("Features in view: %d\n", len(visible))
	for _, f := range visible {
		if name, ok := f.Attribute("NAME"); ok {
			fmt.Printf("  %s\n", name)
		}
	}

	// Land in light grey with a darker outline
	layer, err := m.PlotPolygons(coast, plotmap.PolygonOptions{
		FaceColor: color.NRGBA{R: 220, G: 220, B: 215, A: 255},
		EdgeColor: color.NRGBA{R: 120, G: 120, B: 120, A: 255},
		LineWidth: 0.8,
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Drew %d features\n", layer.Drawn)

	if _, err := m.GeoTicks(2, 1, plotmap.DefaultTickOptions()); err != nil {
		log.Fatal(err)
	}

	if err := m.SaveFigure("coastline.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Wrote coastline.png")
}
