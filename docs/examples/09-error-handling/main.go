package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/atedstone/plotmap/pkg/plotmap"
)

// Configuration mistakes and data problems surface as distinct error
// types, so callers can tell a bad Config from a bad file.
func buildMap(cfg plotmap.Config) *plotmap.Map {
	m, err := plotmap.New(cfg)
	if err != nil {
		var cfgErr *plotmap.ConfigError
		if errors.As(err, &cfgErr) {
			log.Fatalf("config problem: %s", cfgErr.Reason)
		}
		log.Fatal(err)
	}
	return m
}

func plotIfPresent(m *plotmap.Map, path string) {
	r, err := plotmap.OpenRaster(path)
	if err != nil {
		var dataErr *plotmap.DataError
		if errors.As(err, &dataErr) {
			log.Printf("skipping %s (%s failed): %v", path, dataErr.Op, err)
			return
		}
		log.Fatal(err)
	}

	layer, err := m.PlotData(r, plotmap.DataOptions{})
	if err != nil {
		log.Fatal(err)
	}
	if layer.Empty {
		log.Printf("%s lies outside the map extent", path)
	}
}

func main() {
	extent := plotmap.Extent{MinLon: -55, MaxLon: -48, MinLat: 66, MaxLat: 70}
	origin := -51.5

	m := buildMap(plotmap.Config{Extent: &extent, OriginLon: &origin})
	defer m.Close()

	// A missing file is reported and skipped
	plotIfPresent(m, "not_there.tif")

	// An invalid extent never reaches the projection layer
	bad := plotmap.Extent{MinLon: 10, MaxLon: -10, MinLat: 0, MaxLat: 5}
	if err := bad.Validate(); err != nil {
		fmt.Printf("expected validation failure: %v\n", err)
	}

	if err := m.SaveFigure("map.png"); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Wrote map.png")
}
