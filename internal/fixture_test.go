package internal

import (
	"embed"
	"log"
	"strconv"
	"strings"

	"github.com/JoshVarga/svgparser"
)

// This file parses the svg fixtures into a point list and a domain. This is not
// a full (or even correct) svg parser. The first polygon in the file is the
// boundary, and every polygon after it is an island. If anything goes wrong, it
// exits.
//
// Fixtures are available by name in this fixtures/ directory, sans extension.

//go:embed fixtures
var fixtures embed.FS

func LoadFixture(name string) ([]Point, Domain) {
	fixture, err := fixtures.Open("fixtures/" + name + ".svg")
	if err != nil {
		log.Fatalf("Could not load fixture %q: %v", name, err)
	}

	defer fixture.Close()
	rootEl, err := svgparser.Parse(fixture, false)
	if err != nil {
		log.Fatalf("Failed to parse fixture %q: %v", name, err)
	}

	polygons := rootEl.FindAll("polygon")
	if len(polygons) == 0 {
		log.Fatalf("No polygons found in fixture %q", name)
	}

	var points []Point
	var loops [][]int
	for _, polygonEl := range polygons {
		var loop []int
		for _, pointString := range strings.Fields(polygonEl.Attributes["points"]) {
			coords := strings.Split(pointString, ",")
			if len(coords) != 2 {
				log.Fatalf("Invalid point string %q", pointString)
			}
			x, err := strconv.ParseFloat(coords[0], 64)
			if err != nil {
				log.Fatalf("Invalid x value %q: %v", coords[0], err)
			}
			y, err := strconv.ParseFloat(coords[1], 64)
			if err != nil {
				log.Fatalf("Invalid y value %q: %v", coords[1], err)
			}
			loop = append(loop, len(points))
			points = append(points, Point{X: x, Y: y})
		}
		loops = append(loops, loop)
	}

	d := NewDomain(loops[0])
	for _, island := range loops[1:] {
		d.AddHole(island)
	}
	return points, d
}
