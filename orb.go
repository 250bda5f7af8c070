package islandfill

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

// FromOrbPolygon turns a planar polygon into a problem. The outer ring is the
// boundary and every inner ring is an island. Rings may be closed or open; a
// closing point is dropped.
func FromOrbPolygon(poly orb.Polygon) (*Problem, error) {
	if len(poly) == 0 {
		return nil, invalidf("polygon has no rings")
	}
	problem := &Problem{}
	for r, ring := range poly {
		if ring.Closed() && len(ring) > 1 {
			ring = ring[:len(ring)-1]
		}
		if planar.Area(ring) == 0 {
			return nil, invalidf("ring %d has no area", r)
		}
		ids := make([]int, len(ring))
		for i, p := range ring {
			ids[i] = len(problem.Points)
			problem.Points = append(problem.Points, Point{X: p.X(), Y: p.Y()})
		}
		if r == 0 {
			problem.Boundary = ids
		} else {
			problem.Islands = append(problem.Islands, ids)
		}
	}
	return problem, nil
}

// ParseGeoJSON reads the first polygon out of a GeoJSON document, which may be
// a feature collection, a single feature or a bare geometry. For a
// multipolygon, its first polygon is used.
func ParseGeoJSON(data []byte) (*Problem, error) {
	var geometries []orb.Geometry
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		for _, f := range fc.Features {
			geometries = append(geometries, f.Geometry)
		}
	} else if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		geometries = append(geometries, f.Geometry)
	} else {
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, errors.Wrap(err, "parsing GeoJSON")
		}
		geometries = append(geometries, g.Coordinates)
	}

	for _, g := range geometries {
		switch g := g.(type) {
		case orb.Polygon:
			return FromOrbPolygon(g)
		case orb.MultiPolygon:
			if len(g) > 0 {
				return FromOrbPolygon(g[0])
			}
		}
	}
	return nil, invalidf("no polygon in GeoJSON")
}

// LoadGeoJSON reads a problem from a GeoJSON file.
func LoadGeoJSON(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading GeoJSON file")
	}
	return ParseGeoJSON(data)
}
