package internal

import (
	"math"

	"github.com/pkg/errors"
)

// CheckPlanarFill reports whether triangles tile the XY projection of d:
//
// 1. The triangles use exactly the vertices of the domain.
// 2. Every edge of the boundary (including the access edge) and of every island is an edge of some triangle.
// 3. No triangle has zero area, and every triangle winds the same way as the boundary.
// 4. The triangle areas add up to the area of the boundary less the areas of the islands.
//
// A fill that passes can't fold over itself or cover an island. Weight
// calculators that ignore winding can produce fills that fail.
func CheckPlanarFill(points []Point, d Domain, triangles TriangleList) error {
	domainVertices := make(map[int]bool)
	for _, id := range d.Boundary {
		domainVertices[id] = true
	}
	for _, island := range d.Islands {
		for _, id := range island {
			domainVertices[id] = true
		}
	}
	used := make(map[int]bool)
	for _, tri := range triangles {
		for _, id := range tri.Vertices() {
			if !domainVertices[id] {
				return errors.Errorf("triangle %s uses vertex %d, which is not in the domain", tri, id)
			}
			used[id] = true
		}
	}
	loops := append([][]int{d.Boundary}, islandLoops(d)...)
	for _, loop := range loops {
		for _, id := range loop {
			if !used[id] {
				return errors.Errorf("vertex %d is not used by any triangle", id)
			}
		}
	}

	boundaryArea := SignedArea(points, d.Boundary)
	if boundaryArea == 0 {
		return errors.Errorf("boundary %v has no area", d.Boundary)
	}
	sign := math.Copysign(1, boundaryArea)

	var triangleArea float64
	triangleEdges := make(map[edge]bool)
	for _, tri := range triangles {
		corners := tri.Vertices()
		area := SignedArea(points, corners[:])
		if math.Abs(area) <= Epsilon {
			return errors.Errorf("triangle %s has no area", tri)
		}
		if math.Copysign(1, area) != sign {
			return errors.Errorf("triangle %s winds against the boundary", tri)
		}
		triangleArea += math.Abs(area)
		for _, e := range faceEdges(corners) {
			triangleEdges[e.undirected()] = true
		}
	}

	expectedArea := math.Abs(boundaryArea)
	for l, loop := range loops {
		if l > 0 {
			expectedArea -= math.Abs(SignedArea(points, loop))
		}
		for i, a := range loop {
			b := loop[CircularIndex(i+1, len(loop))]
			e := edge{a, b}
			if !triangleEdges[e.undirected()] {
				return errors.Errorf("edge (%d, %d) of the domain is not an edge of any triangle", a, b)
			}
		}
	}

	if math.Abs(triangleArea-expectedArea) > 1e-9*math.Max(1, expectedArea) {
		return errors.Errorf("triangles cover an area of %g, but the region's area is %g", triangleArea, expectedArea)
	}
	return nil
}

func islandLoops(d Domain) [][]int {
	loops := make([][]int, len(d.Islands))
	for h, island := range d.Islands {
		loops[h] = island
	}
	return loops
}
