package internal

// This contains no actual tests. It is just a helper for testing fill
// validity.

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper to check that a planar fill is valid. On top of CheckPlanarFill,
// sampled points must be covered by exactly one triangle inside the region and
// by none outside it.
func AssertValidFill(t *testing.T, points []Point, d Domain, triangles TriangleList) {
	t.Helper()
	require.NoError(t, CheckPlanarFill(points, d, triangles))
	validateFillBySampling(t, points, d, triangles)
}

func validateFillBySampling(t *testing.T, points []Point, d Domain, triangles TriangleList) {
	t.Helper()
	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for _, id := range d.Boundary {
		p := points[id]
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	// Pad the bounding box by 10%
	xPadding := (maxX - minX) * 0.1
	yPadding := (maxY - minY) * 0.1
	minX -= xPadding
	minY -= yPadding
	maxX += xPadding
	maxY += yPadding

	// Compute the step size. The grid is shifted by different amounts in x and
	// y so that it doesn't run along diagonals.
	step := math.Max(maxX-minX, maxY-minY) / 50
	xOffset, yOffset := step*0.37, step*0.61
	tolerance := step * 1e-6

	for y := minY + yOffset; y <= maxY; y += step {
		for x := minX + xOffset; x <= maxX; x += step {
			p := Point{X: x, Y: y}
			// Containment is undefined on an edge
			if onAnyEdge(points, triangles, p, tolerance) {
				continue
			}

			inRegion := ContainsPointByEvenOdd(points, d.Boundary, p)
			for _, island := range d.Islands {
				if ContainsPointByEvenOdd(points, island, p) {
					inRegion = false
				}
			}

			covering := 0
			for _, tri := range triangles {
				corners := tri.Vertices()
				if ContainsPointByEvenOdd(points, corners[:], p) {
					covering++
				}
			}

			if inRegion {
				assert.Equal(t, 1, covering, "point %v should be covered by exactly one triangle", p)
			} else {
				assert.Zero(t, covering, "point %v is outside the region but covered", p)
			}
		}
	}
}

func onAnyEdge(points []Point, triangles TriangleList, p Point, tolerance float64) bool {
	for _, tri := range triangles {
		corners := tri.Vertices()
		for i, id := range corners {
			a, b := points[id], points[corners[(i+1)%3]]
			if distanceToSegmentXY(a, b, p) <= tolerance {
				return true
			}
		}
	}
	return false
}

func distanceToSegmentXY(a, b, p Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	lengthSquared := dx*dx + dy*dy
	u := 0.0
	if lengthSquared > 0 {
		u = math.Max(0, math.Min(1, ((p.X-a.X)*dx+(p.Y-a.Y)*dy)/lengthSquared))
	}
	return math.Hypot(p.X-(a.X+u*dx), p.Y-(a.Y+u*dy))
}
