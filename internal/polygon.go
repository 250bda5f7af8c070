package internal

// Winding rule point-in-polygon on the XY projection of a closed loop of point
// indices. This is used to sanity check that islands sit inside the boundary
// before running the search. It isn't meant to be robust for points on the
// boundary itself.
func ContainsPointByEvenOdd(points []Point, loop []int, p Point) bool {
	return CrossingCount(points, loop, p)%2 == 1
}

// Crossing count helper for even odd rule. Counts the loop edges crossed by a
// ray from p in the +X direction.
func CrossingCount(points []Point, loop []int, p Point) int {
	crossingCount := 0
	for i, id := range loop {
		vertex := points[id]
		nextVertex := points[loop[CircularIndex(i+1, len(loop))]]
		if (vertex.Y > p.Y) == (nextVertex.Y > p.Y) {
			continue
		}
		// X of the edge where it crosses the horizontal through p
		x := vertex.X + (p.Y-vertex.Y)*(nextVertex.X-vertex.X)/(nextVertex.Y-vertex.Y)
		if x > p.X {
			crossingCount++
		}
	}
	return crossingCount
}

// Signed area of the XY projection of a loop. Positive for counterclockwise.
func SignedArea(points []Point, loop []int) float64 {
	var area float64
	for i, id := range loop {
		a := points[id]
		b := points[loop[CircularIndex(i+1, len(loop))]]
		area += a.X*b.Y - b.X*a.Y
	}
	return area / 2
}
