package internal

// The two ways a domain is broken down.
//
// Case 1 bridges an island into the boundary: the triangle (i, v, k) on the
// access edge (i, k) touches island vertex v, and what's left of the domain is
// the boundary walked from i to k, across to v, once around the island and
// back to v. Because v is visited twice, the merged boundary holds its index
// twice, and the new access edge is (i, v).
//
// Case 2 splits the boundary at a vertex p strictly between the access edge
// endpoints: the triangle (i, p, k) leaves a left domain from i to p and a
// right domain from p to k. The caller decides which islands go where.

type Orientation int

const (
	Forward Orientation = iota
	Reversed
)

var Orientations = [...]Orientation{Forward, Reversed}

func (o Orientation) String() string {
	if o == Reversed {
		return "reversed"
	}
	return "forward"
}

// Split the boundary at the vertex in position pos. Positions rather than
// indices are used because a bridge vertex can appear twice on a merged
// boundary. Neither side inherits any islands.
func SplitBoundaryAt(d Domain, pos int) (left, right Domain) {
	n := len(d.Boundary)
	if pos <= 0 || pos >= n-1 {
		fatalf("pivot position %d is not strictly inside boundary %v", pos, d.Boundary)
	}
	left = Domain{Boundary: append([]int(nil), d.Boundary[:pos+1]...)}
	right = Domain{Boundary: append([]int(nil), d.Boundary[pos:]...)}
	return left, right
}

// Merge island h into the boundary through its vertex v, walking the island in
// the given orientation. Every other island is carried over unchanged.
func MergeIslandAt(d Domain, h int, v int, orientation Orientation) Domain {
	if h < 0 || h >= len(d.Islands) {
		fatalf("island index %d out of range for %d islands", h, len(d.Islands))
	}
	if d.AccessEdge().IsDegenerate() {
		fatalf("cannot merge an island into domain %v with a degenerate access edge", d)
	}

	island := []int(d.Islands[h])
	if orientation == Reversed {
		island = reversed(island)
	}
	loop := rotateClosed(island, v)

	boundary := make([]int, 0, len(d.Boundary)+len(loop))
	boundary = append(boundary, d.Boundary...)
	boundary = append(boundary, loop...)
	merged := Domain{Boundary: boundary}

	rest := make([]int, 0, len(d.Islands)-1)
	for id := range d.Islands {
		if id != h {
			rest = append(rest, id)
		}
	}
	merged.AddIslands(d, rest)
	return merged
}
