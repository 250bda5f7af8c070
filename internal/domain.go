package internal

import (
	"strconv"
	"strings"
)

// A domain is one sub-problem of the search: a boundary polyline whose first
// and last vertices form the access edge, plus the islands that have not been
// merged into it yet.
//
// Domains are values. The splitter always builds new ones and copies the
// index slices it hands out, so sibling branches of the recursion never share
// backing arrays.
type Domain struct {
	Boundary []int
	Islands  []Island
}

func NewDomain(boundary []int, islands ...Island) Domain {
	if len(boundary) < 2 {
		fatalf("domain boundary needs at least 2 vertices, got %v", boundary)
	}
	d := Domain{Boundary: append([]int(nil), boundary...)}
	for _, island := range islands {
		d.AddHole(island)
	}
	return d
}

// Empty domains are a single edge. They contribute nothing to a triangulation.
func (d Domain) IsEmpty() bool {
	return len(d.Boundary) == 2
}

func (d Domain) HasIslands() bool {
	return len(d.Islands) > 0
}

func (d Domain) AccessEdge() AccessEdge {
	if len(d.Boundary) < 2 {
		fatalf("domain boundary needs at least 2 vertices, got %v", d.Boundary)
	}
	return AccessEdge{Source: d.Boundary[0], Target: d.Boundary[len(d.Boundary)-1]}
}

func (d *Domain) ClearIslands() {
	d.Islands = nil
}

func (d *Domain) AddHole(ids []int) {
	d.Islands = append(d.Islands, append(Island(nil), ids...))
}

// Assign the islands of another domain, by index, to this one. This is only
// done on a freshly split domain.
func (d *Domain) AddIslands(from Domain, ids []int) {
	if d.HasIslands() {
		fatalf("domain %v already has islands", d.Boundary)
	}
	for _, id := range ids {
		if id < 0 || id >= len(from.Islands) {
			fatalf("island index %d out of range for %d islands", id, len(from.Islands))
		}
		d.AddHole(from.Islands[id])
	}
}

// Number of vertex slots on the boundary and islands together, used to size
// the search in traces.
func (d Domain) Size() int {
	size := len(d.Boundary)
	for _, island := range d.Islands {
		size += len(island)
	}
	return size
}

// Canonical key of the domain, used for memoization. Island order is kept
// because it drives enumeration order and therefore tie-breaking.
func (d Domain) Key() string {
	var b strings.Builder
	writeIds(&b, d.Boundary)
	for _, island := range d.Islands {
		b.WriteByte('|')
		writeIds(&b, island)
	}
	return b.String()
}

func (d Domain) String() string {
	return "[" + d.Key() + "]"
}

func writeIds(b *strings.Builder, ids []int) {
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(id))
	}
}
