package internal

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Points are never referenced directly by the search. Everything below works on
// indices into a shared, read-only point sequence, so a vertex may show up more
// than once on a boundary (a bridge vertex is duplicated when an island is
// merged in) without any ambiguity about which position is meant.
type Point = r3.Vector

// An island is a closed loop of vertex indices. The first vertex is not
// repeated at the end.
type Island []int

type Triangle struct {
	A, B, C int
}

type TriangleList []Triangle

// The access edge bounds the current sub-problem. Every triangle produced at a
// level of the recursion sits on it.
type AccessEdge struct {
	Source, Target int
}

func (e AccessEdge) IsDegenerate() bool {
	return e.Source == e.Target
}

func (t Triangle) String() string {
	return fmt.Sprintf("(%d %d %d)", t.A, t.B, t.C)
}

// Sorted vertex triple, so that the same triangle produced with a different
// winding compares equal.
func (t Triangle) Key() [3]int {
	a, b, c := t.A, t.B, t.C
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int{a, b, c}
}

func (t Triangle) Vertices() [3]int {
	return [3]int{t.A, t.B, t.C}
}

// Remove repeated triangles, keeping the first occurrence. Returns the number
// of triangles dropped. A search that reconstructs the same triangle through two
// paths would show up here.
func (list TriangleList) Dedupe() (TriangleList, int) {
	seen := make(map[[3]int]struct{}, len(list))
	result := make(TriangleList, 0, len(list))
	for _, tri := range list {
		key := tri.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, tri)
	}
	return result, len(list) - len(result)
}
