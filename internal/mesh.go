package internal

import (
	"github.com/pkg/errors"
)

// An indexed triangle mesh built from the fill. Only the vertices the fill
// actually uses are kept; Source maps each mesh vertex back to its index in the
// original point sequence.
type Mesh struct {
	Vertices []Point
	Faces    [][3]int
	Source   []int
}

type edge struct {
	from, to int
}

func (e edge) undirected() edge {
	if e.from > e.to {
		return edge{e.to, e.from}
	}
	return e
}

// Build a mesh from a triangle soup over points. Faces are flipped where
// needed so that neighbouring faces agree on orientation, starting from the
// winding of the first face of each connected component.
func BuildMesh(points []Point, triangles TriangleList) (*Mesh, error) {
	m := &Mesh{}
	remap := make(map[int]int)
	for _, tri := range triangles {
		var face [3]int
		for i, id := range tri.Vertices() {
			if id < 0 || id >= len(points) {
				return nil, errors.Errorf("triangle %s references vertex %d of %d", tri, id, len(points))
			}
			mapped, ok := remap[id]
			if !ok {
				mapped = len(m.Vertices)
				remap[id] = mapped
				m.Vertices = append(m.Vertices, points[id])
				m.Source = append(m.Source, id)
			}
			face[i] = mapped
		}
		if face[0] == face[1] || face[1] == face[2] || face[2] == face[0] {
			return nil, errors.Errorf("triangle %s repeats a vertex", tri)
		}
		m.Faces = append(m.Faces, face)
	}
	if err := m.orient(); err != nil {
		return nil, err
	}
	return m, nil
}

func faceEdges(face [3]int) [3]edge {
	return [3]edge{{face[0], face[1]}, {face[1], face[2]}, {face[2], face[0]}}
}

func (m *Mesh) facesByEdge() map[edge][]int {
	byEdge := make(map[edge][]int)
	for f, face := range m.Faces {
		for _, e := range faceEdges(face) {
			key := e.undirected()
			byEdge[key] = append(byEdge[key], f)
		}
	}
	return byEdge
}

func hasDirectedEdge(face [3]int, e edge) bool {
	for _, fe := range faceEdges(face) {
		if fe == e {
			return true
		}
	}
	return false
}

// Breadth first over manifold edges. A neighbour that walks a shared edge in
// the same direction as the current face is flipped.
func (m *Mesh) orient() error {
	byEdge := m.facesByEdge()
	visited := make([]bool, len(m.Faces))
	for start := range m.Faces {
		if visited[start] {
			continue
		}
		visited[start] = true
		queue := []int{start}
		for len(queue) > 0 {
			f := queue[0]
			queue = queue[1:]
			for _, e := range faceEdges(m.Faces[f]) {
				neighbours := byEdge[e.undirected()]
				if len(neighbours) != 2 {
					continue
				}
				for _, n := range neighbours {
					if n == f {
						continue
					}
					agrees := !hasDirectedEdge(m.Faces[n], e)
					if visited[n] {
						if !agrees {
							return errors.Errorf("mesh is not orientable around edge (%d, %d)", m.Source[e.from], m.Source[e.to])
						}
						continue
					}
					if !agrees {
						m.Faces[n][1], m.Faces[n][2] = m.Faces[n][2], m.Faces[n][1]
					}
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
	}
	return nil
}

// Edges used by exactly one face, in that face's direction.
func (m *Mesh) BoundaryEdges() [][2]int {
	byEdge := m.facesByEdge()
	var result [][2]int
	for _, face := range m.Faces {
		for _, e := range faceEdges(face) {
			if len(byEdge[e.undirected()]) == 1 {
				result = append(result, [2]int{e.from, e.to})
			}
		}
	}
	return result
}

// A mesh is manifold when no edge is shared by more than two faces.
func (m *Mesh) IsManifold() bool {
	for _, faces := range m.facesByEdge() {
		if len(faces) > 2 {
			return false
		}
	}
	return true
}

func (m *Mesh) Area() float64 {
	var area float64
	for _, face := range m.Faces {
		a, b, c := m.Vertices[face[0]], m.Vertices[face[1]], m.Vertices[face[2]]
		area += b.Sub(a).Cross(c.Sub(a)).Norm() / 2
	}
	return area
}

// Faces in terms of the original point indices.
func (m *Mesh) Triangles() TriangleList {
	result := make(TriangleList, len(m.Faces))
	for i, face := range m.Faces {
		result[i] = Triangle{m.Source[face[0]], m.Source[face[1]], m.Source[face[2]]}
	}
	return result
}
