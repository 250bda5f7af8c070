package islandfill

import (
	"fmt"
	"os"

	"github.com/osuushi/islandfill/internal"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// A hole to fill. Boundary is the hole's polyline; its first and last vertices
// are joined by the access edge, which the fill treats as an edge of the hole
// like any other. Each island is a closed loop that does not repeat its first
// vertex.
type Problem struct {
	Points   []Point
	Boundary []int
	Islands  [][]int
}

func (p *Problem) Domain() internal.Domain {
	d := internal.NewDomain(p.Boundary)
	for _, island := range p.Islands {
		d.AddHole(island)
	}
	return d
}

func invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidProblem, format, args...)
}

// Validate checks that the problem is well formed: indices are in range, the
// boundary and every island have at least three distinct vertices, and no
// vertex is shared between loops. For flat problems (every point has Z == 0)
// it also checks that every island vertex is inside the boundary.
func (p *Problem) Validate() error {
	if len(p.Boundary) < 3 {
		return invalidf("boundary needs at least 3 vertices, got %d", len(p.Boundary))
	}

	owner := make(map[int]string)
	claim := func(ids []int, name string) error {
		for _, id := range ids {
			if id < 0 || id >= len(p.Points) {
				return invalidf("%s vertex %d out of range for %d points", name, id, len(p.Points))
			}
			if other, ok := owner[id]; ok {
				if other == name {
					return invalidf("vertex %d repeats on %s", id, name)
				}
				return invalidf("vertex %d is on both %s and %s", id, other, name)
			}
			owner[id] = name
		}
		return nil
	}

	if err := claim(p.Boundary, "the boundary"); err != nil {
		return err
	}
	for h, island := range p.Islands {
		if len(island) < 3 {
			return invalidf("island %d needs at least 3 vertices, got %d", h, len(island))
		}
		if err := claim(island, islandName(h)); err != nil {
			return err
		}
	}
	if len(p.Islands) > internal.MaxPartitionIslands {
		return invalidf("%d islands is more than the supported %d", len(p.Islands), internal.MaxPartitionIslands)
	}

	if !p.isFlat() {
		return nil
	}
	for h, island := range p.Islands {
		for _, id := range island {
			if !internal.ContainsPointByEvenOdd(p.Points, p.Boundary, p.Points[id]) {
				return invalidf("vertex %d of island %d is outside the boundary", id, h)
			}
		}
	}
	return nil
}

func (p *Problem) indicesInRange(ids []int) bool {
	for _, id := range ids {
		if id < 0 || id >= len(p.Points) {
			return false
		}
	}
	return true
}

func islandName(h int) string {
	return fmt.Sprintf("island %d", h)
}

func (p *Problem) isFlat() bool {
	for _, point := range p.Points {
		if point.Z != 0 {
			return false
		}
	}
	return true
}

// On-disk form of a problem. Points are [x, y] or [x, y, z].
type problemFile struct {
	Points   [][]float64 `yaml:"points"`
	Boundary []int       `yaml:"boundary"`
	Islands  [][]int     `yaml:"islands"`
}

func ParseProblem(data []byte) (*Problem, error) {
	var file problemFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parsing problem YAML")
	}
	problem := &Problem{Boundary: file.Boundary, Islands: file.Islands}
	for i, coords := range file.Points {
		switch len(coords) {
		case 2:
			problem.Points = append(problem.Points, Point{X: coords[0], Y: coords[1]})
		case 3:
			problem.Points = append(problem.Points, Point{X: coords[0], Y: coords[1], Z: coords[2]})
		default:
			return nil, invalidf("point %d has %d coordinates", i, len(coords))
		}
	}
	return problem, nil
}

// LoadProblem reads a problem from a YAML file.
func LoadProblem(path string) (*Problem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading problem file")
	}
	return ParseProblem(data)
}

// The fill in the same on-disk format, ready for yaml.Marshal.
type FillFile struct {
	Angle     float64  `yaml:"angle"`
	Area      float64  `yaml:"area"`
	Triangles [][3]int `yaml:"triangles,flow"`
}

func (f *Fill) File() FillFile {
	file := FillFile{Angle: f.Weight.Angle, Area: f.Weight.Area}
	for _, tri := range f.Triangles {
		file.Triangles = append(file.Triangles, tri.Vertices())
	}
	return file
}
