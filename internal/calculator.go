package internal

import (
	"math"

	"github.com/golang/geo/r3"
)

// Relative tolerance below which a triangle counts as having no area. It is
// scaled by the square of the longest edge, so it doesn't depend on units.
const Epsilon = 1e-12

// The geometric kernel the search scores triangles with. Implementations must
// be safe for concurrent use when the search runs in parallel.
type WeightCalculator interface {
	Weigh(points []Point, i, m, k int) Measure
}

// Function adapter for WeightCalculator.
type WeightFunc func(points []Point, i, m, k int) Measure

func (f WeightFunc) Weigh(points []Point, i, m, k int) Measure {
	return f(points, i, m, k)
}

// Scores a triangle by its largest interior angle, in degrees. Minimizing the
// worst angle keeps slivers out of the fill. When Normal is set, a triangle
// wound against it is degenerate, which keeps the fill from folding over
// itself. With a zero Normal winding is ignored.
type AngleAreaCalculator struct {
	Normal r3.Vector
}

// Build an angle calculator that rejects triangles wound against the Newell
// normal of the given closed loop of point indices.
func NewAngleAreaCalculator(points []Point, loop []int) AngleAreaCalculator {
	return AngleAreaCalculator{Normal: NewellNormal(points, loop)}
}

func (calc AngleAreaCalculator) Weigh(points []Point, i, m, k int) Measure {
	a, b, c := points[i], points[m], points[k]
	area, ok := triangleArea(a, b, c)
	if !ok {
		return Degenerate()
	}
	if calc.Normal.Norm() != 0 && b.Sub(a).Cross(c.Sub(a)).Dot(calc.Normal) <= 0 {
		return Degenerate()
	}
	largest := math.Max(
		b.Sub(a).Angle(c.Sub(a)).Degrees(),
		math.Max(
			a.Sub(b).Angle(c.Sub(b)).Degrees(),
			a.Sub(c).Angle(b.Sub(c)).Degrees(),
		),
	)
	return Measure{Angle: largest, Area: area}
}

// Scores a triangle by how far its normal leans away from a reference normal,
// in degrees, in the manner of Liepa's dihedral weight. A triangle wound
// against the reference scores close to 180, so folded fills lose to flat
// ones.
type DihedralAreaCalculator struct {
	Normal r3.Vector
}

// Build a dihedral calculator whose reference is the Newell normal of the given
// closed loop of point indices.
func NewDihedralAreaCalculator(points []Point, loop []int) DihedralAreaCalculator {
	return DihedralAreaCalculator{Normal: NewellNormal(points, loop)}
}

func (calc DihedralAreaCalculator) Weigh(points []Point, i, m, k int) Measure {
	a, b, c := points[i], points[m], points[k]
	area, ok := triangleArea(a, b, c)
	if !ok {
		return Degenerate()
	}
	if calc.Normal.Norm() == 0 {
		return Measure{Angle: 0, Area: area}
	}
	normal := b.Sub(a).Cross(c.Sub(a))
	return Measure{Angle: normal.Angle(calc.Normal).Degrees(), Area: area}
}

// Newell's method for the normal of a possibly non-planar polygon. The result
// is normalized, or zero for a degenerate loop.
func NewellNormal(points []Point, loop []int) r3.Vector {
	var normal r3.Vector
	for i, id := range loop {
		current := points[id]
		next := points[loop[CircularIndex(i+1, len(loop))]]
		normal.X += (current.Y - next.Y) * (current.Z + next.Z)
		normal.Y += (current.Z - next.Z) * (current.X + next.X)
		normal.Z += (current.X - next.X) * (current.Y + next.Y)
	}
	if normal.Norm() == 0 {
		return normal
	}
	return normal.Normalize()
}

func triangleArea(a, b, c Point) (float64, bool) {
	ab, ac, bc := b.Sub(a), c.Sub(a), c.Sub(b)
	longest := math.Max(ab.Norm2(), math.Max(ac.Norm2(), bc.Norm2()))
	area := ab.Cross(ac).Norm() / 2
	if longest == 0 || area <= Epsilon*longest {
		return 0, false
	}
	return area, true
}
