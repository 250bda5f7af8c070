package internal

import (
	"fmt"
	"math"
)

// The quality of a (partial) triangulation. Angle is the worst angle measure
// over all of its triangles, Area the sum of their areas. Weights are ranked
// lexicographically, so area only breaks ties between equal worst angles.
type Weight struct {
	Angle, Area float64
}

var (
	InvalidWeight = Weight{Angle: math.Inf(1), Area: math.Inf(1)}
	ZeroWeight    = Weight{}
)

// Join the weights of two independent sub-triangulations.
func (w Weight) Combine(other Weight) Weight {
	return Weight{
		Angle: math.Max(w.Angle, other.Angle),
		Area:  w.Area + other.Area,
	}
}

func (w Weight) Less(other Weight) bool {
	if w.Angle != other.Angle {
		return w.Angle < other.Angle
	}
	return w.Area < other.Area
}

func (w Weight) IsValid() bool {
	return !math.IsInf(w.Angle, 1) && !math.IsInf(w.Area, 1)
}

func (w Weight) String() string {
	if !w.IsValid() {
		return "(invalid)"
	}
	return fmt.Sprintf("(%.4g°, %.4g)", w.Angle, w.Area)
}

// A Measure is what a weight calculator reports for a single triangle. A
// degenerate triangle (zero area, coincident vertices) is reported as such
// rather than through a magic number.
type Measure struct {
	Angle, Area float64
	Degenerate  bool
}

func Degenerate() Measure {
	return Measure{Degenerate: true}
}

// Adapt a calculator that reports -1 for a component it could not compute.
// Each component is converted on its own.
func MeasureFromSentinel(angle, area float64) Measure {
	if angle == -1 {
		angle = math.Inf(1)
	}
	if area == -1 {
		area = math.Inf(1)
	}
	return Measure{Angle: angle, Area: area}
}

func (m Measure) Weight() Weight {
	if m.Degenerate || math.IsNaN(m.Angle) || math.IsNaN(m.Area) {
		return InvalidWeight
	}
	return Weight{Angle: m.Angle, Area: m.Area}
}
