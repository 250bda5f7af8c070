// Hole filling by optimal triangulation, for holes that contain islands.
//
// A hole is a closed boundary polyline given by indices into a point list. The
// hole may contain islands: closed polylines, also given by index, that the
// fill has to connect to rather than cover. The fill minimizes, in order, the
// worst angle measure over its triangles and then their total area. Islands are
// woven in through bridging triangles, and every way of distributing them
// across the boundary is considered, so the search is exponential in the
// number of islands. It is meant for holes with a handful of islands.
package islandfill

import (
	"context"
	"io"
	"time"

	"github.com/osuushi/islandfill/internal"
	"github.com/pkg/errors"
)

type Point = internal.Point
type Triangle = internal.Triangle
type Weight = internal.Weight
type Measure = internal.Measure
type Mesh = internal.Mesh
type Stats = internal.Stats
type WeightCalculator = internal.WeightCalculator
type WeightFunc = internal.WeightFunc
type AngleAreaCalculator = internal.AngleAreaCalculator
type DihedralAreaCalculator = internal.DihedralAreaCalculator

var (
	// The search finished without finding a legal triangulation. Some island
	// placements simply can't be connected under the search's rules.
	ErrNoSolution = errors.New("no legal triangulation of the hole")
	// The search was cancelled, ran out of time, or went deeper than allowed.
	ErrAborted = internal.ErrAborted
	// The problem is malformed. Returned errors wrap this one.
	ErrInvalidProblem = errors.New("invalid problem")
)

// Measure names accepted in Options and in configuration files.
const (
	MeasureAngle    = "angle"
	MeasureDihedral = "dihedral"
)

type Options struct {
	// Scores individual triangles. When nil, one is picked by Measure.
	Calculator WeightCalculator
	// "dihedral" (the default) minimizes the tilt of each triangle against the
	// boundary's normal. "angle" minimizes the largest interior angle, and
	// rejects triangles wound against the normal.
	Measure string
	// Reference normal for both measures. When zero, the Newell normal of the
	// boundary is used.
	Normal Point

	Memoize  bool
	Parallel bool
	MaxDepth int
	Timeout  time.Duration

	Trace       io.Writer
	TraceColors bool

	// Skip Problem.Validate, and the check that the fill of a flat problem
	// tiles the hole. Contract violations inside the search still surface as
	// errors.
	SkipValidation bool
}

func DefaultOptions() Options {
	return Options{Measure: MeasureDihedral, Memoize: true}
}

func (o Options) calculator(problem *Problem) (WeightCalculator, error) {
	if o.Calculator != nil {
		return o.Calculator, nil
	}
	var normal Point
	switch {
	case o.Normal != (Point{}):
		normal = o.Normal.Normalize()
	case problem.indicesInRange(problem.Boundary):
		normal = internal.NewellNormal(problem.Points, problem.Boundary)
	default:
		// Left zero. The search reports the bad index before anything is
		// weighed.
	}
	switch o.Measure {
	case "", MeasureDihedral:
		return DihedralAreaCalculator{Normal: normal}, nil
	case MeasureAngle:
		return AngleAreaCalculator{Normal: normal}, nil
	}
	return nil, errors.Errorf("unknown measure %q", o.Measure)
}

// The outcome of a successful fill.
type Fill struct {
	Weight    Weight
	Triangles []Triangle
	Mesh      *Mesh
	Stats     Stats
}

// Triangulate fills the hole described by problem. It returns an error wrapping
// ErrNoSolution if there is no legal triangulation, or if the best one found
// for a flat problem doesn't tile the hole. It returns an error wrapping
// ErrAborted if the context is cancelled, the timeout passes, or the depth
// limit is exceeded.
func Triangulate(ctx context.Context, problem *Problem, options Options) (result *Fill, err error) {
	defer func() {
		recoveredErr := internal.HandleFillPanicRecover(recover())
		if recoveredErr != nil {
			result = nil
			err = recoveredErr
		}
	}()

	if problem == nil {
		return nil, errors.Wrap(ErrInvalidProblem, "nil problem")
	}
	if !options.SkipValidation {
		if err := problem.Validate(); err != nil {
			return nil, err
		}
	}
	calc, err := options.calculator(problem)
	if err != nil {
		return nil, err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	triangulator := internal.NewTriangulator(problem.Points, calc, internal.Options{
		Memoize:     options.Memoize,
		Parallel:    options.Parallel,
		MaxDepth:    options.MaxDepth,
		Trace:       options.Trace,
		TraceColors: options.TraceColors,
	})
	domain := problem.Domain()
	filled := triangulator.Fill(ctx, domain)
	if !filled.Weight.IsValid() {
		return nil, ErrNoSolution
	}
	if !options.SkipValidation && problem.isFlat() {
		if err := internal.CheckPlanarFill(problem.Points, domain, filled.Triangles); err != nil {
			return nil, errors.Wrapf(ErrNoSolution, "best fill is not planar: %v", err)
		}
	}

	mesh, err := internal.BuildMesh(problem.Points, filled.Triangles)
	if err != nil {
		return nil, errors.Wrap(err, "building mesh")
	}
	return &Fill{
		Weight:    filled.Weight,
		Triangles: []Triangle(mesh.Triangles()),
		Mesh:      mesh,
		Stats:     filled.Stats,
	}, nil
}

// Draw the problem and, if given, a fill over it into a PNG. For debugging.
func DrawPNG(path string, problem *Problem, fill *Fill, scale float64) error {
	var triangles internal.TriangleList
	if fill != nil {
		triangles = fill.Triangles
	}
	return internal.DrawPNG(path, problem.Points, problem.Domain(), triangles, scale)
}

// Print a PNG inline in the terminal (iTerm only).
func CatPNG(path string, out io.Writer) error {
	return internal.CatPNG(path, out)
}
