package internal

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitSquare() []Point {
	return []Point{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 1, Y: 1},
		{X: 0, Y: 1},
	}
}

// Unit square with a triangular island well inside it
func squareWithIsland() ([]Point, Domain) {
	points := append(unitSquare(),
		Point{X: 0.3, Y: 0.3},
		Point{X: 0.7, Y: 0.3},
		Point{X: 0.5, Y: 0.7},
	)
	return points, NewDomain([]int{0, 1, 2, 3}, Island{4, 5, 6})
}

// Points on a circle at sorted random angles, which always make a convex
// polygon.
func randomConvex(rng *rand.Rand, n int) []Point {
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = rng.Float64() * 2 * math.Pi
	}
	sort.Float64s(angles)
	points := make([]Point, n)
	for i, angle := range angles {
		points[i] = Point{X: math.Cos(angle), Y: math.Sin(angle)}
	}
	return points
}

func sequence(n int) []int {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

func triangleKeys(list TriangleList) [][3]int {
	keys := make([][3]int, len(list))
	for i, tri := range list {
		keys[i] = tri.Key()
	}
	sort.Slice(keys, func(i, j int) bool {
		for c := 0; c < 3; c++ {
			if keys[i][c] != keys[j][c] {
				return keys[i][c] < keys[j][c]
			}
		}
		return false
	})
	return keys
}

// Expected triangle count for a polygon with n vertices and holes of the given
// sizes, by Euler's formula.
func expectedTriangleCount(n int, islands ...Island) int {
	count := n - 2
	for _, island := range islands {
		count += len(island) + 2
	}
	return count
}

func assertNoIslandTriangles(t *testing.T, d Domain, triangles TriangleList) {
	t.Helper()
	for _, tri := range triangles {
		for _, island := range d.Islands {
			onIsland := indexOf(island, tri.A) >= 0 && indexOf(island, tri.B) >= 0 && indexOf(island, tri.C) >= 0
			assert.False(t, onIsland, "triangle %s lies entirely on island %v", tri, island)
		}
	}
}

func assertUsesAllVertices(t *testing.T, d Domain, triangles TriangleList) {
	t.Helper()
	used := map[int]bool{}
	for _, tri := range triangles {
		used[tri.A], used[tri.B], used[tri.C] = true, true, true
	}
	for _, id := range d.Boundary {
		assert.True(t, used[id], "boundary vertex %d is unused", id)
	}
	for _, island := range d.Islands {
		for _, id := range island {
			assert.True(t, used[id], "island vertex %d is unused", id)
		}
	}
}

func TestSolve_BaseCases(t *testing.T) {
	points := unitSquare()
	tr := NewTriangulator(points, AngleAreaCalculator{}, Options{})

	t.Run("empty domain", func(t *testing.T) {
		result := tr.Solve(context.Background(), NewDomain([]int{0, 3}), AccessEdge{0, 3})
		assert.Equal(t, ZeroWeight, result.Weight)
		assert.Empty(t, result.Triangles)
	})

	t.Run("single triangle", func(t *testing.T) {
		result := tr.Solve(context.Background(), NewDomain([]int{0, 1, 3}), AccessEdge{0, 3})
		assert.Equal(t, TriangleList{{0, 1, 3}}, result.Triangles)
		assert.Equal(t, AngleAreaCalculator{}.Weigh(points, 0, 1, 3).Weight(), result.Weight)
	})

	t.Run("degenerate access edge", func(t *testing.T) {
		result := tr.Solve(context.Background(), NewDomain([]int{0, 1, 2, 0}), AccessEdge{0, 0})
		assert.Equal(t, InvalidWeight, result.Weight)
		assert.Empty(t, result.Triangles)
	})

	t.Run("empty domain with islands", func(t *testing.T) {
		points, _ := squareWithIsland()
		tr := NewTriangulator(points, AngleAreaCalculator{}, Options{})
		result := tr.Solve(context.Background(), NewDomain([]int{0, 3}, Island{4, 5, 6}), AccessEdge{0, 3})
		assert.False(t, result.Weight.IsValid())
	})

	t.Run("access edge must bound the domain", func(t *testing.T) {
		assert.Panics(t, func() {
			tr.Solve(context.Background(), NewDomain([]int{0, 1, 2, 3}), AccessEdge{0, 2})
		})
	})

	t.Run("vertex out of range", func(t *testing.T) {
		assert.Panics(t, func() {
			tr.Solve(context.Background(), NewDomain([]int{0, 1, 9}), AccessEdge{0, 9})
		})
	})
}

func TestSolve_Square(t *testing.T) {
	points := unitSquare()
	calc := AngleAreaCalculator{}
	tr := NewTriangulator(points, calc, Options{})
	d := NewDomain([]int{0, 1, 2, 3})

	result := tr.Fill(context.Background(), d)
	require.True(t, result.Weight.IsValid())
	require.Len(t, result.Triangles, 2)

	weightOf := func(list TriangleList) Weight {
		w := ZeroWeight
		for _, tri := range list {
			w = w.Combine(calc.Weigh(points, tri.A, tri.B, tri.C).Weight())
		}
		return w
	}
	diagonal13 := TriangleList{{0, 1, 3}, {1, 2, 3}}
	diagonal02 := TriangleList{{0, 1, 2}, {0, 2, 3}}

	keys := triangleKeys(result.Triangles)
	switch {
	case assert.ObjectsAreEqual(triangleKeys(diagonal13), keys):
		assert.False(t, weightOf(diagonal02).Less(result.Weight))
	case assert.ObjectsAreEqual(triangleKeys(diagonal02), keys):
		assert.False(t, weightOf(diagonal13).Less(result.Weight))
	default:
		t.Fatalf("unexpected triangulation %v", result.Triangles)
	}
	assert.Equal(t, weightOf(result.Triangles), result.Weight)
}

func TestSolve_PrefersBetterDiagonal(t *testing.T) {
	// A kite: the short diagonal 1-3 makes two fat triangles, the long one
	// 0-2 makes two with a very wide angle at 1 and 3.
	points := []Point{
		{X: 0, Y: 0},
		{X: 2, Y: -0.5},
		{X: 4, Y: 0},
		{X: 2, Y: 0.5},
	}
	tr := NewTriangulator(points, AngleAreaCalculator{}, Options{})
	result := tr.Fill(context.Background(), NewDomain([]int{0, 1, 2, 3}))
	assert.Equal(t, [][3]int{{0, 1, 3}, {1, 2, 3}}, triangleKeys(result.Triangles))
}

func TestSolve_ConvexTriangleCount(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 4; n <= 6; n++ {
		for trial := 0; trial < 5; trial++ {
			n := n
			t.Run(fmt.Sprintf("%d-gon #%d", n, trial), func(t *testing.T) {
				points := randomConvex(rng, n)
				d := NewDomain(sequence(n))
				result := NewTriangulator(points, AngleAreaCalculator{}, Options{}).Fill(context.Background(), d)
				require.True(t, result.Weight.IsValid())
				assert.Len(t, result.Triangles, n-2)
				assert.Zero(t, result.Stats.Duplicates)
				assertUsesAllVertices(t, d, result.Triangles)
			})
		}
	}
}

func TestSolve_SquareWithIsland(t *testing.T) {
	points, d := squareWithIsland()
	// The default calculator
	tr := NewTriangulator(points, nil, Options{})

	result := tr.Fill(context.Background(), d)
	require.True(t, result.Weight.IsValid())
	assert.Len(t, result.Triangles, expectedTriangleCount(4, d.Islands...))
	assert.Len(t, result.Triangles, 7)
	assertNoIslandTriangles(t, d, result.Triangles)
	assertUsesAllVertices(t, d, result.Triangles)

	for _, tri := range result.Triangles {
		assert.NotEqual(t, [3]int{4, 5, 6}, tri.Key())
	}

	AssertValidFill(t, points, d, result.Triangles)

	mesh, err := BuildMesh(points, result.Triangles)
	require.NoError(t, err)
	assert.True(t, mesh.IsManifold())
}

func TestSolve_OrientedAngleFillDoesntFold(t *testing.T) {
	points, d := squareWithIsland()
	tr := NewTriangulator(points, NewAngleAreaCalculator(points, d.Boundary), Options{Memoize: true})

	result := tr.Fill(context.Background(), d)
	require.True(t, result.Weight.IsValid())
	for _, tri := range result.Triangles {
		corners := tri.Vertices()
		assert.Greater(t, SignedArea(points, corners[:]), 0.0, "triangle %s winds against the boundary", tri)
	}
}

func TestRunParallel(t *testing.T) {
	t.Run("keeps task order", func(t *testing.T) {
		var tasks []task
		for i := 0; i < 8; i++ {
			i := i
			tasks = append(tasks, func() candidate {
				return candidate{weight: Weight{Angle: float64(i)}}
			})
		}
		candidates := runParallel(tasks)
		require.Len(t, candidates, 8)
		for i, c := range candidates {
			assert.Equal(t, float64(i), c.weight.Angle)
		}
	})

	t.Run("re-raises panics", func(t *testing.T) {
		tasks := []task{
			func() candidate { return invalidCandidate },
			func() candidate { fatalf("broken task"); return invalidCandidate },
		}
		err := func() (err error) {
			defer func() {
				err = HandleFillPanicRecover(recover())
			}()
			runParallel(tasks)
			return nil
		}()
		assert.EqualError(t, err, "broken task")
	})
}

func TestSolve_DihedralFillIsFlat(t *testing.T) {
	points, d := squareWithIsland()
	calc := NewDihedralAreaCalculator(points, d.Boundary)
	tr := NewTriangulator(points, calc, Options{Memoize: true})

	result := tr.Fill(context.Background(), d)
	require.True(t, result.Weight.IsValid())
	assert.Equal(t, 0.0, result.Weight.Angle, "every triangle should face the same way as the boundary")

	// With every triangle wound the same way, the areas add up to exactly the
	// area between the boundary and the island.
	islandArea := math.Abs(SignedArea(points, d.Islands[0]))
	assert.InDelta(t, 1-islandArea, result.Weight.Area, 1e-9)
	AssertValidFill(t, points, d, result.Triangles)

	mesh, err := BuildMesh(points, result.Triangles)
	require.NoError(t, err)
	assert.InDelta(t, 1-islandArea, mesh.Area(), 1e-9)
	assert.Len(t, mesh.BoundaryEdges(), 4+3)
}

func TestSolve_Fixtures(t *testing.T) {
	tests := []string{"hexagon", "square_with_triangle", "notched_square", "two_islands"}
	for _, name := range tests {
		name := name
		t.Run(name, func(t *testing.T) {
			points, d := LoadFixture(name)
			calc := NewDihedralAreaCalculator(points, d.Boundary)
			result := NewTriangulator(points, calc, Options{Memoize: true}).Fill(context.Background(), d)
			require.True(t, result.Weight.IsValid())
			assert.Len(t, result.Triangles, expectedTriangleCount(len(d.Boundary), d.Islands...))
			assert.Zero(t, result.Stats.Duplicates)
			assertNoIslandTriangles(t, d, result.Triangles)
			assertUsesAllVertices(t, d, result.Triangles)

			expectedArea := math.Abs(SignedArea(points, d.Boundary))
			for _, island := range d.Islands {
				expectedArea -= math.Abs(SignedArea(points, island))
			}
			assert.InDelta(t, 0, result.Weight.Angle, 1e-9)
			assert.InDelta(t, expectedArea, result.Weight.Area, 1e-9)
			AssertValidFill(t, points, d, result.Triangles)
		})
	}
}

func TestSolve_Idempotent(t *testing.T) {
	points, d := squareWithIsland()
	tr := NewTriangulator(points, AngleAreaCalculator{}, Options{})
	first := tr.Fill(context.Background(), d)
	second := tr.Fill(context.Background(), d)
	assert.Equal(t, first.Weight, second.Weight)
	assert.Equal(t, first.Triangles, second.Triangles)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestSolve_OptionsDontChangeResult(t *testing.T) {
	points, d := squareWithIsland()
	baseline := NewTriangulator(points, AngleAreaCalculator{}, Options{}).Fill(context.Background(), d)

	for name, options := range map[string]Options{
		"memoized": {Memoize: true},
		"parallel": {Parallel: true},
		"both":     {Memoize: true, Parallel: true},
	} {
		options := options
		t.Run(name, func(t *testing.T) {
			result := NewTriangulator(points, AngleAreaCalculator{}, options).Fill(context.Background(), d)
			assert.Equal(t, baseline.Weight, result.Weight)
			assert.Equal(t, baseline.Triangles, result.Triangles)
		})
	}

	t.Run("memo is used", func(t *testing.T) {
		result := NewTriangulator(points, AngleAreaCalculator{}, Options{Memoize: true}).Fill(context.Background(), d)
		assert.Greater(t, result.Stats.MemoHits, int64(0))
		assert.Less(t, result.Stats.Calls, baseline.Stats.Calls)
	})
}

func TestSolve_NoSolution(t *testing.T) {
	// Every triangle over collinear points is degenerate
	points := []Point{{X: 0}, {X: 1}, {X: 2}, {X: 3}}
	result := NewTriangulator(points, AngleAreaCalculator{}, Options{}).Fill(context.Background(), NewDomain([]int{0, 1, 2, 3}))
	assert.False(t, result.Weight.IsValid())
	assert.Empty(t, result.Triangles)
}

func TestSolve_Limits(t *testing.T) {
	points, d := squareWithIsland()

	recoverErr := func(fn func()) (err error) {
		defer func() {
			err = HandleFillPanicRecover(recover())
		}()
		fn()
		return nil
	}

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		tr := NewTriangulator(points, AngleAreaCalculator{}, Options{})
		err := recoverErr(func() { tr.Fill(ctx, d) })
		assert.True(t, errors.Is(err, ErrAborted), "got %v", err)
	})

	t.Run("depth guard", func(t *testing.T) {
		tr := NewTriangulator(points, AngleAreaCalculator{}, Options{MaxDepth: 1})
		err := recoverErr(func() { tr.Fill(context.Background(), d) })
		assert.True(t, errors.Is(err, ErrAborted), "got %v", err)
	})

	t.Run("abort in a parallel branch", func(t *testing.T) {
		tr := NewTriangulator(points, AngleAreaCalculator{}, Options{MaxDepth: 1, Parallel: true})
		err := recoverErr(func() { tr.Fill(context.Background(), d) })
		assert.True(t, errors.Is(err, ErrAborted), "got %v", err)
	})

	t.Run("generous depth", func(t *testing.T) {
		tr := NewTriangulator(points, AngleAreaCalculator{}, Options{MaxDepth: 32})
		err := recoverErr(func() { tr.Fill(context.Background(), d) })
		assert.NoError(t, err)
	})
}

func TestSolve_AllIslandTrianglesAreRejected(t *testing.T) {
	points, _ := squareWithIsland()
	tr := NewTriangulator(points, AngleAreaCalculator{}, Options{})
	s := &search{Triangulator: tr, ctx: context.Background(), calc: tr.calc, islandOf: map[int]int{4: 0, 5: 0, 6: 0}}

	assert.False(t, s.triangleWeight(Triangle{4, 5, 6}).IsValid())
	assert.False(t, s.triangleWeight(Triangle{6, 4, 5}).IsValid())
	assert.True(t, s.triangleWeight(Triangle{0, 4, 5}).IsValid())

	// Vertices of two different islands may share a triangle
	s.islandOf = map[int]int{4: 0, 5: 0, 6: 1}
	assert.True(t, s.triangleWeight(Triangle{4, 5, 6}).IsValid())
}

func TestSplitOptions(t *testing.T) {
	t.Run("without islands", func(t *testing.T) {
		options := splitOptions(NewDomain([]int{0, 1, 2, 3, 4}))
		require.Len(t, options, 3)
		for i, option := range options {
			assert.Equal(t, i+1, option.pivot)
			assert.Equal(t, Triangle{0, i + 1, 4}, option.triangle)
			assert.Nil(t, option.partition)
		}
	})

	t.Run("three vertices with islands", func(t *testing.T) {
		assert.Empty(t, splitOptions(NewDomain([]int{0, 1, 2}, Island{3, 4, 5})))
	})

	// Each island lands whole on exactly one side, and never on a side that is
	// a single edge.
	t.Run("two islands", func(t *testing.T) {
		d := NewDomain([]int{0, 1, 2, 3, 4}, Island{5, 6, 7}, Island{8, 9, 10})
		options := splitOptions(d)
		require.NotEmpty(t, options)

		for _, option := range options {
			require.NotNil(t, option.partition)
			assert.True(t, option.partition.Covers(2))

			var all []Island
			all = append(all, option.left.Islands...)
			all = append(all, option.right.Islands...)
			assert.ElementsMatch(t, d.Islands, all)

			for _, side := range []Domain{option.left, option.right} {
				if side.IsEmpty() {
					assert.False(t, side.HasIslands(), "islands on empty side at pivot %d", option.pivot)
				}
			}
		}

		// Pivots 1 and 3 leave an empty side, so only the partition that puts
		// every island on the other side survives. Pivot 2 splits into two real
		// sides and keeps all four.
		counts := map[int]int{}
		for _, option := range options {
			counts[option.pivot]++
			switch option.pivot {
			case 1:
				assert.Empty(t, option.left.Islands)
			case 3:
				assert.Empty(t, option.right.Islands)
			}
		}
		assert.Equal(t, map[int]int{1: 1, 2: 4, 3: 1}, counts)
	})
}

func TestSolve_Trace(t *testing.T) {
	points, d := squareWithIsland()
	var buf bytes.Buffer
	tr := NewTriangulator(points, AngleAreaCalculator{}, Options{Memoize: true, Trace: &buf})
	tr.Fill(context.Background(), d)

	trace := buf.String()
	assert.Contains(t, trace, "solve")
	assert.Contains(t, trace, "merge island 0")
	assert.Contains(t, trace, "1 islands, 7 vertices")
	assert.Contains(t, trace, "split")
	assert.Contains(t, trace, "improve")
	assert.NotContains(t, trace, "\x1b[", "colors are off")
}
