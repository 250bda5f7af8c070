package internal

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
)

// Options for a Triangulator. The zero value runs an unbounded, sequential,
// unmemoized search with no tracing.
type Options struct {
	// Reuse the result of a domain that has already been solved. Results only
	// depend on the domain, so this never changes the outcome.
	Memoize bool
	// Abort the search when the recursion gets deeper than this. Zero means no
	// limit.
	MaxDepth int
	// Evaluate the top-level candidates concurrently. Candidates are still
	// reduced in enumeration order, so the result is the same as a sequential
	// run.
	Parallel bool
	// Write a trace of the search here. Nil disables tracing.
	Trace io.Writer
	// Colorize the trace.
	TraceColors bool
}

type Stats struct {
	Calls             int64
	WeightEvaluations int64
	MemoHits          int64
	Duplicates        int64
}

type Result struct {
	Weight    Weight
	Triangles TriangleList
	Stats     Stats
}

// A Triangulator searches for the best triangulation of a hole with islands.
// It holds no per-search state and is safe to reuse, and to use from several
// goroutines as long as the calculator is.
type Triangulator struct {
	points  []Point
	calc    WeightCalculator
	options Options
}

// A nil calculator scores each solve with a DihedralAreaCalculator oriented by
// the boundary of the domain being solved.
func NewTriangulator(points []Point, calc WeightCalculator, options Options) *Triangulator {
	return &Triangulator{points: points, calc: calc, options: options}
}

// Fill solves the domain on its own access edge and removes any triangle that
// was produced more than once.
func (t *Triangulator) Fill(ctx context.Context, d Domain) Result {
	result := t.Solve(ctx, d, d.AccessEdge())
	var duplicates int
	result.Triangles, duplicates = result.Triangles.Dedupe()
	result.Stats.Duplicates = int64(duplicates)
	return result
}

// Solve returns the best weight and the triangles achieving it. An invalid
// weight means there is no legal triangulation. The islands of d are the
// original islands for the purpose of rejecting triangles that lie entirely on
// one of them.
func (t *Triangulator) Solve(ctx context.Context, d Domain, e AccessEdge) Result {
	t.checkIndices(d)
	s := &search{
		Triangulator: t,
		calc:         t.calc,
		ctx:          ctx,
		islandOf:     make(map[int]int),
		tracer:       newTracer(t.options.Trace, t.options.TraceColors),
	}
	if s.calc == nil {
		s.calc = NewDihedralAreaCalculator(t.points, d.Boundary)
	}
	if t.options.Memoize {
		s.memo = make(map[string]Result)
	}
	for h, island := range d.Islands {
		for _, v := range island {
			s.islandOf[v] = h
		}
	}
	result := s.solve(d, e, 0)
	result.Stats = s.stats()
	return result
}

func (t *Triangulator) checkIndices(d Domain) {
	check := func(ids []int) {
		for _, id := range ids {
			if id < 0 || id >= len(t.points) {
				fatalf("vertex %d out of range for %d points", id, len(t.points))
			}
		}
	}
	check(d.Boundary)
	for _, island := range d.Islands {
		check(island)
	}
}

// State of one top-level call.
type search struct {
	*Triangulator
	calc WeightCalculator
	ctx  context.Context
	// Which original island each island vertex belongs to. Read-only once the
	// search starts.
	islandOf map[int]int
	tracer   *tracer

	memoMu sync.Mutex
	memo   map[string]Result

	calls, evaluations, memoHits int64
}

func (s *search) stats() Stats {
	return Stats{
		Calls:             atomic.LoadInt64(&s.calls),
		WeightEvaluations: atomic.LoadInt64(&s.evaluations),
		MemoHits:          atomic.LoadInt64(&s.memoHits),
	}
}

// One way of finishing the triangulation of a domain: the triangle on its
// access edge plus the solutions of whatever domains that triangle leaves.
type candidate struct {
	triangle Triangle
	weight   Weight
	parts    []TriangleList
}

// A deferred candidate. Evaluating one runs the recursion below it.
type task func() candidate

var invalidCandidate = candidate{weight: InvalidWeight}

func (s *search) solve(d Domain, e AccessEdge, depth int) Result {
	atomic.AddInt64(&s.calls, 1)
	s.checkLimits(depth)
	s.tracer.enter(depth, d, e)

	if e.IsDegenerate() {
		s.tracer.prune(depth, d, "degenerate access edge")
		return Result{Weight: InvalidWeight}
	}
	if e != d.AccessEdge() {
		fatalf("access edge (%d, %d) does not bound domain %v", e.Source, e.Target, d)
	}

	if d.IsEmpty() {
		if d.HasIslands() {
			// There is nothing left to connect the islands to
			s.tracer.prune(depth, d, "islands on an empty domain")
			return Result{Weight: InvalidWeight}
		}
		return Result{Weight: ZeroWeight}
	}

	if len(d.Boundary) == 3 && !d.HasIslands() {
		tri := Triangle{e.Source, d.Boundary[1], e.Target}
		return Result{Weight: s.triangleWeight(tri), Triangles: TriangleList{tri}}
	}

	key := ""
	if s.memo != nil {
		key = d.Key()
		s.memoMu.Lock()
		cached, ok := s.memo[key]
		s.memoMu.Unlock()
		if ok {
			atomic.AddInt64(&s.memoHits, 1)
			s.tracer.memoHit(depth, d)
			return cached
		}
	}

	var tasks []task
	tasks = append(tasks, s.mergeTasks(d, e, depth)...)
	tasks = append(tasks, s.splitTasks(d, depth)...)

	var candidates []candidate
	if s.options.Parallel && depth == 0 {
		candidates = runParallel(tasks)
	} else {
		candidates = make([]candidate, len(tasks))
		for i, run := range tasks {
			candidates[i] = run()
		}
	}

	// Strict improvement only, so the first candidate found wins a tie
	best := Result{Weight: InvalidWeight}
	for _, c := range candidates {
		if !c.weight.Less(best.Weight) {
			continue
		}
		best = Result{Weight: c.weight, Triangles: c.assemble()}
		s.tracer.improve(depth, d, c.weight, c.triangle)
	}

	if s.memo != nil {
		s.memoMu.Lock()
		s.memo[key] = best
		s.memoMu.Unlock()
	}
	s.tracer.done(depth, d, best)
	return best
}

// Case 1: bridge every vertex of every island to the access edge, walking the
// island both ways round.
func (s *search) mergeTasks(d Domain, e AccessEdge, depth int) []task {
	var tasks []task
	for h, island := range d.Islands {
		for _, v := range island {
			h, v := h, v
			tri := Triangle{e.Source, v, e.Target}
			for _, orientation := range Orientations {
				orientation := orientation
				tasks = append(tasks, func() candidate {
					w := s.triangleWeight(tri)
					if !w.IsValid() {
						return invalidCandidate
					}
					s.tracer.merge(depth, d, h, v, orientation)
					merged := MergeIslandAt(d, h, v, orientation)
					sub := s.solve(merged, merged.AccessEdge(), depth+1)
					return candidate{
						triangle: tri,
						weight:   sub.Weight.Combine(w),
						parts:    []TriangleList{sub.Triangles},
					}
				})
			}
		}
	}
	return tasks
}

// A case 2 split of a domain, with the islands already handed out. Partition
// is nil when the domain has no islands.
type splitOption struct {
	pivot       int
	triangle    Triangle
	left, right Domain
	partition   *Partition
}

// Every case 2 split of d: each interior boundary position, and for each, every
// way of giving the islands to the two sides. Partitions that leave islands on
// a side with no room for them (a single edge) are skipped. A three vertex
// boundary that still has islands has no usable splits at all.
func splitOptions(d Domain) []splitOption {
	if len(d.Boundary) == 3 && d.HasIslands() {
		return nil
	}

	e := d.AccessEdge()
	var partitions []Partition
	if d.HasIslands() {
		partitions = EnumeratePartitions(len(d.Islands))
	}

	var options []splitOption
	for pos := 1; pos < len(d.Boundary)-1; pos++ {
		p := d.Boundary[pos]
		tri := Triangle{e.Source, p, e.Target}
		left, right := SplitBoundaryAt(d, pos)

		if !d.HasIslands() {
			options = append(options, splitOption{pivot: p, triangle: tri, left: left, right: right})
			continue
		}

		for i := range partitions {
			partition := &partitions[i]
			if !partition.Covers(len(d.Islands)) {
				fatalf("partition %v does not cover %d islands", *partition, len(d.Islands))
			}
			l, r := left, right
			l.ClearIslands()
			r.ClearIslands()
			l.AddIslands(d, partition.Left)
			r.AddIslands(d, partition.Right)
			// Islands must go to a side that has room for them
			if (l.IsEmpty() && l.HasIslands()) || (r.IsEmpty() && r.HasIslands()) {
				continue
			}
			options = append(options, splitOption{pivot: p, triangle: tri, left: l, right: r, partition: partition})
		}
	}
	return options
}

// Case 2: split the boundary at every interior vertex, handing the islands to
// the two sides in every possible way.
func (s *search) splitTasks(d Domain, depth int) []task {
	options := splitOptions(d)
	if options == nil && d.HasIslands() {
		// Both sides of any split would be single edges, with the islands
		// stranded on one of them
		s.tracer.prune(depth, d, "no room to split around the islands")
		return nil
	}

	tasks := make([]task, 0, len(options))
	for _, option := range options {
		option := option
		tasks = append(tasks, func() candidate {
			s.tracer.split(depth, d, option.pivot, option.partition)
			return s.splitCandidate(option.triangle, option.left, option.right, depth)
		})
	}
	return tasks
}

func (s *search) splitCandidate(tri Triangle, left, right Domain, depth int) candidate {
	w := s.triangleWeight(tri)
	if !w.IsValid() {
		return invalidCandidate
	}
	l := s.solve(left, left.AccessEdge(), depth+1)
	if !l.Weight.IsValid() {
		return invalidCandidate
	}
	r := s.solve(right, right.AccessEdge(), depth+1)
	return candidate{
		triangle: tri,
		weight:   l.Weight.Combine(r.Weight).Combine(w),
		parts:    []TriangleList{l.Triangles, r.Triangles},
	}
}

// Sub-results may be shared through the memo, so always build a fresh list.
func (c candidate) assemble() TriangleList {
	size := 1
	for _, part := range c.parts {
		size += len(part)
	}
	triangles := make(TriangleList, 0, size)
	for _, part := range c.parts {
		triangles = append(triangles, part...)
	}
	return append(triangles, c.triangle)
}

// The weight of a single triangle. A triangle with all three corners on the
// same original island would close that island off from the boundary, so it is
// never allowed.
func (s *search) triangleWeight(tri Triangle) Weight {
	atomic.AddInt64(&s.evaluations, 1)
	if s.onOneIsland(tri) {
		return InvalidWeight
	}
	return s.calc.Weigh(s.points, tri.A, tri.B, tri.C).Weight()
}

func (s *search) onOneIsland(tri Triangle) bool {
	a, ok := s.islandOf[tri.A]
	if !ok {
		return false
	}
	b, ok := s.islandOf[tri.B]
	if !ok || b != a {
		return false
	}
	c, ok := s.islandOf[tri.C]
	return ok && c == a
}

func (s *search) checkLimits(depth int) {
	if s.ctx != nil {
		if err := s.ctx.Err(); err != nil {
			abort(ErrAborted, "%v at depth %d", err, depth)
		}
	}
	if s.options.MaxDepth > 0 && depth > s.options.MaxDepth {
		abort(ErrAborted, "recursion depth %d exceeds limit %d", depth, s.options.MaxDepth)
	}
}

// Run tasks concurrently and return their candidates in task order. A panic in
// any task (a contract violation, or an abort) is re-raised here once all of
// them have finished.
func runParallel(tasks []task) []candidate {
	candidates := make([]candidate, len(tasks))
	panics := make([]interface{}, len(tasks))
	var wg sync.WaitGroup
	for i, run := range tasks {
		wg.Add(1)
		go func(i int, run task) {
			defer wg.Done()
			defer func() {
				panics[i] = recover()
			}()
			candidates[i] = run()
		}(i, run)
	}
	wg.Wait()
	for _, r := range panics {
		if r != nil {
			panic(r)
		}
	}
	return candidates
}
