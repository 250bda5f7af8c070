package internal

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/logrusorgru/aurora"
	"github.com/osuushi/islandfill/internal/dbg"
)

// Tracing for the recursive search. Every line is indented by recursion depth
// and names the domain it talks about, so a trace reads like the call tree. A
// nil *tracer is valid and traces nothing.
type tracer struct {
	mu  sync.Mutex
	out io.Writer
	au  aurora.Aurora
}

func newTracer(out io.Writer, colors bool) *tracer {
	if out == nil {
		return nil
	}
	return &tracer{out: out, au: aurora.NewAurora(colors)}
}

func (t *tracer) printf(depth int, format string, args ...interface{}) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (t *tracer) name(d Domain) string {
	return dbg.Name(d.Key())
}

func (t *tracer) enter(depth int, d Domain, e AccessEdge) {
	if t == nil {
		return
	}
	t.printf(depth, "%s %s %v edge (%d, %d), %d islands, %d vertices",
		t.au.Cyan("solve"), t.au.Bold(t.name(d)), d.Boundary, e.Source, e.Target, len(d.Islands), d.Size())
}

func (t *tracer) merge(depth int, d Domain, h, v int, o Orientation) {
	if t == nil {
		return
	}
	t.printf(depth, "%s island %d of %s at %d, %s", t.au.Blue("merge"), h, t.name(d), v, o)
}

func (t *tracer) split(depth int, d Domain, p int, partition *Partition) {
	if t == nil {
		return
	}
	if partition == nil {
		t.printf(depth, "%s %s at %d", t.au.Blue("split"), t.name(d), p)
		return
	}
	t.printf(depth, "%s %s at %d, islands %v | %v", t.au.Blue("split"), t.name(d), p, partition.Left, partition.Right)
}

func (t *tracer) prune(depth int, d Domain, reason string) {
	if t == nil {
		return
	}
	t.printf(depth, "%s %s: %s", t.au.Yellow("prune"), t.name(d), reason)
}

func (t *tracer) improve(depth int, d Domain, w Weight, tri Triangle) {
	if t == nil {
		return
	}
	t.printf(depth, "%s %s best %s via %s", t.au.Green("improve"), t.name(d), w, tri)
}

func (t *tracer) memoHit(depth int, d Domain) {
	if t == nil {
		return
	}
	t.printf(depth, "%s %s", t.au.Magenta("memo"), t.name(d))
}

func (t *tracer) done(depth int, d Domain, r Result) {
	if t == nil {
		return
	}
	w := t.au.Green(r.Weight.String())
	if !r.Weight.IsValid() {
		w = t.au.Red(r.Weight.String())
	}
	t.printf(depth, "%s %s %s, %d triangles", t.au.Cyan("return"), t.name(d), w, len(r.Triangles))
}
