package internal

import (
	"io"
	"math"

	"github.com/fogleman/gg"
	imgcat "github.com/martinlindhe/imgcat/lib"
	"github.com/pkg/errors"
)

// This is for debugging purposes only. It draws the XY projection of a domain
// and a set of triangles over it.

// Padding around the shape, in pixels
const dbgDrawPadding = 40

func drawContext(points []Point, ids []int, scale float64) *gg.Context {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, id := range ids {
		p := points[id]
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	if len(ids) == 0 {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}

	width := int(scale*(maxX-minX)) + dbgDrawPadding*2
	height := int(scale*(maxY-minY)) + dbgDrawPadding*2
	c := gg.NewContext(width, height)
	c.SetRGB(0, 0, 0)
	c.DrawRectangle(0, 0, float64(width), float64(height))
	c.Fill()

	// Flip the context so the origin is at the bottom left
	c.Translate(0, float64(height))
	c.Scale(1, -1)
	// Translate for padding
	c.Translate(dbgDrawPadding, dbgDrawPadding)
	// Scale
	c.Scale(scale, scale)
	// Translate to min
	c.Translate(-minX, -minY)
	return c
}

// Draw the domain (boundary in cyan, islands in red) and the triangles (filled
// green) into a PNG at path.
func DrawPNG(path string, points []Point, d Domain, triangles TriangleList, scale float64) error {
	ids := append([]int{}, d.Boundary...)
	for _, island := range d.Islands {
		ids = append(ids, island...)
	}
	for _, tri := range triangles {
		ids = append(ids, tri.A, tri.B, tri.C)
	}
	c := drawContext(points, ids, scale)
	c.SetLineWidth(2)

	for _, tri := range triangles {
		a, b, cc := points[tri.A], points[tri.B], points[tri.C]
		c.MoveTo(a.X, a.Y)
		c.LineTo(b.X, b.Y)
		c.LineTo(cc.X, cc.Y)
		c.ClosePath()
		c.SetRGBA(0, 0.5, 0, 0.5)
		c.FillPreserve()
		c.SetRGB(0, 1, 0)
		c.Stroke()
	}

	drawLoop := func(loop []int, closed bool) {
		if len(loop) == 0 {
			return
		}
		c.MoveTo(points[loop[0]].X, points[loop[0]].Y)
		for _, id := range loop[1:] {
			c.LineTo(points[id].X, points[id].Y)
		}
		if closed {
			c.ClosePath()
		}
		c.Stroke()
	}
	c.SetRGB(0, 1, 1)
	drawLoop(d.Boundary, false)
	// The access edge, dashed
	c.SetDash(4/scale, 4/scale)
	e := d.AccessEdge()
	c.DrawLine(points[e.Source].X, points[e.Source].Y, points[e.Target].X, points[e.Target].Y)
	c.Stroke()
	c.SetDash()

	c.SetRGB(1, 0.2, 0.2)
	for _, island := range d.Islands {
		drawLoop(island, true)
	}

	return errors.Wrap(c.SavePNG(path), "saving drawing")
}

// Print a PNG inline in the terminal (iTerm only).
func CatPNG(path string, out io.Writer) error {
	return imgcat.CatFile(path, out)
}
