// jot-lib-sub005 - silhouette strokes with temporal coherence
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package idref

import (
	"image"
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/internal/raster"
)

// Buffer is a software Canvas. Values live in a row-major []uint32, depth
// in a parallel []float32. Depth values are eye distances, as returned by
// view.View.Project.
type Buffer struct {
	// LineWidth is the width, in pixels, of drawn polylines.
	LineWidth float64

	// DepthBias is the relative depth tolerance of depth-tested polylines:
	// a pixel at depth z passes if z <= d*(1+DepthBias), where d is the
	// stored depth. Silhouettes lie exactly on the boundary of the faces
	// next to them, so some tolerance is needed.
	DepthBias float64

	w, h  int
	vals  []uint32
	depth []float32
	rast  *raster.Rasterizer
}

// Default drawing parameters.
const (
	DefaultLineWidth = 2.0
	DefaultDepthBias = 0.02

	// faceCoverage and lineCoverage are the coverage values above which a
	// pixel counts as drawn.
	faceCoverage = 0.5
	lineCoverage = 0.25
)

// NewBuffer allocates a cleared w×h buffer.
func NewBuffer(w, h int) *Buffer {
	b := &Buffer{
		LineWidth: DefaultLineWidth,
		DepthBias: DefaultDepthBias,
		w:         w,
		h:         h,
		vals:      make([]uint32, w*h),
		depth:     make([]float32, w*h),
		rast:      raster.NewRasterizer(rect.Rect{URx: float64(w), URy: float64(h)}),
	}
	b.Clear()
	return b
}

// Resize changes the buffer size and clears it. Memory is reused when
// possible.
func (b *Buffer) Resize(w, h int) {
	if w == b.w && h == b.h {
		b.Clear()
		return
	}
	b.w, b.h = w, h
	if cap(b.vals) >= w*h {
		b.vals = b.vals[:w*h]
		b.depth = b.depth[:w*h]
	} else {
		b.vals = make([]uint32, w*h)
		b.depth = make([]float32, w*h)
	}
	b.rast.Reset(rect.Rect{URx: float64(w), URy: float64(h)})
	b.Clear()
}

func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.w, b.h) }

// Clear implements Canvas.
func (b *Buffer) Clear() {
	clear(b.vals)
	for i := range b.depth {
		b.depth[i] = math.MaxFloat32
	}
}

// NDCToPix implements Image.
func (b *Buffer) NDCToPix(p vec.Vec2) vec.Vec2 { return ndcToPix(p, b.w, b.h) }

// Val implements Image.
func (b *Buffer) Val(p image.Point) uint32 {
	if p.X < 0 || p.Y < 0 || p.X >= b.w || p.Y >= b.h {
		return 0
	}
	return b.vals[p.Y*b.w+p.X]
}

// SetVal implements Image.
func (b *Buffer) SetVal(p image.Point, v uint32) {
	if p.X < 0 || p.Y < 0 || p.X >= b.w || p.Y >= b.h {
		return
	}
	b.vals[p.Y*b.w+p.X] = v
}

// Depth returns the stored depth at p, or +Inf outside the image.
func (b *Buffer) Depth(p image.Point) float64 {
	if p.X < 0 || p.Y < 0 || p.X >= b.w || p.Y >= b.h {
		return math.Inf(1)
	}
	return float64(b.depth[p.Y*b.w+p.X])
}

// FindValInBox implements Image.
func (b *Buffer) FindValInBox(id, mask uint32, p vec.Vec2, radius int) bool {
	c := PixelAt(b.NDCToPix(p))
	x0, x1 := max(c.X-radius, 0), min(c.X+radius, b.w-1)
	y0, y1 := max(c.Y-radius, 0), min(c.Y+radius, b.h-1)
	want := id & mask
	for y := y0; y <= y1; y++ {
		row := b.vals[y*b.w:]
		for x := x0; x <= x1; x++ {
			if row[x]&mask == want {
				return true
			}
		}
	}
	return false
}

// DrawTriangle implements Canvas.
func (b *Buffer) DrawTriangle(p [3]vec.Vec2, z [3]float64, val uint32) {
	var q [3]vec.Vec2
	for i := range p {
		q[i] = b.NDCToPix(p[i])
	}
	e1, e2 := q[1].Sub(q[0]), q[2].Sub(q[0])
	det := e1.X*e2.Y - e1.Y*e2.X
	if math.Abs(det) < 1e-12 {
		return
	}

	b.rast.FillPolygon(q[:], func(y, xMin int, cov []float32) {
		row := y * b.w
		for i, c := range cov {
			if c < faceCoverage {
				continue
			}
			x := xMin + i
			d := vec.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}.Sub(q[0])
			u := (d.X*e2.Y - d.Y*e2.X) / det
			v := (e1.X*d.Y - e1.Y*d.X) / det
			depth := float32(z[0] + u*(z[1]-z[0]) + v*(z[2]-z[0]))
			if depth < b.depth[row+x] {
				b.depth[row+x] = depth
				b.vals[row+x] = val
			}
		}
	})
}

// DrawPolyline implements Canvas.
func (b *Buffer) DrawPolyline(p []vec.Vec2, z []float64, ids []uint32, depthTest bool) bool {
	if len(p) < 2 || len(z) != len(p) || len(ids) != len(p) {
		return false
	}
	hw := b.LineWidth / 2
	covered := false
	for i := 1; i < len(p); i++ {
		a, c := b.NDCToPix(p[i-1]), b.NDCToPix(p[i])
		d := c.Sub(a)
		l2 := d.X*d.X + d.Y*d.Y
		if l2 < 1e-12 {
			continue
		}
		l := math.Sqrt(l2)
		t := d.Mul(hw / l)
		n := vec.Vec2{X: -t.Y, Y: t.X}
		a0, c0 := a.Sub(t), c.Add(t)
		quad := []vec.Vec2{a0.Add(n), c0.Add(n), c0.Sub(n), a0.Sub(n)}

		za, zc := z[i-1], z[i]
		ia, ic := ids[i-1], ids[i]
		sameID := Identity(ia) == Identity(ic)
		pa, pc := float64(Position(ia)), float64(Position(ic))

		b.rast.FillPolygon(quad, func(y, xMin int, cov []float32) {
			row := y * b.w
			for k, cv := range cov {
				if cv < lineCoverage {
					continue
				}
				covered = true
				x := xMin + k
				ctr := vec.Vec2{X: float64(x) + 0.5, Y: float64(y) + 0.5}
				s := ctr.Sub(a).Dot(d) / l2
				s = max(0, min(1, s))
				depth := za + s*(zc-za)
				if depthTest && depth > float64(b.depth[row+x])*(1+b.DepthBias) {
					continue
				}
				var v uint32
				switch {
				case sameID:
					v = WithPosition(ia, uint8(math.Round(pa+s*(pc-pa))))
				case s < 0.5:
					v = ia
				default:
					v = ic
				}
				b.vals[row+x] = v
			}
		})
	}
	return covered
}
