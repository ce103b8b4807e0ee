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

// Package raster computes anti-aliased pixel coverage for filled polygons
// and stroked polylines. It is the scan converter behind the ID-reference
// image and the stroke previews.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of one scanline. The slice holds the
// coverage of pixels xMin, xMin+1, ... and is only valid during the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a non-horizontal line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64
}

func (e *edge) yMin() float64 { return min(e.y0, e.y1) }
func (e *edge) yMax() float64 { return max(e.y0, e.y1) }

// xAt returns the x-coordinate of the edge's supporting line at height y.
func (e *edge) xAt(y float64) float64 { return e.x0 + e.dxdy*(y-e.y0) }

// Rasterizer turns polygons and polylines into coverage values in [0, 1].
// Buffers are kept between calls, so a single Rasterizer should be reused
// for all shapes of a frame.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip is the integer-aligned device rectangle that receives output.
	Clip rect.Rect

	// Flatness is the curve approximation tolerance in device pixels.
	Flatness float64

	// Width is the stroke width in user-space units.
	Width float64

	// Cap and Join select the stroke end and corner styles.
	Cap  graphics.LineCapStyle
	Join graphics.LineJoinStyle

	// MiterLimit bounds the length of miter joins. At least 1.
	MiterLimit float64

	// bufferedArea is the largest bounding box area (pixels) that is
	// accumulated in a full 2D buffer. Larger shapes are scanned with an
	// active edge list.
	bufferedArea int

	cover   []float32
	area    []float32
	edges   []edge
	active  []int
	rowUsed []bool

	outline     []vec.Vec2 // stroke polygons, contiguous
	outlineOffs []int      // start of each polygon in outline

	haveBBox bool

	bxMin, bxMax, byMin, byMax float64
}

// NewRasterizer returns a Rasterizer for the given clip rectangle, with an
// identity CTM, unit line width, butt caps and miter joins.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:        matrix.Identity,
		Clip:       clip,
		Flatness:   defaultFlatness,
		Width:      1,
		Cap:        graphics.LineCapButt,
		Join:       graphics.LineJoinMiter,
		MiterLimit: defaultMiterLimit,

		bufferedArea: bufferedAreaLimit,
	}
}

// Reset restores the default parameters and a new clip rectangle while
// keeping the allocated buffers.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit

	r.edges = r.edges[:0]
	r.active = r.active[:0]
	r.outline = r.outline[:0]
	r.outlineOffs = r.outlineOffs[:0]
}

// toDevice applies the CTM.
func (r *Rasterizer) toDevice(p vec.Vec2) vec.Vec2 {
	m := r.CTM
	return vec.Vec2{X: m[0]*p.X + m[2]*p.Y + m[4], Y: m[1]*p.X + m[3]*p.Y + m[5]}
}

// linear applies the CTM without its translation part.
func (r *Rasterizer) linear(v vec.Vec2) vec.Vec2 {
	m := r.CTM
	return vec.Vec2{X: m[0]*v.X + m[2]*v.Y, Y: m[1]*v.X + m[3]*v.Y}
}

// FillPolygon fills the closed polygon through pts (user space) with the
// nonzero winding rule.
func (r *Rasterizer) FillPolygon(pts []vec.Vec2, emit EmitFunc) {
	if len(pts) < 3 {
		return
	}
	r.beginEdges()
	for i := range pts {
		r.addEdge(pts[i], pts[(i+1)%len(pts)])
	}
	r.scan(emit)
}

func (r *Rasterizer) beginEdges() {
	r.edges = r.edges[:0]
	r.haveBBox = false
}

// addEdge records the user-space segment a→b in device space.
func (r *Rasterizer) addEdge(a, b vec.Vec2) {
	da := r.toDevice(a)
	db := r.toDevice(b)
	dy := db.Y - da.Y
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{x0: da.X, y0: da.Y, x1: db.X, y1: db.Y, dxdy: (db.X - da.X) / dy})

	lox, hix := min(da.X, db.X), max(da.X, db.X)
	loy, hiy := min(da.Y, db.Y), max(da.Y, db.Y)
	if !r.haveBBox {
		r.bxMin, r.bxMax, r.byMin, r.byMax = lox, hix, loy, hiy
		r.haveBBox = true
		return
	}
	r.bxMin = min(r.bxMin, lox)
	r.bxMax = max(r.bxMax, hix)
	r.byMin = min(r.byMin, loy)
	r.byMax = max(r.byMax, hiy)
}

// clippedBBox returns the integer pixel box of the collected edges,
// intersected with Clip.
func (r *Rasterizer) clippedBBox() (x0, x1, y0, y1 int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	x0 = max(int(math.Floor(r.bxMin)), int(r.Clip.LLx))
	x1 = min(int(math.Floor(r.bxMax))+1, int(r.Clip.URx))
	y0 = max(int(math.Floor(r.byMin)), int(r.Clip.LLy))
	y1 = min(int(math.Floor(r.byMax))+1, int(r.Clip.URy))
	return x0, x1, y0, y1, x0 < x1 && y0 < y1
}

func (r *Rasterizer) scan(emit EmitFunc) {
	x0, x1, y0, y1, ok := r.clippedBBox()
	if !ok {
		return
	}
	if (x1-x0)*(y1-y0) < r.bufferedArea {
		r.scanBuffered(x0, x1, y0, y1, emit)
	} else {
		r.scanActive(x0, x1, y0, y1, emit)
	}
}

// The accumulation follows the signed-area scheme: every edge piece
// inside a pixel adds its signed height to cover[] and the part of that
// height lying right of the piece to area[]. Integrating a row from the
// left (resolve) then yields the covered fraction of each pixel.

// accumulate adds the contribution of e to row y. cover and area are
// indexed by x-bx0; pieces left of the row buffer fold into index 0.
func accumulate(e *edge, y int, cover, area []float32, bx0, bx1 int) {
	top := max(float64(y), e.yMin())
	bot := min(float64(y+1), e.yMax())
	if bot <= top {
		return
	}
	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa, xb := e.xAt(top), e.xAt(bot)
	lo, hi := min(xa, xb), max(xa, xb)
	pl, pr := int(math.Floor(lo)), int(math.Floor(hi))

	switch {
	case pr < bx0:
		c := sign * float32(bot-top)
		cover[0] += c
		area[0] += c
		return
	case pl >= bx1:
		return
	case pl == pr:
		deposit(e, top, bot, sign, pl, cover, area, bx0, bx1)
		return
	}

	// the piece crosses several pixel columns: split it at each column
	dydx := 1 / e.dxdy
	for px := pl; px <= pr; px++ {
		ya := e.y0 + dydx*(float64(px)-e.x0)
		yb := e.y0 + dydx*(float64(px+1)-e.x0)
		sTop := max(min(ya, yb), top)
		sBot := min(max(ya, yb), bot)
		if sBot <= sTop {
			continue
		}
		deposit(e, sTop, sBot, sign, px, cover, area, bx0, bx1)
	}
}

// deposit adds the piece of e between heights top and bot, which lies
// within pixel column px.
func deposit(e *edge, top, bot float64, sign float32, px int, cover, area []float32, bx0, bx1 int) {
	c := sign * float32(bot-top)
	if px < bx0 {
		cover[0] += c
		area[0] += c
		return
	}
	if px >= bx1 {
		return
	}
	frac := e.xAt((top+bot)/2) - float64(px)
	i := px - bx0
	cover[i] += c
	area[i] += c * float32(1-frac)
}

// resolve integrates one row in place with the nonzero winding rule: on
// return cover holds coverage.
func resolve(cover, area []float32) {
	var acc float32
	for i := range cover {
		raw := acc + area[i]
		acc += cover[i]
		if raw < 0 {
			raw = -raw
		}
		cover[i] = min(raw, 1)
	}
}

// nonZeroSpan returns the sub-slice of cov between its first and last
// non-zero values, and its offset.
func nonZeroSpan(cov []float32) ([]float32, int) {
	lo := 0
	for lo < len(cov) && cov[lo] == 0 {
		lo++
	}
	if lo == len(cov) {
		return nil, 0
	}
	hi := len(cov) - 1
	for cov[hi] == 0 {
		hi--
	}
	return cov[lo : hi+1], lo
}

// scanBuffered accumulates all rows of a small bounding box at once.
func (r *Rasterizer) scanBuffered(x0, x1, y0, y1 int, emit EmitFunc) {
	w, h := x1-x0, y1-y0
	r.cover = grow(r.cover, w*h)
	r.area = grow(r.area, w*h)
	r.rowUsed = slices.Grow(r.rowUsed[:0], h)[:h]
	clear(r.rowUsed)

	for i := range r.edges {
		e := &r.edges[i]
		lo := max(int(math.Floor(e.yMin())), y0)
		hi := min(int(math.Floor(e.yMax()))+1, y1)
		for y := lo; y < hi; y++ {
			row := y - y0
			off := row * w
			accumulate(e, y, r.cover[off:off+w], r.area[off:off+w], x0, x1)
			r.rowUsed[row] = true
		}
	}

	for row := range h {
		if !r.rowUsed[row] {
			continue
		}
		off := row * w
		cov := r.cover[off : off+w]
		resolve(cov, r.area[off:off+w])
		if span, k := nonZeroSpan(cov); span != nil {
			emit(y0+row, x0+k, span)
		}
	}
}

// scanActive walks the rows of a large bounding box, keeping only the
// edges that intersect the current row.
func (r *Rasterizer) scanActive(x0, x1, y0, y1 int, emit EmitFunc) {
	w := x1 - x0
	r.cover = grow(r.cover, w)
	r.area = grow(r.area, w)

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.yMin(), b.yMin())
	})

	r.active = r.active[:0]
	next := 0
	for y := y0; y < y1; y++ {
		for next < len(r.edges) && r.edges[next].yMin() < float64(y+1) {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if e.yMax() <= float64(y) {
				last := len(r.active) - 1
				r.active[i] = r.active[last]
				r.active = r.active[:last]
				continue
			}
			accumulate(e, y, r.cover, r.area, x0, x1)
			touched = true
			i++
		}
		if !touched {
			continue
		}

		resolve(r.cover, r.area)
		if span, k := nonZeroSpan(r.cover); span != nil {
			emit(y, x0+k, span)
		}
	}
}

// grow returns buf resized to n zeroed elements.
func grow(buf []float32, n int) []float32 {
	buf = slices.Grow(buf[:0], n)[:n]
	clear(buf)
	return buf
}

const (
	// defaultFlatness is the curve tolerance in device pixels.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF/PostScript: joins sharper than about
	// 11.5 degrees are bevelled.
	defaultMiterLimit = 10.0

	// bufferedAreaLimit selects between scanBuffered and scanActive.
	bufferedAreaLimit = 65536

	horizontalEdgeThreshold = 1e-10
	zeroLengthThreshold     = 1e-10
	collinearityThreshold   = 1e-6

	// cuspCosineThreshold detects segments doubling back (about 179.4°).
	cuspCosineThreshold = -0.9999
)
