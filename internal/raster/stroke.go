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

package raster

import (
	"math"

	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// segment is one piece of a flattened polyline with its unit tangent T
// and unit normal N (T rotated by +90°).
type segment struct {
	A, B vec.Vec2
	T, N vec.Vec2
}

func newSegment(a, b vec.Vec2) (segment, bool) {
	d := b.Sub(a)
	l := d.Length()
	if l < zeroLengthThreshold {
		return segment{}, false
	}
	t := d.Mul(1 / l)
	return segment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}}, true
}

// cross returns the z-component of a×b.
func cross(a, b vec.Vec2) float64 { return a.X*b.Y - a.Y*b.X }

// StrokePolyline strokes the polyline through pts using Width, Cap, Join
// and MiterLimit. A closed polyline gets joins instead of caps at its
// first point; the closing segment is added if needed.
func (r *Rasterizer) StrokePolyline(pts []vec.Vec2, closed bool, emit EmitFunc) {
	segs := make([]segment, 0, len(pts))
	for i := 1; i < len(pts); i++ {
		if s, ok := newSegment(pts[i-1], pts[i]); ok {
			segs = append(segs, s)
		}
	}
	if closed && len(pts) > 2 {
		if s, ok := newSegment(pts[len(pts)-1], pts[0]); ok {
			segs = append(segs, s)
		}
	}

	r.outline = r.outline[:0]
	r.outlineOffs = r.outlineOffs[:0]
	switch {
	case len(segs) == 0:
		if len(pts) > 0 && r.Cap == graphics.LineCapRound {
			r.startPolygon()
			r.addArc(pts[0], r.Width/2, vec.Vec2{X: 1}, 2*math.Pi, true)
		}
	case closed && len(segs) > 2:
		r.outlineClosed(segs)
	default:
		r.outlineOpen(segs)
	}
	r.fillOutline(emit)
}

func (r *Rasterizer) startPolygon() {
	r.outlineOffs = append(r.outlineOffs, len(r.outline))
}

// outlineOpen builds one polygon around an open polyline: caps at both
// ends, the +N side forward and the -N side backward.
func (r *Rasterizer) outlineOpen(segs []segment) {
	d := r.Width / 2
	first, last := &segs[0], &segs[len(segs)-1]

	r.startPolygon()
	r.addCap(first.A, first.T.Mul(-1), d)
	for i := range segs {
		s := &segs[i]
		r.outline = append(r.outline, s.A.Add(s.N.Mul(d)))
		if i+1 < len(segs) {
			r.corner(s, &segs[i+1], d, true)
		} else {
			r.outline = append(r.outline, s.B.Add(s.N.Mul(d)))
		}
	}
	r.addCap(last.B, last.T, d)
	for i := len(segs) - 1; i >= 0; i-- {
		s := &segs[i]
		r.outline = append(r.outline, s.B.Sub(s.N.Mul(d)))
		if i > 0 {
			r.corner(&segs[i-1], s, d, false)
		} else {
			r.outline = append(r.outline, s.A.Sub(s.N.Mul(d)))
		}
	}
}

// outlineClosed builds two polygons, one per side of a closed polyline.
// Under the nonzero rule they enclose the ring between the offsets.
func (r *Rasterizer) outlineClosed(segs []segment) {
	d := r.Width / 2
	n := len(segs)

	r.startPolygon()
	for i := range segs {
		s := &segs[i]
		r.outline = append(r.outline, s.A.Add(s.N.Mul(d)))
		r.corner(s, &segs[(i+1)%n], d, true)
	}

	r.startPolygon()
	for i := n - 1; i >= 0; i-- {
		s := &segs[i]
		r.outline = append(r.outline, s.B.Sub(s.N.Mul(d)))
		r.corner(&segs[(i+n-1)%n], s, d, false)
	}
}

// corner adds the outline points where segment a meets segment b on one
// side of the stroke. On the outer side of the turn the join geometry is
// inserted; on the inner side both offset points are kept and the
// overlap is resolved by the nonzero fill.
func (r *Rasterizer) corner(a, b *segment, d float64, plus bool) {
	sin := cross(a.T, b.T)
	var pa, pb vec.Vec2
	if plus {
		pa, pb = a.B.Add(a.N.Mul(d)), b.A.Add(b.N.Mul(d))
	} else {
		pa, pb = b.A.Sub(b.N.Mul(d)), a.B.Sub(a.N.Mul(d))
	}
	if math.Abs(sin) < collinearityThreshold {
		r.outline = append(r.outline, pa, pb)
		return
	}
	outer := (sin > 0) != plus
	r.outline = append(r.outline, pa)
	if outer {
		r.addJoin(a.B, a.T, b.T, d, plus)
	}
	r.outline = append(r.outline, pb)
}

// addCap adds the cap at P; T points away from the line.
func (r *Rasterizer) addCap(P, T vec.Vec2, d float64) {
	N := vec.Vec2{X: -T.Y, Y: T.X}
	switch r.Cap {
	case graphics.LineCapSquare:
		ext := P.Add(T.Mul(d))
		r.outline = append(r.outline, ext.Add(N.Mul(d)), ext.Sub(N.Mul(d)))
	case graphics.LineCapRound:
		r.addArc(P, d, N, -math.Pi, true)
	}
}

// addJoin adds the join geometry at P for a turn from T1 to T2. The
// offset points on both sides of the corner are added by the caller.
func (r *Rasterizer) addJoin(P, T1, T2 vec.Vec2, d float64, plus bool) {
	cos := T1.Dot(T2)
	sin := cross(T1, T2)
	if cos < cuspCosineThreshold {
		r.addCap(P, T1, d)
		r.addCap(P, T2.Mul(-1), d)
		return
	}

	switch r.Join {
	case graphics.LineJoinMiter:
		half := math.Sqrt((1 + cos) / 2)
		const eps = 1e-10
		if half <= 0 || 1/half > r.MiterLimit+eps {
			return
		}
		N1 := vec.Vec2{X: -T1.Y, Y: T1.X}
		N2 := vec.Vec2{X: -T2.Y, Y: T2.X}
		bis := N1.Add(N2)
		if !plus {
			bis = bis.Mul(-1)
		}
		if l := bis.Length(); l > zeroLengthThreshold {
			r.outline = append(r.outline, P.Add(bis.Mul(d/(l*half))))
		}

	case graphics.LineJoinRound:
		angle := math.Acos(max(-1, min(1, cos)))
		if plus {
			N1 := vec.Vec2{X: -T1.Y, Y: T1.X}
			if sin > 0 {
				r.addArc(P, d, N1, angle, false)
			} else {
				r.addArc(P, d, N1, -angle, false)
			}
		} else {
			N2 := vec.Vec2{X: T2.Y, Y: -T2.X}
			if sin > 0 {
				r.addArc(P, d, N2, -angle, false)
			} else {
				r.addArc(P, d, N2, angle, false)
			}
		}
	}
	// bevel joins need no extra points
}

// addArc appends points on the circle of the given radius around center,
// starting in direction dir and sweeping by sweep radians.
func (r *Rasterizer) addArc(center vec.Vec2, radius float64, dir vec.Vec2, sweep float64, includeStart bool) {
	devRadius := max(r.linear(vec.Vec2{X: radius}).Length(), r.linear(vec.Vec2{Y: radius}).Length())

	n := 1
	if devRadius >= r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/devRadius)
		if step <= 0 || math.IsNaN(step) {
			step = math.Pi / 4
		}
		n = max(int(math.Ceil(math.Abs(sweep)/step)), 1)
	}

	first := 1
	if includeStart {
		first = 0
	}
	for i := first; i <= n; i++ {
		a := sweep * float64(i) / float64(n)
		c, s := math.Cos(a), math.Sin(a)
		v := vec.Vec2{X: dir.X*c - dir.Y*s, Y: dir.X*s + dir.Y*c}
		r.outline = append(r.outline, center.Add(v.Mul(radius)))
	}
}

// fillOutline fills all polygons collected in r.outline as one compound
// shape with the nonzero rule.
func (r *Rasterizer) fillOutline(emit EmitFunc) {
	r.beginEdges()
	for i, start := range r.outlineOffs {
		end := len(r.outline)
		if i+1 < len(r.outlineOffs) {
			end = r.outlineOffs[i+1]
		}
		poly := r.outline[start:end]
		if len(poly) < 3 {
			continue
		}
		for j := range poly {
			r.addEdge(poly[j], poly[(j+1)%len(poly)])
		}
	}
	r.scan(emit)
}
