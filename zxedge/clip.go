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

package zxedge

import (
	"math"

	"github.com/deeean/go-vector/vector3"
	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/idref"
	"github.com/QuLogic/jot-lib-sub005/mesh"
	"github.com/QuLogic/jot-lib-sub005/view"
)

// IntersectWithFrustum finds where the segment from a to b crosses the
// boundary of the NDC square. The four edges x=-1, x=1, y=-1 and y=1 are
// tried in this order and the first crossing found is returned, together
// with its interpolation fraction t in [0, 1]. The returned point lies
// exactly on the edge.
//
// A zero-length segment is accepted with t = 0.
func IntersectWithFrustum(a, b vec.Vec2) (p vec.Vec2, t float64, ok bool) {
	if a == b {
		return a, 0, true
	}
	d := b.Sub(a)
	for _, edge := range [...]struct {
		xAxis bool
		c     float64
	}{{true, -1}, {true, 1}, {false, -1}, {false, 1}} {
		var num, den, other, dOther float64
		if edge.xAxis {
			num, den, other, dOther = edge.c-a.X, d.X, a.Y, d.Y
		} else {
			num, den, other, dOther = edge.c-a.Y, d.Y, a.X, d.X
		}
		if den == 0 {
			continue
		}
		t = num / den
		if t < 0 || t > 1 {
			continue
		}
		o := other + t*dOther
		if o < -1-1e-12 || o > 1+1e-12 {
			continue
		}
		o = max(-1, min(1, o))
		if edge.xAxis {
			return vec.Vec2{X: edge.c, Y: o}, t, true
		}
		return vec.Vec2{X: o, Y: edge.c}, t, true
	}
	return vec.Vec2{}, 0, false
}

// Preprocess projects the runs in segs, clips them to the view frustum,
// computes their running pixel arc length and assigns encoded path ids.
// Every run is cut into sub-segments of equal length, at most idLen
// pixels, each with its own path counter from fr. Sub-segment boundaries
// are represented by two coincident points, the first ending the old
// identity at position 255 and the second starting the new one at
// position 0.
//
// Runs with fewer than two points after clipping are dropped. A closed
// run that is cut by the frustum but starts inside it is rejoined at its
// seam. Surf, if not nil, is used to interpolate anchors at clip points.
func Preprocess(segs []ZXSegment, v view.View, surf Surface, fr *Frame, idLen float64) []RefSegment {
	var out []RefSegment
	runs(len(segs), func(i int) bool { return segs[i].End }, func(start, end int) {
		for _, r := range clipRun(segs[start:end+1], v, surf) {
			if len(r) < 2 {
				continue
			}
			measure(r, v)
			out = assignIDs(out, r, surf, fr, idLen)
		}
	})
	return out
}

// clipRun returns the pieces of a run that lie inside the frustum.
func clipRun(run []ZXSegment, v view.View, surf Surface) [][]RefSegment {
	n := len(run)
	refs := make([]RefSegment, n)
	ok := make([]bool, n)
	for i, s := range run {
		refs[i] = RefSegment{
			World:  s.Pos,
			Anchor: s.Anchor,
			Front:  s.Front,
			Type:   s.Type,
		}
		refs[i].NDC, refs[i].Z, ok[i] = v.Project(s.Pos)
	}
	inside := func(i int) bool { return ok[i] && view.InFrustum(refs[i].NDC) }

	var pieces [][]RefSegment
	var cur []RefSegment
	for i := range n {
		in := inside(i)
		if i > 0 {
			prevIn := inside(i - 1)
			switch {
			case prevIn && !in:
				if ok[i] {
					if q, ok := clipPoint(refs[i-1], refs[i], surf); ok {
						cur = append(cur, q)
					}
				}
				pieces = append(pieces, cur)
				cur = nil
			case !prevIn && in:
				if ok[i-1] {
					if q, ok := clipPoint(refs[i], refs[i-1], surf); ok {
						q.Front = refs[i-1].Front
						cur = append(cur, q)
					}
				}
			}
		}
		if in {
			cur = append(cur, refs[i])
		}
	}
	if cur != nil {
		pieces = append(pieces, cur)
	}

	closed := n > 2 && samePos(run[0].Pos, run[n-1].Pos)
	if closed && len(pieces) > 1 && inside(0) && inside(n-1) {
		// rejoin across the seam
		last := pieces[len(pieces)-1]
		joined := append(last[:len(last):len(last)], pieces[0][1:]...)
		pieces = append(pieces[1:len(pieces)-1], joined)
	}
	return pieces
}

// clipPoint returns the frustum crossing on the segment from the inside
// point a to the outside point b.
func clipPoint(a, b RefSegment, surf Surface) (RefSegment, bool) {
	p, t, ok := IntersectWithFrustum(a.NDC, b.NDC)
	if !ok {
		return RefSegment{}, false
	}
	q := lerpRef(a, b, t, surf)
	q.NDC = p
	return q, true
}

// lerpRef interpolates between two points of a run. The anchor is
// interpolated when both anchors lie on a common simplex; otherwise the
// anchor of the nearer point is used.
func lerpRef(a, b RefSegment, t float64, surf Surface) RefSegment {
	q := a
	q.NDC = a.NDC.Add(b.NDC.Sub(a.NDC).Mul(t))
	q.Z = a.Z + t*(b.Z-a.Z)
	q.Len = a.Len + t*(b.Len-a.Len)
	if a.World != nil && b.World != nil {
		q.World = a.World.Add(b.World.Sub(a.World).MulScalar(t))
	}
	q.End = false
	q.VisID = lerpID(a.VisID, b.VisID, t)
	q.InvisID = lerpID(a.InvisID, b.InvisID, t)
	q.Anchor = lerpAnchor(a.Anchor, b.Anchor, t, surf)
	if t >= 0.5 {
		q.Front = b.Front
	}
	return q
}

// lerpID interpolates the position bits of two values with the same
// identity. Otherwise the value of the nearer end is used.
func lerpID(a, b uint32, t float64) uint32 {
	if idref.Identity(a) != idref.Identity(b) {
		if t < 0.5 {
			return a
		}
		return b
	}
	pa, pb := float64(idref.Position(a)), float64(idref.Position(b))
	return idref.WithPosition(a, uint8(math.Round(pa+t*(pb-pa))))
}

func lerpAnchor(a, b mesh.Anchor, t float64, surf Surface) mesh.Anchor {
	if c, ok := mesh.Lerp(a, b, t); ok {
		return c
	}
	if surf != nil {
		if c, ok := surf.Between(a, b, t); ok {
			return c
		}
	}
	if t < 0.5 {
		return a
	}
	return b
}

func samePos(a, b *vector3.Vector3) bool {
	return a == b || (a != nil && b != nil && *a == *b)
}

// measure fills in the running pixel arc length of a run.
func measure(r []RefSegment, v view.View) {
	r[0].Len = 0
	for i := 1; i < len(r); i++ {
		r[i].Len = r[i-1].Len + v.PixelDist(r[i-1].NDC, r[i].NDC)
	}
}

// assignIDs cuts a measured run into equal sub-segments of at most idLen
// pixels, gives each a fresh counter and appends the result to out.
func assignIDs(out, r []RefSegment, surf Surface, fr *Frame, idLen float64) []RefSegment {
	total := r[len(r)-1].Len
	k := max(1, int(math.Ceil(total/idLen)))
	subLen := total / float64(k)

	counter := fr.NextCounter()
	s0 := 0.0
	m := 0
	emit := func(q RefSegment, pos uint8) {
		q.VisID = idref.PathID{IsPath: true, Visible: true, Counter: counter, Position: pos}.Encode()
		q.InvisID = idref.PathID{IsPath: true, Counter: counter, Position: pos}.Encode()
		q.End = false
		out = append(out, q)
	}

	emit(r[0], 0)
	for j := 1; j < len(r); j++ {
		for m < k-1 && r[j].Len > s0+subLen+1e-9 {
			sb := s0 + subLen
			a, b := r[j-1], r[j]
			t := 0.0
			if b.Len > a.Len {
				t = (sb - a.Len) / (b.Len - a.Len)
			}
			q := lerpRef(a, b, max(0, t), surf)
			q.Len = sb
			emit(q, 255)
			counter = fr.NextCounter()
			s0 = sb
			m++
			emit(q, 0)
		}
		emit(r[j], idref.QuantizePosition(r[j].Len-s0, subLen))
	}
	out[len(out)-1].End = true
	return out
}
