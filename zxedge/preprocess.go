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

	"github.com/QuLogic/jot-lib-sub005/mesh"
)

// SplitOnGradient converts zero-crossing loops into runs of constant
// gradient. Front runs get type Sil, back runs SilBack. At every change
// of gradient the boundary point is duplicated, ending one run and
// starting the next.
//
// A closed loop whose first and last segments have the same gradient would
// otherwise be cut at its seam; if seamFix is set, such a loop is rotated
// to start at a gradient change instead. Loops of a single gradient are
// passed through unchanged.
func SplitOnGradient(dst []ZXSegment, loops []mesh.Loop, seamFix bool) []ZXSegment {
	for _, l := range loops {
		n := len(l.Points)
		if n < 2 {
			continue
		}
		brk := func(prev, next int) bool { return l.Points[prev].Front != l.Points[next].Front }
		for _, r := range splitRuns(l.Points, l.Closed, brk, seamFix) {
			typ := Sil
			if !r[0].Front {
				typ = SilBack
			}
			start := len(dst)
			dst = appendRun(dst, r, typ)
			for i := start; i < len(dst); i++ {
				dst[i].Front = typ == Sil
			}
		}
	}
	return dst
}

// AddSilhouettes converts zero-crossing loops without splitting them; the
// gradient flags are kept per point.
func AddSilhouettes(dst []ZXSegment, loops []mesh.Loop) []ZXSegment {
	for _, l := range loops {
		if len(l.Points) >= 2 {
			dst = appendRun(dst, l.Points, Sil)
		}
	}
	return dst
}

// AddCreases appends crease strips, broken wherever consecutive edges bend
// by more than maxBend degrees.
func AddCreases(dst []ZXSegment, strips []mesh.Loop, maxBend float64, seamFix bool) []ZXSegment {
	return addStrips(dst, strips, Crease, maxBend, seamFix)
}

// AddBorders appends border strips, broken like creases.
func AddBorders(dst []ZXSegment, strips []mesh.Loop, maxBend float64, seamFix bool) []ZXSegment {
	return addStrips(dst, strips, Border, maxBend, seamFix)
}

func addStrips(dst []ZXSegment, strips []mesh.Loop, typ SegType, maxBend float64, seamFix bool) []ZXSegment {
	cosMax := math.Cos(maxBend * math.Pi / 180)
	for _, l := range strips {
		pts := l.Points
		if len(pts) < 2 {
			continue
		}
		// segment i runs from point i to point i+1
		brk := func(prev, next int) bool {
			a := pts[prev+1].Pos.Sub(pts[prev].Pos)
			b := pts[next+1].Pos.Sub(pts[next].Pos)
			la, lb := a.Magnitude(), b.Magnitude()
			if la == 0 || lb == 0 {
				return false
			}
			return a.Dot(b)/(la*lb) < cosMax
		}
		for _, r := range splitRuns(pts, l.Closed, brk, seamFix) {
			dst = appendRun(dst, r, typ)
		}
	}
	return dst
}

// AddPolyline appends an explicit world-space polyline. Polylines are not
// attached to a surface, so their samples cannot be tracked between
// frames.
func AddPolyline(dst []ZXSegment, pts []*vector3.Vector3) []ZXSegment {
	if len(pts) < 2 {
		return dst
	}
	for i, p := range pts {
		dst = append(dst, ZXSegment{
			Pos:   p,
			Front: true,
			Type:  Polyline,
			End:   i == len(pts)-1,
		})
	}
	return dst
}

func appendRun(dst []ZXSegment, pts []mesh.Point, typ SegType) []ZXSegment {
	for i, p := range pts {
		dst = append(dst, ZXSegment{
			Pos:    p.Pos,
			Anchor: p.Anchor,
			Front:  p.Front,
			Type:   typ,
			End:    i == len(pts)-1,
		})
	}
	return dst
}

// splitRuns cuts a chain of points wherever brk(i-1, i) reports a break
// between segment i-1 and segment i. Closed chains repeat their first
// point at the end. The returned runs share their boundary points.
func splitRuns(pts []mesh.Point, closed bool, brk func(prev, next int) bool, rotate bool) [][]mesh.Point {
	nseg := len(pts) - 1
	var cuts []int
	for i := 1; i < nseg; i++ {
		if brk(i-1, i) {
			cuts = append(cuts, i)
		}
	}
	if len(cuts) == 0 {
		return [][]mesh.Point{pts}
	}

	if closed && rotate && !brk(nseg-1, 0) {
		// start the loop at the first cut
		k := cuts[0]
		rot := make([]mesh.Point, 0, len(pts))
		rot = append(rot, pts[k:nseg]...)
		rot = append(rot, pts[:k+1]...)
		for j := range cuts {
			cuts[j] -= k
		}
		cuts = cuts[1:]
		pts = rot
	}

	res := make([][]mesh.Point, 0, len(cuts)+1)
	start := 0
	for _, c := range cuts {
		res = append(res, pts[start:c+1])
		start = c
	}
	return append(res, pts[start:])
}
