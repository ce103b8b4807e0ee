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

import "seehuhn.de/go/geom/vec"

// Stroke is a polyline ready to be drawn.
type Stroke struct {
	// ID is the stroke id of a coherent stroke, or -1.
	ID   int
	Type SegType
	Vis  Visibility
	Pts  []vec.Vec2 // NDC

	// T holds the stroke parameter of each point, for coherent strokes.
	T []float64
}

// Emitter turns classified samples directly into strokes, without the
// coherence machinery. Stroke memory is reused from call to call.
type Emitter struct {
	pool []Stroke
	n    int
}

// Strokes starts a stroke at the beginning of every visible stretch (and,
// if hidden is set, every hidden stretch) and adds every step-th sample
// plus the last sample of the stretch. The result is valid until the
// next call.
func (e *Emitter) Strokes(samples []SilSeg, step int, hidden bool) []Stroke {
	e.n = 0
	step = max(step, 1)
	runs(len(samples), func(i int) bool { return samples[i].End }, func(start, end int) {
		r := samples[start : end+1]
		splitWhere(r, func(a, b *SilSeg) bool { return a.Vis != b.Vis }, func(ss []SilSeg) {
			vis := ss[0].Vis
			if len(ss) < 2 || !(vis == Visible || hidden && vis == Hidden) {
				return
			}
			st := e.next()
			st.Type, st.Vis = ss[0].Type, vis
			for i := range ss {
				if i%step == 0 || i == len(ss)-1 {
					st.Pts = append(st.Pts, ss[i].NDC)
				}
			}
		})
	})
	return e.pool[:e.n]
}

func (e *Emitter) next() *Stroke {
	if e.n == len(e.pool) {
		e.pool = append(e.pool, Stroke{})
	}
	st := &e.pool[e.n]
	e.n++
	st.ID = -1
	st.Pts = st.Pts[:0]
	st.T = st.T[:0]
	return st
}

// GroupStrokes returns one stroke per good vote group, sampled every
// spacing pixels, with the stroke parameter of every point.
func GroupStrokes(paths *LuboPathList, spacing float64) []Stroke {
	if paths == nil {
		return nil
	}
	var res []Stroke
	for _, p := range paths.Paths {
		for _, g := range p.Groups {
			if !g.Good() || g.End <= g.Begin {
				continue
			}
			st := Stroke{ID: g.ID, Type: p.Type, Vis: p.Vis}
			add := func(s float64) {
				st.Pts = append(st.Pts, p.PointAt(s))
				st.T = append(st.T, g.GetT(s))
			}
			for s := g.Begin; s < g.End-spacing/2; s += spacing {
				add(s)
			}
			add(g.End)
			if len(st.Pts) >= 2 {
				res = append(res, st)
			}
		}
	}
	return res
}
