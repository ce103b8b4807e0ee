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

package mesh

import (
	"math"

	"github.com/deeean/go-vector/vector3"
)

// Point is one point of a zero-crossing loop or edge strip.
type Point struct {
	Pos    *vector3.Vector3
	Anchor Anchor

	// Front is the gradient flag of the segment that starts at this point
	// (the last point repeats the flag of the final segment). It is true
	// where the silhouette separates front facing from back facing surface
	// in the way seen at a contour, and false where the silhouette is
	// hidden by the mesh itself.
	Front bool
}

// Loop is a chain of points. For closed loops the first point is
// repeated at the end.
type Loop struct {
	Points []Point
	Closed bool
}

// ZeroCrossings extracts the silhouette of m as seen from eye: the zero set
// of f(p) = n(p)·(eye−p), interpolated linearly from the vertex values.
// Every face with a sign change contributes one segment; segments are
// chained through shared edges.
func (m *Mesh) ZeroCrossings(eye *vector3.Vector3) []Loop {
	f := make([]float64, len(m.Verts))
	for i, p := range m.Verts {
		f[i] = m.normals[i].Dot(eye.Sub(p))
	}
	pos := func(v int) bool { return f[v] >= 0 }

	// crossing point on every edge with a sign change
	cross := make(map[int]Point)
	for ei, e := range m.edges {
		a, b := e[0], e[1]
		if pos(a) == pos(b) {
			continue
		}
		t := f[a] / (f[a] - f[b])
		p := m.Verts[a].MulScalar(1 - t).Add(m.Verts[b].MulScalar(t))
		cross[ei] = Point{
			Pos: p,
			Anchor: Anchor{
				Mesh:    m.ID,
				Simplex: Simplex{Kind: Edge, Index: ei},
				Bary:    [3]float64{1 - t, t},
			},
		}
	}

	// faceEdges[fi] lists the two crossing edges of face fi, ordered so that
	// the positive side of f lies to the left of the segment.
	faceEdges := make(map[int][2]int)
	front := make(map[int]bool)
	for fi, face := range m.Faces {
		var es []int
		for k := range 3 {
			a, b := face[k], face[(k+1)%3]
			if pos(a) != pos(b) {
				ei, _ := m.EdgeIndex(a, b)
				es = append(es, ei)
			}
		}
		if len(es) != 2 {
			continue
		}
		// the vertex shared by both crossing edges is isolated by sign
		var lone int
		e0, e1 := m.edges[es[0]], m.edges[es[1]]
		switch {
		case e0[0] == e1[0] || e0[0] == e1[1]:
			lone = e0[0]
		default:
			lone = e0[1]
		}
		// walking around the face ccw, the edge leaving lone comes first
		first, second := es[0], es[1]
		for k := range 3 {
			if face[k] == lone {
				out, _ := m.EdgeIndex(lone, face[(k+1)%3])
				if out != first {
					first, second = second, first
				}
			}
		}
		if !pos(lone) {
			first, second = second, first
		}
		faceEdges[fi] = [2]int{first, second}
		front[fi] = m.gradientFront(fi, f, eye)
	}

	var loops []Loop
	visited := make(map[int]bool)
	walk := func(fi int) Loop {
		var l Loop
		startEdge := faceEdges[fi][0]
		for {
			visited[fi] = true
			es := faceEdges[fi]
			p := cross[es[0]]
			p.Front = front[fi]
			l.Points = append(l.Points, p)
			next := -1
			for _, g := range m.edgeFaces[es[1]] {
				if g >= 0 && g != fi {
					if _, ok := faceEdges[g]; ok && faceEdges[g][0] == es[1] {
						next = g
					}
				}
			}
			if next < 0 || visited[next] {
				end := cross[es[1]]
				end.Front = front[fi]
				l.Points = append(l.Points, end)
				l.Closed = next >= 0 && es[1] == startEdge
				return l
			}
			fi = next
		}
	}

	// open chains start at a face whose entry edge has no predecessor
	for fi := range m.Faces {
		es, ok := faceEdges[fi]
		if !ok || visited[fi] {
			continue
		}
		hasPrev := false
		for _, g := range m.edgeFaces[es[0]] {
			if g >= 0 && g != fi {
				if ge, ok := faceEdges[g]; ok && ge[1] == es[0] {
					hasPrev = true
				}
			}
		}
		if !hasPrev {
			loops = append(loops, walk(fi))
		}
	}
	for fi := range m.Faces {
		if _, ok := faceEdges[fi]; ok && !visited[fi] {
			loops = append(loops, walk(fi))
		}
	}
	return loops
}

// gradientFront reports whether the gradient of the interpolated f over
// face fi points towards the eye.
func (m *Mesh) gradientFront(fi int, f []float64, eye *vector3.Vector3) bool {
	face := m.Faces[fi]
	p0 := m.Verts[face[0]]
	e1 := m.Verts[face[1]].Sub(p0)
	e2 := m.Verts[face[2]].Sub(p0)
	n := e1.Cross(e2)
	nn := n.Dot(n)
	if nn == 0 {
		return true
	}
	df1, df2 := f[face[1]]-f[face[0]], f[face[2]]-f[face[0]]
	grad := e2.Cross(n).MulScalar(df1).Add(n.Cross(e1).MulScalar(df2)).MulScalar(1 / nn)
	return grad.Dot(eye.Sub(p0)) > 0
}

// Creases returns chains of edges whose dihedral angle, in degrees,
// exceeds minAngle.
func (m *Mesh) Creases(minAngle float64) []Loop {
	cosMax := math.Cos(minAngle * math.Pi / 180)
	var sel []int
	for ei, ef := range m.edgeFaces {
		if ef[1] < 0 {
			continue
		}
		if m.FaceNormal(ef[0]).Dot(m.FaceNormal(ef[1])) < cosMax {
			sel = append(sel, ei)
		}
	}
	return m.chainEdges(sel)
}

// Borders returns chains of edges that have only one adjacent face.
func (m *Mesh) Borders() []Loop {
	var sel []int
	for ei, ef := range m.edgeFaces {
		if ef[1] < 0 {
			sel = append(sel, ei)
		}
	}
	return m.chainEdges(sel)
}

// chainEdges joins the selected edges into maximal chains of vertex
// anchors. Chains pass through vertices used by exactly two selected
// edges and end everywhere else.
func (m *Mesh) chainEdges(sel []int) []Loop {
	adj := make(map[int][]int)
	for _, ei := range sel {
		e := m.edges[ei]
		adj[e[0]] = append(adj[e[0]], ei)
		adj[e[1]] = append(adj[e[1]], ei)
	}
	used := make(map[int]bool)

	point := func(v int) Point {
		return Point{Pos: m.Verts[v], Anchor: m.VertexAnchor(v), Front: true}
	}
	other := func(ei, v int) int {
		e := m.edges[ei]
		if e[0] == v {
			return e[1]
		}
		return e[0]
	}
	walk := func(v, ei int) Loop {
		l := Loop{Points: []Point{point(v)}}
		start := v
		for {
			used[ei] = true
			v = other(ei, v)
			l.Points = append(l.Points, point(v))
			if v == start {
				l.Closed = true
				return l
			}
			if len(adj[v]) != 2 {
				return l
			}
			next := adj[v][0]
			if next == ei {
				next = adj[v][1]
			}
			if used[next] {
				return l
			}
			ei = next
		}
	}

	var loops []Loop
	// open chains first, in edge order for determinism
	for _, ei := range sel {
		if used[ei] {
			continue
		}
		for _, v := range m.edges[ei] {
			if len(adj[v]) != 2 && !used[ei] {
				loops = append(loops, walk(v, ei))
			}
		}
	}
	for _, ei := range sel {
		if !used[ei] {
			loops = append(loops, walk(m.edges[ei][0], ei))
		}
	}
	return loops
}
