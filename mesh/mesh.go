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

// Package mesh provides the triangle meshes from which silhouettes are
// extracted: topology, vertex normals, zero-crossing loops, crease and
// border strips, and the location of surface anchors.
package mesh

import (
	"errors"
	"fmt"
	"math"

	"github.com/deeean/go-vector/vector3"
)

// ErrBadSimplex is returned when an anchor does not refer to a valid
// simplex of the mesh.
var ErrBadSimplex = errors.New("invalid simplex")

// Mesh is an indexed triangle mesh. Faces are oriented counter-clockwise
// when seen from outside.
type Mesh struct {
	ID    int
	Verts []*vector3.Vector3
	Faces [][3]int

	edges     [][2]int // vertex pairs, smaller index first
	edgeFaces [][2]int // adjacent faces, -1 if missing
	edgeIndex map[[2]int]int
	normals   []*vector3.Vector3

	generation uint64
}

// NewMesh builds the edge topology and vertex normals for the given
// vertices and faces.
func NewMesh(id int, verts []*vector3.Vector3, faces [][3]int) (*Mesh, error) {
	m := &Mesh{
		ID:        id,
		Verts:     verts,
		Faces:     faces,
		edgeIndex: make(map[[2]int]int),
	}
	for fi, f := range faces {
		for k := range 3 {
			a, b := f[k], f[(k+1)%3]
			if a < 0 || a >= len(verts) || b < 0 || b >= len(verts) || a == b {
				return nil, fmt.Errorf("mesh %d: face %d: %w", id, fi, ErrBadSimplex)
			}
			key := edgeKey(a, b)
			ei, ok := m.edgeIndex[key]
			if !ok {
				ei = len(m.edges)
				m.edgeIndex[key] = ei
				m.edges = append(m.edges, key)
				m.edgeFaces = append(m.edgeFaces, [2]int{fi, -1})
				continue
			}
			if m.edgeFaces[ei][1] >= 0 {
				return nil, fmt.Errorf("mesh %d: edge %v has more than two faces", id, key)
			}
			m.edgeFaces[ei][1] = fi
		}
	}
	m.updateNormals()
	return m, nil
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// NumEdges returns the number of distinct edges.
func (m *Mesh) NumEdges() int { return len(m.edges) }

// EdgeVerts returns the vertex indices of edge i, smaller index first.
func (m *Mesh) EdgeVerts(i int) [2]int { return m.edges[i] }

// EdgeFaces returns the faces adjacent to edge i; the second entry is -1
// for border edges.
func (m *Mesh) EdgeFaces(i int) [2]int { return m.edgeFaces[i] }

// EdgeIndex returns the index of the edge between vertices a and b.
func (m *Mesh) EdgeIndex(a, b int) (int, bool) {
	i, ok := m.edgeIndex[edgeKey(a, b)]
	return i, ok
}

// Generation is incremented whenever the vertex positions change.
func (m *Mesh) Generation() uint64 { return m.generation }

// Transform moves every vertex through fn and recomputes the normals.
func (m *Mesh) Transform(fn func(*vector3.Vector3) *vector3.Vector3) {
	for i, v := range m.Verts {
		m.Verts[i] = fn(v)
	}
	m.updateNormals()
	m.generation++
}

// FaceNormal returns the unit normal of face i.
func (m *Mesh) FaceNormal(i int) *vector3.Vector3 {
	return normalize(m.faceCross(i))
}

// faceCross returns the face normal scaled by twice the face area.
func (m *Mesh) faceCross(i int) *vector3.Vector3 {
	f := m.Faces[i]
	p0, p1, p2 := m.Verts[f[0]], m.Verts[f[1]], m.Verts[f[2]]
	return p1.Sub(p0).Cross(p2.Sub(p0))
}

// VertexNormal returns the area weighted unit normal at vertex i.
func (m *Mesh) VertexNormal(i int) *vector3.Vector3 { return m.normals[i] }

func (m *Mesh) updateNormals() {
	acc := make([]*vector3.Vector3, len(m.Verts))
	for i := range acc {
		acc[i] = vector3.New(0, 0, 0)
	}
	for fi, f := range m.Faces {
		n := m.faceCross(fi)
		for _, v := range f {
			acc[v] = acc[v].Add(n)
		}
	}
	for i := range acc {
		acc[i] = normalize(acc[i])
	}
	m.normals = acc
}

// simplexVerts returns the vertex indices of s.
func (m *Mesh) simplexVerts(s Simplex) ([]int, error) {
	switch s.Kind {
	case Vertex:
		if s.Index >= 0 && s.Index < len(m.Verts) {
			return []int{s.Index}, nil
		}
	case Edge:
		if s.Index >= 0 && s.Index < len(m.edges) {
			e := m.edges[s.Index]
			return e[:], nil
		}
	case Face:
		if s.Index >= 0 && s.Index < len(m.Faces) {
			f := m.Faces[s.Index]
			return f[:], nil
		}
	}
	return nil, fmt.Errorf("mesh %d: %v: %w", m.ID, s, ErrBadSimplex)
}

// Locate returns the position and unit normal of the anchored point.
func (m *Mesh) Locate(a Anchor) (pos, normal *vector3.Vector3, err error) {
	if a.Mesh != m.ID || !a.Valid() {
		return nil, nil, fmt.Errorf("mesh %d: anchor %v: %w", m.ID, a.Simplex, ErrBadSimplex)
	}
	vs, err := m.simplexVerts(a.Simplex)
	if err != nil {
		return nil, nil, err
	}
	pos = vector3.New(0, 0, 0)
	normal = vector3.New(0, 0, 0)
	for i, v := range vs {
		pos = pos.Add(m.Verts[v].MulScalar(a.Bary[i]))
		normal = normal.Add(m.normals[v].MulScalar(a.Bary[i]))
	}
	return pos, normalize(normal), nil
}

// VertexAnchor returns the anchor for vertex i.
func (m *Mesh) VertexAnchor(i int) Anchor {
	return Anchor{Mesh: m.ID, Simplex: Simplex{Kind: Vertex, Index: i}, Bary: [3]float64{1}}
}

func normalize(v *vector3.Vector3) *vector3.Vector3 {
	l := v.Magnitude()
	if l == 0 || math.IsNaN(l) {
		return vector3.New(0, 0, 0)
	}
	return v.MulScalar(1 / l)
}

// Between interpolates between two anchors of m that lie on a common
// simplex, such as two edge points of one face. It reports false if no
// simplex of m contains both anchors.
func (m *Mesh) Between(a, b Anchor, t float64) (Anchor, bool) {
	if c, ok := Lerp(a, b, t); ok {
		return c, true
	}
	if a.Mesh != m.ID || b.Mesh != m.ID {
		return Anchor{}, false
	}
	va, err := m.simplexVerts(a.Simplex)
	if err != nil {
		return Anchor{}, false
	}
	vb, err := m.simplexVerts(b.Simplex)
	if err != nil {
		return Anchor{}, false
	}

	var verts []int
	var weights []float64
	add := func(v int, w float64) {
		for i, u := range verts {
			if u == v {
				weights[i] += w
				return
			}
		}
		verts = append(verts, v)
		weights = append(weights, w)
	}
	for i, v := range va {
		add(v, (1-t)*a.Bary[i])
	}
	for i, v := range vb {
		add(v, t*b.Bary[i])
	}

	var s Simplex
	var order []int
	switch len(verts) {
	case 1:
		s, order = Simplex{Kind: Vertex, Index: verts[0]}, verts
	case 2:
		ei, ok := m.EdgeIndex(verts[0], verts[1])
		if !ok {
			return Anchor{}, false
		}
		e := m.edges[ei]
		s, order = Simplex{Kind: Edge, Index: ei}, e[:]
	case 3:
		ei, ok := m.EdgeIndex(verts[0], verts[1])
		if !ok {
			return Anchor{}, false
		}
		found := false
		for _, fi := range m.edgeFaces[ei] {
			if fi < 0 {
				continue
			}
			f := m.Faces[fi]
			if f[0] == verts[2] || f[1] == verts[2] || f[2] == verts[2] {
				s, order, found = Simplex{Kind: Face, Index: fi}, f[:], true
				break
			}
		}
		if !found {
			return Anchor{}, false
		}
	default:
		return Anchor{}, false
	}

	res := Anchor{Mesh: m.ID, Simplex: s}
	for i, v := range order {
		for j, u := range verts {
			if u == v {
				res.Bary[i] = weights[j]
			}
		}
	}
	return res, true
}
