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
	"fmt"

	"github.com/deeean/go-vector/vector3"
	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/idref"
	"github.com/QuLogic/jot-lib-sub005/view"
)

// DefaultCreaseAngle is the dihedral angle, in degrees, above which an
// edge counts as a crease.
const DefaultCreaseAngle = 60

// Scene is a collection of meshes. It is the source of silhouette
// geometry and the surface on which anchors are located.
type Scene struct {
	Meshes      []*Mesh
	CreaseAngle float64

	// UseCreases and UseBorders enable the crease and border strips.
	UseCreases bool
	UseBorders bool

	byID map[int]*Mesh
}

// NewScene returns a scene holding the given meshes. Mesh ids must be
// unique.
func NewScene(meshes ...*Mesh) (*Scene, error) {
	s := &Scene{
		CreaseAngle: DefaultCreaseAngle,
		byID:        make(map[int]*Mesh, len(meshes)),
	}
	for _, m := range meshes {
		if err := s.Add(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add appends a mesh to the scene.
func (s *Scene) Add(m *Mesh) error {
	if s.byID == nil {
		s.byID = make(map[int]*Mesh)
	}
	if _, dup := s.byID[m.ID]; dup {
		return fmt.Errorf("duplicate mesh id %d", m.ID)
	}
	s.byID[m.ID] = m
	s.Meshes = append(s.Meshes, m)
	return nil
}

// Mesh returns the mesh with the given id.
func (s *Scene) Mesh(id int) (*Mesh, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// ZeroCrossings returns the silhouette loops of all meshes.
func (s *Scene) ZeroCrossings(eye *vector3.Vector3) []Loop {
	var res []Loop
	for _, m := range s.Meshes {
		res = append(res, m.ZeroCrossings(eye)...)
	}
	return res
}

// Creases returns the crease strips of all meshes, or nil if creases are
// disabled.
func (s *Scene) Creases() []Loop {
	if !s.UseCreases {
		return nil
	}
	var res []Loop
	for _, m := range s.Meshes {
		res = append(res, m.Creases(s.CreaseAngle)...)
	}
	return res
}

// Borders returns the border strips of all meshes, or nil if borders are
// disabled.
func (s *Scene) Borders() []Loop {
	if !s.UseBorders {
		return nil
	}
	var res []Loop
	for _, m := range s.Meshes {
		res = append(res, m.Borders()...)
	}
	return res
}

// Locate finds the position and normal of an anchored point.
func (s *Scene) Locate(a Anchor) (pos, normal *vector3.Vector3, err error) {
	m, ok := s.byID[a.Mesh]
	if !ok {
		return nil, nil, fmt.Errorf("mesh %d not in scene: %w", a.Mesh, ErrBadSimplex)
	}
	return m.Locate(a)
}

// Generation changes whenever any mesh moves.
func (s *Scene) Generation() uint64 {
	var g uint64
	for _, m := range s.Meshes {
		g += m.Generation()
	}
	return g
}

// DrawOccluders draws all faces into c, depth tested. Faces are numbered
// consecutively across meshes.
func (s *Scene) DrawOccluders(c idref.Canvas, v view.View) {
	base := 0
	for _, m := range s.Meshes {
		m.drawFaces(c, v, base)
		base += len(m.Faces)
	}
}

func (m *Mesh) drawFaces(c idref.Canvas, v view.View, base int) {
	ndc := make([]vec.Vec2, len(m.Verts))
	z := make([]float64, len(m.Verts))
	ok := make([]bool, len(m.Verts))
	for i, p := range m.Verts {
		ndc[i], z[i], ok[i] = v.Project(p)
	}
	for fi, f := range m.Faces {
		if !ok[f[0]] || !ok[f[1]] || !ok[f[2]] {
			continue
		}
		c.DrawTriangle(
			[3]vec.Vec2{ndc[f[0]], ndc[f[1]], ndc[f[2]]},
			[3]float64{z[f[0]], z[f[1]], z[f[2]]},
			idref.FaceValue(base+fi))
	}
}

// Between interpolates between two anchors on a common simplex.
func (s *Scene) Between(a, b Anchor, t float64) (Anchor, bool) {
	m, ok := s.byID[a.Mesh]
	if !ok {
		return Anchor{}, false
	}
	return m.Between(a, b, t)
}
