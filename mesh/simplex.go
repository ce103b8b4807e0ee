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
	"math"
)

// Kind says which kind of simplex an anchor refers to.
type Kind uint8

const (
	Vertex Kind = iota + 1
	Edge
	Face
)

func (k Kind) String() string {
	switch k {
	case Vertex:
		return "vertex"
	case Edge:
		return "edge"
	case Face:
		return "face"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Simplex names a vertex, edge or face of a mesh by index.
type Simplex struct {
	Kind  Kind
	Index int
}

func (s Simplex) String() string { return fmt.Sprintf("%s:%d", s.Kind, s.Index) }

// Anchor is a stable reference to a point on a mesh surface. Bary holds
// barycentric weights for the vertices of the simplex: one weight for a
// vertex, two for an edge (in the order of the edge's vertices), three for
// a face. Unused weights are zero.
//
// Anchors survive changes to vertex positions, so a point anchored in one
// frame can be located on the deformed mesh in the next.
type Anchor struct {
	Mesh    int
	Simplex Simplex
	Bary    [3]float64
}

// Valid reports whether the anchor is structurally sound. It does not
// check the simplex index against any mesh.
func (a Anchor) Valid() bool {
	n := a.Simplex.Kind.vertices()
	if n == 0 || a.Simplex.Index < 0 {
		return false
	}
	sum := 0.0
	for i, w := range a.Bary {
		if math.IsNaN(w) || (i >= n && w != 0) {
			return false
		}
		sum += w
	}
	return math.Abs(sum-1) < 1e-6
}

// Lerp interpolates between two anchors on the same simplex. It reports
// false if the anchors belong to different simplices.
func Lerp(a, b Anchor, t float64) (Anchor, bool) {
	if a.Mesh != b.Mesh || a.Simplex != b.Simplex {
		return Anchor{}, false
	}
	res := a
	for i := range res.Bary {
		res.Bary[i] = a.Bary[i] + t*(b.Bary[i]-a.Bary[i])
	}
	return res, true
}

func (k Kind) vertices() int {
	switch k {
	case Vertex:
		return 1
	case Edge:
		return 2
	case Face:
		return 3
	default:
		return 0
	}
}
