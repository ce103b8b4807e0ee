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

package testcases

import (
	"math"

	"github.com/deeean/go-vector/vector3"

	"github.com/QuLogic/jot-lib-sub005/mesh"
)

// helix returns a helix of radius r around the y axis.
func helix(r, y0, y1 float64, turns float64, n int) []*vector3.Vector3 {
	pts := make([]*vector3.Vector3, n+1)
	for i := range pts {
		t := float64(i) / float64(n)
		a := 2 * math.Pi * turns * t
		pts[i] = pt(r*math.Cos(a), y0+t*(y1-y0), r*math.Sin(a))
	}
	return pts
}

var polylineScenes = []Scene{
	{
		Name: "helix",
		Meshes: func() []*mesh.Mesh {
			return []*mesh.Mesh{mesh.Sphere(0, pt(0, 0, 0), 0.8, 16, 32)}
		},
		Width:     160,
		Height:    160,
		Camera:    frontCamera(5),
		Polylines: [][]*vector3.Vector3{helix(1, -1.2, 1.2, 3, 180)},
	},
	{
		Name: "frame",
		Meshes: func() []*mesh.Mesh {
			return []*mesh.Mesh{mesh.Torus(0, pt(0, 0, 0), 0.8, 0.3, 48, 16)}
		},
		Width:  160,
		Height: 160,
		Camera: Camera{Eye: pt(0, 2, 4), Target: pt(0, 0, 0), Up: pt(0, 1, 0), FovY: 45, Orbit: 2},
		Polylines: [][]*vector3.Vector3{{
			pt(-1.5, -1, 0), pt(1.5, -1, 0), pt(1.5, 1, 0), pt(-1.5, 1, 0), pt(-1.5, -1, 0),
		}},
	},
}
