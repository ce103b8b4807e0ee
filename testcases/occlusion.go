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
	"github.com/QuLogic/jot-lib-sub005/config"
	"github.com/QuLogic/jot-lib-sub005/mesh"
)

func sphereBehindBox() []*mesh.Mesh {
	return []*mesh.Mesh{
		mesh.Sphere(0, pt(0.4, 0.2, -1), 1, 16, 32),
		mesh.Box(1, pt(-0.4, -0.2, 0.8), 1, 1, 0.5),
	}
}

var occlusionScenes = []Scene{
	{
		Name:   "sphere_behind_box",
		Meshes: sphereBehindBox,
		Width:  160,
		Height: 160,
		Camera: frontCamera(6),
	},
	{
		Name:   "see_thru",
		Meshes: sphereBehindBox,
		Width:  160,
		Height: 160,
		Camera: frontCamera(6),
		Config: func(c *config.Config) { c.SeeThru = true },
	},
	{
		Name: "passing",
		Meshes: func() []*mesh.Mesh {
			return []*mesh.Mesh{
				mesh.Sphere(0, pt(0, 0, -1), 1, 16, 32),
				mesh.Sphere(1, pt(-1.2, 0, 1), 0.5, 12, 24),
			}
		},
		Width:  160,
		Height: 160,
		Camera: frontCamera(6),
		Motion: Translate{Mesh: 1, Step: pt(0.05, 0, 0)},
	},
}
