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

// Sphere returns a latitude/longitude sphere.
func Sphere(id int, center *vector3.Vector3, radius float64, stacks, slices int) *Mesh {
	stacks, slices = max(stacks, 2), max(slices, 3)
	verts := []*vector3.Vector3{center.Add(vector3.New(0, radius, 0))}
	for i := 1; i < stacks; i++ {
		theta := math.Pi * float64(i) / float64(stacks)
		y, rho := radius*math.Cos(theta), radius*math.Sin(theta)
		for j := range slices {
			phi := 2 * math.Pi * float64(j) / float64(slices)
			verts = append(verts, center.Add(vector3.New(rho*math.Cos(phi), y, rho*math.Sin(phi))))
		}
	}
	verts = append(verts, center.Add(vector3.New(0, -radius, 0)))
	bottom := len(verts) - 1

	ring := func(i, j int) int { return 1 + (i-1)*slices + (j % slices) }
	var faces [][3]int
	for j := range slices {
		faces = append(faces, [3]int{0, ring(1, j), ring(1, j+1)})
	}
	for i := 1; i < stacks-1; i++ {
		for j := range slices {
			a, b := ring(i, j), ring(i, j+1)
			c, d := ring(i+1, j), ring(i+1, j+1)
			faces = append(faces, [3]int{a, c, d}, [3]int{a, d, b})
		}
	}
	for j := range slices {
		faces = append(faces, [3]int{bottom, ring(stacks-1, j+1), ring(stacks-1, j)})
	}
	orientOutward(verts, faces, func(*vector3.Vector3) *vector3.Vector3 { return center })
	return mustMesh(id, verts, faces)
}

// Torus returns a torus around the y axis through center, with major
// radius big and tube radius small.
func Torus(id int, center *vector3.Vector3, big, small float64, nu, nv int) *Mesh {
	nu, nv = max(nu, 3), max(nv, 3)
	var verts []*vector3.Vector3
	for i := range nu {
		u := 2 * math.Pi * float64(i) / float64(nu)
		for j := range nv {
			v := 2 * math.Pi * float64(j) / float64(nv)
			r := big + small*math.Cos(v)
			verts = append(verts, center.Add(vector3.New(r*math.Cos(u), small*math.Sin(v), r*math.Sin(u))))
		}
	}
	idx := func(i, j int) int { return (i%nu)*nv + j%nv }
	var faces [][3]int
	for i := range nu {
		for j := range nv {
			a, b := idx(i, j), idx(i+1, j)
			c, d := idx(i, j+1), idx(i+1, j+1)
			faces = append(faces, [3]int{a, b, d}, [3]int{a, d, c})
		}
	}
	core := func(p *vector3.Vector3) *vector3.Vector3 {
		d := p.Sub(center)
		l := math.Hypot(d.X, d.Z)
		if l == 0 {
			return center
		}
		return center.Add(vector3.New(d.X*big/l, 0, d.Z*big/l))
	}
	orientOutward(verts, faces, core)
	return mustMesh(id, verts, faces)
}

// Box returns an axis aligned box with the given edge lengths.
func Box(id int, center *vector3.Vector3, sx, sy, sz float64) *Mesh {
	var verts []*vector3.Vector3
	for _, z := range []float64{-sz / 2, sz / 2} {
		for _, y := range []float64{-sy / 2, sy / 2} {
			for _, x := range []float64{-sx / 2, sx / 2} {
				verts = append(verts, center.Add(vector3.New(x, y, z)))
			}
		}
	}
	quads := [][4]int{
		{0, 2, 3, 1}, {4, 5, 7, 6}, // z
		{0, 1, 5, 4}, {2, 6, 7, 3}, // y
		{0, 4, 6, 2}, {1, 3, 7, 5}, // x
	}
	var faces [][3]int
	for _, q := range quads {
		faces = append(faces, [3]int{q[0], q[1], q[2]}, [3]int{q[0], q[2], q[3]})
	}
	orientOutward(verts, faces, func(*vector3.Vector3) *vector3.Vector3 { return center })
	return mustMesh(id, verts, faces)
}

// Grid returns a flat w×h sheet in the z=0 plane with normal +z, split
// into nx×ny quads. It has a border all the way around.
func Grid(id int, center *vector3.Vector3, w, h float64, nx, ny int) *Mesh {
	nx, ny = max(nx, 1), max(ny, 1)
	var verts []*vector3.Vector3
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			x := -w/2 + w*float64(i)/float64(nx)
			y := -h/2 + h*float64(j)/float64(ny)
			verts = append(verts, center.Add(vector3.New(x, y, 0)))
		}
	}
	idx := func(i, j int) int { return j*(nx+1) + i }
	var faces [][3]int
	for j := range ny {
		for i := range nx {
			a, b := idx(i, j), idx(i+1, j)
			c, d := idx(i, j+1), idx(i+1, j+1)
			faces = append(faces, [3]int{a, b, d}, [3]int{a, d, c})
		}
	}
	return mustMesh(id, verts, faces)
}

// orientOutward flips faces whose normal points towards the interior
// reference point returned by inside.
func orientOutward(verts []*vector3.Vector3, faces [][3]int, inside func(*vector3.Vector3) *vector3.Vector3) {
	for i, f := range faces {
		p0, p1, p2 := verts[f[0]], verts[f[1]], verts[f[2]]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		c := p0.Add(p1).Add(p2).MulScalar(1.0 / 3)
		if n.Dot(c.Sub(inside(c))) < 0 {
			faces[i] = [3]int{f[0], f[2], f[1]}
		}
	}
}

// mustMesh is used by the shape constructors, whose topology is valid by
// construction.
func mustMesh(id int, verts []*vector3.Vector3, faces [][3]int) *Mesh {
	m, err := NewMesh(id, verts, faces)
	if err != nil {
		panic(err)
	}
	return m
}
