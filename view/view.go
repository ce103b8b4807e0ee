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

// Package view implements the camera used by the silhouette pipeline: the
// world→clip projection, normalised device coordinates (NDC) and the
// conversion between NDC and pixels.
package view

import (
	"math"

	"github.com/deeean/go-vector/vector3"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/vec"
)

// View is a camera. Proj maps homogeneous world coordinates to clip
// coordinates and is stored row-major. After the perspective divide, the
// visible region is the NDC square [-1,1]×[-1,1].
type View struct {
	Proj          f64.Mat4
	Width, Height int
	Eye           *vector3.Vector3
}

// LookAt returns a perspective camera at eye looking towards target.
// FovY is the vertical field of view in degrees.
func LookAt(eye, target, up *vector3.Vector3, fovY float64, width, height int) View {
	f := target.Sub(eye).Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	camera := f64.Mat4{
		s.X, s.Y, s.Z, -s.Dot(eye),
		u.X, u.Y, u.Z, -u.Dot(eye),
		-f.X, -f.Y, -f.Z, f.Dot(eye),
		0, 0, 0, 1,
	}

	dist := target.Sub(eye).Magnitude()
	near, far := dist/100, dist*100
	proj := Perspective(fovY, float64(width)/float64(height), near, far)
	return View{
		Proj:   mul(proj, camera),
		Width:  width,
		Height: height,
		Eye:    vector3.New(eye.X, eye.Y, eye.Z),
	}
}

// Perspective returns the OpenGL style projection matrix for the given
// vertical field of view (degrees), aspect ratio and clip planes.
func Perspective(fovY, aspect, near, far float64) f64.Mat4 {
	f := 1 / math.Tan(fovY*math.Pi/360)
	return f64.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) / (near - far), 2 * far * near / (near - far),
		0, 0, -1, 0,
	}
}

func mul(a, b f64.Mat4) f64.Mat4 {
	var c f64.Mat4
	for i := range 4 {
		for j := range 4 {
			var s float64
			for k := range 4 {
				s += a[4*i+k] * b[4*k+j]
			}
			c[4*i+j] = s
		}
	}
	return c
}

func (v View) row(i int, p *vector3.Vector3) float64 {
	m := v.Proj[4*i:]
	return m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3]
}

func (v View) rowDir(i int, d *vector3.Vector3) float64 {
	m := v.Proj[4*i:]
	return m[0]*d.X + m[1]*d.Y + m[2]*d.Z
}

// Project maps a world point to NDC. The depth z is the distance from the
// eye plane, in world units. The result is not ok for points at or behind
// the eye plane.
func (v View) Project(p *vector3.Vector3) (ndc vec.Vec2, z float64, ok bool) {
	w := v.row(3, p)
	if w <= 1e-12 {
		return vec.Vec2{}, 0, false
	}
	ndc = vec.Vec2{X: v.row(0, p) / w, Y: v.row(1, p) / w}
	return ndc, w, true
}

// ProjectDir maps the world direction d at the point p to the
// corresponding NDC direction, using the derivative of the projection.
func (v View) ProjectDir(p, d *vector3.Vector3) vec.Vec2 {
	w := v.row(3, p)
	if w <= 1e-12 {
		return vec.Vec2{}
	}
	dw := v.rowDir(3, d)
	x, y := v.row(0, p), v.row(1, p)
	return vec.Vec2{
		X: (v.rowDir(0, d)*w - x*dw) / (w * w),
		Y: (v.rowDir(1, d)*w - y*dw) / (w * w),
	}
}

// InFrustum reports whether an NDC point lies in the visible square.
func InFrustum(ndc vec.Vec2) bool {
	return ndc.X >= -1 && ndc.X <= 1 && ndc.Y >= -1 && ndc.Y <= 1
}

// NDCToPix converts NDC to continuous pixel coordinates with y pointing
// down.
func (v View) NDCToPix(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: (p.X + 1) / 2 * float64(v.Width),
		Y: (1 - p.Y) / 2 * float64(v.Height),
	}
}

// PixToNDC is the inverse of NDCToPix.
func (v View) PixToNDC(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: 2*p.X/float64(v.Width) - 1,
		Y: 1 - 2*p.Y/float64(v.Height),
	}
}

// PixelVec converts an NDC displacement to a pixel displacement.
func (v View) PixelVec(d vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: d.X * float64(v.Width) / 2, Y: -d.Y * float64(v.Height) / 2}
}

// NDCVec converts a pixel displacement to an NDC displacement.
func (v View) NDCVec(d vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: 2 * d.X / float64(v.Width), Y: -2 * d.Y / float64(v.Height)}
}

// PixelDist returns the distance in pixels between two NDC points.
func (v View) PixelDist(a, b vec.Vec2) float64 {
	return v.PixelVec(b.Sub(a)).Length()
}

// PixelScale returns the number of pixels per NDC unit along x.
func (v View) PixelScale() float64 { return float64(v.Width) / 2 }

// Equal reports whether two views produce identical projections.
func (v View) Equal(o View) bool {
	if v.Proj != o.Proj || v.Width != o.Width || v.Height != o.Height {
		return false
	}
	if v.Eye == nil || o.Eye == nil {
		return v.Eye == o.Eye
	}
	return *v.Eye == *o.Eye
}
