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
	"image"
	"math"

	"github.com/deeean/go-vector/vector3"
	"golang.org/x/image/math/f64"
	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/idref"
	"github.com/QuLogic/jot-lib-sub005/mesh"
	"github.com/QuLogic/jot-lib-sub005/view"
)

// flatView maps world (x, y, z) to NDC (x, y) with depth 1. At 200×200
// pixels one NDC unit is 100 pixels.
func flatView() view.View {
	return view.View{
		Proj: f64.Mat4{
			1, 0, 0, 0,
			0, 1, 0, 0,
			0, 0, 1, 0,
			0, 0, 0, 1,
		},
		Width:  200,
		Height: 200,
		Eye:    vector3.New(0, 0, 10),
	}
}

// stubImage answers FindValInBox queries from a fixed rule.
type stubImage struct {
	w, h  int
	found func(id uint32) bool
	val   func(p image.Point) uint32
}

func (s *stubImage) FindValInBox(id, mask uint32, _ vec.Vec2, _ int) bool {
	return s.found != nil && s.found(id&mask)
}

func (s *stubImage) Val(p image.Point) uint32 {
	if s.val == nil || p.X < 0 || p.Y < 0 || p.X >= s.w || p.Y >= s.h {
		return 0
	}
	return s.val(p)
}

func (s *stubImage) SetVal(image.Point, uint32) {}

func (s *stubImage) NDCToPix(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{X: (p.X + 1) / 2 * float64(s.w), Y: (1 - p.Y) / 2 * float64(s.h)}
}

func (s *stubImage) Bounds() image.Rectangle { return image.Rect(0, 0, s.w, s.h) }

func alwaysFound() *stubImage {
	return &stubImage{w: 200, h: 200, found: func(uint32) bool { return true }}
}

func neverFound() *stubImage {
	return &stubImage{w: 200, h: 200}
}

// stubCanvas accepts every draw call.
type stubCanvas struct {
	*stubImage
	polylines int
}

func (c *stubCanvas) Clear()                                       {}
func (c *stubCanvas) DrawTriangle([3]vec.Vec2, [3]float64, uint32) {}
func (c *stubCanvas) DrawPolyline(p []vec.Vec2, _ []float64, _ []uint32, _ bool) bool {
	c.polylines++
	return len(p) >= 2
}

var _ idref.Canvas = (*stubCanvas)(nil)

// fixedSurface locates every anchor at the same point.
type fixedSurface struct {
	pos, normal *vector3.Vector3
}

func (s fixedSurface) Locate(mesh.Anchor) (*vector3.Vector3, *vector3.Vector3, error) {
	return s.pos, s.normal, nil
}

func (s fixedSurface) Between(a, b mesh.Anchor, t float64) (mesh.Anchor, bool) {
	return mesh.Anchor{}, false
}

// polyline returns world points at the given NDC positions of flatView.
func polyline(xy ...float64) []*vector3.Vector3 {
	var res []*vector3.Vector3
	for i := 0; i+1 < len(xy); i += 2 {
		res = append(res, vector3.New(xy[i], xy[i+1], 0))
	}
	return res
}

// closedPolygon returns a regular n-gon of radius r, with the first point
// repeated at the end.
func closedPolygon(n int, r float64) []*vector3.Vector3 {
	pts := make([]*vector3.Vector3, n+1)
	for i := range n {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = vector3.New(r*math.Cos(a), r*math.Sin(a), 0)
	}
	pts[n] = pts[0]
	return pts
}

// straightPath builds a completed visible path of n points along y = 0
// from x0 to x1 (NDC), drawn with a single identity.
func straightPath(v view.View, n int, x0, x1 float64) *LuboPath {
	id := idref.PathID{IsPath: true, Visible: true, Counter: 1}.Encode()
	p := &LuboPath{Type: Sil, Vis: Visible}
	for i := range n {
		f := float64(i) / float64(n-1)
		x := x0 + f*(x1-x0)
		s := &SilSeg{RefSegment: RefSegment{
			World: vector3.New(x, 0, 0),
			NDC:   vec.Vec2{X: x, Y: 0},
		}}
		p.add(s, idref.WithPosition(id, uint8(f*255+0.5)))
	}
	p.Complete(v)
	return p
}
