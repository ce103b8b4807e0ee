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

package idref

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/geom/vec"
)

// pixCenter returns the NDC coordinates of the centre of pixel (x, y).
func pixCenter(b *Buffer, x, y int) vec.Vec2 {
	w, h := float64(b.Bounds().Dx()), float64(b.Bounds().Dy())
	return vec.Vec2{
		X: (float64(x)+0.5)/w*2 - 1,
		Y: 1 - (float64(y)+0.5)/h*2,
	}
}

// fullScreen covers the whole buffer with two triangles at depth z.
func fullScreen(b *Buffer, z float64, val uint32) {
	zz := [3]float64{z, z, z}
	b.DrawTriangle([3]vec.Vec2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: 1, Y: 1}}, zz, val)
	b.DrawTriangle([3]vec.Vec2{{X: -1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}}, zz, val)
}

func TestNDCToPix(t *testing.T) {
	b := NewBuffer(40, 20)
	assert.Equal(t, vec.Vec2{X: 0, Y: 20}, b.NDCToPix(vec.Vec2{X: -1, Y: -1}))
	assert.Equal(t, vec.Vec2{X: 40, Y: 0}, b.NDCToPix(vec.Vec2{X: 1, Y: 1}))
	assert.Equal(t, image.Point{X: 7, Y: 3}, PixelAt(b.NDCToPix(pixCenter(b, 7, 3))))
}

func TestValOutside(t *testing.T) {
	b := NewBuffer(4, 4)
	b.SetVal(image.Point{X: -1, Y: 2}, 9)
	b.SetVal(image.Point{X: 4, Y: 0}, 9)
	assert.Equal(t, uint32(0), b.Val(image.Point{X: -1, Y: 2}))
	assert.Equal(t, uint32(0), b.Val(image.Point{X: 4, Y: 0}))
	assert.True(t, math.IsInf(b.Depth(image.Point{X: 9, Y: 9}), 1))
}

func TestFindValInBox(t *testing.T) {
	b := NewBuffer(20, 20)
	id := PathID{IsPath: true, Visible: true, Counter: 12, Position: 40}.Encode()
	b.SetVal(image.Point{X: 10, Y: 10}, id)

	q := pixCenter(b, 12, 10)
	assert.False(t, b.FindValInBox(id, IdentityMask, q, 1))
	assert.True(t, b.FindValInBox(id, IdentityMask, q, 2))

	// position bits are ignored by the identity mask
	assert.True(t, b.FindValInBox(WithPosition(id, 200), IdentityMask, q, 2))
	assert.False(t, b.FindValInBox(WithPosition(id, 200), 0xffffffff, q, 2))
	assert.False(t, b.FindValInBox(id&^VisBit, IdentityMask, q, 2))

	// boxes reaching past the image border are clipped
	assert.False(t, b.FindValInBox(id, IdentityMask, vec.Vec2{X: 5, Y: 5}, 3))
}

func TestDrawTriangleDepth(t *testing.T) {
	b := NewBuffer(20, 20)
	centre := image.Point{X: 10, Y: 10}

	fullScreen(b, 0.5, FaceValue(4))
	assert.Equal(t, FaceValue(4), b.Val(centre))
	assert.InDelta(t, 0.5, b.Depth(centre), 1e-6)

	fullScreen(b, 0.2, FaceValue(6))
	assert.Equal(t, FaceValue(6), b.Val(centre))

	fullScreen(b, 0.9, FaceValue(8))
	assert.Equal(t, FaceValue(6), b.Val(centre))
	assert.InDelta(t, 0.2, b.Depth(centre), 1e-6)

	b.Clear()
	assert.Equal(t, uint32(0), b.Val(centre))
}

func TestDrawTriangleInterpolatesDepth(t *testing.T) {
	b := NewBuffer(20, 20)
	tri := [3]vec.Vec2{{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}}
	b.DrawTriangle(tri, [3]float64{0, 1, 0}, 1)

	// depth grows linearly with x, from 0 at the left edge to 1 at the right
	assert.InDelta(t, 1.5/20, b.Depth(image.Point{X: 1, Y: 18}), 1e-6)
	assert.InDelta(t, 15.5/20, b.Depth(image.Point{X: 15, Y: 18}), 1e-6)
}

func TestDrawPolylinePositions(t *testing.T) {
	b := NewBuffer(40, 40)
	base := PathID{IsPath: true, Visible: true, Counter: 77}.Encode()
	p := []vec.Vec2{{X: -0.8, Y: 0}, {X: 0.8, Y: 0}}
	ids := []uint32{WithPosition(base, 0), WithPosition(base, 255)}

	ok := b.DrawPolyline(p, []float64{0, 0}, ids, false)
	require.True(t, ok)

	mid := b.Val(image.Point{X: 20, Y: 20})
	assert.Equal(t, Identity(base), Identity(mid))
	assert.InDelta(t, 131, float64(Position(mid)), 2)

	start := b.Val(image.Point{X: 4, Y: 20})
	assert.Equal(t, Identity(base), Identity(start))
	assert.Less(t, Position(start), uint8(10))

	assert.Equal(t, uint32(0), b.Val(image.Point{X: 20, Y: 25}))
}

func TestDrawPolylineNearerEnd(t *testing.T) {
	b := NewBuffer(40, 40)
	a := PathID{IsPath: true, Counter: 1, Position: 250}.Encode()
	c := PathID{IsPath: true, Counter: 2, Position: 0}.Encode()
	p := []vec.Vec2{{X: -0.8, Y: 0}, {X: 0.8, Y: 0}}
	b.DrawPolyline(p, []float64{0, 0}, []uint32{a, c}, false)

	assert.Equal(t, a, b.Val(image.Point{X: 8, Y: 20}))
	assert.Equal(t, c, b.Val(image.Point{X: 32, Y: 20}))
}

func TestDrawPolylineDepthTest(t *testing.T) {
	b := NewBuffer(20, 20)
	fullScreen(b, 1, FaceValue(0))
	id := PathID{IsPath: true, Visible: true, Counter: 3}.Encode()
	p := []vec.Vec2{{X: -0.5, Y: 0}, {X: 0.5, Y: 0}}
	ids := []uint32{id, id}
	px := image.Point{X: 10, Y: 10}

	// behind the face: covered, but nothing written
	require.True(t, b.DrawPolyline(p, []float64{1.5, 1.5}, ids, true))
	assert.Equal(t, FaceValue(0), b.Val(px))

	// within the bias
	b.DrawPolyline(p, []float64{1.01, 1.01}, ids, true)
	assert.Equal(t, id, b.Val(px))

	// without the depth test, depth is ignored
	inv := (id &^ VisBit) | 1
	b.DrawPolyline(p, []float64{1.5, 1.5}, []uint32{inv, inv}, false)
	assert.Equal(t, Identity(inv), Identity(b.Val(px)))
}

func TestDrawPolylineDegenerate(t *testing.T) {
	b := NewBuffer(10, 10)
	assert.False(t, b.DrawPolyline([]vec.Vec2{{X: 0, Y: 0}}, []float64{0}, []uint32{PathBit}, false))
	assert.False(t, b.DrawPolyline(
		[]vec.Vec2{{X: 5, Y: 5}, {X: 6, Y: 5}}, []float64{0, 0}, []uint32{PathBit, PathBit}, false))
}

func TestResize(t *testing.T) {
	b := NewBuffer(10, 10)
	b.SetVal(image.Point{X: 1, Y: 1}, 5)
	b.Resize(5, 8)
	assert.Equal(t, image.Rect(0, 0, 5, 8), b.Bounds())
	assert.Equal(t, uint32(0), b.Val(image.Point{X: 1, Y: 1}))
	fullScreen(b, 0.1, 3)
	assert.Equal(t, uint32(3), b.Val(image.Point{X: 4, Y: 7}))
}

func TestWritePNG(t *testing.T) {
	b := NewBuffer(8, 6)
	b.SetVal(image.Point{X: 1, Y: 1}, FaceValue(2))
	b.SetVal(image.Point{X: 2, Y: 1}, PathID{IsPath: true, Visible: true, Counter: 9}.Encode())

	buf := &bytes.Buffer{}
	require.NoError(t, b.WritePNG(buf))
	img, err := png.Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, b.Bounds(), img.Bounds())

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	r, g, bl, _ := img.At(1, 1).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, bl)
}
