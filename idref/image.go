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
	"image"
	"math"

	"seehuhn.de/go/geom/vec"
)

// Image is the query side of an ID-reference image. NDC points use the
// [-1,1]×[-1,1] square with y pointing up; pixels use image coordinates
// with y pointing down.
type Image interface {
	// FindValInBox reports whether some pixel within radius pixels of the
	// NDC point p (a (2·radius+1)² box) holds a value v with
	// v&mask == id&mask.
	FindValInBox(id, mask uint32, p vec.Vec2, radius int) bool

	// Val returns the value at pixel p, or 0 outside the image.
	Val(p image.Point) uint32

	// SetVal overwrites the value at pixel p. It is only used for debug
	// visualisation.
	SetVal(p image.Point, v uint32)

	// NDCToPix converts an NDC point to continuous pixel coordinates.
	NDCToPix(p vec.Vec2) vec.Vec2

	Bounds() image.Rectangle
}

// Canvas is an Image that can also be drawn into. Draw calls must be
// complete before the image is queried.
type Canvas interface {
	Image

	// Clear resets all values to 0 and the depth buffer to "far".
	Clear()

	// DrawTriangle draws a depth-tested mesh face.
	DrawTriangle(p [3]vec.Vec2, z [3]float64, val uint32)

	// DrawPolyline draws the polyline through the NDC points p with
	// per-point depths z and encoded values ids. Each pixel receives the
	// identity of the nearer end of its segment and a position
	// interpolated along the segment. It reports whether any pixel was
	// covered; depth-rejected pixels count as covered.
	DrawPolyline(p []vec.Vec2, z []float64, ids []uint32, depthTest bool) bool
}

// PixelAt rounds continuous pixel coordinates down to the pixel that
// contains them.
func PixelAt(p vec.Vec2) image.Point {
	return image.Point{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// ndcToPix maps NDC to pixel coordinates of a w×h image, y down.
func ndcToPix(p vec.Vec2, w, h int) vec.Vec2 {
	return vec.Vec2{
		X: (p.X + 1) / 2 * float64(w),
		Y: (1 - p.Y) / 2 * float64(h),
	}
}
