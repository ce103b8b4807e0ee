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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/idref"
)

func TestIntersectWithFrustum(t *testing.T) {
	cases := []struct {
		name  string
		a, b  vec.Vec2
		p     vec.Vec2
		t     float64
		found bool
	}{
		{"right", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 2, Y: 0}, vec.Vec2{X: 1, Y: 0}, 0.5, true},
		{"bottom", vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 0, Y: -3}, vec.Vec2{X: 0, Y: -1}, 1.0 / 3, true},
		{"corner", vec.Vec2{X: 0.5, Y: 0.5}, vec.Vec2{X: 3, Y: 3}, vec.Vec2{X: 1, Y: 1}, 0.2, true},
		{"left", vec.Vec2{X: -3, Y: 0.5}, vec.Vec2{X: 0, Y: 0.5}, vec.Vec2{X: -1, Y: 0.5}, 2.0 / 3, true},
		{"degenerate", vec.Vec2{X: 1, Y: 0}, vec.Vec2{X: 1, Y: 0}, vec.Vec2{X: 1, Y: 0}, 0, true},
		{"outside", vec.Vec2{X: 2, Y: 2}, vec.Vec2{X: 3, Y: 3}, vec.Vec2{}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p, f, ok := IntersectWithFrustum(tc.a, tc.b)
			require.Equal(t, tc.found, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tc.p.X, p.X, 1e-12)
			assert.InDelta(t, tc.p.Y, p.Y, 1e-12)
			assert.InDelta(t, tc.t, f, 1e-12)
			assert.GreaterOrEqual(t, f, 0.0)
			assert.LessOrEqual(t, f, 1.0)
			onEdge := math.Abs(p.X) == 1 || math.Abs(p.Y) == 1
			assert.True(t, onEdge, "point %v not on a frustum edge", p)
		})
	}
}

func TestPreprocessClipsAtFrustum(t *testing.T) {
	v := flatView()
	segs := AddPolyline(nil, polyline(-2, 0, 0, 0, 2, 0))
	refs := Preprocess(segs, v, nil, NewFrame(), 1000)

	require.Len(t, refs, 3)
	assert.Equal(t, vec.Vec2{X: -1, Y: 0}, refs[0].NDC)
	assert.Equal(t, vec.Vec2{X: 0, Y: 0}, refs[1].NDC)
	assert.Equal(t, vec.Vec2{X: 1, Y: 0}, refs[2].NDC)

	// the arc length equals the length of the visible part
	assert.InDelta(t, 100, refs[1].Len, 1e-9)
	assert.InDelta(t, 200, refs[2].Len, 1e-9)
	assert.True(t, refs[2].End)
	assert.False(t, refs[0].End)

	// clip points carry interpolated world positions
	assert.InDelta(t, 1, refs[2].World.X, 1e-12)
}

func TestPreprocessDropsOutsideRuns(t *testing.T) {
	v := flatView()
	segs := AddPolyline(nil, polyline(2, 2, 3, 2))
	segs = AddPolyline(segs, polyline(-0.5, 0, 0.5, 0))
	refs := Preprocess(segs, v, nil, NewFrame(), 1000)
	require.Len(t, refs, 2)
	assert.Equal(t, vec.Vec2{X: -0.5, Y: 0}, refs[0].NDC)
}

func TestPreprocessSubSegments(t *testing.T) {
	v := flatView()
	fr := NewFrame()
	segs := AddPolyline(nil, polyline(-0.9, 0, 0.9, 0))
	refs := Preprocess(segs, v, nil, fr, 48)

	// 180 pixels are cut into four sub-segments of 45 pixels, with two
	// coincident points at each of the three boundaries
	require.Len(t, refs, 8)
	for i, b := range []int{1, 3, 5} {
		end, start := refs[b], refs[b+1]
		assert.InDelta(t, 45*float64(i+1), end.Len, 1e-9)
		assert.Equal(t, end.NDC, start.NDC)
		assert.Equal(t, uint8(255), idref.Position(end.VisID))
		assert.Equal(t, uint8(0), idref.Position(start.VisID))
		assert.NotEqual(t, idref.Identity(end.VisID), idref.Identity(start.VisID))
	}
	assert.InDelta(t, -0.45, refs[1].NDC.X, 1e-12)

	counters := map[uint32]bool{}
	for _, r := range refs {
		assert.True(t, idref.IsVisPath(r.VisID))
		assert.True(t, idref.IsInvisPath(r.InvisID))
		assert.Equal(t, r.VisID&^idref.VisBit, r.InvisID)
		counters[idref.Decode(r.VisID).Counter] = true
	}
	assert.Equal(t, map[uint32]bool{0: true, 1: true, 2: true, 3: true}, counters)
	assert.Equal(t, uint8(255), idref.Position(refs[7].VisID))
}

func TestPreprocessRejoinsClosedLoop(t *testing.T) {
	v := flatView()
	pts := polyline(0, 0, 0.5, 0.5, 3, 0.5, 0.5, -0.5)
	pts = append(pts, pts[0])
	refs := Preprocess(AddPolyline(nil, pts), v, nil, NewFrame(), 1000)

	// one run from the re-entry point around the seam to the exit point
	require.Len(t, refs, 5)
	assert.InDelta(t, 1, refs[0].NDC.X, 1e-12)
	assert.InDelta(t, -0.3, refs[0].NDC.Y, 1e-12)
	assert.Equal(t, vec.Vec2{X: 0, Y: 0}, refs[2].NDC)
	assert.InDelta(t, 1, refs[4].NDC.X, 1e-12)
	assert.InDelta(t, 0.5, refs[4].NDC.Y, 1e-12)
	for i := 1; i < len(refs); i++ {
		assert.Greater(t, refs[i].Len, refs[i-1].Len)
	}
	assert.True(t, refs[4].End)
}
