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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/idref"
)

func TestResampleDensity(t *testing.T) {
	v := flatView()
	const spacing = 2.0
	for _, x := range []float64{0.9, 0.905, 0.013, 0.007} {
		segs := AddPolyline(nil, polyline(-x, 0, x, 0))
		refs := Preprocess(segs, v, nil, NewFrame(), 48)
		samples := Resample(refs, spacing, v, nil, false)

		require.GreaterOrEqual(t, len(samples), 2)
		assert.Equal(t, refs[0].NDC, samples[0].NDC)
		assert.Equal(t, refs[len(refs)-1].NDC, samples[len(samples)-1].NDC)
		assert.True(t, samples[len(samples)-1].End)

		total := refs[len(refs)-1].Len
		if total <= 1.5*spacing {
			continue
		}
		for i := 1; i < len(samples); i++ {
			d := v.PixelDist(samples[i-1].NDC, samples[i].NDC)
			assert.GreaterOrEqual(t, d, spacing/2-1e-9, "x=%g, gap %d", x, i)
			assert.LessOrEqual(t, d, 1.5*spacing+1e-9, "x=%g, gap %d", x, i)
		}
	}
}

func TestResampleKeepsIdentities(t *testing.T) {
	v := flatView()
	refs := Preprocess(AddPolyline(nil, polyline(-0.9, 0, 0.9, 0)), v, nil, NewFrame(), 48)
	samples := Resample(refs, 2, v, nil, false)

	// identities only change at sub-segment boundaries, in order
	var seen []uint32
	for _, s := range samples {
		id := idref.Identity(s.VisID)
		if len(seen) == 0 || seen[len(seen)-1] != id {
			seen = append(seen, id)
		}
	}
	assert.Len(t, seen, 4)
}

func TestCheckVis(t *testing.T) {
	fr := NewFrame()
	vis := idref.PathID{IsPath: true, Visible: true, Counter: 3}.Encode()
	invis := idref.PathID{IsPath: true, Counter: 3}.Encode()
	fr.Register(vis, 40)
	onlyInvis := &stubImage{w: 200, h: 200, found: func(id uint32) bool { return id == idref.Identity(invis) }}

	ref := func(x, y float64, front bool) *RefSegment {
		return &RefSegment{NDC: vec.Vec2{X: x, Y: y}, Front: front, VisID: vis, InvisID: invis}
	}

	cases := []struct {
		name    string
		s       *RefSegment
		img     idref.Image
		seeThru bool
		want    Visibility
	}{
		{"found", ref(0, 0, true), alwaysFound(), false, Visible},
		{"not found", ref(0, 0, true), neverFound(), false, Occluded},
		{"outside", ref(2, 2, true), alwaysFound(), false, Clipped},
		{"back", ref(0, 0, false), alwaysFound(), false, Backfacing},
		{"back see-through", ref(0, 0, false), alwaysFound(), true, Hidden},
		{"hidden", ref(0, 0, true), onlyInvis, true, Hidden},
		{"hidden without see-through", ref(0, 0, true), onlyInvis, false, Occluded},
		{"edge of frustum", ref(1, -1, true), alwaysFound(), false, Visible},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CheckVis(tc.s, tc.img, fr, tc.seeThru))
		})
	}
}

func TestSearchRadius(t *testing.T) {
	assert.Equal(t, 1, searchRadius(0, false))
	assert.Equal(t, 1, searchRadius(40, true))
	assert.Equal(t, 2, searchRadius(5, true))
	assert.Equal(t, 3, searchRadius(0.5, true))
}

func classified(vis ...Visibility) []SilSeg {
	res := make([]SilSeg, len(vis))
	for i, x := range vis {
		res[i].Vis = x
		res[i].Len = float64(2 * i)
		res[i].NDC = vec.Vec2{X: float64(i) / 100}
	}
	res[len(res)-1].End = true
	return res
}

func TestReconnectGaps(t *testing.T) {
	V, O, C := Visible, Occluded, Clipped

	s := classified(V, V, O, V, V, O, O, O, V)
	ReconnectGaps(s, 4)
	got := make([]Visibility, len(s))
	for i := range s {
		got[i] = s[i].Vis
	}
	// the single occluded sample spans 4 pixels, the triple 8
	assert.Equal(t, []Visibility{V, V, V, V, V, O, O, O, V}, got)

	s = classified(V, C, V)
	ReconnectGaps(s, 10)
	assert.Equal(t, Clipped, s[1].Vis)
}

func TestLoopClean(t *testing.T) {
	v := flatView()
	V, O := Visible, Occluded
	s := classified(V, V, O, V, V, V)
	s[5].NDC = s[0].NDC

	out := LoopClean(s, v)
	// the run now starts after the occluded sample and ends with it; the
	// duplicated seam point is dropped
	require.Len(t, out, 5)
	assert.Equal(t, s[3].NDC, out[0].NDC)
	assert.Equal(t, s[0].NDC, out[2].NDC)
	assert.Equal(t, O, out[4].Vis)
	assert.Equal(t, 0.0, out[0].Len)
	assert.True(t, out[4].End)
	assert.False(t, out[1].End)
	for i := 1; i < len(out); i++ {
		assert.GreaterOrEqual(t, out[i].Len, out[i-1].Len)
	}

	// fully visible loops stay
	s = classified(V, V, V, V)
	s[3].NDC = s[0].NDC
	out = LoopClean(s, v)
	assert.Equal(t, s, out)
}
