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

	"github.com/QuLogic/jot-lib-sub005/config"
	"github.com/QuLogic/jot-lib-sub005/mesh"
)

// votes returns votes of one stroke at s = from, from+step, ... to, with
// t = s + dt.
func votes(stroke int, from, to, step, dt float64) []LuboVote {
	var res []LuboVote
	for s := from; s <= to; s += step {
		res = append(res, LuboVote{S: s, T: s + dt, StrokeID: stroke, Conf: 1})
	}
	return res
}

func vertexAnchor(i int) mesh.Anchor {
	return mesh.Anchor{Simplex: mesh.Simplex{Kind: mesh.Vertex, Index: i}, Bary: [3]float64{1}}
}

func counter(start int) func() int {
	return func() int {
		start++
		return start - 1
	}
}

func TestVoteGroupSort(t *testing.T) {
	g := &VoteGroup{Votes: []LuboVote{{S: 5, T: 1}, {S: 1, T: 3}, {S: 3, T: 0}, {S: 1, T: 2}}}
	g.Sort()
	for i := 1; i < len(g.Votes); i++ {
		assert.LessOrEqual(t, g.Votes[i-1].S, g.Votes[i].S)
	}
	assert.Equal(t, g.Votes[0].S, g.Begin)
	assert.Equal(t, g.Votes[len(g.Votes)-1].S, g.End)
	assert.Equal(t, 2.0, g.Votes[0].T)
}

func TestGetT(t *testing.T) {
	g := &VoteGroup{}
	assert.Equal(t, 0.0, g.GetT(12))

	g.Fits = []Fit{{S: 4, T: 9}}
	assert.Equal(t, 9.0, g.GetT(0))
	assert.Equal(t, 9.0, g.GetT(100))

	g.Fits = []Fit{{S: 0, T: 10}, {S: 10, T: 20}, {S: 20, T: 20}}
	assert.Equal(t, 10.0, g.GetT(-5))
	assert.InDelta(t, 15, g.GetT(5), 1e-12)
	assert.InDelta(t, 20, g.GetT(15), 1e-12)
	assert.Equal(t, 20.0, g.GetT(30))
}

func TestFitIsMonotone(t *testing.T) {
	g := &VoteGroup{Votes: []LuboVote{{S: 0, T: 0}, {S: 2, T: 5}, {S: 4, T: 3}, {S: 4, T: 4}, {S: 6, T: 8}}}
	g.Sort()
	g.fit()
	require.Len(t, g.Fits, 4)
	for i := 1; i < len(g.Fits); i++ {
		assert.Greater(t, g.Fits[i].S, g.Fits[i-1].S)
		assert.GreaterOrEqual(t, g.Fits[i].T, g.Fits[i-1].T)
	}
}

func TestGroupVotesFreshStroke(t *testing.T) {
	cfg := config.Default()
	p := straightPath(flatView(), 11, -0.5, 0.5)
	GroupVotes(p, &cfg, counter(40))

	require.Len(t, p.Groups, 1)
	g := p.Groups[0]
	assert.True(t, g.Good())
	assert.True(t, g.Fresh)
	assert.Equal(t, 40, g.ID)
	assert.Equal(t, 0.0, g.Begin)
	assert.InDelta(t, 100, g.End, 1e-9)
	assert.InDelta(t, 37, g.GetT(37), 1e-9)
	assert.Same(t, p, g.Path)
}

func TestGroupVotesKeepsStroke(t *testing.T) {
	cfg := config.Default()
	p := straightPath(flatView(), 11, -0.5, 0.5)
	p.Votes = votes(7, 0, 96, 8, 10)
	GroupVotes(p, &cfg, counter(100))

	require.Len(t, p.Groups, 1)
	g := p.Groups[0]
	assert.Equal(t, GroupGood, g.Status)
	assert.False(t, g.Fresh)
	assert.Equal(t, 7, g.ID)
	assert.Equal(t, 0.0, g.Begin)
	// the last 4 px carry no vote and are taken over by the group
	assert.InDelta(t, 100, g.End, 1e-9)
	assert.InDelta(t, 60, g.GetT(50), 1e-9)
	assert.InDelta(t, 110, g.GetT(100), 1e-9)
}

func TestGroupVotesRejections(t *testing.T) {
	cfg := config.Default()

	cases := []struct {
		name  string
		votes []LuboVote
		want  []GroupStatus
	}{
		{"gap", append(votes(1, 0, 40, 8, 0), votes(1, 80, 96, 8, 0)...),
			[]GroupStatus{GroupGood, GroupSplitGap}},
		{"jump", append(votes(1, 0, 40, 8, 0), votes(1, 48, 72, 8, 500)...),
			[]GroupStatus{GroupGood, GroupSplitJump}},
		{"too few", votes(1, 0, 8, 8, 0), []GroupStatus{GroupTooFewVotes}},
		{"too short", []LuboVote{{S: 10, T: 0, StrokeID: 1}, {S: 12, T: 2, StrokeID: 1}, {S: 14, T: 4, StrokeID: 1}},
			[]GroupStatus{GroupTooShort}},
		{"backward", votes(1, 0, 96, 8, 0), nil},
	}
	// t running against s
	for i := range cases[4].votes {
		cases[4].votes[i].T = 200 - cases[4].votes[i].S
	}
	cases[4].want = []GroupStatus{GroupBackward}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := straightPath(flatView(), 11, -0.5, 0.5)
			p.Votes = tc.votes
			GroupVotes(p, &cfg, counter(50))

			var got []GroupStatus
			fresh := 0
			for _, g := range p.Groups {
				if g.Fresh {
					fresh++
					continue
				}
				got = append(got, g.Status)
			}
			assert.Equal(t, tc.want, got)
			// either the whole path or the stretch past s = 40 is seeded
			assert.Equal(t, 1, fresh)
			assert.InDelta(t, p.Length(), goodCoverage(p), 1e-9)
		})
	}
}

// goodCoverage returns the summed length of the good groups of p.
func goodCoverage(p *LuboPath) float64 {
	var sum float64
	for _, g := range p.Groups {
		if g.Good() {
			sum += g.End - g.Begin
		}
	}
	return sum
}

func TestGroupVotesCoversPath(t *testing.T) {
	cfg := config.Default()

	t.Run("extend ends", func(t *testing.T) {
		p := straightPath(flatView(), 11, -0.5, 0.5)
		p.Votes = votes(3, 5, 95, 6, 0)
		GroupVotes(p, &cfg, counter(20))

		require.Len(t, p.Groups, 1)
		g := p.Groups[0]
		assert.False(t, g.Fresh)
		assert.Equal(t, 0.0, g.Begin)
		assert.InDelta(t, 100, g.End, 1e-9)
		assert.InDelta(t, 0, g.GetT(0), 1e-9)
		assert.InDelta(t, 100, g.GetT(100), 1e-9)
	})

	t.Run("split short gap", func(t *testing.T) {
		p := straightPath(flatView(), 11, -0.5, 0.5)
		p.Votes = append(votes(1, 0, 40, 8, 0), votes(2, 46, 96, 8, 30)...)
		GroupVotes(p, &cfg, counter(20))

		require.Len(t, p.Groups, 2)
		a, b := p.Groups[0], p.Groups[1]
		require.Equal(t, 1, a.ID)
		require.Equal(t, 2, b.ID)
		assert.True(t, a.Good())
		assert.True(t, b.Good())
		assert.InDelta(t, 43, a.End, 1e-9)
		assert.InDelta(t, 43, b.Begin, 1e-9)
		assert.InDelta(t, 100, b.End, 1e-9)
		assert.InDelta(t, 43, a.GetT(43), 1e-9)
		assert.InDelta(t, 73, b.GetT(43), 1e-9)
	})

	t.Run("seed long gap", func(t *testing.T) {
		p := straightPath(flatView(), 11, -0.5, 0.5)
		p.Votes = votes(1, 30, 70, 8, 5)
		GroupVotes(p, &cfg, counter(20))

		require.Len(t, p.Groups, 3)
		assert.Equal(t, 1, p.Groups[0].ID)
		var fresh []*VoteGroup
		for _, g := range p.Groups[1:] {
			assert.True(t, g.Fresh)
			fresh = append(fresh, g)
		}
		assert.Equal(t, 20, fresh[0].ID)
		assert.Equal(t, 0.0, fresh[0].Begin)
		assert.Equal(t, 30.0, fresh[0].End)
		assert.Equal(t, 21, fresh[1].ID)
		assert.Equal(t, 70.0, fresh[1].Begin)
		assert.InDelta(t, 100, fresh[1].End, 1e-9)
		assert.InDelta(t, 85, fresh[1].GetT(85), 1e-9)
		assert.InDelta(t, 100, goodCoverage(p), 1e-9)
	})
}

func TestGroupVotesNotMajority(t *testing.T) {
	cfg := config.Default()
	p := straightPath(flatView(), 11, -0.5, 0.5)
	p.Votes = append(votes(1, 0, 96, 8, 0), votes(2, 40, 80, 8, 5)...)
	GroupVotes(p, &cfg, counter(10))

	require.Len(t, p.Groups, 2)
	assert.Equal(t, 1, p.Groups[0].ID)
	assert.Equal(t, GroupGood, p.Groups[0].Status)
	assert.Equal(t, 2, p.Groups[1].ID)
	assert.Equal(t, GroupNotMajority, p.Groups[1].Status)

	g, err := p.Group(1)
	require.NoError(t, err)
	assert.Same(t, p.Groups[1], g)
	_, err = p.Group(2)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestGenGroupSamples(t *testing.T) {
	cfg := config.Default()
	p := straightPath(flatView(), 11, -0.5, 0.5)
	for i := range p.Anchors {
		p.Anchors[i] = vertexAnchor(i)
	}
	p.Index = 3
	p.Votes = votes(7, 0, 96, 8, 10)
	GroupVotes(p, &cfg, counter(0))

	samples := GenGroupSamples(nil, p, nil, &cfg)
	// s = 0, 8, ..., 88 and the end at 100
	require.Len(t, samples, 13)
	for i, s := range samples {
		assert.Equal(t, 7, s.StrokeID)
		assert.Equal(t, 3, s.PathIndex)
		assert.Equal(t, Sil, s.Type)
		if i < 12 {
			assert.InDelta(t, float64(8*i)+10, s.T, 1e-9)
		}
		assert.True(t, s.Anchor.Valid())
	}
	assert.InDelta(t, 110, samples[12].T, 1e-9)

	// polylines carry no anchors and produce no samples
	q := straightPath(flatView(), 11, -0.5, 0.5)
	q.Votes = votes(7, 0, 96, 8, 10)
	GroupVotes(q, &cfg, counter(0))
	assert.Empty(t, GenGroupSamples(nil, q, nil, &cfg))
}
