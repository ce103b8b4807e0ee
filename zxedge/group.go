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
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/QuLogic/jot-lib-sub005/config"
)

// GroupStatus says whether a vote group survived, and if not, why.
type GroupStatus uint8

const (
	GroupGood GroupStatus = iota
	GroupTooShort
	GroupTooFewVotes
	GroupLowDensity
	GroupSplitGap
	GroupSplitJump
	GroupSplitLoop
	GroupBackward
	GroupNotMajority
)

func (s GroupStatus) String() string {
	switch s {
	case GroupGood:
		return "good"
	case GroupTooShort:
		return "too_short"
	case GroupTooFewVotes:
		return "too_few_votes"
	case GroupLowDensity:
		return "low_density"
	case GroupSplitGap:
		return "split_gap"
	case GroupSplitJump:
		return "split_jump"
	case GroupSplitLoop:
		return "split_loop"
	case GroupBackward:
		return "backward"
	case GroupNotMajority:
		return "not_majority"
	default:
		return fmt.Sprintf("GroupStatus(%d)", s)
	}
}

// Fit is one point of the s→t map of a vote group.
type Fit struct {
	S, T float64
}

// VoteGroup is the set of votes on one path believed to belong to one
// stroke.
type VoteGroup struct {
	ID     int // stroke id
	Status GroupStatus
	Begin  float64
	End    float64
	Votes  []LuboVote
	Fits   []Fit

	// Fresh is set for groups that start a new stroke instead of
	// continuing one.
	Fresh bool

	Path *LuboPath
}

// Good reports whether the group survived.
func (g *VoteGroup) Good() bool { return g.Status == GroupGood }

// Sort orders the votes by arc length and updates Begin and End.
func (g *VoteGroup) Sort() {
	slices.SortStableFunc(g.Votes, func(a, b LuboVote) int {
		switch {
		case a.S < b.S:
			return -1
		case a.S > b.S:
			return 1
		case a.T < b.T:
			return -1
		case a.T > b.T:
			return 1
		}
		return 0
	})
	if len(g.Votes) > 0 {
		g.Begin = g.Votes[0].S
		g.End = g.Votes[len(g.Votes)-1].S
	}
}

// fit builds a non-decreasing s→t map from the sorted votes.
func (g *VoteGroup) fit() {
	g.Fits = g.Fits[:0]
	for _, v := range g.Votes {
		t := v.T
		if n := len(g.Fits); n > 0 {
			t = max(t, g.Fits[n-1].T)
			if g.Fits[n-1].S == v.S {
				g.Fits[n-1].T = t
				continue
			}
		}
		g.Fits = append(g.Fits, Fit{S: v.S, T: t})
	}
}

// GetT returns the stroke parameter at arc length s, interpolated
// linearly between fits and clamped at the ends.
func (g *VoteGroup) GetT(s float64) float64 {
	n := len(g.Fits)
	switch {
	case n == 0:
		return 0
	case n == 1 || s <= g.Fits[0].S:
		return g.Fits[0].T
	case s >= g.Fits[n-1].S:
		return g.Fits[n-1].T
	}
	i := sort.Search(n, func(i int) bool { return g.Fits[i].S > s }) - 1
	a, b := g.Fits[i], g.Fits[i+1]
	return a.T + (s-a.S)/(b.S-a.S)*(b.T-a.T)
}

// slope returns the least squares slope of t over s.
func (g *VoteGroup) slope() float64 {
	n := float64(len(g.Votes))
	if n < 2 {
		return 0
	}
	var ms, mt float64
	for _, v := range g.Votes {
		ms += v.S
		mt += v.T
	}
	ms /= n
	mt /= n
	var sst, sss float64
	for _, v := range g.Votes {
		sst += (v.S - ms) * (v.T - mt)
		sss += (v.S - ms) * (v.S - ms)
	}
	if sss == 0 {
		return 0
	}
	return sst / sss
}

// Group returns group i of the path.
func (p *LuboPath) Group(i int) (*VoteGroup, error) {
	if i < 0 || i >= len(p.Groups) {
		return nil, fmt.Errorf("vote group %d of path %d: %w", i, p.Index, ErrOutOfRange)
	}
	return p.Groups[i], nil
}

// GroupVotes clusters the votes of p into vote groups, one candidate per
// stroke id.
//
// The votes of a stroke are sorted by arc length and cut at gaps longer
// than three sample spacings and at jumps in t steeper than MaxTJump. The
// largest piece is kept; on a closed path a piece continuing it across
// the seam is marked as a loop split. The kept piece is then checked for
// vote count, length, density and direction, and where good groups
// overlap only the one with the most votes survives.
//
// Finally the good groups are made to cover the whole path (see
// coverPath); stretches no group can reach get fresh groups with new
// stroke ids from nextID, and t = s.
func GroupVotes(p *LuboPath, cfg *config.Config, nextID func() int) {
	p.Groups = p.Groups[:0]
	spacing := cfg.VoteSampling()
	gapLimit := 3 * spacing

	byStroke := make(map[int][]LuboVote)
	for _, v := range p.Votes {
		byStroke[v.StrokeID] = append(byStroke[v.StrokeID], v)
	}
	ids := make([]int, 0, len(byStroke))
	for id := range byStroke {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		all := &VoteGroup{ID: id, Votes: byStroke[id], Path: p}
		all.Sort()

		var parts []*VoteGroup
		var reasons []GroupStatus // reasons[i] is the cut before parts[i+1]
		start := 0
		for i := 1; i <= len(all.Votes); i++ {
			cut := GroupGood
			if i < len(all.Votes) {
				a, b := all.Votes[i-1], all.Votes[i]
				ds := b.S - a.S
				switch {
				case ds > gapLimit:
					cut = GroupSplitGap
				case math.Abs(b.T-a.T) > cfg.MaxTJump*max(ds, cfg.VisSampling):
					cut = GroupSplitJump
				}
				if cut == GroupGood {
					continue
				}
				reasons = append(reasons, cut)
			}
			g := &VoteGroup{ID: id, Votes: all.Votes[start:i:i], Path: p}
			g.Sort()
			parts = append(parts, g)
			start = i
		}

		keep := 0
		for i, g := range parts {
			if len(g.Votes) > len(parts[keep].Votes) {
				keep = i
			}
		}
		for i, g := range parts {
			switch {
			case i == keep:
				g.Status = GroupGood
			case i > 0:
				g.Status = reasons[i-1]
			default:
				g.Status = reasons[0]
			}
		}
		if n := len(parts); n > 1 && p.IsClosed() {
			first, last := parts[0], parts[n-1]
			if first.Begin <= gapLimit && p.Length()-last.End <= gapLimit {
				if keep == 0 {
					last.Status = GroupSplitLoop
				} else if keep == n-1 {
					first.Status = GroupSplitLoop
				}
			}
		}

		kept := parts[keep]
		switch density := float64(len(kept.Votes)) * spacing / (kept.End - kept.Begin + spacing); {
		case len(kept.Votes) < cfg.MinGroupVotes:
			kept.Status = GroupTooFewVotes
		case kept.End-kept.Begin < cfg.MinGroupLength:
			kept.Status = GroupTooShort
		case density < cfg.MinGroupDensity:
			kept.Status = GroupLowDensity
		case kept.slope() < 0:
			kept.Status = GroupBackward
		}
		for _, g := range parts {
			g.fit()
		}
		p.Groups = append(p.Groups, parts...)
	}

	var good []*VoteGroup
	for _, g := range p.Groups {
		if g.Good() {
			good = append(good, g)
		}
	}
	slices.SortStableFunc(good, func(a, b *VoteGroup) int { return len(b.Votes) - len(a.Votes) })
	for i, a := range good {
		if !a.Good() {
			continue
		}
		for _, b := range good[i+1:] {
			if b.Good() && a.Begin < b.End && b.Begin < a.End {
				b.Status = GroupNotMajority
			}
		}
	}

	coverPath(p, cfg.MinGroupLength, nextID)
}

// coverPath makes the good groups of p cover its whole length. Uncovered
// stretches longer than minLen get a fresh group with t = s. Shorter ones
// are taken over by the neighbouring good groups, whose fits are
// extrapolated at their vote slope; between two groups the stretch is
// split at its midpoint.
func coverPath(p *LuboPath, minLen float64, nextID func() int) {
	var good []*VoteGroup
	for _, g := range p.Groups {
		if g.Good() {
			good = append(good, g)
		}
	}
	slices.SortFunc(good, func(a, b *VoteGroup) int {
		switch {
		case a.Begin < b.Begin:
			return -1
		case a.Begin > b.Begin:
			return 1
		}
		return 0
	})

	l := p.Length()
	fresh := func(a, b float64) {
		p.Groups = append(p.Groups, &VoteGroup{
			ID:     nextID(),
			Status: GroupGood,
			Begin:  a,
			End:    b,
			Fits:   []Fit{{a, a}, {b, b}},
			Fresh:  true,
			Path:   p,
		})
	}
	if len(good) == 0 {
		fresh(0, l)
		return
	}

	cursor := 0.0
	var prev *VoteGroup
	for _, g := range append(good, nil) {
		next := l
		if g != nil {
			next = g.Begin
		}
		if gap := next - cursor; gap > minLen {
			fresh(cursor, next)
		} else if gap > 0 {
			switch {
			case prev == nil:
				g.extendBegin(cursor)
			case g == nil:
				prev.extendEnd(next)
			default:
				mid := (cursor + next) / 2
				prev.extendEnd(mid)
				g.extendBegin(mid)
			}
		}
		if g != nil {
			cursor = max(cursor, g.End)
			prev = g
		}
	}
}

// extendBegin moves Begin back to s, extrapolating the fit.
func (g *VoteGroup) extendBegin(s float64) {
	if s >= g.Begin || len(g.Fits) == 0 {
		return
	}
	first := g.Fits[0]
	t := first.T - max(g.slope(), 0)*(first.S-s)
	g.Fits = slices.Insert(g.Fits, 0, Fit{S: s, T: t})
	g.Begin = s
}

// extendEnd moves End forward to s, extrapolating the fit.
func (g *VoteGroup) extendEnd(s float64) {
	if s <= g.End || len(g.Fits) == 0 {
		return
	}
	last := g.Fits[len(g.Fits)-1]
	t := last.T + max(g.slope(), 0)*(s-last.S)
	g.Fits = append(g.Fits, Fit{S: s, T: t})
	g.End = s
}
