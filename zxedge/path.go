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
	"sort"

	"github.com/deeean/go-vector/vector3"
	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/idref"
	"github.com/QuLogic/jot-lib-sub005/mesh"
	"github.com/QuLogic/jot-lib-sub005/view"
)

// LuboPath is one contiguous, classified screen-space path of the current
// frame.
//
// A long path spans several drawn sub-segments. IDSet lists their
// identities in path order and IDOffsets[i] is the index of the first
// point carrying IDSet[i]; the final entry of IDOffsets equals Num(). If
// a closed path starts and ends inside the same sub-segment, that
// identity appears twice, once at each end.
type LuboPath struct {
	Index int
	Type  SegType
	Vis   Visibility

	Pts     []vec.Vec2 // NDC
	IDs     []uint32   // encoded value of each point
	Anchors []mesh.Anchor
	World   []*vector3.Vector3
	Lens    []float64 // cumulative pixel arc length, filled by Complete

	IDSet     []uint32
	IDOffsets []int
	// IDRanges holds the smallest and largest position of each IDSet
	// entry on this path.
	IDRanges [][2]uint8

	Groups []*VoteGroup
	Votes  []LuboVote
}

// Num returns the number of points.
func (p *LuboPath) Num() int { return len(p.Pts) }

// Length returns the arc length in pixels.
func (p *LuboPath) Length() float64 {
	if len(p.Lens) == 0 {
		return 0
	}
	return p.Lens[len(p.Lens)-1]
}

// IsClosed reports whether the path ends where it starts.
func (p *LuboPath) IsClosed() bool {
	n := len(p.Pts)
	return n > 2 && p.Pts[0] == p.Pts[n-1]
}

func (p *LuboPath) add(s *SilSeg, id uint32) {
	p.Pts = append(p.Pts, s.NDC)
	p.IDs = append(p.IDs, id)
	p.Anchors = append(p.Anchors, s.Anchor)
	p.World = append(p.World, s.World)
}

// Complete computes the cumulative arc length and the id bookkeeping.
func (p *LuboPath) Complete(v view.View) {
	p.Lens = make([]float64, len(p.Pts))
	for i := 1; i < len(p.Pts); i++ {
		p.Lens[i] = p.Lens[i-1] + v.PixelDist(p.Pts[i-1], p.Pts[i])
	}

	p.IDSet = p.IDSet[:0]
	p.IDOffsets = p.IDOffsets[:0]
	p.IDRanges = p.IDRanges[:0]
	for i, e := range p.IDs {
		id, pos := idref.Identity(e), idref.Position(e)
		k := len(p.IDSet) - 1
		if k < 0 || p.IDSet[k] != id {
			p.IDSet = append(p.IDSet, id)
			p.IDOffsets = append(p.IDOffsets, i)
			p.IDRanges = append(p.IDRanges, [2]uint8{pos, pos})
			continue
		}
		r := &p.IDRanges[k]
		r[0], r[1] = min(r[0], pos), max(r[1], pos)
	}
	p.IDOffsets = append(p.IDOffsets, len(p.Pts))
}

// removeID drops entry k of the id set. Its points join the previous
// entry, or the next one if k is 0.
func (p *LuboPath) removeID(k int) {
	if k == 0 {
		p.IDOffsets = append(p.IDOffsets[:1], p.IDOffsets[2:]...)
	} else {
		p.IDOffsets = append(p.IDOffsets[:k], p.IDOffsets[k+1:]...)
	}
	p.IDSet = append(p.IDSet[:k], p.IDSet[k+1:]...)
	p.IDRanges = append(p.IDRanges[:k], p.IDRanges[k+1:]...)
}

// rangeSlack is the tolerance, in position units, of InRange.
const rangeSlack = 8

// InRange reports whether the encoded value e was drawn by a part of this
// path: its identity must be in the id set and its position within the
// positions this path covers for that identity.
func (p *LuboPath) InRange(e uint32) bool {
	return p.entryFor(e) >= 0
}

func (p *LuboPath) entryFor(e uint32) int {
	id, pos := idref.Identity(e), int(idref.Position(e))
	for k, x := range p.IDSet {
		if x != id {
			continue
		}
		r := p.IDRanges[k]
		if pos >= int(r[0])-rangeSlack && pos <= int(r[1])+rangeSlack {
			return k
		}
	}
	return -1
}

// ClosestPointAt finds the point of the path closest to q (in NDC) within
// the stretch drawn with the identity of e. The stretch is located by a
// binary search on the position bits, and only the segments around the
// hit are examined. If bruteForce is set, the whole stretch is searched
// too and the better answer is used.
//
// It returns the arc length and position of the closest point.
func (p *LuboPath) ClosestPointAt(q vec.Vec2, e uint32, v view.View, bruteForce bool) (s float64, pt vec.Vec2, ok bool) {
	k := p.entryFor(e)
	if k < 0 || len(p.Pts) < 2 {
		return 0, vec.Vec2{}, false
	}
	lo, hi := p.IDOffsets[k], p.IDOffsets[k+1]-1

	// Points of identities dropped by BuildPaths may have joined this
	// entry; their positions belong to another sub-segment.
	id := p.IDSet[k]
	for lo < hi && idref.Identity(p.IDs[lo]) != id {
		lo++
	}
	for hi > lo && idref.Identity(p.IDs[hi]) != id {
		hi--
	}
	if hi <= lo {
		// a single point; include the segment to the next point
		hi = min(lo+1, len(p.Pts)-1)
		lo = max(0, hi-1)
	}

	pos := idref.Position(e)
	j := lo + sort.Search(hi-lo+1, func(i int) bool {
		return idref.Position(p.IDs[lo+i]) >= pos
	})
	j = max(lo, min(hi, j))

	best := math.Inf(1)
	try := func(a, b int) {
		if a < 0 || b >= len(p.Pts) {
			return
		}
		c, t := closestOnSegment(v.NDCToPix(p.Pts[a]), v.NDCToPix(p.Pts[b]), v.NDCToPix(q))
		if d := c.Sub(v.NDCToPix(q)).Length(); d < best {
			best = d
			s = p.Lens[a] + t*(p.Lens[b]-p.Lens[a])
			pt = p.Pts[a].Add(p.Pts[b].Sub(p.Pts[a]).Mul(t))
		}
	}
	for a := j - 2; a <= j+1; a++ {
		if a >= lo-1 && a+1 <= hi+1 {
			try(a, a+1)
		}
	}

	if bruteForce {
		fast := best
		for a := max(0, lo-1); a < min(hi+1, len(p.Pts)-1); a++ {
			try(a, a+1)
		}
		if best < fast-1 {
			Logger().Debug("closest point search disagrees",
				"path", p.Index, "binary", fast, "brute", best)
		}
	}
	return s, pt, true
}

func closestOnSegment(a, b, q vec.Vec2) (vec.Vec2, float64) {
	d := b.Sub(a)
	l2 := d.Dot(d)
	if l2 == 0 {
		return a, 0
	}
	t := max(0, min(1, q.Sub(a).Dot(d)/l2))
	return a.Add(d.Mul(t)), t
}

// segmentAt returns the index i with Lens[i] <= s <= Lens[i+1] and the
// fraction of s within that segment.
func (p *LuboPath) segmentAt(s float64) (int, float64) {
	n := len(p.Lens)
	if n < 2 {
		return 0, 0
	}
	i := sort.SearchFloat64s(p.Lens, s) - 1
	i = max(0, min(n-2, i))
	l := p.Lens[i+1] - p.Lens[i]
	if l <= 0 {
		return i, 0
	}
	return i, max(0, min(1, (s-p.Lens[i])/l))
}

// PointAt returns the NDC point at arc length s.
func (p *LuboPath) PointAt(s float64) vec.Vec2 {
	if len(p.Pts) == 1 {
		return p.Pts[0]
	}
	i, t := p.segmentAt(s)
	return p.Pts[i].Add(p.Pts[i+1].Sub(p.Pts[i]).Mul(t))
}

// WorldAt returns the world point at arc length s.
func (p *LuboPath) WorldAt(s float64) *vector3.Vector3 {
	if len(p.World) == 1 {
		return p.World[0]
	}
	i, t := p.segmentAt(s)
	a, b := p.World[i], p.World[i+1]
	if a == nil || b == nil {
		return nil
	}
	return a.Add(b.Sub(a).MulScalar(t))
}

// AnchorAt returns the surface anchor at arc length s.
func (p *LuboPath) AnchorAt(s float64, surf Surface) mesh.Anchor {
	if len(p.Anchors) == 1 {
		return p.Anchors[0]
	}
	i, t := p.segmentAt(s)
	return lerpAnchor(p.Anchors[i], p.Anchors[i+1], t, surf)
}

// pathRef names one id set entry of one path.
type pathRef struct {
	path  *LuboPath
	entry int
}

// LuboPathList is the list of paths of one frame, with a lookup table
// from identities to paths.
type LuboPathList struct {
	Paths []*LuboPath
	byID  map[uint32][]pathRef
}

// Add appends a completed path and indexes its identities.
func (l *LuboPathList) Add(p *LuboPath) {
	p.Index = len(l.Paths)
	l.Paths = append(l.Paths, p)
	if l.byID == nil {
		l.byID = make(map[uint32][]pathRef)
	}
	for k, id := range p.IDSet {
		l.byID[id] = append(l.byID[id], pathRef{p, k})
	}
}

// Path returns the path with the given index.
func (l *LuboPathList) Path(i int) (*LuboPath, error) {
	if l == nil || i < 0 || i >= len(l.Paths) {
		return nil, fmt.Errorf("path %d: %w", i, ErrOutOfRange)
	}
	return l.Paths[i], nil
}

// Lookup returns the paths whose id set contains the identity of e and
// whose recorded range covers its position.
func (l *LuboPathList) Lookup(e uint32) []*LuboPath {
	if l == nil {
		return nil
	}
	var res []*LuboPath
	for _, ref := range l.byID[idref.Identity(e)] {
		if ref.path.InRange(e) && (len(res) == 0 || res[len(res)-1] != ref.path) {
			res = append(res, ref.path)
		}
	}
	return res
}

// Len returns the number of paths.
func (l *LuboPathList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Paths)
}
