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
	"github.com/QuLogic/jot-lib-sub005/view"
)

// PathPolicy selects how classified samples are grouped into paths.
type PathPolicy uint8

const (
	// BreakOnOcclusion ends a path at every sample that is not visible.
	BreakOnOcclusion PathPolicy = iota

	// LongPaths keeps occluded middle sections inside a path and only
	// breaks at clipped or back-facing samples. Non-visible samples at
	// either end are trimmed.
	LongPaths

	// SeeThru breaks wherever type or visibility changes, and builds paths
	// from visible and from hidden stretches.
	SeeThru
)

// BuildPaths groups the classified samples into paths. Every identity a
// path carries must have been registered in fr; identities that were not
// drawn are logged and removed, and a path left without identities is
// dropped. Paths of fewer than two points are discarded.
//
// It returns the paths and the number of removed identities.
func BuildPaths(samples []SilSeg, policy PathPolicy, v view.View, fr *Frame) (*LuboPathList, int) {
	list := &LuboPathList{}
	dropped := 0

	emit := func(ss []SilSeg, vis Visibility) {
		if len(ss) <= 1 {
			return
		}
		p := &LuboPath{Type: ss[0].Type, Vis: vis}
		for i := range ss {
			id := ss[i].VisID
			if vis == Hidden {
				id = ss[i].InvisID
			}
			p.add(&ss[i], id)
		}
		p.Complete(v)
		for k := len(p.IDSet) - 1; k >= 0; k-- {
			if _, ok := fr.Drawn(p.IDSet[k]); ok {
				continue
			}
			Logger().Warn("path id missing from ID image",
				"id", p.IDSet[k], "type", p.Type)
			p.removeID(k)
			dropped++
		}
		if len(p.IDSet) == 0 {
			return
		}
		list.Add(p)
	}

	runs(len(samples), func(i int) bool { return samples[i].End }, func(start, end int) {
		r := samples[start : end+1]
		switch policy {
		case BreakOnOcclusion:
			splitWhere(r, func(a, b *SilSeg) bool { return b.Vis != a.Vis }, func(ss []SilSeg) {
				if ss[0].Vis == Visible {
					emit(ss, Visible)
				}
			})
		case SeeThru:
			splitWhere(r, func(a, b *SilSeg) bool { return b.Vis != a.Vis || b.Type != a.Type }, func(ss []SilSeg) {
				if ss[0].Vis == Visible || ss[0].Vis == Hidden {
					emit(ss, ss[0].Vis)
				}
			})
		case LongPaths:
			breaks := func(s *SilSeg) bool { return s.Vis == Clipped || s.Vis == Backfacing }
			splitWhere(r, func(a, b *SilSeg) bool { return breaks(a) != breaks(b) }, func(ss []SilSeg) {
				if breaks(&ss[0]) {
					return
				}
				for len(ss) > 0 && ss[0].Vis != Visible {
					ss = ss[1:]
				}
				for len(ss) > 0 && ss[len(ss)-1].Vis != Visible {
					ss = ss[:len(ss)-1]
				}
				emit(ss, Visible)
			})
		}
	})
	return list, dropped
}

// splitWhere cuts r between every pair of neighbours for which cut returns
// true and calls fn for each piece.
func splitWhere(r []SilSeg, cut func(a, b *SilSeg) bool, fn func([]SilSeg)) {
	start := 0
	for i := 1; i <= len(r); i++ {
		if i == len(r) || cut(&r[i-1], &r[i]) {
			fn(r[start:i])
			start = i
		}
	}
}
