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
	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/idref"
)

// DrawPaths draws the preprocessed runs into the ID image, one call per
// sub-segment, and registers every identity that left pixels behind in
// fr. In see-through mode all runs are first drawn with their invisible
// ids and without depth test; the depth-tested draw with the visible ids
// always comes last. Occluders must already be in the image.
//
// It returns the number of sub-segments drawn and dropped.
func DrawPaths(c idref.Canvas, refs []RefSegment, fr *Frame, seeThru bool) (drawn, dropped int) {
	var pts []vec.Vec2
	var zs []float64
	var ids []uint32

	pass := func(visible bool) {
		forEachSubSegment(refs, func(sub []RefSegment) {
			pts, zs, ids = pts[:0], zs[:0], ids[:0]
			for _, r := range sub {
				pts = append(pts, r.NDC)
				zs = append(zs, r.Z)
				if visible {
					ids = append(ids, r.VisID)
				} else {
					ids = append(ids, r.InvisID)
				}
			}
			if c.DrawPolyline(pts, zs, ids, visible) {
				fr.Register(ids[0], sub[len(sub)-1].Len-sub[0].Len)
				drawn++
			} else {
				dropped++
			}
		})
	}

	if seeThru {
		pass(false)
	}
	pass(true)
	return drawn, dropped
}

// forEachSubSegment calls fn for every maximal stretch of points that
// share an identity and belong to the same run.
func forEachSubSegment(refs []RefSegment, fn func(sub []RefSegment)) {
	start := 0
	for i := range refs {
		last := refs[i].End || i == len(refs)-1 ||
			idref.Identity(refs[i+1].VisID) != idref.Identity(refs[i].VisID)
		if last {
			fn(refs[start : i+1])
			start = i + 1
		}
	}
}
