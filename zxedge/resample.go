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

	"github.com/QuLogic/jot-lib-sub005/idref"
	"github.com/QuLogic/jot-lib-sub005/view"
)

// Resample places samples along every run of refs at a fixed arc length
// spacing, in pixels. The first and last point of each run are always
// kept. A regular sample closer than spacing/2 to the end of its run is
// left out, so that all gaps lie between spacing/2 and 1.5*spacing,
// except in runs shorter than that.
//
// If world is set, samples are interpolated in world space and projected,
// otherwise they are interpolated in NDC. The samples are not yet
// classified.
func Resample(refs []RefSegment, spacing float64, v view.View, surf Surface, world bool) []SilSeg {
	var out []SilSeg
	runs(len(refs), func(i int) bool { return refs[i].End }, func(start, end int) {
		r := refs[start : end+1]
		total := r[len(r)-1].Len
		out = append(out, SilSeg{RefSegment: r[0]})
		out[len(out)-1].End = false

		j := 0
		for k := 1; ; k++ {
			s := float64(k) * spacing
			if s >= total-spacing/2 {
				break
			}
			for j < len(r)-2 && r[j+1].Len < s {
				j++
			}
			a, b := r[j], r[j+1]
			t := 0.0
			if b.Len > a.Len {
				t = (s - a.Len) / (b.Len - a.Len)
			}
			q := lerpRef(a, b, t, surf)
			q.Len = s
			if world && q.World != nil {
				if ndc, z, ok := v.Project(q.World); ok {
					q.NDC, q.Z = ndc, z
				}
			}
			out = append(out, SilSeg{RefSegment: q})
		}

		if len(r) > 1 {
			out = append(out, SilSeg{RefSegment: r[len(r)-1]})
		}
		out[len(out)-1].End = true
	})
	return out
}

// CheckVis classifies one sample against the ID image.
//
// Samples outside the frustum are Clipped. Samples whose gradient marks
// them as back-facing are Backfacing (or Hidden, in see-through mode, if
// their invisible id is found). Otherwise the sample is Visible if its
// visible id occurs near it, Hidden if (in see-through mode) only its
// invisible id does, and Occluded if neither is found.
//
// The search radius grows as the drawn sub-segment gets shorter, since
// short sub-segments leave less margin in the position bits.
func CheckVis(s *RefSegment, img idref.Image, fr *Frame, seeThru bool) Visibility {
	if !view.InFrustum(s.NDC) {
		return Clipped
	}
	r := searchRadius(fr.Drawn(s.VisID))
	if !s.Front {
		if seeThru && img.FindValInBox(s.InvisID, idref.IdentityMask, s.NDC, r) {
			return Hidden
		}
		return Backfacing
	}
	if img.FindValInBox(s.VisID, idref.IdentityMask, s.NDC, r) {
		return Visible
	}
	if seeThru && img.FindValInBox(s.InvisID, idref.IdentityMask, s.NDC, r) {
		return Hidden
	}
	return Occluded
}

func searchRadius(drawLen float64, ok bool) int {
	if !ok || drawLen <= 0 {
		return 1
	}
	return max(1, min(3, int(math.Ceil(8/drawLen))))
}

// Classify runs CheckVis on every sample.
func Classify(samples []SilSeg, img idref.Image, fr *Frame, seeThru bool) {
	for i := range samples {
		samples[i].Vis = CheckVis(&samples[i].RefSegment, img, fr, seeThru)
	}
}

// ReconnectGaps marks short occluded stretches between two visible samples
// of the same run as visible. A stretch is short if the visible samples
// around it are at most tol pixels apart.
func ReconnectGaps(samples []SilSeg, tol float64) {
	runs(len(samples), func(i int) bool { return samples[i].End }, func(start, end int) {
		for i := start + 1; i < end; i++ {
			if samples[i].Vis != Occluded || samples[i-1].Vis != Visible {
				continue
			}
			j := i
			for j < end && samples[j].Vis == Occluded {
				j++
			}
			if samples[j].Vis == Visible && samples[j].Len-samples[i-1].Len <= tol {
				for k := i; k < j; k++ {
					samples[k].Vis = Visible
				}
			}
			i = j
		}
	})
}

// LoopClean rotates closed runs whose two ends are visible, so that the
// run starts right after its last non-visible sample. A visible stretch
// across the seam then becomes one piece. Fully visible loops are left
// alone.
func LoopClean(samples []SilSeg, v view.View) []SilSeg {
	out := make([]SilSeg, 0, len(samples))
	runs(len(samples), func(i int) bool { return samples[i].End }, func(start, end int) {
		r := samples[start : end+1]
		n := len(r)
		if n <= 2 || r[0].NDC != r[n-1].NDC || r[0].Vis != Visible || r[n-1].Vis != Visible {
			out = append(out, r...)
			return
		}
		k := -1
		for i := n - 2; i > 0; i-- {
			if r[i].Vis != Visible {
				k = i
				break
			}
		}
		if k < 0 {
			out = append(out, r...)
			return
		}

		base := len(out)
		out = append(out, r[k+1:n-1]...)
		out = append(out, r[:k+1]...)
		rot := out[base:]
		rot[0].Len = 0
		for i := range rot {
			rot[i].End = false
			if i > 0 {
				rot[i].Len = rot[i-1].Len + v.PixelDist(rot[i-1].NDC, rot[i].NDC)
			}
		}
		rot[len(rot)-1].End = true
	})
	return out
}
