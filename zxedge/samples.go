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

import "github.com/QuLogic/jot-lib-sub005/config"

// GenGroupSamples resamples every good vote group of p at the vote
// spacing and returns the samples to be propagated into the next frame.
// Anchors between two path points on different simplices are
// interpolated on the surface where the two share a face, edge or
// vertex. Points without a valid anchor, such as those of explicit
// polylines, produce no samples.
func GenGroupSamples(dst []LuboSample, p *LuboPath, surf Surface, cfg *config.Config) []LuboSample {
	step := cfg.VoteSampling()
	for _, g := range p.Groups {
		if !g.Good() {
			continue
		}
		add := func(s float64) {
			a := p.AnchorAt(s, surf)
			if !a.Valid() {
				return
			}
			dst = append(dst, LuboSample{
				Anchor:    a,
				Type:      p.Type,
				Vis:       p.Vis,
				T:         g.GetT(s),
				StrokeID:  g.ID,
				PathIndex: p.Index,
			})
		}
		s := g.Begin
		for ; s < g.End-step/2; s += step {
			add(s)
		}
		add(g.End)
	}
	return dst
}
