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
	"image"

	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/config"
	"github.com/QuLogic/jot-lib-sub005/idref"
	"github.com/QuLogic/jot-lib-sub005/mesh"
	"github.com/QuLogic/jot-lib-sub005/view"
)

// LuboSample remembers where on a surface a stroke parameter was anchored
// in the previous frame.
type LuboSample struct {
	Anchor    mesh.Anchor
	Type      SegType
	Vis       Visibility
	T         float64
	StrokeID  int
	PathIndex int // index of the path the sample was taken from
}

// LuboVote is one match of a sample on a path of the current frame.
type LuboVote struct {
	S        float64 // arc length position on the path, in pixels
	T        float64 // propagated stroke parameter
	Conf     float64
	StrokeID int
	PathID   int // PathIndex of the voting sample

	// NDCDist and WorldDist are the propagation distances in pixels and
	// in world units.
	NDCDist   float64
	WorldDist float64
}

// idFitsSample reports whether the image value e could have been drawn by
// a path matching s.
func idFitsSample(e uint32, s *LuboSample) bool {
	if s.Vis == Hidden {
		return idref.IsInvisPath(e)
	}
	return idref.IsVisPath(e)
}

func sampleMatchesPath(s *LuboSample, p *LuboPath) bool {
	return s.Type == p.Type && s.Vis == p.Vis
}

// match is a candidate point on a path found by the ray march.
type match struct {
	path *LuboPath
	s    float64
	pt   vec.Vec2
	dist float64 // pixels from the projected sample to pt
}

// Propagate carries the samples of the previous frame over to the paths
// of the current frame. For every sample the anchor is located on the
// current surface and projected; from there the ID image is searched in
// one-pixel steps along the projected surface normal (reversed for
// back-facing silhouettes), starting with a neighbourhood of radius
// cfg.StartRadius. Every matching path met along the march is a
// candidate; the march ends at background after the first two steps, or
// after cfg.MaxSteps steps. The candidate whose closest path point is
// nearest to the projected sample wins, and registers a vote if it lies
// closer than MaxSteps+1 pixels.
//
// Samples that cannot be located, project outside the frustum or find no
// match are counted as missed.
func Propagate(samples []LuboSample, paths *LuboPathList, img idref.Image, surf Surface, v view.View, cfg *config.Config) (votes, missed int) {
	for i := range samples {
		if propagateOne(&samples[i], paths, img, surf, v, cfg) {
			votes++
		} else {
			missed++
		}
	}
	return votes, missed
}

func propagateOne(smp *LuboSample, paths *LuboPathList, img idref.Image, surf Surface, v view.View, cfg *config.Config) bool {
	pos, nrm, err := surf.Locate(smp.Anchor)
	if err != nil {
		return false
	}
	p, _, ok := v.Project(pos)
	if !ok || !view.InFrustum(p) {
		return false
	}

	dir := v.PixelVec(v.ProjectDir(pos, nrm))
	if l := dir.Length(); l > 1e-12 {
		dir = dir.Mul(1 / l)
	} else {
		dir = vec.Vec2{}
	}
	if smp.Type == SilBack {
		dir = dir.Mul(-1)
	}

	start := img.NDCToPix(p)
	var best *match
	visit := func(px image.Point) (background bool) {
		e := img.Val(px)
		if e == 0 {
			return true
		}
		if !idFitsSample(e, smp) {
			return false
		}
		hit := v.PixToNDC(vec.Vec2{X: float64(px.X) + 0.5, Y: float64(px.Y) + 0.5})
		for _, path := range paths.Lookup(e) {
			if !sampleMatchesPath(smp, path) {
				continue
			}
			s, pt, ok := path.ClosestPointAt(hit, e, v, cfg.DebugBruteForce)
			if !ok {
				continue
			}
			d := v.PixelDist(p, pt)
			if best == nil || d < best.dist {
				best = &match{path: path, s: s, pt: pt, dist: d}
			}
		}
		return false
	}

	for k := 0; k <= cfg.MaxSteps; k++ {
		c := idref.PixelAt(start.Add(dir.Mul(float64(k))))
		if k == 0 {
			r := cfg.StartRadius
			for y := c.Y - r; y <= c.Y+r; y++ {
				for x := c.X - r; x <= c.X+r; x++ {
					visit(image.Point{X: x, Y: y})
				}
			}
		} else if visit(c) && k >= 2 {
			break
		}
		if dir == (vec.Vec2{}) {
			break
		}
	}
	if best == nil {
		return false
	}

	ndcDist := best.dist
	limit := float64(cfg.MaxSteps + 1)
	if ndcDist >= limit {
		return false
	}
	worldDist := 0.0
	if w := best.path.WorldAt(best.s); w != nil {
		worldDist = w.Sub(pos).Magnitude()
	}
	best.path.Votes = append(best.path.Votes, LuboVote{
		S:         best.s,
		T:         smp.T,
		Conf:      1 - ndcDist/limit,
		StrokeID:  smp.StrokeID,
		PathID:    smp.PathIndex,
		NDCDist:   ndcDist,
		WorldDist: worldDist,
	})
	return true
}
