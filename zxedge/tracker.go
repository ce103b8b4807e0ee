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

	"github.com/deeean/go-vector/vector3"

	"github.com/QuLogic/jot-lib-sub005/config"
	"github.com/QuLogic/jot-lib-sub005/idref"
	"github.com/QuLogic/jot-lib-sub005/view"
)

// Occluders draws the solid geometry of a frame into the ID image.
type Occluders interface {
	DrawOccluders(c idref.Canvas, v view.View)
}

// FrameInput is everything one frame needs.
type FrameInput struct {
	Source  Source
	Surface Surface
	View    view.View

	// Canvas receives the occluders and the paths. Its size must match
	// the view.
	Canvas idref.Canvas

	// Occluders, if not nil, are drawn into Canvas before the paths.
	Occluders Occluders

	// Polylines are explicit 3-D lines to be drawn as paths. They are not
	// tracked: a change of polylines alone does not trigger an update.
	Polylines [][]*vector3.Vector3
}

// FrameStats counts what happened during one frame.
type FrameStats struct {
	Segments       int // raw ZXSegment points
	Samples        int
	Paths          int
	Votes          int
	Missed         int // samples of the previous frame without a vote
	GoodGroups     int
	RejectedGroups int
	DroppedIDs     int
	Drawn          int // sub-segments drawn into the ID image
	DroppedDraws   int
}

// FrameResult is the output of one frame.
type FrameResult struct {
	Paths   *LuboPathList
	Samples []SilSeg

	// Strokes are the visible stretches of the samples, produced without
	// frame to frame coherence. They are only valid until the next
	// update.
	Strokes []Stroke

	// Coherent holds one stroke per good vote group.
	Coherent []Stroke

	Stats FrameStats
}

// Tracker runs the per-frame pipeline and carries the samples of each
// frame over to the next.
type Tracker struct {
	Config config.Config

	// Dirty forces the next Update to recompute everything.
	Dirty bool

	samples    []LuboSample
	frame      *Frame
	emitter    Emitter
	segs       []ZXSegment
	nextStroke int

	last     *FrameResult
	lastView view.View
	lastGen  uint64
}

// NewTracker returns a tracker for the given configuration.
func NewTracker(cfg config.Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Tracker{Config: cfg, frame: NewFrame()}, nil
}

// NeedsUpdate reports whether a frame with the given view and source
// generation has to be recomputed.
func (t *Tracker) NeedsUpdate(v view.View, gen uint64) bool {
	return t.Dirty || t.Config.ForceDirty || t.last == nil ||
		gen != t.lastGen || !v.Equal(t.lastView)
}

// Samples returns the samples that will be propagated into the next
// frame.
func (t *Tracker) Samples() []LuboSample { return t.samples }

// Reset forgets all tracked strokes.
func (t *Tracker) Reset() {
	t.samples = nil
	t.last = nil
	t.nextStroke = 0
}

func (t *Tracker) newStrokeID() int {
	id := t.nextStroke
	t.nextStroke++
	return id
}

// Update processes one frame. If neither the view nor the source
// geometry changed since the last frame, and the tracker is not dirty,
// the previous result is returned and the canvas is left untouched.
func (t *Tracker) Update(in FrameInput) (*FrameResult, error) {
	if in.Source == nil || in.Surface == nil || in.Canvas == nil {
		return nil, fmt.Errorf("frame input incomplete: %w", ErrInvalidGeometry)
	}
	if b := in.Canvas.Bounds(); b.Dx() != in.View.Width || b.Dy() != in.View.Height {
		return nil, fmt.Errorf("canvas is %dx%d, view is %dx%d: %w",
			b.Dx(), b.Dy(), in.View.Width, in.View.Height, ErrInvalidGeometry)
	}
	gen := in.Source.Generation()
	if !t.NeedsUpdate(in.View, gen) {
		return t.last, nil
	}

	cfg := &t.Config
	v := in.View
	fr := t.frame
	fr.Reset()
	res := &FrameResult{}
	st := &res.Stats

	segs := t.segs[:0]
	loops := in.Source.ZeroCrossings(v.Eye)
	if cfg.SplitGradient {
		segs = SplitOnGradient(segs, loops, cfg.LoopSeamFix)
	} else {
		segs = AddSilhouettes(segs, loops)
	}
	segs = AddCreases(segs, in.Source.Creases(), cfg.CreaseMaxBend, cfg.LoopSeamFix)
	segs = AddBorders(segs, in.Source.Borders(), cfg.CreaseMaxBend, cfg.LoopSeamFix)
	for _, pl := range in.Polylines {
		segs = AddPolyline(segs, pl)
	}
	t.segs = segs
	st.Segments = len(segs)

	refs := Preprocess(segs, v, in.Surface, fr, cfg.IDSegmentLength)

	in.Canvas.Clear()
	if in.Occluders != nil {
		in.Occluders.DrawOccluders(in.Canvas, v)
	}
	st.Drawn, st.DroppedDraws = DrawPaths(in.Canvas, refs, fr, cfg.SeeThru)

	samples := Resample(refs, cfg.VisSampling, v, in.Surface, cfg.ResampleWorld)
	Classify(samples, in.Canvas, fr, cfg.SeeThru)
	ReconnectGaps(samples, cfg.GapTolerance)
	if cfg.LoopSeamFix {
		samples = LoopClean(samples, v)
	}
	res.Samples = samples
	st.Samples = len(samples)

	policy := BreakOnOcclusion
	switch {
	case cfg.SeeThru:
		policy = SeeThru
	case cfg.LongPaths:
		policy = LongPaths
	}
	res.Paths, st.DroppedIDs = BuildPaths(samples, policy, v, fr)
	st.Paths = res.Paths.Len()

	st.Votes, st.Missed = Propagate(t.samples, res.Paths, in.Canvas, in.Surface, v, cfg)

	var next []LuboSample
	for _, p := range res.Paths.Paths {
		GroupVotes(p, cfg, t.newStrokeID)
		for _, g := range p.Groups {
			if g.Good() {
				st.GoodGroups++
			} else {
				st.RejectedGroups++
			}
		}
		next = GenGroupSamples(next, p, in.Surface, cfg)
	}
	t.samples = next

	res.Strokes = t.emitter.Strokes(samples, cfg.StrokeStep(), cfg.SeeThru)
	res.Coherent = GroupStrokes(res.Paths, cfg.StrokeSampling)

	Logger().Debug("frame",
		"segments", st.Segments,
		"drawn", st.Drawn,
		"samples", st.Samples,
		"paths", st.Paths,
		"votes", st.Votes,
		"missed", st.Missed,
		"good_groups", st.GoodGroups,
		"rejected_groups", st.RejectedGroups)
	if st.DroppedDraws > 0 {
		Logger().Debug("sub-segments left no pixels", "count", st.DroppedDraws)
	}

	t.last = res
	t.lastView = v
	t.lastGen = gen
	t.Dirty = false
	return res, nil
}
