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

// Package zxedge turns per-frame silhouette geometry into screen-space
// paths and keeps the parameterisation of hand-drawn strokes coherent from
// frame to frame.
//
// A frame runs through these stages:
//
//  1. Preprocessing: zero-crossing loops, creases, borders and explicit
//     polylines become a flat list of [ZXSegment] runs, which are
//     projected, clipped to the view frustum and given encoded path ids
//     ([RefSegment]).
//  2. The runs are drawn into an ID-reference image ([DrawPaths]).
//  3. Resampling at a fixed pixel spacing, with every sample classified
//     against the ID image ([SilSeg]).
//  4. Path building ([LuboPath]).
//  5. Propagation of last frame's [LuboSample]s onto the new paths, as
//     [LuboVote]s, which are clustered into [VoteGroup]s.
//  6. Generation of the samples for the next frame, and stroke output.
//
// [Tracker] runs all stages and carries the samples between frames.
package zxedge

import (
	"errors"
	"fmt"

	"github.com/deeean/go-vector/vector3"
	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/mesh"
)

var (
	// ErrInvalidGeometry reports geometry the pipeline cannot use, such as
	// an anchor that does not name a valid simplex.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrOutOfRange reports an index outside its valid range.
	ErrOutOfRange = errors.New("index out of range")
)

// SegType is the kind of line a segment belongs to.
type SegType uint8

const (
	Sil SegType = iota
	SilBack
	Crease
	Border
	Polyline
)

func (t SegType) String() string {
	switch t {
	case Sil:
		return "sil"
	case SilBack:
		return "sil_back"
	case Crease:
		return "crease"
	case Border:
		return "border"
	case Polyline:
		return "polyline"
	default:
		return fmt.Sprintf("SegType(%d)", t)
	}
}

// Visibility is the classification of a sample.
type Visibility uint8

const (
	Unknown Visibility = iota
	Visible
	Hidden     // visible only when occluders are ignored
	Occluded   // not found in the ID image
	Backfacing // gradient marks a back-facing silhouette
	Clipped    // outside the view frustum
)

func (v Visibility) String() string {
	switch v {
	case Unknown:
		return "unknown"
	case Visible:
		return "visible"
	case Hidden:
		return "hidden"
	case Occluded:
		return "occluded"
	case Backfacing:
		return "backfacing"
	case Clipped:
		return "clipped"
	default:
		return fmt.Sprintf("Visibility(%d)", v)
	}
}

// ZXSegment is one point of the raw per-frame line geometry. Points are
// grouped into runs; End marks the last point of a run. A run whose last
// point repeats its first is a closed loop.
type ZXSegment struct {
	Pos    *vector3.Vector3
	Anchor mesh.Anchor
	Front  bool // gradient flag
	Type   SegType
	End    bool
}

// RefSegment is a ZXSegment after projection, frustum clipping and id
// assignment.
type RefSegment struct {
	World  *vector3.Vector3
	Anchor mesh.Anchor
	NDC    vec.Vec2
	Z      float64
	Front  bool
	Type   SegType

	// Len is the arc length, in pixels, from the start of the run.
	Len float64

	// VisID and InvisID are the encoded values used for the depth-tested
	// and the plain draw of this point.
	VisID, InvisID uint32

	End bool
}

// SilSeg is a resampled and classified RefSegment.
type SilSeg struct {
	RefSegment
	Vis Visibility
}

// Source provides the line geometry of a frame.
type Source interface {
	ZeroCrossings(eye *vector3.Vector3) []mesh.Loop
	Creases() []mesh.Loop
	Borders() []mesh.Loop

	// Generation changes whenever the geometry moves.
	Generation() uint64
}

// Surface locates anchored points in the current frame.
type Surface interface {
	Locate(a mesh.Anchor) (pos, normal *vector3.Vector3, err error)

	// Between interpolates between two anchors on a common simplex.
	Between(a, b mesh.Anchor, t float64) (mesh.Anchor, bool)
}

// runs calls fn with the index range [start, end] of every run in a list
// whose elements carry End flags.
func runs(n int, isEnd func(int) bool, fn func(start, end int)) {
	start := 0
	for i := range n {
		if isEnd(i) || i == n-1 {
			fn(start, i)
			start = i + 1
		}
	}
}
