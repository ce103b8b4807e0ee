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

import "github.com/QuLogic/jot-lib-sub005/idref"

// Frame is the per-frame id context: it hands out path counters and
// records which identities were actually drawn into the ID image, and how
// long (in pixels) each drawn sub-segment was.
type Frame struct {
	next    uint32
	wrapped bool
	drawn   map[uint32]float64
}

// NewFrame returns an empty context.
func NewFrame() *Frame {
	return &Frame{drawn: make(map[uint32]float64)}
}

// Reset clears the context for a new frame.
func (f *Frame) Reset() {
	f.next = 0
	f.wrapped = false
	clear(f.drawn)
}

// NextCounter returns a fresh path counter.
func (f *Frame) NextCounter() uint32 {
	c := f.next
	f.next++
	if f.next > idref.MaxCounter {
		f.next = 0
		if !f.wrapped {
			f.wrapped = true
			Logger().Warn("path id counter wrapped around")
		}
	}
	return c
}

// Register records that the sub-segment with the given identity was drawn
// with the given length.
func (f *Frame) Register(id uint32, length float64) {
	f.drawn[idref.Identity(id)] = length
}

// Drawn reports whether the identity of id was drawn in this frame, and
// the drawn length.
func (f *Frame) Drawn(id uint32) (float64, bool) {
	l, ok := f.drawn[idref.Identity(id)]
	return l, ok
}

// NumDrawn returns the number of registered identities.
func (f *Frame) NumDrawn() int { return len(f.drawn) }
