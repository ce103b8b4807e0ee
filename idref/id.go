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

// Package idref implements the ID-reference image: an off-screen buffer in
// which every silhouette path is drawn with a unique encoded value, and
// which later answers "is path X near this point" queries.
//
// Encoded values are 32-bit integers with the layout
//
//	bit  31     path marker (0 for mesh faces and background)
//	bits 16–30  high 15 bits of the path counter
//	bit  15     visibility: 1 for the depth-tested draw, 0 otherwise
//	bits  8–14  low 7 bits of the path counter
//	bits  0–7   quantised position along the drawn sub-segment
//
// The 24 high bits (mask 0xffffff00) identify a drawn sub-segment, the
// 8 low bits (mask 0x000000ff) give the position within it.
package idref

import (
	"fmt"
	"math"
)

const (
	PathBit      uint32 = 0x80000000
	VisBit       uint32 = 0x00008000
	IdentityMask uint32 = 0xffffff00
	PositionMask uint32 = 0x000000ff

	// MaxCounter is the largest path counter that can be encoded.
	MaxCounter = 1<<22 - 1

	counterLowBits = 7
	counterLowMask = 1<<counterLowBits - 1
)

// PathID is the decoded form of an encoded path value.
type PathID struct {
	IsPath   bool
	Visible  bool
	Counter  uint32
	Position uint8
}

// Encode packs id into its 32-bit form. Counter values above MaxCounter
// wrap around.
func (id PathID) Encode() uint32 {
	var e uint32
	if id.IsPath {
		e |= PathBit
	}
	if id.Visible {
		e |= VisBit
	}
	c := id.Counter & MaxCounter
	e |= (c & counterLowMask) << 8
	e |= (c >> counterLowBits) << 16
	return e | uint32(id.Position)
}

// Decode unpacks an encoded value.
func Decode(e uint32) PathID {
	low := (e >> 8) & counterLowMask
	high := (e >> 16) & (1<<15 - 1)
	return PathID{
		IsPath:   e&PathBit != 0,
		Visible:  e&VisBit != 0,
		Counter:  high<<counterLowBits | low,
		Position: uint8(e & PositionMask),
	}
}

func (id PathID) String() string {
	if !id.IsPath {
		e := id.Encode()
		if e == 0 {
			return "background"
		}
		return fmt.Sprintf("face:%d", e-1)
	}
	v := "invis"
	if id.Visible {
		v = "vis"
	}
	return fmt.Sprintf("path:%d/%s@%d", id.Counter, v, id.Position)
}

// Identity strips the position bits.
func Identity(e uint32) uint32 { return e & IdentityMask }

// Position returns the position bits.
func Position(e uint32) uint8 { return uint8(e & PositionMask) }

// IsPath reports whether e carries the path marker.
func IsPath(e uint32) bool { return e&PathBit != 0 }

// IsVisPath reports whether e is a path drawn in the depth-tested pass.
func IsVisPath(e uint32) bool { return e&(PathBit|VisBit) == PathBit|VisBit }

// IsInvisPath reports whether e is a path drawn without depth test.
func IsInvisPath(e uint32) bool { return e&(PathBit|VisBit) == PathBit }

// WithPosition replaces the position bits of e.
func WithPosition(e uint32, pos uint8) uint32 { return e&IdentityMask | uint32(pos) }

// QuantizePosition maps the arc length s within a sub-segment of the given
// length to 0…255. Rounding errors of accumulated lengths are absorbed, so
// that the end of a sub-segment maps to 255.
func QuantizePosition(s, length float64) uint8 {
	if length <= 0 || s <= 0 {
		return 0
	}
	q := math.Floor(255*s/length + 1e-6)
	if q >= 255 {
		return 255
	}
	return uint8(q)
}

// FaceValue is the value used for mesh faces. Index is the face index;
// zero is reserved for the background.
func FaceValue(index int) uint32 { return uint32(index+1) &^ PathBit }
