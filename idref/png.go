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

package idref

import (
	"image"
	"image/color"
	"image/png"
	"io"
)

// WritePNG writes a false-colour rendering of the buffer. Visible paths are
// drawn in saturated colours, invisible paths in darker ones, faces in
// grey and the background in black.
func (b *Buffer) WritePNG(w io.Writer) error {
	img := image.NewRGBA(b.Bounds())
	for y := range b.h {
		for x := range b.w {
			img.SetRGBA(x, y, valColor(b.vals[y*b.w+x]))
		}
	}
	return png.Encode(w, img)
}

func valColor(v uint32) color.RGBA {
	switch {
	case v == 0:
		return color.RGBA{A: 255}
	case !IsPath(v):
		return color.RGBA{R: 96, G: 96, B: 96, A: 255}
	}

	// spread neighbouring counters over the hue circle
	h := Identity(v) &^ VisBit
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	c := color.RGBA{R: uint8(h), G: uint8(h >> 8), B: uint8(h >> 16), A: 255}
	c.R |= 0x40
	c.G |= 0x40
	c.B |= 0x40
	if !IsVisPath(v) {
		c.R /= 2
		c.G /= 2
		c.B /= 2
	}
	return c
}
