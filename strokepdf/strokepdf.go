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

// Package strokepdf writes silhouette strokes as vector graphics into a
// single page PDF file.
package strokepdf

import (
	"os"
	"os/exec"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"

	"github.com/QuLogic/jot-lib-sub005/testcases"
	"github.com/QuLogic/jot-lib-sub005/view"
	"github.com/QuLogic/jot-lib-sub005/zxedge"
)

// Gray levels of the stroke colours.
const (
	VisibleGray = 0
	HiddenGray  = 0.6
)

// Write draws strokes onto a white page of the size of v, one PDF point
// per pixel.
func Write(pdfPath string, v view.View, strokes []zxedge.Stroke, st testcases.Stroke) error {
	paper := &pdf.Rectangle{
		URx: float64(v.Width),
		URy: float64(v.Height),
	}

	page, err := document.CreateSinglePage(pdfPath, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(1))
	page.Rectangle(0, 0, float64(v.Width), float64(v.Height))
	page.Fill()

	// PDF origin is bottom-left; pixel coordinates are top-left.
	page.Transform(matrix.Matrix{1, 0, 0, -1, 0, float64(v.Height)})

	// Stroke parameters must be set before path construction.
	page.SetLineWidth(st.Width)
	page.SetLineCap(st.Cap)
	page.SetLineJoin(st.Join)

	// Hidden strokes first, so that visible ones end up on top.
	for _, pass := range []zxedge.Visibility{zxedge.Hidden, zxedge.Visible} {
		gray := color.DeviceGray(VisibleGray)
		if pass == zxedge.Hidden {
			gray = color.DeviceGray(HiddenGray)
		}
		started := false
		for i := range strokes {
			s := &strokes[i]
			if s.Vis != pass || len(s.Pts) < 2 {
				continue
			}
			if !started {
				page.SetStrokeColor(gray)
				started = true
			}
			for j, q := range s.Pts {
				p := v.NDCToPix(q)
				if j == 0 {
					page.MoveTo(p.X, p.Y)
				} else {
					page.LineTo(p.X, p.Y)
				}
			}
			page.Stroke()
		}
	}

	return page.Close()
}

// RenderPNG converts a PDF file into a grayscale PNG using Ghostscript.
// The gs binary must be in $PATH.
func RenderPNG(pdfPath, pngPath string) error {
	// -sDEVICE=pnggray: 8-bit grayscale
	// -r72: 72 DPI (1 point = 1 pixel)
	// -dGraphicsAlphaBits=4: 4x supersampling for anti-aliasing
	cmd := exec.Command(
		"gs", "-q",
		"-sDEVICE=pnggray",
		"-r72",
		"-dGraphicsAlphaBits=4",
		"-o", pngPath,
		pdfPath,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
