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

package raster

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// coverageGrid runs draw with both scan strategies and returns the
// resulting w×h coverage grids.
func coverageGrid(w, h int, draw func(r *Rasterizer, emit EmitFunc)) (buffered, active []float32) {
	run := func(limit int) []float32 {
		grid := make([]float32, w*h)
		r := NewRasterizer(rect.Rect{URx: float64(w), URy: float64(h)})
		r.bufferedArea = limit
		draw(r, func(y, xMin int, cov []float32) {
			copy(grid[y*w+xMin:], cov)
		})
		return grid
	}
	return run(1 << 30), run(0)
}

func near(got, want float32) bool {
	return math.Abs(float64(got-want)) < 1e-4
}

// TestTriangleCoverage checks exact coverage for the triangle
// (0,0)→(10,0)→(10,1). Pixel X is covered by (2X+1)/20.
func TestTriangleCoverage(t *testing.T) {
	tri := []vec.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 1}}

	buffered, active := coverageGrid(10, 1, func(r *Rasterizer, emit EmitFunc) {
		r.FillPolygon(tri, emit)
	})

	const epsilon = 1e-6
	for x := range 10 {
		want := float32(2*x+1) / 20
		if math.Abs(float64(buffered[x]-want)) > epsilon {
			t.Errorf("buffered pixel %d: got %.4f, want %.4f", x, buffered[x], want)
		}
		if math.Abs(float64(active[x]-want)) > epsilon {
			t.Errorf("active pixel %d: got %.4f, want %.4f", x, active[x], want)
		}
	}
}

func TestScanStrategiesAgree(t *testing.T) {
	pts := []vec.Vec2{{X: 2.5, Y: 1}, {X: 17, Y: 4.25}, {X: 6, Y: 15.5}}
	buffered, active := coverageGrid(20, 20, func(r *Rasterizer, emit EmitFunc) { r.FillPolygon(pts, emit) })
	for i := range buffered {
		if !near(buffered[i], active[i]) {
			t.Fatalf("pixel %d: buffered %.4f, active %.4f", i, buffered[i], active[i])
		}
	}
}

// TestNonZeroStar fills a self-intersecting pentagram. The centre is wound
// twice and must still read as fully covered.
func TestNonZeroStar(t *testing.T) {
	c := vec.Vec2{X: 12, Y: 12}
	var star []vec.Vec2
	for i := range 5 {
		a := math.Pi/2 + float64(2*i)*2*math.Pi/5
		star = append(star, c.Add(vec.Vec2{X: math.Cos(a), Y: -math.Sin(a)}.Mul(11)))
	}

	buffered, active := coverageGrid(24, 24, func(r *Rasterizer, emit EmitFunc) { r.FillPolygon(star, emit) })
	for _, grid := range [][]float32{buffered, active} {
		if got := grid[12*24+12]; !near(got, 1) {
			t.Errorf("centre coverage %.3f, want 1", got)
		}
		if got := grid[0]; !near(got, 0) {
			t.Errorf("corner coverage %.3f, want 0", got)
		}
		for i, v := range grid {
			if v < 0 || v > 1 {
				t.Fatalf("pixel %d: coverage %.3f outside [0, 1]", i, v)
			}
		}
	}
}

func TestStrokeHorizontalLine(t *testing.T) {
	line := []vec.Vec2{{X: 4, Y: 8}, {X: 20, Y: 8}}

	cases := []struct {
		cap        graphics.LineCapStyle
		left, edge float32 // coverage at x=2 and x=4
	}{
		{graphics.LineCapButt, 0, 1},
		{graphics.LineCapSquare, 1, 1},
	}
	for _, tc := range cases {
		t.Run(tc.cap.String(), func(t *testing.T) {
			buffered, active := coverageGrid(24, 16, func(r *Rasterizer, emit EmitFunc) {
				r.Width = 6
				r.Cap = tc.cap
				r.StrokePolyline(line, false, emit)
			})
			for _, grid := range [][]float32{buffered, active} {
				if got := grid[7*24+2]; !near(got, tc.left) {
					t.Errorf("x=2: coverage %.3f, want %.3f", got, tc.left)
				}
				if got := grid[7*24+4]; !near(got, tc.edge) {
					t.Errorf("x=4: coverage %.3f, want %.3f", got, tc.edge)
				}
				if got := grid[4*24+12]; !near(got, 0) {
					t.Errorf("above the stroke: coverage %.3f, want 0", got)
				}
				if got := grid[5*24+12]; !near(got, 1) {
					t.Errorf("inside the stroke: coverage %.3f, want 1", got)
				}
			}
		})
	}
}

func TestStrokeClosedSquareLeavesHole(t *testing.T) {
	sq := []vec.Vec2{{X: 4, Y: 4}, {X: 20, Y: 4}, {X: 20, Y: 20}, {X: 4, Y: 20}}
	for _, join := range []graphics.LineJoinStyle{graphics.LineJoinMiter, graphics.LineJoinRound, graphics.LineJoinBevel} {
		t.Run(join.String(), func(t *testing.T) {
			grid, _ := coverageGrid(24, 24, func(r *Rasterizer, emit EmitFunc) {
				r.Width = 2
				r.Join = join
				r.StrokePolyline(sq, true, emit)
			})
			if got := grid[12*24+12]; !near(got, 0) {
				t.Errorf("centre coverage %.3f, want 0", got)
			}
			if got := grid[12*24+4]; !near(got, 1) {
				t.Errorf("left side coverage %.3f, want 1", got)
			}
			if got := grid[4*24+12]; !near(got, 1) {
				t.Errorf("top side coverage %.3f, want 1", got)
			}
		})
	}
}

func TestStrokeDegenerateRoundDot(t *testing.T) {
	grid, _ := coverageGrid(16, 16, func(r *Rasterizer, emit EmitFunc) {
		r.Width = 8
		r.Cap = graphics.LineCapRound
		r.StrokePolyline([]vec.Vec2{{X: 8, Y: 8}, {X: 8, Y: 8}}, false, emit)
	})
	if got := grid[8*16+8]; !near(got, 1) {
		t.Errorf("dot centre coverage %.3f, want 1", got)
	}
	if got := grid[0]; !near(got, 0) {
		t.Errorf("corner coverage %.3f, want 0", got)
	}
}

func TestClipOutside(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 10, URy: 10})
	called := false
	r.FillPolygon([]vec.Vec2{{X: 20, Y: 20}, {X: 30, Y: 20}, {X: 25, Y: 30}}, func(int, int, []float32) {
		called = true
	})
	if called {
		t.Error("emit called for a polygon outside the clip rectangle")
	}
}
