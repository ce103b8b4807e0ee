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

package testcases

import (
	"math"

	"github.com/deeean/go-vector/vector3"
	"seehuhn.de/go/pdf/graphics"

	"github.com/QuLogic/jot-lib-sub005/config"
	"github.com/QuLogic/jot-lib-sub005/mesh"
	"github.com/QuLogic/jot-lib-sub005/view"
)

// Scene defines a single animated test scene.
type Scene struct {
	Name   string              // lowercase a-z and _ only
	Meshes func() []*mesh.Mesh // builds fresh geometry (motions modify it)
	Width  int                 // canvas width in pixels
	Height int                 // canvas height in pixels
	Camera Camera
	Motion Motion // nil for a static scene

	Creases bool // also track crease strips
	Borders bool // also track border strips

	// Polylines are drawn as untracked paths in every frame.
	Polylines [][]*vector3.Vector3

	// Config, if not nil, adjusts the default configuration.
	Config func(*config.Config)

	Stroke Stroke
}

// Camera places the viewer. The eye orbits around Target by Orbit
// degrees per frame, about the vertical axis.
type Camera struct {
	Eye, Target, Up *vector3.Vector3
	FovY            float64 // degrees
	Orbit           float64
}

// View returns the camera of the given frame.
func (c Camera) View(frame, width, height int) view.View {
	eye := c.Eye
	if c.Orbit != 0 && frame != 0 {
		eye = rotateY(c.Eye, c.Target, c.Orbit*float64(frame))
	}
	return view.LookAt(eye, c.Target, c.Up, c.FovY, width, height)
}

// Motion moves the geometry between frames.
type Motion interface {
	isMotion()
	apply(s *mesh.Scene)
}

// Translate moves one mesh by Step per frame.
type Translate struct {
	Mesh int
	Step *vector3.Vector3
}

func (Translate) isMotion() {}

func (m Translate) apply(s *mesh.Scene) {
	if ms, ok := s.Mesh(m.Mesh); ok {
		ms.Transform(func(p *vector3.Vector3) *vector3.Vector3 { return p.Add(m.Step) })
	}
}

// Spin rotates one mesh by Degrees per frame, about the vertical axis
// through Center.
type Spin struct {
	Mesh    int
	Center  *vector3.Vector3
	Degrees float64
}

func (Spin) isMotion() {}

func (m Spin) apply(s *mesh.Scene) {
	if ms, ok := s.Mesh(m.Mesh); ok {
		ms.Transform(func(p *vector3.Vector3) *vector3.Vector3 { return rotateY(p, m.Center, m.Degrees) })
	}
}

// Stroke specifies how emitted strokes are drawn.
type Stroke struct {
	Width float64                // line width in pixels (>0)
	Cap   graphics.LineCapStyle  // LineCapButt, LineCapRound, LineCapSquare
	Join  graphics.LineJoinStyle // LineJoinMiter, LineJoinRound, LineJoinBevel
}

// DefaultStroke is used by scenes which leave Stroke unset.
var DefaultStroke = Stroke{
	Width: 1.5,
	Cap:   graphics.LineCapRound,
	Join:  graphics.LineJoinRound,
}

// Build creates the mesh scene for s.
func (s *Scene) Build() (*mesh.Scene, error) {
	sc, err := mesh.NewScene(s.Meshes()...)
	if err != nil {
		return nil, err
	}
	sc.UseCreases = s.Creases
	sc.UseBorders = s.Borders
	return sc, nil
}

// Advance moves the geometry of sc on to the next frame.
func (s *Scene) Advance(sc *mesh.Scene) {
	if s.Motion != nil {
		s.Motion.apply(sc)
	}
}

// Configure returns the configuration for s.
func (s *Scene) Configure() config.Config {
	cfg := config.Default()
	if s.Config != nil {
		s.Config(&cfg)
	}
	return cfg
}

// StrokeStyle returns s.Stroke, or DefaultStroke if it is unset.
func (s *Scene) StrokeStyle() Stroke {
	if s.Stroke.Width <= 0 {
		return DefaultStroke
	}
	return s.Stroke
}

// rotateY rotates p by deg degrees about the vertical axis through c.
func rotateY(p, c *vector3.Vector3, deg float64) *vector3.Vector3 {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	d := p.Sub(c)
	return vector3.New(c.X+cos*d.X+sin*d.Z, p.Y, c.Z-sin*d.X+cos*d.Z)
}

// pt is a helper to create a vector3.Vector3 from x, y, z coordinates.
func pt(x, y, z float64) *vector3.Vector3 {
	return vector3.New(x, y, z)
}

// frontCamera looks at the origin from distance dist on the positive z
// axis.
func frontCamera(dist float64) Camera {
	return Camera{
		Eye:    pt(0, 0, dist),
		Target: pt(0, 0, 0),
		Up:     pt(0, 1, 0),
		FovY:   45,
	}
}
