package testcases

import (
	"github.com/QuLogic/jot-lib-sub005/config"
	"github.com/QuLogic/jot-lib-sub005/mesh"
)

var motionScenes = []Scene{
	{
		Name: "sphere_slide",
		Meshes: func() []*mesh.Mesh {
			return []*mesh.Mesh{mesh.Sphere(0, pt(-0.3, 0, 0), 1, 16, 32)}
		},
		Width:  160,
		Height: 160,
		Camera: frontCamera(5),
		Motion: Translate{Mesh: 0, Step: pt(0.02, 0, 0)},
	},
	{
		Name: "torus_spin",
		Meshes: func() []*mesh.Mesh {
			return []*mesh.Mesh{mesh.Torus(0, pt(0, 0, 0), 1, 0.4, 48, 16)}
		},
		Width:  200,
		Height: 160,
		Camera: Camera{Eye: pt(0, 2.5, 4), Target: pt(0, 0, 0), Up: pt(0, 1, 0), FovY: 45},
		Motion: Spin{Mesh: 0, Center: pt(0, 0, 0), Degrees: 2},
	},
	{
		Name: "orbit",
		Meshes: func() []*mesh.Mesh {
			return []*mesh.Mesh{
				mesh.Sphere(0, pt(0, 0, 0), 1, 16, 32),
				mesh.Torus(1, pt(0, -1.2, 0), 1.4, 0.2, 48, 12),
			}
		},
		Width:  200,
		Height: 200,
		Camera: Camera{Eye: pt(0, 1, 6), Target: pt(0, -0.4, 0), Up: pt(0, 1, 0), FovY: 45, Orbit: 3},
	},
	{
		Name: "long_paths",
		Meshes: func() []*mesh.Mesh {
			return []*mesh.Mesh{mesh.Sphere(0, pt(0, 0, 0), 1, 16, 32)}
		},
		Width:  160,
		Height: 160,
		Camera: Camera{Eye: pt(0, 0, 5), Target: pt(0, 0, 0), Up: pt(0, 1, 0), FovY: 45, Orbit: 5},
		Config: func(c *config.Config) { c.LongPaths = true },
	},
}
