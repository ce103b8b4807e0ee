package testcases

import (
	"seehuhn.de/go/pdf/graphics"

	"github.com/QuLogic/jot-lib-sub005/mesh"
)

var basicScenes = []Scene{
	{
		Name: "sphere",
		Meshes: func() []*mesh.Mesh {
			return []*mesh.Mesh{mesh.Sphere(0, pt(0, 0, 0), 1, 16, 32)}
		},
		Width:  160,
		Height: 160,
		Camera: frontCamera(5),
	},
	{
		Name: "torus",
		Meshes: func() []*mesh.Mesh {
			return []*mesh.Mesh{mesh.Torus(0, pt(0, 0, 0), 1, 0.4, 48, 16)}
		},
		Width:  200,
		Height: 160,
		Camera: Camera{Eye: pt(0, 2.5, 4), Target: pt(0, 0, 0), Up: pt(0, 1, 0), FovY: 45},
	},
	{
		Name: "box_creases",
		Meshes: func() []*mesh.Mesh {
			return []*mesh.Mesh{mesh.Box(0, pt(0, 0, 0), 1.2, 1, 0.8)}
		},
		Width:   160,
		Height:  160,
		Camera:  Camera{Eye: pt(2.5, 2, 3.5), Target: pt(0, 0, 0), Up: pt(0, 1, 0), FovY: 45},
		Creases: true,
		Stroke:  Stroke{Width: 2, Cap: graphics.LineCapSquare, Join: graphics.LineJoinBevel},
	},
	{
		Name: "grid_borders",
		Meshes: func() []*mesh.Mesh {
			return []*mesh.Mesh{mesh.Grid(0, pt(0, 0, 0), 2, 1.5, 8, 6)}
		},
		Width:   160,
		Height:  160,
		Camera:  Camera{Eye: pt(0.5, 1, 4), Target: pt(0, 0, 0), Up: pt(0, 1, 0), FovY: 45},
		Borders: true,
	},
}
