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

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/deeean/go-vector/vector3"
	"github.com/spf13/cobra"

	"github.com/QuLogic/jot-lib-sub005/testcases"
)

func newScenesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return writeScenesJSON(cmd.OutOrStdout())
			}
			for _, name := range testcases.Names() {
				sc, _ := testcases.Lookup(name)
				fmt.Fprintf(cmd.OutOrStdout(), "%-28s %dx%d %s\n",
					name, sc.Width, sc.Height, motionName(sc.Motion, sc.Camera))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "describe the scenes as JSON")
	return cmd
}

type jsonScene struct {
	Name      string        `json:"name"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Meshes    int           `json:"meshes"`
	Eye       []float64     `json:"eye"`
	Target    []float64     `json:"target"`
	FovY      float64       `json:"fov_y"`
	Orbit     float64       `json:"orbit,omitempty"`
	Motion    string        `json:"motion"`
	Creases   bool          `json:"creases,omitempty"`
	Borders   bool          `json:"borders,omitempty"`
	Polylines [][][]float64 `json:"polylines,omitempty"`
	LineWidth float64       `json:"line_width"`
	LineCap   string        `json:"line_cap"`
	LineJoin  string        `json:"line_join"`
}

func writeScenesJSON(w io.Writer) error {
	var out struct {
		Scenes []jsonScene `json:"scenes"`
	}
	for _, name := range testcases.Names() {
		sc, _ := testcases.Lookup(name)
		out.Scenes = append(out.Scenes, toJSON(name, sc))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSON(name string, sc testcases.Scene) jsonScene {
	st := sc.StrokeStyle()
	js := jsonScene{
		Name:      name,
		Width:     sc.Width,
		Height:    sc.Height,
		Meshes:    len(sc.Meshes()),
		Eye:       xyz(sc.Camera.Eye),
		Target:    xyz(sc.Camera.Target),
		FovY:      sc.Camera.FovY,
		Orbit:     sc.Camera.Orbit,
		Motion:    motionName(sc.Motion, sc.Camera),
		Creases:   sc.Creases,
		Borders:   sc.Borders,
		LineWidth: st.Width,
		LineCap:   st.Cap.String(),
		LineJoin:  st.Join.String(),
	}
	for _, pl := range sc.Polylines {
		pts := make([][]float64, len(pl))
		for i, p := range pl {
			pts[i] = xyz(p)
		}
		js.Polylines = append(js.Polylines, pts)
	}
	return js
}

func motionName(m testcases.Motion, c testcases.Camera) string {
	switch m := m.(type) {
	case testcases.Translate:
		return fmt.Sprintf("translate mesh %d", m.Mesh)
	case testcases.Spin:
		return fmt.Sprintf("spin mesh %d by %g°", m.Mesh, m.Degrees)
	}
	if c.Orbit != 0 {
		return fmt.Sprintf("orbit %g°", c.Orbit)
	}
	return "static"
}

func xyz(p *vector3.Vector3) []float64 {
	return []float64{p.X, p.Y, p.Z}
}
