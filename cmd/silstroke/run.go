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
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	render "github.com/QuLogic/jot-lib-sub005"
	"github.com/QuLogic/jot-lib-sub005/config"
	"github.com/QuLogic/jot-lib-sub005/strokepdf"
	"github.com/QuLogic/jot-lib-sub005/testcases"
	"github.com/QuLogic/jot-lib-sub005/zxedge"
)

type runOptions struct {
	*rootOptions

	scenes   []string
	all      bool
	frames   int
	outDir   string
	pdf      bool
	tags     bool
	ids      bool
	coherent bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Render scenes frame by frame",
		Example: `  silstroke run --scene motion_torus_spin --frames 30 --pdf
  silstroke run --all --out testdata/reference`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := opts.scenes
			if opts.all {
				names = testcases.Names()
			}
			if len(names) == 0 {
				return errorf("no scene selected, use --scene or --all")
			}
			if opts.frames < 1 {
				return errorf("--frames must be positive")
			}
			if err := os.MkdirAll(opts.outDir, 0755); err != nil {
				return err
			}
			for _, name := range names {
				sc, ok := testcases.Lookup(name)
				if !ok {
					return errorf("unknown scene %q", name)
				}
				if err := opts.render(name, sc); err != nil {
					return fmt.Errorf("%s: %w", name, err)
				}
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&opts.scenes, "scene", "s", nil, "scenes to render (see \"silstroke scenes\")")
	f.BoolVar(&opts.all, "all", false, "render all scenes")
	f.IntVarP(&opts.frames, "frames", "n", 3, "number of frames")
	f.StringVarP(&opts.outDir, "out", "o", "out", "output directory")
	f.BoolVar(&opts.pdf, "pdf", false, "also write every frame as PDF")
	f.BoolVar(&opts.tags, "tags", false, "also write the paths of every frame in TAG format")
	f.BoolVar(&opts.ids, "ids", false, "also write the ID-reference image of every frame")
	f.BoolVar(&opts.coherent, "coherent", false, "draw the strokes of the vote groups")
	return cmd
}

// sceneConfig returns the configuration of sc, updated from the
// configuration file and the environment.
func sceneConfig(sc testcases.Scene, path string) (config.Config, error) {
	cfg := sc.Configure()
	if path != "" {
		fd, err := os.Open(path)
		if err != nil {
			return cfg, err
		}
		err = cfg.Decode(fd)
		fd.Close()
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (opts *runOptions) render(name string, sc testcases.Scene) error {
	cfg, err := sceneConfig(sc, opts.configPath)
	if err != nil {
		return err
	}
	r, err := render.NewRenderer(cfg, sc.Width, sc.Height)
	if err != nil {
		return err
	}
	r.Style = sc.StrokeStyle()
	r.Coherent = opts.coherent

	return r.RenderScene(sc, opts.frames, func(frame int, img *image.Alpha, res *zxedge.FrameResult) error {
		base := filepath.Join(opts.outDir, fmt.Sprintf("%s_%02d", name, frame))
		if err := writeFile(base+".png", func(w io.Writer) error {
			return png.Encode(w, inkImage(img))
		}); err != nil {
			return err
		}
		if opts.ids {
			if err := writeFile(base+"_ids.png", r.IDImage().WritePNG); err != nil {
				return err
			}
		}
		if opts.tags {
			if err := writeFile(base+".tag", func(w io.Writer) error {
				for _, p := range res.Paths.Paths {
					if err := zxedge.WriteTags(w, p); err != nil {
						return err
					}
				}
				return nil
			}); err != nil {
				return err
			}
		}
		if opts.pdf {
			strokes := res.Strokes
			if opts.coherent {
				strokes = res.Coherent
			}
			v := sc.Camera.View(frame, sc.Width, sc.Height)
			if err := strokepdf.Write(base+".pdf", v, strokes, r.Style); err != nil {
				return err
			}
		}

		st := res.Stats
		zxedge.Logger().Info("frame done",
			"scene", name,
			"frame", frame,
			"paths", st.Paths,
			"votes", st.Votes,
			"good_groups", st.GoodGroups)
		return nil
	})
}

// inkImage turns coverage into black strokes on white paper.
func inkImage(a *image.Alpha) *image.Gray {
	g := image.NewGray(a.Bounds())
	for i, c := range a.Pix {
		g.Pix[i] = 255 - c
	}
	return g
}

func writeFile(name string, fn func(io.Writer) error) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
