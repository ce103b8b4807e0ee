// Package render draws the silhouette strokes of animated test scenes
// into grayscale coverage images.
package render

//go:generate go run ./cmd/silstroke run --all --out testdata/reference

import (
	"fmt"
	"image"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"github.com/QuLogic/jot-lib-sub005/config"
	"github.com/QuLogic/jot-lib-sub005/idref"
	"github.com/QuLogic/jot-lib-sub005/internal/raster"
	"github.com/QuLogic/jot-lib-sub005/testcases"
	"github.com/QuLogic/jot-lib-sub005/view"
	"github.com/QuLogic/jot-lib-sub005/zxedge"
)

// HiddenCoverage scales the coverage of strokes drawn for hidden
// silhouettes in see-through mode.
const HiddenCoverage = 0.5

// Renderer runs the silhouette tracker on a private ID image and draws
// the resulting strokes.
type Renderer struct {
	Tracker *zxedge.Tracker

	// Style selects width, caps and joins of the drawn strokes.
	Style testcases.Stroke

	// Coherent selects the strokes of the vote groups instead of the
	// strokes derived directly from the visibility samples.
	Coherent bool

	buf  *idref.Buffer
	rast *raster.Rasterizer
	w, h int
}

// NewRenderer returns a renderer for w×h images.
func NewRenderer(cfg config.Config, w, h int) (*Renderer, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", w, h)
	}
	tr, err := zxedge.NewTracker(cfg)
	if err != nil {
		return nil, err
	}
	buf := idref.NewBuffer(w, h)
	buf.LineWidth = cfg.LineWidth
	buf.DepthBias = cfg.DepthBias
	return &Renderer{
		Tracker: tr,
		Style:   testcases.DefaultStroke,
		buf:     buf,
		rast:    raster.NewRasterizer(rect.Rect{URx: float64(w), URy: float64(h)}),
		w:       w,
		h:       h,
	}, nil
}

// IDImage returns the ID-reference image of the last frame.
func (r *Renderer) IDImage() *idref.Buffer { return r.buf }

// Frame runs the tracker for one frame and draws the strokes into a new
// image. in.Canvas is replaced by the renderer's own ID image.
func (r *Renderer) Frame(in zxedge.FrameInput) (*image.Alpha, *zxedge.FrameResult, error) {
	if in.View.Width != r.w || in.View.Height != r.h {
		return nil, nil, fmt.Errorf("view is %dx%d, renderer is %dx%d: %w",
			in.View.Width, in.View.Height, r.w, r.h, zxedge.ErrInvalidGeometry)
	}
	in.Canvas = r.buf
	res, err := r.Tracker.Update(in)
	if err != nil {
		return nil, nil, err
	}

	img := image.NewAlpha(image.Rect(0, 0, r.w, r.h))
	strokes := res.Strokes
	if r.Coherent {
		strokes = res.Coherent
	}
	r.Draw(img, in.View, strokes)
	return img, res, nil
}

// Draw strokes into dst. Overlapping strokes combine by taking the
// maximum coverage.
func (r *Renderer) Draw(dst *image.Alpha, v view.View, strokes []zxedge.Stroke) {
	b := dst.Bounds()
	clip := rect.Rect{
		LLx: float64(b.Min.X), LLy: float64(b.Min.Y),
		URx: float64(b.Max.X), URy: float64(b.Max.Y),
	}

	var pts []vec.Vec2
	for i := range strokes {
		s := &strokes[i]
		if len(s.Pts) == 0 {
			continue
		}
		scale := float32(255)
		if s.Vis == zxedge.Hidden {
			scale *= HiddenCoverage
		}

		pts = pts[:0]
		for _, p := range s.Pts {
			pts = append(pts, v.NDCToPix(p))
		}

		r.rast.Reset(clip)
		r.rast.Width = r.Style.Width
		r.rast.Cap = r.Style.Cap
		r.rast.Join = r.Style.Join
		r.rast.StrokePolyline(pts, false, func(y, xMin int, cov []float32) {
			row := dst.Pix[(y-b.Min.Y)*dst.Stride+xMin-b.Min.X:]
			for i, c := range cov {
				a := uint8(min(c*scale+0.5, 255))
				if a > row[i] {
					row[i] = a
				}
			}
		})
	}
}

// FrameFunc receives the image and the tracker result of every rendered
// frame.
type FrameFunc func(frame int, img *image.Alpha, res *zxedge.FrameResult) error

// RenderScene renders frames frames of sc. The geometry is advanced
// after every frame.
func RenderScene(sc testcases.Scene, frames int, fn FrameFunc) error {
	r, err := NewRenderer(sc.Configure(), sc.Width, sc.Height)
	if err != nil {
		return err
	}
	r.Style = sc.StrokeStyle()
	return r.RenderScene(sc, frames, fn)
}

// RenderScene renders frames frames of sc using r.
func (r *Renderer) RenderScene(sc testcases.Scene, frames int, fn FrameFunc) error {
	ms, err := sc.Build()
	if err != nil {
		return err
	}
	zxedge.Logger().Info("rendering scene",
		"scene", sc.Name, "frames", frames, "size", fmt.Sprintf("%dx%d", sc.Width, sc.Height))
	for i := range frames {
		in := zxedge.FrameInput{
			Source:    ms,
			Surface:   ms,
			View:      sc.Camera.View(i, sc.Width, sc.Height),
			Occluders: ms,
			Polylines: sc.Polylines,
		}
		img, res, err := r.Frame(in)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if fn != nil {
			if err := fn(i, img, res); err != nil {
				return err
			}
		}
		sc.Advance(ms)
	}
	return nil
}
