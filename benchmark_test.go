package render

import (
	"image"
	"testing"

	"github.com/QuLogic/jot-lib-sub005/testcases"
	"github.com/QuLogic/jot-lib-sub005/zxedge"
)

// BenchmarkScenes measures complete frames, tracker and stroke drawing,
// for every test scene.
func BenchmarkScenes(b *testing.B) {
	for _, name := range testcases.Names() {
		sc, _ := testcases.Lookup(name)
		b.Run(name, func(b *testing.B) {
			r, err := NewRenderer(sc.Configure(), sc.Width, sc.Height)
			if err != nil {
				b.Fatal(err)
			}
			r.Style = sc.StrokeStyle()
			ms, err := sc.Build()
			if err != nil {
				b.Fatal(err)
			}

			b.ResetTimer()
			b.ReportAllocs()

			frame := 0
			for b.Loop() {
				r.Tracker.Dirty = true
				_, _, err := r.Frame(zxedge.FrameInput{
					Source:    ms,
					Surface:   ms,
					View:      sc.Camera.View(frame, sc.Width, sc.Height),
					Occluders: ms,
					Polylines: sc.Polylines,
				})
				if err != nil {
					b.Fatal(err)
				}
				sc.Advance(ms)
				frame++
			}
		})
	}
}

// BenchmarkDraw measures stroke drawing alone.
func BenchmarkDraw(b *testing.B) {
	sc, _ := testcases.Lookup("basic_torus")
	r, err := NewRenderer(sc.Configure(), sc.Width, sc.Height)
	if err != nil {
		b.Fatal(err)
	}
	var strokes []zxedge.Stroke
	err = r.RenderScene(sc, 1, func(_ int, _ *image.Alpha, res *zxedge.FrameResult) error {
		strokes = append(strokes, res.Strokes...)
		return nil
	})
	if err != nil {
		b.Fatal(err)
	}
	v := sc.Camera.View(0, sc.Width, sc.Height)
	dst := image.NewAlpha(image.Rect(0, 0, sc.Width, sc.Height))

	b.ResetTimer()
	b.ReportAllocs()

	for b.Loop() {
		clear(dst.Pix)
		r.Draw(dst, v, strokes)
	}
}
