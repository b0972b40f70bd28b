package operations

import (
	"context"
	"fmt"
	"image"

	"visionlab/internal/opencv/safe"
	"visionlab/internal/overlay"

	"gocv.io/x/gocv"
)

var hersheyFonts = map[overlay.FontStyle]gocv.HersheyFont{
	overlay.FontRegular: gocv.FontHersheySimplex,
	overlay.FontBold:    gocv.FontHersheyDuplex,
	overlay.FontItalic:  gocv.FontHersheyComplex,
	overlay.FontScript:  gocv.FontHersheyScriptSimplex,
	overlay.FontFancy:   gocv.FontHersheyScriptComplex,
}

// TextOverlay draws the request onto a copy of the source.
type TextOverlay struct {
	Request overlay.Request
}

func (TextOverlay) Name() string { return "Add Text" }

func (t TextOverlay) Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error) {
	return apply(ctx, t.Name(), src, func(src gocv.Mat, dst *gocv.Mat) error {
		font, ok := hersheyFonts[t.Request.Font]
		if !ok {
			return fmt.Errorf("unknown font %q", t.Request.Font)
		}

		src.CopyTo(dst)
		gocv.PutText(dst, t.Request.Text, t.Request.Origin, font,
			float64(t.Request.Scale), t.Request.Color, t.Request.Thickness)
		return nil
	})
}

// Blend adds Second, stretched to the source size, to the source with
// saturation. Blend does not take ownership of Second.
type Blend struct {
	Second *safe.Mat
}

func (Blend) Name() string { return "Blend Images" }

func (b Blend) Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error) {
	if err := safe.ValidateMatForOperation(b.Second, "blend partner"); err != nil {
		return nil, err
	}

	return apply(ctx, b.Name(), src, func(src gocv.Mat, dst *gocv.Mat) error {
		second := b.Second.GetMat()
		if second.Channels() != src.Channels() {
			return fmt.Errorf("channel mismatch: %d vs %d", src.Channels(), second.Channels())
		}

		resized := gocv.NewMat()
		defer resized.Close()
		gocv.Resize(second, &resized, image.Point{X: src.Cols(), Y: src.Rows()}, 0, 0, gocv.InterpolationLinear)

		gocv.Add(src, resized, dst)
		return nil
	})
}
