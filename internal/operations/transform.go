package operations

import (
	"context"
	"fmt"
	"image"

	"visionlab/internal/geometry"
	"visionlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Rotate turns the image counter-clockwise by Angle degrees around its
// centre. The canvas keeps the source size, so corners are clipped.
type Rotate struct {
	Angle float64
}

func (r Rotate) Name() string { return fmt.Sprintf("Rotate %g°", r.Angle) }

func (r Rotate) Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error) {
	return apply(ctx, r.Name(), src, func(src gocv.Mat, dst *gocv.Mat) error {
		w, h := src.Cols(), src.Rows()
		matrix := gocv.GetRotationMatrix2D(geometry.Center(w, h), r.Angle, 1.0)
		defer matrix.Close()

		gocv.WarpAffine(src, dst, matrix, image.Point{X: w, Y: h})
		return nil
	})
}

type Resize struct {
	Factor float64
}

func (r Resize) Name() string { return fmt.Sprintf("Resize %g%%", r.Factor*100) }

func (r Resize) Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error) {
	return apply(ctx, r.Name(), src, func(src gocv.Mat, dst *gocv.Mat) error {
		w, h := geometry.HalfSize(src.Cols(), src.Rows(), r.Factor)
		if err := safe.ValidateDimensions(w, h, r.Name()); err != nil {
			return err
		}
		gocv.Resize(src, dst, image.Point{X: w, Y: h}, 0, 0, gocv.InterpolationLinear)
		return nil
	})
}

// Crop keeps the pixels inside Rect, given in source coordinates.
type Crop struct {
	Rect image.Rectangle
}

func (Crop) Name() string { return "Crop Image" }

func (c Crop) Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := safe.ValidateMatForOperation(src, c.Name()); err != nil {
		return nil, err
	}
	return src.Region(c.Rect, c.Name())
}
