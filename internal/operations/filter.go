package operations

import (
	"context"
	"fmt"
	"image"

	"visionlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// Blur applies a square Gaussian kernel; sigma is derived from the size.
type Blur struct {
	Kernel int
}

func (Blur) Name() string { return "Blur" }

func (b Blur) Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error) {
	return apply(ctx, b.Name(), src, func(src gocv.Mat, dst *gocv.Mat) error {
		if b.Kernel <= 0 || b.Kernel%2 == 0 {
			return fmt.Errorf("kernel size must be positive and odd, got %d", b.Kernel)
		}
		gocv.GaussianBlur(src, dst, image.Point{X: b.Kernel, Y: b.Kernel}, 0, 0, gocv.BorderDefault)
		return nil
	})
}

// SharpenKernel boosts the centre pixel against its eight neighbours.
var SharpenKernel = [3][3]float32{
	{-1, -1, -1},
	{-1, 9, -1},
	{-1, -1, -1},
}

type Sharpen struct{}

func (Sharpen) Name() string { return "Sharpen" }

func (s Sharpen) Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error) {
	return apply(ctx, s.Name(), src, func(src gocv.Mat, dst *gocv.Mat) error {
		kernel := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV32F)
		defer kernel.Close()
		for r, row := range SharpenKernel {
			for c, v := range row {
				kernel.SetFloatAt(r, c, v)
			}
		}

		// depth -1 keeps the source depth, so results saturate to 0..255
		gocv.Filter2D(src, dst, gocv.MatType(-1), kernel, image.Point{X: -1, Y: -1}, 0, gocv.BorderDefault)
		return nil
	})
}
