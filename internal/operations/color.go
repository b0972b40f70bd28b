package operations

import (
	"context"

	"visionlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

type Grayscale struct{}

func (Grayscale) Name() string { return "Grayscale" }

func (g Grayscale) Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error) {
	return apply(ctx, g.Name(), src, toGray)
}

// Threshold binarises the grayscale image: pixels above Value become Max.
type Threshold struct {
	Value float32
	Max   float32
}

func (Threshold) Name() string { return "Threshold" }

func (t Threshold) Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error) {
	return apply(ctx, t.Name(), src, func(src gocv.Mat, dst *gocv.Mat) error {
		gray := gocv.NewMat()
		defer gray.Close()
		if err := toGray(src, &gray); err != nil {
			return err
		}
		gocv.Threshold(gray, dst, t.Value, t.Max, gocv.ThresholdBinary)
		return nil
	})
}

// EdgeDetect runs the Canny detector on the grayscale image.
type EdgeDetect struct {
	Low  float32
	High float32
}

func (EdgeDetect) Name() string { return "Edge Detection" }

func (e EdgeDetect) Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error) {
	return apply(ctx, e.Name(), src, func(src gocv.Mat, dst *gocv.Mat) error {
		gray := gocv.NewMat()
		defer gray.Close()
		if err := toGray(src, &gray); err != nil {
			return err
		}
		gocv.Canny(gray, dst, e.Low, e.High)
		return nil
	})
}

type HistogramEqualize struct{}

func (HistogramEqualize) Name() string { return "Histogram Eq." }

func (h HistogramEqualize) Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error) {
	return apply(ctx, h.Name(), src, func(src gocv.Mat, dst *gocv.Mat) error {
		gray := gocv.NewMat()
		defer gray.Close()
		if err := toGray(src, &gray); err != nil {
			return err
		}
		gocv.EqualizeHist(gray, dst)
		return nil
	})
}
