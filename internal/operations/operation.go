// Package operations implements the canned image transformations. Each
// operation reads a source Mat and returns a new one; the source is never
// modified.
package operations

import (
	"context"
	"fmt"

	"visionlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

type Operation interface {
	Name() string
	Apply(ctx context.Context, src *safe.Mat) (*safe.Mat, error)
}

// apply validates src, runs fn into a fresh Mat and wraps the result with
// the source's memory tracker.
func apply(ctx context.Context, name string, src *safe.Mat, fn func(src gocv.Mat, dst *gocv.Mat) error) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := safe.ValidateMatForOperation(src, name); err != nil {
		return nil, err
	}

	dst := gocv.NewMat()
	if err := fn(src.GetMat(), &dst); err != nil {
		dst.Close()
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if dst.Empty() {
		dst.Close()
		return nil, fmt.Errorf("%s produced an empty result", name)
	}

	return src.Derive(dst, name)
}

// toGray writes a single-channel copy of src into dst.
func toGray(src gocv.Mat, dst *gocv.Mat) error {
	switch src.Channels() {
	case 1:
		src.CopyTo(dst)
	case 3:
		gocv.CvtColor(src, dst, gocv.ColorBGRToGray)
	case 4:
		gocv.CvtColor(src, dst, gocv.ColorBGRAToGray)
	default:
		return fmt.Errorf("unsupported channel count: %d", src.Channels())
	}
	return nil
}
