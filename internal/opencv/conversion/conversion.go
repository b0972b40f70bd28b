package conversion

import (
	"fmt"
	"image"

	"visionlab/internal/geometry"
	"visionlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// MatToImage converts a 1, 3 or 4 channel 8-bit Mat to a Go image.
// Colour Mats are treated as BGR(A).
func MatToImage(src *safe.Mat) (image.Image, error) {
	if err := safe.ValidateMatForOperation(src, "Mat to image conversion"); err != nil {
		return nil, err
	}
	if err := safe.ValidateChannels(src, "Mat to image conversion", 1, 3, 4); err != nil {
		return nil, err
	}

	img, err := src.GetMat().ToImage()
	if err != nil {
		return nil, fmt.Errorf("Mat to image conversion failed: %w", err)
	}
	return img, nil
}

// Thumbnail renders src fitted into maxW x maxH without enlarging it and
// returns the viewport used, so callers can map preview positions back.
func Thumbnail(src *safe.Mat, maxW, maxH int) (image.Image, geometry.Viewport, error) {
	if err := safe.ValidateMatForOperation(src, "thumbnail"); err != nil {
		return nil, geometry.Viewport{}, err
	}

	vp := geometry.NewViewport(src.Cols(), src.Rows(), maxW, maxH)
	if vp.Scale == 1.0 {
		img, err := MatToImage(src)
		return img, vp, err
	}

	w, h := vp.DisplaySize()
	resized := gocv.NewMat()
	gocv.Resize(src.GetMat(), &resized, image.Point{X: w, Y: h}, 0, 0, gocv.InterpolationArea)

	thumb, err := safe.Wrap(resized, nil, "thumbnail")
	if err != nil {
		return nil, vp, fmt.Errorf("thumbnail resize failed: %w", err)
	}
	defer thumb.Close()

	img, err := MatToImage(thumb)
	return img, vp, err
}
