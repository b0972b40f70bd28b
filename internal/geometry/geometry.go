// Package geometry maps between a down-scaled preview of an image and the
// full-resolution pixel grid.
package geometry

import "image"

// FitScale returns the factor that fits a w x h image inside maxW x maxH.
// Images already inside the box are never enlarged.
func FitScale(w, h, maxW, maxH int) float64 {
	if w <= 0 || h <= 0 {
		return 1.0
	}
	if w > maxW || h > maxH {
		return min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	}
	return 1.0
}

// ScaledSize truncates the scaled dimensions, keeping at least one pixel.
func ScaledSize(w, h int, scale float64) (int, int) {
	sw := int(float64(w) * scale)
	sh := int(float64(h) * scale)
	return max(sw, 1), max(sh, 1)
}

// Viewport describes a preview of Width x Height image pixels drawn at Scale.
type Viewport struct {
	Width  int
	Height int
	Scale  float64
}

func NewViewport(w, h, maxW, maxH int) Viewport {
	return Viewport{Width: w, Height: h, Scale: FitScale(w, h, maxW, maxH)}
}

// DisplaySize is the preview size in pixels.
func (v Viewport) DisplaySize() (int, int) {
	return ScaledSize(v.Width, v.Height, v.Scale)
}

// ToImage converts a preview position to image coordinates without clamping.
func (v Viewport) ToImage(x, y float32) image.Point {
	return image.Point{
		X: int(float64(x) / v.Scale),
		Y: int(float64(y) / v.Scale),
	}
}

// CropRect turns a drag between start and end (preview coordinates, either
// direction) into an image rectangle clamped to the image bounds. The
// boolean is false when the clamped selection has no area.
func (v Viewport) CropRect(start, end image.Point) (image.Rectangle, bool) {
	x1 := int(float64(min(start.X, end.X)) / v.Scale)
	y1 := int(float64(min(start.Y, end.Y)) / v.Scale)
	x2 := int(float64(max(start.X, end.X)) / v.Scale)
	y2 := int(float64(max(start.Y, end.Y)) / v.Scale)

	x1 = max(0, x1)
	y1 = max(0, y1)
	x2 = min(v.Width, x2)
	y2 = min(v.Height, y2)

	if x2 > x1 && y2 > y1 {
		return image.Rect(x1, y1, x2, y2), true
	}
	return image.Rectangle{}, false
}

// HalfSize is the integer-divided target of a resize by factor.
func HalfSize(w, h int, factor float64) (int, int) {
	return int(float64(w) * factor), int(float64(h) * factor)
}

// Center is the integer centre used as the rotation pivot.
func Center(w, h int) image.Point {
	return image.Point{X: w / 2, Y: h / 2}
}
