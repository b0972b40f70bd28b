package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// ImageDisplay shows the original and processed previews side by side.
type ImageDisplay struct {
	container      *fyne.Container
	originalImage  *canvas.Image
	processedImage *canvas.Image
	areaSize       fyne.Size

	hasOriginal  bool
	hasProcessed bool
}

// NewImageDisplay creates panes of width x height. Previews are expected
// to be fitted to that box already and are drawn at their own size.
func NewImageDisplay(width, height int) *ImageDisplay {
	display := &ImageDisplay{
		areaSize: fyne.NewSize(float32(width), float32(height)),
	}
	display.createComponents()
	display.setupLayout()
	return display
}

func (id *ImageDisplay) createComponents() {
	id.originalImage = newPreviewImage()
	id.processedImage = newPreviewImage()
}

func newPreviewImage() *canvas.Image {
	img := canvas.NewImageFromImage(nil)
	img.FillMode = canvas.ImageFillStretch
	img.ScaleMode = canvas.ImageScaleSmooth
	img.Hide()
	return img
}

func (id *ImageDisplay) setupLayout() {
	id.container = container.NewHBox(
		layout.NewSpacer(),
		id.pane("Original", id.originalImage),
		id.pane("Processed", id.processedImage),
		layout.NewSpacer(),
	)
}

func (id *ImageDisplay) pane(title string, img *canvas.Image) fyne.CanvasObject {
	bg := canvas.NewRectangle(color.Black)
	bg.SetMinSize(id.areaSize)

	return container.NewBorder(
		widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewStack(bg, container.NewCenter(img)),
	)
}

// SetOriginalImage updates the original preview; nil clears it.
func (id *ImageDisplay) SetOriginalImage(img image.Image) {
	id.hasOriginal = setPreview(id.originalImage, img)
}

// SetProcessedImage updates the processed preview; nil clears it.
func (id *ImageDisplay) SetProcessedImage(img image.Image) {
	id.hasProcessed = setPreview(id.processedImage, img)
}

func setPreview(target *canvas.Image, img image.Image) bool {
	target.Image = img
	if img == nil {
		target.Hide()
		return false
	}

	b := img.Bounds()
	target.SetMinSize(fyne.NewSize(float32(b.Dx()), float32(b.Dy())))
	target.Show()
	target.Refresh()
	return true
}

func (id *ImageDisplay) HasOriginalImage() bool {
	return id.hasOriginal
}

func (id *ImageDisplay) HasProcessedImage() bool {
	return id.hasProcessed
}

// ClearImages clears both images
func (id *ImageDisplay) ClearImages() {
	id.SetOriginalImage(nil)
	id.SetProcessedImage(nil)
}

func (id *ImageDisplay) GetContainer() *fyne.Container {
	return id.container
}
