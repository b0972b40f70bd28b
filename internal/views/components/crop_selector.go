package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

var selectionColor = color.NRGBA{R: 255, A: 255}

// CropSelector draws a preview at its pixel size and lets the user drag a
// rectangle over it. Positions are reported in preview pixels.
type CropSelector struct {
	widget.BaseWidget

	image     *canvas.Image
	selection *canvas.Rectangle
	size      fyne.Size

	start    fyne.Position
	end      fyne.Position
	dragging bool

	OnSelect func(start, end image.Point)
}

var _ fyne.Draggable = (*CropSelector)(nil)

func NewCropSelector(preview image.Image, onSelect func(start, end image.Point)) *CropSelector {
	b := preview.Bounds()
	c := &CropSelector{
		image:     canvas.NewImageFromImage(preview),
		selection: canvas.NewRectangle(color.Transparent),
		size:      fyne.NewSize(float32(b.Dx()), float32(b.Dy())),
		OnSelect:  onSelect,
	}
	c.image.FillMode = canvas.ImageFillStretch
	c.selection.StrokeColor = selectionColor
	c.selection.StrokeWidth = 2
	c.selection.Hide()

	c.ExtendBaseWidget(c)
	return c
}

func (c *CropSelector) Dragged(ev *fyne.DragEvent) {
	if !c.dragging {
		c.dragging = true
		c.start = ev.Position.Subtract(ev.Dragged)
	}
	c.end = ev.Position
	c.updateSelection()
}

func (c *CropSelector) DragEnd() {
	if !c.dragging {
		return
	}
	c.dragging = false

	if c.OnSelect != nil {
		c.OnSelect(toPoint(c.start), toPoint(c.end))
	}
}

// Selection returns the current drag rectangle in preview pixels.
func (c *CropSelector) Selection() (start, end image.Point) {
	return toPoint(c.start), toPoint(c.end)
}

func (c *CropSelector) updateSelection() {
	x1, x2 := min(c.start.X, c.end.X), max(c.start.X, c.end.X)
	y1, y2 := min(c.start.Y, c.end.Y), max(c.start.Y, c.end.Y)

	c.selection.Move(fyne.NewPos(x1, y1))
	c.selection.Resize(fyne.NewSize(x2-x1, y2-y1))
	c.selection.Show()
	c.selection.Refresh()
}

func (c *CropSelector) MinSize() fyne.Size {
	return c.size
}

func (c *CropSelector) CreateRenderer() fyne.WidgetRenderer {
	return &previewRenderer{
		image:   c.image,
		objects: []fyne.CanvasObject{c.image, c.selection},
		size:    c.size,
	}
}

func toPoint(p fyne.Position) image.Point {
	return image.Point{X: int(p.X), Y: int(p.Y)}
}

// previewRenderer stretches the image over the widget and leaves overlays
// where the widget placed them.
type previewRenderer struct {
	image   *canvas.Image
	objects []fyne.CanvasObject
	size    fyne.Size
}

func (r *previewRenderer) Layout(size fyne.Size) {
	r.image.Move(fyne.NewPos(0, 0))
	r.image.Resize(size)
}

func (r *previewRenderer) MinSize() fyne.Size {
	return r.size
}

func (r *previewRenderer) Refresh() {
	for _, o := range r.objects {
		o.Refresh()
	}
}

func (r *previewRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *previewRenderer) Destroy() {}
