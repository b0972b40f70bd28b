package components

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

const markerRadius = 4

// TextPlacer shows a preview and reports where it was tapped.
type TextPlacer struct {
	widget.BaseWidget

	image  *canvas.Image
	marker *canvas.Circle
	size   fyne.Size

	OnPlace func(pos fyne.Position)
}

var _ fyne.Tappable = (*TextPlacer)(nil)

func NewTextPlacer(preview image.Image, onPlace func(pos fyne.Position)) *TextPlacer {
	b := preview.Bounds()
	p := &TextPlacer{
		image:   canvas.NewImageFromImage(preview),
		marker:  canvas.NewCircle(color.Transparent),
		size:    fyne.NewSize(float32(b.Dx()), float32(b.Dy())),
		OnPlace: onPlace,
	}
	p.image.FillMode = canvas.ImageFillStretch
	p.marker.StrokeColor = selectionColor
	p.marker.StrokeWidth = 2
	p.marker.Resize(fyne.NewSize(2*markerRadius, 2*markerRadius))
	p.marker.Hide()

	p.ExtendBaseWidget(p)
	return p
}

func (p *TextPlacer) Tapped(ev *fyne.PointEvent) {
	p.marker.Move(ev.Position.SubtractXY(markerRadius, markerRadius))
	p.marker.Show()
	p.marker.Refresh()

	if p.OnPlace != nil {
		p.OnPlace(ev.Position)
	}
}

func (p *TextPlacer) MinSize() fyne.Size {
	return p.size
}

func (p *TextPlacer) CreateRenderer() fyne.WidgetRenderer {
	return &previewRenderer{
		image:   p.image,
		objects: []fyne.CanvasObject{p.image, p.marker},
		size:    p.size,
	}
}
