package views

import (
	"fmt"
	"image"
	"strconv"

	"visionlab/internal/geometry"
	"visionlab/internal/overlay"
	"visionlab/internal/stats"
	"visionlab/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const (
	CropDialogTitle  = "Crop Image - Click and Drag"
	TextDialogTitle  = "Add Text to Image"
	StatsDialogTitle = "Pixel Statistics"
)

// ShowStats shows the describe table in a monospaced grid.
func (mv *MainView) ShowStats(table stats.Table) {
	grid := widget.NewTextGridFromString(table.String())
	content := container.NewBorder(
		widget.NewLabelWithStyle(StatsDialogTitle, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		nil, nil, nil,
		container.NewScroll(grid),
	)

	d := dialog.NewCustom(StatsDialogTitle, "Close", content, mv.window)
	d.Resize(fyne.NewSize(500, 400))
	d.Show()
}

// ShowCropDialog shows preview for a drag selection. The dialog closes once
// onSelect accepts a selection.
func (mv *MainView) ShowCropDialog(preview image.Image, onSelect func(start, end image.Point) bool) {
	var d dialog.Dialog
	selector := components.NewCropSelector(preview, func(start, end image.Point) {
		if onSelect(start, end) {
			d.Hide()
		}
	})

	content := container.NewVBox(
		widget.NewLabelWithStyle("Click and drag to select crop area", fyne.TextAlignCenter, fyne.TextStyle{}),
		container.NewCenter(selector),
	)
	d = dialog.NewCustom(CropDialogTitle, "Cancel", content, mv.window)
	d.Show()
}

// TextForm is the input side of the text dialog.
type TextForm struct {
	Content    *fyne.Container
	TextEntry  *widget.Entry
	XEntry     *widget.Entry
	YEntry     *widget.Entry
	FontGroup  *widget.RadioGroup
	SizeSlider *widget.Slider
	ColorGroup *widget.RadioGroup
	Apply      *widget.Button
}

// NewTextForm builds the fields pre-filled from form.
func NewTextForm(form overlay.Form, onApply func()) *TextForm {
	f := &TextForm{
		TextEntry:  widget.NewEntry(),
		XEntry:     widget.NewEntry(),
		YEntry:     widget.NewEntry(),
		FontGroup:  widget.NewRadioGroup(overlay.FontNames(), nil),
		ColorGroup: widget.NewRadioGroup(overlay.ColorNames(), nil),
		SizeSlider: widget.NewSlider(overlay.MinScale, overlay.MaxScale),
	}

	f.TextEntry.SetText(form.Text)
	f.XEntry.SetText(form.X)
	f.YEntry.SetText(form.Y)
	f.FontGroup.SetSelected(form.Font)
	f.FontGroup.Required = true
	f.ColorGroup.SetSelected(form.Color)
	f.ColorGroup.Required = true

	sizeLabel := widget.NewLabel("")
	f.SizeSlider.Step = 1
	f.SizeSlider.OnChanged = func(v float64) {
		sizeLabel.SetText(fmt.Sprintf("Size: %d", int(v)))
	}
	f.SizeSlider.SetValue(float64(form.Scale))
	sizeLabel.SetText(fmt.Sprintf("Size: %d", form.Scale))

	f.Apply = widget.NewButton("Add Text", onApply)
	f.Apply.Importance = widget.SuccessImportance

	f.Content = container.NewVBox(
		widget.NewLabelWithStyle("Text", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		f.TextEntry,
		widget.NewLabelWithStyle("Position", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2,
			widget.NewForm(widget.NewFormItem("X", f.XEntry)),
			widget.NewForm(widget.NewFormItem("Y", f.YEntry)),
		),
		widget.NewLabelWithStyle("Font", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		f.FontGroup,
		sizeLabel,
		f.SizeSlider,
		widget.NewLabelWithStyle("Color", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		f.ColorGroup,
		f.Apply,
	)
	return f
}

// Form reads the current field values.
func (f *TextForm) Form() overlay.Form {
	return overlay.Form{
		Text:  f.TextEntry.Text,
		X:     f.XEntry.Text,
		Y:     f.YEntry.Text,
		Font:  f.FontGroup.Selected,
		Color: f.ColorGroup.Selected,
		Scale: int(f.SizeSlider.Value),
	}
}

// SetPosition fills the X and Y fields.
func (f *TextForm) SetPosition(p image.Point) {
	f.XEntry.SetText(strconv.Itoa(p.X))
	f.YEntry.SetText(strconv.Itoa(p.Y))
}

// ShowTextDialog shows a click-to-place preview next to the text form.
// Taps are mapped back to image coordinates through vp.
func (mv *MainView) ShowTextDialog(preview image.Image, vp geometry.Viewport, form overlay.Form, onApply func(form overlay.Form) bool) {
	var d dialog.Dialog
	var fields *TextForm
	fields = NewTextForm(form, func() {
		if onApply(fields.Form()) {
			d.Hide()
		}
	})

	placer := components.NewTextPlacer(preview, func(pos fyne.Position) {
		fields.SetPosition(vp.ToImage(pos.X, pos.Y))
	})

	left := container.NewVBox(
		widget.NewLabelWithStyle("Click on image to place text", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		container.NewCenter(placer),
	)
	content := container.NewBorder(nil, nil,
		container.NewHBox(left, widget.NewSeparator()), nil,
		container.NewVScroll(fields.Content),
	)

	d = dialog.NewCustom(TextDialogTitle, "Cancel", content, mv.window)
	d.Resize(fyne.NewSize(750, 550))
	d.Show()
}
