package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// Toolbar holds the file and statistics actions above the previews.
type Toolbar struct {
	container   *fyne.Container
	loadButton  *widget.Button
	saveButton  *widget.Button
	statsButton *widget.Button

	loadHandler  func()
	saveHandler  func()
	statsHandler func()
}

func NewToolbar() *Toolbar {
	toolbar := &Toolbar{}
	toolbar.createComponents()
	toolbar.buildLayout()
	return toolbar
}

func (t *Toolbar) createComponents() {
	t.loadButton = widget.NewButtonWithIcon("Load Image", theme.FolderOpenIcon(), func() {
		if t.loadHandler != nil {
			t.loadHandler()
		}
	})
	t.loadButton.Importance = widget.SuccessImportance

	t.saveButton = widget.NewButtonWithIcon("Save Image", theme.DocumentSaveIcon(), func() {
		if t.saveHandler != nil {
			t.saveHandler()
		}
	})
	t.saveButton.Importance = widget.HighImportance

	t.statsButton = widget.NewButtonWithIcon("Show Stats", theme.InfoIcon(), func() {
		if t.statsHandler != nil {
			t.statsHandler()
		}
	})
	t.statsButton.Importance = widget.WarningImportance
}

func (t *Toolbar) buildLayout() {
	t.container = container.NewHBox(
		layout.NewSpacer(),
		t.loadButton,
		t.saveButton,
		t.statsButton,
		layout.NewSpacer(),
	)
}

func (t *Toolbar) SetLoadHandler(handler func()) {
	t.loadHandler = handler
}

func (t *Toolbar) SetSaveHandler(handler func()) {
	t.saveHandler = handler
}

func (t *Toolbar) SetStatsHandler(handler func()) {
	t.statsHandler = handler
}

func (t *Toolbar) GetContainer() *fyne.Container {
	return t.container
}
