package views

import (
	"image"
	"io"
	"time"

	"visionlab/internal/opencv/conversion"
	"visionlab/internal/operations"
	"visionlab/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// MainView is the main window: toolbar, previews, operation grid and
// status bar.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	toolbar       *components.Toolbar
	imageDisplay  *components.ImageDisplay
	operationGrid *components.OperationGrid
	statusBar     *components.StatusBar

	entries []operations.Entry

	loadImageHandler func()
	saveImageHandler func()
	statsHandler     func()
	operationHandler func(operations.Entry)
	quitHandler      func()
}

// NewMainView builds the window content. Previews are fitted into a
// previewWidth x previewHeight box by the caller.
func NewMainView(window fyne.Window, entries []operations.Entry, previewWidth, previewHeight int) *MainView {
	view := &MainView{
		window:  window,
		entries: entries,
	}

	view.toolbar = components.NewToolbar()
	view.imageDisplay = components.NewImageDisplay(previewWidth, previewHeight)
	view.operationGrid = components.NewOperationGrid(entries)
	view.statusBar = components.NewStatusBar()

	view.buildLayout()
	view.setupEventHandlers()
	view.buildMenus()

	return view
}

func (mv *MainView) buildLayout() {
	content := container.NewVBox(
		mv.imageDisplay.GetContainer(),
		container.NewCenter(mv.operationGrid.GetContainer()),
	)

	mv.mainContainer = container.NewBorder(
		mv.toolbar.GetContainer(),
		mv.statusBar.GetContainer(),
		nil,
		nil,
		content,
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.toolbar.SetLoadHandler(mv.onLoad)
	mv.toolbar.SetSaveHandler(mv.onSave)
	mv.toolbar.SetStatsHandler(mv.onStats)
	mv.operationGrid.SetHandler(mv.onOperation)
}

func (mv *MainView) buildMenus() {
	imageItems := make([]*fyne.MenuItem, 0, len(mv.entries)+2)
	for _, entry := range mv.entries {
		imageItems = append(imageItems, fyne.NewMenuItem(entry.Label, func() {
			mv.onOperation(entry)
		}))
	}
	imageItems = append(imageItems,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Show Stats", mv.onStats),
	)

	quit := fyne.NewMenuItem("Quit", func() {
		if mv.quitHandler != nil {
			mv.quitHandler()
			return
		}
		mv.window.Close()
	})
	quit.IsQuit = true

	mv.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Open...", mv.onLoad),
			fyne.NewMenuItem("Save As...", mv.onSave),
			fyne.NewMenuItemSeparator(),
			quit,
		),
		fyne.NewMenu("Image", imageItems...),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("About", mv.ShowAboutDialog),
		),
	))
}

func (mv *MainView) onLoad() {
	if mv.loadImageHandler != nil {
		mv.loadImageHandler()
	}
}

func (mv *MainView) onSave() {
	if mv.saveImageHandler != nil {
		mv.saveImageHandler()
	}
}

func (mv *MainView) onStats() {
	if mv.statsHandler != nil {
		mv.statsHandler()
	}
}

func (mv *MainView) onOperation(entry operations.Entry) {
	if mv.operationHandler != nil {
		mv.operationHandler(entry)
	}
}

// SetLoadImageHandler sets the handler for load image requests
func (mv *MainView) SetLoadImageHandler(handler func()) {
	mv.loadImageHandler = handler
}

// SetSaveImageHandler sets the handler for save image requests
func (mv *MainView) SetSaveImageHandler(handler func()) {
	mv.saveImageHandler = handler
}

func (mv *MainView) SetStatsHandler(handler func()) {
	mv.statsHandler = handler
}

// SetOperationHandler sets the handler for operation buttons and menu items.
func (mv *MainView) SetOperationHandler(handler func(operations.Entry)) {
	mv.operationHandler = handler
}

// SetQuitHandler overrides what File > Quit does.
func (mv *MainView) SetQuitHandler(handler func()) {
	mv.quitHandler = handler
}

func (mv *MainView) SetOriginalImage(img image.Image) {
	mv.imageDisplay.SetOriginalImage(img)
}

func (mv *MainView) SetProcessedImage(img image.Image) {
	mv.imageDisplay.SetProcessedImage(img)
}

// UpdateStatus updates the status bar message
func (mv *MainView) UpdateStatus(status string) {
	mv.statusBar.SetStatus(status)
}

func (mv *MainView) SetImageInfo(width, height, channels int, format string) {
	mv.statusBar.SetImageInfo(width, height, channels, format)
}

func (mv *MainView) SetOperationInfo(name string, took time.Duration) {
	mv.statusBar.SetOperationInfo(name, took)
}

// SetMemoryInfo is safe to call from any goroutine.
func (mv *MainView) SetMemoryInfo(activeMats, bytes int64) {
	fyne.Do(func() {
		mv.statusBar.SetMemoryInfo(activeMats, bytes)
	})
}

func (mv *MainView) ShowWarning(message string) {
	dialog.ShowInformation("Warning", message, mv.window)
}

func (mv *MainView) ShowError(message string, err error) {
	dialog.ShowError(userError{message: message, err: err}, mv.window)
}

func (mv *MainView) ShowInfo(title, message string) {
	dialog.ShowInformation(title, message, mv.window)
}

// ShowConfirm displays a confirmation dialog
func (mv *MainView) ShowConfirm(title, message string, callback func(bool)) {
	dialog.ShowConfirm(title, message, callback, mv.window)
}

// ShowOpenDialog asks for a raster image. The title is echoed in the status
// bar while the dialog is open.
func (mv *MainView) ShowOpenDialog(title string, onOpen func(r io.ReadCloser, name string)) {
	mv.UpdateStatus(title)

	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mv.ShowError("File selection error", err)
			return
		}
		if reader == nil {
			mv.UpdateStatus("Ready")
			return
		}
		onOpen(reader, reader.URI().Path())
	}, mv.window)
	fd.SetFilter(storage.NewExtensionFileFilter(conversion.OpenExtensions))
	fd.Resize(fyne.NewSize(800, 600))
	fd.Show()
}

// ShowSaveDialog asks where to write the processed image; PNG is the default.
func (mv *MainView) ShowSaveDialog(onSave func(w io.WriteCloser, name string)) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mv.ShowError("File save error", err)
			return
		}
		if writer == nil {
			return
		}
		onSave(writer, writer.URI().Name())
	}, mv.window)
	fd.SetFileName("processed.png")
	fd.SetFilter(storage.NewExtensionFileFilter(conversion.SaveExtensions))
	fd.Resize(fyne.NewSize(800, 600))
	fd.Show()
}

// ShowAboutDialog displays application information
func (mv *MainView) ShowAboutDialog() {
	meta := fyne.CurrentApp().Metadata()
	content := container.NewVBox(
		widget.NewLabelWithStyle(meta.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Version: "+meta.Version),
		widget.NewLabel("Canned OpenCV image operations with click-and-drag crop\nand click-to-place text."),
		widget.NewLabel("Built with Fyne and GoCV"),
	)
	dialog.ShowCustom("About", "Close", content, mv.window)
}

func (mv *MainView) Show() {
	mv.window.Show()
}

func (mv *MainView) GetWindow() fyne.Window {
	return mv.window
}

func (mv *MainView) GetStatusBar() *components.StatusBar {
	return mv.statusBar
}

func (mv *MainView) GetImageDisplay() *components.ImageDisplay {
	return mv.imageDisplay
}

func (mv *MainView) GetOperationGrid() *components.OperationGrid {
	return mv.operationGrid
}

func (mv *MainView) GetToolbar() *components.Toolbar {
	return mv.toolbar
}

type userError struct {
	message string
	err     error
}

func (e userError) Error() string {
	if e.err == nil {
		return e.message
	}
	return e.message + ": " + e.err.Error()
}

func (e userError) Unwrap() error { return e.err }
