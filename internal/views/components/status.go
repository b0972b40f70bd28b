package components

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar displays application status and information
type StatusBar struct {
	container     *fyne.Container
	statusLabel   *widget.Label
	imageInfo     *widget.Label
	operationInfo *widget.Label
	memoryInfo    *widget.Label
}

func NewStatusBar() *StatusBar {
	sb := &StatusBar{}
	sb.createComponents()
	sb.buildLayout()
	return sb
}

func (sb *StatusBar) createComponents() {
	sb.statusLabel = widget.NewLabel("Ready")
	sb.imageInfo = widget.NewLabel("No image loaded")
	sb.operationInfo = widget.NewLabel("")
	sb.memoryInfo = widget.NewLabel("Mats: --")
}

func (sb *StatusBar) buildLayout() {
	sb.container = container.NewHBox(
		sb.statusLabel,
		widget.NewSeparator(),
		sb.imageInfo,
		widget.NewSeparator(),
		sb.operationInfo,
		widget.NewSeparator(),
		sb.memoryInfo,
	)
}

// SetStatus updates the main status message
func (sb *StatusBar) SetStatus(status string) {
	sb.statusLabel.SetText(status)
}

func (sb *StatusBar) GetStatus() string {
	return sb.statusLabel.Text
}

// SetImageInfo describes the processed image.
func (sb *StatusBar) SetImageInfo(width, height, channels int, format string) {
	sb.imageInfo.SetText(fmt.Sprintf("Image: %dx%d, %d channels, %s", width, height, channels, format))
}

func (sb *StatusBar) GetImageInfo() string {
	return sb.imageInfo.Text
}

// SetOperationInfo shows the last operation and how long it took.
func (sb *StatusBar) SetOperationInfo(name string, took time.Duration) {
	sb.operationInfo.SetText(fmt.Sprintf("%s in %s", name, took.Round(time.Microsecond)))
}

func (sb *StatusBar) GetOperationInfo() string {
	return sb.operationInfo.Text
}

// SetMemoryInfo shows how many OpenCV matrices are alive and their size.
func (sb *StatusBar) SetMemoryInfo(activeMats, bytes int64) {
	sb.memoryInfo.SetText(fmt.Sprintf("Mats: %d (%.1f MB)", activeMats, float64(bytes)/(1024*1024)))
}

func (sb *StatusBar) GetMemoryInfo() string {
	return sb.memoryInfo.Text
}

// Reset resets the status bar to initial state
func (sb *StatusBar) Reset() {
	sb.statusLabel.SetText("Ready")
	sb.imageInfo.SetText("No image loaded")
	sb.operationInfo.SetText("")
	sb.memoryInfo.SetText("Mats: --")
}

func (sb *StatusBar) GetContainer() *fyne.Container {
	return sb.container
}
