package components

import (
	"image"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionlab/internal/config"
	"visionlab/internal/operations"
)

func TestCropSelectorReportsDrag(t *testing.T) {
	test.NewTempApp(t)

	var start, end image.Point
	calls := 0
	c := NewCropSelector(image.NewRGBA(image.Rect(0, 0, 200, 100)), func(s, e image.Point) {
		start, end = s, e
		calls++
	})
	assert.Equal(t, fyne.NewSize(200, 100), c.MinSize())

	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 30)}, Dragged: fyne.NewDelta(5, 5)})
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(10, 80)}, Dragged: fyne.NewDelta(-10, 50)})
	s, e := c.Selection()
	assert.Equal(t, image.Pt(15, 25), s)
	assert.Equal(t, image.Pt(10, 80), e)
	assert.Equal(t, 0, calls, "selection is reported on release")

	c.DragEnd()
	assert.Equal(t, 1, calls)
	assert.Equal(t, image.Pt(15, 25), start)
	assert.Equal(t, image.Pt(10, 80), end)

	c.DragEnd()
	assert.Equal(t, 1, calls, "release without drag is ignored")
}

func TestCropSelectorStartsFreshSelection(t *testing.T) {
	test.NewTempApp(t)

	var got []image.Point
	c := NewCropSelector(image.NewRGBA(image.Rect(0, 0, 50, 50)), func(s, e image.Point) {
		got = append(got, s, e)
	})

	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(5, 5)}, Dragged: fyne.NewDelta(1, 1)})
	c.DragEnd()
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(40, 40)}, Dragged: fyne.NewDelta(2, 2)})
	c.DragEnd()

	require.Len(t, got, 4)
	assert.Equal(t, image.Pt(38, 38), got[2])
	assert.Equal(t, image.Pt(40, 40), got[3])
}

func TestTextPlacerReportsTap(t *testing.T) {
	test.NewTempApp(t)

	var pos fyne.Position
	p := NewTextPlacer(image.NewRGBA(image.Rect(0, 0, 380, 190)), func(at fyne.Position) {
		pos = at
	})
	assert.Equal(t, fyne.NewSize(380, 190), p.MinSize())

	test.TapAt(p, fyne.NewPos(120, 44))
	assert.Equal(t, fyne.NewPos(120, 44), pos)
	assert.True(t, p.marker.Visible())
}

func TestOperationGridTapsEntries(t *testing.T) {
	test.NewTempApp(t)

	entries := operations.Catalog(config.Default().Operations)
	grid := NewOperationGrid(entries)
	require.Len(t, grid.Buttons(), len(entries))

	var tapped []string
	grid.SetHandler(func(e operations.Entry) {
		tapped = append(tapped, e.Label)
	})

	test.Tap(grid.Buttons()[0])
	test.Tap(grid.Buttons()[8])
	assert.Equal(t, []string{"Grayscale", "Crop Image"}, tapped)
	assert.Equal(t, "Histogram Eq.", grid.Buttons()[11].Text)
}

func TestToolbarHandlers(t *testing.T) {
	test.NewTempApp(t)

	tb := NewToolbar()
	var calls []string
	tb.SetLoadHandler(func() { calls = append(calls, "load") })
	tb.SetSaveHandler(func() { calls = append(calls, "save") })
	tb.SetStatsHandler(func() { calls = append(calls, "stats") })

	test.Tap(tb.loadButton)
	test.Tap(tb.saveButton)
	test.Tap(tb.statsButton)
	assert.Equal(t, []string{"load", "save", "stats"}, calls)
	assert.Equal(t, "Show Stats", tb.statsButton.Text)
}

func TestStatusBar(t *testing.T) {
	test.NewTempApp(t)

	sb := NewStatusBar()
	sb.SetStatus("Applied Blur")
	sb.SetImageInfo(640, 480, 3, "png")
	sb.SetOperationInfo("Blur", 1500*time.Microsecond)
	sb.SetMemoryInfo(2, 3*1024*1024)

	assert.Equal(t, "Applied Blur", sb.GetStatus())
	assert.Equal(t, "Image: 640x480, 3 channels, png", sb.GetImageInfo())
	assert.Equal(t, "Blur in 1.5ms", sb.GetOperationInfo())
	assert.Equal(t, "Mats: 2 (3.0 MB)", sb.GetMemoryInfo())

	sb.Reset()
	assert.Equal(t, "Ready", sb.GetStatus())
	assert.Equal(t, "No image loaded", sb.GetImageInfo())
}

func TestImageDisplay(t *testing.T) {
	test.NewTempApp(t)

	d := NewImageDisplay(450, 350)
	assert.False(t, d.HasOriginalImage())

	d.SetOriginalImage(image.NewRGBA(image.Rect(0, 0, 450, 200)))
	d.SetProcessedImage(image.NewGray(image.Rect(0, 0, 225, 100)))
	assert.True(t, d.HasOriginalImage())
	assert.True(t, d.HasProcessedImage())
	assert.Equal(t, fyne.NewSize(225, 100), d.processedImage.MinSize())

	d.ClearImages()
	assert.False(t, d.HasOriginalImage())
	assert.False(t, d.processedImage.Visible())
}
