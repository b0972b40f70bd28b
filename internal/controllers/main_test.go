package controllers

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionlab/internal/config"
	"visionlab/internal/geometry"
	"visionlab/internal/logger"
	"visionlab/internal/models"
	"visionlab/internal/operations"
	"visionlab/internal/overlay"
	"visionlab/internal/services"
	"visionlab/internal/stats"
)

type fakeView struct {
	original, processed image.Image
	status              string
	warnings            []string
	errors              []string
	infos               []string
	stats               *stats.Table
	operation           string

	openTitle   string
	onOpen      func(io.ReadCloser, string)
	onSave      func(io.WriteCloser, string)
	cropPreview image.Image
	onCrop      func(start, end image.Point) bool
	textVP      geometry.Viewport
	textForm    overlay.Form
	onText      func(overlay.Form) bool
}

func (v *fakeView) SetOriginalImage(img image.Image)   { v.original = img }
func (v *fakeView) SetProcessedImage(img image.Image)  { v.processed = img }
func (v *fakeView) UpdateStatus(status string)         { v.status = status }
func (v *fakeView) SetImageInfo(int, int, int, string) {}
func (v *fakeView) SetOperationInfo(name string, _ time.Duration) {
	v.operation = name
}
func (v *fakeView) ShowWarning(message string)        { v.warnings = append(v.warnings, message) }
func (v *fakeView) ShowError(message string, _ error) { v.errors = append(v.errors, message) }
func (v *fakeView) ShowInfo(_, message string)        { v.infos = append(v.infos, message) }
func (v *fakeView) ShowStats(table stats.Table)       { v.stats = &table }
func (v *fakeView) ShowSaveDialog(onSave func(io.WriteCloser, string)) {
	v.onSave = onSave
}
func (v *fakeView) ShowOpenDialog(title string, onOpen func(io.ReadCloser, string)) {
	v.openTitle = title
	v.onOpen = onOpen
}
func (v *fakeView) ShowCropDialog(preview image.Image, onSelect func(start, end image.Point) bool) {
	v.cropPreview = preview
	v.onCrop = onSelect
}
func (v *fakeView) ShowTextDialog(_ image.Image, vp geometry.Viewport, form overlay.Form, onApply func(overlay.Form) bool) {
	v.textVP = vp
	v.textForm = form
	v.onText = onApply
}

type nopWriteCloser struct{ *bytes.Buffer }

func (nopWriteCloser) Close() error { return nil }

func pngReader(t *testing.T, w, h int, c color.RGBA) io.ReadCloser {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return io.NopCloser(&buf)
}

func newController(t *testing.T) (*MainController, *fakeView) {
	t.Helper()
	repo := models.NewImageRepository()
	t.Cleanup(repo.Shutdown)

	mc := NewMainController(
		services.NewImageService(nil, repo, logger.Nop{}),
		services.NewProcessingService(repo, logger.Nop{}),
		config.Default(),
		logger.Nop{},
	)
	view := &fakeView{}
	mc.SetView(view)
	return mc, view
}

func entry(t *testing.T, mc *MainController, label string) operations.Entry {
	t.Helper()
	for _, e := range mc.Catalog() {
		if e.Label == label {
			return e
		}
	}
	t.Fatalf("no catalog entry %q", label)
	return operations.Entry{}
}

func TestOperationsRequireImage(t *testing.T) {
	mc, view := newController(t)
	for _, e := range mc.Catalog() {
		mc.Run(e)
	}
	assert.Len(t, view.warnings, 12)
	for _, w := range view.warnings {
		assert.Equal(t, MsgLoadFirst, w)
	}
	assert.Nil(t, view.onCrop)
	assert.Nil(t, view.onOpen)
}

func TestSaveAndStatsGuards(t *testing.T) {
	mc, view := newController(t)

	mc.SaveImage()
	mc.ShowStats()

	assert.Equal(t, []string{MsgNothingToSave, MsgProcessFirst}, view.warnings)
	assert.Nil(t, view.onSave)
}

func TestLoadShowsBothPanes(t *testing.T) {
	mc, view := newController(t)
	mc.LoadImage()
	require.NotNil(t, view.onOpen)

	view.onOpen(pngReader(t, 900, 700, color.RGBA{R: 200, A: 255}), "big.png")

	require.NotNil(t, view.original)
	require.NotNil(t, view.processed)
	assert.Equal(t, image.Rect(0, 0, 450, 350), view.original.Bounds())
	assert.Contains(t, view.status, "big.png")
}

func TestLoadFailureShowsError(t *testing.T) {
	mc, view := newController(t)
	mc.OpenImage(io.NopCloser(bytes.NewReader([]byte("nope"))), "bad.jpg")

	assert.Equal(t, []string{"Image load failed"}, view.errors)
	assert.Nil(t, view.original)
}

func TestResizeShowsInfo(t *testing.T) {
	mc, view := newController(t)
	mc.OpenImage(pngReader(t, 101, 51, color.RGBA{A: 255}), "a.png")

	mc.Run(entry(t, mc, "Resize 50%"))

	require.Len(t, view.infos, 1)
	assert.Equal(t, "Original: 101x51 pixels\nResized: 50x25 pixels\n\n50% reduction applied!", view.infos[0])
	assert.Equal(t, "Resize 50%", view.operation)
}

func TestCropSelection(t *testing.T) {
	mc, view := newController(t)
	mc.OpenImage(pngReader(t, 1600, 1200, color.RGBA{G: 255, A: 255}), "a.png")

	mc.Run(entry(t, mc, "Crop Image"))
	require.NotNil(t, view.onCrop)
	assert.Equal(t, image.Rect(0, 0, 800, 600), view.cropPreview.Bounds())

	assert.False(t, view.onCrop(image.Pt(10, 10), image.Pt(10, 40)))
	assert.Equal(t, []string{MsgInvalidArea}, view.warnings)

	assert.True(t, view.onCrop(image.Pt(300, 200), image.Pt(100, 50)))
	processed := mc.imageService.Processed()
	assert.Equal(t, 400, processed.Width)
	assert.Equal(t, 300, processed.Height)
	assert.Equal(t, 1600, mc.imageService.Original().Width)
}

func TestTextDialog(t *testing.T) {
	mc, view := newController(t)
	mc.OpenImage(pngReader(t, 760, 200, color.RGBA{A: 255}), "a.png")

	mc.Run(entry(t, mc, "Add Text"))
	require.NotNil(t, view.onText)
	assert.Equal(t, overlay.Form{Text: "Your Text Here", X: "50", Y: "100", Font: "Regular", Color: "White", Scale: 2}, view.textForm)
	assert.InDelta(t, 0.5, view.textVP.Scale, 1e-9)

	bad := view.textForm
	bad.X = "abc"
	assert.False(t, view.onText(bad))
	assert.Equal(t, []string{MsgInvalidValues}, view.errors)

	assert.True(t, view.onText(view.textForm))
	assert.Equal(t, "Add Text", view.operation)
}

func TestBlendUsesSecondImage(t *testing.T) {
	mc, view := newController(t)
	mc.OpenImage(pngReader(t, 20, 20, color.RGBA{R: 100, G: 100, B: 100, A: 255}), "a.png")

	mc.Run(entry(t, mc, "Blend Images"))
	assert.Equal(t, SecondImageTitle, view.openTitle)
	require.NotNil(t, view.onOpen)

	view.onOpen(pngReader(t, 5, 5, color.RGBA{R: 200, G: 10, B: 10, A: 255}), "b.png")
	assert.Equal(t, "Blend Images", view.operation)

	table, err := mc.imageService.Stats()
	require.NoError(t, err)
	assert.InDelta(t, 110, table.Columns[0].Mean, 1e-9)
	assert.InDelta(t, 255, table.Columns[2].Mean, 1e-9)
}

func TestSaveWritesProcessed(t *testing.T) {
	mc, view := newController(t)
	mc.OpenImage(pngReader(t, 8, 8, color.RGBA{A: 255}), "a.png")
	mc.Run(entry(t, mc, "Grayscale"))

	mc.SaveImage()
	require.NotNil(t, view.onSave)

	out := nopWriteCloser{&bytes.Buffer{}}
	view.onSave(out, "result.png")
	assert.True(t, bytes.HasPrefix(out.Bytes(), []byte("\x89PNG")))
	assert.Equal(t, []string{MsgSaved}, view.infos)

	mc.ShowStats()
	require.NotNil(t, view.stats)
	assert.Equal(t, "Gray", view.stats.Columns[0].Name)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
func (failingWriter) Close() error              { return nil }

func TestSaveFailureShowsError(t *testing.T) {
	mc, view := newController(t)
	mc.OpenImage(pngReader(t, 8, 8, color.RGBA{A: 255}), "a.png")

	mc.WriteImage(failingWriter{}, "out.png")
	assert.Equal(t, []string{"Image save failed"}, view.errors)
	assert.Empty(t, view.infos)
}
