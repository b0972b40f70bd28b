package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visionlab/internal/logger"
	"visionlab/internal/models"
	"visionlab/internal/opencv/conversion"
	"visionlab/internal/opencv/memory"
	"visionlab/internal/opencv/safe"
	"visionlab/internal/operations"
)

func encodePNG(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fixture struct {
	repo       *models.ImageRepository
	mem        *memory.Manager
	images     *ImageService
	processing *ProcessingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := models.NewImageRepository()
	mem := memory.NewManager(logger.Nop{})
	t.Cleanup(repo.Shutdown)
	return &fixture{
		repo:       repo,
		mem:        mem,
		images:     NewImageService(mem, repo, logger.Nop{}),
		processing: NewProcessingService(repo, logger.Nop{}),
	}
}

func TestLoadStoresOriginalAndProcessedCopy(t *testing.T) {
	f := newFixture(t)
	data := encodePNG(t, 40, 30, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	original, err := f.images.Load(context.Background(), bytes.NewReader(data), "/tmp/photo.PNG")
	require.NoError(t, err)

	assert.Equal(t, 40, original.Width)
	assert.Equal(t, 30, original.Height)
	assert.Equal(t, 3, original.Channels)
	assert.Equal(t, "png", original.Format)
	assert.True(t, f.images.HasImage())

	processed := f.images.Processed()
	require.NotNil(t, processed)
	assert.NotSame(t, original.Mat, processed.Mat)
	assert.Equal(t, int64(2), f.mem.GetStats().ActiveMats)
}

func TestLoadRejectsGarbage(t *testing.T) {
	f := newFixture(t)
	_, err := f.images.Load(context.Background(), strings.NewReader("not an image"), "x.jpg")
	assert.True(t, errors.Is(err, conversion.ErrDecode))
	assert.False(t, f.images.HasImage())
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.images.Load(ctx, bytes.NewReader(encodePNG(t, 2, 2, color.RGBA{A: 255})), "a.png")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestApplyWithoutImage(t *testing.T) {
	f := newFixture(t)
	_, err := f.processing.Apply(context.Background(), operations.Grayscale{})
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestApplyAlwaysReadsOriginal(t *testing.T) {
	f := newFixture(t)
	_, err := f.images.Load(context.Background(), bytes.NewReader(encodePNG(t, 20, 10, color.RGBA{R: 255, A: 255})), "a.png")
	require.NoError(t, err)

	first, err := f.processing.Apply(context.Background(), operations.Resize{Factor: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 10, first.Width)
	assert.Equal(t, 5, first.Height)

	second, err := f.processing.Apply(context.Background(), operations.Resize{Factor: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 10, second.Width, "operations do not chain")
	assert.False(t, first.Mat.IsValid(), "replaced result is released")

	rec, ok := f.processing.LastOperation()
	require.True(t, ok)
	assert.Equal(t, "Resize 50%", rec.Operation)
	assert.Equal(t, 20, f.images.Original().Width)
}

func TestApplyFailureKeepsProcessed(t *testing.T) {
	f := newFixture(t)
	_, err := f.images.Load(context.Background(), bytes.NewReader(encodePNG(t, 8, 8, color.RGBA{A: 255})), "a.png")
	require.NoError(t, err)
	before := f.images.Processed()

	_, err = f.processing.Apply(context.Background(), operations.Blur{Kernel: 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Blur")
	assert.Same(t, before, f.images.Processed())
}

func TestSaveRequiresProcessed(t *testing.T) {
	f := newFixture(t)
	err := f.images.Save(context.Background(), &bytes.Buffer{}, "out.png")
	assert.ErrorIs(t, err, ErrNoProcessed)
}

func TestSaveFormats(t *testing.T) {
	f := newFixture(t)
	_, err := f.images.Load(context.Background(), bytes.NewReader(encodePNG(t, 16, 16, color.RGBA{G: 200, A: 255})), "a.png")
	require.NoError(t, err)

	tests := []struct {
		name   string
		prefix []byte
	}{
		{"out.png", []byte("\x89PNG")},
		{"out.jpg", []byte{0xFF, 0xD8}},
		{"out.JPEG", []byte{0xFF, 0xD8}},
		{"out", []byte("\x89PNG")},
		{"out.bmp", []byte("\x89PNG")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, f.images.Save(context.Background(), &buf, tt.name))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), tt.prefix))
		})
	}
}

func TestLoadSecondaryDoesNotTouchRepository(t *testing.T) {
	f := newFixture(t)
	mat, err := f.images.LoadSecondary(context.Background(), bytes.NewReader(encodePNG(t, 5, 7, color.RGBA{A: 255})), "b.png")
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 5, mat.Cols())
	assert.Equal(t, 7, mat.Rows())
	assert.False(t, f.images.HasImage())
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	_, err := f.images.Stats()
	assert.ErrorIs(t, err, ErrNoProcessed)

	_, err = f.images.Load(context.Background(), bytes.NewReader(encodePNG(t, 4, 4, color.RGBA{R: 30, G: 20, B: 10, A: 255})), "a.png")
	require.NoError(t, err)

	table, err := f.images.Stats()
	require.NoError(t, err)
	require.Len(t, table.Columns, 3)
	assert.Equal(t, "B", table.Columns[0].Name)
	assert.Equal(t, 16, table.Columns[0].Count)
	assert.InDelta(t, 10, table.Columns[0].Mean, 1e-9)
	assert.InDelta(t, 30, table.Columns[2].Max, 1e-9)

	_, err = f.processing.Apply(context.Background(), operations.Grayscale{})
	require.NoError(t, err)
	table, err = f.images.Stats()
	require.NoError(t, err)
	require.Len(t, table.Columns, 1)
	assert.Equal(t, "Gray", table.Columns[0].Name)
}

var _ safe.MemoryTracker = (*memory.Manager)(nil)
