package conversion

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"visionlab/internal/opencv/safe"
)

func solid(t *testing.T, rows, cols int, b, g, r float64) *safe.Mat {
	t.Helper()
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(b, g, r, 0), rows, cols, gocv.MatTypeCV8UC3)
	sm, err := safe.Wrap(m, nil, "test")
	require.NoError(t, err)
	t.Cleanup(sm.Close)
	return sm
}

func TestFileExtFor(t *testing.T) {
	assert.Equal(t, gocv.PNGFileExt, FileExtFor("out.png"))
	assert.Equal(t, gocv.JPEGFileExt, FileExtFor("out.JPG"))
	assert.Equal(t, gocv.JPEGFileExt, FileExtFor("/tmp/a.jpeg"))
	assert.Equal(t, gocv.JPEGFileExt, FileExtFor(".jpg"))
	assert.Equal(t, gocv.PNGFileExt, FileExtFor("noext"))
	assert.Equal(t, gocv.PNGFileExt, FileExtFor("image.bmp"))
}

func TestEncodeDecodeRoundTripKeepsGeometry(t *testing.T) {
	src := solid(t, 12, 20, 10, 200, 30)

	data, err := Encode(src, gocv.PNGFileExt)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	back, err := Decode(data, nil, "decoded")
	require.NoError(t, err)
	defer back.Close()

	assert.Equal(t, 20, back.Cols())
	assert.Equal(t, 12, back.Rows())
	assert.Equal(t, 3, back.Channels())

	px, err := back.ToBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{10, 200, 30}, px[:3])
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"), nil, "bad")
	assert.ErrorIs(t, err, ErrDecode)

	_, err = Decode(nil, nil, "empty")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestMatToImageSwapsChannels(t *testing.T) {
	src := solid(t, 2, 2, 255, 0, 0)

	img, err := MatToImage(src)
	require.NoError(t, err)
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0), r>>8)
	assert.Equal(t, uint32(0), g>>8)
	assert.Equal(t, uint32(255), b>>8)
}

func TestThumbnail(t *testing.T) {
	src := solid(t, 700, 900, 1, 2, 3)

	img, vp, err := Thumbnail(src, 450, 350)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, vp.Scale, 1e-9)
	assert.Equal(t, image.Rect(0, 0, 450, 350), img.Bounds())

	small := solid(t, 10, 10, 1, 2, 3)
	img, vp, err = Thumbnail(small, 450, 350)
	require.NoError(t, err)
	assert.Equal(t, 1.0, vp.Scale)
	assert.Equal(t, image.Rect(0, 0, 10, 10), img.Bounds())
}
