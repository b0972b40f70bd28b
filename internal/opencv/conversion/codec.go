package conversion

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"visionlab/internal/opencv/safe"

	"gocv.io/x/gocv"
)

// ErrDecode is returned when bytes cannot be decoded as an image.
var ErrDecode = errors.New("unable to decode image")

const JPEGQuality = 95

// OpenExtensions are the raster formats offered by the open dialogs.
var OpenExtensions = []string{".jpg", ".png", ".jpeg"}

// SaveExtensions are the formats the processed image can be written as.
var SaveExtensions = []string{".png", ".jpg", ".jpeg"}

// Decode reads encoded image bytes into a 3-channel BGR Mat.
func Decode(data []byte, tracker safe.MemoryTracker, tag string) (*safe.Mat, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: no data", ErrDecode)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, ErrDecode
	}

	return safe.Wrap(mat, tracker, tag)
}

// FileExtFor picks the encoder for a file name or extension. Anything that
// is not JPEG is written as PNG.
func FileExtFor(name string) gocv.FileExt {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" && strings.HasPrefix(name, ".") {
		ext = strings.ToLower(name)
	}

	switch ext {
	case ".jpg", ".jpeg":
		return gocv.JPEGFileExt
	default:
		return gocv.PNGFileExt
	}
}

// Encode serialises src in the given format.
func Encode(src *safe.Mat, ext gocv.FileExt) ([]byte, error) {
	if err := safe.ValidateMatForOperation(src, "encode"); err != nil {
		return nil, err
	}

	var (
		buf *gocv.NativeByteBuffer
		err error
	)
	switch ext {
	case gocv.JPEGFileExt:
		buf, err = gocv.IMEncodeWithParams(ext, src.GetMat(), []int{int(gocv.IMWriteJpegQuality), JPEGQuality})
	default:
		buf, err = gocv.IMEncode(ext, src.GetMat())
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ext, err)
	}
	defer buf.Close()

	data := buf.GetBytes()
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
