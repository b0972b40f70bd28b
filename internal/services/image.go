package services

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"visionlab/internal/logger"
	"visionlab/internal/models"
	"visionlab/internal/opencv/conversion"
	"visionlab/internal/opencv/safe"
	"visionlab/internal/stats"
)

var (
	// ErrNoImage is returned when an operation needs a loaded image.
	ErrNoImage = errors.New("no image loaded")
	// ErrNoProcessed is returned when there is no processed image to use.
	ErrNoProcessed = errors.New("no processed image")
)

// ImageService handles image loading, saving and inspection
type ImageService struct {
	tracker    safe.MemoryTracker
	repository *models.ImageRepository
	logger     logger.Logger
}

func NewImageService(tracker safe.MemoryTracker, repo *models.ImageRepository, log logger.Logger) *ImageService {
	if log == nil {
		log = logger.Nop{}
	}
	return &ImageService{
		tracker:    tracker,
		repository: repo,
		logger:     log,
	}
}

// Load decodes the image read from r and makes it the new original. The
// processed buffer starts as a copy of it.
func (is *ImageService) Load(ctx context.Context, r io.Reader, name string) (*models.ImageData, error) {
	startTime := time.Now()

	mat, err := is.decode(ctx, r, "original")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(name), err)
	}

	processedMat, err := mat.Clone()
	if err != nil {
		mat.Close()
		return nil, fmt.Errorf("load %s: %w", filepath.Base(name), err)
	}

	format := formatOf(name)
	original := models.NewImageData(mat, name, format)
	processed := models.NewImageData(processedMat, name, format)
	is.repository.SetOriginalImage(original, processed)

	is.logger.Info("ImageService", "image loaded", map[string]interface{}{
		"source":   filepath.Base(name),
		"width":    original.Width,
		"height":   original.Height,
		"channels": original.Channels,
		"duration": time.Since(startTime),
	})
	return original, nil
}

// LoadSecondary decodes an image without storing it. The caller owns the
// returned Mat.
func (is *ImageService) LoadSecondary(ctx context.Context, r io.Reader, name string) (*safe.Mat, error) {
	mat, err := is.decode(ctx, r, "secondary")
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(name), err)
	}

	is.logger.Debug("ImageService", "secondary image loaded", map[string]interface{}{
		"source": filepath.Base(name),
		"width":  mat.Cols(),
		"height": mat.Rows(),
	})
	return mat, nil
}

func (is *ImageService) decode(ctx context.Context, r io.Reader, tag string) (*safe.Mat, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return conversion.Decode(data, is.tracker, tag)
}

// Save encodes the processed image to w. The format follows the extension
// of name; anything other than JPEG is written as PNG.
func (is *ImageService) Save(ctx context.Context, w io.Writer, name string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	processed := is.repository.GetProcessedImage()
	if processed == nil || processed.Mat == nil || processed.Mat.Empty() {
		return ErrNoProcessed
	}

	ext := conversion.FileExtFor(name)
	data, err := conversion.Encode(processed.Mat, ext)
	if err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(name), err)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("save %s: %w", filepath.Base(name), err)
	}

	is.logger.Info("ImageService", "image saved", map[string]interface{}{
		"target": filepath.Base(name),
		"format": string(ext),
		"bytes":  len(data),
	})
	return nil
}

// Stats describes the pixel values of the processed image per channel.
func (is *ImageService) Stats() (stats.Table, error) {
	processed := is.repository.GetProcessedImage()
	if processed == nil || processed.Mat == nil || processed.Mat.Empty() {
		return stats.Table{}, ErrNoProcessed
	}

	data, err := processed.Mat.ToBytes()
	if err != nil {
		return stats.Table{}, fmt.Errorf("read pixels: %w", err)
	}
	return stats.Describe(data, processed.Mat.Channels())
}

func (is *ImageService) HasImage() bool {
	return is.repository.GetOriginalImage() != nil
}

func (is *ImageService) Original() *models.ImageData {
	return is.repository.GetOriginalImage()
}

func (is *ImageService) Processed() *models.ImageData {
	return is.repository.GetProcessedImage()
}

func formatOf(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}
