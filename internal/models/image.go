package models

import (
	"sync"
	"time"

	"visionlab/internal/opencv/safe"
)

// ImageData is a decoded image and where it came from.
type ImageData struct {
	Mat      *safe.Mat
	Width    int
	Height   int
	Channels int
	Format   string
	Source   string
	LoadTime time.Time
}

func NewImageData(mat *safe.Mat, source, format string) *ImageData {
	return &ImageData{
		Mat:      mat,
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Format:   format,
		Source:   source,
		LoadTime: time.Now(),
	}
}

func (d *ImageData) Close() {
	if d != nil && d.Mat != nil {
		d.Mat.Close()
	}
}

// ProcessingRecord describes the operation that produced the current
// processed image.
type ProcessingRecord struct {
	Operation   string
	ProcessTime time.Duration
	Width       int
	Height      int
	Channels    int
	At          time.Time
}

// ImageRepository holds the two image buffers. The original is replaced
// only by a new load; the processed image is overwritten by every
// operation.
type ImageRepository struct {
	mu             sync.RWMutex
	originalImage  *ImageData
	processedImage *ImageData
	history        []ProcessingRecord
	maxHistorySize int
}

func NewImageRepository() *ImageRepository {
	return &ImageRepository{
		history:        make([]ProcessingRecord, 0),
		maxHistorySize: 20,
	}
}

// SetOriginalImage installs a freshly loaded image and its processed copy,
// releasing the previous pair.
func (r *ImageRepository) SetOriginalImage(original, processed *ImageData) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.processedImage != nil && r.processedImage != r.originalImage {
		r.processedImage.Close()
	}
	if r.originalImage != nil {
		r.originalImage.Close()
	}

	r.originalImage = original
	r.processedImage = processed
	r.history = r.history[:0]
}

func (r *ImageRepository) GetOriginalImage() *ImageData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.originalImage
}

func (r *ImageRepository) GetProcessedImage() *ImageData {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.processedImage
}

// SetProcessedImage overwrites the processed buffer and records how it was made.
func (r *ImageRepository) SetProcessedImage(img *ImageData, record ProcessingRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.processedImage != nil && r.processedImage != r.originalImage && r.processedImage != img {
		r.processedImage.Close()
	}
	r.processedImage = img

	r.history = append(r.history, record)
	if len(r.history) > r.maxHistorySize {
		r.history = r.history[1:]
	}
}

func (r *ImageRepository) LastRecord() (ProcessingRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.history) == 0 {
		return ProcessingRecord{}, false
	}
	return r.history[len(r.history)-1], true
}

func (r *ImageRepository) GetProcessingHistory() []ProcessingRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := make([]ProcessingRecord, len(r.history))
	copy(history, r.history)
	return history
}

// ClearAll removes all images including original
func (r *ImageRepository) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.processedImage != nil && r.processedImage != r.originalImage {
		r.processedImage.Close()
	}
	if r.originalImage != nil {
		r.originalImage.Close()
	}
	r.originalImage = nil
	r.processedImage = nil
	r.history = r.history[:0]
}

// Shutdown releases all resources
func (r *ImageRepository) Shutdown() {
	r.ClearAll()
}
