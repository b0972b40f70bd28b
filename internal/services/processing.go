package services

import (
	"context"
	"fmt"
	"time"

	"visionlab/internal/logger"
	"visionlab/internal/models"
	"visionlab/internal/operations"
)

// ProcessingService runs operations against the original image and stores
// the result as the processed image.
type ProcessingService struct {
	imageRepo *models.ImageRepository
	logger    logger.Logger
}

func NewProcessingService(imageRepo *models.ImageRepository, log logger.Logger) *ProcessingService {
	if log == nil {
		log = logger.Nop{}
	}
	return &ProcessingService{
		imageRepo: imageRepo,
		logger:    log,
	}
}

// Apply runs op on the original image. Operations never chain: the result
// replaces whatever was processed before.
func (ps *ProcessingService) Apply(ctx context.Context, op operations.Operation) (*models.ImageData, error) {
	original := ps.imageRepo.GetOriginalImage()
	if original == nil {
		return nil, ErrNoImage
	}

	startTime := time.Now()
	resultMat, err := op.Apply(ctx, original.Mat)
	if err != nil {
		ps.logger.Error("ProcessingService", err, map[string]interface{}{
			"operation": op.Name(),
		})
		return nil, fmt.Errorf("%s: %w", op.Name(), err)
	}
	processTime := time.Since(startTime)

	result := models.NewImageData(resultMat, original.Source, original.Format)
	ps.imageRepo.SetProcessedImage(result, models.ProcessingRecord{
		Operation:   op.Name(),
		ProcessTime: processTime,
		Width:       result.Width,
		Height:      result.Height,
		Channels:    result.Channels,
		At:          time.Now(),
	})

	ps.logger.Info("ProcessingService", "operation applied", map[string]interface{}{
		"operation": op.Name(),
		"width":     result.Width,
		"height":    result.Height,
		"channels":  result.Channels,
		"duration":  processTime,
	})
	return result, nil
}

// LastOperation reports the most recent operation and how long it took.
func (ps *ProcessingService) LastOperation() (models.ProcessingRecord, bool) {
	return ps.imageRepo.LastRecord()
}
