package controllers

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strconv"
	"time"

	"visionlab/internal/config"
	"visionlab/internal/geometry"
	"visionlab/internal/logger"
	"visionlab/internal/models"
	"visionlab/internal/opencv/conversion"
	"visionlab/internal/operations"
	"visionlab/internal/overlay"
	"visionlab/internal/services"
	"visionlab/internal/stats"
)

const (
	MsgLoadFirst     = "Load an image first!"
	MsgProcessFirst  = "Process an image first!"
	MsgInvalidArea   = "Please select a valid area!"
	MsgInvalidValues = "Please enter valid values!"
	MsgNothingToSave = "No processed image to save!"
	MsgSaved         = "Image saved successfully!"

	SecondImageTitle = "Select second image"
)

const operationTimeout = 30 * time.Second

// View is what the controller needs from the window. Dialog callbacks run on
// the UI goroutine.
type View interface {
	SetOriginalImage(img image.Image)
	SetProcessedImage(img image.Image)
	UpdateStatus(status string)
	SetImageInfo(width, height, channels int, format string)
	SetOperationInfo(name string, took time.Duration)

	ShowWarning(message string)
	// ShowError reports a failure; err may be nil for plain user mistakes.
	ShowError(message string, err error)
	ShowInfo(title, message string)
	ShowStats(table stats.Table)

	ShowOpenDialog(title string, onOpen func(r io.ReadCloser, name string))
	ShowSaveDialog(onSave func(w io.WriteCloser, name string))
	// ShowCropDialog keeps the dialog open while onSelect returns false.
	ShowCropDialog(preview image.Image, onSelect func(start, end image.Point) bool)
	ShowTextDialog(preview image.Image, vp geometry.Viewport, form overlay.Form, onApply func(form overlay.Form) bool)
}

// MainController wires user actions to the image and processing services.
type MainController struct {
	imageService      *services.ImageService
	processingService *services.ProcessingService
	cfg               *config.Config
	logger            logger.Logger

	view View
}

func NewMainController(
	imageService *services.ImageService,
	processingService *services.ProcessingService,
	cfg *config.Config,
	log logger.Logger,
) *MainController {
	if log == nil {
		log = logger.Nop{}
	}
	return &MainController{
		imageService:      imageService,
		processingService: processingService,
		cfg:               cfg,
		logger:            log,
	}
}

// SetView associates the main view with this controller
func (mc *MainController) SetView(view View) {
	mc.view = view
}

// Catalog is the operation grid shown by the view.
func (mc *MainController) Catalog() []operations.Entry {
	return operations.Catalog(mc.cfg.Operations)
}

// LoadImage asks the user for an image file.
func (mc *MainController) LoadImage() {
	mc.view.ShowOpenDialog("Open image", mc.OpenImage)
}

// OpenImage loads r as the new original image.
func (mc *MainController) OpenImage(r io.ReadCloser, name string) {
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	mc.view.UpdateStatus("Loading image...")
	original, err := mc.imageService.Load(ctx, r, name)
	if err != nil {
		mc.handleError("Image load failed", err)
		mc.view.UpdateStatus("Ready")
		return
	}

	mc.refreshImages()
	mc.view.UpdateStatus(fmt.Sprintf("Loaded %s", filepath.Base(name)))
	mc.view.SetImageInfo(original.Width, original.Height, original.Channels, original.Format)
}

// SaveImage asks for a destination and writes the processed image.
func (mc *MainController) SaveImage() {
	if mc.imageService.Processed() == nil {
		mc.view.ShowWarning(MsgNothingToSave)
		return
	}
	mc.view.ShowSaveDialog(mc.WriteImage)
}

// WriteImage encodes the processed image into w.
func (mc *MainController) WriteImage(w io.WriteCloser, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	err := mc.imageService.Save(ctx, w, name)
	if closeErr := w.Close(); err == nil {
		err = closeErr
	}

	if errors.Is(err, services.ErrNoProcessed) {
		mc.view.ShowWarning(MsgNothingToSave)
		return
	}
	if err != nil {
		mc.handleError("Image save failed", err)
		return
	}

	mc.view.UpdateStatus(fmt.Sprintf("Saved %s", filepath.Base(name)))
	mc.view.ShowInfo("Success", MsgSaved)
}

// ShowStats displays pixel statistics of the processed image.
func (mc *MainController) ShowStats() {
	table, err := mc.imageService.Stats()
	if errors.Is(err, services.ErrNoProcessed) {
		mc.view.ShowWarning(MsgProcessFirst)
		return
	}
	if err != nil {
		mc.handleError("Statistics failed", err)
		return
	}
	mc.view.ShowStats(table)
}

// Run handles a tap on one of the operation buttons.
func (mc *MainController) Run(entry operations.Entry) {
	if !mc.imageService.HasImage() {
		mc.view.ShowWarning(MsgLoadFirst)
		return
	}

	switch entry.Interaction {
	case operations.SelectRegion:
		mc.startCrop()
	case operations.PlaceText:
		mc.startText()
	case operations.PickSecondImage:
		mc.view.ShowOpenDialog(SecondImageTitle, mc.BlendWith)
	default:
		if _, err := mc.apply(entry.Op); err != nil {
			return
		}
		if resize, ok := entry.Op.(operations.Resize); ok {
			mc.showResizeInfo(resize)
		}
	}
}

func (mc *MainController) apply(op operations.Operation) (*models.ImageData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	result, err := mc.processingService.Apply(ctx, op)
	if errors.Is(err, services.ErrNoImage) {
		mc.view.ShowWarning(MsgLoadFirst)
		return nil, err
	}
	if err != nil {
		mc.handleError(op.Name()+" failed", err)
		return nil, err
	}

	mc.refreshImages()
	mc.view.UpdateStatus(fmt.Sprintf("Applied %s", op.Name()))
	mc.view.SetImageInfo(result.Width, result.Height, result.Channels, result.Format)
	if rec, ok := mc.processingService.LastOperation(); ok {
		mc.view.SetOperationInfo(rec.Operation, rec.ProcessTime)
	}
	return result, nil
}

func (mc *MainController) showResizeInfo(resize operations.Resize) {
	original := mc.imageService.Original()
	processed := mc.imageService.Processed()
	if original == nil || processed == nil {
		return
	}

	reduction := strconv.FormatFloat((1-resize.Factor)*100, 'g', -1, 64)
	mc.view.ShowInfo("Resize Complete", fmt.Sprintf(
		"Original: %dx%d pixels\nResized: %dx%d pixels\n\n%s%% reduction applied!",
		original.Width, original.Height, processed.Width, processed.Height, reduction,
	))
}

func (mc *MainController) startCrop() {
	bounds := mc.cfg.Display.CropPreview
	preview, vp, err := conversion.Thumbnail(mc.imageService.Original().Mat, bounds.Width, bounds.Height)
	if err != nil {
		mc.handleError("Crop preview failed", err)
		return
	}

	mc.view.ShowCropDialog(preview, func(start, end image.Point) bool {
		return mc.CropSelected(vp, start, end)
	})
}

// CropSelected crops the original to a selection made on a preview drawn
// with vp. It reports whether the selection was usable.
func (mc *MainController) CropSelected(vp geometry.Viewport, start, end image.Point) bool {
	rect, ok := vp.CropRect(start, end)
	if !ok {
		mc.logger.Debug("MainController", "crop selection rejected", map[string]interface{}{
			"start": start.String(),
			"end":   end.String(),
		})
		mc.view.ShowWarning(MsgInvalidArea)
		return false
	}

	_, err := mc.apply(operations.Crop{Rect: rect})
	return err == nil
}

// DefaultTextForm is the text dialog as first shown.
func (mc *MainController) DefaultTextForm() overlay.Form {
	t := mc.cfg.Text
	return overlay.Form{
		Text:  t.Default,
		X:     strconv.Itoa(t.X),
		Y:     strconv.Itoa(t.Y),
		Font:  t.Font,
		Color: t.Color,
		Scale: t.Scale,
	}
}

func (mc *MainController) startText() {
	bounds := mc.cfg.Display.TextPreview
	preview, vp, err := conversion.Thumbnail(mc.imageService.Original().Mat, bounds.Width, bounds.Height)
	if err != nil {
		mc.handleError("Text preview failed", err)
		return
	}

	mc.view.ShowTextDialog(preview, vp, mc.DefaultTextForm(), mc.ApplyText)
}

// ApplyText draws the form onto a copy of the original. It reports whether
// the dialog can close.
func (mc *MainController) ApplyText(form overlay.Form) bool {
	req, err := form.Parse(mc.cfg.Text.Thickness)
	if err != nil {
		mc.logger.Warning("MainController", "invalid text form", map[string]interface{}{
			"error": err.Error(),
		})
		mc.view.ShowError(MsgInvalidValues, nil)
		return false
	}

	_, err = mc.apply(operations.TextOverlay{Request: req})
	return err == nil
}

// BlendWith adds the image read from r to the original.
func (mc *MainController) BlendWith(r io.ReadCloser, name string) {
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), operationTimeout)
	defer cancel()

	second, err := mc.imageService.LoadSecondary(ctx, r, name)
	if err != nil {
		mc.handleError("Second image load failed", err)
		return
	}
	defer second.Close()

	mc.apply(operations.Blend{Second: second})
}

func (mc *MainController) refreshImages() {
	if original := mc.imageService.Original(); original != nil {
		mc.view.SetOriginalImage(mc.preview(original))
	}
	if processed := mc.imageService.Processed(); processed != nil {
		mc.view.SetProcessedImage(mc.preview(processed))
	}
}

func (mc *MainController) preview(data *models.ImageData) image.Image {
	bounds := mc.cfg.Display.Preview
	img, _, err := conversion.Thumbnail(data.Mat, bounds.Width, bounds.Height)
	if err != nil {
		mc.logger.Error("MainController", err, map[string]interface{}{
			"stage": "preview",
		})
		return nil
	}
	return img
}

// handleError logs err and reports it to the user.
func (mc *MainController) handleError(message string, err error) {
	mc.logger.Error("MainController", err, map[string]interface{}{
		"context": message,
	})
	mc.view.ShowError(message, err)
}
