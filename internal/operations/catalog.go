package operations

import (
	"visionlab/internal/config"
)

// Interaction describes the extra input an entry needs before it can run.
type Interaction int

const (
	Immediate Interaction = iota
	SelectRegion
	PlaceText
	PickSecondImage
)

// Entry is one button of the operation grid.
type Entry struct {
	Label       string
	Interaction Interaction
	// Op is set for Immediate entries only.
	Op Operation
}

// Catalog returns the operation grid in display order.
func Catalog(cfg config.OperationsConfig) []Entry {
	entries := []Entry{
		{Label: "Grayscale", Op: Grayscale{}},
		{Label: "Blur", Op: Blur{Kernel: cfg.BlurKernel}},
		{Label: "Threshold", Op: Threshold{Value: cfg.ThresholdValue, Max: cfg.ThresholdMax}},
	}

	for _, angle := range cfg.RotationAngles {
		rotate := Rotate{Angle: angle}
		entries = append(entries, Entry{Label: rotate.Name(), Op: rotate})
	}

	resize := Resize{Factor: cfg.ResizeFactor}
	entries = append(entries,
		Entry{Label: resize.Name(), Op: resize},
		Entry{Label: "Edge Detection", Op: EdgeDetect{Low: cfg.CannyLow, High: cfg.CannyHigh}},
		Entry{Label: "Sharpen", Op: Sharpen{}},
		Entry{Label: "Crop Image", Interaction: SelectRegion},
		Entry{Label: "Add Text", Interaction: PlaceText},
		Entry{Label: "Blend Images", Interaction: PickSecondImage},
		Entry{Label: "Histogram Eq.", Op: HistogramEqualize{}},
	)
	return entries
}
