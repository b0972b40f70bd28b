// Package config holds the runtime settings of VisionLab. Values come from
// compiled-in defaults, optionally overlaid by a YAML file and finally by
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath = "VISIONLAB_CONFIG"
	EnvLogLevel   = "LOG_LEVEL"
	EnvDebug      = "DEBUG"
)

type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Display    DisplayConfig    `yaml:"display"`
	Operations OperationsConfig `yaml:"operations"`
	Text       TextConfig       `yaml:"text"`
	Logging    LoggingConfig    `yaml:"logging"`
}

type WindowConfig struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Box is a bounding box in pixels that previews are fitted into.
type Box struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type DisplayConfig struct {
	Preview     Box `yaml:"preview"`
	CropPreview Box `yaml:"crop_preview"`
	TextPreview Box `yaml:"text_preview"`
}

type OperationsConfig struct {
	BlurKernel     int       `yaml:"blur_kernel"`
	ThresholdValue float32   `yaml:"threshold_value"`
	ThresholdMax   float32   `yaml:"threshold_max"`
	CannyLow       float32   `yaml:"canny_low"`
	CannyHigh      float32   `yaml:"canny_high"`
	ResizeFactor   float64   `yaml:"resize_factor"`
	RotationAngles []float64 `yaml:"rotation_angles"`
}

type TextConfig struct {
	Default   string `yaml:"default"`
	X         int    `yaml:"x"`
	Y         int    `yaml:"y"`
	Font      string `yaml:"font"`
	Color     string `yaml:"color"`
	Scale     int    `yaml:"scale"`
	Thickness int    `yaml:"thickness"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

func Default() *Config {
	return &Config{
		Window: WindowConfig{Width: 1200, Height: 850},
		Display: DisplayConfig{
			Preview:     Box{Width: 450, Height: 350},
			CropPreview: Box{Width: 800, Height: 600},
			TextPreview: Box{Width: 380, Height: 380},
		},
		Operations: OperationsConfig{
			BlurKernel:     15,
			ThresholdValue: 127,
			ThresholdMax:   255,
			CannyLow:       100,
			CannyHigh:      200,
			ResizeFactor:   0.5,
			RotationAngles: []float64{45, 90},
		},
		Text: TextConfig{
			Default:   "Your Text Here",
			X:         50,
			Y:         100,
			Font:      "Regular",
			Color:     "White",
			Scale:     2,
			Thickness: 2,
		},
		Logging: LoggingConfig{Level: "info", Console: true},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Logging.Level = level
	} else if os.Getenv(EnvDebug) == "1" {
		c.Logging.Level = "debug"
	}
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %.0fx%.0f", c.Window.Width, c.Window.Height)
	}

	for name, box := range map[string]Box{
		"preview":      c.Display.Preview,
		"crop_preview": c.Display.CropPreview,
		"text_preview": c.Display.TextPreview,
	} {
		if box.Width <= 0 || box.Height <= 0 {
			return fmt.Errorf("invalid %s box %dx%d", name, box.Width, box.Height)
		}
	}

	ops := c.Operations
	if ops.BlurKernel <= 0 || ops.BlurKernel%2 == 0 {
		return fmt.Errorf("blur kernel must be a positive odd number, got %d", ops.BlurKernel)
	}
	if ops.ThresholdValue < 0 || ops.ThresholdMax <= 0 {
		return fmt.Errorf("invalid threshold %.0f/%.0f", ops.ThresholdValue, ops.ThresholdMax)
	}
	if ops.CannyLow < 0 || ops.CannyHigh < ops.CannyLow {
		return fmt.Errorf("invalid canny thresholds %.0f/%.0f", ops.CannyLow, ops.CannyHigh)
	}
	if ops.ResizeFactor <= 0 || ops.ResizeFactor > 1 {
		return fmt.Errorf("resize factor must be in (0, 1], got %g", ops.ResizeFactor)
	}

	if c.Text.Scale < 1 || c.Text.Scale > 5 {
		return fmt.Errorf("text scale must be within 1..5, got %d", c.Text.Scale)
	}
	if c.Text.Thickness <= 0 {
		return fmt.Errorf("text thickness must be positive, got %d", c.Text.Thickness)
	}
	return nil
}
