package config

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"strings"

	"github.com/ironsheep/image-editor-mcp/internal/imaging"
	"github.com/ironsheep/image-editor-mcp/internal/segment"
	"github.com/ironsheep/image-editor-mcp/internal/viewport"
)

// ErrInvalid reports a configuration value outside its valid range.
var ErrInvalid = errors.New("invalid configuration")

// Draw holds the initial drawing settings.
type Draw struct {
	Color     color.NRGBA
	LineWidth int
	FontScale float64
}

// Segmentation holds the background-removal model settings.
type Segmentation struct {
	Model     string // Path to an ONNX saliency model; empty disables removal
	InputSize int
	Threshold float64
}

// Save holds output settings.
type Save struct {
	FlattenJPEG bool
	Background  color.NRGBA
}

// OCR holds text recognition settings.
type OCR struct {
	Language string
}

// Config holds the application configuration.
type Config struct {
	LogLevel     slog.Level
	Viewport     viewport.Viewport
	HistoryLimit int // Maximum undo steps; 0 keeps every step
	Draw         Draw
	Segmentation Segmentation
	Save         Save
	OCR          OCR
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		LogLevel: slog.LevelInfo,
		Viewport: viewport.Default(),
		Draw: Draw{
			Color:     color.NRGBA{R: 255, A: 255},
			LineWidth: 2,
			FontScale: 1,
		},
		Segmentation: Segmentation{
			InputSize: segment.DefaultInputSize,
			Threshold: segment.DefaultThreshold,
		},
		Save: Save{
			FlattenJPEG: true,
			Background:  color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		},
		OCR: OCR{Language: "eng"},
	}
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if err := c.Viewport.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("%w: history limit %d is negative", ErrInvalid, c.HistoryLimit)
	}
	if c.Draw.LineWidth <= 0 {
		return fmt.Errorf("%w: line width %d must be positive", ErrInvalid, c.Draw.LineWidth)
	}
	if c.Draw.FontScale <= 0 {
		return fmt.Errorf("%w: font scale %v must be positive", ErrInvalid, c.Draw.FontScale)
	}
	if c.Segmentation.InputSize <= 0 {
		return fmt.Errorf("%w: input size %d must be positive", ErrInvalid, c.Segmentation.InputSize)
	}
	if c.Segmentation.Threshold <= 0 || c.Segmentation.Threshold >= 1 {
		return fmt.Errorf("%w: threshold %v must be in (0,1)", ErrInvalid, c.Segmentation.Threshold)
	}
	if c.OCR.Language == "" {
		return fmt.Errorf("%w: ocr language is empty", ErrInvalid)
	}
	return nil
}

// SaveOptions returns the codec options for the configured save settings.
func (c *Config) SaveOptions() imaging.SaveOptions {
	return imaging.SaveOptions{
		Flatten:    c.Save.FlattenJPEG,
		Background: c.Save.Background,
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	fmt.Fprintf(&sb, "log_level = %s\n", strings.ToLower(c.LogLevel.String()))
	sb.WriteString("\n")

	sb.WriteString("[viewport]\n")
	fmt.Fprintf(&sb, "max_width = %d\n", c.Viewport.MaxWidth)
	fmt.Fprintf(&sb, "max_height = %d\n", c.Viewport.MaxHeight)
	sb.WriteString("\n")

	sb.WriteString("[history]\n")
	fmt.Fprintf(&sb, "limit = %d\n", c.HistoryLimit)
	sb.WriteString("\n")

	sb.WriteString("[draw]\n")
	fmt.Fprintf(&sb, "color = %s\n", imaging.FormatColor(c.Draw.Color))
	fmt.Fprintf(&sb, "line_width = %d\n", c.Draw.LineWidth)
	fmt.Fprintf(&sb, "font_scale = %v\n", c.Draw.FontScale)
	sb.WriteString("\n")

	sb.WriteString("[segmentation]\n")
	if c.Segmentation.Model != "" {
		fmt.Fprintf(&sb, "model = %s\n", c.Segmentation.Model)
	}
	fmt.Fprintf(&sb, "input_size = %d\n", c.Segmentation.InputSize)
	fmt.Fprintf(&sb, "threshold = %v\n", c.Segmentation.Threshold)
	sb.WriteString("\n")

	sb.WriteString("[save]\n")
	fmt.Fprintf(&sb, "flatten_jpeg = %v\n", c.Save.FlattenJPEG)
	fmt.Fprintf(&sb, "background = %s\n", imaging.FormatColor(c.Save.Background))
	sb.WriteString("\n")

	sb.WriteString("[ocr]\n")
	fmt.Fprintf(&sb, "language = %s\n", c.OCR.Language)

	return sb.String()
}
