package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ironsheep/image-editor-mcp/internal/imaging"
)

// Parse reads configuration from an io.Reader.
//
// Lines are "key = value" (or "key: value") pairs grouped under [section] headers;
// blank lines and lines starting with # or // are ignored. Unknown sections and keys
// are ignored so that newer config files still load.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		// Handle Sections
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			continue
		}

		// Parse Key = Value or Key: Value
		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		// Remove quotes if present
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		if err := setField(cfg, currentSection, key, value); err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d in section [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

func setField(cfg *Config, section, key, value string) error {
	var err error
	switch section {
	case "":
		if key == "log_level" {
			cfg.LogLevel, err = ParseLevel(value)
		}
	case "viewport":
		switch key {
		case "max_width":
			cfg.Viewport.MaxWidth, err = parseInt(key, value)
		case "max_height":
			cfg.Viewport.MaxHeight, err = parseInt(key, value)
		}
	case "history":
		if key == "limit" {
			cfg.HistoryLimit, err = parseInt(key, value)
		}
	case "draw":
		switch key {
		case "color":
			cfg.Draw.Color, err = parseColor(key, value)
		case "line_width":
			cfg.Draw.LineWidth, err = parseInt(key, value)
		case "font_scale":
			cfg.Draw.FontScale, err = parseFloat(key, value)
		}
	case "segmentation":
		switch key {
		case "model":
			cfg.Segmentation.Model = value
		case "input_size":
			cfg.Segmentation.InputSize, err = parseInt(key, value)
		case "threshold":
			cfg.Segmentation.Threshold, err = parseFloat(key, value)
		}
	case "save":
		switch key {
		case "flatten_jpeg":
			cfg.Save.FlattenJPEG, err = parseBool(key, value)
		case "background":
			cfg.Save.Background, err = parseColor(key, value)
		}
	case "ocr":
		if key == "language" {
			cfg.OCR.Language = value
		}
	}
	return err
}

// ParseLevel parses debug, info, warn or error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	return f, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}

func parseColor(key, value string) (color.NRGBA, error) {
	c, err := imaging.ParseColor(value)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color for key %s: %w", key, err)
	}
	return c, nil
}
