package config

import (
	"errors"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	input := `
# editor settings
log_level = debug

[viewport]
max_width = 800
max_height: 600

[history]
limit = 25

[draw]
color = "#00FF00"
line_width = 5
font_scale = 1.5

// model location
[segmentation]
model = /opt/models/u2net.onnx
input_size = 288
threshold = 0.6

[save]
flatten_jpeg = false
background = #000000

[ocr]
language = deu

[unknown]
whatever = 1
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("Expected log level debug, got %v", cfg.LogLevel)
	}
	if cfg.Viewport.MaxWidth != 800 || cfg.Viewport.MaxHeight != 600 {
		t.Errorf("Unexpected viewport %+v", cfg.Viewport)
	}
	if cfg.HistoryLimit != 25 {
		t.Errorf("Expected history limit 25, got %d", cfg.HistoryLimit)
	}
	if cfg.Draw.Color != (color.NRGBA{0, 255, 0, 255}) {
		t.Errorf("Unexpected draw color %+v", cfg.Draw.Color)
	}
	if cfg.Draw.LineWidth != 5 || cfg.Draw.FontScale != 1.5 {
		t.Errorf("Unexpected draw settings %+v", cfg.Draw)
	}
	if cfg.Segmentation.Model != "/opt/models/u2net.onnx" {
		t.Errorf("Unexpected model path '%s'", cfg.Segmentation.Model)
	}
	if cfg.Segmentation.InputSize != 288 || cfg.Segmentation.Threshold != 0.6 {
		t.Errorf("Unexpected segmentation settings %+v", cfg.Segmentation)
	}
	if cfg.Save.FlattenJPEG {
		t.Error("Expected save.flatten_jpeg to be false")
	}
	if cfg.Save.Background != (color.NRGBA{0, 0, 0, 255}) {
		t.Errorf("Unexpected background %+v", cfg.Save.Background)
	}
	if cfg.OCR.Language != "deu" {
		t.Errorf("Expected ocr language 'deu', got '%s'", cfg.OCR.Language)
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, New()) {
		t.Errorf("empty input should give defaults, got %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad level", "log_level = loud"},
		{"bad int", "[viewport]\nmax_width = wide"},
		{"bad float", "[draw]\nfont_scale = big"},
		{"bad bool", "[save]\nflatten_jpeg = maybe"},
		{"bad color", "[draw]\ncolor = red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Error("Parse should fail")
			}
		})
	}
}

func TestCircular(t *testing.T) {
	cfg := New()
	cfg.LogLevel = slog.LevelWarn
	cfg.HistoryLimit = 10
	cfg.Draw.Color = color.NRGBA{1, 2, 3, 128}
	cfg.Draw.FontScale = 0.75
	cfg.Segmentation.Model = "/models/u2net.onnx"
	cfg.Save.FlattenJPEG = false

	cfg2, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Parse of generated config failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, cfg2) {
		t.Errorf("Round trip mismatch:\n%+v\n%+v", cfg, cfg2)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero viewport width", func(c *Config) { c.Viewport.MaxWidth = 0 }},
		{"negative history", func(c *Config) { c.HistoryLimit = -1 }},
		{"zero line width", func(c *Config) { c.Draw.LineWidth = 0 }},
		{"zero font scale", func(c *Config) { c.Draw.FontScale = 0 }},
		{"zero input size", func(c *Config) { c.Segmentation.InputSize = 0 }},
		{"threshold zero", func(c *Config) { c.Segmentation.Threshold = 0 }},
		{"threshold one", func(c *Config) { c.Segmentation.Threshold = 1 }},
		{"no language", func(c *Config) { c.OCR.Language = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoader_OverridePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "editor.rc")
	if err := os.WriteFile(path, []byte("[history]\nlimit = 3\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	l := NewLoader("1.0.0", path)
	l.Getenv = func(string) string { return "" }
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HistoryLimit != 3 {
		t.Errorf("Expected history limit 3, got %d", cfg.HistoryLimit)
	}
}

func TestLoader_MissingOverride(t *testing.T) {
	l := NewLoader("1.0.0", "/nonexistent/editor.rc")
	if _, err := l.Load(); err == nil {
		t.Error("Load should fail when an explicit config path does not exist")
	}
}

func TestLoader_Env(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.rc")
	if err := os.WriteFile(path, []byte("log_level = error\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	env := map[string]string{
		EnvConfigPath: path,
		EnvLogLevel:   "debug",
		EnvModel:      "/models/env.onnx",
	}
	l := NewLoader("1.0.0", "")
	l.Getenv = func(k string) string { return env[k] }

	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("env should override file log level, got %v", cfg.LogLevel)
	}
	if cfg.Segmentation.Model != "/models/env.onnx" {
		t.Errorf("env should set model, got '%s'", cfg.Segmentation.Model)
	}

	env[EnvLogLevel] = "shouting"
	if _, err := l.Load(); err == nil {
		t.Error("Load should fail for an invalid env log level")
	}
}

func TestLoader_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.rc")
	if err := os.WriteFile(path, []byte("[segmentation]\nthreshold = 2\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	l := NewLoader("1.0.0", path)
	l.Getenv = func(string) string { return "" }
	if _, err := l.Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("got %v, want ErrInvalid", err)
	}
}
