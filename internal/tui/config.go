package tui

import (
	"time"

	"github.com/Veraticus/bon-scanner/internal/engine"
	"github.com/Veraticus/bon-scanner/internal/ocr"
	"github.com/Veraticus/bon-scanner/internal/service"
	"github.com/Veraticus/bon-scanner/internal/tui/themes"
	"github.com/Veraticus/bon-scanner/internal/workflow"
)

// Config holds TUI configuration.
type Config struct {
	Theme      themes.Theme
	Storage    service.Storage
	Imports    workflow.ImportSource
	OCR        ocr.Engine
	Engine     *engine.Engine
	OcrTimeout time.Duration
	Width      int
	Height     int
	AltScreen  bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:      themes.Default,
		OcrTimeout: workflow.DefaultOcrTimeout,
		Width:      100,
		Height:     30,
		AltScreen:  true,
	}
}

// WithStorage sets the storage service.
func WithStorage(storage service.Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

// WithImports sets where receipt images are picked from.
func WithImports(imports workflow.ImportSource) Option {
	return func(c *Config) {
		c.Imports = imports
	}
}

// WithOCR sets the recognition engine.
func WithOCR(engine ocr.Engine) Option {
	return func(c *Config) {
		c.OCR = engine
	}
}

// WithEngine sets the draft conversion engine.
func WithEngine(e *engine.Engine) Option {
	return func(c *Config) {
		c.Engine = e
	}
}

// WithOcrTimeout bounds each recognition.
func WithOcrTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.OcrTimeout = timeout
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
