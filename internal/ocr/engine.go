// Package ocr recognizes the text of receipt images.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/bon-scanner/internal/common"
	"github.com/Veraticus/bon-scanner/internal/config"
)

// Engine turns an image file into raw text, one receipt line per text line.
type Engine interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
	Name() string
	Close() error
}

// transcribePrompt asks vision models for tesseract-like output so the same
// line classifier works for every engine.
const transcribePrompt = `You are transcribing a photographed German supermarket receipt.
Return the printed text exactly as it appears, one receipt line per output line, top to bottom.
Keep prices in their original notation with a comma as decimal separator (for example "Milch 2,49").
Keep dates exactly as printed (for example "24.12.2024").
Do not add explanations, headings, markdown or code fences. Do not translate or correct words.`

// NewEngine creates the engine selected by cfg.Engine. Errors returned by the
// engine are wrapped as *common.OcrError.
func NewEngine(cfg config.OCRSettings) (Engine, error) {
	var (
		engine Engine
		err    error
	)

	switch strings.ToLower(cfg.Engine) {
	case config.EngineTesseract, "":
		engine, err = NewTesseract(cfg.Tesseract)
	case config.EngineGemini:
		engine, err = NewGemini(cfg.Gemini)
	case config.EngineOpenAI:
		engine, err = NewOpenAI(cfg.OpenAI)
	default:
		return nil, fmt.Errorf("unsupported OCR engine: %s", cfg.Engine)
	}
	if err != nil {
		return nil, err
	}

	return &instrumented{Engine: engine}, nil
}

// instrumented logs every recognition and normalizes its errors.
type instrumented struct {
	Engine
}

func (e *instrumented) Recognize(ctx context.Context, imagePath string) (string, error) {
	start := time.Now()
	text, err := e.Engine.Recognize(ctx, imagePath)
	if err == nil && strings.TrimSpace(text) == "" {
		err = common.ErrEmptyOcrResult
	}
	if err != nil {
		slog.Warn("ocr failed",
			"engine", e.Name(),
			"path", imagePath,
			"duration", time.Since(start),
			"error", err)
		return "", common.NewOcrError(imagePath, err)
	}

	slog.Info("ocr completed",
		"engine", e.Name(),
		"path", imagePath,
		"duration", time.Since(start),
		"bytes", len(text))
	return text, nil
}

// cleanTranscript strips the code fences vision models add despite being told not to.
func cleanTranscript(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```text")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
