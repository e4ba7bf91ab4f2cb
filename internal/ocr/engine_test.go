package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bon-scanner/internal/common"
	"github.com/Veraticus/bon-scanner/internal/config"
)

type stubEngine struct {
	err  error
	text string
}

func (s stubEngine) Recognize(context.Context, string) (string, error) { return s.text, s.err }
func (s stubEngine) Name() string                                      { return "stub" }
func (s stubEngine) Close() error                                      { return nil }

func TestInstrumentedWrapsErrors(t *testing.T) {
	tests := []struct {
		name    string
		inner   stubEngine
		wantErr error
	}{
		{name: "engine failure", inner: stubEngine{err: errors.New("boom")}},
		{name: "empty text", inner: stubEngine{text: "  \n"}, wantErr: common.ErrEmptyOcrResult},
		{name: "timeout", inner: stubEngine{err: context.DeadlineExceeded}, wantErr: common.ErrOcrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := &instrumented{Engine: tt.inner}
			_, err := engine.Recognize(context.Background(), "/imports/bon.jpg")

			var ocrErr *common.OcrError
			require.ErrorAs(t, err, &ocrErr)
			assert.Equal(t, "/imports/bon.jpg", ocrErr.Path)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestInstrumentedPassesText(t *testing.T) {
	engine := &instrumented{Engine: stubEngine{text: "Milch 2,49"}}
	text, err := engine.Recognize(context.Background(), "bon.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Milch 2,49", text)
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(config.OCRSettings{Engine: "abbyy"})
	assert.ErrorContains(t, err, "unsupported OCR engine")

	_, err = NewEngine(config.OCRSettings{Engine: config.EngineGemini})
	assert.ErrorContains(t, err, "api key is required")

	engine, err := NewEngine(config.OCRSettings{
		Engine: config.EngineOpenAI,
		OpenAI: config.OpenAISettings{APIKey: "sk-test", BaseURL: "http://127.0.0.1:1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "openai", engine.Name())
}

func TestCleanTranscript(t *testing.T) {
	assert.Equal(t, "Milch 2,49", cleanTranscript("```text\nMilch 2,49\n```"))
	assert.Equal(t, "Milch 2,49", cleanTranscript("  Milch 2,49  "))
}
