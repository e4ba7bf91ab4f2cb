package ocr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/bon-scanner/internal/common"
	"github.com/Veraticus/bon-scanner/internal/config"
)

func chatServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request, call int)) *httptest.Server {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(w, r, int(calls.Add(1)))
	}))
	t.Cleanup(server.Close)
	return server
}

func writeCompletion(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   "gpt-4o",
		"choices": []map[string]any{
			{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			},
		},
	})
	require.NoError(t, err)
}

func TestOpenAIRecognize(t *testing.T) {
	server := chatServer(t, func(w http.ResponseWriter, r *http.Request, _ int) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Content []struct {
					Type     string `json:"type"`
					ImageURL struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		if assert.Len(t, body.Messages, 1) && assert.Len(t, body.Messages[0].Content, 2) {
			assert.True(t, strings.HasPrefix(body.Messages[0].Content[1].ImageURL.URL, "data:image/jpeg;base64,"))
		}

		writeCompletion(t, w, "```\nMilch 2,49\nSUMME 2,49\n```")
	})

	engine, err := NewOpenAI(config.OpenAISettings{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: server.URL})
	require.NoError(t, err)

	text, err := engine.Recognize(context.Background(), writeJPEG(t, t.TempDir(), "bon.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "Milch 2,49\nSUMME 2,49", text)
}

func TestOpenAIRetriesServerErrors(t *testing.T) {
	server := chatServer(t, func(w http.ResponseWriter, _ *http.Request, call int) {
		if call == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream","type":"server_error"}}`))
			return
		}
		writeCompletion(t, w, "Brot 3,10")
	})

	engine, err := NewOpenAI(config.OpenAISettings{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)
	engine.retry = common.RetryOptions{MaxAttempts: 2, InitialDelay: time.Millisecond}

	text, err := engine.Recognize(context.Background(), writePNG(t, t.TempDir(), "bon.png"))
	require.NoError(t, err)
	assert.Equal(t, "Brot 3,10", text)
}

func TestOpenAIClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := chatServer(t, func(w http.ResponseWriter, _ *http.Request, _ int) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	})

	engine, err := NewOpenAI(config.OpenAISettings{APIKey: "sk-bad", BaseURL: server.URL})
	require.NoError(t, err)
	engine.retry = common.RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond}

	_, err = engine.Recognize(context.Background(), writePNG(t, t.TempDir(), "bon.png"))
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI(config.OpenAISettings{})
	assert.Error(t, err)
}
