package ocr

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/Veraticus/bon-scanner/internal/common"
	"github.com/Veraticus/bon-scanner/internal/config"
)

// OpenAI transcribes receipts with an OpenAI vision model.
type OpenAI struct {
	client *openai.Client
	model  string
	retry  common.RetryOptions
}

// NewOpenAI creates an OpenAI engine. BaseURL points it at a compatible server.
func NewOpenAI(cfg config.OpenAISettings) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4o
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
		retry:  common.RetryOptions{MaxAttempts: 3},
	}, nil
}

// Name identifies the engine in logs.
func (o *OpenAI) Name() string {
	return "openai"
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (o *OpenAI) Close() error {
	return nil
}

// Recognize sends the image inline as a data URL. Rate limits and server
// errors are retried.
func (o *OpenAI) Recognize(ctx context.Context, imagePath string) (string, error) {
	data, contentType, err := loadImage(imagePath)
	if err != nil {
		return "", err
	}

	if contentType != mimePNG && contentType != mimeJPEG {
		if data, err = toPNG(data, contentType); err != nil {
			return "", err
		}
		contentType = mimePNG
	}

	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: transcribePrompt,
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)),
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	}

	var text string
	err = common.WithRetry(ctx, func() error {
		resp, err := o.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return classifyOpenAIError(err)
		}
		if len(resp.Choices) == 0 {
			return errors.New("OpenAI returned no choices")
		}
		text = resp.Choices[0].Message.Content
		return nil
	}, o.retry)
	if err != nil {
		return "", err
	}

	return cleanTranscript(text), nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", common.ErrRateLimit, err)
		case apiErr.HTTPStatusCode >= http.StatusInternalServerError:
			return common.Retryable(err)
		}
	}
	return err
}
