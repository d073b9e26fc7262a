package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/oxbridge-econ/knowledge-base/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// VisionExtractor implements ai.VisionExtractor using OpenAI-compatible
// vision-capable chat APIs.
type VisionExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// pageContent is the wrapper structure for the model's JSON response.
type pageContent struct {
	Content string `json:"content"`
}

// newVisionExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newVisionExtractor(config *ai.Config) (*VisionExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.VisionHost),
		openai.WithToken("none"),
		openai.WithModel(config.VisionModel),
	)
	if err != nil {
		return nil, err
	}

	return &VisionExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-vision"),
	}, nil
}

// NewVisionExtractor creates a new vision OCR service using the provided configuration.
//
// Returns ai.VisionExtractor interface to enforce abstraction.
func NewVisionExtractor(config *ai.Config) (ai.VisionExtractor, error) {
	return newVisionExtractor(config)
}

// ExtractText returns the readable text content of an image.
// The model is asked for a JSON object so page structure survives transport;
// malformed responses are repaired and retried up to 3 times.
func (v *VisionExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	mimeType := http.DetectContentType(image)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.BinaryPart(mimeType, image),
				llms.TextPart(visionPrompt),
			},
		},
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := v.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			v.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return "", err
		}

		if len(response.Choices) < 1 {
			v.logger.Debug("no choices returned from model")
			return "", ai.ErrEmptyResponse
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		var result pageContent
		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			v.logger.Warn("error parsing vision response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		return strings.TrimSpace(result.Content), nil
	}

	return "", lastErr
}
