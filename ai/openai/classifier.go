package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oxbridge-econ/knowledge-base/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// RelevanceClassifier implements ai.RelevanceClassifier using OpenAI-compatible chat APIs.
type RelevanceClassifier struct {
	client llms.Model
	logger *slog.Logger
}

// newRelevanceClassifier is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newRelevanceClassifier(config *ai.Config) (*RelevanceClassifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ClassifierHost),
		openai.WithToken("none"),
		openai.WithModel(config.ClassifierModel),
	)
	if err != nil {
		return nil, err
	}

	return &RelevanceClassifier{
		client: client,
		logger: slog.Default().With("component", "openai-classifier"),
	}, nil
}

// NewRelevanceClassifier creates a new relevance classifier using the provided configuration.
//
// Returns ai.RelevanceClassifier interface to enforce abstraction.
func NewRelevanceClassifier(config *ai.Config) (ai.RelevanceClassifier, error) {
	return newRelevanceClassifier(config)
}

// Classify reports whether the text relates to at least one of the topics.
// Rate-limit responses are surfaced wrapping ai.ErrRateLimited so the caller
// can back off; every other failure is terminal for this attempt.
func (c *RelevanceClassifier) Classify(ctx context.Context, text string, topics []string) (bool, error) {
	if len(topics) == 0 {
		return true, nil
	}

	prompt := buildClassifierPrompt(truncateForPrompt(text), topics)
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(classifierSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		if isRateLimitError(err) {
			return false, fmt.Errorf("%w: %w", ai.ErrRateLimited, err)
		}
		c.logger.Error("failed to generate content", "err", err)
		return false, err
	}

	if len(response.Choices) < 1 {
		return false, ai.ErrEmptyResponse
	}

	verdict := strings.ToLower(strings.TrimSpace(response.Choices[0].Content))
	switch {
	case strings.HasPrefix(verdict, "yes"):
		return true, nil
	case strings.HasPrefix(verdict, "no"):
		return false, nil
	default:
		return false, fmt.Errorf("%w: unexpected verdict %q", ai.ErrEmptyResponse, verdict)
	}
}

// isRateLimitError detects rate-limit responses from OpenAI-compatible backends.
// The wire error is a plain string, so matching on the status code and the
// conventional message is the only available signal.
func isRateLimitError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "too many requests")
}
