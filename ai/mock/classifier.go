package mock

import (
	"context"
	"strings"
)

// MockClassifier is a test double for ai.RelevanceClassifier.
// It allows custom behavior injection via function fields.
type MockClassifier struct {
	// ClassifyFunc is called by Classify if set.
	// If nil, uses default substring matching.
	ClassifyFunc func(ctx context.Context, text string, topics []string) (bool, error)

	callCount int
}

// NewMockClassifier creates a mock classifier with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockClassifier().
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// Classify reports relevance using mock logic.
// Default behavior: relevant when any topic appears as a substring of the text.
func (m *MockClassifier) Classify(ctx context.Context, text string, topics []string) (bool, error) {
	m.callCount++

	if m.ClassifyFunc != nil {
		return m.ClassifyFunc(ctx, text, topics)
	}

	lower := strings.ToLower(text)
	for _, topic := range topics {
		if strings.Contains(lower, strings.ToLower(topic)) {
			return true, nil
		}
	}
	return false, nil
}

// CallCount returns the number of times Classify was called.
func (m *MockClassifier) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockClassifier) Reset() {
	m.callCount = 0
	m.ClassifyFunc = nil
}
