package mock

import (
	"context"
)

// MockVisionExtractor is a test double for ai.VisionExtractor.
// It allows custom behavior injection via function fields.
type MockVisionExtractor struct {
	// ExtractTextFunc is called by ExtractText if set.
	// If nil, returns a fixed placeholder string.
	ExtractTextFunc func(ctx context.Context, image []byte) (string, error)

	callCount int
}

// NewMockVisionExtractor creates a mock vision OCR service with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockVision().
func NewMockVisionExtractor() *MockVisionExtractor {
	return &MockVisionExtractor{}
}

// ExtractText returns mock OCR output.
func (m *MockVisionExtractor) ExtractText(ctx context.Context, image []byte) (string, error) {
	m.callCount++

	if m.ExtractTextFunc != nil {
		return m.ExtractTextFunc(ctx, image)
	}

	return "mock ocr text", nil
}

// CallCount returns the number of times ExtractText was called.
func (m *MockVisionExtractor) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockVisionExtractor) Reset() {
	m.callCount = 0
	m.ExtractTextFunc = nil
}
