// Copyright 2026 Oxbridge Economics
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mock

import "github.com/oxbridge-econ/knowledge-base/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates mock embedder, vision and classifier instances.
type MockProvider struct {
	embedder   *MockEmbedder
	vision     *MockVisionExtractor
	classifier *MockClassifier
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockVision()/GetMockClassifier() to access concrete
// types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		embedder:   NewMockEmbedder(),
		vision:     NewMockVisionExtractor(),
		classifier: NewMockClassifier(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
func NewMockProviderWithServices(embedder *MockEmbedder, vision *MockVisionExtractor, classifier *MockClassifier) ai.AIProvider {
	return &MockProvider{
		embedder:   embedder,
		vision:     vision,
		classifier: classifier,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// Vision returns the mock vision OCR service.
func (p *MockProvider) Vision() ai.VisionExtractor {
	return p.vision
}

// Classifier returns the mock relevance classifier.
func (p *MockProvider) Classifier() ai.RelevanceClassifier {
	return p.classifier
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
// This allows tests to check call counts and inject custom behavior.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockVision returns the underlying mock vision service for test assertions.
func (p *MockProvider) GetMockVision() *MockVisionExtractor {
	return p.vision
}

// GetMockClassifier returns the underlying mock classifier for test assertions.
func (p *MockProvider) GetMockClassifier() *MockClassifier {
	return p.classifier
}
