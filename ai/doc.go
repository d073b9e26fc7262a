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


// Package ai provides abstractions for the AI services used by the
// ingestion pipeline.
//
// This package defines interfaces for text embeddings, vision OCR and
// topical relevance classification. It follows the dependency inversion
// principle, allowing the pipeline to depend on abstractions rather than
// concrete implementations.
//
// # Design Principles
//
// The package is designed around four key interfaces:
//
//   - Embedder: Generates vector embeddings from text
//   - VisionExtractor: Extracts text from images (OCR fallback)
//   - RelevanceClassifier: Decides topical relevance of a chunk
//   - AIProvider: Aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// The ai package includes two implementation sub-packages:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewEmbedder, etc.) return
// INTERFACE types to enforce abstraction and prevent accidental coupling to
// concrete implementations.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//
// Test utility constructors (mock.NewMockEmbedder, mock.NewMockClassifier)
// return CONCRETE types to enable test assertions and behavior injection
// via the mock's public fields and methods (CallCount, function fields,
// Reset).
//
// # Error Contract
//
// Rate limiting is an explicit failure mode: implementations wrap
// ErrRateLimited so callers can distinguish "back off and retry" from
// terminal classification errors. The relevance filter in the ingestion
// package relies on this distinction to implement its fail-open policy.
//
// # Usage Example
//
//	config := ai.DefaultConfig()
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "quarterly revenue")
//	text, err := provider.Vision().ExtractText(ctx, pageImage)
//	ok, err := provider.Classifier().Classify(ctx, text, []string{"economics"})
package ai
