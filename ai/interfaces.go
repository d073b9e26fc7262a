package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// VisionExtractor extracts text from images using a vision-capable model.
// It is the OCR fallback for image files and image-dominant PDF pages.
// Implementations must be thread-safe for concurrent use. Retries are the
// caller's responsibility; the extractor makes exactly one attempt.
type VisionExtractor interface {
	// ExtractText returns the readable text content of an image.
	// Returns an empty string for images without text.
	ExtractText(ctx context.Context, image []byte) (string, error)
}

// RelevanceClassifier decides whether text is related to any of the given topics.
// Implementations must be thread-safe for concurrent use.
//
// Rate limiting is signalled distinctly from other failures: implementations
// wrap ErrRateLimited so callers can back off and retry. Any other error is
// terminal for the attempt.
type RelevanceClassifier interface {
	// Classify reports whether the text relates to at least one topic.
	Classify(ctx context.Context, text string, topics []string) (bool, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder, VisionExtractor and RelevanceClassifier
// instances, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Vision returns the vision OCR service.
	// The returned VisionExtractor is safe for concurrent use.
	Vision() VisionExtractor

	// Classifier returns the topical relevance classifier.
	// The returned RelevanceClassifier is safe for concurrent use.
	Classifier() RelevanceClassifier

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
