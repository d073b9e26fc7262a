package ingestion

import "errors"

var (
	// ErrTaskManagerRequired is returned when a task manager is not provided.
	ErrTaskManagerRequired = errors.New("task manager required")

	// ErrChunkStoreRequired is returned when a chunk store is not provided.
	ErrChunkStoreRequired = errors.New("chunk store required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrClassifierRequired is returned when a relevance classifier is not provided.
	ErrClassifierRequired = errors.New("relevance classifier required")

	// ErrDispatcherRequired is returned when an extractor dispatcher is not provided.
	ErrDispatcherRequired = errors.New("extractor dispatcher required")

	// ErrSplitterRequired is returned when a chunk splitter is not provided.
	ErrSplitterRequired = errors.New("chunk splitter required")

	// ErrSourceRequired is returned when a source is not provided.
	ErrSourceRequired = errors.New("source required")

	// ErrInvalidMaxAttempts is returned when retry attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrEmbeddingMismatch is returned when the embedder returns a different
	// number of vectors than texts submitted.
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")
)
