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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/oxbridge-econ/knowledge-base/ai"
	"github.com/oxbridge-econ/knowledge-base/core"
	"github.com/oxbridge-econ/knowledge-base/storage"
)

const (
	// defaultUpsertAttempts bounds retries of the vector store write.
	defaultUpsertAttempts = 3
	// defaultUpsertRetryDelay is the pause between write attempts.
	defaultUpsertRetryDelay = 2 * time.Second
)

// urlPattern matches http(s) URLs embedded in chunk content. Long opaque
// URLs are the most common reason a vector store write keeps failing, so
// retries replace them before trying again.
var urlPattern = regexp.MustCompile(`https?://\S+`)

// Uploader replaces a source's chunk generation in the vector store:
// delete the previous generation by filter, embed the new chunks, write
// them. Delete and write are not transactional; deterministic chunk ids
// make a re-run after a partial failure converge.
type Uploader struct {
	store       storage.ChunkStore
	embedder    ai.Embedder
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// UploaderOption configures an Uploader.
type UploaderOption func(*Uploader)

// UploaderWithRetry overrides the write retry policy.
func UploaderWithRetry(attempts int, delay time.Duration) UploaderOption {
	return func(u *Uploader) {
		if attempts > 0 {
			u.maxAttempts = attempts
		}
		if delay > 0 {
			u.retryDelay = delay
		}
	}
}

// UploaderWithLogger sets a custom logger. Default is slog.Default().
func UploaderWithLogger(logger *slog.Logger) UploaderOption {
	return func(u *Uploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewUploader creates an uploader.
func NewUploader(store storage.ChunkStore, embedder ai.Embedder, opts ...UploaderOption) (*Uploader, error) {
	if store == nil {
		return nil, ErrChunkStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	u := &Uploader{
		store:       store,
		embedder:    embedder,
		maxAttempts: defaultUpsertAttempts,
		retryDelay:  defaultUpsertRetryDelay,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	u.logger = u.logger.With("component", "uploader")
	return u, nil
}

// Upload replaces the stored generation for ref with chunks. skipDelete
// suppresses the stale-generation purge; file uploads use it because their
// chunk ids already derive from the content and the delete step would race
// concurrent uploads of the same name.
//
// Transient store errors are retried with the chunk content sanitized
// before each new attempt. Exhaustion or a permanent error is returned to
// the caller and fails the owning task.
func (u *Uploader) Upload(ctx context.Context, ref core.SourceRef, chunks []*core.Chunk, skipDelete bool) error {
	if len(chunks) == 0 {
		return nil
	}

	if !skipDelete {
		deleted, err := u.store.Delete(ctx, ref.Filter())
		if err != nil {
			return fmt.Errorf("delete stale chunks: %w", err)
		}
		if deleted > 0 {
			u.logger.Debug("purged stale generation", "source", ref.SourceId, "chunks", deleted)
		}
	}

	if err := u.embed(ctx, chunks); err != nil {
		return err
	}

	attempt := 0
	err := RetryWithBackoff(ctx, func() error {
		attempt++
		if attempt > 1 {
			sanitizeChunks(chunks)
		}
		return u.store.Upsert(ctx, chunks...)
	}, u.maxAttempts, u.retryDelay, func(err error) bool {
		return errors.Is(err, storage.ErrTransient)
	})
	if err != nil {
		u.logger.Error("chunk upsert failed",
			"source", ref.SourceId, "chunks", len(chunks), "attempts", attempt,
			"firstChunk", chunks[0].Id, "error", err)
		return fmt.Errorf("upsert chunks: %w", err)
	}

	u.logger.Info("chunks upserted", "source", ref.SourceId, "chunks", len(chunks))
	return nil
}

// embed populates the chunk vectors in one batch call.
func (u *Uploader) embed(ctx context.Context, chunks []*core.Chunk) error {
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}

	vectors, err := u.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("%w: expected %d, received %d", ErrEmbeddingMismatch, len(chunks), len(vectors))
	}

	for i := range vectors {
		chunks[i].Vector = vectors[i]
	}
	return nil
}

// sanitizeChunks replaces URLs in chunk content in place. Vectors are kept:
// they were computed from the original content and remain the better
// retrieval signal.
func sanitizeChunks(chunks []*core.Chunk) {
	for _, chunk := range chunks {
		chunk.Content = urlPattern.ReplaceAllString(chunk.Content, "[URL]")
	}
}
