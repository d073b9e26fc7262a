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
	"log/slog"
	"time"

	"github.com/oxbridge-econ/knowledge-base/ai"
	"github.com/oxbridge-econ/knowledge-base/core"
)

const (
	// defaultClassifierAttempts bounds retries per chunk.
	defaultClassifierAttempts = 3
	// defaultRateLimitBackoff is the pause after a rate-limited attempt.
	defaultRateLimitBackoff = 60 * time.Second
)

// Filter drops chunks the relevance classifier rejects for the configured
// topics. Filtering is advisory: any classifier failure keeps the chunk, so
// an unhealthy classifier degrades to a no-op instead of losing content.
type Filter struct {
	classifier  ai.RelevanceClassifier
	maxAttempts int
	backoff     time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	logger      *slog.Logger
}

// FilterOption configures a Filter.
type FilterOption func(*Filter)

// FilterWithBackoff overrides the pause between rate-limited attempts.
func FilterWithBackoff(backoff time.Duration) FilterOption {
	return func(f *Filter) {
		if backoff > 0 {
			f.backoff = backoff
		}
	}
}

// FilterWithMaxAttempts overrides the per-chunk attempt bound.
func FilterWithMaxAttempts(attempts int) FilterOption {
	return func(f *Filter) {
		if attempts > 0 {
			f.maxAttempts = attempts
		}
	}
}

// FilterWithLogger sets a custom logger. Default is slog.Default().
func FilterWithLogger(logger *slog.Logger) FilterOption {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFilter creates a relevance filter.
func NewFilter(classifier ai.RelevanceClassifier, opts ...FilterOption) (*Filter, error) {
	if classifier == nil {
		return nil, ErrClassifierRequired
	}

	f := &Filter{
		classifier:  classifier,
		maxAttempts: defaultClassifierAttempts,
		backoff:     defaultRateLimitBackoff,
		sleep:       ctxSleep,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With("component", "relevance")
	return f, nil
}

// Apply returns the chunks that pass the topic filter, preserving order.
// An empty topic list keeps everything. The only error returned is context
// cancellation; classifier failures fail open per chunk.
func (f *Filter) Apply(ctx context.Context, chunks []*core.Chunk, topics []string) ([]*core.Chunk, error) {
	if len(topics) == 0 || len(chunks) == 0 {
		return chunks, nil
	}

	kept := make([]*core.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		relevant, err := f.classify(ctx, chunk, topics)
		if err != nil {
			return nil, err
		}
		if relevant {
			kept = append(kept, chunk)
		}
	}

	f.logger.Info("relevance filter applied",
		"topics", len(topics), "in", len(chunks), "kept", len(kept))
	return kept, nil
}

// classify runs one chunk through the classifier with bounded retries.
// Rate limits back off and retry; anything else keeps the chunk.
func (f *Filter) classify(ctx context.Context, chunk *core.Chunk, topics []string) (bool, error) {
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		relevant, err := f.classifier.Classify(ctx, chunk.Content, topics)
		if err == nil {
			return relevant, nil
		}

		if !errors.Is(err, ai.ErrRateLimited) {
			f.logger.Warn("classifier error, keeping chunk", "chunk", chunk.Id, "error", err)
			return true, nil
		}

		if attempt == f.maxAttempts {
			break
		}

		f.logger.Debug("classifier rate limited, backing off",
			"chunk", chunk.Id, "attempt", attempt, "backoff", f.backoff)
		if err := f.sleep(ctx, f.backoff); err != nil {
			return false, err
		}
	}

	f.logger.Warn("classifier attempts exhausted, keeping chunk", "chunk", chunk.Id)
	return true, nil
}

// ctxSleep pauses for d or until the context ends.
func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
