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
	"io"
	"log/slog"

	"github.com/oxbridge-econ/knowledge-base/chunk"
	"github.com/oxbridge-econ/knowledge-base/core"
	"github.com/oxbridge-econ/knowledge-base/extract"
	"github.com/oxbridge-econ/knowledge-base/tasks"
)

// Orchestrator drives one ingestion run: drain a source, extract and chunk
// each item, filter for relevance, and replace the item's chunk generation
// in the vector store. Task state tracks the run throughout.
//
// Per-item failures (unsupported format, parse errors) are logged and
// skipped; the run continues with the remaining items. A vector store
// failure is fatal and fails the task, because continuing would leave an
// unknown mix of old and new generations behind.
type Orchestrator struct {
	manager    *tasks.Manager
	dispatcher *extract.Dispatcher
	splitter   *chunk.Splitter
	filter     *Filter
	uploader   *Uploader
	progress   *tasks.ProgressTracker
	logger     *slog.Logger
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// OrchestratorWithLogger sets a custom logger. Default is slog.Default().
func OrchestratorWithLogger(logger *slog.Logger) OrchestratorOption {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// OrchestratorWithProgress attaches a progress tracker; the orchestrator
// increments it once per source item.
func OrchestratorWithProgress(progress *tasks.ProgressTracker) OrchestratorOption {
	return func(o *Orchestrator) {
		o.progress = progress
	}
}

// NewOrchestrator creates an orchestrator from its stages.
func NewOrchestrator(
	manager *tasks.Manager,
	dispatcher *extract.Dispatcher,
	splitter *chunk.Splitter,
	filter *Filter,
	uploader *Uploader,
	opts ...OrchestratorOption,
) (*Orchestrator, error) {
	if manager == nil {
		return nil, ErrTaskManagerRequired
	}
	if dispatcher == nil {
		return nil, ErrDispatcherRequired
	}
	if splitter == nil {
		return nil, ErrSplitterRequired
	}
	if filter == nil {
		return nil, ErrClassifierRequired
	}
	if uploader == nil {
		return nil, ErrChunkStoreRequired
	}

	o := &Orchestrator{
		manager:    manager,
		dispatcher: dispatcher,
		splitter:   splitter,
		filter:     filter,
		uploader:   uploader,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.With("component", "orchestrator")
	return o, nil
}

// Run executes one ingestion task over the source. The task must be
// Pending; Run moves it to InProgress and leaves it in exactly one terminal
// state. topics enables the relevance filter; empty keeps everything.
func (o *Orchestrator) Run(ctx context.Context, task *core.Task, src Source, topics []string) error {
	if src == nil {
		return ErrSourceRequired
	}

	if err := o.manager.Start(ctx, task); err != nil {
		return fmt.Errorf("start task: %w", err)
	}
	if o.progress != nil {
		o.progress.Start()
	}

	logger := o.logger.With("task", task.Id, "service", src.Service())
	logger.Info("ingestion run started")

	for {
		item, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return o.fail(ctx, task, fmt.Errorf("read source: %w", err))
		}

		if err := o.processItem(ctx, item, topics); err != nil {
			if isItemError(err) {
				logger.Warn("item skipped", "item", item.Name, "error", err)
			} else {
				return o.fail(ctx, task, err)
			}
		}

		if err := o.manager.ItemProcessed(ctx, task); err != nil {
			return o.fail(ctx, task, fmt.Errorf("record progress: %w", err))
		}
		if o.progress != nil {
			o.progress.Increment(1)
		}
	}

	if o.progress != nil {
		o.progress.Finish()
	}
	if err := o.manager.Complete(ctx, task); err != nil {
		return fmt.Errorf("complete task: %w", err)
	}
	logger.Info("ingestion run completed", "processed", task.Processed)
	return nil
}

// processItem runs one source item through extract, split, filter and
// upload.
func (o *Orchestrator) processItem(ctx context.Context, item *RawItem, topics []string) error {
	extracted, err := o.dispatcher.Extract(ctx, item.Name, item.MediaType, item.Data)
	if err != nil {
		return err
	}
	if len(extracted) == 0 {
		o.logger.Debug("no content extracted", "item", item.Name)
		return nil
	}

	// Calendar feeds have no stable connector id; their identity derives
	// from the event seed the extractor computed.
	ref := item.Ref
	if seed := extracted[0].Metadata[core.MetaEventSeed]; seed != "" {
		ref.SourceId = seed
	}

	var chunks []*core.Chunk
	for _, part := range extracted {
		doc := &core.SourceDocument{
			Content:  part.Text,
			Metadata: mergeMetadata(part.Metadata, item.Metadata),
		}
		split, err := o.splitter.Split(ref, doc)
		if err != nil {
			return fmt.Errorf("%w: %q: %w", extract.ErrExtraction, item.Name, err)
		}
		chunks = append(chunks, split...)
	}
	if len(chunks) == 0 {
		return nil
	}

	chunks, err = o.filter.Apply(ctx, chunks, topics)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		o.logger.Debug("all chunks filtered out", "item", item.Name)
		return nil
	}

	return o.uploader.Upload(ctx, ref, chunks, item.SkipDelete)
}

// fail moves the task to Failed and returns the original error.
func (o *Orchestrator) fail(ctx context.Context, task *core.Task, cause error) error {
	if err := o.manager.Fail(ctx, task, cause); err != nil {
		o.logger.Error("failed to record task failure", "task", task.Id, "error", err)
	}
	return cause
}

// isItemError reports whether the error is recoverable at item granularity.
func isItemError(err error) bool {
	return errors.Is(err, extract.ErrUnsupportedMediaType) ||
		errors.Is(err, extract.ErrExtraction) ||
		errors.Is(err, extract.ErrEmptyInput)
}

// mergeMetadata overlays connector metadata on extractor metadata. The
// connector wins on conflicts: it knows the source of truth for titles and
// dates.
func mergeMetadata(extracted, connector map[string]string) map[string]string {
	merged := make(map[string]string, len(extracted)+len(connector))
	for k, v := range extracted {
		merged[k] = v
	}
	for k, v := range connector {
		merged[k] = v
	}
	return merged
}
