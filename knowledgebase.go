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


package knowledgebase

import (
	"context"
	"log/slog"

	"github.com/oxbridge-econ/knowledge-base/ai"
	"github.com/oxbridge-econ/knowledge-base/ai/openai"
	"github.com/oxbridge-econ/knowledge-base/chunk"
	"github.com/oxbridge-econ/knowledge-base/core"
	"github.com/oxbridge-econ/knowledge-base/extract"
	"github.com/oxbridge-econ/knowledge-base/ingestion"
	"github.com/oxbridge-econ/knowledge-base/storage"
	"github.com/oxbridge-econ/knowledge-base/storage/badger"
	"github.com/oxbridge-econ/knowledge-base/tasks"
)

// KnowledgeBase wires storage, AI services and the ingestion pipeline into
// one handle. It owns the resource lifecycle: Close releases everything New
// opened.
type KnowledgeBase struct {
	backend    *badger.Backend
	taskRepo   storage.TaskRepository
	chunkStore storage.ChunkStore
	provider   ai.AIProvider
	manager    *tasks.Manager
	runner     *tasks.Runner
	dispatcher *extract.Dispatcher
	splitter   *chunk.Splitter
	logger     *slog.Logger
}

// Option configures a KnowledgeBase.
type Option func(*options)

type options struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
	workers  int
	logger   *slog.Logger
}

// WithAIConfig overrides the AI service configuration.
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithProvider injects a pre-built AI provider, bypassing the OpenAI
// client construction. Tests use it with the mock provider.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithInMemory opens the storage backend without a disk path.
func WithInMemory() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// WithScheduledWorkers sets the concurrency bound for scheduled
// collections.
func WithScheduledWorkers(workers int) Option {
	return func(o *options) {
		if workers > 0 {
			o.workers = workers
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New opens a knowledge base at filePath.
func New(filePath string, opts ...Option) (*KnowledgeBase, error) {
	// Apply options
	o := &options{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, o.inMemory)
	if err != nil {
		return nil, err
	}

	taskRepo := badger.NewTaskRepository(backend)
	chunkStore := badger.NewChunkStore(backend)
	cursorRepo := badger.NewCursorRepository(backend)

	// Create AI provider with configured settings
	provider := o.provider
	if provider == nil {
		provider, err = openai.NewProvider(o.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	manager, err := tasks.NewManager(taskRepo, cursorRepo, tasks.ManagerWithLogger(o.logger))
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	runnerOpts := []tasks.RunnerOption{tasks.RunnerWithLogger(o.logger)}
	if o.workers > 0 {
		runnerOpts = append(runnerOpts, tasks.RunnerWithWorkers(o.workers))
	}
	runner, err := tasks.NewRunner(runnerOpts...)
	if err != nil {
		provider.Close()
		backend.Close()
		return nil, err
	}

	dispatcher, err := extract.NewDispatcher(provider.Vision(), extract.WithLogger(o.logger))
	if err != nil {
		runner.Close()
		provider.Close()
		backend.Close()
		return nil, err
	}

	splitter, err := chunk.NewSplitter()
	if err != nil {
		runner.Close()
		provider.Close()
		backend.Close()
		return nil, err
	}

	return &KnowledgeBase{
		backend:    backend,
		taskRepo:   taskRepo,
		chunkStore: chunkStore,
		provider:   provider,
		manager:    manager,
		runner:     runner,
		dispatcher: dispatcher,
		splitter:   splitter,
		logger:     o.logger,
	}, nil
}

// Close releases all resources. In-flight tasks finish first.
func (kb *KnowledgeBase) Close() error {
	kb.runner.Close()

	if err := kb.provider.Close(); err != nil {
		kb.logger.Error("error closing AI provider", "err", err)
	}
	if err := kb.chunkStore.Close(); err != nil {
		kb.logger.Error("error closing chunk store", "err", err)
		return err
	}
	if err := kb.taskRepo.Close(); err != nil {
		kb.logger.Error("error closing task repository", "err", err)
		return err
	}
	if err := kb.backend.Close(); err != nil {
		kb.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// TaskManager returns the task lifecycle manager.
func (kb *KnowledgeBase) TaskManager() *tasks.Manager {
	return kb.manager
}

// ChunkStore returns the vector store.
func (kb *KnowledgeBase) ChunkStore() storage.ChunkStore {
	return kb.chunkStore
}

// NewPipeline assembles an ingestion orchestrator over this knowledge
// base's stores and AI services.
func (kb *KnowledgeBase) NewPipeline(opts ...ingestion.OrchestratorOption) (*ingestion.Orchestrator, error) {
	filter, err := ingestion.NewFilter(kb.provider.Classifier(), ingestion.FilterWithLogger(kb.logger))
	if err != nil {
		return nil, err
	}
	uploader, err := ingestion.NewUploader(kb.chunkStore, kb.provider.Embedder(), ingestion.UploaderWithLogger(kb.logger))
	if err != nil {
		return nil, err
	}

	opts = append([]ingestion.OrchestratorOption{ingestion.OrchestratorWithLogger(kb.logger)}, opts...)
	return ingestion.NewOrchestrator(kb.manager, kb.dispatcher, kb.splitter, filter, uploader, opts...)
}

// Ingest creates a task for the source and schedules its run. The returned
// task is Pending; poll Status with its id to follow the run. Manual tasks
// start immediately; scheduled tasks wait for a pool worker.
func (kb *KnowledgeBase) Ingest(ctx context.Context, userId string, kind core.TaskKind, src ingestion.Source, topics []string, query map[string]string, opts ...ingestion.OrchestratorOption) (*core.Task, error) {
	pipeline, err := kb.NewPipeline(opts...)
	if err != nil {
		return nil, err
	}

	task, err := kb.manager.Create(ctx, userId, src.Service(), kind, query)
	if err != nil {
		return nil, err
	}

	err = kb.runner.Submit(kind, func() {
		// The submitting request's context ends with the response; the run
		// gets its own lifetime.
		if err := pipeline.Run(context.Background(), task, src, topics); err != nil {
			kb.logger.Error("ingestion run failed", "task", task.Id, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Status resolves a task's status by id.
func (kb *KnowledgeBase) Status(ctx context.Context, taskId string) (core.TaskStatus, error) {
	return kb.manager.Status(ctx, taskId)
}

// Tasks returns a user's task history, most recent last.
func (kb *KnowledgeBase) Tasks(ctx context.Context, userId string) ([]*core.Task, error) {
	return kb.manager.List(ctx, userId)
}
