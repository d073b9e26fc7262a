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


// Package storage provides the storage abstraction layer for the knowledge base.
//
// This package defines repository interfaces that decouple storage implementation
// from the ingestion pipeline. It allows for different backends (BadgerDB,
// in-memory, hosted vector databases) to be used interchangeably.
//
// # Interfaces
//
//   - TaskRepository: bounded per-owner task history with atomic upsert-or-append
//   - ChunkStore: the vector-store contract required by the pipeline
//     (delete-by-filter, upsert-by-id, similarity search)
//   - CursorRepository: last-collect timestamps for scheduled re-runs
//
// # Error contract
//
// Backends report temporary failures by wrapping ErrTransient; the upsert
// client retries only those. ErrNotFound is returned for missing records.
//
// # Usage
//
// Create repositories against a BadgerDB backend:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	taskRepo := badger.NewTaskRepository(backend)
//	chunkStore := badger.NewChunkStore(backend)
//	defer backend.Close()
//
// Use in tests with in-memory storage:
//
//	taskRepo, chunkStore, backend, err := badger.NewMemoryStores()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support.
package storage
