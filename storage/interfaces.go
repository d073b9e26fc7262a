package storage

import (
	"context"

	"github.com/oxbridge-econ/knowledge-base/core"
)

// TaskRepository persists task records per owner.
// Implementations must be thread-safe and support concurrent access.
//
// Each owner holds a bounded history document: Put is an atomic
// upsert-or-append keyed by task id, evicting the oldest entries once the
// history exceeds its cap. Tasks are never deleted individually; eviction
// is the only removal path.
type TaskRepository interface {
	// Put inserts or replaces a task in its owner's history document.
	// The whole read-modify-write happens inside one transaction.
	Put(ctx context.Context, task *core.Task) error

	// Get retrieves one task from an owner's history.
	// Returns ErrNotFound if the task doesn't exist.
	Get(ctx context.Context, userId, taskId string) (*core.Task, error)

	// List returns an owner's task history, most recent last.
	List(ctx context.Context, userId string) ([]*core.Task, error)

	// FindStatus resolves a task's status by id alone, without knowing the
	// owner. Returns ErrNotFound for unknown ids.
	FindStatus(ctx context.Context, taskId string) (core.TaskStatus, error)

	// Close releases repository resources.
	Close() error
}

// ChunkStore is the contract the pipeline requires from a vector store.
// Embeddings are computed by the caller before Upsert; backends that embed
// server-side may ignore the vectors.
type ChunkStore interface {
	// Upsert inserts or replaces chunks by id.
	// Transient backend failures are reported wrapping ErrTransient so the
	// caller can distinguish them from permanent errors.
	Upsert(ctx context.Context, chunks ...*core.Chunk) error

	// Delete removes every chunk whose metadata matches the filter and
	// returns the number of chunks removed. Deleting nothing is a no-op.
	Delete(ctx context.Context, filter core.Filter) (int, error)

	// Get retrieves a single chunk by id.
	// Returns ErrNotFound if the chunk doesn't exist.
	Get(ctx context.Context, id string) (*core.Chunk, error)

	// List returns the chunks matching the filter, ordered by id.
	List(ctx context.Context, filter core.Filter) ([]*core.Chunk, error)

	// Search finds chunks similar to the given vector, highest score first.
	Search(ctx context.Context, vector []float32, limit int) ([]*core.ScoredChunk, error)

	// Close releases store resources.
	Close() error
}

// CursorRepository tracks the last successful collection per owner and
// service, giving scheduled re-runs their resume point.
type CursorRepository interface {
	// Get retrieves the cursor for an owner and service.
	// Returns ErrNotFound if no collection has completed yet.
	Get(ctx context.Context, userId, service string) (*core.SyncCursor, error)

	// Set records a completed collection.
	Set(ctx context.Context, userId string, cursor *core.SyncCursor) error
}
