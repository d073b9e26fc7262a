package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a compact identifier used for storage keys derived from content.
// Task owner documents and sync cursors are keyed by it.
type ID uint64

// IDFromContent generates a deterministic ID from text using BLAKE2b hashing.
// Identical input always produces the same ID.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// TaskStatus tracks the lifecycle of an ingestion task.
// Transitions are forward-only: Pending -> InProgress -> {Completed, Failed}.
type TaskStatus int

const (
	// TaskStatusPending indicates the task has been created but not started.
	TaskStatusPending TaskStatus = iota + 1
	// TaskStatusInProgress indicates the task is currently running.
	TaskStatusInProgress
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted
	// TaskStatusFailed indicates the task finished with an unrecoverable error.
	TaskStatusFailed
)

// String returns the operator-facing name of the status.
func (s TaskStatus) String() string {
	switch s {
	case TaskStatusPending:
		return "pending"
	case TaskStatusInProgress:
		return "in_progress"
	case TaskStatusCompleted:
		return "completed"
	case TaskStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a terminal state.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// CanTransitionTo reports whether a transition from s to next is legal.
// The state machine never moves backwards and never leaves a terminal state.
func (s TaskStatus) CanTransitionTo(next TaskStatus) bool {
	switch s {
	case TaskStatusPending:
		return next == TaskStatusInProgress
	case TaskStatusInProgress:
		return next == TaskStatusCompleted || next == TaskStatusFailed
	default:
		return false
	}
}

// TaskKind identifies how a task was triggered.
type TaskKind int

const (
	// TaskKindManual represents a user-triggered task.
	TaskKindManual TaskKind = iota + 1
	// TaskKindScheduled represents a cron-triggered task.
	TaskKindScheduled
)

// Task is the persisted record tracking one ingestion job.
// It is created Pending, moves to InProgress when work begins, and reaches
// exactly one terminal state. Tasks are retained for status queries and audit.
type Task struct {
	Id        string
	UserId    string
	Service   string // Originating source kind: "gmail", "drive", "file"
	Kind      TaskKind
	Status    TaskStatus
	Query     map[string]string // Opaque source query; carries the "after" cursor for scheduled re-runs
	Processed int               // Number of source items processed so far
	Error     string            // First unrecoverable error, set on failure
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SourceDocument is one logical unit of extracted content, owned exclusively
// by a single ingestion call.
type SourceDocument struct {
	Content  string
	Metadata map[string]string
}

// Chunk is one unit of text stored in the vector index.
// Its Id is deterministic across re-ingestion of the same logical source,
// so upsert-by-id replaces rather than duplicates.
type Chunk struct {
	Id       string
	Content  string
	Metadata map[string]string
	Vector   []float32 // Embedding vector, populated before upsert
}

// ScoredChunk is a chunk returned from vector similarity search.
type ScoredChunk struct {
	Chunk *Chunk
	Score float32
}

// SyncCursor records the last successful collection for one owner and service.
// Scheduled re-runs resume from LastCollected.
type SyncCursor struct {
	Service       string
	TaskId        string
	LastCollected time.Time
}

// Metadata keys shared between extractors, the chunker and the stores.
const (
	MetaService      = "service"
	MetaUserId       = "userId"
	MetaSourceId     = "sourceId"
	MetaPage         = "page"
	MetaChunkIndex   = "chunkIndex"
	MetaTitle        = "title"
	MetaMimeType     = "mimeType"
	MetaAttachment   = "attachment"
	MetaEventSeed    = "eventSeed"
	MetaDate         = "date"
	MetaLastModified = "lastModified"
)
