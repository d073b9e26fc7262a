package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dgraph-io/badger/v4"

	"github.com/oxbridge-econ/knowledge-base/core"
	"github.com/oxbridge-econ/knowledge-base/storage"
)

func makeChunk(id, service, userId, sourceId, content string) *core.Chunk {
	return &core.Chunk{
		Id:      id,
		Content: content,
		Metadata: map[string]string{
			core.MetaService:  service,
			core.MetaUserId:   userId,
			core.MetaSourceId: sourceId,
		},
	}
}

func TestChunkStoreBasics(t *testing.T) {
	_, chunkStore, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	chunk := makeChunk("abc-0", "file", "user-1", "report.pdf", "Revenue grew 12%.")
	chunk.Vector = []float32{0.1, 0.2, 0.3}

	if err := chunkStore.Upsert(ctx, chunk); err != nil {
		t.Fatalf("Failed to upsert chunk: %v", err)
	}

	retrieved, err := chunkStore.Get(ctx, "abc-0")
	if err != nil {
		t.Fatalf("Failed to get chunk: %v", err)
	}
	if retrieved.Content != "Revenue grew 12%." {
		t.Fatalf("Expected original content, got %q", retrieved.Content)
	}
	if len(retrieved.Vector) != 3 {
		t.Fatalf("Expected vector length 3, got %d", len(retrieved.Vector))
	}

	if _, err := chunkStore.Get(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestChunkStore_UpsertReplacesById(t *testing.T) {
	_, chunkStore, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if err := chunkStore.Upsert(ctx, makeChunk("abc-0", "file", "user-1", "a.txt", "first generation")); err != nil {
		t.Fatalf("Failed to upsert chunk: %v", err)
	}
	if err := chunkStore.Upsert(ctx, makeChunk("abc-0", "file", "user-1", "a.txt", "second generation")); err != nil {
		t.Fatalf("Failed to upsert replacement: %v", err)
	}

	retrieved, err := chunkStore.Get(ctx, "abc-0")
	if err != nil {
		t.Fatalf("Failed to get chunk: %v", err)
	}
	if retrieved.Content != "second generation" {
		t.Fatalf("Expected replacement content, got %q", retrieved.Content)
	}

	// Still exactly one chunk for the source
	chunks, err := chunkStore.List(ctx, core.SourceRef{Service: "file", UserId: "user-1", SourceId: "a.txt"}.Filter())
	if err != nil {
		t.Fatalf("Failed to list chunks: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("Expected 1 chunk, got %d", len(chunks))
	}
}

func TestChunkStore_DeleteBySource(t *testing.T) {
	_, chunkStore, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	// Two sources for the same user
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("aaa-%d", i)
		if err := chunkStore.Upsert(ctx, makeChunk(id, "file", "user-1", "a.txt", "content a")); err != nil {
			t.Fatalf("Failed to upsert chunk: %v", err)
		}
	}
	if err := chunkStore.Upsert(ctx, makeChunk("bbb-0", "file", "user-1", "b.txt", "content b")); err != nil {
		t.Fatalf("Failed to upsert chunk: %v", err)
	}

	// Delete by the full dedup triple (index fast path)
	ref := core.SourceRef{Service: "file", UserId: "user-1", SourceId: "a.txt"}
	deleted, err := chunkStore.Delete(ctx, ref.Filter())
	if err != nil {
		t.Fatalf("Failed to delete chunks: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("Expected 3 deleted, got %d", deleted)
	}

	// The other source survives
	if _, err := chunkStore.Get(ctx, "bbb-0"); err != nil {
		t.Fatalf("Expected sibling chunk to survive: %v", err)
	}
	if _, err := chunkStore.Get(ctx, "aaa-0"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for deleted chunk, got %v", err)
	}

	// A second delete is a no-op
	deleted, err = chunkStore.Delete(ctx, ref.Filter())
	if err != nil {
		t.Fatalf("Failed on repeat delete: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("Expected 0 deleted on repeat, got %d", deleted)
	}
}

func TestChunkStore_DeleteByPartialFilter(t *testing.T) {
	_, chunkStore, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if err := chunkStore.Upsert(ctx,
		makeChunk("aaa-0", "gmail", "user-1", "thread-1", "mail"),
		makeChunk("bbb-0", "file", "user-1", "a.txt", "upload"),
	); err != nil {
		t.Fatalf("Failed to upsert chunks: %v", err)
	}

	// Partial filter takes the record-scan path
	deleted, err := chunkStore.Delete(ctx, core.Filter{core.MetaService: "gmail"})
	if err != nil {
		t.Fatalf("Failed to delete chunks: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("Expected 1 deleted, got %d", deleted)
	}
	if _, err := chunkStore.Get(ctx, "bbb-0"); err != nil {
		t.Fatalf("Expected file chunk to survive: %v", err)
	}
}

func TestChunkStore_EmptyFilterRejected(t *testing.T) {
	_, chunkStore, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if _, err := chunkStore.Delete(ctx, core.Filter{}); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Expected ErrInvalidQuery for empty delete filter, got %v", err)
	}
	if _, err := chunkStore.List(ctx, nil); !errors.Is(err, storage.ErrInvalidQuery) {
		t.Fatalf("Expected ErrInvalidQuery for empty list filter, got %v", err)
	}
}

func TestChunkStore_ListOrderedById(t *testing.T) {
	_, chunkStore, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	// Upsert out of order
	for _, id := range []string{"abc-2", "abc-0", "abc-1"} {
		if err := chunkStore.Upsert(ctx, makeChunk(id, "file", "user-1", "a.txt", "content "+id)); err != nil {
			t.Fatalf("Failed to upsert chunk: %v", err)
		}
	}

	chunks, err := chunkStore.List(ctx, core.SourceRef{Service: "file", UserId: "user-1", SourceId: "a.txt"}.Filter())
	if err != nil {
		t.Fatalf("Failed to list chunks: %v", err)
	}
	if len(chunks) != 3 {
		t.Fatalf("Expected 3 chunks, got %d", len(chunks))
	}
	for i, want := range []string{"abc-0", "abc-1", "abc-2"} {
		if chunks[i].Id != want {
			t.Fatalf("Expected %s at position %d, got %s", want, i, chunks[i].Id)
		}
	}
}

func TestChunkStore_Search(t *testing.T) {
	_, chunkStore, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	chunks := []*core.Chunk{
		{Id: "far-0", Content: "unrelated", Vector: []float32{0, 1, 0}},
		{Id: "near-0", Content: "close match", Vector: []float32{1, 0, 0}},
		{Id: "mid-0", Content: "partial match", Vector: []float32{0.7, 0.7, 0}},
		{Id: "novec-0", Content: "not yet embedded"},
	}
	if err := chunkStore.Upsert(ctx, chunks...); err != nil {
		t.Fatalf("Failed to upsert chunks: %v", err)
	}

	results, err := chunkStore.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Failed to search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.Id != "near-0" {
		t.Fatalf("Expected near-0 first, got %s", results[0].Chunk.Id)
	}
	if results[1].Chunk.Id != "mid-0" {
		t.Fatalf("Expected mid-0 second, got %s", results[1].Chunk.Id)
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("Expected descending scores, got %f then %f", results[0].Score, results[1].Score)
	}
}

func TestChunkStore_UpsertValidates(t *testing.T) {
	_, chunkStore, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	chunk := &core.Chunk{Id: "abc-0"} // no content
	if err := chunkStore.Upsert(context.Background(), chunk); !errors.Is(err, core.ErrInvalidChunk) {
		t.Fatalf("Expected ErrInvalidChunk, got %v", err)
	}
}

func TestChunkStore_DeleteCountsOnlyRemoved(t *testing.T) {
	_, chunkStore, backend, err := NewMemoryStores()
	if err != nil {
		t.Fatalf("Failed to create stores: %v", err)
	}
	defer backend.Close()

	ctx := context.Background()

	if err := chunkStore.Upsert(ctx,
		makeChunk("aaa-0", "file", "user-1", "a.txt", "surviving record"),
		makeChunk("aaa-1", "file", "user-1", "a.txt", "record dropped out of band"),
	); err != nil {
		t.Fatalf("Failed to upsert chunks: %v", err)
	}

	// Drop one record directly, leaving its source index entry stale.
	err = backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeChunkKey("aaa-1")); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		t.Fatalf("Failed to drop record: %v", err)
	}

	deleted, err := chunkStore.Delete(ctx, core.Filter{
		core.MetaService:  "file",
		core.MetaUserId:   "user-1",
		core.MetaSourceId: "a.txt",
	})
	if err != nil {
		t.Fatalf("Failed to delete chunks: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("Expected 1 deleted chunk, got %d", deleted)
	}
}
