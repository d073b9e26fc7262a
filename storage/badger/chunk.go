package badger

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/oxbridge-econ/knowledge-base/core"
	"github.com/oxbridge-econ/knowledge-base/storage"
)

// ChunkStore implements storage.ChunkStore for BadgerDB.
// Chunks are stored by id with a secondary index keyed by the dedup triple
// (service, userId, sourceId), so stale-generation deletes are prefix scans
// rather than full table scans.
type ChunkStore struct {
	backend *Backend
}

var _ storage.ChunkStore = (*ChunkStore)(nil)

// NewChunkStore creates a new ChunkStore.
func NewChunkStore(backend *Backend) *ChunkStore {
	return &ChunkStore{backend: backend}
}

// Close releases store resources.
func (s *ChunkStore) Close() error {
	return nil
}

// Upsert inserts or replaces chunks by id.
func (s *ChunkStore) Upsert(ctx context.Context, chunks ...*core.Chunk) error {
	for _, chunk := range chunks {
		if err := core.ValidateChunk(chunk); err != nil {
			return err
		}
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := tx.Set(makeChunkKey(chunk.Id), storage.MarshalChunk(chunk)); err != nil {
				return err
			}
			if source, ok := chunkSource(chunk.Metadata); ok {
				if err := tx.Set(makeChunkSourceKey(source, chunk.Id), []byte(chunk.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	if errors.Is(err, badger.ErrConflict) {
		return storage.ErrTransient
	}
	return err
}

// Delete removes every chunk whose metadata matches the filter and returns
// the number of chunks removed. A full dedup triple uses the source index;
// any other filter falls back to a record scan.
func (s *ChunkStore) Delete(ctx context.Context, filter core.Filter) (int, error) {
	ids, err := s.matchingIDs(filter)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var deleted int
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		deleted = 0
		for _, id := range ids {
			chunk, err := readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk == nil {
				// Stale index entry; the record is already gone.
				continue
			}
			if source, ok := chunkSource(chunk.Metadata); ok {
				if err := tx.Delete(makeChunkSourceKey(source, id)); err != nil {
					return err
				}
			}
			if err := tx.Delete(makeChunkKey(id)); err != nil {
				return err
			}
			deleted++
		}
		return tx.Commit()
	}, true)

	if errors.Is(err, badger.ErrConflict) {
		return 0, storage.ErrTransient
	}
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Get retrieves a single chunk by id.
func (s *ChunkStore) Get(ctx context.Context, id string) (*core.Chunk, error) {
	var result *core.Chunk
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		chunk, err := readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if chunk == nil {
			return storage.ErrNotFound
		}
		result = chunk
		return nil
	}, false)
	return result, err
}

// List returns the chunks matching the filter, ordered by id.
func (s *ChunkStore) List(ctx context.Context, filter core.Filter) ([]*core.Chunk, error) {
	ids, err := s.matchingIDs(filter)
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)

	var chunks []*core.Chunk
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			chunk, err := readChunk(tx, makeChunkKey(id))
			if err != nil {
				return err
			}
			if chunk != nil {
				chunks = append(chunks, chunk)
			}
		}
		return nil
	}, false)
	return chunks, err
}

// Search finds chunks similar to the given vector, highest score first.
// Cosine similarity assuming normalized embeddings.
func (s *ChunkStore) Search(ctx context.Context, vector []float32, limit int) ([]*core.ScoredChunk, error) {
	var results []*core.ScoredChunk

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk == nil || len(chunk.Vector) == 0 {
				continue
			}

			results = append(results, &core.ScoredChunk{
				Chunk: chunk,
				Score: dotProduct(vector, chunk.Vector),
			})
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(results, func(a, b *core.ScoredChunk) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// matchingIDs resolves the chunk ids selected by a filter.
func (s *ChunkStore) matchingIDs(filter core.Filter) ([]string, error) {
	if len(filter) == 0 {
		return nil, storage.ErrInvalidQuery
	}

	// Fast path: a full dedup triple maps to one source index prefix.
	if len(filter) == 3 {
		service, okS := filter[core.MetaService]
		userId, okU := filter[core.MetaUserId]
		sourceId, okI := filter[core.MetaSourceId]
		if okS && okU && okI {
			return s.indexScan(sourceID(service, userId, sourceId))
		}
	}

	// Slow path: scan every record and match metadata.
	var ids []string
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var chunk *core.Chunk
			err := iter.Item().Value(func(val []byte) error {
				var err error
				chunk, err = storage.UnmarshalChunk(val)
				return err
			})
			if err != nil {
				return err
			}
			if chunk != nil && filter.Matches(chunk.Metadata) {
				ids = append(ids, chunk.Id)
			}
		}
		return nil
	}, false)
	return ids, err
}

// indexScan collects the chunk ids under one source index prefix.
func (s *ChunkStore) indexScan(source core.ID) ([]string, error) {
	var ids []string
	prefix := makePartialChunkSourceKey(source)

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			key := iter.Item().Key()
			id := string(key[len(prefix):])
			if strings.TrimSpace(id) == "" {
				continue
			}
			ids = append(ids, id)
		}
		return nil
	}, false)
	return ids, err
}

// chunkSource derives the source index hash from chunk metadata.
func chunkSource(metadata map[string]string) (core.ID, bool) {
	service, okS := metadata[core.MetaService]
	userId, okU := metadata[core.MetaUserId]
	sourceId, okI := metadata[core.MetaSourceId]
	if !okS || !okU || !okI {
		return 0, false
	}
	return sourceID(service, userId, sourceId), true
}

// readChunk loads a chunk inside a transaction, nil if absent.
func readChunk(tx *badger.Txn, key []byte) (*core.Chunk, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var chunk *core.Chunk
	err = item.Value(func(val []byte) error {
		var err error
		chunk, err = storage.UnmarshalChunk(val)
		return err
	})
	return chunk, err
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
