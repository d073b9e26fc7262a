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


package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/oxbridge-econ/knowledge-base/core"
	"github.com/oxbridge-econ/knowledge-base/storage"
)

// CursorRepository implements storage.CursorRepository for BadgerDB.
type CursorRepository struct {
	backend *Backend
}

var _ storage.CursorRepository = (*CursorRepository)(nil)

// NewCursorRepository creates a new CursorRepository.
func NewCursorRepository(backend *Backend) *CursorRepository {
	return &CursorRepository{
		backend: backend,
	}
}

// Set records a completed collection for an owner and service.
func (r *CursorRepository) Set(ctx context.Context, userId string, cursor *core.SyncCursor) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCursorKey(core.IDFromContent(userId), cursor.Service)
		if err := tx.Set(key, storage.MarshalCursor(cursor)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Get retrieves the cursor for an owner and service.
// Returns storage.ErrNotFound if no collection has completed yet.
func (r *CursorRepository) Get(ctx context.Context, userId, service string) (*core.SyncCursor, error) {
	var cursor *core.SyncCursor
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCursorKey(core.IDFromContent(userId), service)
		item, err := tx.Get(key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			cursor, unmarshalErr = storage.UnmarshalCursor(val)
			return unmarshalErr
		})
	}, false)

	if err != nil {
		return nil, err
	}
	return cursor, nil
}
