package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/oxbridge-econ/knowledge-base/core"
	"github.com/oxbridge-econ/knowledge-base/storage"
)

const (
	// maxTaskHistory bounds the per-owner task history. Once exceeded, the
	// oldest entries are evicted.
	maxTaskHistory = 10
)

// TaskRepository implements storage.TaskRepository for BadgerDB.
// Each owner's tasks live in one history document, so every Put is an
// atomic read-modify-write scoped to a single key.
type TaskRepository struct {
	backend *Backend
}

var _ storage.TaskRepository = (*TaskRepository)(nil)

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(backend *Backend) *TaskRepository {
	return &TaskRepository{backend: backend}
}

// Close releases repository resources.
func (r *TaskRepository) Close() error {
	return nil
}

// Put inserts or replaces a task in its owner's history document.
// A task with a known id replaces the stored element in place; a new id is
// appended and the oldest entries beyond the history cap are evicted.
// Timestamps belong to the caller and are stored as given.
func (r *TaskRepository) Put(ctx context.Context, task *core.Task) error {
	if err := core.ValidateTask(task); err != nil {
		return err
	}

	owner := core.IDFromContent(task.UserId)
	docKey := makeTaskDocKey(owner)

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		tasks, err := readTaskHistory(tx, docKey)
		if err != nil {
			return err
		}

		replaced := false
		for i, stored := range tasks {
			if stored.Id == task.Id {
				tasks[i] = task
				replaced = true
				break
			}
		}
		if !replaced {
			tasks = append(tasks, task)
		}

		// Evict oldest entries beyond the cap, dropping their index keys.
		for len(tasks) > maxTaskHistory {
			evicted := tasks[0]
			tasks = tasks[1:]
			if err := tx.Delete(makeTaskIndexKey(evicted.Id)); err != nil {
				return err
			}
		}

		if err := tx.Set(docKey, storage.MarshalTaskHistory(tasks)); err != nil {
			return err
		}
		if err := tx.Set(makeTaskIndexKey(task.Id), storage.MarshalID(owner)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)

	if errors.Is(err, badger.ErrConflict) {
		return storage.ErrTransient
	}
	return err
}

// Get retrieves one task from an owner's history.
func (r *TaskRepository) Get(ctx context.Context, userId, taskId string) (*core.Task, error) {
	var result *core.Task
	docKey := makeTaskDocKey(core.IDFromContent(userId))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		tasks, err := readTaskHistory(tx, docKey)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			if task.Id == taskId {
				result = task
				return nil
			}
		}
		return storage.ErrNotFound
	}, false)

	return result, err
}

// List returns an owner's task history, oldest first.
func (r *TaskRepository) List(ctx context.Context, userId string) ([]*core.Task, error) {
	var tasks []*core.Task
	docKey := makeTaskDocKey(core.IDFromContent(userId))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		tasks, err = readTaskHistory(tx, docKey)
		return err
	}, false)

	return tasks, err
}

// FindStatus resolves a task's status by id alone via the task index.
func (r *TaskRepository) FindStatus(ctx context.Context, taskId string) (core.TaskStatus, error) {
	var status core.TaskStatus

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeTaskIndexKey(taskId))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}

		var owner core.ID
		err = item.Value(func(val []byte) error {
			owner, err = storage.UnmarshalID(val)
			return err
		})
		if err != nil {
			return err
		}

		tasks, err := readTaskHistory(tx, makeTaskDocKey(owner))
		if err != nil {
			return err
		}
		for _, task := range tasks {
			if task.Id == taskId {
				status = task.Status
				return nil
			}
		}
		return storage.ErrNotFound
	}, false)

	return status, err
}

// readTaskHistory loads an owner's history document inside a transaction.
// A missing document reads as an empty history.
func readTaskHistory(tx *badger.Txn, key []byte) ([]*core.Task, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var tasks []*core.Task
	err = item.Value(func(val []byte) error {
		var err error
		tasks, err = storage.UnmarshalTaskHistory(val)
		return err
	})
	return tasks, err
}
