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


package core

import (
	"fmt"
)

// ValidateTask validates a Task according to domain rules.
//
// Validation rules:
//   - Id, UserId and Service must not be empty
//   - Status and Kind must be valid enum values
//
// NOT validated:
//   - Query (opaque connector parameters)
//   - Processed and Error (populated during the run)
func ValidateTask(task *Task) error {
	if task == nil {
		return fmt.Errorf("%w: task is nil", ErrInvalidTask)
	}

	if task.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTask, ErrEmptyTaskId)
	}

	if task.UserId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTask, ErrEmptyUserId)
	}

	if task.Service == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTask, ErrEmptyService)
	}

	if err := ValidateStatus(task.Status); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}

	if err := ValidateKind(task.Kind); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}

	return nil
}

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Content must not be empty
//
// NOT validated:
//   - Vector (can be empty until the uploader embeds it)
//   - Metadata (connector-specific)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkId)
	}

	if chunk.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	return nil
}

// ValidateStatus validates that a TaskStatus has a valid value.
func ValidateStatus(status TaskStatus) error {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusFailed:
		return nil
	default:
		return fmt.Errorf("%w: value %d", ErrInvalidStatus, status)
	}
}

// ValidateKind validates that a TaskKind has a valid value.
func ValidateKind(kind TaskKind) error {
	if kind != TaskKindManual && kind != TaskKindScheduled {
		return fmt.Errorf("%w: value %d", ErrInvalidKind, kind)
	}
	return nil
}

// ValidateTransition checks that moving a task from its current status to
// next is legal. Terminal tasks are never re-opened.
func ValidateTransition(current, next TaskStatus) error {
	if err := ValidateStatus(next); err != nil {
		return err
	}
	if current.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrTaskFinalized, current, next)
	}
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, next)
	}
	return nil
}
