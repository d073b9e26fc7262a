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

import "errors"

// Domain validation errors
var (
	// ErrInvalidTask indicates a Task failed validation.
	ErrInvalidTask = errors.New("invalid task")

	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidStatus indicates an invalid TaskStatus value.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrInvalidKind indicates an invalid TaskKind value.
	ErrInvalidKind = errors.New("invalid task kind")

	// ErrIllegalTransition indicates a status transition that the state
	// machine does not allow.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrTaskFinalized indicates an attempt to mutate a task that already
	// reached a terminal state.
	ErrTaskFinalized = errors.New("task already finalized")

	// ErrEmptyTaskId indicates the task Id field is empty.
	ErrEmptyTaskId = errors.New("task id cannot be empty")

	// ErrEmptyUserId indicates the task UserId field is empty.
	ErrEmptyUserId = errors.New("user id cannot be empty")

	// ErrEmptyService indicates the task Service field is empty.
	ErrEmptyService = errors.New("service cannot be empty")

	// ErrEmptyChunkId indicates the chunk Id field is empty.
	ErrEmptyChunkId = errors.New("chunk id cannot be empty")

	// ErrEmptyContent indicates the chunk Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")
)
