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


package storage

import (
	"github.com/oxbridge-econ/knowledge-base/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalTask serializes a Task to bytes.
func MarshalTask(task *core.Task) []byte {
	buf := make([]byte, core.TaskMUS.Size(*task))
	core.TaskMUS.Marshal(*task, buf)
	return buf
}

// UnmarshalTask deserializes a Task from bytes.
func UnmarshalTask(data []byte) (*core.Task, error) {
	task, _, err := core.TaskMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// MarshalTaskHistory serializes an owner's task history document.
// Tasks are concatenated in order; MUS framing makes the list self-delimiting.
func MarshalTaskHistory(tasks []*core.Task) []byte {
	size := 0
	for _, task := range tasks {
		size += core.TaskMUS.Size(*task)
	}
	buf := make([]byte, size)
	n := 0
	for _, task := range tasks {
		n += core.TaskMUS.Marshal(*task, buf[n:])
	}
	return buf
}

// UnmarshalTaskHistory deserializes an owner's task history document.
func UnmarshalTaskHistory(data []byte) ([]*core.Task, error) {
	var tasks []*core.Task
	for len(data) > 0 {
		task, n, err := core.TaskMUS.Unmarshal(data)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, &task)
		data = data[n:]
	}
	return tasks, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalCursor serializes a SyncCursor to bytes.
func MarshalCursor(cursor *core.SyncCursor) []byte {
	buf := make([]byte, core.SyncCursorMUS.Size(*cursor))
	core.SyncCursorMUS.Marshal(*cursor, buf)
	return buf
}

// UnmarshalCursor deserializes a SyncCursor from bytes.
func UnmarshalCursor(data []byte) (*core.SyncCursor, error) {
	cursor, _, err := core.SyncCursorMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &cursor, nil
}
