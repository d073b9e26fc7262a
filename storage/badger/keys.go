package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/oxbridge-econ/knowledge-base/core"
)

// Key prefixes for different data types
const (
	taskDocPrefix     = "taskdoc"
	taskIndexPrefix   = "taskidx"
	chunkRecordPrefix = "chkrec"
	chunkSourcePrefix = "chksrc"
	cursorPrefix      = "synccur"
)

// makeTaskDocKey generates the key for an owner's task history document.
func makeTaskDocKey(owner core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", taskDocPrefix, owner))
}

// makeTaskIndexKey generates the key mapping a task id to its owner.
func makeTaskIndexKey(taskId string) []byte {
	return []byte(taskIndexPrefix + ":" + taskId)
}

// makeChunkKey generates the key for a chunk by id.
func makeChunkKey(id string) []byte {
	return []byte(chunkRecordPrefix + ":" + id)
}

// makeChunkSourceKey generates a composite key for the source index.
// Format: prefix:sourceHash:chunkId
// The source hash is a 64-bit content hash of the dedup filter triple, written
// in BigEndian order so all chunks of one source are prefix-adjacent.
func makeChunkSourceKey(source core.ID, chunkId string) []byte {
	prefix := chunkSourcePrefix + ":"
	buf := make([]byte, len(prefix)+8+1+len(chunkId))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(source))
	offset += 8
	buf[offset] = ':'
	offset++
	copy(buf[offset:], chunkId)
	return buf
}

// makePartialChunkSourceKey generates the prefix for scanning one source's chunks.
func makePartialChunkSourceKey(source core.ID) []byte {
	prefix := chunkSourcePrefix + ":"
	buf := make([]byte, len(prefix)+8+1)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(source))
	buf[len(buf)-1] = ':'
	return buf
}

// sourceID derives the 64-bit index hash for a dedup filter triple.
func sourceID(service, userId, sourceId string) core.ID {
	return core.IDFromContent(service + "|" + userId + "|" + sourceId)
}

// makeCursorKey generates the key for an owner's sync cursor for one service.
func makeCursorKey(owner core.ID, service string) []byte {
	return []byte(fmt.Sprintf("%s:%d:%s", cursorPrefix, owner, service))
}
