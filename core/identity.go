package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// SourceRef identifies one logical source unit across ingestion runs.
// Connectors choose the stable SourceId for their service: gmail uses the
// thread id, file uploads use the filename, drive uses the file id.
type SourceRef struct {
	Service  string
	UserId   string
	SourceId string
}

// BaseHash returns the stable base hash for the ref: SHA-256 hex of the
// concatenated stable fields. All chunk ids for this source derive from it,
// which is what makes re-ingestion idempotent.
func (r SourceRef) BaseHash() string {
	h := sha256.New()
	h.Write([]byte(r.Service))
	h.Write([]byte("|"))
	h.Write([]byte(r.UserId))
	h.Write([]byte("|"))
	h.Write([]byte(r.SourceId))
	return hex.EncodeToString(h.Sum(nil))
}

// Filter is an equality predicate over chunk metadata, used to select every
// chunk belonging to one logical source when purging stale generations.
type Filter map[string]string

// Matches reports whether the metadata satisfies every filter field.
func (f Filter) Matches(metadata map[string]string) bool {
	for k, v := range f {
		if metadata[k] != v {
			return false
		}
	}
	return true
}

// Filter returns the dedup filter selecting all live chunks of this source.
func (r SourceRef) Filter() Filter {
	return Filter{
		MetaService:  r.Service,
		MetaUserId:   r.UserId,
		MetaSourceId: r.SourceId,
	}
}

// ChunkID assembles a deterministic chunk id from the base hash, an optional
// page marker and the 0-based chunk index. The explicit delete-before-write
// step handles generations whose chunk count shrank; the id scheme handles
// everything else.
func ChunkID(baseHash, page string, index int) string {
	if page != "" {
		return baseHash + "-" + page + "-" + strconv.Itoa(index)
	}
	return baseHash + "-" + strconv.Itoa(index)
}
