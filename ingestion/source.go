package ingestion

import (
	"context"
	"io"

	"github.com/oxbridge-econ/knowledge-base/core"
)

// RawItem is one file-like unit produced by a source: an uploaded file, a
// mail thread, a drive document, a calendar feed.
type RawItem struct {
	// Name is the original filename or a synthetic one carrying the format
	// extension ("thread.eml", "invite.ics").
	Name string

	// MediaType is the declared MIME type, when the source knows it.
	MediaType string

	// Data is the raw content.
	Data []byte

	// Ref carries the stable identity used for chunk ids and dedup.
	Ref core.SourceRef

	// Metadata is merged into every extracted item's metadata.
	Metadata map[string]string

	// SkipDelete suppresses the stale-generation purge for this item.
	// Direct file uploads set it: their ids derive from the filename, and
	// deleting by filter would race concurrent uploads of the same name.
	SkipDelete bool
}

// Source yields the items of one collection run in order.
// Implementations wrap a connector (mail, drive, upload buffer) and are not
// required to be safe for concurrent use.
type Source interface {
	// Service names the connector kind: "gmail", "drive", "file".
	Service() string

	// Next returns the next item, or io.EOF when the source is drained.
	Next(ctx context.Context) (*RawItem, error)
}

// SliceSource is a Source over an in-memory item list. Connectors that
// materialize their items up front, and tests, use it directly.
type SliceSource struct {
	service string
	items   []*RawItem
	pos     int
}

// NewSliceSource creates a source yielding the given items in order.
func NewSliceSource(service string, items ...*RawItem) *SliceSource {
	return &SliceSource{service: service, items: items}
}

// Service returns the connector kind.
func (s *SliceSource) Service() string { return s.service }

// Next returns the next item, or io.EOF when drained.
func (s *SliceSource) Next(ctx context.Context) (*RawItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.pos >= len(s.items) {
		return nil, io.EOF
	}
	item := s.items[s.pos]
	s.pos++
	return item, nil
}
