package extract

import (
	"context"
	"strings"

	"github.com/oxbridge-econ/knowledge-base/core"
)

// TextExtractor handles plain text and markdown files as a single item.
type TextExtractor struct{}

// NewTextExtractor creates a plain text extractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract returns the file content as one item.
func (e *TextExtractor) Extract(_ context.Context, name string, data []byte) ([]Item, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	return []Item{{
		Text: text,
		Metadata: map[string]string{
			core.MetaTitle: titleFromName(name),
		},
	}}, nil
}

// titleFromName derives a display title from a filename: the base name
// without extension, with separators replaced by spaces.
func titleFromName(name string) string {
	base := name
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.TrimSpace(base)
}
