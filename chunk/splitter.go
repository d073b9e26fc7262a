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


package chunk

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/oxbridge-econ/knowledge-base/core"
)

const (
	// DefaultChunkSize is the maximum chunk length in tokens.
	DefaultChunkSize = 2000
	// DefaultChunkOverlap is the token overlap between consecutive chunks.
	DefaultChunkOverlap = 200
	// DefaultEncoding is the tokenizer encoding of the embedding models.
	DefaultEncoding = "cl100k_base"
)

// defaultSeparators is ordered from coarse to fine. The literal "\\n" entry
// catches text whose newlines arrived escaped from upstream JSON transport.
var defaultSeparators = []string{"\n\n", "\n", "\t", "\\n", "\r\n\r\n", " ", ".", ","}

// Splitter turns one extracted document into token-bounded chunks with
// deterministic ids.
type Splitter struct {
	splitter  textsplitter.RecursiveCharacter
	tokenizer *tiktoken.Tiktoken
}

type splitterConfig struct {
	chunkSize    int
	chunkOverlap int
	encoding     string
}

// Option configures a Splitter.
type Option func(*splitterConfig)

// WithChunkSize sets the maximum chunk size in tokens.
func WithChunkSize(size int) Option {
	return func(c *splitterConfig) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithChunkOverlap sets the token overlap between consecutive chunks.
func WithChunkOverlap(overlap int) Option {
	return func(c *splitterConfig) {
		if overlap >= 0 {
			c.chunkOverlap = overlap
		}
	}
}

// WithEncoding sets the tokenizer encoding used to measure chunk sizes.
func WithEncoding(encoding string) Option {
	return func(c *splitterConfig) {
		if encoding != "" {
			c.encoding = encoding
		}
	}
}

// NewSplitter creates a splitter. The tokenizer encoding is loaded once and
// shared by all Split calls.
func NewSplitter(opts ...Option) (*Splitter, error) {
	cfg := splitterConfig{
		chunkSize:    DefaultChunkSize,
		chunkOverlap: DefaultChunkOverlap,
		encoding:     DefaultEncoding,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	tokenizer, err := tiktoken.GetEncoding(cfg.encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", cfg.encoding, err)
	}

	s := &Splitter{tokenizer: tokenizer}
	s.splitter = textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.chunkSize),
		textsplitter.WithChunkOverlap(cfg.chunkOverlap),
		textsplitter.WithSeparators(defaultSeparators),
		textsplitter.WithLenFunc(s.TokenCount),
	)
	return s, nil
}

// TokenCount returns the number of tokens in text under the splitter's
// encoding.
func (s *Splitter) TokenCount(text string) int {
	return len(s.tokenizer.Encode(text, nil, nil))
}

// Split cuts the document into ordered chunks. Each chunk id derives from
// the ref's base hash, the document's page marker (when present) and the
// 0-based chunk index, so re-splitting identical content yields identical
// ids. Chunk metadata inherits the document metadata plus the ref's dedup
// fields and the chunk index.
func (s *Splitter) Split(ref core.SourceRef, doc *core.SourceDocument) ([]*core.Chunk, error) {
	if doc == nil || doc.Content == "" {
		return nil, nil
	}

	parts, err := s.splitter.SplitText(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("split text: %w", err)
	}

	base := ref.BaseHash()
	page := doc.Metadata[core.MetaPage]

	chunks := make([]*core.Chunk, 0, len(parts))
	for i, part := range parts {
		meta := make(map[string]string, len(doc.Metadata)+4)
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		meta[core.MetaService] = ref.Service
		meta[core.MetaUserId] = ref.UserId
		meta[core.MetaSourceId] = ref.SourceId
		meta[core.MetaChunkIndex] = fmt.Sprintf("%d", i)

		chunks = append(chunks, &core.Chunk{
			Id:       core.ChunkID(base, page, i),
			Content:  part,
			Metadata: meta,
		})
	}
	return chunks, nil
}
