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


package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/oxbridge-econ/knowledge-base/ai"
)

// Item is one logical unit of extracted text. Multi-part inputs produce
// several items; metadata distinguishes them (page, row, event seed).
type Item struct {
	Text     string
	Metadata map[string]string
}

// Extractor converts the raw bytes of one file into text items.
// name is the original filename, used for titles and format hints.
type Extractor interface {
	Extract(ctx context.Context, name string, data []byte) ([]Item, error)
}

// Dispatcher routes files to format-specific extractors.
// Lookup tries the file extension first, then the declared MIME type.
type Dispatcher struct {
	registry map[string]Extractor
	logger   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher with the default format registry.
// The vision service is required: PDFs and images route image content
// through it.
func NewDispatcher(vision ai.VisionExtractor, opts ...Option) (*Dispatcher, error) {
	if vision == nil {
		return nil, ErrVisionRequired
	}

	d := &Dispatcher{
		registry: make(map[string]Extractor),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("component", "extract")

	text := NewTextExtractor()
	pdf := NewPDFExtractor(vision, PDFWithLogger(d.logger))
	img := NewImageExtractor(vision)

	d.Register(pdf, "pdf", "application/pdf")
	d.Register(img, "png", "jpg", "jpeg", "image/png", "image/jpeg")
	d.Register(NewDocxExtractor(), "docx", "doc",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/msword")
	d.Register(text, "txt", "md", "text/plain", "text/markdown")
	d.Register(NewCSVExtractor(), "csv", "text/csv")
	d.Register(NewXLSXExtractor(), "xlsx",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	d.Register(NewHTMLExtractor(), "html", "htm", "text/html", "application/xhtml+xml")
	d.Register(NewICSExtractor(), "ics", "text/calendar")
	d.Register(NewEMLExtractor(), "eml", "message/rfc822")

	return d, nil
}

// Register binds an extractor to one or more keys. A key is either a bare
// file extension ("pdf") or a MIME type ("application/pdf"). Later
// registrations overwrite earlier ones.
func (d *Dispatcher) Register(e Extractor, keys ...string) {
	for _, key := range keys {
		d.registry[normalizeKey(key)] = e
	}
}

// Lookup resolves an extractor for a filename and declared media type.
// The extension wins over the MIME type when both are registered.
func (d *Dispatcher) Lookup(name, mediaType string) (Extractor, error) {
	if ext := normalizeKey(filepath.Ext(name)); ext != "" {
		if e, ok := d.registry[ext]; ok {
			return e, nil
		}
	}
	if mt := normalizeKey(mediaType); mt != "" {
		if e, ok := d.registry[mt]; ok {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedMediaType, name, mediaType)
}

// Extract resolves the extractor for the given file and runs it.
func (d *Dispatcher) Extract(ctx context.Context, name, mediaType string, data []byte) ([]Item, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrEmptyInput, name)
	}

	e, err := d.Lookup(name, mediaType)
	if err != nil {
		return nil, err
	}

	items, err := e.Extract(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrExtraction, name, err)
	}

	d.logger.Debug("extracted", "name", name, "items", len(items))
	return items, nil
}

// normalizeKey lowercases a registry key and strips a leading dot and any
// MIME parameters ("text/html; charset=utf-8" -> "text/html").
func normalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.TrimPrefix(key, ".")
	if i := strings.IndexByte(key, ';'); i >= 0 {
		key = strings.TrimSpace(key[:i])
	}
	return key
}
