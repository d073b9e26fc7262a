// Package extract converts heterogeneous source documents into plain text.
//
// The Dispatcher maps a file's extension or MIME type to a format-specific
// Extractor. Each extractor turns raw bytes into one or more Items carrying
// text and metadata; multi-part formats (PDF pages, calendar events, CSV
// rows) yield one Item per part so downstream chunk ids stay stable per part.
//
// Image-bearing content (standalone images and image-dominant PDF pages) is
// routed through the vision OCR service.
package extract
