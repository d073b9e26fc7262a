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
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/oxbridge-econ/knowledge-base/ai"
	"github.com/oxbridge-econ/knowledge-base/core"

	_ "image/jpeg" // embedded image formats for DecodeConfig
)

// DefaultImageDominanceThreshold is the ratio of largest embedded image
// area to page area above which a page is treated as image content and
// routed through OCR instead of native text extraction.
const DefaultImageDominanceThreshold = 0.7

// PDFExtractor reads PDFs page by page. Pages dominated by an embedded
// image (scans, figures occupying most of the page) are rasterized and sent
// to the vision OCR service; everything else uses the native text layer.
type PDFExtractor struct {
	vision    ai.VisionExtractor
	threshold float64
	logger    *slog.Logger
}

// PDFOption configures a PDFExtractor.
type PDFOption func(*PDFExtractor)

// PDFWithThreshold overrides the image dominance threshold.
// Values outside (0, 1] keep the default.
func PDFWithThreshold(threshold float64) PDFOption {
	return func(e *PDFExtractor) {
		if threshold > 0 && threshold <= 1 {
			e.threshold = threshold
		}
	}
}

// PDFWithLogger sets a custom logger. Default is slog.Default().
func PDFWithLogger(logger *slog.Logger) PDFOption {
	return func(e *PDFExtractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewPDFExtractor creates a PDF extractor backed by the given vision
// service.
func NewPDFExtractor(vision ai.VisionExtractor, opts ...PDFOption) *PDFExtractor {
	e := &PDFExtractor{
		vision:    vision,
		threshold: DefaultImageDominanceThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns one item per non-empty page, each carrying its 1-based
// page number.
func (e *PDFExtractor) Extract(ctx context.Context, name string, data []byte) ([]Item, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer doc.Close()

	// Page geometry for the dominance test. When the inventory fails the
	// whole document falls back to native text extraction.
	pageAreas, areaErr := pageAreas(data)
	if areaErr != nil {
		e.logger.Warn("pdf image inventory unavailable, using text layer only",
			"name", name, "error", areaErr)
	}

	title := titleFromName(name)
	var items []Item
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		var text string

		if areaErr == nil && e.imageDominant(data, pageNum+1, pageAreas) {
			text, err = e.ocrPage(ctx, doc, pageNum)
			if err != nil {
				return nil, fmt.Errorf("ocr page %d: %w", pageNum+1, err)
			}
		} else {
			text, err = doc.Text(pageNum)
			if err != nil {
				return nil, fmt.Errorf("extract page %d: %w", pageNum+1, err)
			}
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		items = append(items, Item{
			Text: text,
			Metadata: map[string]string{
				core.MetaTitle: title,
				core.MetaPage:  strconv.Itoa(pageNum + 1),
			},
		})
	}
	return items, nil
}

// ocrPage rasterizes one page and runs it through the vision service.
func (e *PDFExtractor) ocrPage(ctx context.Context, doc *fitz.Document, pageNum int) (string, error) {
	img, err := doc.Image(pageNum)
	if err != nil {
		return "", fmt.Errorf("rasterize: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode raster: %w", err)
	}

	return e.vision.ExtractText(ctx, buf.Bytes())
}

// imageDominant inventories the embedded images of one 1-based page and
// compares the largest against the page area. Undecodable images are
// skipped.
func (e *PDFExtractor) imageDominant(data []byte, pageNum int, pageAreas []float64) bool {
	if pageNum > len(pageAreas) {
		return false
	}

	pages, err := api.ExtractImagesRaw(bytes.NewReader(data), []string{strconv.Itoa(pageNum)}, nil)
	if err != nil {
		e.logger.Debug("image inventory failed", "page", pageNum, "error", err)
		return false
	}

	largest := 0.0
	for _, pageImages := range pages {
		for _, img := range pageImages {
			cfg, _, err := image.DecodeConfig(img)
			if err != nil {
				continue
			}
			if area := float64(cfg.Width) * float64(cfg.Height); area > largest {
				largest = area
			}
		}
	}

	return isImageDominant(largest, pageAreas[pageNum-1], e.threshold)
}

// isImageDominant reports whether an image of the given pixel area covers
// at least threshold of a page. The page area is in points; one point maps
// to one pixel at the 72 dpi reference resolution.
func isImageDominant(imageArea, pageArea, threshold float64) bool {
	if pageArea <= 0 || imageArea <= 0 {
		return false
	}
	return imageArea/pageArea >= threshold
}

// pageAreas returns the area of every page in points squared, in order.
func pageAreas(data []byte) ([]float64, error) {
	dims, err := api.PageDims(bytes.NewReader(data), nil)
	if err != nil {
		return nil, err
	}
	areas := make([]float64, len(dims))
	for i, dim := range dims {
		areas[i] = dim.Width * dim.Height
	}
	return areas, nil
}
