package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/oxbridge-econ/knowledge-base/ai"
	"github.com/oxbridge-econ/knowledge-base/core"
)

// ImageExtractor sends standalone images (scans, screenshots, photographed
// documents) to the vision OCR service.
type ImageExtractor struct {
	vision ai.VisionExtractor
}

// NewImageExtractor creates an image extractor backed by the given vision
// service.
func NewImageExtractor(vision ai.VisionExtractor) *ImageExtractor {
	return &ImageExtractor{vision: vision}
}

// Extract runs OCR over the image bytes and returns the recognized text as
// one item.
func (e *ImageExtractor) Extract(ctx context.Context, name string, data []byte) ([]Item, error) {
	text, err := e.vision.ExtractText(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("ocr %q: %w", name, err)
	}

	text = strings.TrimSpace(text)
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
