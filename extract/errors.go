package extract

import "errors"

var (
	// ErrUnsupportedMediaType is returned when no extractor is registered
	// for a file's extension or MIME type. Recoverable: the caller skips
	// the item and continues.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrExtraction is returned when a registered extractor fails to parse
	// its input. Recoverable per item.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmptyInput is returned when the input byte slice is empty.
	ErrEmptyInput = errors.New("empty input")

	// ErrVisionRequired is returned when an extractor that depends on the
	// vision OCR service is constructed without one.
	ErrVisionRequired = errors.New("vision extractor required")
)
