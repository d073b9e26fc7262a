package extract

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/oxbridge-econ/knowledge-base/core"
)

// CSVExtractor converts a CSV file into one item per data row.
// Each row is rendered as "header: value" lines so column meaning survives
// chunking and embedding. The first record is treated as the header.
type CSVExtractor struct{}

// NewCSVExtractor creates a CSV extractor.
func NewCSVExtractor() *CSVExtractor {
	return &CSVExtractor{}
}

// Extract parses the CSV content. Rows with a field count different from
// the header are rendered positionally.
func (e *CSVExtractor) Extract(_ context.Context, name string, data []byte) ([]Item, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	title := titleFromName(name)
	var items []Item
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", row, err)
		}

		text := renderRow(header, record)
		if text == "" {
			continue
		}
		items = append(items, Item{
			Text: text,
			Metadata: map[string]string{
				core.MetaTitle: title,
				core.MetaPage:  strconv.Itoa(row),
			},
		})
	}
	return items, nil
}

func renderRow(header, record []string) string {
	var b strings.Builder
	for i, field := range record {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		if i < len(header) && strings.TrimSpace(header[i]) != "" {
			b.WriteString(strings.TrimSpace(header[i]))
			b.WriteString(": ")
		}
		b.WriteString(field)
	}
	return b.String()
}
