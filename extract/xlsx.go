package extract

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/oxbridge-econ/knowledge-base/core"
)

// XLSXExtractor reads Excel workbooks into one item per sheet. Rows are
// rendered tab-separated, one line per row.
type XLSXExtractor struct{}

// NewXLSXExtractor creates an xlsx extractor.
func NewXLSXExtractor() *XLSXExtractor {
	return &XLSXExtractor{}
}

// Extract returns one item per non-empty sheet, in workbook order.
func (e *XLSXExtractor) Extract(_ context.Context, name string, data []byte) ([]Item, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	title := titleFromName(name)
	var items []Item
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}

		text := renderSheet(rows)
		if text == "" {
			continue
		}
		items = append(items, Item{
			Text: sheet + "\n" + text,
			Metadata: map[string]string{
				core.MetaTitle: title,
				core.MetaPage:  strconv.Itoa(i + 1),
			},
		})
	}
	return items, nil
}

func renderSheet(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		line := strings.TrimRight(strings.Join(row, "\t"), "\t ")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}
