package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/oxbridge-econ/knowledge-base/core"
)

func buildWorkbook(t *testing.T) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "region"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "revenue"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "EMEA"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 1200))

	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "A1", "preliminary figures"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestXLSXExtractor_OneItemPerSheet(t *testing.T) {
	e := NewXLSXExtractor()
	data := buildWorkbook(t)

	items, err := e.Extract(context.Background(), "q1_figures.xlsx", data)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Contains(t, items[0].Text, "Sheet1")
	assert.Contains(t, items[0].Text, "region\trevenue")
	assert.Contains(t, items[0].Text, "EMEA\t1200")
	assert.Equal(t, "1", items[0].Metadata[core.MetaPage])
	assert.Equal(t, "q1 figures", items[0].Metadata[core.MetaTitle])

	assert.Contains(t, items[1].Text, "Notes")
	assert.Contains(t, items[1].Text, "preliminary figures")
	assert.Equal(t, "2", items[1].Metadata[core.MetaPage])
}

func TestXLSXExtractor_InvalidWorkbook(t *testing.T) {
	e := NewXLSXExtractor()
	items, err := e.Extract(context.Background(), "broken.xlsx", []byte("not a workbook"))
	assert.Error(t, err)
	assert.Nil(t, items)
}
