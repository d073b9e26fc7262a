package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxbridge-econ/knowledge-base/core"
)

func TestCSVExtractor_RowsBecomeItems(t *testing.T) {
	e := NewCSVExtractor()
	data := []byte("name,role\nAda,engineer\nGrace,admiral\n")

	items, err := e.Extract(context.Background(), "people.csv", data)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "name: Ada\nrole: engineer", items[0].Text)
	assert.Equal(t, "1", items[0].Metadata[core.MetaPage])
	assert.Equal(t, "name: Grace\nrole: admiral", items[1].Text)
	assert.Equal(t, "2", items[1].Metadata[core.MetaPage])
	assert.Equal(t, "people", items[0].Metadata[core.MetaTitle])
}

func TestCSVExtractor_RaggedRows(t *testing.T) {
	e := NewCSVExtractor()
	data := []byte("a,b\n1,2,3\n")

	items, err := e.Extract(context.Background(), "ragged.csv", data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	// The third field has no header and is rendered bare.
	assert.Equal(t, "a: 1\nb: 2\n3", items[0].Text)
}

func TestCSVExtractor_EmptyAndHeaderOnly(t *testing.T) {
	e := NewCSVExtractor()

	items, err := e.Extract(context.Background(), "empty.csv", []byte(""))
	require.NoError(t, err)
	assert.Empty(t, items)

	items, err = e.Extract(context.Background(), "header.csv", []byte("col1,col2\n"))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCSVExtractor_SkipsBlankRows(t *testing.T) {
	e := NewCSVExtractor()
	data := []byte("a,b\n,\nx,y\n")

	items, err := e.Extract(context.Background(), "blank.csv", data)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a: x\nb: y", items[0].Text)
	// Page numbers count source rows, including the skipped blank one.
	assert.Equal(t, "2", items[0].Metadata[core.MetaPage])
}
