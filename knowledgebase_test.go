package knowledgebase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxbridge-econ/knowledge-base/ai/mock"
	"github.com/oxbridge-econ/knowledge-base/core"
	"github.com/oxbridge-econ/knowledge-base/ingestion"
)

func newTestKnowledgeBase(t *testing.T) *KnowledgeBase {
	t.Helper()

	kb, err := New("", WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	t.Cleanup(func() { kb.Close() })
	return kb
}

func TestKnowledgeBase_IngestLifecycle(t *testing.T) {
	kb := newTestKnowledgeBase(t)
	ctx := context.Background()

	src := ingestion.NewSliceSource("file", &ingestion.RawItem{
		Name: "notes.txt",
		Data: []byte("The projection assumes stable energy prices."),
		Ref:  core.SourceRef{Service: "file", UserId: "user-1", SourceId: "notes.txt"},
	})

	task, err := kb.Ingest(ctx, "user-1", core.TaskKindManual, src, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, task.Id)

	require.Eventually(t, func() bool {
		status, err := kb.Status(ctx, task.Id)
		return err == nil && status.Terminal()
	}, 5*time.Second, 20*time.Millisecond)

	status, err := kb.Status(ctx, task.Id)
	require.NoError(t, err)
	assert.Equal(t, core.TaskStatusCompleted, status)

	stored, err := kb.ChunkStore().List(ctx, core.Filter{core.MetaUserId: "user-1"})
	require.NoError(t, err)
	assert.NotEmpty(t, stored)

	history, err := kb.Tasks(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Processed)
}

func TestKnowledgeBase_PipelineConstruction(t *testing.T) {
	kb := newTestKnowledgeBase(t)

	pipeline, err := kb.NewPipeline()
	require.NoError(t, err)
	assert.NotNil(t, pipeline)
}

func TestKnowledgeBase_StatusUnknownTask(t *testing.T) {
	kb := newTestKnowledgeBase(t)
	_, err := kb.Status(context.Background(), "missing")
	assert.Error(t, err)
}
