package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxbridge-econ/knowledge-base/ai"
	"github.com/oxbridge-econ/knowledge-base/ai/mock"
	"github.com/oxbridge-econ/knowledge-base/core"
)

func testChunks(contents ...string) []*core.Chunk {
	chunks := make([]*core.Chunk, len(contents))
	for i, c := range contents {
		chunks[i] = &core.Chunk{Id: "c-" + c, Content: c}
	}
	return chunks
}

// countingSleep replaces the filter's pause so tests observe backoff
// without waiting.
func countingSleep(f *Filter) *int {
	count := 0
	f.sleep = func(ctx context.Context, d time.Duration) error {
		count++
		return ctx.Err()
	}
	return &count
}

func TestFilter_EmptyTopicsKeepsEverything(t *testing.T) {
	classifier := mock.NewMockClassifier()
	f, err := NewFilter(classifier)
	require.NoError(t, err)

	chunks := testChunks("economics report", "cooking recipe")
	kept, err := f.Apply(context.Background(), chunks, nil)
	require.NoError(t, err)
	assert.Equal(t, chunks, kept)
	assert.Zero(t, classifier.CallCount(), "no topics means no classifier calls")
}

func TestFilter_DropsIrrelevantChunks(t *testing.T) {
	f, err := NewFilter(mock.NewMockClassifier())
	require.NoError(t, err)

	chunks := testChunks("inflation outlook for 2026", "grandma's soup recipe")
	kept, err := f.Apply(context.Background(), chunks, []string{"inflation"})
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "inflation outlook for 2026", kept[0].Content)
}

func TestFilter_ClassifierErrorFailsOpen(t *testing.T) {
	classifier := mock.NewMockClassifier()
	classifier.ClassifyFunc = func(ctx context.Context, text string, topics []string) (bool, error) {
		return false, errors.New("model exploded")
	}

	f, err := NewFilter(classifier)
	require.NoError(t, err)

	chunks := testChunks("anything")
	kept, err := f.Apply(context.Background(), chunks, []string{"topic"})
	require.NoError(t, err)
	assert.Equal(t, chunks, kept, "non-rate-limit errors keep the chunk")
	assert.Equal(t, 1, classifier.CallCount(), "no retry for permanent errors")
}

func TestFilter_RateLimitRetriesThenFailsOpen(t *testing.T) {
	classifier := mock.NewMockClassifier()
	classifier.ClassifyFunc = func(ctx context.Context, text string, topics []string) (bool, error) {
		return false, ai.ErrRateLimited
	}

	f, err := NewFilter(classifier, FilterWithBackoff(time.Minute))
	require.NoError(t, err)
	sleeps := countingSleep(f)

	chunks := testChunks("anything")
	kept, err := f.Apply(context.Background(), chunks, []string{"topic"})
	require.NoError(t, err)
	assert.Equal(t, chunks, kept, "exhausted retries keep the chunk")
	assert.Equal(t, 3, classifier.CallCount(), "three attempts per chunk")
	assert.Equal(t, 2, *sleeps, "backoff between attempts, not after the last")
}

func TestFilter_RateLimitThenSuccess(t *testing.T) {
	calls := 0
	classifier := mock.NewMockClassifier()
	classifier.ClassifyFunc = func(ctx context.Context, text string, topics []string) (bool, error) {
		calls++
		if calls == 1 {
			return false, ai.ErrRateLimited
		}
		return false, nil
	}

	f, err := NewFilter(classifier)
	require.NoError(t, err)
	countingSleep(f)

	kept, err := f.Apply(context.Background(), testChunks("anything"), []string{"topic"})
	require.NoError(t, err)
	assert.Empty(t, kept, "the retried verdict is honored")
}

func TestFilter_ContextCancellationPropagates(t *testing.T) {
	classifier := mock.NewMockClassifier()
	classifier.ClassifyFunc = func(ctx context.Context, text string, topics []string) (bool, error) {
		return false, ai.ErrRateLimited
	}

	f, err := NewFilter(classifier)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.sleep = ctxSleep

	_, err = f.Apply(ctx, testChunks("anything"), []string{"topic"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewFilter_RequiresClassifier(t *testing.T) {
	_, err := NewFilter(nil)
	assert.ErrorIs(t, err, ErrClassifierRequired)
}
