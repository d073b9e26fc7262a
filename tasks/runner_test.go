package tasks

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxbridge-econ/knowledge-base/core"
)

func TestRunner_ManualJobsRunImmediately(t *testing.T) {
	r, err := NewRunner()
	require.NoError(t, err)
	defer r.Close()

	var done sync.WaitGroup
	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		done.Add(1)
		require.NoError(t, r.Submit(core.TaskKindManual, func() {
			ran.Add(1)
			done.Done()
		}))
	}
	done.Wait()
	assert.Equal(t, int32(5), ran.Load())
}

func TestRunner_ScheduledJobsBounded(t *testing.T) {
	r, err := NewRunner(RunnerWithWorkers(2))
	require.NoError(t, err)
	defer r.Close()

	var concurrent, peak atomic.Int32
	var done sync.WaitGroup
	for i := 0; i < 6; i++ {
		done.Add(1)
		require.NoError(t, r.Submit(core.TaskKindScheduled, func() {
			cur := concurrent.Add(1)
			for {
				p := peak.Load()
				if cur <= p || peak.CompareAndSwap(p, cur) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			concurrent.Add(-1)
			done.Done()
		}))
	}
	done.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(2), "pool must bound scheduled concurrency")
}

func TestRunner_WaitingReportsQueueDepth(t *testing.T) {
	r, err := NewRunner(RunnerWithWorkers(1))
	require.NoError(t, err)
	defer r.Close()

	block := make(chan struct{})
	var done sync.WaitGroup
	done.Add(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Submit(core.TaskKindScheduled, func() {
			<-block
			done.Done()
		}))
	}

	// One job holds the worker; the rest queue behind it.
	assert.Eventually(t, func() bool { return r.Waiting() == 2 },
		time.Second, 10*time.Millisecond)

	close(block)
	done.Wait()
}

func TestRunner_SubmitAfterClose(t *testing.T) {
	r, err := NewRunner()
	require.NoError(t, err)
	r.Close()

	err = r.Submit(core.TaskKindManual, func() {})
	assert.ErrorIs(t, err, ErrRunnerClosed)
}

func TestRunner_NilJob(t *testing.T) {
	r, err := NewRunner()
	require.NoError(t, err)
	defer r.Close()

	assert.ErrorIs(t, r.Submit(core.TaskKindManual, nil), ErrJobRequired)
}

func TestRunner_CloseWaitsForManualJobs(t *testing.T) {
	r, err := NewRunner()
	require.NoError(t, err)

	var finished atomic.Bool
	require.NoError(t, r.Submit(core.TaskKindManual, func() {
		time.Sleep(30 * time.Millisecond)
		finished.Store(true)
	}))

	r.Close()
	assert.True(t, finished.Load(), "Close must wait for in-flight jobs")
}
