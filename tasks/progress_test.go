package tasks

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 10, 5)

	p.Start()
	p.Increment(3)
	assert.Empty(t, buf.String(), "below interval, nothing reported")

	p.Increment(2)
	assert.Contains(t, buf.String(), "5/10")
	assert.Contains(t, buf.String(), "50.0%")

	p.Finish()
	assert.Contains(t, buf.String(), "10/10")
}

func TestProgressTracker_UnknownTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 0, 1)

	p.Start()
	p.Increment(1)
	p.Increment(1)
	out := buf.String()
	assert.Contains(t, out, "Progress: 2")
	assert.NotContains(t, out, "%")
}

func TestProgressTracker_IgnoredBeforeStart(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 10, 1)

	p.Increment(5)
	p.Finish()
	assert.Empty(t, buf.String())
	assert.Zero(t, p.Elapsed())
}

func TestProgressTracker_CapsAtTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressTracker(&buf, 3, 1)

	p.Start()
	p.Increment(10)
	assert.Contains(t, buf.String(), "3/3")
}
