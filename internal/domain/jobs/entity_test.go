package jobs

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress(t *testing.T) {
	assert.Equal(t, 0, Progress(0, 25))
	assert.Equal(t, 4, Progress(1, 25))
	assert.Equal(t, 33, Progress(1, 3))
	assert.Equal(t, 100, Progress(30, 25))
	assert.Equal(t, 0, Progress(3, 0))
}

func TestAdvance(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	j := &OptimizationJob{ItemsTotal: 3, Status: StatusQueued}

	j.Advance(1, now)
	assert.Equal(t, StatusProcessing, j.Status)
	assert.Equal(t, 33, j.Progress)
	assert.Nil(t, j.CompletedAt)

	j.Advance(5, now)
	assert.Equal(t, StatusCompleted, j.Status)
	assert.Equal(t, 3, j.ItemsProcessed)
	assert.Equal(t, 100, j.Progress)
	require.NotNil(t, j.CompletedAt)
}

func TestFailKeepsProgress(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	j := &OptimizationJob{ItemsTotal: 4}
	j.Advance(2, now)
	j.Fail(errors.New("remote down"), now)
	assert.Equal(t, StatusFailed, j.Status)
	assert.Equal(t, 50, j.Progress)
	assert.Equal(t, "remote down", j.ErrorMessage)
}

func TestComplete(t *testing.T) {
	j := &OptimizationJob{ItemsTotal: 7}
	j.Complete([]byte(`{"ok":true}`), time.Now())
	assert.Equal(t, 7, j.ItemsProcessed)
	assert.Equal(t, 100, j.Progress)
	assert.JSONEq(t, `{"ok":true}`, string(j.Results))
}
