package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadSchedule(t *testing.T) {
	_, err := New(context.Background(), "not a cron", time.UTC, func(context.Context) {}, nil)
	assert.Error(t, err)
}

func TestNewRejectsNilJob(t *testing.T) {
	_, err := New(context.Background(), "* * * * *", time.UTC, nil, nil)
	assert.Error(t, err)
}

func TestNextAfterUsesLocation(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	s, err := New(context.Background(), "50 7,18 * * *", seoul, func(context.Context) {}, nil)
	require.NoError(t, err)

	from := time.Date(2025, 1, 6, 8, 0, 0, 0, seoul)
	assert.True(t, time.Date(2025, 1, 6, 18, 50, 0, 0, seoul).Equal(s.NextAfter(from)))

	from = time.Date(2025, 1, 6, 19, 0, 0, 0, seoul)
	assert.True(t, time.Date(2025, 1, 7, 7, 50, 0, 0, seoul).Equal(s.NextAfter(from)))
}

func TestStartStop(t *testing.T) {
	s, err := New(context.Background(), "@every 1h", time.UTC, func(context.Context) {}, nil)
	require.NoError(t, err)

	s.Start()
	assert.False(t, s.Next().IsZero())
	s.Stop()
}
