package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegister(t *testing.T) {
	s := NewScheduler(time.UTC, nil)

	require.NoError(t, s.Register("0 1 * * *", "history-push", func(context.Context) error { return nil }))
	require.NoError(t, s.Register("@every 1h", "market-refresh", func(context.Context) error { return nil }))
	assert.Len(t, s.cron.Entries(), 2)

	err := s.Register("not a schedule", "broken", func(context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestWrap_LogsOutcome(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	s := NewScheduler(nil, zap.New(core))

	var gotDeadline bool
	s.wrap("ok", func(ctx context.Context) error {
		_, gotDeadline = ctx.Deadline()
		return nil
	})()
	assert.True(t, gotDeadline)
	assert.Equal(t, 1, logs.FilterMessage("job finished").Len())

	s.wrap("bad", func(context.Context) error { return errors.New("sheet unavailable") })()
	failed := logs.FilterMessage("job failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "bad", failed[0].ContextMap()["job"])
}

func TestYesterday(t *testing.T) {
	loc := time.FixedZone("UTC-6", -6*60*60)
	s := NewScheduler(loc, nil)

	// 03:00 UTC on the 7th is still the 6th in UTC-6.
	got := s.Yesterday(time.Date(2025, 1, 7, 3, 0, 0, 0, time.UTC))
	y, m, d := got.Date()
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.January, m)
	assert.Equal(t, 5, d)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(time.UTC, nil)
	s.Start()
	s.Stop()
}
