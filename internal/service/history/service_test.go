package history

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/daterange"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

// memoryLedger keeps events in insertion order and filters like the table query.
type memoryLedger struct {
	mu        sync.Mutex
	events    []models.ApprovalEvent
	appendErr error
	queryErr  error
	lastQuery models.HistoryQuery
}

func (m *memoryLedger) Append(_ context.Context, event models.ApprovalEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.events = append(m.events, event)
	return nil
}

func (m *memoryLedger) Query(_ context.Context, q models.HistoryQuery) ([]models.ApprovalEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = q
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	var out []models.ApprovalEvent
	for _, e := range m.events {
		if e.ApprovedAt.Before(q.From) || e.ApprovedAt.After(q.Until) {
			continue
		}
		if q.MarketID != "" && e.MarketID != q.MarketID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func fixedClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		t := times[i]
		if i < len(times)-1 {
			i++
		}
		return t
	}
}

func newTestService(ledger Ledger, times ...time.Time) *Service {
	svc := NewService(ledger, daterange.NewNormalizer(time.UTC), nil)
	svc.now = fixedClock(times...)
	return svc
}

func TestRecordThenQuery_ReturnsEventOnce(t *testing.T) {
	ledger := &memoryLedger{}
	acceptedAt := time.Date(2025, 1, 6, 14, 30, 0, 123456789, time.UTC)
	svc := newTestService(ledger, acceptedAt)
	ctx := context.Background()

	recorded, err := svc.Record(ctx, models.ApprovalEvent{
		MarketID:   "EAST",
		Company:    "Acme",
		OrderQty:   12,
		TotalCost:  150,
		ApprovedBy: "east_user",
		ApprovedAt: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
		Comments:   "rush",
	})
	require.NoError(t, err)
	assert.Equal(t, acceptedAt.Truncate(time.Microsecond), recorded.ApprovedAt)

	events, err := svc.QueryRange(ctx, "01/06/2025", "2025-01-06", "admin")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, recorded, events[0])
}

func TestRecordThenQuery_LastSecondOfTheDay(t *testing.T) {
	ledger := &memoryLedger{}
	svc := newTestService(ledger, time.Date(2025, 1, 6, 23, 59, 59, 500000000, time.UTC))
	ctx := context.Background()

	_, err := svc.Record(ctx, models.ApprovalEvent{MarketID: "EAST"})
	require.NoError(t, err)

	events, err := svc.QueryRange(ctx, "2025-01-06", "2025-01-06", "admin")
	require.NoError(t, err)
	assert.Len(t, events, 1)

	next, err := svc.QueryRange(ctx, "2025-01-07", "2025-01-07", "admin")
	require.NoError(t, err)
	assert.Empty(t, next)
}

func TestQuery_NewestFirstAndScoped(t *testing.T) {
	ledger := &memoryLedger{}
	svc := newTestService(ledger,
		time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 6, 11, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 7, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
	)
	ctx := context.Background()

	for _, market := range []string{"EAST", "WEST", "EAST", "EAST"} {
		_, err := svc.Record(ctx, models.ApprovalEvent{MarketID: market})
		require.NoError(t, err)
	}

	all, err := svc.QueryRange(ctx, "2025-01-06", "2025-01-07", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, time.Date(2025, 1, 7, 8, 0, 0, 0, time.UTC), all[0].ApprovedAt)
	assert.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), all[2].ApprovedAt)
	assert.Empty(t, ledger.lastQuery.MarketID)

	east, err := svc.QueryRange(ctx, "2025-01-06", "2025-01-07", " EAST ")
	require.NoError(t, err)
	require.Len(t, east, 2)
	for _, e := range east {
		assert.Equal(t, "EAST", e.MarketID)
	}
	assert.Equal(t, "EAST", ledger.lastQuery.MarketID)
	assert.Equal(t, time.Date(2025, 1, 7, 23, 59, 59, 999999999, time.UTC), ledger.lastQuery.Until)
}

func TestQuery_EmptyIsNotAnError(t *testing.T) {
	svc := newTestService(&memoryLedger{}, time.Now())

	events, err := svc.QueryRange(context.Background(), "2025-01-06", "2025-01-06", "admin")
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestRecord_Errors(t *testing.T) {
	t.Run("missing market", func(t *testing.T) {
		ledger := &memoryLedger{}
		_, err := newTestService(ledger, time.Now()).Record(context.Background(), models.ApprovalEvent{MarketID: "  "})
		assert.ErrorIs(t, err, models.ErrValidation)
		assert.Empty(t, ledger.events)
	})

	t.Run("append failure", func(t *testing.T) {
		boom := errors.New("disk full")
		_, err := newTestService(&memoryLedger{appendErr: boom}, time.Now()).Record(context.Background(), models.ApprovalEvent{MarketID: "EAST"})
		assert.ErrorIs(t, err, models.ErrWriteFailure)
		assert.ErrorIs(t, err, boom)
	})
}

func TestQuery_Errors(t *testing.T) {
	svc := newTestService(&memoryLedger{queryErr: errors.New("timeout")}, time.Now())

	_, err := svc.QueryRange(context.Background(), "2025-01-06", "2025-01-06", "admin")
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)

	_, err = svc.QueryRange(context.Background(), "", "2025-01-06", "admin")
	assert.ErrorIs(t, err, daterange.ErrMissingField)
}

func TestRecord_ConcurrentWritersAllLand(t *testing.T) {
	ledger := &memoryLedger{}
	svc := NewService(ledger, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Record(context.Background(), models.ApprovalEvent{MarketID: "EAST"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, ledger.events, 20)
}
