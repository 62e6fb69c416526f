package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/daterange"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/service/export"
)

type fakeSheet struct {
	header    [][]interface{}
	appended  [][]interface{}
	appendErr error
	ranges    []string
}

func (f *fakeSheet) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	f.ranges = append(f.ranges, sheetRange)
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, rows...)
	return nil
}

func (f *fakeSheet) ReadRange(context.Context, string) ([][]interface{}, error) {
	return f.header, nil
}

type fakeHistory struct {
	events     []models.ApprovalEvent
	err        error
	lastWindow daterange.Window
	lastRole   string
}

func (f *fakeHistory) Query(_ context.Context, window daterange.Window, role string) ([]models.ApprovalEvent, error) {
	f.lastWindow = window
	f.lastRole = role
	return f.events, f.err
}

var day = models.CalendarDate{Year: 2025, Month: time.January, Day: 6}

func newestFirst() []models.ApprovalEvent {
	return []models.ApprovalEvent{
		{MarketID: "WEST", OrderQty: 2, TotalCost: 10.10, ApprovedAt: time.Date(2025, 1, 6, 15, 0, 0, 0, time.UTC)},
		{MarketID: "EAST", OrderQty: 5, TotalCost: 20.20, ApprovedAt: time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)},
	}
}

func TestPushDay_WritesHeaderOnceAndOldestFirst(t *testing.T) {
	sheet := &fakeSheet{}
	history := &fakeHistory{events: newestFirst()}
	svc := NewService(sheet, history, export.NewService(time.UTC, nil), daterange.NewNormalizer(time.UTC), nil)

	n, err := svc.PushDay(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "admin", history.lastRole)
	assert.Equal(t, time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), history.lastWindow.Start)
	assert.Equal(t, time.Date(2025, 1, 6, 23, 59, 59, 999999999, time.UTC), history.lastWindow.EndInclusive)

	require.Len(t, sheet.appended, 3)
	assert.Equal(t, "marketid", sheet.appended[0][0])
	assert.Equal(t, "EAST", sheet.appended[1][0])
	assert.Equal(t, "WEST", sheet.appended[2][0])
	assert.Equal(t, []string{historyDataRange}, sheet.ranges)

	sheet.header = [][]interface{}{{"marketid"}}
	sheet.appended = nil
	_, err = svc.PushDay(context.Background(), day)
	require.NoError(t, err)
	assert.Len(t, sheet.appended, 2)
}

func TestPushDay_NothingToPush(t *testing.T) {
	sheet := &fakeSheet{}
	svc := NewService(sheet, &fakeHistory{}, export.NewService(nil, nil), nil, nil)

	n, err := svc.PushDay(context.Background(), day)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, sheet.ranges)
}

func TestPushDay_Errors(t *testing.T) {
	boom := errors.New("quota exceeded")

	_, err := NewService(&fakeSheet{appendErr: boom}, &fakeHistory{events: newestFirst()}, export.NewService(nil, nil), nil, nil).
		PushDay(context.Background(), day)
	assert.ErrorIs(t, err, boom)

	_, err = NewService(&fakeSheet{}, &fakeHistory{err: boom}, export.NewService(nil, nil), nil, nil).
		PushDay(context.Background(), day)
	assert.ErrorIs(t, err, boom)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "Approvals (2025-01-06): none recorded.", Summarize(day, nil))
	assert.Equal(t,
		"Approvals (2025-01-06): 2 orders, 7 units, total cost 30.30 across 2 markets [EAST=1, WEST=1].",
		Summarize(day, newestFirst()))
}
