package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

func readSheet(t *testing.T, content []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{sheet}, f.GetSheetList())

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func newTestService() *Service {
	svc := NewService(time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 4, 23, 0, 0, 0, time.UTC) }
	return svc
}

func TestSnapshot(t *testing.T) {
	snap := models.Snapshot{
		Header: models.Header(),
		Rows: []models.InventoryRecord{
			{Date: models.CalendarDate{Year: 2025, Month: time.January, Day: 6}, MarketID: "EAST", ItemCode: "SKU-1", InStock: 12, UnitCost: 2.5},
		},
	}

	artifact, err := newTestService().Snapshot(snap)
	require.NoError(t, err)
	assert.Equal(t, "inventory_snapshot_2025-03-04.xlsx", artifact.Filename)

	rows := readSheet(t, artifact.Content, SnapshotSheet)
	require.Len(t, rows, 2)
	assert.Equal(t, models.Header(), rows[0])
	assert.Equal(t, "01/06/2025", rows[1][0])
	assert.Equal(t, "EAST", rows[1][1])
	assert.Equal(t, "SKU-1", rows[1][4])
	assert.Equal(t, "12", rows[1][7])
	assert.Equal(t, "2.5", rows[1][10])
}

func TestSnapshot_EmptyStillHasHeader(t *testing.T) {
	artifact, err := newTestService().Snapshot(models.Snapshot{})
	require.NoError(t, err)

	rows := readSheet(t, artifact.Content, SnapshotSheet)
	require.Len(t, rows, 1)
	assert.Equal(t, models.Header(), rows[0])
}

func TestHistory(t *testing.T) {
	events := []models.ApprovalEvent{
		{MarketID: "EAST", Company: "Acme", OrderQty: 4, TotalCost: 10, ApprovedBy: "east_user", ApprovedAt: time.Date(2025, 1, 6, 14, 30, 5, 0, time.UTC), Comments: "rush"},
		{MarketID: "WEST", ApprovedAt: time.Date(2025, 1, 5, 9, 0, 0, 0, time.UTC)},
	}

	artifact, err := newTestService().History(events)
	require.NoError(t, err)
	assert.Equal(t, "approval_history_2025-03-04.xlsx", artifact.Filename)

	rows := readSheet(t, artifact.Content, HistorySheet)
	require.Len(t, rows, 3)
	assert.Equal(t, models.HistoryHeader(), rows[0])
	assert.Equal(t, "EAST", rows[1][0])
	assert.Equal(t, "4", rows[1][6])
	assert.Equal(t, "2025-01-06 14:30:05", rows[1][10])
	assert.Equal(t, "rush", rows[1][11])
	assert.Equal(t, "WEST", rows[2][0])
}

func TestFilenameUsesExportZone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	svc := NewService(loc, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 4, 23, 0, 0, 0, time.UTC) }

	artifact, err := svc.History(nil)
	require.NoError(t, err)
	assert.Equal(t, "approval_history_2025-03-05.xlsx", artifact.Filename)
}
