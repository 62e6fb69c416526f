// Package export renders snapshots and approval history as spreadsheet downloads.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

const (
	SnapshotSheet = "Inventory_Snapshot"
	HistorySheet  = "Approval_History"

	// ContentType is the MIME type of every artifact.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	fileDateLayout   = "2006-01-02"
	approvedAtLayout = "2006-01-02 15:04:05"
	defaultSheet     = "Sheet1"
)

// Artifact is a finished workbook ready to send.
type Artifact struct {
	Filename string
	Content  []byte
}

// Service builds single-sheet workbooks in canonical column order.
type Service struct {
	loc    *time.Location
	now    func() time.Time
	logger *zap.Logger
}

// NewService returns an exporter that stamps filenames and times in loc.
func NewService(loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{loc: loc, now: time.Now, logger: logger}
}

// Snapshot writes the header contract and one line per record.
func (s *Service) Snapshot(snap models.Snapshot) (Artifact, error) {
	header := make([]any, len(snap.Header))
	for i, h := range snap.Header {
		header[i] = h
	}
	if len(header) == 0 {
		for _, h := range models.Header() {
			header = append(header, h)
		}
	}

	lines := make([][]any, len(snap.Rows))
	for i, row := range snap.Rows {
		lines[i] = row.Cells()
	}

	return s.build(SnapshotSheet, "inventory_snapshot", header, lines)
}

// History writes the canonical ledger columns, approved_at in the export zone.
func (s *Service) History(events []models.ApprovalEvent) (Artifact, error) {
	names := models.HistoryHeader()
	header := make([]any, len(names))
	for i, h := range names {
		header[i] = h
	}

	lines := make([][]any, len(events))
	for i, e := range events {
		lines[i] = s.HistoryCells(e)
	}

	return s.build(HistorySheet, "approval_history", header, lines)
}

// HistoryCells renders one event as spreadsheet cells.
func (s *Service) HistoryCells(e models.ApprovalEvent) []any {
	cells := e.Cells()
	for i, col := range models.LedgerColumns {
		if col.Canonical == models.EventApprovedAt {
			if e.ApprovedAt.IsZero() {
				cells[i] = ""
			} else {
				cells[i] = e.ApprovedAt.In(s.loc).Format(approvedAtLayout)
			}
		}
	}
	return cells
}

func (s *Service) build(sheet, prefix string, header []any, lines [][]any) (Artifact, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("close workbook", zap.Error(err))
		}
	}()

	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return Artifact{}, fmt.Errorf("name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return Artifact{}, fmt.Errorf("write header: %w", err)
	}
	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return Artifact{}, err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return Artifact{}, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return Artifact{}, fmt.Errorf("encode workbook: %w", err)
	}

	name := fmt.Sprintf("%s_%s.xlsx", prefix, s.now().In(s.loc).Format(fileDateLayout))
	s.logger.Debug("workbook built", zap.String("file", name), zap.Int("rows", len(lines)))
	return Artifact{Filename: name, Content: buf.Bytes()}, nil
}
