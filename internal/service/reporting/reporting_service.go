package reporting

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/access"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/daterange"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
	repo "github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/repository/sheets"
)

const (
	historyDataRange   = "Approval_History!A:L"
	historyHeaderRange = "Approval_History!A1:L1"
)

// HistorySource reads approvals for a window.
type HistorySource interface {
	Query(ctx context.Context, window daterange.Window, role string) ([]models.ApprovalEvent, error)
}

// CellRenderer turns an event into spreadsheet cells.
type CellRenderer interface {
	HistoryCells(e models.ApprovalEvent) []any
}

// Service copies each day's approvals into the shared spreadsheet.
type Service struct {
	repo       repo.Repository
	history    HistorySource
	cells      CellRenderer
	normalizer *daterange.Normalizer
	logger     *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(repository repo.Repository, history HistorySource, cells CellRenderer, normalizer *daterange.Normalizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if normalizer == nil {
		normalizer = daterange.NewNormalizer(nil)
	}
	return &Service{repo: repository, history: history, cells: cells, normalizer: normalizer, logger: logger}
}

// PushDay appends every approval made on day, oldest first, and returns how
// many rows were written. The header row is written once, into an empty sheet.
func (s *Service) PushDay(ctx context.Context, day models.CalendarDate) (int, error) {
	window := s.normalizer.Window(day, day)

	events, err := s.history.Query(ctx, window, access.AdminRole)
	if err != nil {
		return 0, fmt.Errorf("load approvals for %s: %w", day, err)
	}
	if len(events) == 0 {
		s.logger.Info("no approvals to push", zap.String("day", day.ISO()))
		return 0, nil
	}

	rows := make([][]interface{}, 0, len(events)+1)

	existing, err := s.repo.ReadRange(ctx, historyHeaderRange)
	if err != nil {
		return 0, fmt.Errorf("check sheet header: %w", err)
	}
	if len(existing) == 0 {
		header := make([]interface{}, 0, len(models.LedgerColumns))
		for _, h := range models.HistoryHeader() {
			header = append(header, h)
		}
		rows = append(rows, header)
	}

	// Query is newest first; the sheet reads top to bottom.
	for _, e := range slices.Backward(events) {
		rows = append(rows, s.cells.HistoryCells(e))
	}

	if err := s.repo.AppendRows(ctx, historyDataRange, rows); err != nil {
		return 0, fmt.Errorf("append approvals for %s: %w", day, err)
	}

	s.logger.Info("approvals pushed to sheet",
		zap.String("day", day.ISO()),
		zap.Int("events", len(events)),
		zap.String("summary", Summarize(day, events)))
	return len(events), nil
}

// Summarize renders a one line report of the day's approvals.
func Summarize(day models.CalendarDate, events []models.ApprovalEvent) string {
	if len(events) == 0 {
		return fmt.Sprintf("Approvals (%s): none recorded.", day.ISO())
	}

	perMarket := map[string]int{}
	total := decimal.Zero
	var units int64
	for _, e := range events {
		perMarket[e.MarketID]++
		total = total.Add(decimal.NewFromFloat(e.TotalCost))
		units += e.OrderQty
	}

	markets := make([]string, 0, len(perMarket))
	for m := range perMarket {
		markets = append(markets, m)
	}
	slices.Sort(markets)

	parts := make([]string, len(markets))
	for i, m := range markets {
		parts[i] = fmt.Sprintf("%s=%d", m, perMarket[m])
	}

	return fmt.Sprintf("Approvals (%s): %d orders, %d units, total cost %s across %d markets [%s].",
		day.ISO(), len(events), units, total.StringFixed(2), len(markets), strings.Join(parts, ", "))
}
