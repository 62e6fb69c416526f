package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

// HistoryRepository is the append-only approval ledger. Physical column names
// come from models.LedgerColumns and are never renamed.
type HistoryRepository struct {
	db     Querier
	table  string
	logger *zap.Logger
}

// NewHistoryRepository returns a ledger over table.
func NewHistoryRepository(db Querier, table string, logger *zap.Logger) *HistoryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryRepository{db: db, table: table, logger: logger}
}

// Append inserts one event as a single row.
func (r *HistoryRepository) Append(ctx context.Context, event models.ApprovalEvent) error {
	query, args, err := appendQuery(r.table, event)
	if err != nil {
		return fmt.Errorf("build history insert: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert history row: %w", err)
	}

	r.logger.Debug("history row appended",
		zap.String("marketid", event.MarketID),
		zap.String("approved_by", event.ApprovedBy))
	return nil
}

// Query returns the events approved inside q, newest first.
func (r *HistoryRepository) Query(ctx context.Context, q models.HistoryQuery) ([]models.ApprovalEvent, error) {
	query, args, err := historyQuery(r.table, q)
	if err != nil {
		return nil, fmt.Errorf("build history query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("read history rows: %w", err)
	}

	events := make([]models.ApprovalEvent, len(maps))
	for i, m := range maps {
		events[i] = eventFromRow(m)
	}
	return events, nil
}

// eventFromRow reads a row selected under canonical aliases.
func eventFromRow(row map[string]any) models.ApprovalEvent {
	var event models.ApprovalEvent
	for _, col := range models.LedgerColumns {
		event.SetField(col.Canonical, row[col.Canonical])
	}
	return event
}

func appendQuery(table string, event models.ApprovalEvent) (string, []any, error) {
	record := goqu.Record{}
	for _, col := range models.LedgerColumns {
		record[col.Physical] = event.Field(col.Canonical)
	}

	return dialect().
		Insert(table).
		Rows(record).
		Prepared(true).
		ToSQL()
}

func historyQuery(table string, q models.HistoryQuery) (string, []any, error) {
	selects := make([]any, len(models.LedgerColumns))
	for i, col := range models.LedgerColumns {
		selects[i] = goqu.I(col.Physical).As(col.Canonical)
	}

	ds := dialect().
		From(table).
		Select(selects...).
		Where(goqu.I(models.EventApprovedAt).Between(goqu.Range(q.From, q.Until)))

	if q.MarketID != "" {
		ds = ds.Where(goqu.I(models.EventMarketID).Eq(q.MarketID))
	}

	return ds.
		Order(goqu.I(models.EventApprovedAt).Desc()).
		Prepared(true).
		ToSQL()
}
