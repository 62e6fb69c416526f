package postgres

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"
)

const inventoryDDL = `
CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	date DATE NOT NULL,
	marketid TEXT,
	custno TEXT,
	company TEXT,
	item TEXT,
	status TEXT,
	itmdesc TEXT,
	in_stock BIGINT,
	in_transit BIGINT,
	total_stock BIGINT,
	cost NUMERIC,
	allocations BIGINT,
	w1 BIGINT,
	w2 BIGINT,
	w3 BIGINT,
	days_30 BIGINT,
	overnight BIGINT,
	to_order_cost_overnight NUMERIC,
	two_day_ship BIGINT,
	to_order_cost_2day NUMERIC,
	ground BIGINT,
	to_order_cost_ground NUMERIC,
	recommended_quantity TEXT,
	recommended_shipping TEXT
);
CREATE INDEX IF NOT EXISTS %s ON %s (date);
`

// Legacy column names are quoted to keep their case.
const historyDDL = `
CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	marketid TEXT,
	company TEXT,
	itmdesc TEXT,
	cost NUMERIC,
	"Total_Stock" BIGINT,
	"Original_Recomr" TEXT,
	"Order_Qty" BIGINT,
	"Total_Cost" NUMERIC,
	"Recommended_" TEXT,
	"Approved_By" TEXT,
	approved_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	comments TEXT DEFAULT ''
);
`

// Schema bootstraps and migrates the two tables.
type Schema struct {
	db             Querier
	inventoryTable string
	historyTable   string
	logger         *zap.Logger
}

// NewSchema returns a Schema for the given table names.
func NewSchema(db Querier, inventoryTable, historyTable string, logger *zap.Logger) *Schema {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Schema{db: db, inventoryTable: inventoryTable, historyTable: historyTable, logger: logger}
}

// Ensure creates both tables when absent and makes sure the comments column exists.
func (s *Schema) Ensure(ctx context.Context) error {
	s.logger.Info("checking database schema")

	index := quoteTable("idx_" + bareTable(s.inventoryTable) + "_date")
	if _, err := s.db.Exec(ctx, fmt.Sprintf(inventoryDDL, quoteTable(s.inventoryTable), index, quoteTable(s.inventoryTable))); err != nil {
		return fmt.Errorf("create inventory table: %w", err)
	}
	if _, err := s.db.Exec(ctx, fmt.Sprintf(historyDDL, quoteTable(s.historyTable))); err != nil {
		return fmt.Errorf("create history table: %w", err)
	}
	if _, err := s.AddCommentsColumn(ctx); err != nil {
		return err
	}

	s.logger.Info("database schema ready")
	return nil
}

// AddCommentsColumn adds history comments to ledgers created before the column existed.
// It reports whether the column was added.
func (s *Schema) AddCommentsColumn(ctx context.Context) (bool, error) {
	query, args, err := commentsColumnQuery(s.historyTable)
	if err != nil {
		return false, fmt.Errorf("build column check: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("check comments column: %w", err)
	}
	exists := rows.Next()
	rows.Close()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("check comments column: %w", err)
	}
	if exists {
		return false, nil
	}

	alter := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS comments TEXT DEFAULT ''", quoteTable(s.historyTable))
	if _, err := s.db.Exec(ctx, alter); err != nil {
		return false, fmt.Errorf("add comments column: %w", err)
	}
	s.logger.Info("comments column added", zap.String("table", s.historyTable))
	return true, nil
}

func commentsColumnQuery(table string) (string, []any, error) {
	return dialect().
		From(goqu.T("columns").Schema("information_schema")).
		Select("column_name").
		Where(goqu.Ex{
			"table_name":  bareTable(table),
			"column_name": "comments",
		}).
		Prepared(true).
		ToSQL()
}
