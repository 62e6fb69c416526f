package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/daterange"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/projection"
)

const (
	colDate     = "date"
	colMarketID = "marketid"

	// Keeps an insert under the 65535 bind parameter limit at 24 columns.
	insertBatchSize = 1000
)

// InventoryRepository reads and loads the daily inventory table.
type InventoryRepository struct {
	db     Querier
	table  string
	logger *zap.Logger
}

// NewInventoryRepository returns a repository over table.
func NewInventoryRepository(db Querier, table string, logger *zap.Logger) *InventoryRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryRepository{db: db, table: table, logger: logger}
}

// FetchRange returns the raw rows dated inside the window, oldest first.
func (r *InventoryRepository) FetchRange(ctx context.Context, window daterange.Window) ([]projection.SourceRow, error) {
	query, args, err := rangeQuery(r.table, window)
	if err != nil {
		return nil, fmt.Errorf("build range query: %w", err)
	}

	start := time.Now()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query inventory range: %w", err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("read inventory rows: %w", err)
	}

	out := make([]projection.SourceRow, len(maps))
	for i, m := range maps {
		out[i] = projection.SourceRow(m)
	}

	r.logger.Debug("inventory range fetched",
		zap.Time("start", window.Start),
		zap.Time("end", window.EndInclusive),
		zap.Int("rows", len(out)),
		zap.Duration("duration", time.Since(start)))
	return out, nil
}

// DistinctMarkets lists every non-null market id in ascending order.
func (r *InventoryRepository) DistinctMarkets(ctx context.Context) ([]string, error) {
	query, args, err := marketsQuery(r.table)
	if err != nil {
		return nil, fmt.Errorf("build markets query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query markets: %w", err)
	}

	markets, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("read markets: %w", err)
	}
	return markets, nil
}

// InsertRecords writes canonical records back in relational form. Records are
// sent in batches; progress, when set, is called with the count written so far.
func (r *InventoryRepository) InsertRecords(ctx context.Context, records []models.InventoryRecord, progress func(written int)) (int, error) {
	written := 0
	for start := 0; start < len(records); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(records) {
			end = len(records)
		}

		query, args, err := insertRecordsQuery(r.table, records[start:end])
		if err != nil {
			return written, fmt.Errorf("build insert: %w", err)
		}
		tag, err := r.db.Exec(ctx, query, args...)
		if err != nil {
			return written, fmt.Errorf("insert inventory rows %d-%d: %w", start, end, err)
		}

		written += int(tag.RowsAffected())
		if progress != nil {
			progress(written)
		}
	}
	return written, nil
}

func rangeQuery(table string, window daterange.Window) (string, []any, error) {
	return dialect().
		From(table).
		Where(goqu.C(colDate).Between(goqu.Range(window.Start, window.EndInclusive))).
		Order(goqu.C(colDate).Asc()).
		Prepared(true).
		ToSQL()
}

func marketsQuery(table string) (string, []any, error) {
	return dialect().
		From(table).
		SelectDistinct(colMarketID).
		Where(goqu.C(colMarketID).IsNotNull()).
		Order(goqu.C(colMarketID).Asc()).
		Prepared(true).
		ToSQL()
}

func insertRecordsQuery(table string, records []models.InventoryRecord) (string, []any, error) {
	if len(records) == 0 {
		return "", nil, fmt.Errorf("no records to insert")
	}

	cols, _ := projection.RelationalColumns(records[0])
	colArgs := make([]any, len(cols))
	for i, c := range cols {
		colArgs[i] = c
	}

	vals := make([][]any, 0, len(records))
	for _, rec := range records {
		_, v := projection.RelationalColumns(rec)
		vals = append(vals, v)
	}

	return dialect().
		Insert(table).
		Cols(colArgs...).
		Vals(vals...).
		Prepared(true).
		ToSQL()
}
