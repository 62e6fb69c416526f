// Command importer loads a legacy inventory file into the inventory table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/config"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/projection"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/repository/flatfile"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/repository/postgres"
	flatfileclient "github.com/rasoolkhan1010/iasr-s3-AMPCS/pkg/clients/flatfile"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "optional .env file")
	path := flag.String("file", "", "legacy file path (overrides LEGACY_FILE_PATH)")
	url := flag.String("url", "", "legacy file URL (overrides LEGACY_FILE_URL)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	legacy := cfg.Legacy
	if *path != "" || *url != "" {
		legacy = config.LegacyConfig{FilePath: *path, FileURL: *url}
	}
	if !legacy.Enabled() {
		baseLogger.Fatal("no legacy file given: pass -file or -url, or set LEGACY_FILE_PATH")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, legacy, baseLogger); err != nil {
		baseLogger.Fatal("import failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, legacy config.LegacyConfig, baseLogger *zap.Logger) error {
	files := flatfile.NewRepository(legacy, flatfileclient.NewClient(0), baseLogger.Named("repo.flatfile"))
	raw, err := files.Load(ctx)
	if err != nil {
		return fmt.Errorf("load legacy file: %w", err)
	}

	records := datedRecords(projection.ProjectAll(raw, projection.DelimitedFileRow))
	if skipped := len(raw) - len(records); skipped > 0 {
		baseLogger.Warn("rows without a date skipped", zap.Int("rows", skipped))
	}
	if len(records) == 0 {
		baseLogger.Info("nothing to import")
		return nil
	}

	pool, err := postgres.Connect(ctx, cfg.Postgres, baseLogger.Named("repo.postgres"))
	if err != nil {
		return err
	}
	defer pool.Close()

	schema := postgres.NewSchema(pool, cfg.Postgres.InventoryTable, cfg.Postgres.HistoryTable, baseLogger.Named("repo.schema"))
	if err := schema.Ensure(ctx); err != nil {
		return err
	}

	bar := progressbar.Default(int64(len(records)), "importing")
	repo := postgres.NewInventoryRepository(pool, cfg.Postgres.InventoryTable, baseLogger.Named("repo.inventory"))
	written, err := repo.InsertRecords(ctx, records, func(n int) { _ = bar.Set(n) })
	_ = bar.Finish()
	if err != nil {
		return err
	}

	baseLogger.Info("import finished",
		zap.Int("rows", written),
		zap.String("table", cfg.Postgres.InventoryTable))
	return nil
}

// datedRecords drops rows whose date could not be read; the table keys on date.
func datedRecords(rows []models.InventoryRecord) []models.InventoryRecord {
	out := rows[:0]
	for _, r := range rows {
		if !r.Date.IsZero() {
			out = append(out, r)
		}
	}
	return out
}
