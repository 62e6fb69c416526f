package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/access"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/config"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/daterange"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/repository/flatfile"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/repository/mongodb"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/repository/postgres"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/repository/sheets"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/scheduler"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/server/handlers"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/server/router"
	exportsvc "github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/service/export"
	historysvc "github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/service/history"
	reportingsvc "github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/service/reporting"
	snapshotsvc "github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/service/snapshot"
	flatfileclient "github.com/rasoolkhan1010/iasr-s3-AMPCS/pkg/clients/flatfile"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/pkg/logger"
)

const marketRefreshSpec = "@every 1h"

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := cfg.Reporting.Location()
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.Error(err))
	}
	normalizer := daterange.NewNormalizer(loc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Connect(ctx, cfg.Postgres, baseLogger.Named("repo.postgres"))
	if err != nil {
		baseLogger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	schema := postgres.NewSchema(pool, cfg.Postgres.InventoryTable, cfg.Postgres.HistoryTable, baseLogger.Named("repo.schema"))
	if err := schema.Ensure(ctx); err != nil {
		baseLogger.Fatal("failed to ensure schema", zap.Error(err))
	}

	var ledger historysvc.Ledger
	switch cfg.History.Backend {
	case config.HistoryBackendMongo:
		mongoRepo, err := mongodb.NewHistoryRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, baseLogger.Named("repo.mongodb"))
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			baseLogger.Warn("failed to ensure history indexes", zap.Error(err))
		}
		ledger = mongoRepo
	default:
		ledger = postgres.NewHistoryRepository(pool, cfg.Postgres.HistoryTable, baseLogger.Named("repo.history"))
	}
	baseLogger.Info("history backend selected", zap.String("backend", cfg.History.Backend))

	var files snapshotsvc.FileSource
	if cfg.Legacy.Enabled() {
		files = flatfile.NewRepository(cfg.Legacy, flatfileclient.NewClient(0), baseLogger.Named("repo.flatfile"))
		baseLogger.Info("legacy flat file mode enabled")
	}

	inventoryRepo := postgres.NewInventoryRepository(pool, cfg.Postgres.InventoryTable, baseLogger.Named("repo.inventory"))
	snapshotSvc := snapshotsvc.NewService(inventoryRepo, files, normalizer, baseLogger.Named("svc.snapshot"))
	historySvc := historysvc.NewService(ledger, normalizer, baseLogger.Named("svc.history"))
	exportSvc := exportsvc.NewService(loc, baseLogger.Named("svc.export"))

	credentials := access.NewCredentialTable(nil)
	refreshCredentials := func(ctx context.Context) error {
		markets, err := snapshotSvc.ListDistinctMarkets(ctx)
		if err != nil {
			return err
		}
		credentials.Refresh(markets)
		baseLogger.Info("credential table refreshed", zap.Int("accounts", credentials.Size()))
		return nil
	}
	if err := refreshCredentials(ctx); err != nil {
		baseLogger.Warn("initial market load failed, only admin can log in", zap.Error(err))
	}

	sched := scheduler.NewScheduler(loc, baseLogger.Named("scheduler"))
	if err := sched.Register(marketRefreshSpec, "market-refresh", refreshCredentials); err != nil {
		baseLogger.Fatal("failed to schedule market refresh", zap.Error(err))
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		reportingSvc := reportingsvc.NewService(sheetsRepo, historySvc, exportSvc, normalizer, baseLogger.Named("svc.reporting"))

		pushYesterday := func(ctx context.Context) error {
			_, err := reportingSvc.PushDay(ctx, models.DateOf(sched.Yesterday(time.Now())))
			return err
		}
		if err := sched.Register(cfg.Reporting.CronSchedule, "history-push", pushYesterday); err != nil {
			baseLogger.Fatal("failed to schedule history push", zap.Error(err))
		}
	} else {
		baseLogger.Warn("google sheets not configured, scheduled history push disabled")
	}

	sched.Start()
	defer sched.Stop()

	engine := router.New(router.Handlers{
		Inventory: handlers.NewInventoryHandler(snapshotSvc, baseLogger.Named("handlers.inventory")),
		History:   handlers.NewHistoryHandler(historySvc, cfg.Server.DefaultPageSize, baseLogger.Named("handlers.history")),
		Export:    handlers.NewExportHandler(snapshotSvc, historySvc, exportSvc, baseLogger.Named("handlers.export")),
		Auth:      handlers.NewAuthHandler(credentials, normalizer, baseLogger.Named("handlers.auth")),
		Health:    handlers.NewHealthHandler(postgres.NewClock(pool), schema, baseLogger.Named("handlers.health")),
	}, cfg.Server.FrontendURL, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
