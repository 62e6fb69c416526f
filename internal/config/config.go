package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// History ledger backends.
const (
	HistoryBackendPostgres = "postgres"
	HistoryBackendMongo    = "mongo"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	History   HistoryConfig
	MongoDB   MongoDBConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	Legacy    LegacyConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port            string
	FrontendURL     string
	DefaultPageSize int
}

// PostgresConfig holds the relational store connection and table names.
type PostgresConfig struct {
	URL            string
	MaxConns       int32
	MinConns       int32
	InventoryTable string
	HistoryTable   string
}

// HistoryConfig selects where approval events are stored.
type HistoryConfig struct {
	Backend string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the scheduled Sheets export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings. Timezone also anchors date windows.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// Location resolves Timezone.
func (c ReportingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LegacyConfig points at the delimited file served in legacy mode.
type LegacyConfig struct {
	FilePath string
	FileURL  string
}

// Enabled reports whether a legacy file source is configured.
func (c LegacyConfig) Enabled() bool {
	return c.FilePath != "" || c.FileURL != ""
}

// LogConfig holds logger options.
type LogConfig struct {
	Level string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	pageSize, err := getenvInt("DEFAULT_PAGE_SIZE", 50)
	if err != nil {
		return nil, err
	}
	maxConns, err := getenvInt32("PG_MAX_CONNS", 20)
	if err != nil {
		return nil, err
	}
	minConns, err := getenvInt32("PG_MIN_CONNS", 2)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getenvWithDefault("APP_PORT", getenvWithDefault("PORT", "5000")),
			FrontendURL:     getenvWithDefault("FRONTEND_URL", "http://localhost:3000"),
			DefaultPageSize: pageSize,
		},
		Postgres: PostgresConfig{
			URL:            os.Getenv("DATABASE_URL"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			InventoryTable: getenvWithDefault("INVENTORY_TABLE", "public.inventory_data"),
			HistoryTable:   getenvWithDefault("HISTORY_TABLE", "history_data"),
		},
		History: HistoryConfig{
			Backend: strings.ToLower(getenvWithDefault("HISTORY_BACKEND", HistoryBackendPostgres)),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "inventory"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 1 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "UTC"),
		},
		Legacy: LegacyConfig{
			FilePath: os.Getenv("LEGACY_FILE_PATH"),
			FileURL:  os.Getenv("LEGACY_FILE_URL"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if !strings.HasPrefix(c.Server.FrontendURL, "http://") && !strings.HasPrefix(c.Server.FrontendURL, "https://") {
		return fmt.Errorf("FRONTEND_URL must be an http(s) origin, got %q", c.Server.FrontendURL)
	}

	if c.Server.DefaultPageSize < 1 {
		return errors.New("DEFAULT_PAGE_SIZE must be positive")
	}

	if c.Postgres.URL == "" {
		return errors.New("DATABASE_URL must be provided")
	}

	if c.Postgres.MinConns < 0 || c.Postgres.MaxConns < 1 || c.Postgres.MinConns > c.Postgres.MaxConns {
		return fmt.Errorf("invalid pool size: PG_MIN_CONNS=%d PG_MAX_CONNS=%d", c.Postgres.MinConns, c.Postgres.MaxConns)
	}

	switch {
	case c.Postgres.InventoryTable == "":
		return errors.New("INVENTORY_TABLE must not be empty")
	case c.Postgres.HistoryTable == "":
		return errors.New("HISTORY_TABLE must not be empty")
	}

	switch c.History.Backend {
	case HistoryBackendPostgres:
	case HistoryBackendMongo:
		if c.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided when HISTORY_BACKEND is mongo")
		}
		if c.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	default:
		return fmt.Errorf("unsupported HISTORY_BACKEND %q", c.History.Backend)
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be provided together")
	}

	if c.Sheets.Enabled() && c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if _, err := c.Reporting.Location(); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Reporting.Timezone, err)
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

// getenvInt32 rejects values outside the int32 range instead of truncating them.
func getenvInt32(key string, fallback int32) (int32, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer between %d and %d: %w", key, math.MinInt32, math.MaxInt32, err)
	}
	return int32(n), nil
}
