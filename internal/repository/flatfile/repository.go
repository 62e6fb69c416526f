// Package flatfile reads the legacy delimited inventory export.
package flatfile

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/config"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/projection"
	flatfileclient "github.com/rasoolkhan1010/iasr-s3-AMPCS/pkg/clients/flatfile"
)

// ErrNotConfigured is returned when neither a path nor a URL is set.
var ErrNotConfigured = errors.New("legacy file source not configured")

// Repository loads rows from a local file or, when no path is set, a URL.
type Repository struct {
	path   string
	url    string
	client flatfileclient.Client
	logger *zap.Logger
}

// NewRepository builds a Repository. client may be nil when only a path is used.
func NewRepository(cfg config.LegacyConfig, client flatfileclient.Client, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{path: cfg.FilePath, url: cfg.FileURL, client: client, logger: logger}
}

// Load reads and parses the configured file.
func (r *Repository) Load(ctx context.Context) ([]projection.SourceRow, error) {
	raw, err := r.read(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	r.logger.Debug("legacy file parsed", zap.Int("rows", len(rows)))
	return rows, nil
}

func (r *Repository) read(ctx context.Context) ([]byte, error) {
	switch {
	case r.path != "":
		raw, err := os.ReadFile(r.path)
		if err != nil {
			return nil, fmt.Errorf("read legacy file: %w", err)
		}
		return raw, nil
	case r.url != "" && r.client != nil:
		return r.client.Download(ctx, r.url)
	default:
		return nil, ErrNotConfigured
	}
}

// Parse reads a header line followed by data lines. Header cells are trimmed,
// blank lines are skipped, and cell values are type inferred.
func Parse(in io.Reader) ([]projection.SourceRow, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []projection.SourceRow{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	rows := make([]projection.SourceRow, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line: %w", err)
		}
		if blank(record) {
			continue
		}

		row := make(projection.SourceRow, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(record) {
				row[key] = Infer(record[i])
			} else {
				row[key] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Infer types a raw cell: empty → nil, then int64, float64, bool, else the trimmed text.
func Infer(cell string) any {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
