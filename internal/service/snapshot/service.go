package snapshot

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/access"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/daterange"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/projection"
)

// Store is the relational inventory source.
type Store interface {
	FetchRange(ctx context.Context, window daterange.Window) ([]projection.SourceRow, error)
	DistinctMarkets(ctx context.Context) ([]string, error)
}

// FileSource is the legacy delimited file.
type FileSource interface {
	Load(ctx context.Context) ([]projection.SourceRow, error)
}

// Service answers date ranged inventory queries in the canonical shape.
type Service struct {
	store      Store
	files      FileSource
	normalizer *daterange.Normalizer
	logger     *zap.Logger
}

// NewService wires a new snapshot service instance. files may be nil when legacy mode is off.
func NewService(store Store, files FileSource, normalizer *daterange.Normalizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if normalizer == nil {
		normalizer = daterange.NewNormalizer(nil)
	}
	return &Service{store: store, files: files, normalizer: normalizer, logger: logger}
}

// ErrLegacyDisabled is returned by LoadFlatFile when no file source is wired.
var ErrLegacyDisabled = fmt.Errorf("%w: legacy file mode is not enabled", models.ErrValidation)

// FetchRange validates the range, reads every row dated inside it and projects
// them onto the header contract, oldest first. No role filter is applied.
func (s *Service) FetchRange(ctx context.Context, startText, endText string) (models.Snapshot, error) {
	window, err := s.normalizer.ToInclusiveWindow(startText, endText)
	if err != nil {
		return models.Snapshot{}, err
	}

	raw, err := s.store.FetchRange(ctx, window)
	if err != nil {
		s.logger.Error("inventory range query failed",
			zap.String("start", startText),
			zap.String("end", endText),
			zap.Error(err))
		return models.Snapshot{}, fmt.Errorf("%w: %w", models.ErrUpstreamUnavailable, err)
	}

	rows := projection.ProjectAll(raw, projection.RelationalRow)
	sortByDate(rows)

	return models.Snapshot{Header: models.Header(), Rows: rows}, nil
}

// Snapshot runs FetchRange for the session's dates and keeps the rows its role may see.
func (s *Service) Snapshot(ctx context.Context, session models.SessionContext) (models.Snapshot, error) {
	if strings.TrimSpace(session.Role) == "" {
		return models.Snapshot{}, fmt.Errorf("%w: role is required", models.ErrValidation)
	}

	start, end := sessionDates(session)
	snap, err := s.FetchRange(ctx, start, end)
	if err != nil {
		return models.Snapshot{}, err
	}

	snap.Rows = access.Filter(snap.Rows, session.Role)
	s.logger.Debug("snapshot served",
		zap.String("role", session.Role),
		zap.Int("rows", len(snap.Rows)))
	return snap, nil
}

// ListDistinctMarkets returns every known market id, ascending.
func (s *Service) ListDistinctMarkets(ctx context.Context) ([]string, error) {
	markets, err := s.store.DistinctMarkets(ctx)
	if err != nil {
		s.logger.Error("market list query failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", models.ErrUpstreamUnavailable, err)
	}

	out := make([]string, 0, len(markets))
	for _, m := range markets {
		if m != "" {
			out = append(out, m)
		}
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// LoadFlatFile serves the legacy file in the same canonical shape, filtered for role.
func (s *Service) LoadFlatFile(ctx context.Context, role string) (models.Snapshot, error) {
	if s.files == nil {
		return models.Snapshot{}, ErrLegacyDisabled
	}
	if strings.TrimSpace(role) == "" {
		return models.Snapshot{}, fmt.Errorf("%w: role is required", models.ErrValidation)
	}

	raw, err := s.files.Load(ctx)
	if err != nil {
		s.logger.Error("legacy file load failed", zap.Error(err))
		return models.Snapshot{}, fmt.Errorf("%w: %w", models.ErrUpstreamUnavailable, err)
	}

	rows := access.Filter(projection.ProjectAll(raw, projection.DelimitedFileRow), role)
	return models.Snapshot{Header: models.Header(), Rows: rows}, nil
}

func sessionDates(session models.SessionContext) (string, string) {
	start, end := session.StartDateISO, session.EndDateISO
	if start == "" {
		start = session.StartDate
	}
	if end == "" {
		end = session.EndDate
	}
	return start, end
}

func sortByDate(rows []models.InventoryRecord) {
	slices.SortStableFunc(rows, func(a, b models.InventoryRecord) int {
		return a.Date.In(nil).Compare(b.Date.In(nil))
	})
}
