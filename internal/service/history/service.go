package history

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/access"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/daterange"
	"github.com/rasoolkhan1010/iasr-s3-AMPCS/internal/domain/models"
)

// Ledger is the durable append-only event store. Concurrent appends are not
// ordered against each other; approved_at is the only ordering a reader gets.
type Ledger interface {
	Append(ctx context.Context, event models.ApprovalEvent) error
	Query(ctx context.Context, q models.HistoryQuery) ([]models.ApprovalEvent, error)
}

// Service records approvals and serves them back by date range and role.
type Service struct {
	ledger     Ledger
	normalizer *daterange.Normalizer
	now        func() time.Time
	logger     *zap.Logger
}

// NewService wires a new history service instance.
func NewService(ledger Ledger, normalizer *daterange.Normalizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if normalizer == nil {
		normalizer = daterange.NewNormalizer(nil)
	}
	return &Service{ledger: ledger, normalizer: normalizer, now: time.Now, logger: logger}
}

// Record stamps the event with the acceptance time and appends it. Any client
// supplied approved_at is replaced.
func (s *Service) Record(ctx context.Context, event models.ApprovalEvent) (models.ApprovalEvent, error) {
	event.MarketID = strings.TrimSpace(event.MarketID)
	if event.MarketID == "" {
		return models.ApprovalEvent{}, fmt.Errorf("%w: marketid is required", models.ErrValidation)
	}

	// Postgres keeps microseconds; truncating here keeps reads equal to writes.
	event.ApprovedAt = s.now().UTC().Truncate(time.Microsecond)

	if err := s.ledger.Append(ctx, event); err != nil {
		s.logger.Error("history append failed",
			zap.String("marketid", event.MarketID),
			zap.String("approved_by", event.ApprovedBy),
			zap.Error(err))
		return models.ApprovalEvent{}, fmt.Errorf("%w: %w", models.ErrWriteFailure, err)
	}

	s.logger.Info("approval recorded",
		zap.String("marketid", event.MarketID),
		zap.String("approved_by", event.ApprovedBy),
		zap.Int64("order_qty", event.OrderQty))
	return event, nil
}

// Query returns events approved inside window and visible to role, newest first.
func (s *Service) Query(ctx context.Context, window daterange.Window, role string) ([]models.ApprovalEvent, error) {
	market, _ := access.Scope(role)

	events, err := s.ledger.Query(ctx, models.HistoryQuery{
		From:     window.Start,
		Until:    window.EndInclusive,
		MarketID: market,
	})
	if err != nil {
		s.logger.Error("history query failed", zap.String("role", role), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", models.ErrUpstreamUnavailable, err)
	}

	if events == nil {
		events = []models.ApprovalEvent{}
	}
	slices.SortStableFunc(events, func(a, b models.ApprovalEvent) int {
		return b.ApprovedAt.Compare(a.ApprovedAt)
	})
	return events, nil
}

// QueryRange normalizes the date text and runs Query.
func (s *Service) QueryRange(ctx context.Context, startText, endText, role string) ([]models.ApprovalEvent, error) {
	window, err := s.normalizer.ToInclusiveWindow(startText, endText)
	if err != nil {
		return nil, err
	}
	return s.Query(ctx, window, role)
}

// Normalizer exposes the window builder so callers share the ledger's time zone.
func (s *Service) Normalizer() *daterange.Normalizer {
	return s.normalizer
}
