package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/stock_insights_api/internal/apperrors"
	"github.com/SscSPs/stock_insights_api/internal/core/domain"
	portsrepo "github.com/SscSPs/stock_insights_api/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/stock_insights_api/internal/core/ports/services"
	"github.com/SscSPs/stock_insights_api/internal/dto"
)

var emptyProjection = json.RawMessage(`{}`)

type projectionService struct {
	BaseService
	projectionRepo portsrepo.ProjectionRepositoryFacade
}

// ProjectionServiceOption is a functional option for configuring the projection service
type ProjectionServiceOption func(*projectionService)

// WithProjectionClock overrides time.Now for saved_at timestamps.
func WithProjectionClock(now func() time.Time) ProjectionServiceOption {
	return func(s *projectionService) {
		s.now = now
	}
}

// NewProjectionService creates a new projection service.
func NewProjectionService(repo portsrepo.ProjectionRepositoryFacade, options ...ProjectionServiceOption) portssvc.ProjectionSvcFacade {
	svc := &projectionService{projectionRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ProjectionSvcFacade = (*projectionService)(nil)

func (s *projectionService) GetProjection(ctx context.Context, ticker string) (json.RawMessage, error) {
	ticker = dto.NormalizeTicker(ticker)
	if ticker == "" {
		return nil, apperrors.NewValidationError("Ticker required")
	}

	projection, err := s.projectionRepo.FindProjection(ctx, ticker)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return emptyProjection, nil
		}
		s.LogError(ctx, err, "Failed to load projection", slog.String("ticker", ticker))
		return nil, err
	}
	if len(projection.Data) == 0 {
		return emptyProjection, nil
	}
	return projection.Data, nil
}

func (s *projectionService) SaveProjection(ctx context.Context, req dto.SaveProjectionRequest) error {
	ticker := dto.NormalizeTicker(req.Ticker)
	if ticker == "" {
		return apperrors.NewValidationError("Ticker required")
	}
	if len(req.Data) == 0 || !json.Valid(req.Data) {
		return apperrors.NewValidationError("data must be a JSON document")
	}

	projection := domain.Projection{Ticker: ticker, Data: req.Data, SavedAt: s.Now().UTC()}
	if err := s.projectionRepo.UpsertProjection(ctx, projection); err != nil {
		s.LogError(ctx, err, "Failed to save projection", slog.String("ticker", ticker))
		return err
	}
	return nil
}
