package market

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bitebase/internal/apperr"
	"bitebase/internal/logging"
	"bitebase/internal/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	DefaultRadiusKm = 5.0

	DefaultPageSize = 20
	MaxPageSize     = 100

	// summaryWindow caps how many recent analyses feed the dashboard summary.
	summaryWindow = 1000

	finishRetryTimeout = 10 * time.Second
)

type Service struct {
	repo       Repository
	analyzer   *Analyzer
	reports    ReportStore
	dispatcher *Dispatcher
	validate   *validator.Validate
	now        func() time.Time
}

// NewService wires the analysis pipeline. reports may be nil.
func NewService(repo Repository, analyzer *Analyzer, reports ReportStore) *Service {
	return &Service{
		repo:     repo,
		analyzer: analyzer,
		reports:  reports,
		validate: apperr.NewValidator(),
		now:      time.Now,
	}
}

// StartWorkers enables queued (async) execution. Without it async runs fall
// back to a detached goroutine per analysis.
func (s *Service) StartWorkers(ctx context.Context, workers, queueSize int) {
	s.dispatcher = NewDispatcher(queueSize)
	s.dispatcher.Start(ctx, workers, s.execute)
}

func (s *Service) StopWorkers() {
	if s.dispatcher != nil {
		s.dispatcher.Stop()
	}
}

// --------------------------------------------------
// Run analysis
// --------------------------------------------------

// Run validates req, records a running analysis and computes it, inline or
// on a worker when req.Async is set. Validation problems are returned as
// apperr.ErrValidation; computation problems are recorded on the analysis.
func (s *Service) Run(ctx context.Context, req RunRequest, ownerID string) (*MarketAnalysis, error) {
	if req.Radius == 0 {
		req.Radius = DefaultRadiusKm
	}
	if req.AnalysisType == "" {
		req.AnalysisType = TypeComprehensive
	}
	req.Title = strings.TrimSpace(req.Title)
	req.TargetCuisine = strings.TrimSpace(req.TargetCuisine)

	if err := s.validate.Struct(req); err != nil {
		return nil, apperr.Invalid(err)
	}

	a := &MarketAnalysis{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Title:          req.Title,
		TargetLocation: strings.TrimSpace(req.TargetLocation),
		Latitude:       *req.Latitude,
		Longitude:      *req.Longitude,
		Radius:         req.Radius,
		AnalysisType:   req.AnalysisType,
		TargetCuisine:  req.TargetCuisine,
		Status:         StatusRunning,
		CreatedAt:      s.now(),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("create analysis: %w", err)
	}

	if !req.Async {
		s.execute(ctx, a)
		return a, nil
	}

	job := *a
	if s.dispatcher == nil {
		go s.execute(context.WithoutCancel(ctx), &job)
		return a, nil
	}

	if err := s.dispatcher.Submit(ctx, &job); err != nil {
		s.fail(context.WithoutCancel(ctx), a, fmt.Errorf("queue analysis: %w", err))
	}
	return a, nil
}

// execute computes a and writes its terminal state. It never returns an
// error: failures end up on the record.
func (s *Service) execute(ctx context.Context, a *MarketAnalysis) {
	logger := logging.For("market")
	start := s.now()

	results, err := s.analyzer.Run(ctx, a.params())
	metrics.AnalysisDurationMs.
		WithLabelValues(string(a.AnalysisType)).
		Observe(float64(time.Since(start).Milliseconds()))

	if err != nil {
		logger.Error().Err(err).Str("analysis_id", a.ID).Msg("analysis failed")
		s.fail(ctx, a, err)
		return
	}

	completed := s.now()
	a.Status = StatusCompleted
	a.Results = results
	a.Error = ""
	a.CompletedAt = &completed

	if results.Opportunity != nil {
		metrics.OpportunityScore.Observe(float64(results.Opportunity.Score))
	}

	if s.reports != nil {
		url, err := exportReport(ctx, s.reports, a)
		if err != nil {
			logger.Warn().Err(err).Str("analysis_id", a.ID).Msg("report export failed")
		} else {
			a.ReportURL = url
		}
	}

	s.finish(ctx, a)
	metrics.AnalysesTotal.WithLabelValues(string(a.AnalysisType), string(StatusCompleted)).Inc()

	logger.Info().
		Str("analysis_id", a.ID).
		Str("type", string(a.AnalysisType)).
		Dur("took", completed.Sub(start)).
		Msg("analysis completed")
}

func (s *Service) fail(ctx context.Context, a *MarketAnalysis, cause error) {
	done := s.now()
	a.Status = StatusFailed
	a.Results = nil
	a.Error = cause.Error()
	a.CompletedAt = &done

	s.finish(ctx, a)
	metrics.AnalysesTotal.WithLabelValues(string(a.AnalysisType), string(StatusFailed)).Inc()
}

// finish writes the terminal state of a. A failed write is retried once on a
// context detached from the caller's cancellation.
func (s *Service) finish(ctx context.Context, a *MarketAnalysis) {
	err := s.repo.Finish(ctx, a)
	if err == nil {
		return
	}

	logger := logging.For("market")
	logger.Warn().Err(err).Str("analysis_id", a.ID).Msg("persist analysis, retrying")

	retryCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishRetryTimeout)
	defer cancel()

	if err := s.repo.Finish(retryCtx, a); err != nil {
		metrics.AnalysisPersistFailuresTotal.WithLabelValues(string(a.Status)).Inc()
		logger.Error().Err(err).Str("analysis_id", a.ID).Str("status", string(a.Status)).Msg("persist analysis")
	}
}

// --------------------------------------------------
// Read side
// --------------------------------------------------

// Get returns an analysis owned by ownerID.
func (s *Service) Get(ctx context.Context, id, ownerID string) (*MarketAnalysis, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("analysis %s: %w", id, apperr.ErrNotFound)
	}

	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.OwnerID != ownerID {
		return nil, fmt.Errorf("analysis %s: %w", id, apperr.ErrForbidden)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]*MarketAnalysis, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *Service) Summary(ctx context.Context, ownerID string) (*Summary, error) {
	analyses, err := s.repo.ListByOwner(ctx, ownerID, summaryWindow, 0)
	if err != nil {
		return nil, err
	}
	return Summarize(analyses), nil
}
