// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/skipcheck/internal/domain/analysis"
	"github.com/okian/skipcheck/internal/domain/model"
	"github.com/okian/skipcheck/internal/domain/types"
	"github.com/okian/skipcheck/pkg/logger"
	"github.com/okian/skipcheck/pkg/metrics"
)

// Analyzer runs one handle analysis. *analysis.Engine satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, rawHandle string) (model.Profile, model.AnalysisResult, error)
}

// Service is the observability collaborator around the analysis engine.
type Service struct {
	mu sync.RWMutex

	analyzer Analyzer
	fetcher  analysis.Fetcher

	// State
	started   bool
	startedAt time.Time

	analyses   atomic.Int64
	failures   atomic.Int64
	suspicious atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngine sets the analyzer used for every request.
func WithEngine(a Analyzer) Option {
	return func(s *Service) {
		if a != nil {
			s.analyzer = a
		}
	}
}

// WithFetcher builds an analysis engine on Start from a platform client that
// serves both profile and history lookups. Ignored when WithEngine is given.
func WithFetcher(f analysis.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the engine and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.analyzer == nil {
		if s.fetcher == nil {
			return ErrNoFetcher
		}
		s.analyzer = analysis.NewEngine(s.fetcher, s.fetcher)
	}

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "analysis service started")
	return nil
}

// Stop marks the service stopped. In-flight analyses finish normally.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "analysis service stopped",
		logger.Int64("analyses", s.analyses.Load()),
	)
}

// Analyze runs the engine for rawHandle and returns a report stamped with a
// fresh request id. On failure the report still carries the request id and
// any profile that was fetched, and err is the engine's failure unchanged.
func (s *Service) Analyze(ctx context.Context, rawHandle string) (types.Report, error) {
	s.mu.RLock()
	started, analyzer, log := s.started, s.analyzer, s.logger
	s.mu.RUnlock()

	if !started {
		return types.Report{}, ErrNotStarted
	}

	report := types.Report{RequestID: uuid.NewString()}
	log = log.With(logger.String("requestId", report.RequestID))

	start := time.Now()
	profile, result, err := analyzer.Analyze(ctx, rawHandle)
	took := time.Since(start)
	s.analyses.Add(1)

	report.Profile = profile
	if err != nil {
		s.failures.Add(1)
		kind := model.KindOf(err)
		metrics.RecordAnalysis(kind.Code(), float64(took.Milliseconds()))
		metrics.RecordErrorLatency("service", kind.Code(), float64(took.Milliseconds()))

		fields := []logger.Field{
			logger.String("handle", rawHandle),
			logger.String("kind", string(kind)),
			logger.Duration("took", took),
			logger.Error(err),
		}
		if kind == model.KindInvalidInput || kind == model.KindProfileNotFound {
			log.Warn(ctx, "analysis rejected", fields...)
		} else {
			log.Error(ctx, "analysis failed", fields...)
		}
		return report, err
	}

	report.Result = result
	report.AnalyzedAt = time.Now().UTC()
	if result.IsSuspicious {
		s.suspicious.Add(1)
	}
	metrics.RecordAnalysis("ok", float64(took.Milliseconds()))
	metrics.RecordClassification(result.TotalSubmissionCount, result.SuspiciousSubmissionCount)

	log.Info(ctx, "analysis completed",
		logger.String("handle", profile.Handle),
		logger.Int("total", result.TotalSubmissionCount),
		logger.Int("skipped", result.SuspiciousSubmissionCount),
		logger.Float64("percentage", result.SuspiciousPercentage),
		logger.Bool("suspicious", result.IsSuspicious),
		logger.Duration("took", took),
	)
	return report, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"analyses":        s.analyses.Load(),
		"failures":        s.failures.Load(),
		"suspiciousFound": s.suspicious.Load(),
	}
	if s.started {
		stats["uptimeSeconds"] = int64(time.Since(s.startedAt).Seconds())
	}
	return stats
}
