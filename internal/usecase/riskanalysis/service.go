package riskanalysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/logger"
)

var (
	// ErrNotConfigured means no analysis backend credentials are present
	ErrNotConfigured = errors.New("risk analysis backend not configured")

	// ErrAnalysisFailed means a configured backend was reached but the
	// analysis could not be produced
	ErrAnalysisFailed = errors.New("risk analysis failed")
)

// Report is the advisory due-diligence view of one project. Scores run 1-10,
// higher meaning riskier. Simulated marks reports produced by the built-in
// fallback rather than a live model.
type Report struct {
	RiskScore int      `json:"riskScore"`
	Summary   string   `json:"summary"`
	Pros      []string `json:"pros"`
	Cons      []string `json:"cons"`
	Simulated bool     `json:"simulated"`
}

// Analyzer produces a risk report for a project. Implementations return
// ErrNotConfigured when they have no credentials to work with.
type Analyzer interface {
	Analyze(ctx context.Context, project domain.Project) (*Report, error)
}

// Service runs project risk analysis with per-project caching. Reports are
// advisory only: nothing here feeds settlement or validation.
type Service struct {
	analyzer Analyzer
	cache    *gocache.Cache
}

// NewService creates a new risk analysis Service instance.
// analyzer may be nil, in which case every report is simulated.
func NewService(analyzer Analyzer, cacheTTL time.Duration) *Service {
	return &Service{
		analyzer: analyzer,
		cache:    gocache.New(cacheTTL, 2*cacheTTL),
	}
}

// Analyze returns the risk report for a project.
// Logic:
//  1. Serve from the per-project cache when a report is fresh.
//  2. Ask the configured backend.
//  3. Fall back to a simulated report when no backend is configured, so the
//     feature degrades gracefully instead of erroring.
//  4. Surface ErrAnalysisFailed when a configured backend breaks; a broken
//     credentialed setup should be visible, not papered over.
func (s *Service) Analyze(ctx context.Context, project domain.Project) (*Report, error) {
	key := project.ID.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*Report), nil
	}

	report, err := s.produce(ctx, project)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, report, gocache.DefaultExpiration)
	return report, nil
}

func (s *Service) produce(ctx context.Context, project domain.Project) (*Report, error) {
	if s.analyzer == nil {
		return simulatedReport(project), nil
	}

	report, err := s.analyzer.Analyze(ctx, project)
	if err == nil {
		return report, nil
	}
	if errors.Is(err, ErrNotConfigured) {
		if logger.L != nil {
			logger.L.Info("risk analysis backend not configured, serving simulated report", "projectID", project.ID)
		}
		return simulatedReport(project), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
}

// simulatedReport is the canned fallback shown when no model is configured.
// Deliberately generic and clearly labelled so it cannot be mistaken for a
// real assessment.
func simulatedReport(project domain.Project) *Report {
	return &Report{
		RiskScore: 7,
		Summary: fmt.Sprintf("This is a simulated analysis of %s. The project shows a typical risk and reward profile for the %s sector. Configure an AI backend to receive a live assessment.",
			project.Title, project.Sector),
		Pros: []string{
			"Clearly stated use of funds",
			"Established demand in the target market",
			"Projected returns in line with sector expectations",
		},
		Cons: []string{
			"Execution depends heavily on the founding team",
			"Sector exposure to macroeconomic shifts",
			"Limited operating history disclosed",
		},
		Simulated: true,
	}
}
