package riskanalysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/loopital/loopital-backend/internal/domain"
)

// MockAnalyzer is a mock implementation of Analyzer for testing
type MockAnalyzer struct {
	mock.Mock
}

func (m *MockAnalyzer) Analyze(ctx context.Context, project domain.Project) (*Report, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Report), args.Error(1)
}

func testProject() domain.Project {
	return domain.Project{
		ID:     uuid.New(),
		Title:  "GreenHorizon Vertical Farm",
		Sector: domain.SectorAgriculture,
	}
}

func TestAnalyze_UsesBackend(t *testing.T) {
	project := testProject()
	want := &Report{RiskScore: 4, Summary: "Moderate risk.", Pros: []string{"a"}, Cons: []string{"b"}}

	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, project).Return(want, nil).Once()

	svc := NewService(analyzer, time.Minute)
	got, err := svc.Analyze(context.Background(), project)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.False(t, got.Simulated)
	analyzer.AssertExpectations(t)
}

func TestAnalyze_CachesPerProject(t *testing.T) {
	project := testProject()
	other := testProject()

	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, project).Return(&Report{RiskScore: 4}, nil).Once()
	analyzer.On("Analyze", mock.Anything, other).Return(&Report{RiskScore: 8}, nil).Once()

	svc := NewService(analyzer, time.Minute)
	ctx := context.Background()

	first, err := svc.Analyze(ctx, project)
	require.NoError(t, err)
	second, err := svc.Analyze(ctx, project)
	require.NoError(t, err)
	assert.Same(t, first, second)

	otherReport, err := svc.Analyze(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, 8, otherReport.RiskScore)

	// Each project hit the backend exactly once
	analyzer.AssertExpectations(t)
}

func TestAnalyze_NilAnalyzerFallsBackToSimulated(t *testing.T) {
	project := testProject()

	svc := NewService(nil, time.Minute)
	report, err := svc.Analyze(context.Background(), project)
	require.NoError(t, err)

	assert.True(t, report.Simulated)
	assert.Equal(t, 7, report.RiskScore)
	assert.Contains(t, report.Summary, project.Title)
	assert.NotEmpty(t, report.Pros)
	assert.NotEmpty(t, report.Cons)
}

func TestAnalyze_NotConfiguredFallsBackToSimulated(t *testing.T) {
	project := testProject()

	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, project).Return(nil, ErrNotConfigured).Once()

	svc := NewService(analyzer, time.Minute)
	report, err := svc.Analyze(context.Background(), project)
	require.NoError(t, err)
	assert.True(t, report.Simulated)
	assert.Equal(t, 7, report.RiskScore)
}

func TestAnalyze_BackendFailureSurfaces(t *testing.T) {
	project := testProject()

	analyzer := new(MockAnalyzer)
	analyzer.On("Analyze", mock.Anything, project).Return(nil, errors.New("upstream 503"))

	svc := NewService(analyzer, time.Minute)
	_, err := svc.Analyze(context.Background(), project)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalysisFailed)

	// Failures are not cached; the next call retries the backend
	_, err = svc.Analyze(context.Background(), project)
	require.Error(t, err)
	analyzer.AssertNumberOfCalls(t, "Analyze", 2)
}
