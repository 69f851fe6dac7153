package mcp

import (
	"context"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
)

// mockTransformService is a mock implementation of driving.TransformService.
type mockTransformService struct {
	outcome *domain.TransformOutcome
	runs    []domain.TransformRun
	last    driving.TransformRequest
	err     error
}

func (m *mockTransformService) Transform(
	_ context.Context,
	req driving.TransformRequest,
) (*domain.TransformOutcome, error) {
	m.last = req
	return m.outcome, m.err
}

func (m *mockTransformService) History(_ context.Context, _ int) ([]domain.TransformRun, error) {
	return m.runs, m.err
}

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	analysis     *domain.Analysis
	zones        []domain.ElementZones
	verification *domain.Verification
	tokens       *domain.DesignTokens
	err          error
}

func (m *mockAnalysisService) Analyze(_ context.Context, _ string, _ []byte) (*domain.Analysis, error) {
	return m.analysis, m.err
}

func (m *mockAnalysisService) Zones(_ context.Context, _ string, _ []byte) ([]domain.ElementZones, error) {
	return m.zones, m.err
}

func (m *mockAnalysisService) Verify(_ context.Context, _ string, _ []byte) (*domain.Verification, error) {
	return m.verification, m.err
}

func (m *mockAnalysisService) Styles(_ context.Context, _ string, _ []byte) (*domain.DesignTokens, error) {
	return m.tokens, m.err
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	frameworks   []driving.FrameworkInfo
	transformers []string
}

func (m *mockCatalogService) Frameworks() []driving.FrameworkInfo {
	return m.frameworks
}

func (m *mockCatalogService) Transformers() []string {
	return m.transformers
}

func newMockPorts() *Ports {
	return &Ports{
		Transform: &mockTransformService{},
		Analysis:  &mockAnalysisService{},
	}
}
