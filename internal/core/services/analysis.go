package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/engine"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
	"github.com/custodia-labs/pagebridge/internal/htmltext"
	"github.com/custodia-labs/pagebridge/internal/styles"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// DefaultPreviewLength is the rune limit for content previews.
const DefaultPreviewLength = 80

// AnalysisService inspects documents without rewriting them.
type AnalysisService struct {
	adapters   *AdapterRegistry
	engine     *engine.Engine
	previewLen int
}

// NewAnalysisService creates an analysis service. previewLen cuts content
// item values to plain-text previews; zero or less keeps them whole.
func NewAnalysisService(adapters *AdapterRegistry, eng *engine.Engine, previewLen int) *AnalysisService {
	return &AnalysisService{
		adapters:   adapters,
		engine:     eng,
		previewLen: previewLen,
	}
}

// Analyze summarises the zone make-up of a document.
func (s *AnalysisService) Analyze(ctx context.Context, framework string, data []byte) (*domain.Analysis, error) {
	_, doc, err := s.parse(ctx, framework, data)
	if err != nil {
		return nil, err
	}
	a, err := s.engine.Analyze(doc.Root)
	if err != nil {
		return nil, err
	}
	if s.previewLen > 0 {
		for i := range a.ContentItems {
			a.ContentItems[i].Value = htmltext.Preview(a.ContentItems[i].Value, s.previewLen)
		}
	}
	return a, nil
}

// Zones returns the per-element zone list in pre-order.
func (s *AnalysisService) Zones(ctx context.Context, framework string, data []byte) ([]domain.ElementZones, error) {
	_, doc, err := s.parse(ctx, framework, data)
	if err != nil {
		return nil, err
	}
	return s.engine.Classify(doc.Root)
}

// Styles collects colours, font families and spacing from the styling
// zones, together with any site kit globals in the document settings.
func (s *AnalysisService) Styles(ctx context.Context, framework string, data []byte) (*domain.DesignTokens, error) {
	_, doc, err := s.parse(ctx, framework, data)
	if err != nil {
		return nil, err
	}
	elements, err := s.engine.Classify(doc.Root)
	if err != nil {
		return nil, err
	}
	return styles.Extract(doc.Root, elements), nil
}

// Verify checks the identity law on a document. Every zone goes through
// the identity transformer; the output is serialized, parsed again and
// compared with the first parse. MetadataPreserved is reported for a
// content-only pass, the common case for text rewrites.
func (s *AnalysisService) Verify(ctx context.Context, framework string, data []byte) (*domain.Verification, error) {
	a, doc, err := s.parse(ctx, framework, data)
	if err != nil {
		return nil, err
	}

	full, err := s.engine.Transform(doc.Root, domain.AllZones(), engine.Identity)
	if err != nil {
		return nil, err
	}
	content, err := s.engine.Transform(doc.Root, domain.NewZoneSet(domain.ZoneContent), engine.Identity)
	if err != nil {
		return nil, err
	}

	out, err := a.Serialize(ctx, &domain.Document{Framework: doc.Framework, Root: full.Tree})
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", a.Framework(), err)
	}
	again, err := a.Parse(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("reparse %s: %w", a.Framework(), err)
	}

	v := &domain.Verification{
		ByteIdentical:     bytes.Equal(out, data),
		MetadataPreserved: content.MetadataPreserved,
		Elements:          doc.Root.Count(),
		Keys:              full.KeysTotal,
	}
	if p, ok := firstDifference(doc.Root, again.Root, domain.Path{}); ok {
		v.FirstDifference = p.String()
	} else {
		v.Lossless = true
	}
	return v, nil
}

func (s *AnalysisService) parse(ctx context.Context, framework string, data []byte) (driven.FormatAdapter, *domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	a, err := s.adapters.Get(framework)
	if err != nil {
		return nil, nil, err
	}
	doc, err := a.Parse(ctx, data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", a.Framework(), err)
	}
	return a, doc, nil
}

// firstDifference returns the pre-order first element at which a and b
// differ, comparing each element without its children first.
func firstDifference(a, b *domain.Element, path domain.Path) (domain.Path, bool) {
	if a.Type != b.Type || a.Content != b.Content ||
		!a.Attributes.Equal(b.Attributes) || !a.Frame.Equal(b.Frame) ||
		len(a.Children) != len(b.Children) {
		return path, true
	}
	for i := range a.Children {
		if p, ok := firstDifference(a.Children[i], b.Children[i], path.Child(i)); ok {
			return p, true
		}
	}
	return nil, false
}
