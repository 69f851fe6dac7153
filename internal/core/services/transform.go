package services

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/custodia-labs/pagebridge/internal/convert"
	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/engine"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
	"github.com/custodia-labs/pagebridge/internal/logger"
	"github.com/custodia-labs/pagebridge/internal/transformers"
)

// Ensure TransformService implements the interface.
var _ driving.TransformService = (*TransformService)(nil)

// TransformService runs parse, zone transform, conversion and serialize
// for one document and records the run.
type TransformService struct {
	adapters     *AdapterRegistry
	engine       *engine.Engine
	converter    *convert.Converter
	transformers *transformers.Registry
	runStore     driven.RunStore
	cache        driven.TransformCache
	indent       bool
	now          func() time.Time
}

// TransformOption configures a TransformService.
type TransformOption func(*TransformService)

// WithCache memoizes outcomes. A nil cache disables memoization.
func WithCache(c driven.TransformCache) TransformOption {
	return func(s *TransformService) {
		s.cache = c
	}
}

// WithIndent pretty-prints output for adapters that support it.
func WithIndent(indent bool) TransformOption {
	return func(s *TransformService) {
		s.indent = indent
	}
}

// WithClock replaces time.Now for run timestamps.
func WithClock(now func() time.Time) TransformOption {
	return func(s *TransformService) {
		s.now = now
	}
}

// NewTransformService creates a transform service. runStore may be nil, in
// which case runs are not persisted.
func NewTransformService(
	adapters *AdapterRegistry,
	eng *engine.Engine,
	converter *convert.Converter,
	registry *transformers.Registry,
	runStore driven.RunStore,
	opts ...TransformOption,
) *TransformService {
	s := &TransformService{
		adapters:     adapters,
		engine:       eng,
		converter:    converter,
		transformers: registry,
		runStore:     runStore,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transform parses req.Data, rewrites the selected zones, converts to the
// target framework when it differs from the source and serializes the
// result. Identical requests are answered from the cache.
func (s *TransformService) Transform(ctx context.Context, req driving.TransformRequest) (*domain.TransformOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Source == "" {
		return nil, fmt.Errorf("%w: source framework required", domain.ErrInvalidInput)
	}
	if req.Target == "" {
		req.Target = req.Source
	}
	if req.Transformer == "" {
		req.Transformer = transformers.Default
	}

	src, err := s.adapters.Get(req.Source)
	if err != nil {
		return nil, err
	}
	dst, err := s.adapters.Get(req.Target)
	if err != nil {
		return nil, err
	}
	req.Source, req.Target = src.Framework(), dst.Framework()
	if req.Target != req.Source && !s.converter.Supports(req.Target) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrUnsupportedConversion, src.Framework(), dst.Framework())
	}
	fn, err := s.transformers.Build(req.Transformer, req.Config)
	if err != nil {
		return nil, err
	}

	fingerprint, err := Fingerprint(req)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if hit, ok := s.cache.Get(fingerprint); ok {
			logger.Debug("Cache hit for %s (%s)", req.Input, fingerprint[:12])
			hit.Run = s.newRun(req, fingerprint, hit.Run)
			hit.Run.Cached = true
			if err := s.record(ctx, &hit.Run); err != nil {
				return nil, err
			}
			return hit, nil
		}
	}

	outcome, err := s.run(ctx, req, src, dst, fn)
	if err != nil {
		return nil, err
	}
	outcome.Run = s.newRun(req, fingerprint, outcome.Run)
	if err := s.record(ctx, &outcome.Run); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(fingerprint, outcome)
	}
	return outcome, nil
}

func (s *TransformService) run(
	ctx context.Context,
	req driving.TransformRequest,
	src, dst driven.FormatAdapter,
	fn engine.Transformer,
) (*domain.TransformOutcome, error) {
	doc, err := src.Parse(ctx, req.Data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src.Framework(), err)
	}

	res, err := s.engine.Transform(doc.Root, req.Zones, fn)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	logger.Debug("Transformed %d elements, %d zones modified, %.1f%% metadata preserved",
		len(res.Elements), len(res.ZonesModified), res.MetadataPreserved)

	out := &domain.Document{Framework: src.Framework(), Root: res.Tree}
	var unmapped []string
	if dst.Framework() != src.Framework() {
		conv, err := s.converter.Convert(out, src, dst.Framework())
		if err != nil {
			return nil, fmt.Errorf("convert: %w", err)
		}
		out = conv.Document
		unmapped = conv.Unmapped
		if len(unmapped) > 0 {
			logger.Warn("%d elements had no %s equivalent", len(unmapped), dst.Framework())
		}
	}

	data, err := s.serialize(ctx, dst, out)
	if err != nil {
		return nil, fmt.Errorf("serialize %s: %w", dst.Framework(), err)
	}

	return &domain.TransformOutcome{
		Run: domain.TransformRun{
			MetadataPreserved: res.MetadataPreserved,
			KeysTotal:         res.KeysTotal,
			KeysPreserved:     res.KeysPreserved,
			ZonesModified:     len(res.ZonesModified),
		},
		Output:        data,
		ZonesModified: res.ZonesModified,
		Unmapped:      unmapped,
	}, nil
}

func (s *TransformService) serialize(ctx context.Context, a driven.FormatAdapter, doc *domain.Document) ([]byte, error) {
	if cs, ok := a.(driven.ConfigurableSerializer); ok && s.indent {
		return cs.SerializeWith(ctx, doc, driven.SerializeOptions{Indent: true})
	}
	return a.Serialize(ctx, doc)
}

// newRun fills the request fields of a run whose metrics are in stats.
func (s *TransformService) newRun(req driving.TransformRequest, fingerprint string, stats domain.TransformRun) domain.TransformRun {
	return domain.TransformRun{
		ID:                uuid.New().String(),
		Input:             req.Input,
		Source:            req.Source,
		Target:            req.Target,
		Zones:             req.Zones,
		Transformer:       req.Transformer,
		Fingerprint:       fingerprint,
		MetadataPreserved: stats.MetadataPreserved,
		KeysTotal:         stats.KeysTotal,
		KeysPreserved:     stats.KeysPreserved,
		ZonesModified:     stats.ZonesModified,
		CreatedAt:         s.now().UTC(),
	}
}

func (s *TransformService) record(ctx context.Context, run *domain.TransformRun) error {
	if s.runStore == nil {
		return nil
	}
	if err := s.runStore.Save(ctx, run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

// History returns recent runs, newest first.
func (s *TransformService) History(ctx context.Context, limit int) ([]domain.TransformRun, error) {
	if s.runStore == nil {
		return nil, nil
	}
	return s.runStore.List(ctx, limit)
}

// Fingerprint returns the hex BLAKE3 digest identifying what a request
// computes. Input is excluded: the same bytes under another name produce
// the same output.
func Fingerprint(req driving.TransformRequest) (string, error) {
	target := req.Target
	if target == "" {
		target = req.Source
	}
	name := req.Transformer
	if name == "" {
		name = transformers.Default
	}
	cfg, err := json.Marshal(req.Config)
	if err != nil {
		return "", fmt.Errorf("%w: transformer config: %v", domain.ErrInvalidInput, err)
	}

	h := blake3.New()
	for _, part := range [][]byte{
		req.Data,
		[]byte(req.Source),
		[]byte(target),
		[]byte(req.Zones.String()),
		[]byte(name),
		cfg,
	} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		_, _ = h.Write(n[:])
		_, _ = h.Write(part)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
