package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagebridge/internal/adapters/driven/cache/lru"
	"github.com/custodia-labs/pagebridge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagebridge/internal/convert"
	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/engine"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
	"github.com/custodia-labs/pagebridge/internal/transformers"
)

// page has seven attribute keys, two of them content.
const page = `[{"id":"s1","elType":"section","settings":{"background_color":"#fff","padding":"10"},"elements":[` +
	`{"id":"c1","elType":"column","settings":{"_column_size":100},"elements":[` +
	`{"id":"w1","elType":"widget","widgetType":"heading","settings":{"title":"Hello","header_size":"h2"},"elements":[]},` +
	`{"id":"w2","elType":"widget","widgetType":"text-editor","settings":{"editor":"<p>Body copy</p>","entrance_animation":"fadeIn"},"elements":[]}` +
	`]}]}]`

var contentOnly = domain.NewZoneSet(domain.ZoneContent)

// renamed serves an existing dialect under another framework name.
type renamed struct {
	driven.FormatAdapter
	name string
}

func (r renamed) Framework() string { return r.name }

type fixture struct {
	adapters  *AdapterRegistry
	runs      *memory.RunStore
	transform *TransformService
}

func newFixture(t *testing.T, opts ...TransformOption) *fixture {
	t.Helper()
	adapters := NewAdapterRegistry()
	reg := transformers.NewDefaultRegistry()
	reg.Register("retype", func(map[string]any) (engine.Transformer, error) {
		return func(z domain.Zone) (domain.Zone, error) {
			z.Type = domain.ZoneMeta
			return z, nil
		}, nil
	})

	tick := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}

	runs := memory.NewRunStore()
	opts = append([]TransformOption{WithClock(clock)}, opts...)
	return &fixture{
		adapters:  adapters,
		runs:      runs,
		transform: NewTransformService(adapters, engine.New(nil), convert.New(nil), reg, runs, opts...),
	}
}

func request(transformer string, zones domain.ZoneSet) driving.TransformRequest {
	return driving.TransformRequest{
		Input:       "home.json",
		Data:        []byte(page),
		Source:      "elementor",
		Zones:       zones,
		Transformer: transformer,
	}
}

func TestTransform_IdentityReproducesInput(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.transform.Transform(context.Background(), request("", contentOnly))

	require.NoError(t, err)
	assert.Equal(t, page, string(outcome.Output))
	assert.Empty(t, outcome.ZonesModified)
	assert.Empty(t, outcome.Unmapped)

	run := outcome.Run
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "home.json", run.Input)
	assert.Equal(t, "elementor", run.Source)
	assert.Equal(t, "elementor", run.Target)
	assert.Equal(t, transformers.Default, run.Transformer)
	assert.Equal(t, contentOnly, run.Zones)
	assert.Equal(t, 7, run.KeysTotal)
	assert.Equal(t, 5, run.KeysPreserved)
	assert.InDelta(t, 71.43, run.MetadataPreserved, 0.01)
	assert.False(t, run.Cached)
	assert.Len(t, run.Fingerprint, 64)

	stored, err := f.runs.Get(context.Background(), run.ID)
	require.NoError(t, err)
	assert.Equal(t, run, *stored)
}

func TestTransform_RewritesOnlySelectedZones(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.transform.Transform(context.Background(), request("uppercase", contentOnly))

	require.NoError(t, err)
	out := string(outcome.Output)
	assert.Contains(t, out, `"settings":{"title":"HELLO","header_size":"h2"}`)
	assert.Contains(t, out, `"settings":{"editor":"<p>BODY COPY</p>","entrance_animation":"fadeIn"}`)
	assert.Contains(t, out, `"settings":{"background_color":"#fff","padding":"10"}`)
	assert.Equal(t, []string{"0/0/0:content", "0/0/1:content"}, outcome.ZonesModified)
	assert.Equal(t, 2, outcome.Run.ZonesModified)
}

func TestTransform_UppercaseKeepsDiviLinks(t *testing.T) {
	f := newFixture(t)
	req := request("uppercase", contentOnly)
	req.Source = "divi"
	req.Data = []byte(`[et_pb_image src="https://example.com/cat.png" alt="a cat" url="https://example.com/page" /]`)

	outcome, err := f.transform.Transform(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t,
		`[et_pb_image src="https://example.com/cat.png" alt="A CAT" url="https://example.com/page" /]`,
		string(outcome.Output))
}

func TestTransform_ConvertsToTarget(t *testing.T) {
	f := newFixture(t)
	req := request("", contentOnly)
	req.Target = "Gutenberg"

	outcome, err := f.transform.Transform(context.Background(), req)

	require.NoError(t, err)
	out := string(outcome.Output)
	assert.Contains(t, out, `<h2 class="wp-block-heading">Hello</h2>`)
	assert.Contains(t, out, "<p>Body copy</p>")
	assert.Empty(t, outcome.Unmapped)
	assert.Equal(t, "gutenberg", outcome.Run.Target)
}

func TestTransform_CacheHit(t *testing.T) {
	cache, err := lru.New(8)
	require.NoError(t, err)
	f := newFixture(t, WithCache(cache))
	ctx := context.Background()

	first, err := f.transform.Transform(ctx, request("uppercase", contentOnly))
	require.NoError(t, err)
	second, err := f.transform.Transform(ctx, request("uppercase", contentOnly))
	require.NoError(t, err)

	assert.False(t, first.Run.Cached)
	assert.True(t, second.Run.Cached)
	assert.NotEqual(t, first.Run.ID, second.Run.ID)
	assert.Equal(t, first.Run.Fingerprint, second.Run.Fingerprint)
	assert.Equal(t, first.Output, second.Output)
	assert.Equal(t, first.ZonesModified, second.ZonesModified)
	assert.True(t, second.Run.CreatedAt.After(first.Run.CreatedAt))
	assert.Equal(t, 1, cache.Len())

	// Mutating a returned outcome must not leak into the cache.
	second.Output[0] = 'X'
	third, err := f.transform.Transform(ctx, request("uppercase", contentOnly))
	require.NoError(t, err)
	assert.Equal(t, first.Output, third.Output)

	_, err = f.transform.Transform(ctx, request("uppercase", domain.AllZones()))
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	runs, err := f.runs.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 4)
}

func TestTransform_ContractViolationRecordsNothing(t *testing.T) {
	cache, err := lru.New(8)
	require.NoError(t, err)
	f := newFixture(t, WithCache(cache))

	_, err = f.transform.Transform(context.Background(), request("retype", contentOnly))

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrContractViolation)
	var cv *domain.ContractViolationError
	assert.ErrorAs(t, err, &cv)

	runs, err := f.runs.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
	assert.Zero(t, cache.Len())
}

func TestTransform_Errors(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		ctx     context.Context
		mutate  func(*driving.TransformRequest)
		wantErr error
	}{
		{"missing source", context.Background(), func(r *driving.TransformRequest) { r.Source = "" }, domain.ErrInvalidInput},
		{"unknown source", context.Background(), func(r *driving.TransformRequest) { r.Source = "wix" }, domain.ErrUnsupportedType},
		{"unknown target", context.Background(), func(r *driving.TransformRequest) { r.Target = "wix" }, domain.ErrUnsupportedType},
		{"unknown transformer", context.Background(), func(r *driving.TransformRequest) { r.Transformer = "rot13" }, domain.ErrNotFound},
		{"bad config", context.Background(), func(r *driving.TransformRequest) { r.Transformer = "replace" }, domain.ErrInvalidInput},
		{"unparseable config", context.Background(), func(r *driving.TransformRequest) {
			r.Config = map[string]any{"fn": func() {}}
		}, domain.ErrInvalidInput},
		{"cancelled", cancelled, func(*driving.TransformRequest) {}, context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := request("", contentOnly)
			tt.mutate(&req)

			_, err := f.transform.Transform(tt.ctx, req)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransform_ParseError(t *testing.T) {
	f := newFixture(t)
	req := request("", contentOnly)
	req.Data = []byte(`{"elType":`)

	_, err := f.transform.Transform(context.Background(), req)

	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "parse elementor:"), err.Error())
}

func TestTransform_UnsupportedConversion(t *testing.T) {
	f := newFixture(t)
	elementor, err := f.adapters.Get("elementor")
	require.NoError(t, err)
	f.adapters.Register(renamed{FormatAdapter: elementor, name: "oxygen"})

	req := request("", contentOnly)
	req.Target = "oxygen"
	_, err = f.transform.Transform(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrUnsupportedConversion)
}

func TestTransform_Indent(t *testing.T) {
	f := newFixture(t, WithIndent(true))

	outcome, err := f.transform.Transform(context.Background(), request("", contentOnly))

	require.NoError(t, err)
	assert.NotEqual(t, page, string(outcome.Output))
	assert.Contains(t, string(outcome.Output), "\n")
}

func TestTransform_WithoutRunStore(t *testing.T) {
	svc := NewTransformService(NewAdapterRegistry(), engine.New(nil), convert.New(nil), transformers.NewDefaultRegistry(), nil)

	_, err := svc.Transform(context.Background(), request("", contentOnly))
	require.NoError(t, err)

	runs, err := svc.History(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestTransform_History(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, name := range []string{"identity", "uppercase", "strip"} {
		_, err := f.transform.Transform(ctx, request(name, contentOnly))
		require.NoError(t, err)
	}

	runs, err := f.transform.History(ctx, 2)

	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "strip", runs[0].Transformer)
	assert.Equal(t, "uppercase", runs[1].Transformer)
}

func TestFingerprint(t *testing.T) {
	base := request("replace", contentOnly)
	base.Config = map[string]any{"find": "a", "replace": "b"}

	fp := func(mutate func(*driving.TransformRequest)) string {
		req := base
		if mutate != nil {
			mutate(&req)
		}
		s, err := Fingerprint(req)
		require.NoError(t, err)
		return s
	}
	want := fp(nil)

	assert.Equal(t, want, fp(func(r *driving.TransformRequest) { r.Input = "other.json" }))
	assert.Equal(t, want, fp(func(r *driving.TransformRequest) { r.Target = "elementor" }))
	assert.Equal(t, want, fp(func(r *driving.TransformRequest) {
		r.Config = map[string]any{"replace": "b", "find": "a"}
	}))

	assert.NotEqual(t, want, fp(func(r *driving.TransformRequest) { r.Data = append([]byte(page), ' ') }))
	assert.NotEqual(t, want, fp(func(r *driving.TransformRequest) { r.Target = "gutenberg" }))
	assert.NotEqual(t, want, fp(func(r *driving.TransformRequest) { r.Zones = domain.AllZones() }))
	assert.NotEqual(t, want, fp(func(r *driving.TransformRequest) { r.Transformer = "identity" }))
	assert.NotEqual(t, want, fp(func(r *driving.TransformRequest) { r.Config = map[string]any{"find": "a"} }))

	empty := request("", contentOnly)
	named := request(transformers.Default, contentOnly)
	a, err := Fingerprint(empty)
	require.NoError(t, err)
	b, err := Fingerprint(named)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
