package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagebridge/internal/convert"
	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/transformers"
)

func TestAdapterRegistry_Get(t *testing.T) {
	r := NewAdapterRegistry()

	assert.Equal(t, []string{"avada", "bootstrap", "divi", "elementor", "gutenberg", "wpbakery"}, r.Names())

	a, err := r.Get("WPBakery")
	require.NoError(t, err)
	assert.Equal(t, "wpbakery", a.Framework())

	_, err = r.Get("wix")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestAdapterRegistry_ForExtension(t *testing.T) {
	r := NewAdapterRegistry()

	tests := map[string]string{
		".json":   "elementor",
		"html":    "gutenberg",
		".HTML":   "gutenberg",
		".divi":   "divi",
		".vc":     "wpbakery",
		".fusion": "avada",
		".htm":    "bootstrap",
	}
	for ext, want := range tests {
		t.Run(ext, func(t *testing.T) {
			a, err := r.ForExtension(ext)
			require.NoError(t, err)
			assert.Equal(t, want, a.Framework())
		})
	}

	_, err := r.ForExtension(".xml")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdapterRegistry_Empty(t *testing.T) {
	r := NewEmptyAdapterRegistry()

	assert.Empty(t, r.Names())
	assert.Empty(t, r.All())
	_, err := r.Get("elementor")
	assert.Error(t, err)
}

func TestCatalogService_Frameworks(t *testing.T) {
	conv := convert.New(nil)
	svc := NewCatalogService(NewAdapterRegistry(), conv, transformers.NewDefaultRegistry())

	infos := svc.Frameworks()

	require.Len(t, infos, 6)
	assert.Equal(t, "avada", infos[0].Name)
	assert.Equal(t, "bootstrap", infos[1].Name)
	assert.Equal(t, "elementor", infos[3].Name)
	assert.Equal(t, []string{".json"}, infos[3].Extensions)
	for _, info := range infos {
		assert.Equal(t, conv.Kinds(info.Name), info.Kinds, info.Name)
	}
}

func TestCatalogService_Transformers(t *testing.T) {
	svc := NewCatalogService(NewAdapterRegistry(), convert.New(nil), transformers.NewDefaultRegistry())

	names := svc.Transformers()

	assert.Contains(t, names, transformers.Default)
	assert.Contains(t, names, "sanitize")
	assert.Contains(t, names, "markdown")
	assert.IsIncreasing(t, names)
}
