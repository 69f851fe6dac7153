package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pagebridge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/services"
)

func TestSettingsCmd_Show(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, stdout, "[Classifier]")
	assert.Contains(t, stdout, "_tablet")
	assert.Contains(t, stdout, "Rules: (none)")
	assert.Contains(t, stdout, "Size: 128 outcomes")
	assert.Contains(t, stdout, "SQLite (persistent history)")
	assert.Contains(t, stdout, "Indent JSON: false")
}

func TestSettingsCmd_ShowCustom(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = services.NewSettingsService(memory.NewConfigStore(map[string]any{
		"classifier.rules": []any{"content:exact:cta_label"},
		"cache.size":       0,
	}))

	stdout, _, err := execute(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Rule: content:exact:cta_label")
	assert.Contains(t, stdout, "Size: disabled")
}

func TestSettingsCmd_Backend(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute(t, "", "settings", "backend", "Memory")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Memory (history discarded on exit)")
	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.StorageMemory, settings.Storage.Backend)
}

func TestSettingsCmd_BackendInvalid(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, _, err := execute(t, "", "settings", "backend", "redis")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsCmd_Validate(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	stdout, _, err := execute(t, "", "settings", "validate")

	require.NoError(t, err)
	assert.Contains(t, stdout, "Settings are valid")

	settingsService = services.NewSettingsService(memory.NewConfigStore(map[string]any{
		"classifier.rules": []any{"content:fuzzy:x"},
	}))
	stdout, _, err = execute(t, "", "settings", "validate")
	require.Error(t, err)
	assert.Contains(t, stdout, "Invalid settings")
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	settingsService = nil

	_, _, err := execute(t, "", "settings")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
