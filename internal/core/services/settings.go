package services

import (
	"fmt"

	"github.com/custodia-labs/pagebridge/internal/core/classifier"
	"github.com/custodia-labs/pagebridge/internal/core/domain"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driven"
	"github.com/custodia-labs/pagebridge/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keySuffixes       = "classifier.suffixes"
	keyRules          = "classifier.rules"
	keyCacheSize      = "cache.size"
	keyStorageBackend = "storage.backend"
	keyStorageDir     = "storage.dir"
	keyOutputIndent   = "output.indent"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings. Missing or invalid values
// fall back to the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Classifier: domain.ClassifierSettings{
			Suffixes: s.getStringSlice(keySuffixes, defaults.Classifier.Suffixes),
			Rules:    s.configStore.GetStringSlice(keyRules),
		},
		Cache: domain.CacheSettings{
			Size: s.getInt(keyCacheSize, defaults.Cache.Size),
		},
		Storage: domain.StorageSettings{
			Backend: s.getStorageBackend(defaults.Storage.Backend),
			Dir:     s.configStore.GetString(keyStorageDir),
		},
		Output: domain.OutputSettings{
			Indent: s.getBool(keyOutputIndent, defaults.Output.Indent),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keySuffixes, settings.Classifier.Suffixes); err != nil {
		return fmt.Errorf("save classifier suffixes: %w", err)
	}
	if err := s.configStore.Set(keyRules, settings.Classifier.Rules); err != nil {
		return fmt.Errorf("save classifier rules: %w", err)
	}
	if err := s.configStore.Set(keyCacheSize, settings.Cache.Size); err != nil {
		return fmt.Errorf("save cache size: %w", err)
	}
	if err := s.configStore.Set(keyStorageBackend, settings.Storage.Backend.String()); err != nil {
		return fmt.Errorf("save storage backend: %w", err)
	}
	if settings.Storage.Dir != "" {
		if err := s.configStore.Set(keyStorageDir, settings.Storage.Dir); err != nil {
			return fmt.Errorf("save storage dir: %w", err)
		}
	}
	if err := s.configStore.Set(keyOutputIndent, settings.Output.Indent); err != nil {
		return fmt.Errorf("save output indent: %w", err)
	}

	return nil
}

// SetStorageBackend updates the history backend.
func (s *SettingsService) SetStorageBackend(backend domain.StorageBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Storage.Backend = backend

	return s.Save(settings)
}

// Validate checks the stored settings. Unlike Get it reports invalid values
// instead of replacing them.
func (s *SettingsService) Validate() error {
	if v := s.configStore.GetString(keyStorageBackend); v != "" && !domain.StorageBackend(v).IsValid() {
		return fmt.Errorf("%w: storage backend %q", domain.ErrInvalidInput, v)
	}
	if s.configStore.GetInt(keyCacheSize) < 0 {
		return fmt.Errorf("%w: cache size must not be negative", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if _, err := classifier.FromSettings(settings.Classifier); err != nil {
		return err
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getStorageBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := s.configStore.GetString(keyStorageBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.StorageBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
