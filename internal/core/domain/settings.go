package domain

const unknownDescription = "Unknown"

// StorageBackend selects where transform history is persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageSQLite persists runs to a SQLite database file.
	StorageSQLite StorageBackend = "sqlite"

	// StorageMemory keeps runs for the lifetime of the process only.
	StorageMemory StorageBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageSQLite, StorageMemory:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageSQLite:
		return "SQLite (persistent history)"
	case StorageMemory:
		return "Memory (history discarded on exit)"
	default:
		return unknownDescription
	}
}

// DefaultOverrideSuffixes are the key suffixes that mark a responsive,
// hover or sticky override of a base setting. A key carrying one of them is
// classified into the zone of its base key. Longest first.
func DefaultOverrideSuffixes() []string {
	return []string{
		"__hover_enabled",
		"_last_edited",
		"_mobile_extra",
		"_tablet_extra",
		"_widescreen",
		"__sticky",
		"__hover",
		"_laptop",
		"_tablet",
		"_mobile",
		"_phone",
	}
}

// ClassifierSettings tune zone classification.
type ClassifierSettings struct {
	// Suffixes are the override suffixes stripped before rule matching.
	Suffixes []string

	// Rules are extra rules evaluated before the built-in table, each
	// written as "zone:matcher:pattern" (e.g. "content:exact:cta_label").
	Rules []string
}

// CacheSettings configure the transform memoization layer.
type CacheSettings struct {
	// Size is the maximum number of cached outcomes. Zero disables caching.
	Size int
}

// StorageSettings configure transform history persistence.
type StorageSettings struct {
	// Backend selects the store implementation.
	Backend StorageBackend

	// Dir is the data directory. Empty means ~/.pagebridge/data.
	Dir string
}

// OutputSettings configure serialization.
type OutputSettings struct {
	// Indent pretty-prints JSON dialects.
	Indent bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Classifier holds zone classification settings.
	Classifier ClassifierSettings

	// Cache holds transform cache settings.
	Cache CacheSettings

	// Storage holds history persistence settings.
	Storage StorageSettings

	// Output holds serialization settings.
	Output OutputSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Classifier: ClassifierSettings{
			Suffixes: DefaultOverrideSuffixes(),
		},
		Cache: CacheSettings{
			Size: 128,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
		},
	}
}

// AllStorageBackends returns all available backends.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageSQLite, StorageMemory}
}
