package driven

// ConfigStore is the flattened key/value view of the user's config file.
// Keys are dotted section paths such as "classifier.suffixes".
type ConfigStore interface {
	// Get returns the raw value stored under key.
	Get(key string) (any, bool)

	// GetString returns "" when key is missing or not a string.
	GetString(key string) string

	// GetInt returns 0 when key is missing or not an integer.
	GetInt(key string) int

	// GetBool returns false when key is missing or not a boolean.
	GetBool(key string) bool

	// GetStringSlice returns nil when key is missing or not a list.
	GetStringSlice(key string) []string

	// Set stores value under key and persists the file.
	Set(key string, value any) error

	// Save writes the configuration to disk.
	Save() error

	// Load re-reads the configuration from disk.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
