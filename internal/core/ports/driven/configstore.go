package driven

import "github.com/kridos/AITabManager/internal/core/domain"

// ConfigStore persists user settings.
// Implementations handle the storage format (e.g., TOML files).
type ConfigStore interface {
	// Load reads settings from storage. Returns defaults when nothing is stored.
	Load() (domain.Settings, error)

	// Save persists settings to storage.
	Save(settings domain.Settings) error

	// Path returns the backing file path, or empty for non-file stores.
	Path() string
}
