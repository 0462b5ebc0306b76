package driving

import "github.com/kridos/AITabManager/internal/core/domain"

// SettingsService manages user configuration.
type SettingsService interface {
	// Get retrieves current settings.
	Get() (domain.Settings, error)

	// Save validates and persists settings.
	Save(settings domain.Settings) error

	// SetProvider configures the AI provider and credential.
	SetProvider(provider domain.AIProvider, model, apiKey string) error

	// SetSearchSensitivity updates the similarity knob ([1,10]).
	SetSearchSensitivity(sensitivity int) error
}
