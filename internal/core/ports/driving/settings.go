package driving

import "github.com/custodia-labs/tutorbot/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by key, e.g. "voice.provider".
	Set(key, value string) error

	// Reset restores a single setting to its default.
	Reset(key string) error

	// Keys returns every supported setting key.
	Keys() []string

	// Validate checks that the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
