package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyKnowledgeBackend  = "knowledge.backend"
	keyKnowledgeDir      = "knowledge.dir"
	keyKnowledgeDatabase = "knowledge.database"
	keySubjectsDefault   = "subjects.default"
	keySubjectsKnown     = "subjects.known"
	keyMatcherCache      = "matcher.cache"
	keyVoiceProvider     = "voice.provider"
	keyVoiceBaseURL      = "voice.base_url"
	keyVoiceAPIKey       = "voice.api_key"
	keyVoiceModel        = "voice.model"
	keyVoiceSpeechModel  = "voice.speech_model"
	keyVoiceVoice        = "voice.voice"
	keyVoiceSpeakCmd     = "voice.speak_command"
	keyVoiceTranscribe   = "voice.transcribe_command"
	keyVoicePlayCmd      = "voice.play_command"
	keyVoiceRate         = "voice.rate"
)

var settingKeys = []string{
	keyKnowledgeBackend,
	keyKnowledgeDir,
	keyKnowledgeDatabase,
	keySubjectsDefault,
	keySubjectsKnown,
	keyMatcherCache,
	keyVoiceProvider,
	keyVoiceBaseURL,
	keyVoiceAPIKey,
	keyVoiceModel,
	keyVoiceSpeechModel,
	keyVoiceVoice,
	keyVoiceSpeakCmd,
	keyVoiceTranscribe,
	keyVoicePlayCmd,
	keyVoiceRate,
}

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

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Knowledge: domain.KnowledgeSettings{
			Backend:     s.getBackend(defaults.Knowledge.Backend),
			Dir:         s.configStore.GetString(keyKnowledgeDir),
			DatabaseDir: s.configStore.GetString(keyKnowledgeDatabase),
		},
		Subjects: domain.SubjectSettings{
			Default: domain.Subject(s.getString(keySubjectsDefault, defaults.Subjects.Default.String())),
			Known:   s.getSubjects(defaults.Subjects.Known),
		},
		Matcher: domain.MatcherSettings{
			Cache: s.getBool(keyMatcherCache, defaults.Matcher.Cache),
		},
		Voice: domain.VoiceSettings{
			Provider:          s.getVoiceProvider(defaults.Voice.Provider),
			BaseURL:           s.configStore.GetString(keyVoiceBaseURL), // Empty means the public OpenAI endpoint
			APIKey:            s.configStore.GetString(keyVoiceAPIKey),
			TranscribeModel:   s.getString(keyVoiceModel, defaults.Voice.TranscribeModel),
			SpeechModel:       s.getString(keyVoiceSpeechModel, defaults.Voice.SpeechModel),
			Voice:             s.getString(keyVoiceVoice, defaults.Voice.Voice),
			SpeakCommand:      s.getString(keyVoiceSpeakCmd, defaults.Voice.SpeakCommand),
			TranscribeCommand: s.configStore.GetString(keyVoiceTranscribe),
			PlayCommand:       s.getString(keyVoicePlayCmd, defaults.Voice.PlayCommand),
			Rate:              s.getInt(keyVoiceRate, defaults.Voice.Rate),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save knowledge settings
	if err := s.configStore.Set(keyKnowledgeBackend, settings.Knowledge.Backend.String()); err != nil {
		return fmt.Errorf("save knowledge backend: %w", err)
	}
	if err := s.configStore.Set(keyKnowledgeDir, settings.Knowledge.Dir); err != nil {
		return fmt.Errorf("save knowledge dir: %w", err)
	}
	if err := s.configStore.Set(keyKnowledgeDatabase, settings.Knowledge.DatabaseDir); err != nil {
		return fmt.Errorf("save knowledge database: %w", err)
	}

	// Save subject catalog
	if err := s.configStore.Set(keySubjectsDefault, settings.Subjects.Default.String()); err != nil {
		return fmt.Errorf("save default subject: %w", err)
	}
	known := make([]string, len(settings.Subjects.Known))
	for i, subject := range settings.Subjects.Known {
		known[i] = subject.String()
	}
	if err := s.configStore.Set(keySubjectsKnown, known); err != nil {
		return fmt.Errorf("save known subjects: %w", err)
	}

	if err := s.configStore.Set(keyMatcherCache, settings.Matcher.Cache); err != nil {
		return fmt.Errorf("save matcher cache: %w", err)
	}

	// Save voice settings
	if err := s.configStore.Set(keyVoiceProvider, settings.Voice.Provider.String()); err != nil {
		return fmt.Errorf("save voice provider: %w", err)
	}
	if err := s.configStore.Set(keyVoiceBaseURL, settings.Voice.BaseURL); err != nil {
		return fmt.Errorf("save voice base_url: %w", err)
	}
	if settings.Voice.APIKey != "" {
		if err := s.configStore.Set(keyVoiceAPIKey, settings.Voice.APIKey); err != nil {
			return fmt.Errorf("save voice api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyVoiceModel, settings.Voice.TranscribeModel); err != nil {
		return fmt.Errorf("save voice model: %w", err)
	}
	if err := s.configStore.Set(keyVoiceSpeechModel, settings.Voice.SpeechModel); err != nil {
		return fmt.Errorf("save voice speech_model: %w", err)
	}
	if err := s.configStore.Set(keyVoiceVoice, settings.Voice.Voice); err != nil {
		return fmt.Errorf("save voice name: %w", err)
	}
	if err := s.configStore.Set(keyVoiceSpeakCmd, settings.Voice.SpeakCommand); err != nil {
		return fmt.Errorf("save speak command: %w", err)
	}
	if err := s.configStore.Set(keyVoiceTranscribe, settings.Voice.TranscribeCommand); err != nil {
		return fmt.Errorf("save transcribe command: %w", err)
	}
	if err := s.configStore.Set(keyVoicePlayCmd, settings.Voice.PlayCommand); err != nil {
		return fmt.Errorf("save play command: %w", err)
	}
	if err := s.configStore.Set(keyVoiceRate, settings.Voice.Rate); err != nil {
		return fmt.Errorf("save voice rate: %w", err)
	}

	return nil
}

// Set updates a single setting from its string form.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any
	switch key {
	case keyKnowledgeBackend:
		backend := domain.KnowledgeBackend(value)
		if !backend.IsValid() {
			return fmt.Errorf("invalid knowledge backend: %s: %w", value, domain.ErrInvalidInput)
		}
		stored = backend.String()
	case keyVoiceProvider:
		provider := domain.VoiceProvider(value)
		if !provider.IsValid() {
			return fmt.Errorf("invalid voice provider: %s: %w", value, domain.ErrInvalidInput)
		}
		stored = provider.String()
	case keySubjectsDefault:
		if value == "" {
			return fmt.Errorf("default subject cannot be empty: %w", domain.ErrInvalidInput)
		}
		name := domain.Subject(strings.ToLower(value))
		if !name.IsValid() {
			return fmt.Errorf("invalid subject name %q: %w", value, domain.ErrInvalidInput)
		}
		stored = name.String()
	case keySubjectsKnown:
		names := splitList(value)
		for _, name := range names {
			if !domain.Subject(name).IsValid() {
				return fmt.Errorf("invalid subject name %q: %w", name, domain.ErrInvalidInput)
			}
		}
		stored = names
	case keyMatcherCache:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %w", key, domain.ErrInvalidInput)
		}
		stored = b
	case keyVoiceRate:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid rate %q: %w", value, domain.ErrInvalidInput)
		}
		stored = n
	case keyKnowledgeDir, keyKnowledgeDatabase, keyVoiceBaseURL, keyVoiceAPIKey,
		keyVoiceModel, keyVoiceSpeechModel, keyVoiceVoice, keyVoiceSpeakCmd, keyVoiceTranscribe, keyVoicePlayCmd:
		stored = value
	default:
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset removes a stored setting so its default applies again.
func (s *SettingsService) Reset(key string) error {
	if !isSettingKey(key) {
		return fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}
	if err := s.configStore.Delete(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// Keys returns every supported setting key.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingKeys))
	copy(keys, settingKeys)
	return keys
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Knowledge.Backend.IsValid() {
		return fmt.Errorf("invalid knowledge backend: %s", settings.Knowledge.Backend)
	}

	catalog := settings.Subjects.Catalog()
	if len(catalog.Switchable()) == 0 {
		return fmt.Errorf("no switchable subjects configured: %w", domain.ErrInvalidInput)
	}
	for _, subject := range catalog.All() {
		if !subject.IsValid() {
			return fmt.Errorf("invalid subject name %q: %w", subject, domain.ErrInvalidInput)
		}
	}

	if settings.Voice.Provider.RequiresAPIKey() && settings.Voice.APIKey == "" {
		return fmt.Errorf("voice provider %q requires an API key", settings.Voice.Provider.Description())
	}
	if settings.Voice.Provider == domain.VoiceProviderCommand && !settings.Voice.IsConfigured() {
		return fmt.Errorf("voice provider %q requires a speak or transcribe command",
			settings.Voice.Provider.Description())
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
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

func (s *SettingsService) getBackend(defaultVal domain.KnowledgeBackend) domain.KnowledgeBackend {
	val := s.configStore.GetString(keyKnowledgeBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.KnowledgeBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getVoiceProvider(defaultVal domain.VoiceProvider) domain.VoiceProvider {
	val := s.configStore.GetString(keyVoiceProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.VoiceProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getSubjects(defaultVal []domain.Subject) []domain.Subject {
	vals := s.configStore.GetStringSlice(keySubjectsKnown)
	if len(vals) == 0 {
		return defaultVal
	}
	subjects := make([]domain.Subject, 0, len(vals))
	for _, v := range vals {
		subjects = append(subjects, domain.Subject(v))
	}
	return subjects
}

func isSettingKey(key string) bool {
	for _, k := range settingKeys {
		if k == key {
			return true
		}
	}
	return false
}

// splitList parses "a, b,c" into its non-empty lowercased items.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			items = append(items, p)
		}
	}
	return items
}
