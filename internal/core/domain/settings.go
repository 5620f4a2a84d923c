package domain

const unknownDescription = "Unknown"

// KnowledgeBackend selects where subject knowledge bases are read from.
type KnowledgeBackend string

// Available knowledge backends.
const (
	// KnowledgeBackendFile reads one JSON file per subject.
	KnowledgeBackendFile KnowledgeBackend = "file"

	// KnowledgeBackendSQLite reads records imported into the SQLite database.
	KnowledgeBackendSQLite KnowledgeBackend = "sqlite"
)

// IsValid returns true if the backend is recognised.
func (b KnowledgeBackend) IsValid() bool {
	switch b {
	case KnowledgeBackendFile, KnowledgeBackendSQLite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b KnowledgeBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b KnowledgeBackend) Description() string {
	switch b {
	case KnowledgeBackendFile:
		return "JSON files (one per subject)"
	case KnowledgeBackendSQLite:
		return "SQLite database (imported)"
	default:
		return unknownDescription
	}
}

// VoiceProvider identifies the speech-to-text and text-to-speech provider.
type VoiceProvider string

// Available voice providers.
const (
	// VoiceProviderNone disables voice input and output.
	VoiceProviderNone VoiceProvider = "none"

	// VoiceProviderOpenAI uses an OpenAI-compatible audio API.
	VoiceProviderOpenAI VoiceProvider = "openai"

	// VoiceProviderCommand runs local programs (e.g. espeak).
	VoiceProviderCommand VoiceProvider = "command"
)

// IsValid returns true if the provider is recognised.
func (p VoiceProvider) IsValid() bool {
	switch p {
	case VoiceProviderNone, VoiceProviderOpenAI, VoiceProviderCommand:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p VoiceProvider) RequiresAPIKey() bool {
	return p == VoiceProviderOpenAI
}

// String returns the string representation.
func (p VoiceProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p VoiceProvider) Description() string {
	switch p {
	case VoiceProviderNone:
		return "Disabled"
	case VoiceProviderOpenAI:
		return "OpenAI audio API (cloud)"
	case VoiceProviderCommand:
		return "Local commands"
	default:
		return unknownDescription
	}
}

// KnowledgeSettings holds knowledge storage configuration.
type KnowledgeSettings struct {
	// Backend selects the knowledge store implementation.
	Backend KnowledgeBackend

	// Dir is the directory holding <subject>.json files.
	Dir string

	// DatabaseDir is the directory holding the SQLite database.
	DatabaseDir string
}

// SubjectSettings holds the subject catalog configuration.
type SubjectSettings struct {
	// Default is loaded at session start.
	Default Subject

	// Known are the switchable subjects in routing priority order.
	Known []Subject
}

// Catalog builds the subject catalog described by these settings.
func (s SubjectSettings) Catalog() SubjectCatalog {
	return NewSubjectCatalog(s.Default, s.Known)
}

// MatcherSettings holds similarity matcher configuration.
type MatcherSettings struct {
	// Cache keeps fitted vector spaces keyed by subject and dataset
	// fingerprint instead of re-fitting on every query.
	Cache bool
}

// VoiceSettings holds speech collaborator configuration.
type VoiceSettings struct {
	// Provider is the voice provider.
	Provider VoiceProvider

	// BaseURL is the API endpoint (for OpenAI-compatible providers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// TranscribeModel is the speech-to-text model name.
	TranscribeModel string

	// SpeechModel is the text-to-speech model name.
	SpeechModel string

	// Voice is the synthesis voice name.
	Voice string

	// SpeakCommand is the program used for speech output (command provider).
	// {text} and {rate} are substituted; without {text} the text is piped
	// to the program's standard input.
	SpeakCommand string

	// TranscribeCommand is the program used for speech input (command
	// provider). {file} is replaced by the recorded audio file and the
	// transcript is read from standard output.
	TranscribeCommand string

	// PlayCommand plays synthesised audio files (openai provider).
	PlayCommand string

	// Rate is the speaking rate in words per minute (command provider).
	Rate int
}

// IsConfigured returns true if voice is enabled and usable.
func (v VoiceSettings) IsConfigured() bool {
	if !v.Provider.IsValid() || v.Provider == VoiceProviderNone {
		return false
	}
	if v.Provider.RequiresAPIKey() && v.APIKey == "" {
		return false
	}
	if v.Provider == VoiceProviderCommand && v.SpeakCommand == "" && v.TranscribeCommand == "" {
		return false
	}
	return true
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Knowledge holds knowledge storage settings.
	Knowledge KnowledgeSettings

	// Subjects holds the subject catalog.
	Subjects SubjectSettings

	// Matcher holds similarity matcher settings.
	Matcher MatcherSettings

	// Voice holds speech collaborator settings.
	Voice VoiceSettings
}

// Voice defaults.
const (
	// DefaultSpeechRate is the words-per-minute rate for spoken replies.
	DefaultSpeechRate = 175

	// DefaultSpeakCommand reads text aloud with espeak.
	DefaultSpeakCommand = "espeak -s {rate} {text}"

	// DefaultPlayCommand plays an audio file without opening a window.
	DefaultPlayCommand = "ffplay -nodisp -autoexit -loglevel quiet {file}"
)

// DefaultAppSettings returns settings with sensible defaults.
// Directories are left empty so adapters fall back to ~/.tutorbot paths.
// Voice is disabled until a provider is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Knowledge: KnowledgeSettings{
			Backend: KnowledgeBackendFile,
		},
		Subjects: SubjectSettings{
			Default: DefaultSubject,
			Known:   DefaultKnownSubjects(),
		},
		Matcher: MatcherSettings{
			Cache: false,
		},
		Voice: VoiceSettings{
			Provider:        VoiceProviderNone,
			TranscribeModel: "whisper-1",
			SpeechModel:     "tts-1",
			Voice:           "alloy",
			SpeakCommand:    DefaultSpeakCommand,
			PlayCommand:     DefaultPlayCommand,
			Rate:            DefaultSpeechRate,
		},
	}
}

// AllKnowledgeBackends returns all available knowledge backends.
func AllKnowledgeBackends() []KnowledgeBackend {
	return []KnowledgeBackend{
		KnowledgeBackendFile,
		KnowledgeBackendSQLite,
	}
}

// AllVoiceProviders returns all available voice providers.
func AllVoiceProviders() []VoiceProvider {
	return []VoiceProvider{
		VoiceProviderNone,
		VoiceProviderOpenAI,
		VoiceProviderCommand,
	}
}
