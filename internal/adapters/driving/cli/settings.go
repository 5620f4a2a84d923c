package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in ~/.tutorbot/config.toml.

Use 'settings set <key> <value>' to change one setting and
'settings reset <key>' to restore its default.`,
	Annotations: map[string]string{
		annotationSettingsOnly: "true",
	},
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a setting. List values are comma separated.

Examples:
  tutorbot settings set knowledge.backend sqlite
  tutorbot settings set subjects.known daa,java,python,dbms,ai,os
  tutorbot settings set voice.provider command`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Restore a setting to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsReset,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

var errSettingsNotConfigured = errors.New("settings service not configured")

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Knowledge]")
	cmd.Printf("  Backend: %s\n", settings.Knowledge.Backend.Description())
	cmd.Printf("  Directory: %s\n", orDefault(settings.Knowledge.Dir, "~/.tutorbot/knowledge"))
	cmd.Printf("  Database: %s\n", orDefault(settings.Knowledge.DatabaseDir, "~/.tutorbot/data"))
	cmd.Println()

	cmd.Println("[Subjects]")
	cmd.Printf("  Default: %s\n", settings.Subjects.Default)
	cmd.Printf("  Known: %s\n", joinSubjects(settings.Subjects.Known))
	cmd.Println()

	cmd.Println("[Matcher]")
	cmd.Printf("  Cache: %s\n", onOff(settings.Matcher.Cache))
	cmd.Println()

	cmd.Println("[Voice]")
	voice := settings.Voice
	cmd.Printf("  Provider: %s\n", voice.Provider.Description())
	switch voice.Provider {
	case domain.VoiceProviderOpenAI:
		cmd.Printf("  Base URL: %s\n", orDefault(voice.BaseURL, "https://api.openai.com/v1"))
		if voice.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(voice.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
		cmd.Printf("  Models: %s (speech to text), %s (text to speech)\n", voice.TranscribeModel, voice.SpeechModel)
		cmd.Printf("  Voice: %s\n", voice.Voice)
		cmd.Printf("  Play command: %s\n", orDefault(voice.PlayCommand, "(none)"))
	case domain.VoiceProviderCommand:
		cmd.Printf("  Speak command: %s\n", orDefault(voice.SpeakCommand, "(none)"))
		cmd.Printf("  Transcribe command: %s\n", orDefault(voice.TranscribeCommand, "(none)"))
		cmd.Printf("  Rate: %d words per minute\n", voice.Rate)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'tutorbot settings set <key> <value>' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	key, value := args[0], args[1]
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	shown := value
	if key == "voice.api_key" {
		shown = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, shown)
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	if err := settingsService.Reset(args[0]); err != nil {
		return fmt.Errorf("failed to reset %s: %w", args[0], err)
	}
	cmd.Printf("Reset %s to its default\n", args[0])
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

// Helper functions.

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func joinSubjects(subjects []domain.Subject) string {
	names := make([]string, len(subjects))
	for i, s := range subjects {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}
