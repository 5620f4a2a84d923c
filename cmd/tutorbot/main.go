// Command tutorbot is a study assistant that answers questions from
// subject knowledge bases.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/tutorbot/internal/adapters/driven/config/file"
	knowledgefile "github.com/custodia-labs/tutorbot/internal/adapters/driven/knowledge/file"
	"github.com/custodia-labs/tutorbot/internal/adapters/driven/knowledge/samples"
	"github.com/custodia-labs/tutorbot/internal/adapters/driven/speech/command"
	"github.com/custodia-labs/tutorbot/internal/adapters/driven/speech/openai"
	"github.com/custodia-labs/tutorbot/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tutorbot/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/cli"
	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
	"github.com/custodia-labs/tutorbot/internal/core/services"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	err := cli.Execute()
	if closeErr := cli.Shutdown(); closeErr != nil {
		logger.Warn("Closing services: %v", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
}

// bootstrap wires the driven adapters to the core services.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	if opts.SettingsOnly {
		return &cli.Services{Settings: settingsService}, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	store, writer, closeFn, err := openKnowledge(opts, settings.Knowledge)
	if err != nil {
		return nil, err
	}

	catalog := settings.Subjects.Catalog()
	var matcherOpts []services.MatcherOption
	if settings.Matcher.Cache {
		matcherOpts = append(matcherOpts, services.WithSpaceCache(0))
	}
	matcher, err := services.NewMatcher(matcherOpts...)
	if err != nil {
		closeFn() //nolint:errcheck // already failing
		return nil, err
	}

	engine := services.NewRetrievalEngine(store, services.NewSubjectRouter(catalog), matcher)

	voice, err := openVoice(settings.Voice)
	if err != nil {
		closeFn() //nolint:errcheck // already failing
		return nil, err
	}

	logger.Debug("Backend %s, %d subjects, matcher cache %t, voice %s",
		settings.Knowledge.Backend, len(catalog.All()), settings.Matcher.Cache, settings.Voice.Provider)

	return &cli.Services{
		Engine:    engine,
		Explainer: engine,
		Sessions:  services.NewSessionRegistry(engine),
		Knowledge: services.NewKnowledgeService(catalog, store, writer),
		Voice:     voice,
		Settings:  settingsService,
		Close:     closeFn,
	}, nil
}

// openKnowledge opens the configured knowledge backend. The demo flag
// replaces it with the sample data held in memory.
func openKnowledge(
	opts cli.Options, cfg domain.KnowledgeSettings,
) (driven.KnowledgeStore, driven.KnowledgeWriter, func() error, error) {
	noop := func() error { return nil }

	if opts.Demo {
		store := memory.NewKnowledgeStore()
		if _, err := samples.Seed(context.Background(), store); err != nil {
			return nil, nil, nil, fmt.Errorf("load samples: %w", err)
		}
		return store, store, noop, nil
	}

	switch cfg.Backend {
	case domain.KnowledgeBackendSQLite:
		db, err := sqlite.NewStore(cfg.DatabaseDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open knowledge database: %w", err)
		}
		return db.KnowledgeStore(), db.KnowledgeWriter(), db.Close, nil
	default:
		dir := cfg.Dir
		if opts.KnowledgeDir != "" {
			dir = opts.KnowledgeDir
		}
		store, err := knowledgefile.NewStore(dir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open knowledge directory: %w", err)
		}
		return store, store, noop, nil
	}
}

// openVoice builds the speech collaborators for the configured provider.
// It returns nil when voice is disabled.
func openVoice(cfg domain.VoiceSettings) (driving.VoiceService, error) {
	switch cfg.Provider {
	case domain.VoiceProviderOpenAI:
		clientCfg := openai.Config{
			APIKey:          cfg.APIKey,
			BaseURL:         cfg.BaseURL,
			TranscribeModel: cfg.TranscribeModel,
			SpeechModel:     cfg.SpeechModel,
			Voice:           cfg.Voice,
		}
		if cfg.PlayCommand != "" {
			player, err := command.NewPlayer(cfg.PlayCommand)
			if err != nil {
				return nil, fmt.Errorf("voice player: %w", err)
			}
			clientCfg.Player = player
		}
		client, err := openai.NewClient(clientCfg)
		if err != nil {
			return nil, fmt.Errorf("voice client: %w", err)
		}
		// Synthesised audio needs a player.
		var synthesizer driven.SpeechSynthesizer
		if clientCfg.Player != nil {
			synthesizer = client
		}
		return services.NewVoiceService(client, synthesizer), nil

	case domain.VoiceProviderCommand:
		var synthesizer driven.SpeechSynthesizer
		if cfg.SpeakCommand != "" {
			s, err := command.NewSynthesizer(cfg.SpeakCommand, cfg.Rate)
			if err != nil {
				return nil, fmt.Errorf("speak command: %w", err)
			}
			synthesizer = s
		}
		var recognizer driven.SpeechRecognizer
		if cfg.TranscribeCommand != "" {
			r, err := command.NewRecognizer(cfg.TranscribeCommand)
			if err != nil {
				return nil, fmt.Errorf("transcribe command: %w", err)
			}
			recognizer = r
		}
		return services.NewVoiceService(recognizer, synthesizer), nil

	default:
		return nil, nil
	}
}
