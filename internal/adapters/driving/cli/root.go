// Package cli provides the tutorbot command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services wired by the composition root. Nil until bootstrapped.
var (
	engine           driving.RetrievalEngine
	explainer        driving.AnswerExplainer
	sessionRegistry  driving.SessionRegistry
	knowledgeService driving.KnowledgeService
	voiceService     driving.VoiceService
	settingsService  driving.SettingsService
	closeServices    func() error
)

// Options are the global flags passed to the composition root.
type Options struct {
	// ConfigDir overrides ~/.tutorbot.
	ConfigDir string

	// KnowledgeDir overrides knowledge.dir for the file backend.
	KnowledgeDir string

	// Demo answers from the bundled sample data held in memory.
	Demo bool

	// SettingsOnly is set for commands that only read or write settings,
	// so a broken knowledge backend can still be reconfigured.
	SettingsOnly bool
}

// Services holds the driving ports used by the commands.
type Services struct {
	Engine    driving.RetrievalEngine
	Explainer driving.AnswerExplainer
	Sessions  driving.SessionRegistry
	Knowledge driving.KnowledgeService
	Voice     driving.VoiceService
	Settings  driving.SettingsService

	// Close releases backing resources such as the database.
	Close func() error
}

// Bootstrap builds the services for one command run.
type Bootstrap func(opts Options) (*Services, error)

var bootstrap Bootstrap

var (
	rootOpts Options
	verbose  bool
)

// annotationSettingsOnly marks commands that need only the settings service.
const annotationSettingsOnly = "tutorbot/settings-only"

var rootCmd = &cobra.Command{
	Use:   "tutorbot",
	Short: "Study assistant answering questions from subject knowledge bases",
	Long: `tutorbot answers study questions from pre-authored knowledge bases.

Each subject (daa, java, python, dbms, ai) has its own knowledge base.
Mention a subject by name to switch to it; anything else is answered with
the closest matching question of the active subject.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "print pipeline details to stderr")
	flags.StringVar(&rootOpts.ConfigDir, "config-dir", "", "configuration directory (default ~/.tutorbot)")
	flags.StringVar(&rootOpts.KnowledgeDir, "knowledge-dir", "", "directory of <subject>.json knowledge files")
	flags.BoolVar(&rootOpts.Demo, "demo", false, "answer from the bundled sample knowledge")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap sets the function that builds services before each command.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs already built services.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	engine = s.Engine
	explainer = s.Explainer
	sessionRegistry = s.Sessions
	knowledgeService = s.Knowledge
	voiceService = s.Voice
	settingsService = s.Settings
	closeServices = s.Close
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil {
		return nil
	}

	opts := rootOpts
	opts.SettingsOnly = settingsOnly(cmd)
	logger.Debug("Bootstrapping services for %q (settings only: %t)", cmd.CommandPath(), opts.SettingsOnly)

	svc, err := bootstrap(opts)
	if err != nil {
		return err
	}
	SetServices(svc)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if closeServices == nil {
		return nil
	}
	closeFn := closeServices
	closeServices = nil
	return closeFn()
}

// settingsOnly reports whether cmd or one of its parents is annotated as
// needing only settings.
func settingsOnly(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationSettingsOnly] == "true" {
			return true
		}
	}
	return false
}

// Shutdown releases services that were not closed by a successful run.
func Shutdown() error {
	return teardown(nil, nil)
}
