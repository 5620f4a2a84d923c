package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

var (
	askAudio   string
	askSubject string
	askExplain bool
	askSpeak   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question",
	Long: `Answers one question and prints the reply.

The question is answered from the default subject unless --subject selects
another one. A question that names a subject switches to it instead and
prints the confirmation.

Use --audio to ask with a recorded question instead of text; this needs a
voice provider (see 'tutorbot settings').`,
	Example: `  tutorbot ask "what is a binary search tree"
  tutorbot ask --subject python "how do I reverse a list"
  tutorbot ask --audio question.wav --speak`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSubject, "subject", "s", "", "subject to answer from")
	askCmd.Flags().StringVar(&askAudio, "audio", "", "recorded question to transcribe")
	askCmd.Flags().BoolVar(&askExplain, "explain", false, "show the matched question and its score")
	askCmd.Flags().BoolVar(&askSpeak, "speak", false, "read the reply aloud")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0 && askAudio == "":
		return errors.New("a question or --audio is required")
	case len(args) == 1 && askAudio != "":
		return errors.New("give either a question or --audio, not both")
	}
	if engine == nil {
		return errEngineNotConfigured
	}

	ctx := cmd.Context()
	id := uuid.NewString()
	conv, err := startConversation(ctx, id)
	if err != nil {
		return err
	}
	defer sessionRegistry.Close(id)

	if askSubject != "" {
		if err := selectSubject(cmd, conv.Subject(), domain.Subject(strings.ToLower(askSubject)), conv.Ask); err != nil {
			return err
		}
	}
	warnNoSpeech(cmd, askSpeak)

	var question, reply string
	if askAudio != "" {
		question, reply, err = voiceTurn(ctx, conv, askAudio)
		if err != nil {
			return err
		}
		if question != "" {
			cmd.Printf("%s %s\n", userVoiceLabel, question)
		}
	} else {
		question = strings.TrimSpace(args[0])
		if question == "" {
			return errors.New("question is empty")
		}
		if askExplain {
			explain(cmd, conv.Session(), question)
		}
		reply = conv.Ask(ctx, question)
	}

	cmd.Println(reply)
	if askSpeak {
		speakReply(ctx, reply)
	}
	return nil
}

// selectSubject switches the conversation to subject before the question
// is asked, failing if the subject is unknown or cannot be loaded.
func selectSubject(
	cmd *cobra.Command, current, subject domain.Subject, ask func(ctx context.Context, input string) string,
) error {
	if knowledgeService != nil && !knowledgeService.Catalog().Contains(subject) {
		return fmt.Errorf("%q: %w", subject, domain.ErrUnknownSubject)
	}
	if subject == current {
		return nil
	}

	reply := ask(cmd.Context(), subject.String())
	if reply != domain.SwitchConfirmation(subject) {
		return fmt.Errorf("switch to %s: %s", subject, reply)
	}
	return nil
}

// explain prints how the question will be resolved.
func explain(cmd *cobra.Command, session domain.Session, question string) {
	if explainer == nil {
		return
	}

	exp, err := explainer.Explain(cmd.Context(), session, question)
	switch {
	case err != nil:
		cmd.PrintErrf("No match: %v\n", err)
	case exp.Switch:
		cmd.PrintErrf("Switch: input names subject %s\n", exp.Subject)
	default:
		cmd.PrintErrf("Match: %q (subject %s, record %d, score %.3f)\n",
			exp.Question, exp.Subject, exp.RecordIndex, exp.Score)
	}
}
