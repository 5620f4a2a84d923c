package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

var tuiSpeak bool

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the chat window",
	Long: `Open the interactive chat window.

Type a question and press Enter. Name a subject to switch to it.
Type /voice <file> to ask with a recorded question.

Controls:
  Enter          - Send
  Tab            - Subject list
  PgUp/PgDown    - Scroll the conversation
  Ctrl+S         - Toggle spoken replies
  Esc            - Back
  Ctrl+C         - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiSpeak, "speak", false, "read every reply aloud")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	ctx := cmd.Context()
	id := uuid.NewString()
	conv, err := startConversation(ctx, id)
	if err != nil {
		return err
	}
	defer sessionRegistry.Close(id)

	ports := &tui.Ports{
		Conversation: conv,
		Voice:        voiceService,
		Knowledge:    knowledgeService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx).WithSpeech(tuiSpeak)

	// Log lines would tear the alternate screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
