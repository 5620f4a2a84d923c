package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// Transcript labels.
const (
	userLabel      = "You :"
	userVoiceLabel = "You (voice):"
)

var errEngineNotConfigured = errors.New("retrieval engine not configured")

// startConversation opens the conversation used by a command. A corrupt
// default knowledge base is reported by the registry, not here.
func startConversation(ctx context.Context, id string) (driving.Conversation, error) {
	if sessionRegistry == nil {
		return nil, errEngineNotConfigured
	}
	conv, err := sessionRegistry.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return conv, nil
}

// voiceTurn transcribes an audio file and answers the transcript.
// When nothing usable was heard the apology is the reply and the
// transcript is empty.
func voiceTurn(ctx context.Context, conv driving.Conversation, path string) (transcript, reply string, err error) {
	if voiceService == nil || !voiceService.CanListen() {
		return "", domain.VoiceDisabledMessage, nil
	}

	f, err := os.Open(path) //nolint:gosec // user supplied recording
	if err != nil {
		return "", "", fmt.Errorf("open recording: %w", err)
	}
	defer f.Close() //nolint:errcheck // read only

	heard := voiceService.Listen(ctx, f, filepath.Base(path))
	if !heard.Heard() {
		return "", heard.Apology, nil
	}
	return heard.Transcript, conv.Ask(ctx, heard.Transcript), nil
}

// speakReply reads a reply aloud. Speech failures never change the reply.
func speakReply(ctx context.Context, text string) {
	if voiceService == nil || !voiceService.CanSpeak() {
		return
	}
	if err := voiceService.Speak(ctx, text); err != nil {
		logger.Warn("Speaking reply failed: %v", err)
	}
}

// warnNoSpeech tells the user once that --speak has no effect.
func warnNoSpeech(cmd *cobra.Command, speak bool) {
	if speak && (voiceService == nil || !voiceService.CanSpeak()) {
		cmd.PrintErrln("Warning: voice output is not configured; set voice.provider to enable --speak.")
	}
}

// printReply prints one assistant turn.
func printReply(w io.Writer, reply string) {
	fmt.Fprintf(w, "%s: %s\n", domain.AssistantName, reply)
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
