package driving

import (
	"context"
	"io"
)

// ListenResult is the outcome of a voice input turn.
type ListenResult struct {
	// Transcript is the recognised text. Empty when nothing was heard.
	Transcript string

	// Apology is the fixed reply to show instead of answering when
	// transcription failed.
	Apology string
}

// Heard returns true if the transcript should be answered.
func (r ListenResult) Heard() bool {
	return r.Apology == "" && r.Transcript != ""
}

// VoiceService adapts speech collaborators to plain text turns.
type VoiceService interface {
	// CanListen returns true if speech input is configured.
	CanListen() bool

	// CanSpeak returns true if speech output is configured.
	CanSpeak() bool

	// Listen transcribes audio. Failures map to a fixed apology.
	Listen(ctx context.Context, audio io.Reader, filename string) ListenResult

	// Speak reads a reply aloud. Errors are reported but never alter the reply.
	Speak(ctx context.Context, text string) error
}
