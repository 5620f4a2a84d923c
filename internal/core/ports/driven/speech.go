package driven

import (
	"context"
	"io"
)

// SpeechRecognizer converts recorded speech into text.
//
// Implementations return errors wrapping domain.ErrSpeechUnrecognised when
// the audio holds no intelligible speech, and domain.ErrSpeechUnavailable
// when the transcription service cannot be reached.
type SpeechRecognizer interface {
	// Transcribe reads audio and returns the recognised text.
	// The filename hints at the audio format (e.g. "input.wav").
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// SpeechSynthesizer speaks text aloud.
type SpeechSynthesizer interface {
	// Speak renders text as speech and blocks until playback ends.
	Speak(ctx context.Context, text string) error
}
