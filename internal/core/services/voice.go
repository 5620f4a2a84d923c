package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driven"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
	"github.com/custodia-labs/tutorbot/internal/logger"
)

// Ensure VoiceService implements the interface.
var _ driving.VoiceService = (*VoiceService)(nil)

// VoiceService turns speech collaborators into plain text turns.
// Either collaborator may be nil, which disables that direction.
type VoiceService struct {
	recognizer  driven.SpeechRecognizer
	synthesizer driven.SpeechSynthesizer
}

// NewVoiceService creates a new voice service.
func NewVoiceService(recognizer driven.SpeechRecognizer, synthesizer driven.SpeechSynthesizer) *VoiceService {
	return &VoiceService{
		recognizer:  recognizer,
		synthesizer: synthesizer,
	}
}

// CanListen returns true if speech input is configured.
func (s *VoiceService) CanListen() bool {
	return s.recognizer != nil
}

// CanSpeak returns true if speech output is configured.
func (s *VoiceService) CanSpeak() bool {
	return s.synthesizer != nil
}

// Listen transcribes audio into a turn. Recognition failures become the
// fixed apology replies and never reach the engine.
func (s *VoiceService) Listen(ctx context.Context, audio io.Reader, filename string) driving.ListenResult {
	if s.recognizer == nil {
		return driving.ListenResult{Apology: domain.VoiceDisabledMessage}
	}

	text, err := s.recognizer.Transcribe(ctx, audio, filename)
	if err != nil {
		logger.Warn("transcription failed: %v", err)
		return driving.ListenResult{Apology: apologyFor(err)}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return driving.ListenResult{Apology: domain.NotUnderstoodMessage}
	}

	logger.Debug("Heard: %q", text)
	return driving.ListenResult{Transcript: text}
}

// Speak reads text aloud.
func (s *VoiceService) Speak(ctx context.Context, text string) error {
	if s.synthesizer == nil {
		return domain.ErrVoiceDisabled
	}
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.synthesizer.Speak(ctx, text)
}

func apologyFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrSpeechUnavailable):
		return domain.NetworkErrorMessage
	default:
		return domain.NotUnderstoodMessage
	}
}
