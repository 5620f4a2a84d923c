package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown backend or provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Knowledge Errors.

	// ErrKnowledgeBaseCorrupt indicates a subject's knowledge resource exists
	// but could not be parsed as a list of records.
	ErrKnowledgeBaseCorrupt = errors.New("knowledge base corrupt")

	// ErrNoKnowledge indicates the active knowledge base has no records.
	ErrNoKnowledge = errors.New("no knowledge for subject")

	// ErrUnknownSubject indicates a subject outside the configured catalog.
	ErrUnknownSubject = errors.New("unknown subject")

	// Voice Errors.

	// ErrVoiceDisabled indicates no speech provider is configured.
	ErrVoiceDisabled = errors.New("voice disabled")

	// ErrSpeechUnrecognised indicates the audio held no intelligible speech.
	ErrSpeechUnrecognised = errors.New("speech not recognised")

	// ErrSpeechUnavailable indicates the speech service could not be reached.
	ErrSpeechUnavailable = errors.New("speech service unavailable")
)
