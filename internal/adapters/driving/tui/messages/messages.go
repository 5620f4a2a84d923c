// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
)

// AnswerCompleted carries the reply to a typed question.
type AnswerCompleted struct {
	Input   string
	Reply   string
	Subject domain.Subject
}

// VoiceCompleted carries the outcome of a recorded question. Transcript is
// empty when nothing usable was heard; Reply then holds the apology.
type VoiceCompleted struct {
	Transcript string
	Reply      string
	Subject    domain.Subject
}

// SpeechFinished signals that a reply was read aloud.
type SpeechFinished struct {
	Err error
}

// SubjectsLoaded carries the subject summaries for the subjects view.
type SubjectsLoaded struct {
	Subjects []driving.SubjectSummary
	Err      error
}

// SubjectSelected asks the chat view to switch to a subject.
type SubjectSelected struct {
	Subject domain.Subject
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation view.
	ViewChat ViewType = iota
	// ViewSubjects lists the subject catalog.
	ViewSubjects
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewSubjects:
		return "subjects"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
