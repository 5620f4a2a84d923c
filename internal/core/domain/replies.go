package domain

import "fmt"

// AssistantName is how the assistant labels its own turns.
const AssistantName = "Alpha"

// Fixed user-facing replies. The core never formats for a specific medium,
// so these are plain sentences suitable for display and speech alike.
const (
	// NoInformationMessage is returned when the active subject has no records.
	NoInformationMessage = "Sorry, I don't have information for this subject yet."

	// FallbackMessage is returned when answering fails unexpectedly.
	FallbackMessage = "Sorry, something went wrong while answering."

	// NotUnderstoodMessage is returned when speech held no recognisable words.
	NotUnderstoodMessage = "Sorry, I couldn't understand you."

	// NetworkErrorMessage is returned when the speech service is unreachable.
	NetworkErrorMessage = "Network error. Try again later."

	// VoiceDisabledMessage is returned for voice turns when no recognizer is set up.
	VoiceDisabledMessage = "Voice input is not configured. Set voice.provider to enable it."
)

// SwitchConfirmation is the reply for a successful subject switch.
func SwitchConfirmation(subject Subject) string {
	return fmt.Sprintf("Switched to %s mode! You can now ask me %s questions.", subject.Display(), subject)
}

// CorruptKnowledgeMessage is the reply when a subject's resource is malformed.
func CorruptKnowledgeMessage(subject Subject) string {
	return fmt.Sprintf("Sorry, the %s knowledge base could not be read. Staying on the current subject.", subject)
}
