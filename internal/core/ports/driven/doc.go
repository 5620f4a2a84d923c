// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - KnowledgeStore: Loads a subject's knowledge base (JSON files or SQLite)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - KnowledgeWriter: Replaces a subject's records. Without it, import is refused.
//   - SpeechRecognizer: Transcribes spoken input. Without it, voice input is disabled.
//   - SpeechSynthesizer: Speaks replies aloud. Without it, replies are display-only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
