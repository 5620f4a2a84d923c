// Package file provides the TOML-backed configuration store.
//
// Settings are kept in ~/.tutorbot/config.toml as nested tables and exposed
// as flat dot-notation keys:
//
//	[voice]
//	provider = "openai"   # read as "voice.provider"
package file
