package status

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/styles"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, "", bar.Subject())
}

func TestNewBar_NilStyles(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestStatusBar_InitAndUpdate(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.Nil(t, bar.Init())

	updated, cmd := bar.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, bar, updated)
	assert.Nil(t, cmd)
}

func TestStatusBar_View_States(t *testing.T) {
	tests := []struct {
		state    State
		message  string
		expected string
	}{
		{StateReady, "", "Ready"},
		{StateReady, "Switched", "Switched"},
		{StateThinking, "", "Thinking..."},
		{StateListening, "", "Listening..."},
		{StateError, "", "Error"},
		{StateError, "disk full", "Error: disk full"},
	}

	for _, tt := range tests {
		t.Run(string(tt.state)+tt.message, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			bar.SetState(tt.state)
			bar.SetMessage(tt.message)

			assert.Contains(t, bar.View(), tt.expected)
		})
	}
}

func TestStatusBar_View_SubjectAndSpeech(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)
	bar.SetSubject("python")
	bar.SetSpeech(true)

	view := bar.View()

	assert.Contains(t, view, "PYTHON")
	assert.Contains(t, view, "speech on")
}

func TestStatusBar_View_Hints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	bar := NewBar(nil, km)
	bar.SetWidth(200)

	assert.Contains(t, bar.View(), "enter: send")

	bar.SetBindings(km.SubjectsHelp())
	assert.Contains(t, bar.View(), "esc: back")
}

func TestStatusBar_View_NarrowWidth(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(10)

	assert.NotEmpty(t, bar.View())
}

func TestStatusBar_Clear(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetState(StateError)
	bar.SetMessage("boom")
	bar.SetSubject("ai")

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, "", bar.Message())
	assert.Equal(t, "ai", bar.Subject(), "subject survives clear")
}
