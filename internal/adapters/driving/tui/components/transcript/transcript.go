// Package transcript provides the scrolling conversation log of the TUI.
package transcript

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tutorbot/internal/core/domain"
)

// Speaker identifies who produced a transcript entry.
type Speaker int

const (
	// SpeakerUser is a typed question.
	SpeakerUser Speaker = iota
	// SpeakerVoice is a transcribed question.
	SpeakerVoice
	// SpeakerAssistant is a reply.
	SpeakerAssistant
)

// Label returns the transcript label for the speaker.
func (s Speaker) Label() string {
	switch s {
	case SpeakerVoice:
		return "You (voice):"
	case SpeakerAssistant:
		return domain.AssistantName + ":"
	default:
		return "You :"
	}
}

// Entry is one line of the conversation.
type Entry struct {
	Speaker Speaker
	Text    string
}

// Log renders conversation entries in a scrollable viewport that follows
// the newest entry.
type Log struct {
	styles   *styles.Styles
	viewport viewport.Model
	entries  []Entry
	width    int
	height   int
}

// NewLog creates an empty conversation log.
func NewLog(s *styles.Styles) *Log {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Log{
		styles:   s,
		viewport: viewport.New(80, 10),
		width:    80,
		height:   10,
	}
}

// Update forwards scrolling input to the viewport.
func (l *Log) Update(msg tea.Msg) (*Log, tea.Cmd) {
	var cmd tea.Cmd
	l.viewport, cmd = l.viewport.Update(msg)
	return l, cmd
}

// View renders the visible part of the log.
func (l *Log) View() string {
	return l.viewport.View()
}

// Append adds an entry and scrolls to it.
func (l *Log) Append(speaker Speaker, text string) {
	l.entries = append(l.entries, Entry{Speaker: speaker, Text: text})
	l.refresh()
}

// Entries returns a copy of the log.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// ScrollUp moves half a page towards older entries.
func (l *Log) ScrollUp() {
	l.viewport.HalfViewUp()
}

// ScrollDown moves half a page towards newer entries.
func (l *Log) ScrollDown() {
	l.viewport.HalfViewDown()
}

// AtBottom reports whether the newest entry is visible.
func (l *Log) AtBottom() bool {
	return l.viewport.AtBottom()
}

// SetDimensions sets the visible area and rewraps the entries.
func (l *Log) SetDimensions(width, height int) {
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}
	l.width = width
	l.height = height
	l.viewport.Width = width
	l.viewport.Height = height
	l.refresh()
}

// refresh re-renders every entry at the current width.
func (l *Log) refresh() {
	blocks := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		blocks = append(blocks, l.render(e))
	}
	l.viewport.SetContent(strings.Join(blocks, "\n"))
	l.viewport.GotoBottom()
}

// render lays out one entry with its label and the text wrapped beside it.
func (l *Log) render(e Entry) string {
	labelStyle := l.styles.User
	if e.Speaker == SpeakerAssistant {
		labelStyle = l.styles.Assistant
	}
	label := labelStyle.Render(e.Speaker.Label()) + " "

	textWidth := l.width - lipgloss.Width(label)
	if textWidth < 10 {
		textWidth = 10
	}
	text := l.styles.Normal.Width(textWidth).Render(e.Text)

	return lipgloss.JoinHorizontal(lipgloss.Top, label, text)
}
