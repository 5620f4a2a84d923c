// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/components/transcript"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tutorbot/internal/core/domain"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
)

// Title is shown above the conversation.
const Title = "PERSON STUDY ASSESSMENT CHATBOT"

// voiceCommand starts a recorded question typed as "/voice <file>".
const voiceCommand = "/voice"

// chromeHeight is the number of rows used by everything except the log.
const chromeHeight = 6

// View is the conversation window: a transcript, an input line and a
// status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	log       *transcript.Log
	input     *input.ChatInput
	statusbar *status.Bar

	conversation driving.Conversation
	voice        driving.VoiceService
	ctx          context.Context

	speak  bool
	busy   bool
	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new chat view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	conversation driving.Conversation,
	voice driving.VoiceService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:       s,
		keymap:       km,
		log:          transcript.NewLog(s),
		input:        input.NewChatInput(s),
		statusbar:    status.NewBar(s, km),
		conversation: conversation,
		voice:        voice,
		ctx:          context.Background(),
		width:        80,
		height:       24,
	}
	if conversation != nil {
		v.statusbar.SetSubject(string(conversation.Subject()))
	}
	v.log.Append(transcript.SpeakerAssistant, fmt.Sprintf(
		"%s here. Ask me a question, or name a subject to switch.", domain.AssistantName))
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithSpeech turns spoken replies on when speech output is available.
func (v *View) WithSpeech(on bool) *View {
	v.speak = on && v.canSpeak()
	v.statusbar.SetSpeech(v.speak)
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AnswerCompleted:
		return v, v.finishTurn(msg.Reply, msg.Subject)

	case messages.VoiceCompleted:
		if msg.Transcript != "" {
			v.log.Append(transcript.SpeakerVoice, msg.Transcript)
		}
		return v, v.finishTurn(msg.Reply, msg.Subject)

	case messages.SpeechFinished:
		if msg.Err != nil {
			v.statusbar.SetMessage("Speech failed: " + msg.Err.Error())
		}
		return v, nil

	case messages.ErrorOccurred:
		v.busy = false
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.ToggleSpeech):
		v.toggleSpeech()
		return v, nil
	case keymap.Matches(key, v.keymap.ScrollUp):
		v.log.ScrollUp()
		return v, nil
	case keymap.Matches(key, v.keymap.ScrollDown):
		v.log.ScrollDown()
		return v, nil
	case keymap.Matches(key, v.keymap.Send):
		return v, v.submit()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// submit starts a turn for the typed line. Blank lines and input typed
// while a turn is running are ignored.
func (v *View) submit() tea.Cmd {
	if v.busy {
		return nil
	}
	text := v.input.Submit()
	if text == "" {
		return nil
	}
	return v.Say(text)
}

// Say starts a turn for text as if it had been typed.
func (v *View) Say(text string) tea.Cmd {
	if v.busy || text == "" {
		return nil
	}
	if v.conversation == nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: ErrNoConversation} }
	}

	v.err = nil
	if strings.HasPrefix(text, voiceCommand) {
		path := strings.TrimSpace(strings.TrimPrefix(text, voiceCommand))
		if path == "" {
			v.statusbar.SetMessage("Usage: /voice <file>")
			return nil
		}
		v.busy = true
		v.statusbar.SetState(status.StateListening)
		v.statusbar.SetMessage("")
		return v.listen(path)
	}

	v.log.Append(transcript.SpeakerUser, text)
	v.busy = true
	v.statusbar.SetState(status.StateThinking)
	v.statusbar.SetMessage("")
	return v.ask(text)
}

// ask answers a typed question.
func (v *View) ask(text string) tea.Cmd {
	conv := v.conversation
	ctx := v.ctx
	return func() tea.Msg {
		reply := conv.Ask(ctx, text)
		return messages.AnswerCompleted{Input: text, Reply: reply, Subject: conv.Subject()}
	}
}

// listen transcribes a recording and answers what was heard.
func (v *View) listen(path string) tea.Cmd {
	conv := v.conversation
	voice := v.voice
	ctx := v.ctx
	return func() tea.Msg {
		if voice == nil || !voice.CanListen() {
			return messages.VoiceCompleted{Reply: domain.VoiceDisabledMessage, Subject: conv.Subject()}
		}

		f, err := os.Open(path) //nolint:gosec // user supplied recording
		if err != nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("open recording: %w", err)}
		}
		defer f.Close() //nolint:errcheck // read only

		heard := voice.Listen(ctx, f, filepath.Base(path))
		if !heard.Heard() {
			apology := heard.Apology
			if apology == "" {
				apology = domain.NotUnderstoodMessage
			}
			return messages.VoiceCompleted{Reply: apology, Subject: conv.Subject()}
		}

		reply := conv.Ask(ctx, heard.Transcript)
		return messages.VoiceCompleted{Transcript: heard.Transcript, Reply: reply, Subject: conv.Subject()}
	}
}

// finishTurn shows the reply and reads it aloud when speech is on.
func (v *View) finishTurn(reply string, subject domain.Subject) tea.Cmd {
	v.busy = false
	v.log.Append(transcript.SpeakerAssistant, reply)
	if subject != "" {
		v.statusbar.SetSubject(string(subject))
	}
	v.statusbar.Clear()

	if !v.speak {
		return nil
	}
	voice := v.voice
	ctx := v.ctx
	return func() tea.Msg {
		return messages.SpeechFinished{Err: voice.Speak(ctx, reply)}
	}
}

// toggleSpeech flips spoken replies, refusing when no synthesizer exists.
func (v *View) toggleSpeech() {
	if !v.canSpeak() {
		v.statusbar.SetMessage("Speech output is not configured")
		return
	}
	v.speak = !v.speak
	v.statusbar.SetSpeech(v.speak)
}

func (v *View) canSpeak() bool {
	return v.voice != nil && v.voice.CanSpeak()
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	header := v.styles.Banner.Width(v.width).Render(Title)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		v.log.View(),
		"",
		v.input.View(),
		v.statusbar.View(),
	)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.log.SetDimensions(width, height-chromeHeight)
}

// Ready returns true if the view has received its dimensions.
func (v *View) Ready() bool {
	return v.ready
}

// Busy returns true while a turn is being answered.
func (v *View) Busy() bool {
	return v.busy
}

// Speaking returns true if replies are read aloud.
func (v *View) Speaking() bool {
	return v.speak
}

// Transcript returns the conversation so far.
func (v *View) Transcript() []transcript.Entry {
	return v.log.Entries()
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// Subject returns the subject shown in the status bar.
func (v *View) Subject() string {
	return v.statusbar.Subject()
}

// Input returns the text currently typed.
func (v *View) Input() string {
	return v.input.Value()
}

// SetInput replaces the typed text.
func (v *View) SetInput(text string) {
	v.input.SetValue(text)
}

// Focus focuses the input line.
func (v *View) Focus() tea.Cmd {
	return v.input.Focus()
}

// Blur removes focus from the input line.
func (v *View) Blur() {
	v.input.Blur()
}
