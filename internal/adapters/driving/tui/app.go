package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/views/subjects"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the global key bindings.
	keymap *keymap.KeyMap

	// chatView is the conversation window.
	chatView *chat.View

	// subjectsView lists the subject catalog.
	subjectsView *subjects.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		chatView:     chat.NewView(s, km, ports.Conversation, ports.Voice),
		subjectsView: subjects.NewView(s, ports.Knowledge),
		currentView:  messages.ViewChat,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chatView.WithContext(ctx)
	a.subjectsView.WithContext(ctx)
	return a
}

// WithSpeech turns spoken replies on at start.
func (a *App) WithSpeech(on bool) *App {
	a.chatView.WithSpeech(on)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle(chat.Title),
		a.chatView.Init(),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.chatView.SetDimensions(msg.Width, msg.Height)
		a.subjectsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ViewChanged:
		return a, a.switchView(msg.View)

	case messages.SubjectSelected:
		_ = a.switchView(messages.ViewChat)
		return a, a.chatView.Say(string(msg.Subject))

	case messages.SubjectsLoaded:
		a.subjectsView, cmd = a.subjectsView.Update(msg)
		return a, cmd

	case messages.AnswerCompleted, messages.VoiceCompleted, messages.SpeechFinished:
		// Turns finish in the chat view even while the catalog is shown.
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd
	}

	if a.currentView == messages.ViewSubjects {
		a.subjectsView, cmd = a.subjectsView.Update(msg)
		return a, cmd
	}
	a.chatView, cmd = a.chatView.Update(msg)
	return a, cmd
}

// handleKeyMsg applies global bindings and forwards the rest to the
// active view.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if keymap.Matches(key, a.keymap.Quit) {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewSubjects:
		if keymap.Matches(key, a.keymap.Back) || keymap.Matches(key, a.keymap.Subjects) {
			return a, a.switchView(messages.ViewChat)
		}
		a.subjectsView, cmd = a.subjectsView.Update(msg)
	case messages.ViewChat:
		if keymap.Matches(key, a.keymap.Subjects) {
			return a, a.switchView(messages.ViewSubjects)
		}
		a.chatView, cmd = a.chatView.Update(msg)
	}
	return a, cmd
}

// switchView activates a view and returns its start command.
func (a *App) switchView(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewSubjects:
		a.chatView.Blur()
		return a.subjectsView.Init()
	case messages.ViewChat:
		return a.chatView.Focus()
	}
	return nil
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	if a.currentView == messages.ViewSubjects {
		return a.subjectsView.View()
	}
	return a.chatView.View()
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Chat returns the conversation view.
func (a *App) Chat() *chat.View {
	return a.chatView
}

// Err returns the last error.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// Run starts the TUI program.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}
