// Package subjects provides the subject catalog view for the TUI.
package subjects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tutorbot/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/tutorbot/internal/core/ports/driving"
)

// ErrNoKnowledgeService is reported when the catalog cannot be listed.
var ErrNoKnowledgeService = errors.New("knowledge service not available")

// View lists the subjects with their record counts.
type View struct {
	styles    *styles.Styles
	knowledge driving.KnowledgeService
	ctx       context.Context

	subjects []driving.SubjectSummary
	selected int
	width    int
	height   int
	ready    bool
	loading  bool
	err      error
}

// NewView creates a new subjects view.
func NewView(s *styles.Styles, knowledge driving.KnowledgeService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		knowledge: knowledge,
		ctx:       context.Background(),
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the subject summaries.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.load()
}

// load returns a command that lists the catalog.
func (v *View) load() tea.Cmd {
	knowledge := v.knowledge
	ctx := v.ctx
	return func() tea.Msg {
		if knowledge == nil {
			return messages.SubjectsLoaded{Err: ErrNoKnowledgeService}
		}
		summaries, err := knowledge.List(ctx)
		return messages.SubjectsLoaded{Subjects: summaries, Err: err}
	}
}

// Update handles messages for the subjects view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SubjectsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.subjects = msg.Subjects
		if v.selected >= len(v.subjects) {
			v.selected = 0
		}
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.subjects)-1 {
			v.selected++
		}
	case "enter":
		if v.selected >= len(v.subjects) {
			return v, nil
		}
		summary := v.subjects[v.selected]
		if summary.IsDefault {
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.SubjectSelected{Subject: summary.Subject}
		}
	case "r":
		v.loading = true
		return v, v.load()
	}

	return v, nil
}

// View renders the subjects view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Subjects"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading subjects..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
	case len(v.subjects) == 0:
		b.WriteString(v.styles.Muted.Render("No subjects configured."))
	default:
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("  %-12s %8s %10s", "SUBJECT", "RECORDS", "QUESTIONS")))
		b.WriteString("\n")
		for i := range v.subjects {
			b.WriteString(v.renderSubject(i, &v.subjects[i]))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[enter] switch  [r] reload  [esc] back  [ctrl+c] quit"))
	return b.String()
}

// renderSubject renders one catalog row. The default subject is starred.
func (v *View) renderSubject(index int, s *driving.SubjectSummary) string {
	name := string(s.Subject)
	if s.IsDefault {
		name += " *"
	}
	row := fmt.Sprintf("%-12s %8d %10d", name, s.Records, s.Questions)
	if s.Corrupt {
		row = fmt.Sprintf("%-12s %8s %10s", name, "corrupt", "-")
	}

	if index == v.selected {
		return v.styles.Selected.Render("> " + row)
	}
	if s.Corrupt {
		return v.styles.Error.Render("  " + row)
	}
	if s.Records == 0 {
		return v.styles.Muted.Render("  " + row)
	}
	return v.styles.Normal.Render("  " + row)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Subjects returns the loaded summaries.
func (v *View) Subjects() []driving.SubjectSummary {
	return v.subjects
}

// SelectedIndex returns the highlighted row.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Loading returns true while the catalog is being listed.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
