// Package tui renders the hero typing animation in the terminal, useful for
// tuning phrases and pacing without running the web server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Jaysinghgautam/jay-portfolio/internal/typing"
)

type tickMsg struct{}

// Model is the Bubble Tea model for the hero-text preview. Each tick steps
// the controller once and schedules exactly one follow-up tick with the
// delay the controller asked for.
type Model struct {
	ctrl     *typing.Controller
	styles   Styles
	greeting string
	quitting bool
}

// Compile-time interface compliance check
var _ tea.Model = Model{}

// New builds the preview over the given phrase list.
func New(greeting string, phrases []string, timings typing.Timings) (Model, error) {
	ctrl, err := typing.New(phrases, timings)
	if err != nil {
		return Model{}, err
	}
	return Model{
		ctrl:     ctrl,
		styles:   DefaultStyles(),
		greeting: greeting,
	}, nil
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m Model) Init() tea.Cmd {
	return tick(time.Millisecond)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.quitting {
			return m, nil
		}
		return m, tick(m.ctrl.Step())
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	line := m.styles.Greeting.Render(m.greeting) + " " +
		m.styles.Role.Render(m.ctrl.Text()) +
		m.styles.Cursor.Render("▌")
	hint := m.styles.Hint.Render("q to quit")
	return "\n  " + line + "\n\n  " + hint + "\n"
}
