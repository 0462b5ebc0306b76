// Package sessions provides the session list view component for the TUI.
package sessions

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kridos/AITabManager/internal/adapters/driving/tui/messages"
	"github.com/kridos/AITabManager/internal/adapters/driving/tui/styles"
	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driving"
)

// View is the session list view.
type View struct {
	styles         *styles.Styles
	sessionService driving.SessionService
	enrichService  driving.EnrichmentService

	sessions []domain.Session
	selected int
	loading  bool
	err      error
	notice   string
	width    int
	height   int
	ready    bool
}

// NewView creates a new sessions view.
func NewView(
	s *styles.Styles,
	sessionService driving.SessionService,
	enrichService driving.EnrichmentService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:         s,
		sessionService: sessionService,
		enrichService:  enrichService,
		sessions:       []domain.Session{},
	}
}

// Init initialises the view and loads sessions.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.notice = ""
	return v.loadSessions()
}

// loadSessions returns a command that loads sessions from the service.
func (v *View) loadSessions() tea.Cmd {
	return func() tea.Msg {
		if v.sessionService == nil {
			return messages.SessionsLoaded{Err: fmt.Errorf("session service not available")}
		}
		sessions, err := v.sessionService.List(context.Background())
		return messages.SessionsLoaded{Sessions: sessions, Err: err}
	}
}

// deleteSession returns a command that deletes the session with the given ID.
func (v *View) deleteSession(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.sessionService.Delete(context.Background(), id)
		return messages.SessionDeleted{ID: id, Err: err}
	}
}

// enrichSession returns a command that starts enrichment for a session.
func (v *View) enrichSession(id string) tea.Cmd {
	return func() tea.Msg {
		err := v.enrichService.EnrichAsync(context.Background(), id)
		return messages.EnrichStarted{ID: id, Err: err}
	}
}

// Update handles messages for the sessions view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SessionsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.sessions = msg.Sessions
			v.err = nil
			if v.selected >= len(v.sessions) && len(v.sessions) > 0 {
				v.selected = len(v.sessions) - 1
			}
		}
		return v, nil

	case messages.SessionDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = "Session deleted."
		return v, v.loadSessions()

	case messages.EnrichStarted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = "Enrichment started."
		return v, v.loadSessions()
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
		return v, nil

	case "down", "j":
		if v.selected < len(v.sessions)-1 {
			v.selected++
		}
		return v, nil

	case "enter":
		if len(v.sessions) > 0 {
			session := v.sessions[v.selected]
			return v, func() tea.Msg {
				return messages.SessionSelected{Session: session}
			}
		}
		return v, nil

	case "d":
		if len(v.sessions) > 0 {
			return v, v.deleteSession(v.sessions[v.selected].ID)
		}
		return v, nil

	case "e":
		if len(v.sessions) > 0 && v.enrichService != nil {
			return v, v.enrichSession(v.sessions[v.selected].ID)
		}
		return v, nil

	case "r":
		v.loading = true
		return v, v.loadSessions()
	}

	return v, nil
}

// View renders the session list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Sessions"))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading..."))

	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))

	case len(v.sessions) == 0:
		b.WriteString(v.styles.Muted.Render("No sessions captured yet."))

	default:
		for i := range v.sessions {
			session := &v.sessions[i]
			line := fmt.Sprintf("%s (%d tabs, %s)",
				session.Name, len(session.Tabs), session.Timestamp.Format("Jan 2 15:04"))

			if i == v.selected {
				b.WriteString("> " + v.styles.Selected.Render(line))
			} else {
				b.WriteString("  " + v.styles.Normal.Render(line))
			}
			b.WriteString("  " + v.renderState(session.GenerationState()))
			b.WriteString("\n")
		}
	}

	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(v.notice))
	}

	b.WriteString("\n\n")
	help := "[Enter] Open  [j/k] Navigate  [d] Delete  [r] Reload  [Esc] Back"
	if v.enrichService != nil {
		help = "[Enter] Open  [j/k] Navigate  [e] Enrich  [d] Delete  [r] Reload  [Esc] Back"
	}
	b.WriteString(v.styles.Help.Render(help))

	return b.String()
}

// renderState renders a generation state with a state-appropriate colour.
func (v *View) renderState(state domain.GenerationState) string {
	switch state {
	case domain.GenerationComplete:
		return v.styles.Success.Render(state.String())
	case domain.GenerationRunning:
		return v.styles.Warning.Render(state.String())
	case domain.GenerationError:
		return v.styles.Error.Render(state.String())
	default:
		return v.styles.Muted.Render(state.String())
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Sessions returns the loaded sessions.
func (v *View) Sessions() []domain.Session {
	return v.sessions
}

// SelectedIndex returns the currently selected index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
