// Package detail provides the session detail view component for the TUI.
package detail

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kridos/AITabManager/internal/adapters/driving/tui/messages"
	"github.com/kridos/AITabManager/internal/adapters/driving/tui/styles"
	"github.com/kridos/AITabManager/internal/core/domain"
)

// View shows a single session: tabs, summary and tab groups.
type View struct {
	styles  *styles.Styles
	session *domain.Session
	width   int
	height  int
	ready   bool
}

// NewView creates a new detail view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s}
}

// Init initialises the detail view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetSession sets the session to display.
func (v *View) SetSession(session domain.Session) {
	v.session = &session
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewSessions}
			}
		}
	}

	return v, nil
}

// View renders the session detail.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}
	if v.session == nil {
		return v.styles.Muted.Render("No session selected.")
	}

	var b strings.Builder
	session := v.session

	b.WriteString(v.styles.Title.Render(session.Name))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Captured %s, %d tabs, %d windows",
		session.Timestamp.Format("2006-01-02 15:04"), len(session.Tabs), len(session.Windows))))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render("Status: " + session.GenerationState().String()))
	b.WriteString("\n")

	if session.HasContext() {
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render(session.Context))
		b.WriteString("\n")
	}

	if len(session.TabGroups) > 0 {
		b.WriteString("\n")
		b.WriteString(v.styles.Title.Render("Tab Groups"))
		b.WriteString("\n")
		for _, group := range session.TabGroups {
			b.WriteString(fmt.Sprintf("  %s (%d tabs)\n",
				v.styles.Normal.Render(group.Name), len(group.TabIndices)))
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Title.Render("Tabs"))
	b.WriteString("\n")
	for i := range session.Tabs {
		tab := &session.Tabs[i]
		b.WriteString(fmt.Sprintf("  [%d] %s\n", i+1, v.styles.Normal.Render(tab.Title)))
		b.WriteString("      " + v.styles.Muted.Render(tab.URL) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[Esc] Back"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}
