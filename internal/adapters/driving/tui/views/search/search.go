// Package search provides the search view component for the TUI.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kridos/AITabManager/internal/adapters/driving/tui/messages"
	"github.com/kridos/AITabManager/internal/adapters/driving/tui/styles"
	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driving"
)

// View is the search view: a query input above a result list.
type View struct {
	styles        *styles.Styles
	searchService driving.SearchService

	input     textinput.Model
	response  domain.SearchResponse
	searched  bool
	selected  int
	loading   bool
	err       error
	width     int
	height    int
	ready     bool
}

// NewView creates a new search view.
func NewView(s *styles.Styles, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	input := textinput.New()
	input.Placeholder = "What were you working on?"
	input.CharLimit = 200
	input.Width = 50

	return &View{
		styles:        s,
		searchService: searchService,
		input:         input,
	}
}

// Init initialises the view and focuses the input.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// Reset clears the query and results for a fresh search.
func (v *View) Reset() {
	v.input.SetValue("")
	v.input.Focus()
	v.response = domain.SearchResponse{}
	v.searched = false
	v.selected = 0
	v.loading = false
	v.err = nil
}

// search returns a command that runs the search pipeline.
func (v *View) search(query string) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.SearchCompleted{Err: fmt.Errorf("search service not available")}
		}
		resp, err := v.searchService.Search(context.Background(), query)
		return messages.SearchCompleted{Response: resp, Err: err}
	}
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.loading = false
		v.searched = true
		v.selected = 0
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.response = msg.Response
			v.err = nil
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if v.input.Focused() && v.input.Value() != "" {
			v.Reset()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case "enter":
		if v.input.Focused() {
			query := strings.TrimSpace(v.input.Value())
			v.loading = true
			v.input.Blur()
			return v, v.search(query)
		}
		if len(v.response.Results) > 0 {
			session := v.response.Results[v.selected]
			return v, func() tea.Msg {
				return messages.SessionSelected{Session: session}
			}
		}
		return v, nil

	case "up", "k":
		if !v.input.Focused() && v.selected > 0 {
			v.selected--
			return v, nil
		}

	case "down", "j":
		if !v.input.Focused() && v.selected < len(v.response.Results)-1 {
			v.selected++
			return v, nil
		}

	case "/":
		if !v.input.Focused() {
			v.input.Focus()
			return v, textinput.Blink
		}
	}

	if v.input.Focused() {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Search Sessions"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.InputField.Render(v.input.View()))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Searching..."))

	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))

	case v.searched && len(v.response.Results) == 0:
		b.WriteString(v.styles.Muted.Render("No sessions found."))

	case len(v.response.Results) > 0:
		for _, warning := range v.response.Warnings {
			b.WriteString(v.styles.Warning.Render("Warning: " + warning))
			b.WriteString("\n")
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Method: %s", v.response.Method)))
		b.WriteString("\n\n")

		for i := range v.response.Results {
			session := &v.response.Results[i]
			line := fmt.Sprintf("%s (%d tabs, %s)",
				session.Name, len(session.Tabs), session.Timestamp.Format("Jan 2 15:04"))

			if i == v.selected {
				b.WriteString("> " + v.styles.Selected.Render(line))
			} else {
				b.WriteString("  " + v.styles.Normal.Render(line))
			}
			b.WriteString("\n")
			if session.HasContext() {
				b.WriteString("    " + v.styles.Muted.Render(truncate(session.Context, v.width-6)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[Enter] Search/Open  [j/k] Navigate  [/] Edit query  [Esc] Back"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Query returns the current query text.
func (v *View) Query() string {
	return v.input.Value()
}

// Results returns the current search results.
func (v *View) Results() []domain.Session {
	return v.response.Results
}

// SelectedIndex returns the currently selected result index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
