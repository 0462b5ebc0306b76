// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/kridos/AITabManager/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewSessions is the session list view.
	ViewSessions
	// ViewDetail shows a single session.
	ViewDetail
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewSessions:
		return "sessions"
	case ViewDetail:
		return "detail"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// SearchCompleted carries search results back to the model.
type SearchCompleted struct {
	Response domain.SearchResponse
	Err      error
}

// SessionsLoaded carries the list of sessions from the service.
type SessionsLoaded struct {
	Sessions []domain.Session
	Err      error
}

// SessionSelected signals a session was selected for detail view.
type SessionSelected struct {
	Session domain.Session
}

// SessionDeleted signals a session was removed.
type SessionDeleted struct {
	ID  string
	Err error
}

// EnrichStarted signals enrichment was kicked off for a session.
type EnrichStarted struct {
	ID  string
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
