package domain

import "time"

// Tab is a single captured browser tab.
type Tab struct {
	// URL is the tab's address at capture time.
	URL string

	// Title is the tab's display title at capture time.
	Title string

	// WindowIndex is the 0-based index into Session.Windows this tab belonged to.
	WindowIndex int
}

// Window describes one browser window in a captured session.
type Window struct {
	// TabCount is the number of tabs the window held at capture time.
	TabCount int

	// Focused is true for the window that had focus at capture time.
	Focused bool
}

// TabGroup is an advisory topical cluster of tabs proposed by enrichment.
type TabGroup struct {
	// Name is the cluster label.
	Name string

	// TabIndices are 1-based indices into Session.Tabs.
	TabIndices []int
}

// GenerationState tracks the enrichment workflow for a session.
type GenerationState string

// Enrichment workflow states.
const (
	// GenerationIdle means enrichment has never run for this session.
	GenerationIdle GenerationState = "idle"

	// GenerationRunning means enrichment is in progress.
	GenerationRunning GenerationState = "generating"

	// GenerationComplete means enrichment finished successfully.
	GenerationComplete GenerationState = "complete"

	// GenerationError means enrichment failed; see GenerationStatus.Message.
	GenerationError GenerationState = "error"
)

// IsValid returns true if the state is recognised.
func (s GenerationState) IsValid() bool {
	switch s {
	case GenerationIdle, GenerationRunning, GenerationComplete, GenerationError:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for states that only a re-run can leave.
func (s GenerationState) IsTerminal() bool {
	return s == GenerationComplete || s == GenerationError
}

// String returns the string representation.
func (s GenerationState) String() string {
	return string(s)
}

// GenerationStatus is the enrichment state plus an optional failure message.
type GenerationStatus struct {
	// State is the current workflow state. Zero value behaves as idle.
	State GenerationState

	// Message carries the failure reason when State is error.
	Message string
}

// Session is one captured snapshot of open tabs and windows.
// Tabs, Windows and Timestamp are immutable after capture. Context, TabGroups
// and Generation are written exclusively by the enrichment workflow.
type Session struct {
	// ID is an opaque unique identifier assigned at capture.
	ID string

	// Name is the display label.
	Name string

	// Tabs is the ordered tab snapshot.
	Tabs []Tab

	// Windows is the ordered window snapshot.
	Windows []Window

	// Timestamp is the capture time.
	Timestamp time.Time

	// Context is the AI-generated summary. Empty until enrichment completes.
	Context string

	// TabGroups is the optional topical grouping. Nil when enrichment produced
	// no grouping.
	TabGroups []TabGroup

	// Generation tracks the enrichment workflow.
	Generation GenerationStatus
}

// HasContext returns true once enrichment has written a summary.
func (s *Session) HasContext() bool {
	return s.Context != ""
}

// GenerationState returns the effective workflow state, treating the zero
// value as idle.
func (s *Session) GenerationState() GenerationState {
	if s.Generation.State == "" {
		return GenerationIdle
	}
	return s.Generation.State
}

// EmbeddingRecord associates a session with its summary embedding.
// Lifetimed independently from the Session: it may be absent (no embedding
// provider) or stale (summary regenerated after the vector was computed).
type EmbeddingRecord struct {
	// SessionID keys the record 1:1 to a session.
	SessionID string

	// Vector is the embedding. All records in a store share one dimensionality.
	Vector []float32

	// UpdatedAt is when the vector was stored.
	UpdatedAt time.Time
}
