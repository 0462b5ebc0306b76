package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kridos/AITabManager/internal/adapters/driving/tui/messages"
	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driving"
)

// mockSearchService implements driving.SearchService.
type mockSearchService struct {
	response domain.SearchResponse
	err      error
}

func (m *mockSearchService) Search(_ context.Context, _ string) (domain.SearchResponse, error) {
	return m.response, m.err
}

// mockSessionService implements driving.SessionService.
type mockSessionService struct {
	sessions []domain.Session
}

func (m *mockSessionService) Capture(_ context.Context, input driving.CaptureInput) (*domain.Session, error) {
	return &domain.Session{ID: "new", Name: input.Name, Tabs: input.Tabs}, nil
}

func (m *mockSessionService) Get(_ context.Context, id string) (*domain.Session, error) {
	for i := range m.sessions {
		if m.sessions[i].ID == id {
			return &m.sessions[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionService) List(_ context.Context) ([]domain.Session, error) {
	return m.sessions, nil
}

func (m *mockSessionService) Rename(_ context.Context, _, _ string) error { return nil }

func (m *mockSessionService) Delete(_ context.Context, _ string) error { return nil }

func (m *mockSessionService) Restore(ctx context.Context, id string) (*domain.Session, error) {
	return m.Get(ctx, id)
}

func testPorts() *Ports {
	return &Ports{
		Search:  &mockSearchService{},
		Session: &mockSessionService{},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(testPorts())
	require.NoError(t, err)
	return app
}

func TestPorts_Validate(t *testing.T) {
	assert.NoError(t, testPorts().Validate())
	assert.ErrorIs(t, (&Ports{Session: &mockSessionService{}}).Validate(), ErrMissingSearchService)
	assert.ErrorIs(t, (&Ports{Search: &mockSearchService{}}).Validate(), ErrMissingSessionService)
}

func TestNewApp(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.NotNil(t, app.menuView)
	assert.NotNil(t, app.searchView)
	assert.NotNil(t, app.sessionsView)
	assert.NotNil(t, app.detailView)
}

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(&Ports{})

	assert.ErrorIs(t, err, ErrMissingSearchService)
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app := newTestApp(t)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, app, model)
	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.width)
	assert.Equal(t, 40, app.height)
}

func TestApp_Update_CtrlC_Quits(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
}

func TestApp_Update_ViewChanged(t *testing.T) {
	app := newTestApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewSearch})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())

	app.Update(messages.ViewChanged{View: messages.ViewSessions})
	assert.Equal(t, messages.ViewSessions, app.CurrentView())

	app.Update(messages.ViewChanged{View: messages.ViewMenu})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Update_SessionSelected(t *testing.T) {
	app := newTestApp(t)
	session := domain.Session{ID: "s1", Name: "Picked"}

	app.Update(messages.SessionSelected{Session: session})

	assert.Equal(t, messages.ViewDetail, app.CurrentView())
}

func TestApp_Update_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)
	wantErr := errors.New("boom")

	app.Update(messages.ErrorOccurred{Err: wantErr})

	assert.Equal(t, wantErr, app.Err())
}

func TestApp_Update_QuitMessage(t *testing.T) {
	app := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
}

func TestApp_Update_HelpEscReturnsToMenu(t *testing.T) {
	app := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})
	require.Equal(t, messages.ViewHelp, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_View_NotReady(t *testing.T) {
	app := newTestApp(t)

	assert.Contains(t, app.View(), "Initialising")
}

func TestApp_View_PerView(t *testing.T) {
	app := newTestApp(t)
	app.SetDimensions(80, 24)

	app.currentView = messages.ViewMenu
	assert.Contains(t, app.View(), "aitab")

	app.currentView = messages.ViewHelp
	output := app.View()
	assert.Contains(t, output, "Help")
	assert.Contains(t, output, "ctrl+c")
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t)
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")

	got := app.WithContext(ctx)

	assert.Equal(t, app, got)
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_SetDimensions(t *testing.T) {
	app := newTestApp(t)

	app.SetDimensions(100, 30)

	assert.True(t, app.Ready())
	assert.Equal(t, 100, app.width)
	assert.Equal(t, 30, app.height)
}
