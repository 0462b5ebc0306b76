package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driving"
)

// SearchInput is the input schema for the search_sessions tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"natural-language query describing the session to find"`
}

// SearchOutput is the output schema for the search_sessions tool.
type SearchOutput struct {
	Results  []SessionOutput `json:"results"`
	Method   string          `json:"method"`
	Warnings []string        `json:"warnings,omitempty"`
	Count    int             `json:"count"`
}

// ListInput is the input schema for the list_sessions tool.
type ListInput struct{}

// ListOutput is the output schema for the list_sessions tool.
type ListOutput struct {
	Sessions []SessionOutput `json:"sessions"`
	Count    int             `json:"count"`
}

// GetInput is the input schema for the get_session tool.
type GetInput struct {
	SessionID string `json:"session_id" jsonschema:"the session ID to fetch"`
}

// CaptureInput is the input schema for the capture_session tool.
type CaptureInput struct {
	Name string      `json:"name,omitempty" jsonschema:"session name (default: timestamp)"`
	Tabs []TabOutput `json:"tabs" jsonschema:"open tabs to capture"`
}

// CaptureOutput is the output schema for the capture_session tool.
type CaptureOutput struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

// SessionOutput represents a session in tool results.
type SessionOutput struct {
	SessionID string           `json:"session_id"`
	Name      string           `json:"name"`
	Summary   string           `json:"summary,omitempty"`
	Timestamp string           `json:"timestamp"`
	TabCount  int              `json:"tab_count"`
	Tabs      []TabOutput      `json:"tabs,omitempty"`
	TabGroups []TabGroupOutput `json:"tab_groups,omitempty"`
	Status    string           `json:"status"`
}

// TabOutput represents a tab in tool results.
type TabOutput struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	WindowIndex int    `json:"window_index,omitempty"`
}

// TabGroupOutput represents a proposed tab group in tool results.
type TabGroupOutput struct {
	Name       string `json:"name"`
	TabIndices []int  `json:"tab_indices"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_sessions",
		Description: "Search captured browser sessions by natural-language query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_sessions",
		Description: "List all captured browser sessions, newest first",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_session",
		Description: "Fetch one session with its tabs, summary and tab groups",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "capture_session",
		Description: "Capture a new browser session from a tab snapshot",
	}, s.handleCapture)
}

// handleSearch handles the search_sessions tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	resp, err := s.ports.Search.Search(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results:  make([]SessionOutput, len(resp.Results)),
		Method:   string(resp.Method),
		Warnings: resp.Warnings,
		Count:    len(resp.Results),
	}
	for i := range resp.Results {
		output.Results[i] = toSessionOutput(&resp.Results[i], false)
	}

	return nil, output, nil
}

// handleList handles the list_sessions tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	sessions, err := s.ports.Session.List(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Sessions: make([]SessionOutput, len(sessions)),
		Count:    len(sessions),
	}
	for i := range sessions {
		output.Sessions[i] = toSessionOutput(&sessions[i], false)
	}

	return nil, output, nil
}

// handleGet handles the get_session tool invocation.
func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, SessionOutput, error) {
	session, err := s.ports.Session.Get(ctx, input.SessionID)
	if err != nil {
		return nil, SessionOutput{}, err
	}

	return nil, toSessionOutput(session, true), nil
}

// handleCapture handles the capture_session tool invocation.
func (s *Server) handleCapture(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CaptureInput,
) (*mcp.CallToolResult, CaptureOutput, error) {
	tabs := make([]domain.Tab, len(input.Tabs))
	for i, tab := range input.Tabs {
		tabs[i] = domain.Tab{
			URL:         tab.URL,
			Title:       tab.Title,
			WindowIndex: tab.WindowIndex,
		}
	}

	session, err := s.ports.Session.Capture(ctx, driving.CaptureInput{
		Name: input.Name,
		Tabs: tabs,
	})
	if err != nil {
		return nil, CaptureOutput{}, err
	}

	return nil, CaptureOutput{SessionID: session.ID, Name: session.Name}, nil
}

// toSessionOutput converts a session for tool results. Tabs are included only
// when detailed is set, keeping list and search payloads small.
func toSessionOutput(session *domain.Session, detailed bool) SessionOutput {
	out := SessionOutput{
		SessionID: session.ID,
		Name:      session.Name,
		Summary:   session.Context,
		Timestamp: session.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		TabCount:  len(session.Tabs),
		Status:    session.GenerationState().String(),
	}

	if detailed {
		out.Tabs = make([]TabOutput, len(session.Tabs))
		for i := range session.Tabs {
			out.Tabs[i] = TabOutput{
				URL:         session.Tabs[i].URL,
				Title:       session.Tabs[i].Title,
				WindowIndex: session.Tabs[i].WindowIndex,
			}
		}
		for _, group := range session.TabGroups {
			out.TabGroups = append(out.TabGroups, TabGroupOutput{
				Name:       group.Name,
				TabIndices: group.TabIndices,
			})
		}
	}

	return out
}
