package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// sessionsKey is the collection key in the backing map.
const sessionsKey = "sessions"

// storedSession is the persisted session shape.
type storedSession struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Tabs       []storedTab       `json:"tabs"`
	Windows    []storedWindow    `json:"windows"`
	Timestamp  time.Time         `json:"timestamp"`
	Context    string            `json:"context,omitempty"`
	TabGroups  []storedTabGroup  `json:"tabGroups,omitempty"`
	Generation *storedGeneration `json:"generation,omitempty"`
}

type storedTab struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	WindowIndex int    `json:"windowIndex"`
}

type storedWindow struct {
	TabCount int  `json:"tabCount"`
	Focused  bool `json:"focused"`
}

type storedTabGroup struct {
	Name       string `json:"name"`
	TabIndices []int  `json:"tabIndices"`
}

type storedGeneration struct {
	State   string `json:"state"`
	Message string `json:"message,omitempty"`
}

// SessionStore persists the session collection in a driven.KVStore.
//
// The backing map only supports whole-value get/set, so all writers share one
// mutex and follow the find-by-id, replace-that-entry, write-back-the-full-
// collection discipline. A blind positional replace would silently lose one of
// two concurrent enrichment completions.
type SessionStore struct {
	mu sync.Mutex
	kv driven.KVStore
}

// NewSessionStore creates a session store over the given key/value map.
func NewSessionStore(kv driven.KVStore) *SessionStore {
	return &SessionStore{kv: kv}
}

// Save inserts a new session at the head of the collection (newest-first).
func (s *SessionStore) Save(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return err
	}

	collection = append([]storedSession{toStored(session)}, collection...)
	return s.write(ctx, collection)
}

// Get returns a session by ID.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range collection {
		if collection[i].ID == id {
			session := fromStored(collection[i])
			return &session, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all sessions, most recently captured first.
func (s *SessionStore) List(ctx context.Context) ([]domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	sessions := make([]domain.Session, len(collection))
	for i := range collection {
		sessions[i] = fromStored(collection[i])
	}
	return sessions, nil
}

// Update applies mutate to the session with the given ID and writes the full
// collection back, all under the store's lock.
func (s *SessionStore) Update(ctx context.Context, id string, mutate func(*domain.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range collection {
		if collection[i].ID != id {
			continue
		}
		session := fromStored(collection[i])
		if err := mutate(&session); err != nil {
			return err
		}
		collection[i] = toStored(&session)
		return s.write(ctx, collection)
	}
	return domain.ErrNotFound
}

// Delete removes a session by ID.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range collection {
		if collection[i].ID == id {
			collection = append(collection[:i], collection[i+1:]...)
			return s.write(ctx, collection)
		}
	}
	return domain.ErrNotFound
}

// load reads and decodes the collection (caller must hold the lock).
func (s *SessionStore) load(ctx context.Context) ([]storedSession, error) {
	raw, ok, err := s.kv.Get(ctx, sessionsKey)
	if err != nil {
		return nil, fmt.Errorf("read session collection: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var collection []storedSession
	if err := json.Unmarshal(raw, &collection); err != nil {
		return nil, fmt.Errorf("decode session collection: %w", err)
	}
	return collection, nil
}

// write encodes and persists the collection (caller must hold the lock).
func (s *SessionStore) write(ctx context.Context, collection []storedSession) error {
	raw, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("encode session collection: %w", err)
	}
	if err := s.kv.Set(ctx, sessionsKey, raw); err != nil {
		return fmt.Errorf("write session collection: %w", err)
	}
	return nil
}

// toStored converts a domain session to its persisted shape.
func toStored(session *domain.Session) storedSession {
	stored := storedSession{
		ID:        session.ID,
		Name:      session.Name,
		Timestamp: session.Timestamp,
		Context:   session.Context,
	}

	stored.Tabs = make([]storedTab, len(session.Tabs))
	for i, tab := range session.Tabs {
		stored.Tabs[i] = storedTab{URL: tab.URL, Title: tab.Title, WindowIndex: tab.WindowIndex}
	}

	stored.Windows = make([]storedWindow, len(session.Windows))
	for i, win := range session.Windows {
		stored.Windows[i] = storedWindow{TabCount: win.TabCount, Focused: win.Focused}
	}

	for _, group := range session.TabGroups {
		stored.TabGroups = append(stored.TabGroups, storedTabGroup{
			Name:       group.Name,
			TabIndices: group.TabIndices,
		})
	}

	if session.Generation.State != "" {
		stored.Generation = &storedGeneration{
			State:   session.Generation.State.String(),
			Message: session.Generation.Message,
		}
	}

	return stored
}

// fromStored converts a persisted session back to the domain shape.
func fromStored(stored storedSession) domain.Session {
	session := domain.Session{
		ID:        stored.ID,
		Name:      stored.Name,
		Timestamp: stored.Timestamp,
		Context:   stored.Context,
	}

	session.Tabs = make([]domain.Tab, len(stored.Tabs))
	for i, tab := range stored.Tabs {
		session.Tabs[i] = domain.Tab{URL: tab.URL, Title: tab.Title, WindowIndex: tab.WindowIndex}
	}

	session.Windows = make([]domain.Window, len(stored.Windows))
	for i, win := range stored.Windows {
		session.Windows[i] = domain.Window{TabCount: win.TabCount, Focused: win.Focused}
	}

	for _, group := range stored.TabGroups {
		session.TabGroups = append(session.TabGroups, domain.TabGroup{
			Name:       group.Name,
			TabIndices: group.TabIndices,
		})
	}

	if stored.Generation != nil {
		session.Generation = domain.GenerationStatus{
			State:   domain.GenerationState(stored.Generation.State),
			Message: stored.Generation.Message,
		}
	} else {
		session.Generation = domain.GenerationStatus{State: domain.GenerationIdle}
	}

	return session
}
