package memory

import (
	"context"
	"sync"
	"time"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
type VectorStore struct {
	mu      sync.RWMutex
	records map[string]domain.EmbeddingRecord
	now     func() time.Time
}

// NewVectorStore creates a new in-memory vector store.
func NewVectorStore() *VectorStore {
	return &VectorStore{
		records: make(map[string]domain.EmbeddingRecord),
		now:     time.Now,
	}
}

// Put stores or overwrites the vector for a session.
func (s *VectorStore) Put(_ context.Context, sessionID string, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]float32, len(vector))
	copy(copied, vector)
	s.records[sessionID] = domain.EmbeddingRecord{
		SessionID: sessionID,
		Vector:    copied,
		UpdatedAt: s.now(),
	}
	return nil
}

// Get returns the record for a session.
func (s *VectorStore) Get(_ context.Context, sessionID string) (*domain.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// GetAll returns every record.
func (s *VectorStore) GetAll(_ context.Context) ([]domain.EmbeddingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]domain.EmbeddingRecord, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	return records, nil
}

// Delete removes the record for a session.
func (s *VectorStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, sessionID)
	return nil
}

// Clear removes all records.
func (s *VectorStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]domain.EmbeddingRecord)
	return nil
}
