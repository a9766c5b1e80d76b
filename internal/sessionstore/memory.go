package sessionstore

import (
	"sync"

	"github.com/huangsam/debtsession/internal/contract"
	"github.com/huangsam/debtsession/schema"
)

// MemoryStore is a volatile in-process session store. It honors the same
// append-only contract as the SQL backends and exists for tests and dry runs.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots []schema.SessionRecord
}

var _ contract.SessionStore = &MemoryStore{} // Compile-time check

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append persists one immutable snapshot of the record.
func (s *MemoryStore) Append(rec schema.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, rec.Clone())
	return nil
}

// Latest returns the most recently appended snapshot.
func (s *MemoryStore) Latest() (schema.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.snapshots) == 0 {
		return schema.SessionRecord{}, schema.ErrNoSession
	}
	return s.snapshots[len(s.snapshots)-1].Clone(), nil
}

// History returns all snapshots for a session in append order.
func (s *MemoryStore) History(sessionID string) ([]schema.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var records []schema.SessionRecord
	for _, rec := range s.snapshots {
		if rec.SessionID == sessionID {
			records = append(records, rec.Clone())
		}
	}
	return records, nil
}

// List returns condensed summaries of all snapshots in append order.
func (s *MemoryStore) List() ([]schema.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]schema.SessionSummary, 0, len(s.snapshots))
	for i, rec := range s.snapshots {
		summaries = append(summaries, schema.SessionSummary{
			SessionID: rec.SessionID,
			Seq:       int64(i + 1),
			Phase:     rec.CurrentPhase,
			Remaining: rec.Budget.Remaining,
			Capacity:  rec.Budget.TotalCapacity,
			Forced:    rec.Forced,
			TakenAt:   rec.UpdatedAt,
		})
	}
	return summaries, nil
}

// Status returns status information about the store.
func (s *MemoryStore) Status() (schema.StoreStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := schema.StoreStatus{
		Backend:        string(schema.MemoryBackend),
		Connected:      true,
		TotalSnapshots: len(s.snapshots),
	}
	sessions := make(map[string]struct{})
	for _, rec := range s.snapshots {
		sessions[rec.SessionID] = struct{}{}
	}
	status.Sessions = len(sessions)
	if n := len(s.snapshots); n > 0 {
		status.LastSnapshot = s.snapshots[n-1].UpdatedAt
	}
	return status, nil
}

// Clear removes all snapshots.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = nil
	return nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}
