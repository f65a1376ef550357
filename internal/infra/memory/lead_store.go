package memory

import (
	"context"
	"sync"

	"audit-quiz-service/internal/domain"
	"github.com/google/uuid"
)

// LeadStore keeps leads in memory. Used in tests and when the service runs
// without Postgres; leads then live only as long as the process.
type LeadStore struct {
	mu    sync.RWMutex
	leads map[string]domain.Lead
	order []string

	// FailInsert makes the next Insert fail; test hook for the
	// persistence-failure path.
	FailInsert error
}

func NewLeadStore() *LeadStore {
	return &LeadStore{leads: make(map[string]domain.Lead)}
}

func (s *LeadStore) Insert(_ context.Context, lead *domain.Lead) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsert != nil {
		return "", s.FailInsert
	}
	id := uuid.NewString()
	lead.ID = id
	s.leads[id] = *lead
	s.order = append(s.order, id)
	return id, nil
}

func (s *LeadStore) Get(_ context.Context, id string) (domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lead, ok := s.leads[id]
	if !ok {
		return domain.Lead{}, domain.ErrLeadNotFound
	}
	return lead, nil
}

// UpdateSyncStatus updates only the sync bookkeeping fields of the lead.
func (s *LeadStore) UpdateSyncStatus(_ context.Context, id string, synced bool, syncErr, contactID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[id]
	if !ok {
		return domain.ErrLeadNotFound
	}
	lead.HubspotSynced = synced
	lead.HubspotSyncError = syncErr
	lead.HubspotContactID = contactID
	s.leads[id] = lead
	return nil
}

func (s *LeadStore) ListFailed(_ context.Context) ([]domain.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	failed := make([]domain.Lead, 0)
	for _, id := range s.order {
		if lead := s.leads[id]; !lead.HubspotSynced {
			failed = append(failed, lead)
		}
	}
	return failed, nil
}
