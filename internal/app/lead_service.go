package app

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"audit-quiz-service/internal/domain"
)

// LeadStore abstracts lead persistence (in-memory, Postgres, etc).
// Insert returns the generated lead ID; UpdateSyncStatus must touch only the
// sync bookkeeping columns of the row identified by id.
type LeadStore interface {
	Insert(ctx context.Context, lead *domain.Lead) (string, error)
	Get(ctx context.Context, id string) (domain.Lead, error)
	UpdateSyncStatus(ctx context.Context, id string, synced bool, syncErr, contactID string) error
	ListFailed(ctx context.Context) ([]domain.Lead, error)
}

// Contact is a CRM contact record as seen by the sync client.
type Contact struct {
	ID         string
	Properties map[string]string
}

// ContactSyncer is the CRM adapter contract: contacts keyed by email.
type ContactSyncer interface {
	FindByEmail(ctx context.Context, email string) (*Contact, error)
	Create(ctx context.Context, properties map[string]string) (string, error)
	Update(ctx context.Context, id string, properties map[string]string) error
}

// LeadService durably records completed leads and propagates them to the CRM
// best-effort. Local persistence is the durability boundary; CRM errors are
// absorbed into the lead's sync status and never escape this layer.
type LeadService struct {
	store LeadStore
	crm   ContactSyncer
	now   func() time.Time
}

func NewLeadService(store LeadStore, crm ContactSyncer) *LeadService {
	return &LeadService{store: store, crm: crm, now: time.Now}
}

// NewLeadServiceWithClock is test-only for deterministic timestamps.
func NewLeadServiceWithClock(store LeadStore, crm ContactSyncer, now func() time.Time) *LeadService {
	return &LeadService{store: store, crm: crm, now: now}
}

// CaptureLead persists the lead, then makes one synchronous CRM attempt and
// records its outcome. A store failure fails the capture before the CRM is
// touched; a CRM failure does not fail the capture.
func (s *LeadService) CaptureLead(ctx context.Context, data domain.LeadData) domain.CaptureResult {
	lead, err := s.Persist(ctx, data)
	if err != nil {
		log.Printf("lead capture: save failed for %s: %v", data.Email, err)
		return domain.CaptureResult{Success: false, Error: "failed to save lead data"}
	}
	s.syncAndRecord(ctx, &lead)
	return domain.CaptureResult{Success: true, Lead: &lead}
}

// Persist writes the lead without contacting the CRM. Callers that must not
// block on network I/O pair this with a detached SyncPersisted.
func (s *LeadService) Persist(ctx context.Context, data domain.LeadData) (domain.Lead, error) {
	lead := domain.Lead{
		Email:       data.Email,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Company:     data.Company,
		Role:        data.Role,
		TeamSize:    data.TeamSize,
		QuizScore:   data.QuizScore,
		Segment:     data.Segment,
		DNAScores:   data.DNAScores,
		LeadSource:  data.LeadSource,
		SubmittedAt: s.now(),
	}
	id, err := s.store.Insert(ctx, &lead)
	if err != nil {
		return domain.Lead{}, err
	}
	lead.ID = id
	return lead, nil
}

// SyncPersisted re-reads a persisted lead and runs the CRM sync for it.
// Safe to call from a detached goroutine after the session has moved on.
func (s *LeadService) SyncPersisted(ctx context.Context, leadID string) {
	lead, err := s.store.Get(ctx, leadID)
	if err != nil {
		log.Printf("lead sync: load %s failed: %v", leadID, err)
		return
	}
	s.syncAndRecord(ctx, &lead)
}

// RetrySync re-attempts the CRM sync for a lead, for out-of-band remediation.
func (s *LeadService) RetrySync(ctx context.Context, leadID string) (domain.Lead, error) {
	lead, err := s.store.Get(ctx, leadID)
	if err != nil {
		return domain.Lead{}, err
	}
	s.syncAndRecord(ctx, &lead)
	return lead, nil
}

// FailedSyncs lists leads whose CRM propagation has not succeeded.
func (s *LeadService) FailedSyncs(ctx context.Context) ([]domain.Lead, error) {
	return s.store.ListFailed(ctx)
}

// syncAndRecord makes a single CRM attempt and writes the outcome onto both
// the passed lead and its stored row. The status update targets the row by ID
// so it cannot clobber unrelated columns written elsewhere.
func (s *LeadService) syncAndRecord(ctx context.Context, lead *domain.Lead) {
	contactID, err := s.syncContact(ctx, *lead)
	if err != nil {
		lead.HubspotSynced = false
		lead.HubspotSyncError = err.Error()
		log.Printf("lead sync: crm failed for %s: %v", lead.Email, err)
	} else {
		lead.HubspotSynced = true
		lead.HubspotSyncError = ""
		lead.HubspotContactID = contactID
	}
	if uerr := s.store.UpdateSyncStatus(ctx, lead.ID, lead.HubspotSynced, lead.HubspotSyncError, lead.HubspotContactID); uerr != nil {
		// The lead itself is already saved; losing the status update is tolerable.
		log.Printf("lead sync: status update for %s failed: %v", lead.ID, uerr)
	}
}

// syncContact creates or updates the CRM contact keyed by the lead's email.
// A failing or ambiguous search is treated as not-found and falls through to
// the create path.
func (s *LeadService) syncContact(ctx context.Context, lead domain.Lead) (string, error) {
	props := contactProperties(lead)

	existing, err := s.crm.FindByEmail(ctx, lead.Email)
	if err != nil {
		log.Printf("lead sync: search for %s failed, creating instead: %v", lead.Email, err)
		existing = nil
	}
	if existing != nil {
		if err := s.crm.Update(ctx, existing.ID, props); err != nil {
			return "", err
		}
		return existing.ID, nil
	}
	return s.crm.Create(ctx, props)
}

// contactProperties maps a lead onto CRM contact properties. Absent optionals
// are omitted, not sent as empty values.
func contactProperties(lead domain.Lead) map[string]string {
	props := map[string]string{
		"email":      lead.Email,
		"quiz_score": strconv.Itoa(lead.QuizScore),
	}
	if lead.FirstName != "" {
		props["firstname"] = lead.FirstName
	}
	if lead.LastName != "" {
		props["lastname"] = lead.LastName
	}
	if lead.Company != "" {
		props["company"] = lead.Company
	}
	if lead.Role != "" {
		props["jobtitle"] = lead.Role
	}
	if lead.TeamSize != "" {
		props["team_size"] = lead.TeamSize
	}
	if lead.Segment != domain.SegmentUnset {
		props["user_type"] = string(lead.Segment)
	}
	if len(lead.DNAScores) > 0 {
		if raw, err := json.Marshal(lead.DNAScores); err == nil {
			props["dna_scores"] = string(raw)
		}
	}
	if !lead.SubmittedAt.IsZero() {
		props["quiz_completion_date"] = lead.SubmittedAt.UTC().Format(time.RFC3339)
	}
	if lead.LeadSource != "" {
		props["lead_source"] = lead.LeadSource
	}
	return props
}
