package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"audit-quiz-service/internal/app"
	"audit-quiz-service/internal/domain"
	"audit-quiz-service/internal/infra/memory"
)

func TestAdminListAndRetryFailedLead(t *testing.T) {
	syncer := &flakySyncer{fail: true}
	leads := app.NewLeadService(memory.NewLeadStore(), syncer)

	capture := leads.CaptureLead(context.Background(), domain.LeadData{Email: "bob@example.com"})
	if !capture.Success || capture.Lead.SyncStatus() != "failed" {
		t.Fatalf("expected persisted lead with failed sync, got %+v", capture)
	}

	mux := http.NewServeMux()
	NewAdminHandler(leads).Register(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Get(server.URL + "/admin/leads/failed")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var listing struct {
		Leads []domain.Lead `json:"leads"`
	}
	decodeBody(t, resp, &listing)
	if len(listing.Leads) != 1 || listing.Leads[0].ID != capture.Lead.ID {
		t.Fatalf("expected the failed lead listed, got %+v", listing.Leads)
	}

	syncer.setFail(false)
	resp, err = http.Post(server.URL+"/admin/leads/"+capture.Lead.ID+"/retry-sync", "application/json", nil)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	var retried struct {
		LeadID     string `json:"leadId"`
		SyncStatus string `json:"syncStatus"`
		Synced     bool   `json:"synced"`
	}
	decodeBody(t, resp, &retried)
	if !retried.Synced || retried.SyncStatus != "synced" {
		t.Fatalf("expected retry to sync the lead, got %+v", retried)
	}

	resp, err = http.Get(server.URL + "/admin/leads/failed")
	if err != nil {
		t.Fatalf("list after retry: %v", err)
	}
	decodeBody(t, resp, &listing)
	if len(listing.Leads) != 0 {
		t.Fatalf("expected no failed leads after retry, got %+v", listing.Leads)
	}
}

func TestAdminRetryUnknownLead(t *testing.T) {
	leads := app.NewLeadService(memory.NewLeadStore(), stubSyncer{})
	mux := http.NewServeMux()
	NewAdminHandler(leads).Register(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Post(server.URL+"/admin/leads/no-such-lead/retry-sync", "application/json", nil)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown lead, got %d", resp.StatusCode)
	}
}

func TestAdminRoutesRejectWrongMethods(t *testing.T) {
	leads := app.NewLeadService(memory.NewLeadStore(), stubSyncer{})
	mux := http.NewServeMux()
	NewAdminHandler(leads).Register(mux)
	server := httptest.NewServer(mux)
	defer server.Close()

	resp, err := http.Post(server.URL+"/admin/leads/failed", "application/json", nil)
	if err != nil {
		t.Fatalf("post list: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 on POST list, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/admin/leads/abc/retry-sync")
	if err != nil {
		t.Fatalf("get retry: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 on GET retry, got %d", resp.StatusCode)
	}
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

// flakySyncer fails every CRM call until setFail(false).
type flakySyncer struct {
	mu   sync.Mutex
	fail bool
}

func (s *flakySyncer) setFail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = fail
}

func (s *flakySyncer) failing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail
}

func (s *flakySyncer) FindByEmail(context.Context, string) (*app.Contact, error) {
	return nil, nil
}

func (s *flakySyncer) Create(context.Context, map[string]string) (string, error) {
	if s.failing() {
		return "", errors.New("crm unavailable")
	}
	return "contact-9", nil
}

func (s *flakySyncer) Update(context.Context, string, map[string]string) error {
	if s.failing() {
		return errors.New("crm unavailable")
	}
	return nil
}
