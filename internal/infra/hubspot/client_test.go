package hubspot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFindByEmailFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crm/v3/objects/contacts/search" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Fatalf("missing bearer token, got %q", auth)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		groups := body["filterGroups"].([]any)
		if len(groups) != 1 {
			t.Fatalf("expected one filter group, got %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"total": 1,
			"results": []map[string]any{
				{"id": "42", "properties": map[string]string{"email": "a@example.com"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", time.Second)
	contact, err := client.FindByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if contact == nil || contact.ID != "42" {
		t.Fatalf("expected contact 42, got %+v", contact)
	}
}

func TestFindByEmailNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"total": 0, "results": []any{}})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", time.Second)
	contact, err := client.FindByEmail(context.Background(), "missing@example.com")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if contact != nil {
		t.Fatalf("expected nil contact, got %+v", contact)
	}
}

func TestCreateReturnsContactID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crm/v3/objects/contacts" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Properties map[string]string `json:"properties"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Properties["email"] != "a@example.com" {
			t.Fatalf("expected email property, got %v", body.Properties)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "77"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", time.Second)
	id, err := client.Create(context.Background(), map[string]string{"email": "a@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "77" {
		t.Fatalf("expected id 77, got %q", id)
	}
}

func TestUpdatePatchesContact(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "42"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", time.Second)
	if err := client.Update(context.Background(), "42", map[string]string{"quiz_score": "12"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotMethod != http.MethodPatch || gotPath != "/crm/v3/objects/contacts/42" {
		t.Fatalf("expected PATCH contact 42, got %s %s", gotMethod, gotPath)
	}
}

func TestAPIErrorCarriesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "PROPERTY_DOESNT_EXIST"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", time.Second)
	_, err := client.Create(context.Background(), map[string]string{"bogus": "x"})
	if err == nil || !strings.Contains(err.Error(), "PROPERTY_DOESNT_EXIST") {
		t.Fatalf("expected API message in error, got %v", err)
	}
}

func TestTimeoutSurfacesAsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "tok", 10*time.Millisecond)
	if _, err := client.FindByEmail(context.Background(), "a@example.com"); err == nil {
		t.Fatalf("expected timeout error")
	}
}
