package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"audit-quiz-service/internal/app"
	"audit-quiz-service/internal/domain"
)

// AdminHandler exposes out-of-band lead sync remediation. Retry is never
// invoked automatically; an operator (or a cron) drives it.
type AdminHandler struct {
	leads *app.LeadService
}

func NewAdminHandler(leads *app.LeadService) *AdminHandler {
	return &AdminHandler{leads: leads}
}

// Register mounts the admin routes on mux.
func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin/leads/failed", h.listFailed)
	mux.HandleFunc("/admin/leads/", h.retrySync)
}

func (h *AdminHandler) listFailed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	leads, err := h.leads.FailedSyncs(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

// retrySync handles POST /admin/leads/{id}/retry-sync.
func (h *AdminHandler) retrySync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/admin/leads/")
	leadID, ok := strings.CutSuffix(rest, "/retry-sync")
	if !ok || leadID == "" || strings.Contains(leadID, "/") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	lead, err := h.leads.RetrySync(r.Context(), leadID)
	if errors.Is(err, domain.ErrLeadNotFound) {
		http.Error(w, "lead not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"leadId":     lead.ID,
		"syncStatus": lead.SyncStatus(),
		"synced":     lead.HubspotSynced,
		"error":      lead.HubspotSyncError,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
