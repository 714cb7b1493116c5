package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"enviroops.org/internal/audit"
	"enviroops.org/internal/auth"
)

type listAuditResponse struct {
	AuditLog  []audit.Entry `json:"auditLog"`
	NextAfter uint64        `json:"nextAfter"`
	Success   bool          `json:"success"`
}

type manualAuditRequest struct {
	Action  string `json:"action"`
	User    string `json:"user"`
	Details string `json:"details"`
}

func (a *API) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listAuditTrail(w, r)
	case http.MethodPost:
		a.recordAuditEntry(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) listAuditTrail(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	limit := 1000
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 1000 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = v
	}
	var after uint64
	if raw := strings.TrimSpace(r.URL.Query().Get("after")); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "after must be a non-negative integer")
			return
		}
		after = v
	}

	entries, next, err := a.gate.ListAuditTrail(r.Context(), user, limit, after)
	if err != nil {
		handleGateError(w, r, err)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, listAuditResponse{
		AuditLog:  entries,
		NextAfter: next,
		Success:   true,
	})
}

// recordAuditEntry is the manual-record path. It shares the ledger id space
// with automatic entries.
func (a *API) recordAuditEntry(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var req manualAuditRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var missing []string
	if strings.TrimSpace(req.Action) == "" {
		missing = append(missing, "action")
	}
	if strings.TrimSpace(req.User) == "" {
		missing = append(missing, "user")
	}
	if strings.TrimSpace(req.Details) == "" {
		missing = append(missing, "details")
	}
	if len(missing) > 0 {
		writeError(w, r, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	if _, err := a.gate.RecordManualEntry(r.Context(), user, req.Action, req.User, req.Details); err != nil {
		handleGateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
