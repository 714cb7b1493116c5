package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"enviroops.org/internal/audit"
	"enviroops.org/internal/auth"
	"enviroops.org/internal/gate"
	"enviroops.org/internal/inspection"
	"enviroops.org/internal/obs"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error":   msg,
		"success": false,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

// handleGateError maps the error taxonomy onto HTTP codes. Storage and audit
// failures keep their detail server-side; the caller sees a reduced message.
func handleGateError(w http.ResponseWriter, r *http.Request, err error) {
	var missing *inspection.MissingFieldsError
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		writeError(w, r, http.StatusUnauthorized, "please log in")
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, r, http.StatusForbidden, "access denied")
	case errors.As(err, &missing):
		writeError(w, r, http.StatusBadRequest, missing.Error())
	case errors.Is(err, inspection.ErrInvalidStatus),
		errors.Is(err, inspection.ErrInvalidTransition),
		errors.Is(err, audit.ErrInvalidDraft):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, inspection.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, gate.ErrAuditWrite):
		// The mutation committed but the compliance record did not.
		writeError(w, r, http.StatusInternalServerError, "audit write failed")
	default:
		obs.LogError("request failed", map[string]any{
			"method":     r.Method,
			"path":       r.URL.Path,
			"request_id": RequestIDFromContext(r.Context()),
			"cause":      err.Error(),
		})
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
