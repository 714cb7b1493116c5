package httpapi

import (
	"net/http"

	"enviroops.org/internal/auth"
)

func (a *API) handleComplianceTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	user, _ := auth.UserFromContext(r.Context())
	templates, err := a.gate.ListTemplates(r.Context(), user)
	if err != nil {
		handleGateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}
