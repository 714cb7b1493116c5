package httpapi

import (
	"net/http"
	"strings"

	"enviroops.org/internal/auth"
	"enviroops.org/internal/inspection"
)

type listInspectionsResponse struct {
	Inspections []inspection.SiteInspection `json:"inspections"`
	Success     bool                        `json:"success"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) handleInspectionsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listInspections(w, r)
	case http.MethodPost:
		a.createInspection(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleInspectionResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/site-inspections/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	if strings.HasSuffix(path, "/status") {
		id := strings.TrimSuffix(strings.TrimSuffix(path, "/status"), "/")
		if id == "" || strings.Contains(id, "/") {
			writeError(w, r, http.StatusNotFound, "inspection not found")
			return
		}
		if r.Method != http.MethodPatch {
			methodNotAllowed(w, r, http.MethodPatch)
			return
		}
		a.updateInspectionStatus(w, r, id)
		return
	}

	if strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getInspection(w, r, path)
	default:
		methodNotAllowed(w, r, http.MethodGet)
	}
}

func (a *API) listInspections(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	inspections, err := a.gate.ListInspections(r.Context(), user)
	if err != nil {
		handleGateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listInspectionsResponse{
		Inspections: inspections,
		Success:     true,
	})
}

func (a *API) createInspection(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())

	var draft inspection.Draft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	insp, err := a.gate.CreateInspection(r.Context(), user, draft)
	if err != nil {
		handleGateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insp)
}

func (a *API) getInspection(w http.ResponseWriter, r *http.Request, id string) {
	user, _ := auth.UserFromContext(r.Context())
	insp, err := a.gate.GetInspection(r.Context(), user, id)
	if err != nil {
		handleGateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insp)
}

func (a *API) updateInspectionStatus(w http.ResponseWriter, r *http.Request, id string) {
	user, _ := auth.UserFromContext(r.Context())

	var req updateStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Status) == "" {
		writeError(w, r, http.StatusBadRequest, "status is required")
		return
	}

	insp, err := a.gate.UpdateInspectionStatus(r.Context(), user, id, inspection.Status(req.Status))
	if err != nil {
		handleGateError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, insp)
}
