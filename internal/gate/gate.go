// Package gate is the sole entry point for operations on gated resources.
// Every call authorizes against the role matrix before touching a store, and
// every successful mutation appends exactly one entry to the audit ledger
// before the caller sees success. Callers never invoke the role matrix or
// the ledger directly.
package gate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"enviroops.org/internal/audit"
	"enviroops.org/internal/auth"
	"enviroops.org/internal/inspection"
	"enviroops.org/internal/obs"
	"enviroops.org/internal/template"
)

// ErrAuditWrite reports that a mutation committed but its audit entry could
// not be written. The compliance guarantee is broken for that action, so the
// overall operation is reported as failed and operators must reconcile.
var ErrAuditWrite = errors.New("gate: audit write failed after mutation committed")

// Gate composes the role matrix, the resource stores, and the audit ledger.
type Gate struct {
	inspections inspection.Store
	ledger      audit.Ledger
}

// New constructs a Gate over the given collaborators.
func New(inspections inspection.Store, ledger audit.Ledger) (*Gate, error) {
	if inspections == nil {
		return nil, errors.New("gate: inspection store is required")
	}
	if ledger == nil {
		return nil, errors.New("gate: audit ledger is required")
	}
	return &Gate{inspections: inspections, ledger: ledger}, nil
}

// authorize rejects the call before any store work. Authorization failures
// are not state changes and never produce audit entries.
func (g *Gate) authorize(user auth.User, action auth.Action, kind auth.ResourceKind) error {
	if !user.Authenticated() {
		return auth.ErrUnauthenticated
	}
	if !auth.Authorize(user.Role, action, kind) {
		return auth.ErrForbidden
	}
	return nil
}

// record writes the single audit entry for a committed mutation. A failed
// append is escalated as ErrAuditWrite, never swallowed.
func (g *Gate) record(ctx context.Context, user auth.User, action auth.Action, kind auth.ResourceKind, resourceID, details string) error {
	entry, err := g.ledger.Append(ctx, audit.Draft{
		ActingUser:   user,
		Action:       string(action),
		ResourceKind: string(kind),
		ResourceID:   resourceID,
		Details:      details,
	})
	if err != nil {
		obs.LogError("audit append failed", map[string]any{
			"user_id":  user.ID,
			"action":   string(action),
			"resource": string(kind),
			"id":       resourceID,
			"cause":    err.Error(),
		})
		return fmt.Errorf("%w: %v", ErrAuditWrite, err)
	}
	obs.AuditEntryAppended(entry.Action, entry.ResourceKind)
	return nil
}

// CreateInspection creates a site inspection on behalf of user.
func (g *Gate) CreateInspection(ctx context.Context, user auth.User, draft inspection.Draft) (inspection.SiteInspection, error) {
	if err := g.authorize(user, auth.ActionCreate, auth.ResourceSiteInspection); err != nil {
		return inspection.SiteInspection{}, err
	}
	insp, err := g.inspections.Create(ctx, draft)
	if err != nil {
		return inspection.SiteInspection{}, err
	}
	details := fmt.Sprintf("siteAddress=%q inspectionType=%q inspectorId=%q status=%s",
		insp.SiteAddress, insp.InspectionType, insp.InspectorID, insp.Status)
	if err := g.record(ctx, user, auth.ActionCreate, auth.ResourceSiteInspection, insp.ID, details); err != nil {
		return inspection.SiteInspection{}, err
	}
	return insp, nil
}

// GetInspection fetches one inspection. Reads are not audited.
func (g *Gate) GetInspection(ctx context.Context, user auth.User, id string) (inspection.SiteInspection, error) {
	if err := g.authorize(user, auth.ActionRead, auth.ResourceSiteInspection); err != nil {
		return inspection.SiteInspection{}, err
	}
	return g.inspections.Get(ctx, id)
}

// ListInspections lists inspections in insertion order. Reads are not audited.
func (g *Gate) ListInspections(ctx context.Context, user auth.User) ([]inspection.SiteInspection, error) {
	if err := g.authorize(user, auth.ActionRead, auth.ResourceSiteInspection); err != nil {
		return nil, err
	}
	return g.inspections.List(ctx)
}

// UpdateInspectionStatus transitions an inspection's status.
func (g *Gate) UpdateInspectionStatus(ctx context.Context, user auth.User, id string, status inspection.Status) (inspection.SiteInspection, error) {
	if err := g.authorize(user, auth.ActionUpdate, auth.ResourceSiteInspection); err != nil {
		return inspection.SiteInspection{}, err
	}
	insp, err := g.inspections.UpdateStatus(ctx, id, status)
	if err != nil {
		return inspection.SiteInspection{}, err
	}
	details := fmt.Sprintf("status -> %s", insp.Status)
	if err := g.record(ctx, user, auth.ActionUpdate, auth.ResourceSiteInspection, insp.ID, details); err != nil {
		return inspection.SiteInspection{}, err
	}
	return insp, nil
}

// ListTemplates returns the compliance-template catalog.
func (g *Gate) ListTemplates(ctx context.Context, user auth.User) ([]template.ComplianceTemplate, error) {
	if err := g.authorize(user, auth.ActionRead, auth.ResourceComplianceTemplate); err != nil {
		return nil, err
	}
	return template.List(), nil
}

// ListAuditTrail returns ledger entries oldest first.
func (g *Gate) ListAuditTrail(ctx context.Context, user auth.User, limit int, afterID uint64) ([]audit.Entry, uint64, error) {
	if err := g.authorize(user, auth.ActionRead, auth.ResourceAuditLog); err != nil {
		return nil, 0, err
	}
	return g.ledger.List(ctx, limit, afterID)
}

// RecordManualEntry appends a manually reported action to the same ledger as
// automatic entries. The recorder must be authenticated but needs no matrix
// grant: this path is the recording mechanism itself, not a gated mutation.
func (g *Gate) RecordManualEntry(ctx context.Context, recorder auth.User, action, subject, details string) (audit.Entry, error) {
	if !recorder.Authenticated() {
		return audit.Entry{}, auth.ErrUnauthenticated
	}
	var summary string
	if subject = strings.TrimSpace(subject); subject != "" && subject != recorder.DisplayName {
		summary = fmt.Sprintf("[manual, user=%s] %s", subject, details)
	} else {
		summary = "[manual] " + details
	}
	entry, err := g.ledger.Append(ctx, audit.Draft{
		ActingUser: recorder,
		Action:     action,
		Details:    summary,
	})
	if err != nil {
		obs.LogError("manual audit append failed", map[string]any{
			"user_id": recorder.ID,
			"action":  action,
			"cause":   err.Error(),
		})
		return audit.Entry{}, fmt.Errorf("%w: %v", ErrAuditWrite, err)
	}
	obs.AuditEntryAppended(entry.Action, "manual")
	return entry, nil
}
