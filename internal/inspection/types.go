package inspection

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status is a SiteInspection lifecycle state.
type Status string

const (
	StatusScheduled  Status = "Scheduled"
	StatusInProgress Status = "InProgress"
	StatusCompleted  Status = "Completed"
	StatusFlagged    Status = "Flagged"
)

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFlagged
}

// ParseStatus maps a wire-format status onto a known Status.
func ParseStatus(raw string) (Status, error) {
	switch Status(strings.TrimSpace(raw)) {
	case StatusScheduled:
		return StatusScheduled, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusFlagged:
		return StatusFlagged, nil
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, raw)
}

// CanTransition reports whether an inspection may move from one status to
// another. Skipping forward (Scheduled directly to Completed) and moving back
// to Scheduled are both allowed; the only rule is that terminal states are
// never left.
func CanTransition(from, to Status) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusFlagged:
		return true
	}
	return false
}

// Finding is one observation recorded during a site visit.
type Finding struct {
	Description string `json:"description"`
	Severity    string `json:"severity,omitempty"`
}

// SiteInspection is an operational record of one environmental site visit.
// ID and CreatedAt are set once at creation and never change.
type SiteInspection struct {
	ID             string    `json:"id"`
	SiteAddress    string    `json:"siteAddress"`
	InspectionType string    `json:"inspectionType"`
	Findings       []Finding `json:"findings"`
	Status         Status    `json:"status"`
	InspectorID    string    `json:"inspectorId"`
	ReportURL      string    `json:"reportUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Draft is the caller-supplied portion of a new inspection.
type Draft struct {
	SiteAddress    string    `json:"siteAddress"`
	InspectionType string    `json:"inspectionType"`
	InspectorID    string    `json:"inspectorId"`
	Findings       []Finding `json:"findings,omitempty"`
	Status         Status    `json:"status,omitempty"`
	ReportURL      string    `json:"reportUrl,omitempty"`
}

var (
	ErrNotFound          = errors.New("inspection: not found")
	ErrInvalidStatus     = errors.New("inspection: invalid status")
	ErrInvalidTransition = errors.New("inspection: invalid status transition")
)

// MissingFieldsError lists required create fields that were absent, using
// their wire names so the message can be surfaced to callers verbatim.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "Missing required fields: " + strings.Join(e.Fields, ", ")
}

// Validate checks required fields and normalises defaults: findings default
// to an empty sequence and status defaults to Scheduled.
func (d *Draft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.SiteAddress) == "" {
		missing = append(missing, "siteAddress")
	}
	if strings.TrimSpace(d.InspectionType) == "" {
		missing = append(missing, "inspectionType")
	}
	if strings.TrimSpace(d.InspectorID) == "" {
		missing = append(missing, "inspectorId")
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	if d.Status == "" {
		d.Status = StatusScheduled
	} else {
		status, err := ParseStatus(string(d.Status))
		if err != nil {
			return err
		}
		d.Status = status
	}
	if d.Findings == nil {
		d.Findings = []Finding{}
	}
	return nil
}
