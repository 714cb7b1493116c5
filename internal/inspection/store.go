package inspection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"enviroops.org/internal/ids"
)

// Store defines the typed CRUD surface over site inspections.
type Store interface {
	Create(ctx context.Context, draft Draft) (SiteInspection, error)
	Get(ctx context.Context, id string) (SiteInspection, error)
	List(ctx context.Context) ([]SiteInspection, error)
	UpdateStatus(ctx context.Context, id string, status Status) (SiteInspection, error)
}

// InMemory implements Store with in-process concurrency safety. List order
// is insertion order. UpdateStatus performs its read-modify-write under the
// store lock, so concurrent updates to one id serialize.
// NOTE: the Postgres store in internal/store/pg is the durable twin.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[string]*SiteInspection
	order []string
}

// NewInMemory creates an empty inspection store.
func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[string]*SiteInspection)}
}

func (s *InMemory) Create(ctx context.Context, draft Draft) (SiteInspection, error) {
	if err := draft.Validate(); err != nil {
		return SiteInspection{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	insp := &SiteInspection{
		ID:             ids.New(),
		SiteAddress:    draft.SiteAddress,
		InspectionType: draft.InspectionType,
		Findings:       cloneFindings(draft.Findings),
		Status:         draft.Status,
		InspectorID:    draft.InspectorID,
		ReportURL:      draft.ReportURL,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.byID[insp.ID] = insp
	s.order = append(s.order, insp.ID)
	return copyOf(insp), nil
}

func (s *InMemory) Get(ctx context.Context, id string) (SiteInspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	insp, ok := s.byID[id]
	if !ok {
		return SiteInspection{}, ErrNotFound
	}
	return copyOf(insp), nil
}

func (s *InMemory) List(ctx context.Context) ([]SiteInspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SiteInspection, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyOf(s.byID[id]))
	}
	return out, nil
}

func (s *InMemory) UpdateStatus(ctx context.Context, id string, status Status) (SiteInspection, error) {
	if _, err := ParseStatus(string(status)); err != nil {
		return SiteInspection{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	insp, ok := s.byID[id]
	if !ok {
		return SiteInspection{}, ErrNotFound
	}
	if !CanTransition(insp.Status, status) {
		return SiteInspection{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, insp.Status, status)
	}
	insp.Status = status
	insp.UpdatedAt = time.Now().UTC()
	return copyOf(insp), nil
}

func copyOf(insp *SiteInspection) SiteInspection {
	out := *insp
	out.Findings = cloneFindings(insp.Findings)
	return out
}

// cloneFindings always returns a non-nil slice so findings serialize as []
// rather than null.
func cloneFindings(in []Finding) []Finding {
	out := make([]Finding, len(in))
	copy(out, in)
	return out
}
