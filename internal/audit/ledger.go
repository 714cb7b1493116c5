package audit

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"enviroops.org/internal/auth"
)

var (
	ErrInvalidDraft = errors.New("audit: invalid draft")
	ErrNotAppended  = errors.New("audit: entry was not appended")
)

// Entry is an immutable record of one state-changing action. Once written it
// is never updated or removed; corrections are new entries whose Details
// reference the original.
type Entry struct {
	ID           uint64    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	ActingUser   auth.User `json:"actingUser"`
	Action       string    `json:"action"`
	ResourceKind string    `json:"resourceKind,omitempty"`
	ResourceID   string    `json:"resourceId,omitempty"`
	Details      string    `json:"details,omitempty"`
}

// Draft is an entry before the ledger assigns its id and timestamp.
type Draft struct {
	ActingUser   auth.User
	Action       string
	ResourceKind string
	ResourceID   string
	Details      string
}

func (d Draft) validate() error {
	if strings.TrimSpace(d.Action) == "" {
		return errors.Join(ErrInvalidDraft, errors.New("action is required"))
	}
	if strings.TrimSpace(d.ActingUser.ID) == "" {
		return errors.Join(ErrInvalidDraft, errors.New("acting user is required"))
	}
	return nil
}

// Ledger is an append-only record of state-changing actions. Append assigns
// a strictly increasing id; once assigned, ids order the total history of
// mutations. There is no update or delete.
type Ledger interface {
	Append(ctx context.Context, draft Draft) (Entry, error)
	// List returns entries oldest first, starting after the given id.
	// The returned cursor is the id of the last entry, for restartable reads.
	List(ctx context.Context, limit int, afterID uint64) ([]Entry, uint64, error)
}

// InMemory implements Ledger with in-process concurrency safety.
// NOTE: the Postgres ledger in internal/store/pg is the durable twin.
type InMemory struct {
	mu      sync.RWMutex
	seq     uint64
	entries []Entry
}

// NewInMemory creates an empty ledger.
func NewInMemory() *InMemory {
	return &InMemory{}
}

func (l *InMemory) Append(ctx context.Context, draft Draft) (Entry, error) {
	if err := draft.validate(); err != nil {
		return Entry{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := Entry{
		ID:           l.seq,
		Timestamp:    time.Now().UTC(),
		ActingUser:   draft.ActingUser,
		Action:       draft.Action,
		ResourceKind: draft.ResourceKind,
		ResourceID:   draft.ResourceID,
		Details:      draft.Details,
	}
	l.entries = append(l.entries, entry)
	return entry, nil
}

func (l *InMemory) List(ctx context.Context, limit int, afterID uint64) ([]Entry, uint64, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	l.mu.RLock()
	defer l.mu.RUnlock()

	var res []Entry
	var last uint64
	for _, e := range l.entries {
		if e.ID <= afterID {
			continue
		}
		res = append(res, e)
		last = e.ID
		if len(res) >= limit {
			break
		}
	}
	return res, last, nil
}

// Len reports the number of entries appended so far.
func (l *InMemory) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
