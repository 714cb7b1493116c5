package pg

import (
	"context"
	"database/sql"
	"strings"

	"enviroops.org/internal/audit"
	"enviroops.org/internal/auth"
)

// AuditLedger is the Postgres audit.Ledger. The id column is a bigserial:
// ids of committed appends are strictly increasing, and gaps left by failed
// inserts are acceptable and never backfilled. There is deliberately no
// update or delete statement in this file.
type AuditLedger struct {
	db *sql.DB
}

var _ audit.Ledger = (*AuditLedger)(nil)

func (l *AuditLedger) Append(ctx context.Context, draft audit.Draft) (audit.Entry, error) {
	if strings.TrimSpace(draft.Action) == "" || strings.TrimSpace(draft.ActingUser.ID) == "" {
		return audit.Entry{}, audit.ErrInvalidDraft
	}

	entry := audit.Entry{
		ActingUser:   draft.ActingUser,
		Action:       draft.Action,
		ResourceKind: draft.ResourceKind,
		ResourceID:   draft.ResourceID,
		Details:      draft.Details,
	}
	err := l.db.QueryRowContext(ctx, `
		insert into audit_entries
			(actor_id, actor_name, actor_role, action, resource_kind, resource_id, details, ts)
		values ($1,$2,$3,$4,$5,$6,$7,now())
		returning id, ts
	`, draft.ActingUser.ID, draft.ActingUser.DisplayName, string(draft.ActingUser.Role),
		draft.Action, nullable(draft.ResourceKind), nullable(draft.ResourceID), draft.Details,
	).Scan(&entry.ID, &entry.Timestamp)
	if err != nil {
		return audit.Entry{}, err
	}
	return entry, nil
}

func (l *AuditLedger) List(ctx context.Context, limit int, afterID uint64) ([]audit.Entry, uint64, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	rows, err := l.db.QueryContext(ctx, `
		select id, ts, actor_id, actor_name, actor_role, action, resource_kind, resource_id, details
		from audit_entries where id > $1 order by id limit $2
	`, afterID, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		entries []audit.Entry
		last    uint64
	)
	for rows.Next() {
		var (
			e         audit.Entry
			role      string
			kind, rid sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ActingUser.ID, &e.ActingUser.DisplayName,
			&role, &e.Action, &kind, &rid, &e.Details); err != nil {
			return nil, 0, err
		}
		e.ActingUser.Role = auth.Role(role)
		e.ResourceKind = kind.String
		e.ResourceID = rid.String
		entries = append(entries, e)
		last = e.ID
	}
	return entries, last, rows.Err()
}
