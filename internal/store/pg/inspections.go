package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"enviroops.org/internal/ids"
	"enviroops.org/internal/inspection"
)

// InspectionStore is the Postgres inspection.Store. ULID primary keys make
// `order by id` insertion order.
type InspectionStore struct {
	db *sql.DB
}

var _ inspection.Store = (*InspectionStore)(nil)

func (s *InspectionStore) Create(ctx context.Context, draft inspection.Draft) (inspection.SiteInspection, error) {
	if err := draft.Validate(); err != nil {
		return inspection.SiteInspection{}, err
	}

	findings, err := json.Marshal(draft.Findings)
	if err != nil {
		return inspection.SiteInspection{}, fmt.Errorf("marshal findings: %w", err)
	}

	insp := inspection.SiteInspection{
		ID:             ids.New(),
		SiteAddress:    draft.SiteAddress,
		InspectionType: draft.InspectionType,
		Findings:       draft.Findings,
		Status:         draft.Status,
		InspectorID:    draft.InspectorID,
		ReportURL:      draft.ReportURL,
		CreatedAt:      time.Now().UTC(),
	}
	insp.UpdatedAt = insp.CreatedAt

	_, err = s.db.ExecContext(ctx, `
		insert into site_inspections
			(id, site_address, inspection_type, inspector_id, status, report_url, findings, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, insp.ID, insp.SiteAddress, insp.InspectionType, insp.InspectorID, string(insp.Status),
		nullable(insp.ReportURL), findings, insp.CreatedAt, insp.UpdatedAt)
	if err != nil {
		return inspection.SiteInspection{}, err
	}
	return insp, nil
}

func (s *InspectionStore) Get(ctx context.Context, id string) (inspection.SiteInspection, error) {
	row := s.db.QueryRowContext(ctx, `
		select id, site_address, inspection_type, inspector_id, status, report_url, findings, created_at, updated_at
		from site_inspections where id=$1
	`, id)
	insp, err := scanInspection(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return inspection.SiteInspection{}, inspection.ErrNotFound
	}
	return insp, err
}

func (s *InspectionStore) List(ctx context.Context) ([]inspection.SiteInspection, error) {
	rows, err := s.db.QueryContext(ctx, `
		select id, site_address, inspection_type, inspector_id, status, report_url, findings, created_at, updated_at
		from site_inspections order by id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []inspection.SiteInspection{}
	for rows.Next() {
		insp, err := scanInspection(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, insp)
	}
	return out, rows.Err()
}

// UpdateStatus serializes concurrent updates to one inspection with a row
// lock, so the transition check always sees the committed status.
func (s *InspectionStore) UpdateStatus(ctx context.Context, id string, status inspection.Status) (inspection.SiteInspection, error) {
	if _, err := inspection.ParseStatus(string(status)); err != nil {
		return inspection.SiteInspection{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return inspection.SiteInspection{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var current string
	err = tx.QueryRowContext(ctx, `select status from site_inspections where id=$1 for update`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return inspection.SiteInspection{}, inspection.ErrNotFound
	}
	if err != nil {
		return inspection.SiteInspection{}, err
	}
	if !inspection.CanTransition(inspection.Status(current), status) {
		return inspection.SiteInspection{}, fmt.Errorf("%w: %s -> %s", inspection.ErrInvalidTransition, current, status)
	}

	row := tx.QueryRowContext(ctx, `
		update site_inspections set status=$2, updated_at=now()
		where id=$1
		returning id, site_address, inspection_type, inspector_id, status, report_url, findings, created_at, updated_at
	`, id, string(status))
	insp, err := scanInspection(row.Scan)
	if err != nil {
		return inspection.SiteInspection{}, err
	}
	if err := tx.Commit(); err != nil {
		return inspection.SiteInspection{}, err
	}
	return insp, nil
}

func scanInspection(scan func(dest ...any) error) (inspection.SiteInspection, error) {
	var (
		insp      inspection.SiteInspection
		status    string
		reportURL sql.NullString
		findings  []byte
	)
	err := scan(&insp.ID, &insp.SiteAddress, &insp.InspectionType, &insp.InspectorID,
		&status, &reportURL, &findings, &insp.CreatedAt, &insp.UpdatedAt)
	if err != nil {
		return inspection.SiteInspection{}, err
	}
	insp.Status = inspection.Status(status)
	insp.ReportURL = reportURL.String
	insp.Findings = []inspection.Finding{}
	if len(findings) > 0 {
		if err := json.Unmarshal(findings, &insp.Findings); err != nil {
			return inspection.SiteInspection{}, fmt.Errorf("unmarshal findings: %w", err)
		}
	}
	if insp.Findings == nil {
		insp.Findings = []inspection.Finding{}
	}
	return insp, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
