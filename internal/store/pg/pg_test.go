package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"enviroops.org/internal/audit"
	"enviroops.org/internal/auth"
	"enviroops.org/internal/inspection"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func TestInspectionCreateInserts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec("insert into site_inspections").
		WithArgs(sqlmock.AnyArg(), "123 Main St", "Phase I", "tech-1", "Scheduled",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	insp, err := store.Inspections().Create(context.Background(), inspection.Draft{
		SiteAddress:    "123 Main St",
		InspectionType: "Phase I",
		InspectorID:    "tech-1",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if insp.Status != inspection.StatusScheduled || insp.ID == "" {
		t.Fatalf("unexpected inspection: %+v", insp)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInspectionCreateValidatesBeforeTouchingDB(t *testing.T) {
	store, mock := newMockStore(t)

	_, err := store.Inspections().Create(context.Background(), inspection.Draft{})
	var missing *inspection.MissingFieldsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldsError, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("validation must not reach the database: %v", err)
	}
}

func inspectionRows() *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "site_address", "inspection_type", "inspector_id", "status",
		"report_url", "findings", "created_at", "updated_at",
	}).AddRow("01ARZ3NDEKTSV4RRFFQ69G5FAV", "123 Main St", "Phase I", "tech-1",
		"Scheduled", nil, []byte(`[]`), now, now)
}

func TestInspectionGet(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select (.+) from site_inspections where id=").
		WithArgs("01ARZ3NDEKTSV4RRFFQ69G5FAV").
		WillReturnRows(inspectionRows())

	insp, err := store.Inspections().Get(context.Background(), "01ARZ3NDEKTSV4RRFFQ69G5FAV")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if insp.SiteAddress != "123 Main St" || len(insp.Findings) != 0 || insp.Findings == nil {
		t.Fatalf("unexpected inspection: %+v", insp)
	}
}

func TestInspectionGetNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("select (.+) from site_inspections where id=").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.Inspections().Get(context.Background(), "missing")
	if !errors.Is(err, inspection.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInspectionUpdateStatusLocksRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("select status from site_inspections where id=(.+) for update").
		WithArgs("insp-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Scheduled"))
	rows := inspectionRows()
	mock.ExpectQuery("update site_inspections set status=").
		WithArgs("insp-1", "Flagged").
		WillReturnRows(rows)
	mock.ExpectCommit()

	if _, err := store.Inspections().UpdateStatus(context.Background(), "insp-1", inspection.StatusFlagged); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInspectionUpdateStatusRejectsTerminal(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery("select status from site_inspections where id=(.+) for update").
		WithArgs("insp-1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("Completed"))
	mock.ExpectRollback()

	_, err := store.Inspections().UpdateStatus(context.Background(), "insp-1", inspection.StatusFlagged)
	if !errors.Is(err, inspection.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuditAppendReturnsAssignedID(t *testing.T) {
	store, mock := newMockStore(t)

	ts := time.Now().UTC()
	mock.ExpectQuery("insert into audit_entries").
		WithArgs("u-dir", "Dana Reyes", "Director", "Create", sqlmock.AnyArg(), sqlmock.AnyArg(), "details").
		WillReturnRows(sqlmock.NewRows([]string{"id", "ts"}).AddRow(int64(7), ts))

	entry, err := store.Ledger().Append(context.Background(), audit.Draft{
		ActingUser:   auth.User{ID: "u-dir", DisplayName: "Dana Reyes", Role: auth.RoleDirector},
		Action:       "Create",
		ResourceKind: "SiteInspection",
		ResourceID:   "insp-1",
		Details:      "details",
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if entry.ID != 7 || !entry.Timestamp.Equal(ts) {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestAuditAppendRejectsMalformedDraftWithoutInsert(t *testing.T) {
	store, mock := newMockStore(t)

	if _, err := store.Ledger().Append(context.Background(), audit.Draft{}); !errors.Is(err, audit.ErrInvalidDraft) {
		t.Fatalf("expected ErrInvalidDraft, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("malformed draft must not reach the database: %v", err)
	}
}

func TestAuditListPaginates(t *testing.T) {
	store, mock := newMockStore(t)

	ts := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "ts", "actor_id", "actor_name", "actor_role", "action", "resource_kind", "resource_id", "details",
	}).
		AddRow(int64(5), ts, "u1", "Dana", "Director", "Create", "SiteInspection", "insp-1", "d1").
		AddRow(int64(6), ts, "u1", "Dana", "Director", "Update", "SiteInspection", "insp-1", "d2")
	mock.ExpectQuery("select (.+) from audit_entries where id >").
		WithArgs(int64(4), 10).
		WillReturnRows(rows)

	entries, cursor, err := store.Ledger().List(context.Background(), 10, 4)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 || cursor != 6 {
		t.Fatalf("unexpected page: len=%d cursor=%d", len(entries), cursor)
	}
	if entries[0].ActingUser.Role != auth.RoleDirector {
		t.Fatalf("unexpected actor role: %s", entries[0].ActingUser.Role)
	}
}
