// Package pg provides the durable Postgres implementations of the inspection
// store and the audit ledger, over database/sql with the pgx driver.
package pg

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Store struct {
	db *sql.DB
}

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	// Tuned pool defaults; adjust under load tests
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection pool; used by tests.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// Inspections returns the durable inspection store view.
func (s *Store) Inspections() *InspectionStore {
	return &InspectionStore{db: s.db}
}

// Ledger returns the durable audit ledger view.
func (s *Store) Ledger() *AuditLedger {
	return &AuditLedger{db: s.db}
}
