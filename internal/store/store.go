package store

import (
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store is the sqlx-backed data layer. Business-visible failures (missing
// rows, state conflicts, capacity shortfalls) come back as *apperr.Error;
// anything else is a raw store error.
type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
