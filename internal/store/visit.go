package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type VisitStore struct {
	db *sql.DB
}

func NewVisitStore(db *sql.DB) *VisitStore {
	return &VisitStore{db: db}
}

// AddByCode resolves a redemption code to its owning guest and appends a
// visit event tagged with source. The second return is false when no guest
// owns the code, in which case nothing is written.
func (s *VisitStore) AddByCode(code, source string) (int64, bool, error) {
	code = strings.TrimSpace(code)

	var externalID int64
	err := s.db.QueryRow(`SELECT external_id FROM guests WHERE redemption_code = ?`, code).Scan(&externalID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find guest by code: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO visit_events (external_id, source, created_at) VALUES (?, ?, ?)`,
		externalID, source, formatTime(time.Now().UTC()),
	)
	if err != nil {
		return 0, false, fmt.Errorf("insert visit event: %w", err)
	}
	return externalID, true, nil
}

// CountByGuest returns the number of recorded visits, 0 for unknown guests.
func (s *VisitStore) CountByGuest(externalID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM visit_events WHERE external_id = ?`, externalID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count visits: %w", err)
	}
	return n, nil
}
