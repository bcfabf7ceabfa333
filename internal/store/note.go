package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/foxden/kitsune/internal/model"
)

type TastingNoteStore struct {
	db *sql.DB
}

func NewTastingNoteStore(db *sql.DB) *TastingNoteStore {
	return &TastingNoteStore{db: db}
}

func scanTastingNote(scanner interface{ Scan(...any) error }) (*model.TastingNote, error) {
	var n model.TastingNote
	var createdAt string
	if err := scanner.Scan(&n.ID, &n.ExternalID, &n.TeaName, &n.Taste, &n.Impression, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	n.CreatedAt = t
	return &n, nil
}

const tastingNoteCols = `id, external_id, tea_name, taste, impression, created_at`

// Add inserts an immutable tasting note. Fields are stored as given; callers
// trim surrounding whitespace before calling.
func (s *TastingNoteStore) Add(externalID int64, teaName, taste, impression string) (*model.TastingNote, error) {
	result, err := s.db.Exec(
		`INSERT INTO tasting_notes (external_id, tea_name, taste, impression, created_at) VALUES (?, ?, ?, ?, ?)`,
		externalID, teaName, taste, impression, formatTime(time.Now().UTC()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert tasting note: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *TastingNoteStore) GetByID(id int64) (*model.TastingNote, error) {
	row := s.db.QueryRow(`SELECT `+tastingNoteCols+` FROM tasting_notes WHERE id = ?`, id)
	n, err := scanTastingNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get tasting note: %w", err)
	}
	return n, nil
}

// ListRecent returns up to limit notes for the guest, most recent first.
func (s *TastingNoteStore) ListRecent(externalID int64, limit int) ([]model.TastingNote, error) {
	rows, err := s.db.Query(
		`SELECT `+tastingNoteCols+` FROM tasting_notes
		 WHERE external_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		externalID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasting notes: %w", err)
	}
	defer rows.Close()

	var notes []model.TastingNote
	for rows.Next() {
		n, err := scanTastingNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tasting note: %w", err)
		}
		notes = append(notes, *n)
	}
	return notes, rows.Err()
}
