package store

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/foxden/kitsune/internal/model"
)

// codePrefix starts every redemption code. The rest is 12 uppercase hex
// characters, e.g. KITSUNE-9F3A0C71B2E4.
const codePrefix = "KITSUNE-"

type GuestStore struct {
	db *sql.DB
}

func NewGuestStore(db *sql.DB) *GuestStore {
	return &GuestStore{db: db}
}

func scanGuest(scanner interface{ Scan(...any) error }) (*model.Guest, error) {
	var g model.Guest
	var createdAt string
	if err := scanner.Scan(&g.ExternalID, &g.DisplayName, &g.RedemptionCode, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	g.CreatedAt = t
	return &g, nil
}

const guestCols = `external_id, display_name, redemption_code, created_at`

func mintCode() string {
	u := uuid.New()
	return codePrefix + strings.ToUpper(hex.EncodeToString(u[:6]))
}

// GetOrCreate returns the guest for externalID, inserting a new row with a
// fresh redemption code on first contact. The display name is only written
// on that first insert; later calls return the stored name unchanged.
//
// Two first contacts for the same guest can race to insert. The external_id
// primary key makes the loser's insert fail, and the retry re-reads the
// winner's row. A code collision trips the redemption_code UNIQUE constraint
// the same way and re-mints on retry.
func (s *GuestStore) GetOrCreate(externalID int64, displayName string) (*model.Guest, error) {
	backoff := retry.WithMaxRetries(3, retry.NewConstant(5*time.Millisecond))

	var guest *model.Guest
	err := retry.Do(context.Background(), backoff, func(ctx context.Context) error {
		existing, err := s.GetByExternalID(externalID)
		if err != nil {
			return err
		}
		if existing != nil {
			guest = existing
			return nil
		}

		g := &model.Guest{
			ExternalID:     externalID,
			DisplayName:    displayName,
			RedemptionCode: mintCode(),
			CreatedAt:      time.Now().UTC(),
		}
		_, err = s.db.Exec(
			`INSERT INTO guests (external_id, display_name, redemption_code, created_at) VALUES (?, ?, ?, ?)`,
			g.ExternalID, g.DisplayName, g.RedemptionCode, formatTime(g.CreatedAt),
		)
		if err != nil {
			if isConstraintViolation(err) {
				return retry.RetryableError(err)
			}
			return fmt.Errorf("insert guest: %w", err)
		}
		guest = g
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get or create guest %d: %w", externalID, err)
	}
	return guest, nil
}

// GetByExternalID returns the guest or nil when none exists.
func (s *GuestStore) GetByExternalID(externalID int64) (*model.Guest, error) {
	row := s.db.QueryRow(`SELECT `+guestCols+` FROM guests WHERE external_id = ?`, externalID)
	g, err := scanGuest(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	return g, nil
}
