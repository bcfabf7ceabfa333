// Package redemption turns a scanned or typed redemption code into a
// recorded visit and a receipt for display.
package redemption

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foxden/kitsune/internal/loyalty"
	"github.com/foxden/kitsune/internal/store"
)

// ErrCodeNotFound means no guest owns the presented code. Nothing was written.
var ErrCodeNotFound = errors.New("redemption code not found")

// Receipt summarizes a successful redemption for rendering.
type Receipt struct {
	ExternalID int64        `json:"external_id"`
	Source     string       `json:"source"`
	Visits     int          `json:"visits"`
	Points     int          `json:"points"`
	Tier       loyalty.Tier `json:"tier"`
}

// Service composes the visit store and the points engine. It holds no state
// of its own.
type Service struct {
	visits *store.VisitStore
	ladder loyalty.Ladder
	notify func(Receipt)
	logger *slog.Logger
}

// NewService creates a redemption service. notify, when non-nil, is called
// after each successful redemption (used for live staff feeds).
func NewService(visits *store.VisitStore, ladder loyalty.Ladder, notify func(Receipt), logger *slog.Logger) *Service {
	return &Service{visits: visits, ladder: ladder, notify: notify, logger: logger}
}

// Redeem records a visit for the guest owning code and returns the receipt.
// Unknown codes return ErrCodeNotFound and leave every guest's count
// untouched.
func (s *Service) Redeem(code, source string) (*Receipt, error) {
	code = strings.TrimSpace(code)

	externalID, ok, err := s.visits.AddByCode(code, source)
	if err != nil {
		return nil, fmt.Errorf("redeem code: %w", err)
	}
	if !ok {
		return nil, ErrCodeNotFound
	}

	visits, err := s.visits.CountByGuest(externalID)
	if err != nil {
		return nil, fmt.Errorf("count visits after redeem: %w", err)
	}

	points := loyalty.PointsFromVisits(visits)
	receipt := Receipt{
		ExternalID: externalID,
		Source:     source,
		Visits:     visits,
		Points:     points,
		Tier:       s.ladder.TierForPoints(points),
	}

	s.logger.Info("visit recorded", "external_id", externalID, "source", source, "visits", visits, "points", points)

	if s.notify != nil {
		s.notify(receipt)
	}
	return &receipt, nil
}
