package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/foxden/kitsune/internal/loyalty"
	"github.com/foxden/kitsune/internal/model"
	"github.com/foxden/kitsune/internal/store"
)

const (
	defaultNotesLimit = 10
	maxNotesLimit     = 50
)

type GuestHandler struct {
	guests *store.GuestStore
	notes  *store.TastingNoteStore
	visits *store.VisitStore
	ladder loyalty.Ladder
	logger *slog.Logger
}

func NewGuestHandler(gs *store.GuestStore, ns *store.TastingNoteStore, vs *store.VisitStore, ladder loyalty.Ladder, logger *slog.Logger) *GuestHandler {
	return &GuestHandler{guests: gs, notes: ns, visits: vs, ladder: ladder, logger: logger}
}

type guestProfile struct {
	Guest    *model.Guest  `json:"guest"`
	Visits   int           `json:"visits"`
	Points   int           `json:"points"`
	Tier     loyalty.Tier  `json:"tier"`
	NextTier *loyalty.Tier `json:"next_tier,omitempty"`
}

func (h *GuestHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	guest, err := h.guests.GetByExternalID(id)
	if err != nil {
		h.logger.Error("get guest failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get guest"})
		return
	}
	if guest == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "guest not found"})
		return
	}

	visits, err := h.visits.CountByGuest(id)
	if err != nil {
		h.logger.Error("count visits failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to count visits"})
		return
	}

	points := loyalty.PointsFromVisits(visits)
	profile := guestProfile{
		Guest:  guest,
		Visits: visits,
		Points: points,
		Tier:   h.ladder.TierForPoints(points),
	}
	if next, ok := h.ladder.NextTier(points); ok {
		profile.NextTier = &next
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *GuestHandler) Notes(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	limit := defaultNotesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxNotesLimit)
	}

	notes, err := h.notes.ListRecent(id, limit)
	if err != nil {
		h.logger.Error("list notes failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list notes"})
		return
	}
	if notes == nil {
		notes = []model.TastingNote{}
	}

	writeJSON(w, http.StatusOK, notes)
}
