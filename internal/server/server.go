package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/foxden/kitsune/internal/bot"
	"github.com/foxden/kitsune/internal/gateway"
	"github.com/foxden/kitsune/internal/handler"
	"github.com/foxden/kitsune/internal/loyalty"
	"github.com/foxden/kitsune/internal/middleware"
	"github.com/foxden/kitsune/internal/redemption"
	"github.com/foxden/kitsune/internal/store"
)

// redeemLimit caps staff-API redemption attempts per IP per minute to slow
// down code guessing.
const (
	redeemLimit  = 30
	redeemWindow = time.Minute
)

type Server struct {
	db           *sql.DB
	hub          *gateway.Hub
	engine       *bot.Engine
	redeemH      *handler.RedeemHandler
	guestH       *handler.GuestHandler
	staffKeyHash string
	rateLimiter  *middleware.RateLimiter
	logger       *slog.Logger
}

func New(db *sql.DB, ladder loyalty.Ladder, staffIDs []int64, staffKeyHash string, logger *slog.Logger) *Server {
	hub := gateway.NewHub(logger.With("component", "gateway"))

	guestStore := store.NewGuestStore(db)
	noteStore := store.NewTastingNoteStore(db)
	visitStore := store.NewVisitStore(db)

	redeemer := redemption.NewService(visitStore, ladder, func(r redemption.Receipt) {
		hub.Broadcast(gateway.Event{
			Type:       "visit_recorded",
			ExternalID: r.ExternalID,
			Extra: map[string]any{
				"visits": r.Visits,
				"points": r.Points,
				"source": r.Source,
			},
		})
	}, logger.With("component", "redemption"))

	engine := bot.NewEngine(guestStore, noteStore, visitStore, redeemer, ladder, staffIDs, logger.With("component", "bot"))

	return &Server{
		db:           db,
		hub:          hub,
		engine:       engine,
		redeemH:      handler.NewRedeemHandler(redeemer, logger.With("component", "redeem")),
		guestH:       handler.NewGuestHandler(guestStore, noteStore, visitStore, ladder, logger.With("component", "guest")),
		staffKeyHash: staffKeyHash,
		rateLimiter:  middleware.NewRateLimiter(),
		logger:       logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes: guests chat over /ws, anyone may probe /health
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /ws", gateway.HandleChat(s.engine, s.logger.With("component", "chat")))

	// Staff routes sit behind shared-key auth; redemption is rate-limited per IP
	staffMux := http.NewServeMux()
	staffMux.Handle("POST /api/redeem", s.redeemLimited(s.redeemH.Create))
	staffMux.HandleFunc("GET /api/guests/{id}", s.guestH.Profile)
	staffMux.HandleFunc("GET /api/guests/{id}/notes", s.guestH.Notes)
	staffMux.HandleFunc("GET /ws/feed", gateway.HandleFeed(s.hub, s.logger.With("component", "feed")))

	authMiddleware := middleware.RequireStaffKey(s.staffKeyHash)
	outerMux.Handle("/api/", authMiddleware(staffMux))
	outerMux.Handle("/ws/feed", authMiddleware(staffMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) redeemLimited(h http.HandlerFunc) http.Handler {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, redeemLimit, redeemWindow)(h)
}
