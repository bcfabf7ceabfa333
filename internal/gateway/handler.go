package gateway

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/foxden/kitsune/internal/bot"
)

// HandleChat upgrades a connection and runs it as a guest conversation.
func HandleChat(engine *bot.Engine, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // chat clients connect from arbitrary origins
		})
		if err != nil {
			logger.Warn("chat accept", "error", err)
			return
		}

		client := NewChatClient(engine, conn, logger)
		client.Run(r.Context())
	}
}

// HandleFeed upgrades a connection and subscribes it to redemption events.
func HandleFeed(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Warn("feed accept", "error", err)
			return
		}

		client := NewFeedClient(hub, conn)
		client.Run(r.Context())
	}
}
