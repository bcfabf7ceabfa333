package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	ws "github.com/coder/websocket"

	"github.com/foxden/kitsune/internal/bot"
)

const (
	sendBufferSize = 16
	pingInterval   = 30 * time.Second
)

// inboundMessage is one chat message as sent by a connected client.
type inboundMessage struct {
	SenderID   int64  `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
}

// ChatClient runs one guest conversation over a WebSocket connection.
// Messages are handled to completion, in order, before the next is read,
// which gives each sender a single logical stream of events.
type ChatClient struct {
	engine *bot.Engine
	conn   *ws.Conn
	logger *slog.Logger
}

func NewChatClient(engine *bot.Engine, conn *ws.Conn, logger *slog.Logger) *ChatClient {
	return &ChatClient{engine: engine, conn: conn, logger: logger}
}

// Run reads messages until the connection closes.
func (c *ChatClient) Run(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.SenderID == 0 {
			if werr := c.write(ctx, bot.Reply{Text: "Malformed message; expected {sender_id, sender_name, text}."}); werr != nil {
				return
			}
			continue
		}

		reply := c.engine.Handle(bot.Update{
			SenderID:   msg.SenderID,
			SenderName: msg.SenderName,
			Text:       msg.Text,
		})
		if err := c.write(ctx, reply); err != nil {
			return
		}
	}
}

func (c *ChatClient) write(ctx context.Context, reply bot.Reply) error {
	data, err := json.Marshal(reply)
	if err != nil {
		c.logger.Error("marshal reply", "error", err)
		return err
	}
	return c.conn.Write(ctx, ws.MessageText, data)
}

// FeedClient is a read-only subscriber to redemption events.
type FeedClient struct {
	hub  *Hub
	conn *ws.Conn
	send chan []byte
}

func NewFeedClient(hub *Hub, conn *ws.Conn) *FeedClient {
	return &FeedClient{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

// Run registers the client, starts the write pump, and runs the read pump.
// It blocks until the connection is closed, then unregisters.
func (c *FeedClient) Run(ctx context.Context) {
	c.hub.Register(c)
	defer c.hub.Unregister(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go c.writePump(ctx)
	c.readPump(ctx)
}

// readPump reads and discards incoming messages; the feed is one-way. It
// returns on connection close, triggering cleanup.
func (c *FeedClient) readPump(ctx context.Context) {
	for {
		if _, _, err := c.conn.Read(ctx); err != nil {
			return
		}
	}
}

// writePump drains the send channel and pings to detect stale connections.
func (c *FeedClient) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				// Hub closed the channel, connection is done
				return
			}
			if err := c.conn.Write(ctx, ws.MessageText, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
