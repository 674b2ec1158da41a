package handler

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tenanthub/internal/broker"
)

// WebSocketUpgrade gates the /ws route: it requires an upgrade request and a
// non-empty tenantId query parameter before the connection is accepted.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		if c.Query("tenantId") == "" {
			return writeError(c, fiber.StatusBadRequest, "TENANT_REQUIRED", "tenantId query parameter is required")
		}
		return c.Next()
	}
}

// SubscribeEvents subscribes the WebSocket connection to its tenant's topic
// for the lifetime of the connection. The read loop only watches for
// disconnect; clients do not send application frames.
func SubscribeEvents(hub broker.Broker, log zerolog.Logger) fiber.Handler {
	wsLog := log.With().Str("component", "ws").Logger()
	return websocket.New(func(conn *websocket.Conn) {
		tenantID := conn.Query("tenantId")
		sub := newConnSubscriber(conn)

		hub.Subscribe(tenantID, sub)
		defer hub.Unsubscribe(tenantID, sub.ID())

		wsLog.Info().Str("tenant_id", tenantID).Str("conn_id", sub.ID()).Msg("connection opened")
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				wsLog.Info().Str("tenant_id", tenantID).Str("conn_id", sub.ID()).Msg("connection closed")
				return
			}
		}
	})
}

// connSubscriber adapts a WebSocket connection to broker.Subscriber. The hub
// may publish from any goroutine, so writes are serialized.
type connSubscriber struct {
	id   string
	mu   sync.Mutex
	conn *websocket.Conn
}

func newConnSubscriber(conn *websocket.Conn) *connSubscriber {
	return &connSubscriber{id: uuid.NewString(), conn: conn}
}

func (s *connSubscriber) ID() string { return s.id }

func (s *connSubscriber) Send(payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, payload)
}
