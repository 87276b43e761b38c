package server

import (
	"log/slog"

	"pawcircle/internal/member"
	"pawcircle/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// upgradeRequired rejects plain HTTP requests to websocket routes.
func (s *Server) upgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return models.RespondWithError(c, fiber.StatusUpgradeRequired,
		models.NewValidationError("WebSocket upgrade required"))
}

// AlertsWebSocketHandler streams emergency_alert_created events. Anonymous
// visitors may subscribe; the member id is recorded when a token was presented.
func (s *Server) AlertsWebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		memberID, _ := conn.Locals(member.LocalsMemberID).(string)

		client, err := s.alertHub.Register(conn, memberID)
		if err != nil {
			s.logger.Warn("websocket registration rejected",
				slog.String("hub", s.alertHub.Name()), slog.String("error", err.Error()))
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})
}
