package server

import (
	"fmt"
	"time"

	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// wsTicketTTL bounds the window between ticket issuance and the websocket
// upgrade request that redeems it.
const wsTicketTTL = 30 * time.Second

// IssueWSTicket creates a short-lived single-use ticket for websocket
// authentication. Browsers cannot set Authorization headers on websocket
// upgrade requests, so authenticated clients exchange their credentials
// for a ticket and pass it as a query parameter.
// @Summary Issue a websocket ticket
// @Tags websocket
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 503 {object} models.ErrorResponse
// @Router /ws/ticket [post]
func (s *Server) IssueWSTicket(c *fiber.Ctx) error {
	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewValidationError("Realtime is unavailable"))
	}

	userID := c.Locals("userID").(uint)
	ticket := uuid.NewString()

	key := fmt.Sprintf("ws_ticket:%s", ticket)
	if err := s.redis.Set(c.Context(), key, fmt.Sprintf("%d", userID), wsTicketTTL).Err(); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"ticket":     ticket,
		"expires_in": fmt.Sprintf("%ds", int(wsTicketTTL.Seconds())),
	})
}

// WebsocketHandler upgrades the connection and attaches it to the feed hub.
// Events published for the user (or broadcast) are pushed down the socket.
func (s *Server) WebsocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals("userID").(uint)
		if !ok || userID == 0 {
			_ = conn.Close()
			return
		}

		if s.hub == nil {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "Realtime is unavailable"))
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(userID, conn)
		if err != nil {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return models.RespondWithError(c, fiber.StatusUpgradeRequired,
				models.NewValidationError("Websocket upgrade required"))
		}
		return upgrade(c)
	}
}
