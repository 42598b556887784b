package server

import (
	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateMessageRequest is the payload for posting a message.
type CreateMessageRequest struct {
	Text string `json:"text"`
}

// GetRecentMessages lists the most recent messages across all users.
// @Summary List recent messages
// @Tags messages
// @Produce json
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} models.Message
// @Router /messages [get]
func (s *Server) GetRecentMessages(c *fiber.Ctx) error {
	p := parsePagination(c, 100)

	messages, err := s.messageService.ListRecent(c.Context(), p.Limit, p.Offset, s.currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(messages)
}

// CreateMessage posts a new message as the authenticated user.
// @Summary Create a message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMessageRequest true "Message text, at most 140 characters"
// @Success 201 {object} models.Message
// @Failure 400 {object} models.ErrorResponse
// @Router /messages [post]
func (s *Server) CreateMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	message, err := s.messageService.CreateMessage(c.Context(), userID, req.Text)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishMessageCreated(c, message)

	return c.Status(fiber.StatusCreated).JSON(message)
}

// GetMessage returns a single message with like details.
// @Summary Get a message
// @Tags messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} models.Message
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id} [get]
func (s *Server) GetMessage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	message, err := s.messageService.GetMessage(c.Context(), id, s.currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(message)
}

// DeleteMessage removes a message. Only its author may delete it.
// @Summary Delete a message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id} [delete]
func (s *Server) DeleteMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.messageService.DeleteMessage(c.Context(), id, userID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Message deleted"})
}

// LikeMessage records a like from the authenticated user.
// @Summary Like a message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} models.Message
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id}/like [post]
func (s *Server) LikeMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	message, err := s.likeService.Like(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishLikeEvent(c, userID, message)

	return c.JSON(message)
}

// UnlikeMessage removes the authenticated user's like.
// @Summary Unlike a message
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} models.Message
// @Failure 404 {object} models.ErrorResponse
// @Router /messages/{id}/like [delete]
func (s *Server) UnlikeMessage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	message, err := s.likeService.Unlike(c.Context(), userID, id)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(message)
}

// GetFeed returns the authenticated user's home timeline: their own
// messages plus messages from everyone they follow.
// @Summary Home feed
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size" default(100)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} models.Message
// @Router /feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	p := parsePagination(c, 100)

	messages, err := s.messageService.ListFeed(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(messages)
}
