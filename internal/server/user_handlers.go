package server

import (
	"warbler/internal/models"
	"warbler/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest is the payload for editing the current user's profile.
// Password is the user's current password and must be supplied to confirm
// the change.
type UpdateProfileRequest struct {
	Password       string `json:"password"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ImageURL       string `json:"image_url"`
	HeaderImageURL string `json:"header_image_url"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
}

// GetUsers lists users, optionally filtered by a username substring.
// @Summary List users
// @Tags users
// @Produce json
// @Param q query string false "Username substring filter"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} models.User
// @Router /users [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userService.ListUsers(c.Context(), c.Query("q"), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(users)
}

// profileMessageLimit bounds how many recent messages ride along with a
// profile payload.
const profileMessageLimit = 100

// GetUserProfile returns a single user with social stats and their most
// recent messages.
// @Summary Get a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserProfile(c.Context(), id, profileMessageLimit)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	// Tell the viewer where they stand relative to this profile.
	viewerID := s.currentUserID(c)
	response := fiber.Map{"user": user}
	if viewerID != 0 && viewerID != id {
		following, err := s.socialService.IsFollowing(c.Context(), viewerID, id)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		followedBy, err := s.socialService.IsFollowedBy(c.Context(), viewerID, id)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		response["is_following"] = following
		response["is_followed_by"] = followedBy
	}

	return c.JSON(response)
}

// GetUserMessages lists a user's messages, newest first.
// @Summary List a user's messages
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Message
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/messages [get]
func (s *Server) GetUserMessages(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	messages, err := s.messageService.ListByUser(c.Context(), id, p.Limit, p.Offset, s.currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(messages)
}

// UpdateMyProfile edits the authenticated user's profile.
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields; password confirms the change"
// @Success 200 {object} models.User
// @Failure 403 {object} models.ErrorResponse
// @Router /users/me [patch]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:         userID,
		Password:       req.Password,
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(user)
}

// DeleteMyAccount removes the authenticated user and everything they own.
// @Summary Delete account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Router /users/me [delete]
func (s *Server) DeleteMyAccount(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if err := s.userService.DeleteAccount(c.Context(), userID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	if err := s.endSession(c); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"message": "Account deleted"})
}

// GetFollowers lists the users following the given user.
// @Summary List followers
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	users, err := s.socialService.Followers(c.Context(), id, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(users)
}

// GetFollowing lists the users the given user follows.
// @Summary List following
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.User
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 50)

	users, err := s.socialService.Following(c.Context(), id, p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(users)
}

// GetUserLikes lists the messages a user has liked, most recent like first.
// @Summary List a user's liked messages
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} models.Message
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/likes [get]
func (s *Server) GetUserLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	messages, err := s.messageService.ListLikedBy(c.Context(), id, p.Limit, p.Offset, s.currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(messages)
}

// FollowUser makes the authenticated user follow the target user.
// @Summary Follow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID to follow"
// @Success 200 {object} map[string]string
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [post]
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.socialService.Follow(c.Context(), userID, targetID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.publishFollowEvent(c, userID, targetID)

	return c.JSON(fiber.Map{"message": "Following"})
}

// UnfollowUser makes the authenticated user stop following the target user.
// @Summary Unfollow a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID to unfollow"
// @Success 200 {object} map[string]string
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/follow [delete]
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.socialService.Unfollow(c.Context(), userID, targetID); err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Unfollowed"})
}
