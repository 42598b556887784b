package server

import (
	"context"
	"encoding/json"
	"log"

	"warbler/internal/models"

	"github.com/gofiber/fiber/v2"
)

// fanoutCap bounds how many followers receive a realtime push per event.
// Followers beyond the cap still see the message on their next feed fetch.
const fanoutCap = 1000

// realtimeEvent is the envelope for every websocket payload.
type realtimeEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// userSummary is the compact author representation embedded in events.
type userSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
}

func summarize(u *models.User) userSummary {
	if u == nil {
		return userSummary{}
	}
	return userSummary{ID: u.ID, Username: u.Username, ImageURL: u.ImageURL}
}

func encodeEvent(eventType string, payload any) (string, bool) {
	data, err := json.Marshal(realtimeEvent{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("failed to encode %s event: %v", eventType, err)
		return "", false
	}
	return string(data), true
}

// publishMessageCreated pushes a new message to the author and each of
// their followers. Publishing is best effort; failures only cost realtime
// delivery, never the request.
func (s *Server) publishMessageCreated(c *fiber.Ctx, message *models.Message) {
	if s.notifier == nil || message == nil {
		return
	}

	payload, ok := encodeEvent("message_created", fiber.Map{
		"message": message,
		"user":    summarize(message.User),
	})
	if !ok {
		return
	}

	ctx := c.Context()
	if err := s.notifier.PublishUser(ctx, message.UserID, payload); err != nil {
		log.Printf("failed to publish message event for user %d: %v", message.UserID, err)
	}
	s.fanoutToFollowers(ctx, message.UserID, payload)
}

// publishLikeEvent notifies the message author that someone liked their message.
func (s *Server) publishLikeEvent(c *fiber.Ctx, likerID uint, message *models.Message) {
	if s.notifier == nil || message == nil || message.UserID == likerID {
		return
	}

	payload, ok := encodeEvent("message_liked", fiber.Map{
		"message_id":  message.ID,
		"likes_count": message.LikesCount,
		"liked_by":    likerID,
	})
	if !ok {
		return
	}

	if err := s.notifier.PublishUser(c.Context(), message.UserID, payload); err != nil {
		log.Printf("failed to publish like event for user %d: %v", message.UserID, err)
	}
}

// publishFollowEvent notifies a user that they gained a follower.
func (s *Server) publishFollowEvent(c *fiber.Ctx, followerID, targetID uint) {
	if s.notifier == nil {
		return
	}

	payload, ok := encodeEvent("new_follower", fiber.Map{
		"follower_id": followerID,
	})
	if !ok {
		return
	}

	if err := s.notifier.PublishUser(c.Context(), targetID, payload); err != nil {
		log.Printf("failed to publish follow event for user %d: %v", targetID, err)
	}
}

// fanoutToFollowers publishes the payload to every follower's channel,
// paging through the follower list up to fanoutCap.
func (s *Server) fanoutToFollowers(ctx context.Context, userID uint, payload string) {
	const pageSize = 200
	for offset := 0; offset < fanoutCap; offset += pageSize {
		followers, err := s.followRepo.FollowersOf(ctx, userID, pageSize, offset)
		if err != nil {
			log.Printf("failed to load followers of user %d for fanout: %v", userID, err)
			return
		}
		for i := range followers {
			if err := s.notifier.PublishUser(ctx, followers[i].ID, payload); err != nil {
				log.Printf("failed to publish to follower %d: %v", followers[i].ID, err)
			}
		}
		if len(followers) < pageSize {
			return
		}
	}
}
