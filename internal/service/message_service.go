package service

import (
	"context"
	"strings"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
	"warbler/internal/validation"
)

// MessageService provides message business logic.
type MessageService struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository, userRepo repository.UserRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo, userRepo: userRepo}
}

// CreateMessage validates and stores a new message for the author. Text is
// stored trimmed of surrounding whitespace.
func (s *MessageService) CreateMessage(ctx context.Context, authorID uint, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if err := validation.ValidateMessageText(text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	message := &models.Message{UserID: authorID, Text: text}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}
	observability.MessagesCreated.Inc()

	return s.messageRepo.GetByID(ctx, message.ID, authorID)
}

// GetMessage returns a message with like details for the current user.
func (s *MessageService) GetMessage(ctx context.Context, id, currentUserID uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id, currentUserID)
}

// DeleteMessage removes a message. Only its author may delete it.
func (s *MessageService) DeleteMessage(ctx context.Context, id, currentUserID uint) error {
	message, err := s.messageRepo.GetByID(ctx, id, currentUserID)
	if err != nil {
		return err
	}
	if message.UserID != currentUserID {
		return models.NewUnauthorizedError("Access unauthorized.")
	}
	return s.messageRepo.Delete(ctx, id)
}

// ListRecent returns the newest messages across all users.
func (s *MessageService) ListRecent(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	return s.messageRepo.ListRecent(ctx, limit, offset, currentUserID)
}

// ListByUser returns a user's messages, newest first.
func (s *MessageService) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListByUser(ctx, userID, limit, offset, currentUserID)
}

// ListFeed returns messages from the user and everyone they follow.
func (s *MessageService) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error) {
	return s.messageRepo.ListFeed(ctx, userID, limit, offset)
}

// ListLikedBy returns the messages a user has liked.
func (s *MessageService) ListLikedBy(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListLikedBy(ctx, userID, limit, offset, currentUserID)
}
