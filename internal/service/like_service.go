package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
)

// LikeService provides message-like business logic.
type LikeService struct {
	likeRepo    repository.LikeRepository
	messageRepo repository.MessageRepository
}

// NewLikeService returns a new LikeService.
func NewLikeService(likeRepo repository.LikeRepository, messageRepo repository.MessageRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo, messageRepo: messageRepo}
}

// Like records userID liking messageID. Liking twice is a no-op. Users
// may like their own messages.
func (s *LikeService) Like(ctx context.Context, userID, messageID uint) (*models.Message, error) {
	if _, err := s.messageRepo.GetByID(ctx, messageID, userID); err != nil {
		return nil, err
	}
	if err := s.likeRepo.Like(ctx, userID, messageID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetByID(ctx, messageID, userID)
}

// Unlike removes a like. Removing a like that does not exist is a no-op.
func (s *LikeService) Unlike(ctx context.Context, userID, messageID uint) (*models.Message, error) {
	if _, err := s.messageRepo.GetByID(ctx, messageID, userID); err != nil {
		return nil, err
	}
	if err := s.likeRepo.Unlike(ctx, userID, messageID); err != nil {
		return nil, err
	}
	return s.messageRepo.GetByID(ctx, messageID, userID)
}

// IsLiked reports whether userID has liked messageID.
func (s *LikeService) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.likeRepo.IsLiked(ctx, userID, messageID)
}
