package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
)

// SocialService provides follow-graph business logic.
type SocialService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewSocialService returns a new SocialService.
func NewSocialService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *SocialService {
	return &SocialService{followRepo: followRepo, userRepo: userRepo}
}

// Follow makes followerID follow targetID. Following an existing
// followee is a no-op.
func (s *SocialService) Follow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return models.NewValidationError("Cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	if err := s.followRepo.Create(ctx, targetID, followerID); err != nil {
		return err
	}
	observability.FollowEdgesChanged.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow removes the follow edge. Unfollowing someone not followed is
// a no-op.
func (s *SocialService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	if err := s.followRepo.Delete(ctx, targetID, followerID); err != nil {
		return err
	}
	observability.FollowEdgesChanged.WithLabelValues("unfollow").Inc()
	return nil
}

// IsFollowing reports whether userID follows targetID.
func (s *SocialService) IsFollowing(ctx context.Context, userID, targetID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, userID, targetID)
}

// IsFollowedBy reports whether userID is followed by otherID.
func (s *SocialService) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.followRepo.IsFollowing(ctx, otherID, userID)
}

// Followers returns the users following userID.
func (s *SocialService) Followers(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.FollowersOf(ctx, userID, limit, offset)
}

// Following returns the users that userID follows.
func (s *SocialService) Following(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.FollowingOf(ctx, userID, limit, offset)
}
