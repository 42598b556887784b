package service

import (
	"context"
	"strings"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// UserService provides profile and account business logic.
type UserService struct {
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	messageRepo repository.MessageRepository
}

// UpdateProfileInput carries the editable profile fields. Password is the
// user's current password, required to confirm the change.
type UpdateProfileInput struct {
	UserID         uint
	Password       string
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository, messageRepo repository.MessageRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo, messageRepo: messageRepo}
}

// GetUserByID returns the user with follower, following, and message
// counts populated.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachStats(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserProfile returns the user as shown on their profile page: stats
// plus their most recent messages, newest first.
func (s *UserService) GetUserProfile(ctx context.Context, id uint, messageLimit int) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithMessages(ctx, id, messageLimit)
	if err != nil {
		return nil, err
	}
	if err := s.attachStats(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) attachStats(ctx context.Context, user *models.User) error {
	followers, err := s.followRepo.CountFollowers(ctx, user.ID)
	if err != nil {
		return err
	}
	following, err := s.followRepo.CountFollowing(ctx, user.ID)
	if err != nil {
		return err
	}
	messages, err := s.messageRepo.CountByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	user.FollowersCount = followers
	user.FollowingCount = following
	user.MessagesCount = messages
	return nil
}

// ListUsers returns users, filtered by a case-insensitive username
// substring when query is non-empty.
func (s *UserService) ListUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	query = strings.TrimSpace(query)
	if query != "" {
		return s.userRepo.Search(ctx, query, limit, offset)
	}
	return s.userRepo.List(ctx, limit, offset)
}

// UpdateProfile applies profile edits after re-verifying the user's
// password.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, models.NewUnauthorizedError("Not Authorized: Incorrect Password")
	}

	if in.Username != "" {
		if err := validation.ValidateUsername(in.Username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = in.Username
	}
	if in.Email != "" {
		if err := validation.ValidateEmail(in.Email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = in.Email
	}
	if in.ImageURL != "" {
		user.ImageURL = in.ImageURL
	}
	if in.HeaderImageURL != "" {
		user.HeaderImageURL = in.HeaderImageURL
	}
	if in.Bio != "" {
		const maxBioLen = 500
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Location != "" {
		user.Location = in.Location
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteAccount removes the user along with their messages, likes, and
// follow edges.
func (s *UserService) DeleteAccount(ctx context.Context, userID uint) error {
	return s.userRepo.Delete(ctx, userID)
}
