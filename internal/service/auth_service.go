// Package service contains the application's business logic.
package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/repository"
	"warbler/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles signup and credential verification.
type AuthService struct {
	userRepo repository.UserRepository
}

// SignupInput carries the fields accepted at registration.
type SignupInput struct {
	Username string
	Email    string
	Password string
	ImageURL string
}

// NewAuthService returns a new AuthService.
func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Signup validates the input, hashes the password, and creates the user.
// Missing images fall back to the defaults.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = models.DefaultImageURL
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       string(hashed),
		ImageURL:       imageURL,
		HeaderImageURL: models.DefaultHeaderImageURL,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate finds a user by username and verifies the password.
// Returns (nil, nil) when the username is unknown or the password does
// not match, so callers cannot distinguish the two.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}
