package service

import (
	"context"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSocialService_Follow_Self(t *testing.T) {
	t.Parallel()

	svc := NewSocialService(noopFollowRepo(), noopUserRepo())
	err := svc.Follow(context.Background(), 3, 3)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestSocialService_Follow_MissingTarget(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}

	svc := NewSocialService(noopFollowRepo(), userRepo)
	err := svc.Follow(context.Background(), 1, 404)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestSocialService_Follow_EdgeDirection(t *testing.T) {
	t.Parallel()

	var gotFollowed, gotFollower uint
	followRepo := noopFollowRepo()
	followRepo.createFn = func(_ context.Context, followedID, followerID uint) error {
		gotFollowed = followedID
		gotFollower = followerID
		return nil
	}

	svc := NewSocialService(followRepo, noopUserRepo())
	require.NoError(t, svc.Follow(context.Background(), 1, 2))
	assert.Equal(t, uint(2), gotFollowed)
	assert.Equal(t, uint(1), gotFollower)
}

func TestSocialService_IsFollowedBy_SwapsArguments(t *testing.T) {
	t.Parallel()

	var gotFollower, gotFollowed uint
	followRepo := noopFollowRepo()
	followRepo.isFollowingFn = func(_ context.Context, followerID, followedID uint) (bool, error) {
		gotFollower = followerID
		gotFollowed = followedID
		return true, nil
	}

	svc := NewSocialService(followRepo, noopUserRepo())
	ok, err := svc.IsFollowedBy(context.Background(), 5, 9)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(9), gotFollower)
	assert.Equal(t, uint(5), gotFollowed)
}

func TestSocialService_Followers_MissingUser(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}

	svc := NewSocialService(noopFollowRepo(), userRepo)
	_, err := svc.Followers(context.Background(), 404, 20, 0)
	assertAppErrorCode(t, err, "NOT_FOUND")
}
