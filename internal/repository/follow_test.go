package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestUser inserts a user with a unique username and email.
func createTestUser(t *testing.T, prefix string) *models.User {
	t.Helper()
	suffix := time.Now().UnixNano()
	user := &models.User{
		Username: fmt.Sprintf("%s_%d", prefix, suffix),
		Email:    fmt.Sprintf("%s_%d@example.com", prefix, suffix),
		Password: "hashed-password",
		ImageURL: models.DefaultImageURL,
	}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestFollowRepository_FollowLifecycle(t *testing.T) {
	repo := NewFollowRepository(testDB)
	ctx := context.Background()

	alice := createTestUser(t, "alice")
	bob := createTestUser(t, "bob")

	t.Run("not following initially", func(t *testing.T) {
		following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("follow creates a one-way edge", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, bob.ID, alice.ID))

		following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, following)

		// The reverse direction is unaffected.
		reverse, err := repo.IsFollowing(ctx, bob.ID, alice.ID)
		require.NoError(t, err)
		assert.False(t, reverse)
	})

	t.Run("follow is idempotent", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, bob.ID, alice.ID))

		count, err := repo.CountFollowers(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unfollow removes the edge", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, bob.ID, alice.ID))

		following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("unfollow when not following is a no-op", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, bob.ID, alice.ID))
	})
}

func TestFollowRepository_FollowersAndFollowing(t *testing.T) {
	repo := NewFollowRepository(testDB)
	ctx := context.Background()

	celeb := createTestUser(t, "celeb")
	fan1 := createTestUser(t, "fan1")
	fan2 := createTestUser(t, "fan2")

	require.NoError(t, repo.Create(ctx, celeb.ID, fan1.ID))
	require.NoError(t, repo.Create(ctx, celeb.ID, fan2.ID))
	require.NoError(t, repo.Create(ctx, fan1.ID, celeb.ID))

	followers, err := repo.FollowersOf(ctx, celeb.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, followers, 2)

	ids := []uint{followers[0].ID, followers[1].ID}
	assert.Contains(t, ids, fan1.ID)
	assert.Contains(t, ids, fan2.ID)

	following, err := repo.FollowingOf(ctx, celeb.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, fan1.ID, following[0].ID)

	followerCount, err := repo.CountFollowers(ctx, celeb.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), followerCount)

	followingCount, err := repo.CountFollowing(ctx, celeb.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), followingCount)
}
