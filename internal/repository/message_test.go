package repository

import (
	"context"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestMessage(t *testing.T, userID uint, text string) *models.Message {
	t.Helper()
	msg := &models.Message{UserID: userID, Text: text}
	require.NoError(t, testDB.Create(msg).Error)
	return msg
}

func TestMessageRepository_CreateAndGet(t *testing.T) {
	repo := NewMessageRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "author")

	msg := &models.Message{UserID: author.ID, Text: "Hello Warbler"}
	require.NoError(t, repo.Create(ctx, msg))
	require.NotZero(t, msg.ID)

	got, err := repo.GetByID(ctx, msg.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Hello Warbler", got.Text)
	assert.Equal(t, author.ID, got.UserID)
	assert.Equal(t, int64(0), got.LikesCount)
	assert.False(t, got.Liked)
	if assert.NotNil(t, got.User) {
		assert.Equal(t, author.Username, got.User.Username)
	}
}

func TestMessageRepository_GetByID_NotFound(t *testing.T) {
	repo := NewMessageRepository(testDB)

	_, err := repo.GetByID(context.Background(), 999999, 0)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestMessageRepository_Delete(t *testing.T) {
	repo := NewMessageRepository(testDB)
	likes := NewLikeRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "deleter")
	fan := createTestUser(t, "msgfan")
	msg := createTestMessage(t, author.ID, "soon gone")

	require.NoError(t, likes.Like(ctx, fan.ID, msg.ID))

	require.NoError(t, repo.Delete(ctx, msg.ID))

	_, err := repo.GetByID(ctx, msg.ID, 0)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// The like went with it.
	liked, err := likes.IsLiked(ctx, fan.ID, msg.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestMessageRepository_Delete_NotFound(t *testing.T) {
	repo := NewMessageRepository(testDB)

	err := repo.Delete(context.Background(), 999999)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestMessageRepository_ListByUser(t *testing.T) {
	repo := NewMessageRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "lister")
	other := createTestUser(t, "other")
	createTestMessage(t, author.ID, "first")
	createTestMessage(t, author.ID, "second")
	createTestMessage(t, other.ID, "not mine")

	msgs, err := repo.ListByUser(ctx, author.ID, 50, 0, 0)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, author.ID, m.UserID)
	}
}

func TestMessageRepository_ListFeed(t *testing.T) {
	msgRepo := NewMessageRepository(testDB)
	followRepo := NewFollowRepository(testDB)
	ctx := context.Background()

	reader := createTestUser(t, "reader")
	followed := createTestUser(t, "followed")
	stranger := createTestUser(t, "stranger")

	require.NoError(t, followRepo.Create(ctx, followed.ID, reader.ID))

	own := createTestMessage(t, reader.ID, "my own warble")
	theirs := createTestMessage(t, followed.ID, "followed warble")
	createTestMessage(t, stranger.ID, "stranger warble")

	feed, err := msgRepo.ListFeed(ctx, reader.ID, 50, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	ids := []uint{feed[0].ID, feed[1].ID}
	assert.Contains(t, ids, own.ID)
	assert.Contains(t, ids, theirs.ID)
}

func TestMessageRepository_ListLikedBy(t *testing.T) {
	msgRepo := NewMessageRepository(testDB)
	likeRepo := NewLikeRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "likedauthor")
	liker := createTestUser(t, "liker")

	liked := createTestMessage(t, author.ID, "liked one")
	createTestMessage(t, author.ID, "ignored one")

	require.NoError(t, likeRepo.Like(ctx, liker.ID, liked.ID))

	msgs, err := msgRepo.ListLikedBy(ctx, liker.ID, 50, 0, liker.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, liked.ID, msgs[0].ID)
	assert.True(t, msgs[0].Liked)
	assert.Equal(t, int64(1), msgs[0].LikesCount)
}

func TestMessageRepository_CountByUser(t *testing.T) {
	repo := NewMessageRepository(testDB)
	ctx := context.Background()

	author := createTestUser(t, "counter")
	createTestMessage(t, author.ID, "one")
	createTestMessage(t, author.ID, "two")

	count, err := repo.CountByUser(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
