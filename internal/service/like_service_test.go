package service

import (
	"context"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeService_Like_MissingMessage(t *testing.T) {
	t.Parallel()

	messageRepo := noopMessageRepo()
	messageRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Message, error) {
		return nil, models.NewNotFoundError("Message", id)
	}

	svc := NewLikeService(noopLikeRepo(), messageRepo)
	_, err := svc.Like(context.Background(), 1, 404)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestLikeService_Like_ReturnsUpdatedMessage(t *testing.T) {
	t.Parallel()

	calls := 0
	messageRepo := noopMessageRepo()
	messageRepo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Message, error) {
		calls++
		msg := &models.Message{ID: id}
		if calls > 1 {
			msg.LikesCount = 1
			msg.Liked = true
		}
		return msg, nil
	}

	liked := false
	likeRepo := noopLikeRepo()
	likeRepo.likeFn = func(context.Context, uint, uint) error {
		liked = true
		return nil
	}

	svc := NewLikeService(likeRepo, messageRepo)
	msg, err := svc.Like(context.Background(), 1, 9)
	require.NoError(t, err)
	assert.True(t, liked, "like should be recorded")
	assert.True(t, msg.Liked)
	assert.Equal(t, int64(1), msg.LikesCount)
}

func TestLikeService_Unlike_Delegates(t *testing.T) {
	t.Parallel()

	var gotUser, gotMessage uint
	likeRepo := noopLikeRepo()
	likeRepo.unlikeFn = func(_ context.Context, userID, messageID uint) error {
		gotUser = userID
		gotMessage = messageID
		return nil
	}

	svc := NewLikeService(likeRepo, noopMessageRepo())
	_, err := svc.Unlike(context.Background(), 4, 8)
	require.NoError(t, err)
	assert.Equal(t, uint(4), gotUser)
	assert.Equal(t, uint(8), gotMessage)
}
