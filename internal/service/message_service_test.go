package service

import (
	"context"
	"strings"
	"testing"

	"warbler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageService_Create_Validation(t *testing.T) {
	t.Parallel()

	t.Run("empty text", func(t *testing.T) {
		t.Parallel()
		svc := NewMessageService(noopMessageRepo(), noopUserRepo())
		_, err := svc.CreateMessage(context.Background(), 1, "   ")
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("text over 140 characters", func(t *testing.T) {
		t.Parallel()
		svc := NewMessageService(noopMessageRepo(), noopUserRepo())
		_, err := svc.CreateMessage(context.Background(), 1, strings.Repeat("a", 141))
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})

	t.Run("text at exactly 140 characters", func(t *testing.T) {
		t.Parallel()
		repo := noopMessageRepo()
		repo.createFn = func(_ context.Context, m *models.Message) error {
			m.ID = 9
			return nil
		}
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Message, error) {
			return &models.Message{ID: id}, nil
		}

		svc := NewMessageService(repo, noopUserRepo())
		msg, err := svc.CreateMessage(context.Background(), 1, strings.Repeat("a", 140))
		require.NoError(t, err)
		assert.Equal(t, uint(9), msg.ID)
	})

	t.Run("140 multibyte characters are allowed", func(t *testing.T) {
		t.Parallel()
		repo := noopMessageRepo()
		repo.createFn = func(_ context.Context, m *models.Message) error {
			m.ID = 10
			return nil
		}
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Message, error) {
			return &models.Message{ID: id}, nil
		}

		svc := NewMessageService(repo, noopUserRepo())
		_, err := svc.CreateMessage(context.Background(), 1, strings.Repeat("ü", 140))
		require.NoError(t, err)

		_, err = svc.CreateMessage(context.Background(), 1, strings.Repeat("ü", 141))
		assertAppErrorCode(t, err, "VALIDATION_ERROR")
	})
}

func TestMessageService_Create_StoresTrimmedText(t *testing.T) {
	t.Parallel()

	var stored string
	repo := noopMessageRepo()
	repo.createFn = func(_ context.Context, m *models.Message) error {
		stored = m.Text
		m.ID = 5
		return nil
	}
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Message, error) {
		return &models.Message{ID: id, Text: stored}, nil
	}

	svc := NewMessageService(repo, noopUserRepo())
	msg, err := svc.CreateMessage(context.Background(), 1, "  morning chirp \n")
	require.NoError(t, err)
	assert.Equal(t, "morning chirp", stored)
	assert.Equal(t, "morning chirp", msg.Text)
}

func TestMessageService_Delete_OwnerOnly(t *testing.T) {
	t.Parallel()

	t.Run("non-owner is rejected", func(t *testing.T) {
		t.Parallel()
		repo := noopMessageRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Message, error) {
			return &models.Message{ID: id, UserID: 7, Text: "mine"}, nil
		}

		svc := NewMessageService(repo, noopUserRepo())
		err := svc.DeleteMessage(context.Background(), 1, 8)
		assertAppErrorCode(t, err, "UNAUTHORIZED")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Access unauthorized.", appErr.Message)
	})

	t.Run("owner may delete", func(t *testing.T) {
		t.Parallel()
		repo := noopMessageRepo()
		repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Message, error) {
			return &models.Message{ID: id, UserID: 7, Text: "mine"}, nil
		}
		deleted := uint(0)
		repo.deleteFn = func(_ context.Context, id uint) error {
			deleted = id
			return nil
		}

		svc := NewMessageService(repo, noopUserRepo())
		require.NoError(t, svc.DeleteMessage(context.Background(), 1, 7))
		assert.Equal(t, uint(1), deleted)
	})
}

func TestMessageService_Delete_MissingMessage(t *testing.T) {
	t.Parallel()

	repo := noopMessageRepo()
	repo.getByIDFn = func(_ context.Context, id, _ uint) (*models.Message, error) {
		return nil, models.NewNotFoundError("Message", id)
	}

	svc := NewMessageService(repo, noopUserRepo())
	err := svc.DeleteMessage(context.Background(), 404, 1)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestMessageService_ListByUser_UnknownUser(t *testing.T) {
	t.Parallel()

	userRepo := noopUserRepo()
	userRepo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return nil, models.NewNotFoundError("User", id)
	}

	svc := NewMessageService(noopMessageRepo(), userRepo)
	_, err := svc.ListByUser(context.Background(), 404, 20, 0, 0)
	assertAppErrorCode(t, err, "NOT_FOUND")
}
