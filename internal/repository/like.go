package repository

import (
	"context"

	"warbler/internal/cache"
	"warbler/internal/models"
	"warbler/internal/observability"

	"gorm.io/gorm"
)

// LikeRepository defines persistence operations for message likes.
type LikeRepository interface {
	Like(ctx context.Context, userID, messageID uint) error
	Unlike(ctx context.Context, userID, messageID uint) error
	IsLiked(ctx context.Context, userID, messageID uint) (bool, error)
	CountForMessage(ctx context.Context, messageID uint) (int64, error)
}

type likeRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db, metrics: observability.NewDatabaseMetrics()}
}

// Like records a like. Liking a message twice is a no-op; the insert is
// atomic so concurrent likes cannot produce duplicate key errors.
func (r *likeRepository) Like(ctx context.Context, userID, messageID uint) error {
	defer r.metrics.TrackQuery("like", "likes")()

	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, message_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, message_id) DO NOTHING`,
		userID, messageID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateMessage(ctx, messageID)
	return nil
}

// Unlike removes a like. Removing a like that does not exist is a no-op.
func (r *likeRepository) Unlike(ctx context.Context, userID, messageID uint) error {
	defer r.metrics.TrackQuery("unlike", "likes")()

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMessage(ctx, messageID)
	return nil
}

func (r *likeRepository) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	var count int64
	if err := readReplica(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *likeRepository) CountForMessage(ctx context.Context, messageID uint) (int64, error) {
	var count int64
	if err := readReplica(r.db).WithContext(ctx).
		Model(&models.Like{}).
		Where("message_id = ?", messageID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
