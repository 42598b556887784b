package repository

import (
	"context"
	"errors"

	"warbler/internal/cache"
	"warbler/internal/models"
	"warbler/internal/observability"

	"gorm.io/gorm"
)

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Message, error)
	Delete(ctx context.Context, id uint) error
	ListRecent(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Message, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error)
	ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error)
	ListLikedBy(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

type messageRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db, metrics: observability.NewDatabaseMetrics()}
}

// applyMessageDetails adds subqueries to fetch the like count and liked
// status in a single query.
func (r *messageRepository) applyMessageDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "messages.*, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.message_id = messages.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.message_id = messages.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", 0 as liked")
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	defer r.metrics.TrackQuery("create", "messages")()

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateRecentMessages(ctx)
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Message, error) {
	defer r.metrics.TrackQuery("get_by_id", "messages")()

	var message models.Message
	err := r.applyMessageDetails(readReplica(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Message", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &message, nil
}

// Delete removes a message and its likes. Ownership is enforced by the
// service layer.
func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete", "messages")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Message{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("Message", id)
		}
		return nil
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}

	cache.InvalidateMessage(ctx, id)
	return nil
}

func (r *messageRepository) ListRecent(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	defer r.metrics.TrackQuery("list_recent", "messages")()

	var messages []*models.Message
	err := r.applyMessageDetails(readReplica(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	defer r.metrics.TrackQuery("list_by_user", "messages")()

	var messages []*models.Message
	err := r.applyMessageDetails(readReplica(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// ListFeed returns messages authored by the user and by everyone they
// follow, newest first.
func (r *messageRepository) ListFeed(ctx context.Context, userID uint, limit, offset int) ([]*models.Message, error) {
	defer r.metrics.TrackQuery("list_feed", "messages")()

	var messages []*models.Message
	err := r.applyMessageDetails(readReplica(r.db).WithContext(ctx), userID).
		Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID,
			readReplica(r.db).Session(&gorm.Session{NewDB: true}).
				Model(&models.Follow{}).
				Select("user_being_followed_id").
				Where("user_following_id = ?", userID)).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// ListLikedBy returns the messages a user has liked, most recently liked
// first.
func (r *messageRepository) ListLikedBy(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Message, error) {
	defer r.metrics.TrackQuery("list_liked_by", "messages")()

	var messages []*models.Message
	err := r.applyMessageDetails(readReplica(r.db).WithContext(ctx), currentUserID).
		Preload("User").
		Joins("JOIN likes l ON l.message_id = messages.id").
		Where("l.user_id = ?", userID).
		Order("l.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := readReplica(r.db).WithContext(ctx).
		Model(&models.Message{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
