package repository

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines persistence operations for the social graph.
type FollowRepository interface {
	Create(ctx context.Context, followedID, followerID uint) error
	Delete(ctx context.Context, followedID, followerID uint) error
	IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error)
	FollowersOf(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
	FollowingOf(ctx context.Context, userID uint, limit, offset int) ([]models.User, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type followRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db, metrics: observability.NewDatabaseMetrics()}
}

// Create adds a follow edge. Following someone you already follow is a
// no-op rather than an error.
func (r *followRepository) Create(ctx context.Context, followedID, followerID uint) error {
	defer r.metrics.TrackQuery("create", "follows")()

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Follow{
			UserBeingFollowedID: followedID,
			UserFollowingID:     followerID,
		}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes a follow edge. Removing an edge that does not exist is a
// no-op.
func (r *followRepository) Delete(ctx context.Context, followedID, followerID uint) error {
	defer r.metrics.TrackQuery("delete", "follows")()

	err := r.db.WithContext(ctx).
		Where("user_being_followed_id = ? AND user_following_id = ?", followedID, followerID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *followRepository) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	var count int64
	if err := readReplica(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_being_followed_id = ? AND user_following_id = ?", followedID, followerID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// FollowersOf returns the users who follow the given user.
func (r *followRepository) FollowersOf(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	defer r.metrics.TrackQuery("followers_of", "follows")()

	var users []models.User
	if err := readReplica(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.user_following_id").
		Where("f.user_being_followed_id = ?", userID).
		Order("f.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// FollowingOf returns the users the given user follows.
func (r *followRepository) FollowingOf(ctx context.Context, userID uint, limit, offset int) ([]models.User, error) {
	defer r.metrics.TrackQuery("following_of", "follows")()

	var users []models.User
	if err := readReplica(r.db).WithContext(ctx).
		Table("users").
		Joins("JOIN follows f ON users.id = f.user_being_followed_id").
		Where("f.user_following_id = ?", userID).
		Order("f.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := readReplica(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_being_followed_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *followRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := readReplica(r.db).WithContext(ctx).
		Model(&models.Follow{}).
		Where("user_following_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
