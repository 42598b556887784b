package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"warbler/internal/cache"
	"warbler/internal/models"
	"warbler/internal/observability"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDWithMessages(ctx context.Context, id uint, limit int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.User, error)
	Search(ctx context.Context, query string, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db      *gorm.DB
	metrics *observability.DatabaseMetrics
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db, metrics: observability.NewDatabaseMetrics()}
}

// userRecord is the cache representation of a user row. models.User cannot
// go through the JSON cache directly: its password hash is tagged `json:"-"`
// so it would come back empty on every cache hit, and any later bcrypt
// comparison against it would fail.
type userRecord struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"password_hash"`
	ImageURL       string    `json:"image_url"`
	HeaderImageURL string    `json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func newUserRecord(u *models.User) userRecord {
	return userRecord{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		PasswordHash:   u.Password,
		ImageURL:       u.ImageURL,
		HeaderImageURL: u.HeaderImageURL,
		Bio:            u.Bio,
		Location:       u.Location,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (rec userRecord) user() *models.User {
	return &models.User{
		ID:             rec.ID,
		Username:       rec.Username,
		Email:          rec.Email,
		Password:       rec.PasswordHash,
		ImageURL:       rec.ImageURL,
		HeaderImageURL: rec.HeaderImageURL,
		Bio:            rec.Bio,
		Location:       rec.Location,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer r.metrics.TrackQuery("get_by_id", "users")()

	var rec userRecord
	err := cache.Aside(ctx, cache.UserKey(id), &rec, cache.UserTTL, func() error {
		var user models.User
		if err := readReplica(r.db).WithContext(ctx).First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", id)
			}
			return models.NewInternalError(err)
		}
		rec = newUserRecord(&user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec.user(), nil
}

func (r *userRepository) GetByIDWithMessages(ctx context.Context, id uint, limit int) (*models.User, error) {
	defer r.metrics.TrackQuery("get_by_id_with_messages", "users")()

	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var user models.User
	if err := readReplica(r.db).WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC").Limit(limit)
		}).
		First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := readReplica(r.db).WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := readReplica(r.db).WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer r.metrics.TrackQuery("create", "users")()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			msg := strings.ToLower(err.Error())
			if strings.Contains(msg, "email") {
				return models.NewDuplicateEmailError()
			}
			return models.NewDuplicateUsernameError()
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	defer r.metrics.TrackQuery("update", "users")()

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			msg := strings.ToLower(err.Error())
			if strings.Contains(msg, "email") {
				return models.NewDuplicateEmailError()
			}
			return models.NewDuplicateUsernameError()
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// Delete removes the user and everything attached to them in one
// transaction: likes given and received, follow edges in both
// directions, and their messages.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	defer r.metrics.TrackQuery("delete", "users")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("message_id IN (?)", tx.Session(&gorm.Session{NewDB: true}).
				Model(&models.Message{}).Select("id").Where("user_id = ?", id)).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.
			Where("user_being_followed_id = ? OR user_following_id = ?", id, id).
			Delete(&models.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewNotFoundError("User", id)
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

	cache.InvalidateUser(ctx, id)
	cache.InvalidateRecentMessages(ctx)
	return nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	var users []models.User
	if err := readReplica(r.db).WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// Search finds users whose username contains the query, case-insensitively.
func (r *userRepository) Search(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	defer r.metrics.TrackQuery("search", "users")()

	var users []models.User
	like := "%" + query + "%"
	if err := readReplica(r.db).WithContext(ctx).
		Where("LOWER(username) LIKE LOWER(?)", like).
		Order("username ASC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}
