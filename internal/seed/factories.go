// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"warbler/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedOptions tune factory behavior.
type SeedOptions struct {
	// DryRun logs what would be created without writing to the DB.
	DryRun bool
	// SkipBcrypt stores plaintext passwords. Dev fast mode only.
	SkipBcrypt bool
	// MaxDays spreads created_at timestamps over this many days back.
	MaxDays int
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts SeedOptions
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts SeedOptions) *Factory {
	// seed gofakeit for richer content
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, opts: opts, nextID: 1000}
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:       gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:          gofakeit.Email(),
		Bio:            gofakeit.Sentence(10),
		Location:       gofakeit.City(),
		ImageURL:       fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		HeaderImageURL: models.DefaultHeaderImageURL,
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildMessage constructs a message struct without persisting it.
// Useful for batching.
func (f *Factory) BuildMessage(user *models.User, overrides ...func(*models.Message)) *models.Message {
	message := &models.Message{
		Text:   messageText(),
		UserID: user.ID,
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	daysBack := r.Intn(maxDays)
	hoursBack := r.Intn(24)
	minsBack := r.Intn(60)
	message.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour - time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(message)
	}
	return message
}

// CreateMessage constructs and persists a sample `models.Message` for the
// given user.
func (f *Factory) CreateMessage(user *models.User, overrides ...func(*models.Message)) (*models.Message, error) {
	message := f.BuildMessage(user, overrides...)

	if f.opts.DryRun {
		f.nextID++
		message.ID = f.nextID
		log.Printf("[dry-run] CreateMessage: user=%d text=%q", message.UserID, message.Text)
		return message, nil
	}

	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// CreateMessagesBatch persists multiple messages in a single DB call when possible.
func (f *Factory) CreateMessagesBatch(messages []*models.Message) error {
	if f.opts.DryRun {
		for _, m := range messages {
			f.nextID++
			m.ID = f.nextID
		}
		log.Printf("[dry-run] CreateMessagesBatch: %d messages (no DB write)", len(messages))
		return nil
	}
	return f.db.Create(&messages).Error
}

// CreateFollow persists a follow edge: follower follows followed.
func (f *Factory) CreateFollow(followed, follower *models.User) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateFollow: %d -> %d", follower.ID, followed.ID)
		return nil
	}
	follow := &models.Follow{
		UserBeingFollowedID: followed.ID,
		UserFollowingID:     follower.ID,
	}
	return f.db.Create(follow).Error
}

// CreateLike persists a like from `user` on `message`.
func (f *Factory) CreateLike(user *models.User, message *models.Message) error {
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateLike: user=%d message=%d", user.ID, message.ID)
		return nil
	}
	like := &models.Like{
		UserID:    user.ID,
		MessageID: message.ID,
	}
	return f.db.Create(like).Error
}

// messageText generates warble-shaped content that fits the 140 character limit.
func messageText() string {
	text := gofakeit.Sentence(gofakeit.Number(4, 14))
	if len(text) > models.MaxMessageLength {
		text = text[:models.MaxMessageLength]
	}
	return text
}
