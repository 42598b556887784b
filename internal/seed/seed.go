// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"warbler/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int     `yaml:"num_users"`
	NumMessages int     `yaml:"num_messages"`
	ShouldClean bool    `yaml:"clean"`
	FollowRate  float64 `yaml:"follow_rate"`
	LikeRate    float64 `yaml:"like_rate"`
	MaxDays     int     `yaml:"max_days"`
	SkipBcrypt  bool    `yaml:"skip_bcrypt"`
}

// DefaultOptions are sensible defaults for a local demo database.
func DefaultOptions() Options {
	return Options{
		NumUsers:    25,
		NumMessages: 200,
		FollowRate:  0.15,
		LikeRate:    0.05,
		MaxDays:     90,
	}
}

// LoadPreset reads seeding options from a YAML file. Missing fields keep
// their default values.
func LoadPreset(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path) // #nosec G304: operator-supplied preset path
	if err != nil {
		return opts, fmt.Errorf("read preset %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("parse preset %s: %w", path, err)
	}
	return opts, nil
}

// Seed populates the database with test data
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d messages...", opts.NumUsers, opts.NumMessages)

	// Clear existing data to avoid conflicts if requested
	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	factory := NewFactory(db, SeedOptions{SkipBcrypt: opts.SkipBcrypt, MaxDays: opts.MaxDays})

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	messages, err := createMessages(factory, users, opts.NumMessages)
	if err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}
	log.Printf("created %d messages", len(messages))

	follows, err := SeedSocialMesh(factory, users, opts.FollowRate)
	if err != nil {
		return fmt.Errorf("failed to create follow graph: %w", err)
	}
	log.Printf("created %d follow edges", follows)

	likes, err := SeedEngagement(factory, users, messages, opts.LikeRate)
	if err != nil {
		return fmt.Errorf("failed to create likes: %w", err)
	}
	log.Printf("created %d likes", likes)

	log.Println("Database seeding completed successfully")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("Clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE likes, follows, messages, users RESTART IDENTITY CASCADE;`).Error
	}
	// SQLite has no TRUNCATE; delete in dependency order.
	for _, table := range []string{"likes", "follows", "messages", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createMessages(factory *Factory, users []*models.User, count int) ([]*models.Message, error) {
	if len(users) == 0 || count == 0 {
		return nil, nil
	}

	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	messages := make([]*models.Message, 0, count)
	for i := 0; i < count; i++ {
		author := users[r.Intn(len(users))]
		messages = append(messages, factory.BuildMessage(author))
	}

	const batchSize = 100
	for start := 0; start < len(messages); start += batchSize {
		end := start + batchSize
		if end > len(messages) {
			end = len(messages)
		}
		batch := messages[start:end]
		if err := factory.CreateMessagesBatch(batch); err != nil {
			return nil, err
		}
	}
	return messages, nil
}

// SeedSocialMesh wires users into a follow graph. Each ordered user pair
// gains an edge with probability rate, so the mesh stays sparse and
// asymmetric like a real follower graph.
func SeedSocialMesh(factory *Factory, users []*models.User, rate float64) (int, error) {
	if rate <= 0 {
		return 0, nil
	}

	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0
	for _, follower := range users {
		for _, followed := range users {
			if follower.ID == followed.ID {
				continue
			}
			if r.Float64() >= rate {
				continue
			}
			if err := factory.CreateFollow(followed, follower); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}

// SeedEngagement sprinkles likes over existing messages. Each user/message
// pair is liked with probability rate. Self-likes are allowed, matching
// the application rules.
func SeedEngagement(factory *Factory, users []*models.User, messages []*models.Message, rate float64) (int, error) {
	if rate <= 0 {
		return 0, nil
	}

	// #nosec G404: acceptable for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	created := 0
	for _, user := range users {
		for _, message := range messages {
			if r.Float64() >= rate {
				continue
			}
			if err := factory.CreateLike(user, message); err != nil {
				return created, err
			}
			created++
		}
	}
	return created, nil
}
