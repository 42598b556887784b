// Command main runs the database seeder for Warbler.
package main

import (
	"flag"
	"log"

	"warbler/internal/config"
	"warbler/internal/database"
	"warbler/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numMessages := flag.Int("messages", 200, "Number of messages to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	followRate := flag.Float64("follow-rate", 0.15, "Probability of a follow edge per user pair")
	likeRate := flag.Float64("like-rate", 0.05, "Probability of a like per user/message pair")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (dev fast mode)")
	preset := flag.String("preset", "", "Path to a YAML preset file (overrides other flags)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumMessages: *numMessages,
		ShouldClean: *shouldClean,
		FollowRate:  *followRate,
		LikeRate:    *likeRate,
		SkipBcrypt:  *skipBcrypt,
	}

	if *preset != "" {
		loaded, err := seed.LoadPreset(*preset)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		opts = loaded
		log.Printf("Applying preset %s (ignoring other flags)", *preset)
	}

	log.Printf("Target: %d users, %d messages, clean=%v", opts.NumUsers, opts.NumMessages, opts.ShouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: password123")
}
