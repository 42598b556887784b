package repository

import (
	"log"
	"os"
	"testing"

	"warbler/internal/config"
	"warbler/internal/database"

	"gorm.io/gorm"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	// Set environment to test
	os.Setenv("APP_ENV", "test")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("Repository tests skipped: failed to load test config: %v", err)
		os.Exit(0)
	}

	testDB, err = database.Connect(cfg)
	if err != nil {
		log.Printf("Repository tests skipped: test database unavailable: %v", err)
		os.Exit(0)
	}

	code := m.Run()

	os.Exit(code)
}
