// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"
)

// Default images applied at signup when the client does not provide one.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents a registered Warbler account.
type User struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Username       string    `gorm:"unique;not null" json:"username"`
	Email          string    `gorm:"unique;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"`
	ImageURL       string    `json:"image_url"`
	HeaderImageURL string    `json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Computed in queries, not stored.
	FollowersCount int64 `gorm:"-" json:"followers_count,omitempty"`
	FollowingCount int64 `gorm:"-" json:"following_count,omitempty"`
	MessagesCount  int64 `gorm:"-" json:"messages_count,omitempty"`

	Messages []Message `gorm:"foreignKey:UserID" json:"messages,omitempty"`
}

func (u *User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}
