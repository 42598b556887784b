package models

import (
	"time"
)

// MaxMessageLength is the upper bound on message text length.
const MaxMessageLength = 140

// Message represents a short post ("warble") authored by a user.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"type:varchar(140);not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// LikesCount is not persisted; computed at query time
	LikesCount int64 `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this message (computed)
	Liked bool `gorm:"->" json:"liked"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}
