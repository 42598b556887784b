package models

import (
	"time"
)

// Follow is a directed edge in the social graph: the following user
// receives the followed user's messages in their feed.
type Follow struct {
	UserBeingFollowedID uint      `gorm:"primaryKey;autoIncrement:false" json:"user_being_followed_id"`
	UserFollowingID     uint      `gorm:"primaryKey;autoIncrement:false" json:"user_following_id"`
	CreatedAt           time.Time `json:"created_at"`

	// Relationships
	Followed  User `gorm:"foreignKey:UserBeingFollowedID" json:"followed,omitempty"`
	Following User `gorm:"foreignKey:UserFollowingID" json:"following,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
