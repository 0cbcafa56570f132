package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account that can post, reply, like, follow and be followed.
// Follow edges live in the follows table; the counters here are kept in
// step with edge writes inside the same transaction.
type User struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Username       string         `gorm:"size:30;not null;uniqueIndex" json:"username"`
	Email          string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password       string         `gorm:"not null" json:"-"`
	DisplayName    string         `gorm:"size:100" json:"display_name"`
	Bio            string         `gorm:"size:500" json:"bio"`
	AvatarURL      string         `gorm:"size:512" json:"avatar_url"`
	Role           string         `gorm:"size:20;default:'user'" json:"role"`
	IsFrozen       bool           `gorm:"default:false" json:"is_frozen"`
	FollowerCount  int            `gorm:"default:0" json:"follower_count"`
	FollowingCount int            `gorm:"default:0" json:"following_count"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
