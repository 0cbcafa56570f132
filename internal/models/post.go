package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxPostTextLen is the post body limit in characters.
const MaxPostTextLen = 500

// Post is a top-level content unit. Text may be empty when an image is
// attached; never both empty. Replies are owned by the post and removed
// with it.
type Post struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Text       string         `gorm:"size:500" json:"text"`
	ImageURL   *string        `gorm:"size:512" json:"image_url,omitempty"`
	LikeCount  int            `gorm:"default:0" json:"like_count"`
	ReplyCount int            `gorm:"default:0" json:"reply_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Author  User       `gorm:"foreignKey:AuthorID" json:"-"`
	Replies []Reply    `gorm:"foreignKey:PostID" json:"replies,omitempty"`
	Likes   []PostLike `gorm:"foreignKey:PostID" json:"-"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
