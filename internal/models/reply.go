package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reply is a comment on a post, likeable independently of the post.
// AuthorDisplayName/AuthorAvatarURL are a denormalized snapshot of the
// author's profile, refreshed in bulk when the profile changes.
type Reply struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID            uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	AuthorID          uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Text              string    `gorm:"size:500;not null" json:"text"`
	AuthorDisplayName string    `gorm:"size:100" json:"author_display_name"`
	AuthorAvatarURL   string    `gorm:"size:512" json:"author_avatar_url"`
	LikeCount         int       `gorm:"default:0" json:"like_count"`
	CreatedAt         time.Time `json:"created_at"`

	Likes []ReplyLike `gorm:"foreignKey:ReplyID" json:"-"`
}

func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
