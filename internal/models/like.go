package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostLike is one user's membership in a post's like set. The unique index
// makes the set semantics a storage-level guarantee: a racing duplicate
// insert fails instead of silently doubling.
type PostLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_member;index" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_post_likes_member" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *PostLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ReplyLike is one user's membership in a reply's like set.
type ReplyLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReplyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reply_likes_member;index" json:"reply_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reply_likes_member" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (l *ReplyLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
