package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Text string `json:"text"`
}

type ReplyRequest struct {
	Text string `json:"text"`
}

type ReplyResponse struct {
	ID                uuid.UUID   `json:"id"`
	PostID            uuid.UUID   `json:"post_id"`
	AuthorID          uuid.UUID   `json:"author_id"`
	Text              string      `json:"text"`
	AuthorDisplayName string      `json:"author_display_name"`
	AuthorAvatarURL   string      `json:"author_avatar_url"`
	Likes             []uuid.UUID `json:"likes"`
	CreatedAt         time.Time   `json:"created_at"`
}

type PostResponse struct {
	ID        uuid.UUID       `json:"id"`
	AuthorID  uuid.UUID       `json:"author_id"`
	Text      string          `json:"text"`
	ImageURL  *string         `json:"image_url,omitempty"`
	Likes     []uuid.UUID     `json:"likes"`
	Replies   []ReplyResponse `json:"replies"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type LikeToggleResponse struct {
	Liked     bool `json:"liked"`
	LikeCount int  `json:"like_count"`
}
