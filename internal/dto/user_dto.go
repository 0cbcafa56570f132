package dto

import (
	"time"

	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
}

type ProfileResponse struct {
	ID             uuid.UUID   `json:"id"`
	Username       string      `json:"username"`
	DisplayName    string      `json:"display_name"`
	Bio            string      `json:"bio"`
	AvatarURL      string      `json:"avatar_url"`
	IsFrozen       bool        `json:"is_frozen"`
	Followers      []uuid.UUID `json:"followers"`
	Following      []uuid.UUID `json:"following"`
	FollowerCount  int         `json:"follower_count"`
	FollowingCount int         `json:"following_count"`
	CreatedAt      time.Time   `json:"created_at"`
}

type FollowToggleResponse struct {
	Direction string `json:"direction"` // followed | unfollowed
}
