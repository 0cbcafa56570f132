package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/wavelinehq/waveline/internal/apperrors"
	"github.com/wavelinehq/waveline/internal/assets"
	"github.com/wavelinehq/waveline/internal/dto"
	"github.com/wavelinehq/waveline/internal/models"
	"gorm.io/gorm"
)

type UserService struct {
	db     *gorm.DB
	assets assets.Store
}

func NewUserService(db *gorm.DB, assetStore assets.Store) *UserService {
	return &UserService{db: db, assets: assetStore}
}

func (s *UserService) GetProfile(userID uuid.UUID) (*dto.ProfileResponse, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}

	followers, err := s.edgeIDs("followee_id = ?", "follower_id", userID)
	if err != nil {
		return nil, err
	}
	following, err := s.edgeIDs("follower_id = ?", "followee_id", userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		ID:             user.ID,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		Bio:            user.Bio,
		AvatarURL:      user.AvatarURL,
		IsFrozen:       user.IsFrozen,
		Followers:      followers,
		Following:      following,
		FollowerCount:  user.FollowerCount,
		FollowingCount: user.FollowingCount,
		CreatedAt:      user.CreatedAt,
	}, nil
}

func (s *UserService) edgeIDs(cond, column string, userID uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0)
	err := s.db.Model(&models.Follow{}).Where(cond, userID).Order("created_at ASC").
		Pluck(column, &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load follow edges: %w", err)
	}
	return ids, nil
}

// UpdateProfile writes the user record, then fans the new display name and
// avatar out to the denormalized snapshot on every reply the user authored.
// The fanout is the second phase of an explicit two-phase propagation; reply
// snapshots are eventually consistent with the profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest, avatar []byte, avatarContentType string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, apperrors.Validation("display name must not be blank")
		}
		updates["display_name"] = name
		user.DisplayName = name
	}
	if req.Bio != nil {
		updates["bio"] = strings.TrimSpace(*req.Bio)
		user.Bio = updates["bio"].(string)
	}
	if len(avatar) > 0 {
		url, err := s.assets.Store(ctx, avatar, avatarContentType)
		if err != nil {
			return nil, apperrors.Dependency("failed to store avatar image", err)
		}
		updates["avatar_url"] = url
		user.AvatarURL = url
	}

	if len(updates) == 0 {
		return &user, nil
	}

	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	result := s.db.Model(&models.Reply{}).
		Where("author_id = ?", userID).
		Updates(map[string]interface{}{
			"author_display_name": user.DisplayName,
			"author_avatar_url":   user.AvatarURL,
		})
	if result.Error != nil {
		slog.Error("reply snapshot fanout failed", "user_id", userID.String(), "error", result.Error)
	} else if result.RowsAffected > 0 {
		slog.Info("reply snapshots refreshed", "user_id", userID.String(), "count", result.RowsAffected)
	}

	return &user, nil
}

// FreezeToggle flips the frozen flag on an account. Frozen accounts keep
// read access but cannot create content.
func (s *UserService) FreezeToggle(userID uuid.UUID) (bool, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apperrors.NotFound("user not found")
		}
		return false, err
	}

	frozen := !user.IsFrozen
	if err := s.db.Model(&user).Update("is_frozen", frozen).Error; err != nil {
		return false, fmt.Errorf("failed to update frozen state: %w", err)
	}
	return frozen, nil
}
