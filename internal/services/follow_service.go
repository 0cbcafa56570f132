package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wavelinehq/waveline/internal/apperrors"
	"github.com/wavelinehq/waveline/internal/models"
	"gorm.io/gorm"
)

// Follow toggle directions.
const (
	DirectionFollowed   = "followed"
	DirectionUnfollowed = "unfollowed"
)

// FollowService maintains the social graph. The follower's "following" view
// and the followee's "followers" view read the same edge rows, and the edge
// write plus both counter updates commit in one transaction, so the two
// views cannot disagree.
type FollowService struct {
	db *gorm.DB
}

func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{db: db}
}

// FollowToggle follows target if no edge exists, unfollows otherwise, and
// returns the resulting direction. Two calls in a row restore the original
// state.
func (s *FollowService) FollowToggle(actorID, targetID uuid.UUID) (string, error) {
	if actorID == targetID {
		return "", apperrors.Validation("cannot follow yourself")
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("id IN ?", []uuid.UUID{actorID, targetID}).Count(&count).Error; err != nil {
		return "", fmt.Errorf("failed to check users: %w", err)
	}
	if count != 2 {
		return "", apperrors.NotFound("user not found")
	}

	var direction string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var edge models.Follow
		err := tx.Where("follower_id = ? AND followee_id = ?", actorID, targetID).First(&edge).Error

		switch {
		case err == nil:
			if err := tx.Delete(&edge).Error; err != nil {
				return fmt.Errorf("failed to remove follow edge: %w", err)
			}
			if err := s.adjustCounters(tx, actorID, targetID, -1); err != nil {
				return err
			}
			direction = DirectionUnfollowed
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			edge = models.Follow{ID: uuid.New(), FollowerID: actorID, FolloweeID: targetID}
			if err := tx.Create(&edge).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.Conflict("follow state changed concurrently")
				}
				return fmt.Errorf("failed to create follow edge: %w", err)
			}
			if err := s.adjustCounters(tx, actorID, targetID, 1); err != nil {
				return err
			}
			direction = DirectionFollowed
			return nil

		default:
			return fmt.Errorf("failed to read follow edge: %w", err)
		}
	})
	if err != nil {
		return "", err
	}

	return direction, nil
}

func (s *FollowService) adjustCounters(tx *gorm.DB, actorID, targetID uuid.UUID, delta int) error {
	if err := tx.Model(&models.User{}).Where("id = ?", actorID).
		Update("following_count", gorm.Expr("following_count + ?", delta)).Error; err != nil {
		return fmt.Errorf("failed to update following count: %w", err)
	}
	if err := tx.Model(&models.User{}).Where("id = ?", targetID).
		Update("follower_count", gorm.Expr("follower_count + ?", delta)).Error; err != nil {
		return fmt.Errorf("failed to update follower count: %w", err)
	}
	return nil
}

// IsFollowing reports whether follower has an edge to followee.
func (s *FollowService) IsFollowing(followerID, followeeID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}
