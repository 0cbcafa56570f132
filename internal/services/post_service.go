package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/wavelinehq/waveline/internal/apperrors"
	"github.com/wavelinehq/waveline/internal/assets"
	"github.com/wavelinehq/waveline/internal/dto"
	"github.com/wavelinehq/waveline/internal/models"
	"gorm.io/gorm"
)

// PostService handles post lifecycle and engagement: create/delete posts,
// like toggles, replies.
type PostService struct {
	db         *gorm.DB
	assets     assets.Store
	moderation *ModerationService
}

func NewPostService(db *gorm.DB, assetStore assets.Store, moderation *ModerationService) *PostService {
	return &PostService{db: db, assets: assetStore, moderation: moderation}
}

// CreatePost validates and persists a post, stores the image first when one
// is attached, and dispatches moderation analysis without waiting on it.
// A stored image is deleted again (best-effort) if persistence fails, so no
// orphaned asset is left behind.
func (s *PostService) CreatePost(ctx context.Context, authorID uuid.UUID, text string, image []byte, imageContentType string) (*dto.PostResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" && len(image) == 0 {
		return nil, apperrors.Validation("post needs text or an image")
	}
	if utf8.RuneCountInString(text) > models.MaxPostTextLen {
		return nil, apperrors.Validation(fmt.Sprintf("post text exceeds %d characters", models.MaxPostTextLen))
	}

	author, err := s.activeUser(authorID)
	if err != nil {
		return nil, err
	}
	if author.IsFrozen {
		return nil, apperrors.Forbidden("account is frozen")
	}

	var imageURL *string
	if len(image) > 0 {
		url, err := s.assets.Store(ctx, image, imageContentType)
		if err != nil {
			return nil, apperrors.Dependency("failed to store image", err)
		}
		imageURL = &url
	}

	post := models.Post{
		ID:       uuid.New(),
		AuthorID: authorID,
		Text:     text,
		ImageURL: imageURL,
	}

	if err := s.db.Create(&post).Error; err != nil {
		if imageURL != nil {
			if delErr := s.assets.Delete(ctx, *imageURL); delErr != nil {
				slog.Error("failed to clean up orphaned image", "url", *imageURL, "error", delErr)
			}
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	// Fire-and-forget: a slow or failing classifier must never delay or
	// fail post creation.
	s.moderation.AnalyzeAsync(post.ID, post.AuthorID, post.Text)

	resp := toPostResponse(&post)
	return resp, nil
}

func (s *PostService) GetPost(postID uuid.UUID) (*dto.PostResponse, error) {
	post, err := s.loadPost(postID)
	if err != nil {
		return nil, err
	}
	return toPostResponse(post), nil
}

// GetFeed returns the caller's posts plus posts by everyone they follow,
// newest first.
func (s *PostService) GetFeed(userID uuid.UUID) ([]dto.PostResponse, error) {
	var authorIDs []uuid.UUID
	if err := s.db.Model(&models.Follow{}).Where("follower_id = ?", userID).
		Pluck("followee_id", &authorIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to load followees: %w", err)
	}
	authorIDs = append(authorIDs, userID)

	return s.listPosts("author_id IN ?", authorIDs)
}

func (s *PostService) GetUserPosts(authorID uuid.UUID) ([]dto.PostResponse, error) {
	if _, err := s.activeUser(authorID); err != nil {
		return nil, err
	}
	return s.listPosts("author_id = ?", authorID)
}

// DeletePost removes a post and its replies. Only the author may delete.
// The image asset delete is best-effort; reports referencing the post keep
// their content snapshot.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uuid.UUID) error {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("post not found")
		}
		return err
	}
	if post.AuthorID != actorID {
		return apperrors.Forbidden("only the author can delete this post")
	}

	if post.ImageURL != nil {
		if err := s.assets.Delete(ctx, *post.ImageURL); err != nil {
			slog.Error("failed to delete post image", "post_id", postID.String(), "error", err)
		}
	}

	return deletePostCascade(s.db, &post)
}

// deletePostCascade removes a post together with its replies and like rows
// in one transaction. Reports referencing the post are left in place; they
// keep their content snapshot.
func deletePostCascade(db *gorm.DB, post *models.Post) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var replyIDs []uuid.UUID
		if err := tx.Model(&models.Reply{}).Where("post_id = ?", post.ID).
			Pluck("id", &replyIDs).Error; err != nil {
			return fmt.Errorf("failed to list replies: %w", err)
		}
		if len(replyIDs) > 0 {
			if err := tx.Where("reply_id IN ?", replyIDs).Delete(&models.ReplyLike{}).Error; err != nil {
				return fmt.Errorf("failed to delete reply likes: %w", err)
			}
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.Reply{}).Error; err != nil {
				return fmt.Errorf("failed to delete replies: %w", err)
			}
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete post likes: %w", err)
		}
		if err := tx.Delete(post).Error; err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		return nil
	})
}

// LikeToggle adds or removes the user's membership in the post's like set.
// The membership row carries a unique index, so a racing duplicate toggle
// from the same user surfaces as a retryable conflict instead of a lost
// update.
func (s *PostService) LikeToggle(actorID, postID uuid.UUID) (*dto.LikeToggleResponse, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, err
	}

	var existing models.PostLike
	err := s.db.Where("post_id = ? AND user_id = ?", postID, actorID).First(&existing).Error

	switch {
	case err == nil:
		result := s.db.Delete(&models.PostLike{}, "id = ?", existing.ID)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to remove like: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.Conflict("like state changed concurrently")
		}
		if err := s.db.Model(&models.Post{}).Where("id = ?", postID).
			Update("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
			return nil, fmt.Errorf("failed to update like count: %w", err)
		}
		return &dto.LikeToggleResponse{Liked: false, LikeCount: post.LikeCount - 1}, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.PostLike{ID: uuid.New(), PostID: postID, UserID: actorID}
		if err := s.db.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.Conflict("like state changed concurrently")
			}
			return nil, fmt.Errorf("failed to create like: %w", err)
		}
		if err := s.db.Model(&models.Post{}).Where("id = ?", postID).
			Update("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			return nil, fmt.Errorf("failed to update like count: %w", err)
		}
		return &dto.LikeToggleResponse{Liked: true, LikeCount: post.LikeCount + 1}, nil

	default:
		return nil, err
	}
}

// LikeToggleReply is LikeToggle for a reply's like set, independent of the
// parent post's likes.
func (s *PostService) LikeToggleReply(actorID, replyID uuid.UUID) (*dto.LikeToggleResponse, error) {
	var reply models.Reply
	if err := s.db.First(&reply, "id = ?", replyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("reply not found")
		}
		return nil, err
	}

	var existing models.ReplyLike
	err := s.db.Where("reply_id = ? AND user_id = ?", replyID, actorID).First(&existing).Error

	switch {
	case err == nil:
		result := s.db.Delete(&models.ReplyLike{}, "id = ?", existing.ID)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to remove like: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.Conflict("like state changed concurrently")
		}
		if err := s.db.Model(&models.Reply{}).Where("id = ?", replyID).
			Update("like_count", gorm.Expr("like_count - 1")).Error; err != nil {
			return nil, fmt.Errorf("failed to update like count: %w", err)
		}
		return &dto.LikeToggleResponse{Liked: false, LikeCount: reply.LikeCount - 1}, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		like := models.ReplyLike{ID: uuid.New(), ReplyID: replyID, UserID: actorID}
		if err := s.db.Create(&like).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.Conflict("like state changed concurrently")
			}
			return nil, fmt.Errorf("failed to create like: %w", err)
		}
		if err := s.db.Model(&models.Reply{}).Where("id = ?", replyID).
			Update("like_count", gorm.Expr("like_count + 1")).Error; err != nil {
			return nil, fmt.Errorf("failed to update like count: %w", err)
		}
		return &dto.LikeToggleResponse{Liked: true, LikeCount: reply.LikeCount + 1}, nil

	default:
		return nil, err
	}
}

// ReplyToPost appends a reply carrying a snapshot of the author's current
// display name and avatar. Replies keep insertion order.
func (s *PostService) ReplyToPost(actorID, postID uuid.UUID, text string) (*dto.ReplyResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.Validation("reply text must not be empty")
	}

	author, err := s.activeUser(actorID)
	if err != nil {
		return nil, err
	}
	if author.IsFrozen {
		return nil, apperrors.Forbidden("account is frozen")
	}

	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, err
	}

	reply := models.Reply{
		ID:                uuid.New(),
		PostID:            postID,
		AuthorID:          actorID,
		Text:              text,
		AuthorDisplayName: author.DisplayName,
		AuthorAvatarURL:   author.AvatarURL,
	}

	if err := s.db.Create(&reply).Error; err != nil {
		return nil, fmt.Errorf("failed to create reply: %w", err)
	}

	if err := s.db.Model(&models.Post{}).Where("id = ?", postID).
		Update("reply_count", gorm.Expr("reply_count + 1")).Error; err != nil {
		return nil, fmt.Errorf("failed to update reply count: %w", err)
	}

	resp := toReplyResponse(&reply)
	return &resp, nil
}

// DeleteReply removes exactly the matching reply; siblings keep their
// order. Author-only; a second delete for the same id reports not found.
func (s *PostService) DeleteReply(actorID, postID, replyID uuid.UUID) error {
	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("post not found")
		}
		return err
	}

	var reply models.Reply
	if err := s.db.Where("id = ? AND post_id = ?", replyID, postID).First(&reply).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("reply not found")
		}
		return err
	}
	if reply.AuthorID != actorID {
		return apperrors.Forbidden("only the author can delete this reply")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reply_id = ?", replyID).Delete(&models.ReplyLike{}).Error; err != nil {
			return fmt.Errorf("failed to delete reply likes: %w", err)
		}
		if err := tx.Delete(&reply).Error; err != nil {
			return fmt.Errorf("failed to delete reply: %w", err)
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			Update("reply_count", gorm.Expr("reply_count - 1")).Error
	})
}

func (s *PostService) activeUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (s *PostService) loadPost(postID uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := s.db.
		Preload("Likes").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.Likes").
		First(&post, "id = ?", postID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, err
	}
	return &post, nil
}

func (s *PostService) listPosts(cond string, arg interface{}) ([]dto.PostResponse, error) {
	var posts []models.Post
	err := s.db.
		Preload("Likes").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.Likes").
		Where(cond, arg).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	out := make([]dto.PostResponse, len(posts))
	for i := range posts {
		out[i] = *toPostResponse(&posts[i])
	}
	return out, nil
}

func toPostResponse(post *models.Post) *dto.PostResponse {
	likes := make([]uuid.UUID, len(post.Likes))
	for i, l := range post.Likes {
		likes[i] = l.UserID
	}

	replies := make([]dto.ReplyResponse, len(post.Replies))
	for i := range post.Replies {
		replies[i] = toReplyResponse(&post.Replies[i])
	}

	return &dto.PostResponse{
		ID:        post.ID,
		AuthorID:  post.AuthorID,
		Text:      post.Text,
		ImageURL:  post.ImageURL,
		Likes:     likes,
		Replies:   replies,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}

func toReplyResponse(reply *models.Reply) dto.ReplyResponse {
	likes := make([]uuid.UUID, len(reply.Likes))
	for i, l := range reply.Likes {
		likes[i] = l.UserID
	}

	return dto.ReplyResponse{
		ID:                reply.ID,
		PostID:            reply.PostID,
		AuthorID:          reply.AuthorID,
		Text:              reply.Text,
		AuthorDisplayName: reply.AuthorDisplayName,
		AuthorAvatarURL:   reply.AuthorAvatarURL,
		Likes:             likes,
		CreatedAt:         reply.CreatedAt,
	}
}
