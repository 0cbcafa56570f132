package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wavelinehq/waveline/internal/apperrors"
	"github.com/wavelinehq/waveline/internal/assets"
	"github.com/wavelinehq/waveline/internal/classifier"
	"github.com/wavelinehq/waveline/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report resolution actions.
const (
	ActionDelete = "delete"
	ActionIgnore = "ignore"
)

// ModerationService turns classifier verdicts and user submissions into
// Report records and applies admin resolutions.
type ModerationService struct {
	db         *gorm.DB
	classifier classifier.Client
	assets     assets.Store
}

func NewModerationService(db *gorm.DB, cl classifier.Client, assetStore assets.Store) *ModerationService {
	return &ModerationService{db: db, classifier: cl, assets: assetStore}
}

// AnalyzeAsync runs Analyze on its own goroutine. Post creation never waits
// on the classifier; failures end the submission, they are not retried.
func (s *ModerationService) AnalyzeAsync(postID, authorID uuid.UUID, text string) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("moderation analysis panicked", "post_id", postID.String(), "panic", r)
			}
		}()
		s.Analyze(context.Background(), postID, authorID, text)
	}()
}

// Analyze submits text to the classifier and, when the verdict flags it,
// creates a pending system report ranked by the highest category score.
func (s *ModerationService) Analyze(ctx context.Context, postID, authorID uuid.UUID, text string) {
	if s.classifier == nil {
		return
	}

	verdict, err := s.classifier.Classify(ctx, text, postID, authorID)
	if err != nil {
		slog.Error("content classification failed", "post_id", postID.String(), "error", err)
		return
	}
	if verdict == nil || !verdict.Flagged {
		return
	}
	if len(verdict.Scores) == 0 {
		slog.Warn("flagged verdict without scores, skipping", "post_id", postID.String())
		return
	}

	severity, category := severityFromScores(verdict.Scores)

	categoriesJSON, _ := json.Marshal(verdict.Categories)
	scoresJSON, _ := json.Marshal(verdict.Scores)

	report := models.Report{
		ID:                  uuid.New(),
		PostID:              postID,
		PostContentSnapshot: text,
		ReporterID:          nil,
		ReporterDisplayName: models.SourceSystem,
		Reason:              category,
		Flagged:             true,
		Categories:          datatypes.JSON(categoriesJSON),
		Scores:              datatypes.JSON(scoresJSON),
		Source:              models.SourceSystem,
		Severity:            severity,
		Status:              models.ReportStatusPending,
	}

	if err := s.db.Create(&report).Error; err != nil {
		slog.Error("failed to create system report", "post_id", postID.String(), "error", err)
		return
	}

	slog.Info("system report created",
		"post_id", postID.String(),
		"report_id", report.ID.String(),
		"severity", severity,
		"category", category,
	)
}

// severityFromScores maps the highest category score onto a severity tier.
// Comparisons are strict: exactly 0.8 is medium, exactly 0.5 is low.
func severityFromScores(scores map[string]float64) (severity, category string) {
	var highest float64
	for cat, score := range scores {
		if score > highest || category == "" {
			highest = score
			category = cat
		}
	}

	switch {
	case highest > 0.8:
		severity = models.SeverityHigh
	case highest > 0.5:
		severity = models.SeverityMedium
	default:
		severity = models.SeverityLow
	}
	return severity, category
}

// severityFromReason is the rule-based scale for user submissions,
// independent of classifier scores.
func severityFromReason(reason string) string {
	switch reason {
	case models.ReasonViolence, models.ReasonHate:
		return models.SeverityHigh
	case models.ReasonSpam:
		return models.SeverityLow
	default:
		return models.SeverityMedium
	}
}

// SubmitUserReport files a report on behalf of a user. The post must still
// exist; its text is captured as the snapshot at submission time.
func (s *ModerationService) SubmitUserReport(reporterID, postID uuid.UUID, reason, customReason string) (*models.Report, error) {
	if !models.ValidReason(reason) {
		return nil, apperrors.Validation("unknown report reason")
	}
	customReason = strings.TrimSpace(customReason)
	if reason == models.ReasonOther && customReason == "" {
		return nil, apperrors.Validation("a custom reason is required when reporting as other")
	}

	var reporter models.User
	if err := s.db.First(&reporter, "id = ?", reporterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, err
	}

	var post models.Post
	if err := s.db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("post not found")
		}
		return nil, err
	}

	report := models.Report{
		ID:                  uuid.New(),
		PostID:              postID,
		PostContentSnapshot: post.Text,
		ReporterID:          &reporter.ID,
		ReporterDisplayName: reporter.DisplayName,
		Reason:              reason,
		CustomReason:        customReason,
		Flagged:             true,
		Source:              models.SourceUserReport,
		Severity:            severityFromReason(reason),
		Status:              models.ReportStatusPending,
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}

	return &report, nil
}

// ListReports returns the admin review queue, newest first, optionally
// filtered by status.
func (s *ModerationService) ListReports(status string) ([]models.Report, error) {
	query := s.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var reports []models.Report
	if err := query.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// ResolveReport applies an admin decision. Resolution is one-way: the
// pending-to-resolved transition is a single conditional write, so of two
// concurrent resolutions exactly one wins and the loser gets a conflict.
// Deleting an already-deleted post counts as success, and sibling reports
// on the same post are left untouched.
func (s *ModerationService) ResolveReport(ctx context.Context, adminID, reportID uuid.UUID, action string) (*models.Report, error) {
	if action != ActionDelete && action != ActionIgnore {
		return nil, apperrors.Validation("action must be delete or ignore")
	}

	var report models.Report
	if err := s.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("report not found")
		}
		return nil, err
	}

	resolution := models.ResolutionIgnored
	if action == ActionDelete {
		resolution = models.ResolutionDeleted
	}

	now := time.Now()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Report{}).
			Where("id = ? AND status = ?", reportID, models.ReportStatusPending).
			Updates(map[string]interface{}{
				"status":         models.ReportStatusResolved,
				"resolution":     resolution,
				"resolved_by_id": adminID,
				"resolved_at":    now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to resolve report: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.Conflict("report is already resolved")
		}

		// The post delete runs only after winning the status transition,
		// in the same transaction, so a losing delete cannot remove a post
		// another admin decided to keep.
		if action == ActionDelete {
			return s.deleteReportedPost(ctx, tx, report.PostID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	report.Status = models.ReportStatusResolved
	report.Resolution = resolution
	report.ResolvedByID = &adminID
	report.ResolvedAt = &now
	return &report, nil
}

func (s *ModerationService) deleteReportedPost(ctx context.Context, db *gorm.DB, postID uuid.UUID) error {
	var post models.Post
	if err := db.First(&post, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Already gone, by the author or an earlier resolution.
			return nil
		}
		return err
	}

	if post.ImageURL != nil && s.assets != nil {
		if err := s.assets.Delete(ctx, *post.ImageURL); err != nil {
			slog.Error("failed to delete post image", "post_id", postID.String(), "error", err)
		}
	}

	return deletePostCascade(db, &post)
}
