package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report reasons.
const (
	ReasonSpam       = "spam"
	ReasonViolence   = "violence"
	ReasonHate       = "hate"
	ReasonHarassment = "harassment"
	ReasonAdult      = "adult"
	ReasonOther      = "other"
)

// Report severities.
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Report statuses and resolutions.
const (
	ReportStatusPending  = "pending"
	ReportStatusResolved = "resolved"

	ResolutionDeleted = "deleted"
	ResolutionIgnored = "ignored"
)

// Report sources.
const (
	SourceSystem     = "system"
	SourceUserReport = "user-report"
)

// Report is a moderation case for a post. PostID is a plain reference, not a
// foreign key: the report must survive deletion of the post it concerns, with
// the content snapshot preserved for audit. ReporterID is nil for reports the
// classifier pipeline creates.
type Report struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PostID              uuid.UUID      `gorm:"type:uuid;not null;index" json:"post_id"`
	PostContentSnapshot string         `gorm:"type:text" json:"post_content_snapshot"`
	ReporterID          *uuid.UUID     `gorm:"type:uuid;index" json:"reporter_id,omitempty"`
	ReporterDisplayName string         `gorm:"size:100" json:"reporter_display_name"`
	Reason              string         `gorm:"size:50;not null" json:"reason"`
	CustomReason        string         `gorm:"size:500" json:"custom_reason,omitempty"`
	Flagged             bool           `json:"flagged"`
	Categories          datatypes.JSON `json:"categories,omitempty"`
	Scores              datatypes.JSON `json:"scores,omitempty"`
	Source              string         `gorm:"size:20;not null" json:"source"`
	Severity            string         `gorm:"size:10;not null;index" json:"severity"`
	Status              string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	Resolution          string         `gorm:"size:20;default:''" json:"resolution"`
	ResolvedByID        *uuid.UUID     `gorm:"type:uuid" json:"resolved_by_id,omitempty"`
	ResolvedAt          *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// ValidReason reports whether reason is one of the accepted enum values.
func ValidReason(reason string) bool {
	switch reason {
	case ReasonSpam, ReasonViolence, ReasonHate, ReasonHarassment, ReasonAdult, ReasonOther:
		return true
	}
	return false
}
