package progress

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
	StatusReviewed   Status = "reviewed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusSubmitted, StatusReviewed:
		return true
	}
	return false
}

// ItemProgress is one ledger row per (student assignment, item copy).
// Submission and grading fields are written by other services.
type ItemProgress struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentAssignmentID uuid.UUID `gorm:"type:uuid;not null;index:idx_progress_instance_item,unique,priority:1" json:"student_assignment_id"`
	ContentItemID       uuid.UUID `gorm:"type:uuid;not null;index:idx_progress_instance_item,unique,priority:2;index" json:"content_item_id"`

	RecordingRef  *string    `gorm:"column:recording_ref" json:"recording_ref,omitempty"`
	AnswerText    *string    `gorm:"column:answer_text;type:text" json:"answer_text,omitempty"`
	Transcription *string    `gorm:"column:transcription;type:text" json:"transcription,omitempty"`
	SubmittedAt   *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	AIAccuracyScore      *float64 `gorm:"column:ai_accuracy_score" json:"ai_accuracy_score,omitempty"`
	AIFluencyScore       *float64 `gorm:"column:ai_fluency_score" json:"ai_fluency_score,omitempty"`
	AIPronunciationScore *float64 `gorm:"column:ai_pronunciation_score" json:"ai_pronunciation_score,omitempty"`
	AICompletenessScore  *float64 `gorm:"column:ai_completeness_score" json:"ai_completeness_score,omitempty"`
	AIFeedback           *string  `gorm:"column:ai_feedback;type:text" json:"ai_feedback,omitempty"`

	TeacherScore    *float64   `gorm:"column:teacher_score" json:"teacher_score,omitempty"`
	TeacherFeedback *string    `gorm:"column:teacher_feedback;type:text" json:"teacher_feedback,omitempty"`
	TeacherPassed   *bool      `gorm:"column:teacher_passed" json:"teacher_passed,omitempty"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`

	Status    Status    `gorm:"column:status;not null;default:'not_started';index" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ItemProgress) TableName() string { return "item_progress" }

func (p *ItemProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = StatusNotStarted
	}
	return nil
}

func NewSkeleton(studentAssignmentID, itemID uuid.UUID) *ItemProgress {
	return &ItemProgress{
		ID:                  uuid.New(),
		StudentAssignmentID: studentAssignmentID,
		ContentItemID:       itemID,
		Status:              StatusNotStarted,
	}
}

// HasRealData reports whether a student or grader has touched this row.
// Keep in sync with RealDataCondition.
func (p *ItemProgress) HasRealData() bool {
	if p == nil {
		return false
	}
	return p.RecordingRef != nil ||
		p.AnswerText != nil ||
		p.Transcription != nil ||
		p.SubmittedAt != nil ||
		p.AIAccuracyScore != nil ||
		p.AIFluencyScore != nil ||
		p.AIPronunciationScore != nil ||
		p.AICompletenessScore != nil ||
		p.AIFeedback != nil ||
		p.TeacherScore != nil ||
		p.TeacherFeedback != nil ||
		p.TeacherPassed != nil ||
		p.ReviewedAt != nil ||
		(p.Status != "" && p.Status != StatusNotStarted)
}

// RealDataCondition is the SQL form of HasRealData. Bind StatusNotStarted to the placeholder.
const RealDataCondition = `(recording_ref IS NOT NULL OR answer_text IS NOT NULL OR transcription IS NOT NULL
 OR submitted_at IS NOT NULL OR ai_accuracy_score IS NOT NULL OR ai_fluency_score IS NOT NULL
 OR ai_pronunciation_score IS NOT NULL OR ai_completeness_score IS NOT NULL OR ai_feedback IS NOT NULL
 OR teacher_score IS NOT NULL OR teacher_feedback IS NOT NULL OR teacher_passed IS NOT NULL
 OR reviewed_at IS NOT NULL OR status <> ?)`
