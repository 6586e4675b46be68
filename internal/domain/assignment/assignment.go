package assignment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Assignment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
	ClassroomID uuid.UUID  `gorm:"type:uuid;not null;index" json:"classroom_id"`
	Title       string     `gorm:"column:title" json:"title"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	WithdrawnAt *time.Time `gorm:"column:withdrawn_at" json:"withdrawn_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Assignment) TableName() string { return "assignment" }

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AssignmentBinding ties an assignment to one of its private content copies.
type AssignmentBinding struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID uuid.UUID `gorm:"type:uuid;not null;index:idx_binding_assignment_content,unique,priority:1" json:"assignment_id"`
	ContentID    uuid.UUID `gorm:"type:uuid;not null;index:idx_binding_assignment_content,unique,priority:2;index" json:"content_id"`
	Position     int       `gorm:"column:position;not null" json:"position"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (AssignmentBinding) TableName() string { return "assignment_binding" }

func (b *AssignmentBinding) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type StudentStatus string

const (
	StudentStatusAssigned   StudentStatus = "assigned"
	StudentStatusInProgress StudentStatus = "in_progress"
	StudentStatusCompleted  StudentStatus = "completed"
)

// StudentAssignment is one student's instance of an assignment.
// Its Status moves independently from item-level progress.
type StudentAssignment struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID uuid.UUID     `gorm:"type:uuid;not null;index:idx_student_assignment,unique,priority:1" json:"assignment_id"`
	StudentID    uuid.UUID     `gorm:"type:uuid;not null;index:idx_student_assignment,unique,priority:2;index" json:"student_id"`
	Status       StudentStatus `gorm:"column:status;not null;default:'assigned'" json:"status"`
	IsActive     bool          `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (StudentAssignment) TableName() string { return "student_assignment" }

func (s *StudentAssignment) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
