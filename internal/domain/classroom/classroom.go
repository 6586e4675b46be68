package classroom

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Classroom struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Classroom) TableName() string { return "classroom" }

func (c *Classroom) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ClassroomStudent is one roster entry. Roster CRUD happens elsewhere; this service only reads it.
type ClassroomStudent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;not null;index:idx_roster_classroom_student,unique,priority:1" json:"classroom_id"`
	StudentID   uuid.UUID `gorm:"type:uuid;not null;index:idx_roster_classroom_student,unique,priority:2" json:"student_id"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (ClassroomStudent) TableName() string { return "classroom_student" }

func (s *ClassroomStudent) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
