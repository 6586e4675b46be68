package domain

import (
	"github.com/yungbote/speakwell-backend/internal/domain/assignment"
	"github.com/yungbote/speakwell-backend/internal/domain/classroom"
	"github.com/yungbote/speakwell-backend/internal/domain/content"
	"github.com/yungbote/speakwell-backend/internal/domain/progress"
)

const (
	ProgressNotStarted = progress.StatusNotStarted
	ProgressInProgress = progress.StatusInProgress
	ProgressSubmitted  = progress.StatusSubmitted
	ProgressReviewed   = progress.StatusReviewed

	StudentAssigned   = assignment.StudentStatusAssigned
	StudentInProgress = assignment.StudentStatusInProgress
	StudentCompleted  = assignment.StudentStatusCompleted
)

type ContentDefinition = content.ContentDefinition
type ItemDefinition = content.ItemDefinition
type ContentOrigin = content.Origin
type TemplateOrigin = content.Template
type CopyOrigin = content.Copy

type Classroom = classroom.Classroom
type ClassroomStudent = classroom.ClassroomStudent

type Assignment = assignment.Assignment
type AssignmentBinding = assignment.AssignmentBinding
type StudentAssignment = assignment.StudentAssignment
type StudentAssignmentStatus = assignment.StudentStatus

type ItemProgress = progress.ItemProgress
type ProgressStatus = progress.Status

// Models lists every persisted type in migration order.
func Models() []any {
	return []any{
		&ContentDefinition{},
		&ItemDefinition{},
		&Classroom{},
		&ClassroomStudent{},
		&Assignment{},
		&AssignmentBinding{},
		&StudentAssignment{},
		&ItemProgress{},
	}
}
