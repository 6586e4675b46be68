package repos

import (
	"github.com/yungbote/speakwell-backend/internal/data/repos/assignment"
	"github.com/yungbote/speakwell-backend/internal/data/repos/classroom"
	"github.com/yungbote/speakwell-backend/internal/data/repos/content"
	"github.com/yungbote/speakwell-backend/internal/data/repos/progress"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type ContentDefinitionRepo = content.ContentDefinitionRepo
type ItemDefinitionRepo = content.ItemDefinitionRepo

type ClassroomRepo = classroom.ClassroomRepo
type RosterRepo = classroom.RosterRepo

type AssignmentRepo = assignment.AssignmentRepo
type AssignmentBindingRepo = assignment.AssignmentBindingRepo
type StudentAssignmentRepo = assignment.StudentAssignmentRepo

type ItemProgressRepo = progress.ItemProgressRepo

func NewContentDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) ContentDefinitionRepo {
	return content.NewContentDefinitionRepo(db, baseLog)
}
func NewItemDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) ItemDefinitionRepo {
	return content.NewItemDefinitionRepo(db, baseLog)
}

func NewClassroomRepo(db *gorm.DB, baseLog *logger.Logger) ClassroomRepo {
	return classroom.NewClassroomRepo(db, baseLog)
}
func NewRosterRepo(db *gorm.DB, baseLog *logger.Logger) RosterRepo {
	return classroom.NewRosterRepo(db, baseLog)
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return assignment.NewAssignmentRepo(db, baseLog)
}
func NewAssignmentBindingRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentBindingRepo {
	return assignment.NewAssignmentBindingRepo(db, baseLog)
}
func NewStudentAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) StudentAssignmentRepo {
	return assignment.NewStudentAssignmentRepo(db, baseLog)
}

func NewItemProgressRepo(db *gorm.DB, baseLog *logger.Logger) ItemProgressRepo {
	return progress.NewItemProgressRepo(db, baseLog)
}
