package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/speakwell-backend/internal/data/repos"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type Repos struct {
	Content           repos.ContentDefinitionRepo
	Item              repos.ItemDefinitionRepo
	Classroom         repos.ClassroomRepo
	Roster            repos.RosterRepo
	Assignment        repos.AssignmentRepo
	Binding           repos.AssignmentBindingRepo
	StudentAssignment repos.StudentAssignmentRepo
	Progress          repos.ItemProgressRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Content:           repos.NewContentDefinitionRepo(db, log),
		Item:              repos.NewItemDefinitionRepo(db, log),
		Classroom:         repos.NewClassroomRepo(db, log),
		Roster:            repos.NewRosterRepo(db, log),
		Assignment:        repos.NewAssignmentRepo(db, log),
		Binding:           repos.NewAssignmentBindingRepo(db, log),
		StudentAssignment: repos.NewStudentAssignmentRepo(db, log),
		Progress:          repos.NewItemProgressRepo(db, log),
	}
}
