package services

import (
	"gorm.io/gorm"

	"github.com/yungbote/speakwell-backend/internal/data/aggregates"
	"github.com/yungbote/speakwell-backend/internal/data/db"
	"github.com/yungbote/speakwell-backend/internal/data/repos"
	"github.com/yungbote/speakwell-backend/internal/observability"
	"github.com/yungbote/speakwell-backend/internal/platform/apierr"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type assignmentService struct {
	tx                    aggregates.TxRunner
	log                   *logger.Logger
	metrics               *observability.Metrics
	contentRepo           repos.ContentDefinitionRepo
	itemRepo              repos.ItemDefinitionRepo
	classroomRepo         repos.ClassroomRepo
	rosterRepo            repos.RosterRepo
	assignmentRepo        repos.AssignmentRepo
	bindingRepo           repos.AssignmentBindingRepo
	studentAssignmentRepo repos.StudentAssignmentRepo
	progressRepo          repos.ItemProgressRepo
}

func NewAssignmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	metrics *observability.Metrics,
	contentRepo repos.ContentDefinitionRepo,
	itemRepo repos.ItemDefinitionRepo,
	classroomRepo repos.ClassroomRepo,
	rosterRepo repos.RosterRepo,
	assignmentRepo repos.AssignmentRepo,
	bindingRepo repos.AssignmentBindingRepo,
	studentAssignmentRepo repos.StudentAssignmentRepo,
	progressRepo repos.ItemProgressRepo,
) AssignmentService {
	return &assignmentService{
		tx:                    aggregates.NewGormTxRunner(db, baseLog, aggregates.NewObservabilityHooks(metrics), aggregates.DefaultRetryPolicy),
		log:                   baseLog.With("service", "AssignmentService"),
		metrics:               metrics,
		contentRepo:           contentRepo,
		itemRepo:              itemRepo,
		classroomRepo:         classroomRepo,
		rosterRepo:            rosterRepo,
		assignmentRepo:        assignmentRepo,
		bindingRepo:           bindingRepo,
		studentAssignmentRepo: studentAssignmentRepo,
		progressRepo:          progressRepo,
	}
}

// storeError maps a transaction failure onto the API taxonomy.
func storeError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	if db.IsUniqueViolation(err) {
		return apierr.Integrity(err)
	}
	return err
}

func outcomeOf(err error) string {
	if err == nil {
		return "ok"
	}
	if ae, ok := apierr.As(err); ok {
		return ae.Code
	}
	return apierr.CodeInternalError
}
