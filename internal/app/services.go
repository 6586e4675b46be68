package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/speakwell-backend/internal/observability"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
	"github.com/yungbote/speakwell-backend/internal/services"
)

type Services struct {
	Ledger      services.ProgressLedger
	Assignments services.AssignmentService
	Edits       services.ContentEditService
}

func wireServices(db *gorm.DB, log *logger.Logger, metrics *observability.Metrics, r Repos) Services {
	log.Info("Wiring services...")
	ledger := services.NewProgressLedger(log, r.Item, r.Content, r.Assignment, r.Binding, r.StudentAssignment, r.Progress)
	return Services{
		Ledger: ledger,
		Assignments: services.NewAssignmentService(db, log, metrics,
			r.Content, r.Item, r.Classroom, r.Roster,
			r.Assignment, r.Binding, r.StudentAssignment, r.Progress,
		),
		Edits: services.NewContentEditService(db, log, metrics, r.Content, r.Item, r.Progress, ledger),
	}
}
