package classroom

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type RosterRepo interface {
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.ClassroomStudent) error
	// ActiveStudentIDs returns the active roster ordered by join time.
	ActiveStudentIDs(dbc dbctx.Context, classroomID uuid.UUID) ([]uuid.UUID, error)
}

type rosterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRosterRepo(db *gorm.DB, baseLog *logger.Logger) RosterRepo {
	return &rosterRepo{
		db:  db,
		log: baseLog.With("repo", "RosterRepo"),
	}
}

func (r *rosterRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.ClassroomStudent) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *rosterRepo) ActiveStudentIDs(dbc dbctx.Context, classroomID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := dbc.Conn(r.db).
		Model(&types.ClassroomStudent{}).
		Where("classroom_id = ? AND is_active = ?", classroomID, true).
		Order("joined_at ASC, student_id ASC").
		Pluck("student_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
