package assignment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type StudentAssignmentRepo interface {
	Create(dbc dbctx.Context, rows []*types.StudentAssignment) ([]*types.StudentAssignment, error)
	GetByAssignmentIDs(dbc dbctx.Context, assignmentIDs []uuid.UUID, activeOnly bool) ([]*types.StudentAssignment, error)
	IDsByAssignmentIDs(dbc dbctx.Context, assignmentIDs []uuid.UUID) ([]uuid.UUID, error)
	SoftDeleteByAssignmentIDs(dbc dbctx.Context, assignmentIDs []uuid.UUID) error
}

type studentAssignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) StudentAssignmentRepo {
	return &studentAssignmentRepo{
		db:  db,
		log: baseLog.With("repo", "StudentAssignmentRepo"),
	}
}

func (r *studentAssignmentRepo) Create(dbc dbctx.Context, rows []*types.StudentAssignment) ([]*types.StudentAssignment, error) {
	if len(rows) == 0 {
		return []*types.StudentAssignment{}, nil
	}
	if err := dbc.Conn(r.db).CreateInBatches(&rows, 500).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *studentAssignmentRepo) GetByAssignmentIDs(dbc dbctx.Context, assignmentIDs []uuid.UUID, activeOnly bool) ([]*types.StudentAssignment, error) {
	out := []*types.StudentAssignment{}
	if len(assignmentIDs) == 0 {
		return out, nil
	}
	q := dbc.Conn(r.db).Where("assignment_id IN ?", assignmentIDs)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Order("created_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *studentAssignmentRepo) IDsByAssignmentIDs(dbc dbctx.Context, assignmentIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(assignmentIDs) == 0 {
		return ids, nil
	}
	if err := dbc.Conn(r.db).
		Model(&types.StudentAssignment{}).
		Where("assignment_id IN ?", assignmentIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *studentAssignmentRepo) SoftDeleteByAssignmentIDs(dbc dbctx.Context, assignmentIDs []uuid.UUID) error {
	if len(assignmentIDs) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Model(&types.StudentAssignment{}).
		Where("assignment_id IN ?", assignmentIDs).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		}).Error
}
