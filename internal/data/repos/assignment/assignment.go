package assignment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type AssignmentRepo interface {
	Create(dbc dbctx.Context, rows []*types.Assignment) ([]*types.Assignment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assignment, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Assignment, error)
	// SoftDeleteByIDs flags assignments inactive and stamps withdrawn_at; rows stay for audit.
	SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type assignmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentRepo {
	return &assignmentRepo{
		db:  db,
		log: baseLog.With("repo", "AssignmentRepo"),
	}
}

func (r *assignmentRepo) Create(dbc dbctx.Context, rows []*types.Assignment) ([]*types.Assignment, error) {
	if len(rows) == 0 {
		return []*types.Assignment{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *assignmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Assignment, error) {
	var row types.Assignment
	if err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *assignmentRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Assignment, error) {
	out := []*types.Assignment{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentRepo) SoftDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return dbc.Conn(r.db).
		Model(&types.Assignment{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"is_active":    false,
			"withdrawn_at": now,
			"updated_at":   now,
		}).Error
}
