package assignment

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type AssignmentBindingRepo interface {
	Create(dbc dbctx.Context, rows []*types.AssignmentBinding) ([]*types.AssignmentBinding, error)
	// GetByAssignmentIDs returns bindings ordered by assignment then position.
	GetByAssignmentIDs(dbc dbctx.Context, assignmentIDs []uuid.UUID) ([]*types.AssignmentBinding, error)
	GetByContentIDs(dbc dbctx.Context, contentIDs []uuid.UUID) ([]*types.AssignmentBinding, error)
	// IDsBoundToTemplates returns bindings whose content is not a copy, or no longer exists.
	IDsBoundToTemplates(dbc dbctx.Context) ([]uuid.UUID, error)
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type assignmentBindingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssignmentBindingRepo(db *gorm.DB, baseLog *logger.Logger) AssignmentBindingRepo {
	return &assignmentBindingRepo{
		db:  db,
		log: baseLog.With("repo", "AssignmentBindingRepo"),
	}
}

func (r *assignmentBindingRepo) Create(dbc dbctx.Context, rows []*types.AssignmentBinding) ([]*types.AssignmentBinding, error) {
	if len(rows) == 0 {
		return []*types.AssignmentBinding{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *assignmentBindingRepo) GetByAssignmentIDs(dbc dbctx.Context, assignmentIDs []uuid.UUID) ([]*types.AssignmentBinding, error) {
	out := []*types.AssignmentBinding{}
	if len(assignmentIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("assignment_id IN ?", assignmentIDs).
		Order("assignment_id ASC, position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentBindingRepo) GetByContentIDs(dbc dbctx.Context, contentIDs []uuid.UUID) ([]*types.AssignmentBinding, error) {
	out := []*types.AssignmentBinding{}
	if len(contentIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("content_id IN ?", contentIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assignmentBindingRepo) IDsBoundToTemplates(dbc dbctx.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	conn := dbc.Conn(r.db)
	copies := conn.Session(&gorm.Session{NewDB: true}).
		Model(&types.ContentDefinition{}).
		Select("id").
		Where("is_copy = ?", true)
	if err := conn.
		Model(&types.AssignmentBinding{}).
		Where("content_id NOT IN (?)", copies).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *assignmentBindingRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Where("id IN ?", ids).
		Delete(&types.AssignmentBinding{}).Error
}
