package progress

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/domain/progress"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type ItemProgressRepo interface {
	Create(dbc dbctx.Context, rows []*types.ItemProgress) ([]*types.ItemProgress, error)
	// CreateIgnoreDuplicates skips rows whose (student_assignment_id, content_item_id) already exists.
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.ItemProgress) error
	GetByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) ([]*types.ItemProgress, error)
	GetByStudentAssignmentIDs(dbc dbctx.Context, studentAssignmentIDs []uuid.UUID) ([]*types.ItemProgress, error)
	// ItemIDsWithRealData returns the subset of itemIDs referenced by at least one non-trivial row.
	ItemIDsWithRealData(dbc dbctx.Context, itemIDs []uuid.UUID) ([]uuid.UUID, error)
	IDsByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) ([]uuid.UUID, error)
	// DanglingIDs returns rows whose item no longer exists.
	DanglingIDs(dbc dbctx.Context) ([]uuid.UUID, error)
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	FullDeleteByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) error
}

type itemProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemProgressRepo(db *gorm.DB, baseLog *logger.Logger) ItemProgressRepo {
	return &itemProgressRepo{
		db:  db,
		log: baseLog.With("repo", "ItemProgressRepo"),
	}
}

func (r *itemProgressRepo) Create(dbc dbctx.Context, rows []*types.ItemProgress) ([]*types.ItemProgress, error) {
	if len(rows) == 0 {
		return []*types.ItemProgress{}, nil
	}
	if err := dbc.Conn(r.db).CreateInBatches(&rows, 500).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *itemProgressRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.ItemProgress) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_assignment_id"}, {Name: "content_item_id"}},
			DoNothing: true,
		}).
		CreateInBatches(&rows, 500).Error
}

func (r *itemProgressRepo) GetByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) ([]*types.ItemProgress, error) {
	out := []*types.ItemProgress{}
	if len(itemIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("content_item_id IN ?", itemIDs).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *itemProgressRepo) GetByStudentAssignmentIDs(dbc dbctx.Context, studentAssignmentIDs []uuid.UUID) ([]*types.ItemProgress, error) {
	out := []*types.ItemProgress{}
	if len(studentAssignmentIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("student_assignment_id IN ?", studentAssignmentIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *itemProgressRepo) ItemIDsWithRealData(dbc dbctx.Context, itemIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(itemIDs) == 0 {
		return ids, nil
	}
	if err := dbc.Conn(r.db).
		Model(&types.ItemProgress{}).
		Where("content_item_id IN ?", itemIDs).
		Where(progress.RealDataCondition, progress.StatusNotStarted).
		Distinct().
		Pluck("content_item_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *itemProgressRepo) IDsByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(itemIDs) == 0 {
		return ids, nil
	}
	if err := dbc.Conn(r.db).
		Model(&types.ItemProgress{}).
		Where("content_item_id IN ?", itemIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *itemProgressRepo) DanglingIDs(dbc dbctx.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	conn := dbc.Conn(r.db)
	if err := conn.
		Model(&types.ItemProgress{}).
		Where("content_item_id NOT IN (?)", conn.Session(&gorm.Session{NewDB: true}).Model(&types.ItemDefinition{}).Select("id")).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *itemProgressRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Where("id IN ?", ids).
		Delete(&types.ItemProgress{}).Error
}

func (r *itemProgressRepo) FullDeleteByItemIDs(dbc dbctx.Context, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Where("content_item_id IN ?", itemIDs).
		Delete(&types.ItemProgress{}).Error
}
