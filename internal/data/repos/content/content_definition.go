package content

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type ContentDefinitionRepo interface {
	Create(dbc dbctx.Context, rows []*types.ContentDefinition) ([]*types.ContentDefinition, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ContentDefinition, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ContentDefinition, error)
	// LockByID reads the row under FOR UPDATE where the dialect supports it.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.ContentDefinition, error)
	// BumpVersion increments version iff it still equals from. It reports whether the row moved.
	BumpVersion(dbc dbctx.Context, id uuid.UUID, from int) (bool, error)
	CountTemplates(dbc dbctx.Context) (int64, error)
	GetCopiesBySourceIDs(dbc dbctx.Context, sourceIDs []uuid.UUID) ([]*types.ContentDefinition, error)
	GetOrphanCopyIDs(dbc dbctx.Context) ([]uuid.UUID, error)
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
}

type contentDefinitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) ContentDefinitionRepo {
	return &contentDefinitionRepo{
		db:  db,
		log: baseLog.With("repo", "ContentDefinitionRepo"),
	}
}

func (r *contentDefinitionRepo) Create(dbc dbctx.Context, rows []*types.ContentDefinition) ([]*types.ContentDefinition, error) {
	if len(rows) == 0 {
		return []*types.ContentDefinition{}, nil
	}
	// Items are written through ItemDefinitionRepo.
	if err := dbc.Conn(r.db).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *contentDefinitionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ContentDefinition, error) {
	out := []*types.ContentDefinition{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentDefinitionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.ContentDefinition, error) {
	var row types.ContentDefinition
	err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *contentDefinitionRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.ContentDefinition, error) {
	var row types.ContentDefinition
	err := dbc.Conn(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *contentDefinitionRepo) BumpVersion(dbc dbctx.Context, id uuid.UUID, from int) (bool, error) {
	res := dbc.Conn(r.db).
		Model(&types.ContentDefinition{}).
		Where("id = ? AND version = ?", id, from).
		UpdateColumn("version", gorm.Expr("version + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *contentDefinitionRepo) CountTemplates(dbc dbctx.Context) (int64, error) {
	var n int64
	err := dbc.Conn(r.db).Model(&types.ContentDefinition{}).Where("is_copy = ?", false).Count(&n).Error
	return n, err
}

func (r *contentDefinitionRepo) GetCopiesBySourceIDs(dbc dbctx.Context, sourceIDs []uuid.UUID) ([]*types.ContentDefinition, error) {
	out := []*types.ContentDefinition{}
	if len(sourceIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("is_copy = ? AND source_content_id IN ?", true, sourceIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// GetOrphanCopyIDs returns copies whose source no longer resolves.
func (r *contentDefinitionRepo) GetOrphanCopyIDs(dbc dbctx.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	conn := dbc.Conn(r.db)
	err := conn.
		Model(&types.ContentDefinition{}).
		Where("is_copy = ?", true).
		Where("source_content_id IS NULL OR source_content_id NOT IN (?)",
			conn.Session(&gorm.Session{NewDB: true}).Model(&types.ContentDefinition{}).Select("id")).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *contentDefinitionRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Where("id IN ?", ids).
		Delete(&types.ContentDefinition{}).Error
}
