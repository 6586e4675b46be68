package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type ItemDefinitionRepo interface {
	Create(dbc dbctx.Context, rows []*types.ItemDefinition) ([]*types.ItemDefinition, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ItemDefinition, error)
	// GetByContentIDs returns items ordered by content then order_index.
	GetByContentIDs(dbc dbctx.Context, contentIDs []uuid.UUID) ([]*types.ItemDefinition, error)
	IDsByContentIDs(dbc dbctx.Context, contentIDs []uuid.UUID) ([]uuid.UUID, error)
	SetOrderIndex(dbc dbctx.Context, id uuid.UUID, orderIndex int) error
	// Overwrite replaces every editable field of the row with item's values, keeping its id.
	Overwrite(dbc dbctx.Context, item *types.ItemDefinition) error
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	FullDeleteByContentIDs(dbc dbctx.Context, contentIDs []uuid.UUID) error
}

type itemDefinitionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewItemDefinitionRepo(db *gorm.DB, baseLog *logger.Logger) ItemDefinitionRepo {
	return &itemDefinitionRepo{
		db:  db,
		log: baseLog.With("repo", "ItemDefinitionRepo"),
	}
}

func (r *itemDefinitionRepo) Create(dbc dbctx.Context, rows []*types.ItemDefinition) ([]*types.ItemDefinition, error) {
	if len(rows) == 0 {
		return []*types.ItemDefinition{}, nil
	}
	if err := dbc.Conn(r.db).CreateInBatches(&rows, 500).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *itemDefinitionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.ItemDefinition, error) {
	out := []*types.ItemDefinition{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *itemDefinitionRepo) GetByContentIDs(dbc dbctx.Context, contentIDs []uuid.UUID) ([]*types.ItemDefinition, error) {
	out := []*types.ItemDefinition{}
	if len(contentIDs) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("content_id IN ?", contentIDs).
		Order("content_id ASC, order_index ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *itemDefinitionRepo) IDsByContentIDs(dbc dbctx.Context, contentIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if len(contentIDs) == 0 {
		return ids, nil
	}
	if err := dbc.Conn(r.db).
		Model(&types.ItemDefinition{}).
		Where("content_id IN ?", contentIDs).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *itemDefinitionRepo) SetOrderIndex(dbc dbctx.Context, id uuid.UUID, orderIndex int) error {
	return dbc.Conn(r.db).
		Model(&types.ItemDefinition{}).
		Where("id = ?", id).
		UpdateColumn("order_index", orderIndex).Error
}

func (r *itemDefinitionRepo) Overwrite(dbc dbctx.Context, item *types.ItemDefinition) error {
	var metadata any
	if len(item.Metadata) > 0 {
		metadata = item.Metadata
	}
	return dbc.Conn(r.db).
		Model(&types.ItemDefinition{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"order_index": item.OrderIndex,
			"text":        item.Text,
			"translation": item.Translation,
			"audio_ref":   item.AudioRef,
			"metadata":    metadata,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *itemDefinitionRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Where("id IN ?", ids).
		Delete(&types.ItemDefinition{}).Error
}

func (r *itemDefinitionRepo) FullDeleteByContentIDs(dbc dbctx.Context, contentIDs []uuid.UUID) error {
	if len(contentIDs) == 0 {
		return nil
	}
	return dbc.Conn(r.db).
		Where("content_id IN ?", contentIDs).
		Delete(&types.ItemDefinition{}).Error
}
