package classroom

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type ClassroomRepo interface {
	Create(dbc dbctx.Context, rows []*types.Classroom) ([]*types.Classroom, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Classroom, error)
}

type classroomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewClassroomRepo(db *gorm.DB, baseLog *logger.Logger) ClassroomRepo {
	return &classroomRepo{
		db:  db,
		log: baseLog.With("repo", "ClassroomRepo"),
	}
}

func (r *classroomRepo) Create(dbc dbctx.Context, rows []*types.Classroom) ([]*types.Classroom, error) {
	if len(rows) == 0 {
		return []*types.Classroom{}, nil
	}
	if err := dbc.Conn(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *classroomRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Classroom, error) {
	var row types.Classroom
	if err := dbc.Conn(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}
