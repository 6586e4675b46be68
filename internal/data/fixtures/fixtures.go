// Package fixtures builds demo and test rows. Every function takes its dependencies explicitly.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/domain/content"
)

type Item struct {
	Text        string         `yaml:"text" json:"text"`
	Translation string         `yaml:"translation,omitempty" json:"translation,omitempty"`
	AudioRef    string         `yaml:"audio_ref,omitempty" json:"audio_ref,omitempty"`
	Metadata    map[string]any `yaml:"metadata,omitempty" json:"metadata,omitempty"`
}

func TextItems(texts ...string) []Item {
	out := make([]Item, 0, len(texts))
	for _, t := range texts {
		out = append(out, Item{Text: t})
	}
	return out
}

// Classroom creates an active classroom owned by teacherID with studentCount fresh students on its roster.
func Classroom(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID, name string, studentCount int) (*types.Classroom, []uuid.UUID, error) {
	cls := &types.Classroom{ID: uuid.New(), TeacherID: teacherID, Name: name, IsActive: true}
	if err := tx.WithContext(ctx).Create(cls).Error; err != nil {
		return nil, nil, fmt.Errorf("create classroom: %w", err)
	}
	studentIDs := make([]uuid.UUID, 0, studentCount)
	for i := 0; i < studentCount; i++ {
		studentIDs = append(studentIDs, uuid.New())
	}
	if err := Enroll(ctx, tx, cls.ID, studentIDs...); err != nil {
		return nil, nil, err
	}
	return cls, studentIDs, nil
}

func Enroll(ctx context.Context, tx *gorm.DB, classroomID uuid.UUID, studentIDs ...uuid.UUID) error {
	base := time.Now().UTC()
	for i, sid := range studentIDs {
		row := &types.ClassroomStudent{
			ID:          uuid.New(),
			ClassroomID: classroomID,
			StudentID:   sid,
			IsActive:    true,
			// Distinct join times keep roster order stable.
			JoinedAt: base.Add(time.Duration(i) * time.Millisecond),
		}
		if err := tx.WithContext(ctx).Create(row).Error; err != nil {
			return fmt.Errorf("enroll student: %w", err)
		}
	}
	return nil
}

// Template creates an active template with items at order_index 0..n-1.
func Template(ctx context.Context, tx *gorm.DB, teacherID uuid.UUID, title string, items []Item) (*types.ContentDefinition, []*types.ItemDefinition, error) {
	tmpl := content.NewTemplate(teacherID, title)
	if err := tx.WithContext(ctx).Omit("Items").Create(tmpl).Error; err != nil {
		return nil, nil, fmt.Errorf("create template: %w", err)
	}
	rows, err := ItemRows(tmpl.ID, items)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) > 0 {
		if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
			return nil, nil, fmt.Errorf("create template items: %w", err)
		}
	}
	return tmpl, rows, nil
}

func ItemRows(contentID uuid.UUID, items []Item) ([]*types.ItemDefinition, error) {
	rows := make([]*types.ItemDefinition, 0, len(items))
	for i, it := range items {
		row := &types.ItemDefinition{
			ID:          uuid.New(),
			ContentID:   contentID,
			OrderIndex:  i,
			Text:        it.Text,
			Translation: it.Translation,
		}
		if it.AudioRef != "" {
			ref := it.AudioRef
			row.AudioRef = &ref
		}
		if len(it.Metadata) > 0 {
			b, err := json.Marshal(it.Metadata)
			if err != nil {
				return nil, fmt.Errorf("item %d metadata: %w", i, err)
			}
			row.Metadata = datatypes.JSON(b)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Recording writes a submitted recording onto the ledger row for (studentAssignmentID, itemID),
// the way the submission service does.
func Recording(ctx context.Context, tx *gorm.DB, studentAssignmentID, itemID uuid.UUID, ref string) error {
	now := time.Now().UTC()
	res := tx.WithContext(ctx).
		Model(&types.ItemProgress{}).
		Where("student_assignment_id = ? AND content_item_id = ?", studentAssignmentID, itemID).
		Updates(map[string]interface{}{
			"recording_ref": ref,
			"submitted_at":  now,
			"status":        types.ProgressSubmitted,
			"updated_at":    now,
		})
	if res.Error != nil {
		return fmt.Errorf("record submission: %w", res.Error)
	}
	if res.RowsAffected != 1 {
		return fmt.Errorf("record submission: no ledger row for item %s", itemID)
	}
	return nil
}
