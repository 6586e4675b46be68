package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/speakwell-backend/internal/data/fixtures"
	types "github.com/yungbote/speakwell-backend/internal/domain"
)

func SeedTeacherClassroom(tb testing.TB, ctx context.Context, tx *gorm.DB, students int) (uuid.UUID, *types.Classroom, []uuid.UUID) {
	tb.Helper()
	teacherID := uuid.New()
	cls, studentIDs, err := fixtures.Classroom(ctx, tx, teacherID, "class", students)
	if err != nil {
		tb.Fatalf("seed classroom: %v", err)
	}
	return teacherID, cls, studentIDs
}

func SeedTemplate(tb testing.TB, ctx context.Context, tx *gorm.DB, teacherID uuid.UUID, title string, texts ...string) (*types.ContentDefinition, []*types.ItemDefinition) {
	tb.Helper()
	return SeedTemplateItems(tb, ctx, tx, teacherID, title, fixtures.TextItems(texts...))
}

func SeedTemplateItems(tb testing.TB, ctx context.Context, tx *gorm.DB, teacherID uuid.UUID, title string, items []fixtures.Item) (*types.ContentDefinition, []*types.ItemDefinition) {
	tb.Helper()
	tmpl, rows, err := fixtures.Template(ctx, tx, teacherID, title, items)
	if err != nil {
		tb.Fatalf("seed template: %v", err)
	}
	return tmpl, rows
}

func SeedRecording(tb testing.TB, ctx context.Context, tx *gorm.DB, studentAssignmentID, itemID uuid.UUID) {
	tb.Helper()
	if err := fixtures.Recording(ctx, tx, studentAssignmentID, itemID, "recordings/"+itemID.String()+".webm"); err != nil {
		tb.Fatalf("seed recording: %v", err)
	}
}

// CopyItems returns the items of contentID ordered by order_index.
func CopyItems(tb testing.TB, ctx context.Context, tx *gorm.DB, contentID uuid.UUID) []*types.ItemDefinition {
	tb.Helper()
	var out []*types.ItemDefinition
	if err := tx.WithContext(ctx).Where("content_id = ?", contentID).Order("order_index ASC").Find(&out).Error; err != nil {
		tb.Fatalf("load items: %v", err)
	}
	return out
}

func Count(tb testing.TB, ctx context.Context, tx *gorm.DB, model any, query string, args ...any) int64 {
	tb.Helper()
	var n int64
	q := tx.WithContext(ctx).Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}
