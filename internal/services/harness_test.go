package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/speakwell-backend/internal/data/repos"
	"github.com/yungbote/speakwell-backend/internal/data/repos/testutil"
	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/observability"
)

type harness struct {
	ctx         context.Context
	db          *gorm.DB
	assignments AssignmentService
	edits       ContentEditService
	ledger      ProgressLedger
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.NewMetrics()

	contentRepo := repos.NewContentDefinitionRepo(db, log)
	itemRepo := repos.NewItemDefinitionRepo(db, log)
	assignmentRepo := repos.NewAssignmentRepo(db, log)
	bindingRepo := repos.NewAssignmentBindingRepo(db, log)
	studentAssignmentRepo := repos.NewStudentAssignmentRepo(db, log)
	progressRepo := repos.NewItemProgressRepo(db, log)

	ledger := NewProgressLedger(log, itemRepo, contentRepo, assignmentRepo, bindingRepo, studentAssignmentRepo, progressRepo)
	return &harness{
		ctx: context.Background(),
		db:  db,
		assignments: NewAssignmentService(db, log, metrics,
			contentRepo, itemRepo,
			repos.NewClassroomRepo(db, log), repos.NewRosterRepo(db, log),
			assignmentRepo, bindingRepo, studentAssignmentRepo, progressRepo,
		),
		edits:  NewContentEditService(db, log, metrics, contentRepo, itemRepo, progressRepo, ledger),
		ledger: ledger,
	}
}

func (h *harness) assign(t *testing.T, teacherID, classroomID uuid.UUID, templateIDs ...uuid.UUID) *CreateAssignmentResult {
	t.Helper()
	res, err := h.assignments.CreateAssignment(h.ctx, CreateAssignmentInput{
		TeacherID:          teacherID,
		ClassroomID:        classroomID,
		TemplateContentIDs: templateIDs,
		Title:              "homework",
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	return res
}

func (h *harness) instance(t *testing.T, assignmentID, studentID uuid.UUID) uuid.UUID {
	t.Helper()
	var sa types.StudentAssignment
	if err := h.db.Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).First(&sa).Error; err != nil {
		t.Fatalf("load student assignment: %v", err)
	}
	return sa.ID
}

func (h *harness) items(t *testing.T, contentID uuid.UUID) []*types.ItemDefinition {
	t.Helper()
	return testutil.CopyItems(t, h.ctx, h.db, contentID)
}

func (h *harness) count(t *testing.T, model any, query string, args ...any) int64 {
	t.Helper()
	return testutil.Count(t, h.ctx, h.db, model, query, args...)
}

func editItems(texts ...string) []EditItem {
	out := make([]EditItem, 0, len(texts))
	for _, s := range texts {
		out = append(out, EditItem{Text: s})
	}
	return out
}

func texts(items []*types.ItemDefinition) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text)
	}
	return out
}
