package assignment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/speakwell-backend/internal/data/repos/testutil"
	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
)

func TestAssignmentRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)
	assignments := NewAssignmentRepo(db, log)
	bindings := NewAssignmentBindingRepo(db, log)
	students := NewStudentAssignmentRepo(db, log)

	teacherID, cls, studentIDs := testutil.SeedTeacherClassroom(t, ctx, tx, 2)

	a := &types.Assignment{ID: uuid.New(), TeacherID: teacherID, ClassroomID: cls.ID, Title: "week 1", IsActive: true}
	if _, err := assignments.Create(dbc, []*types.Assignment{a}); err != nil {
		t.Fatalf("Create assignment: %v", err)
	}

	c1, c2 := uuid.New(), uuid.New()
	if _, err := bindings.Create(dbc, []*types.AssignmentBinding{
		{ID: uuid.New(), AssignmentID: a.ID, ContentID: c2, Position: 1},
		{ID: uuid.New(), AssignmentID: a.ID, ContentID: c1, Position: 0},
	}); err != nil {
		t.Fatalf("Create bindings: %v", err)
	}
	got, err := bindings.GetByAssignmentIDs(dbc, []uuid.UUID{a.ID})
	if err != nil || len(got) != 2 || got[0].ContentID != c1 || got[1].ContentID != c2 {
		t.Fatalf("GetByAssignmentIDs: err=%v rows=%v", err, got)
	}
	if rows, err := bindings.GetByContentIDs(dbc, []uuid.UUID{c2}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByContentIDs: err=%v len=%d", err, len(rows))
	}

	dup := &types.AssignmentBinding{ID: uuid.New(), AssignmentID: a.ID, ContentID: c1, Position: 2}
	if _, err := bindings.Create(dbctx.Context{Ctx: ctx, Tx: tx.SavePoint("dup")}, []*types.AssignmentBinding{dup}); err == nil {
		t.Fatal("expected duplicate binding to fail")
	}
	tx.RollbackTo("dup")

	rows := make([]*types.StudentAssignment, 0, len(studentIDs))
	for _, sid := range studentIDs {
		rows = append(rows, &types.StudentAssignment{ID: uuid.New(), AssignmentID: a.ID, StudentID: sid, Status: types.StudentAssigned, IsActive: true})
	}
	if _, err := students.Create(dbc, rows); err != nil {
		t.Fatalf("Create student assignments: %v", err)
	}
	if ids, err := students.IDsByAssignmentIDs(dbc, []uuid.UUID{a.ID}); err != nil || len(ids) != 2 {
		t.Fatalf("IDsByAssignmentIDs: err=%v len=%d", err, len(ids))
	}

	if err := assignments.SoftDeleteByIDs(dbc, []uuid.UUID{a.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	if err := students.SoftDeleteByAssignmentIDs(dbc, []uuid.UUID{a.ID}); err != nil {
		t.Fatalf("SoftDeleteByAssignmentIDs: %v", err)
	}
	after, err := assignments.GetByID(dbc, a.ID)
	if err != nil || after == nil || after.IsActive || after.WithdrawnAt == nil {
		t.Fatalf("after soft delete: err=%v row=%+v", err, after)
	}
	if active, err := students.GetByAssignmentIDs(dbc, []uuid.UUID{a.ID}, true); err != nil || len(active) != 0 {
		t.Fatalf("active instances: err=%v len=%d", err, len(active))
	}
	if all, err := students.GetByAssignmentIDs(dbc, []uuid.UUID{a.ID}, false); err != nil || len(all) != 2 {
		t.Fatalf("retained instances: err=%v len=%d", err, len(all))
	}

	if err := bindings.FullDeleteByIDs(dbc, []uuid.UUID{got[0].ID, got[1].ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
}

func TestAssignmentBindingRepoIDsBoundToTemplates(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	bindings := NewAssignmentBindingRepo(db, testutil.Logger(t))

	tmpl, _ := testutil.SeedTemplate(t, ctx, tx, uuid.New(), "t", "a")
	bad := &types.AssignmentBinding{ID: uuid.New(), AssignmentID: uuid.New(), ContentID: tmpl.ID}
	if _, err := bindings.Create(dbc, []*types.AssignmentBinding{bad}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	ids, err := bindings.IDsBoundToTemplates(dbc)
	if err != nil || len(ids) != 1 || ids[0] != bad.ID {
		t.Fatalf("IDsBoundToTemplates: err=%v ids=%v", err, ids)
	}
}
