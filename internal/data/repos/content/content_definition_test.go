package content

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/yungbote/speakwell-backend/internal/data/repos/testutil"
	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/domain/content"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
)

func TestContentDefinitionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewContentDefinitionRepo(db, testutil.Logger(t))

	teacher := uuid.New()
	tmpl := content.NewTemplate(teacher, "Greetings")
	cp := content.NewCopy(tmpl, teacher)
	if _, err := repo.Create(dbc, []*types.ContentDefinition{tmpl, cp}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{tmpl.ID, cp.ID}); err != nil || len(rows) != 2 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if row, err := repo.GetByID(dbc, uuid.New()); err != nil || row != nil {
		t.Fatalf("GetByID missing: err=%v row=%v", err, row)
	}
	locked, err := repo.LockByID(dbc, cp.ID)
	if err != nil || locked == nil || !locked.IsCopy || locked.SourceContentID == nil || *locked.SourceContentID != tmpl.ID {
		t.Fatalf("LockByID: err=%v row=%+v", err, locked)
	}
	if n, err := repo.CountTemplates(dbc); err != nil || n != 1 {
		t.Fatalf("CountTemplates: err=%v n=%d", err, n)
	}
	if rows, err := repo.GetCopiesBySourceIDs(dbc, []uuid.UUID{tmpl.ID}); err != nil || len(rows) != 1 || rows[0].ID != cp.ID {
		t.Fatalf("GetCopiesBySourceIDs: err=%v rows=%v", err, rows)
	}

	moved, err := repo.BumpVersion(dbc, cp.ID, 1)
	if err != nil || !moved {
		t.Fatalf("BumpVersion: err=%v moved=%v", err, moved)
	}
	if moved, err := repo.BumpVersion(dbc, cp.ID, 1); err != nil || moved {
		t.Fatalf("BumpVersion stale: err=%v moved=%v", err, moved)
	}
	if row, _ := repo.GetByID(dbc, cp.ID); row.Version != 2 {
		t.Fatalf("version: got=%d want=2", row.Version)
	}

	if ids, err := repo.GetOrphanCopyIDs(dbc); err != nil || len(ids) != 0 {
		t.Fatalf("GetOrphanCopyIDs: err=%v ids=%v", err, ids)
	}
	if err := repo.FullDeleteByIDs(dbc, []uuid.UUID{cp.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(dbc, []uuid.UUID{cp.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after FullDeleteByIDs GetByIDs: err=%v len=%d", err, len(rows))
	}
}

func TestContentDefinitionRepoRejectsCopyWithoutSource(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewContentDefinitionRepo(db, testutil.Logger(t))

	bad := &types.ContentDefinition{ID: uuid.New(), OwnerTeacherID: uuid.New(), Title: "x", IsCopy: true, IsActive: true}
	if _, err := repo.Create(dbc, []*types.ContentDefinition{bad}); err == nil {
		t.Fatal("expected origin validation error")
	}
}
