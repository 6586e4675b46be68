package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/domain/content"
	"github.com/yungbote/speakwell-backend/internal/domain/progress"
	"github.com/yungbote/speakwell-backend/internal/observability"
	"github.com/yungbote/speakwell-backend/internal/platform/apierr"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
)

type AssignmentService interface {
	CreateAssignment(ctx context.Context, in CreateAssignmentInput) (*CreateAssignmentResult, error)
	PlanTeardown(dbc dbctx.Context, assignmentID uuid.UUID) (*TeardownPlan, error)
	DeleteAssignment(ctx context.Context, teacherID, assignmentID uuid.UUID) (*TeardownResult, error)
}

type CreateAssignmentInput struct {
	TeacherID          uuid.UUID   `validate:"required"`
	ClassroomID        uuid.UUID   `validate:"required"`
	TemplateContentIDs []uuid.UUID `validate:"required,min=1,max=50,dive,required"`
	// StudentIDs narrows the roster; empty means every active student.
	StudentIDs []uuid.UUID `validate:"omitempty,max=1000,dive,required"`
	Title      string      `validate:"max=200"`
	DueDate    *time.Time
}

type CreateAssignmentResult struct {
	AssignmentID uuid.UUID `json:"assignment_id"`
	StudentCount int       `json:"student_count"`
	ContentCount int       `json:"content_count"`
	// CopyIDs are the private copies in binding order.
	CopyIDs []uuid.UUID `json:"copy_ids"`
	// ItemCopies maps each template item id to its copy.
	ItemCopies   map[uuid.UUID]uuid.UUID `json:"item_copies"`
	ProgressRows int                     `json:"progress_rows"`
}

func (s *assignmentService) CreateAssignment(ctx context.Context, in CreateAssignmentInput) (out *CreateAssignmentResult, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "assignment.create",
		attribute.String("classroom_id", in.ClassroomID.String()),
		attribute.Int("template_count", len(in.TemplateContentIDs)),
	)
	defer func() {
		observability.EndSpan(span, err)
		s.metrics.ObserveOp("assignment.create", outcomeOf(err), time.Since(start))
	}()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	if dup := firstDuplicate(in.TemplateContentIDs); dup != uuid.Nil {
		return nil, apierr.Validation("template %s listed more than once", dup)
	}

	err = s.tx.InTx(ctx, "assignment.create", func(dbc dbctx.Context) error {

		templates, err := s.resolveTemplates(dbc, in.TeacherID, in.TemplateContentIDs)
		if err != nil {
			return err
		}
		studentIDs, err := s.resolveStudents(dbc, in.TeacherID, in.ClassroomID, in.StudentIDs)
		if err != nil {
			return err
		}

		a := &types.Assignment{
			ID:          uuid.New(),
			TeacherID:   in.TeacherID,
			ClassroomID: in.ClassroomID,
			Title:       in.Title,
			DueDate:     in.DueDate,
			IsActive:    true,
		}
		if _, err := s.assignmentRepo.Create(dbc, []*types.Assignment{a}); err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}

		snap, err := s.cloneTemplates(dbc, a.ID, templates)
		if err != nil {
			return err
		}

		instances := make([]*types.StudentAssignment, 0, len(studentIDs))
		for _, sid := range studentIDs {
			instances = append(instances, &types.StudentAssignment{
				ID:           uuid.New(),
				AssignmentID: a.ID,
				StudentID:    sid,
				Status:       types.StudentAssigned,
				IsActive:     true,
			})
		}
		if _, err := s.studentAssignmentRepo.Create(dbc, instances); err != nil {
			return fmt.Errorf("create student assignments: %w", err)
		}

		rows := make([]*types.ItemProgress, 0, len(instances)*len(snap.orderedItems))
		for _, sa := range instances {
			for _, item := range snap.orderedItems {
				rows = append(rows, progress.NewSkeleton(sa.ID, item.ID))
			}
		}
		if _, err := s.progressRepo.Create(dbc, rows); err != nil {
			return fmt.Errorf("create progress skeletons: %w", err)
		}

		out = &CreateAssignmentResult{
			AssignmentID: a.ID,
			StudentCount: len(instances),
			ContentCount: len(snap.copyIDs),
			CopyIDs:      snap.copyIDs,
			ItemCopies:   snap.itemMap,
			ProgressRows: len(rows),
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.metrics.AddSnapshotRows("content_definition", out.ContentCount)
	s.metrics.AddSnapshotRows("item_definition", len(out.ItemCopies))
	s.metrics.AddSnapshotRows("student_assignment", out.StudentCount)
	s.metrics.AddSnapshotRows("item_progress", out.ProgressRows)
	s.log.Info("assignment created",
		"assignment_id", out.AssignmentID,
		"classroom_id", in.ClassroomID,
		"students", out.StudentCount,
		"contents", out.ContentCount,
		"progress_rows", out.ProgressRows,
	)
	return out, nil
}

// resolveTemplates returns the requested templates in caller order.
func (s *assignmentService) resolveTemplates(dbc dbctx.Context, teacherID uuid.UUID, ids []uuid.UUID) ([]*types.ContentDefinition, error) {
	rows, err := s.contentRepo.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	byID := make(map[uuid.UUID]*types.ContentDefinition, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	out := make([]*types.ContentDefinition, 0, len(ids))
	for _, id := range ids {
		c := byID[id]
		if c == nil || !c.IsActive {
			return nil, apierr.Validation("template %s not found or inactive", id)
		}
		if _, isTemplate := c.Origin().(content.Template); !isTemplate {
			return nil, apierr.Validation("content %s is an assignment copy and cannot be assigned", id)
		}
		if c.OwnerTeacherID != teacherID {
			return nil, apierr.Permission("template %s belongs to another teacher", id)
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *assignmentService) resolveStudents(dbc dbctx.Context, teacherID, classroomID uuid.UUID, requested []uuid.UUID) ([]uuid.UUID, error) {
	cls, err := s.classroomRepo.GetByID(dbc, classroomID)
	if err != nil {
		return nil, fmt.Errorf("load classroom: %w", err)
	}
	if cls == nil || !cls.IsActive {
		return nil, apierr.Validation("classroom %s not found or inactive", classroomID)
	}
	if cls.TeacherID != teacherID {
		return nil, apierr.Permission("classroom %s belongs to another teacher", classroomID)
	}

	roster, err := s.rosterRepo.ActiveStudentIDs(dbc, classroomID)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}
	if len(requested) == 0 {
		if len(roster) == 0 {
			return nil, apierr.Conflict(apierr.CodeEmptyRoster, "classroom %s has no active students", classroomID)
		}
		return roster, nil
	}

	enrolled := make(map[uuid.UUID]bool, len(roster))
	for _, id := range roster {
		enrolled[id] = true
	}
	seen := make(map[uuid.UUID]bool, len(requested))
	out := make([]uuid.UUID, 0, len(requested))
	var unknown []string
	for _, id := range requested {
		if seen[id] {
			continue
		}
		seen[id] = true
		if !enrolled[id] {
			unknown = append(unknown, id.String())
			continue
		}
		out = append(out, id)
	}
	if len(unknown) > 0 {
		return nil, apierr.Validation("%d student(s) are not on the active roster", len(unknown)).
			WithDetails(map[string]any{"unknown_student_ids": unknown})
	}
	return out, nil
}

type snapshot struct {
	copyIDs      []uuid.UUID
	itemMap      map[uuid.UUID]uuid.UUID
	orderedItems []*types.ItemDefinition
}

// cloneTemplates copies every template and its items, then binds the copies at their caller position.
func (s *assignmentService) cloneTemplates(dbc dbctx.Context, assignmentID uuid.UUID, templates []*types.ContentDefinition) (*snapshot, error) {
	templateIDs := make([]uuid.UUID, 0, len(templates))
	for _, t := range templates {
		templateIDs = append(templateIDs, t.ID)
	}
	items, err := s.itemRepo.GetByContentIDs(dbc, templateIDs)
	if err != nil {
		return nil, fmt.Errorf("load template items: %w", err)
	}
	itemsByContent := map[uuid.UUID][]*types.ItemDefinition{}
	for _, it := range items {
		itemsByContent[it.ContentID] = append(itemsByContent[it.ContentID], it)
	}

	snap := &snapshot{itemMap: make(map[uuid.UUID]uuid.UUID, len(items))}
	copies := make([]*types.ContentDefinition, 0, len(templates))
	bindings := make([]*types.AssignmentBinding, 0, len(templates))
	for pos, tmpl := range templates {
		cp := content.NewCopy(tmpl, tmpl.OwnerTeacherID)
		copies = append(copies, cp)
		snap.copyIDs = append(snap.copyIDs, cp.ID)
		for _, it := range itemsByContent[tmpl.ID] {
			clone := it.CloneInto(cp.ID)
			snap.itemMap[it.ID] = clone.ID
			snap.orderedItems = append(snap.orderedItems, clone)
		}
		bindings = append(bindings, &types.AssignmentBinding{
			ID:           uuid.New(),
			AssignmentID: assignmentID,
			ContentID:    cp.ID,
			Position:     pos,
		})
	}

	if _, err := s.contentRepo.Create(dbc, copies); err != nil {
		return nil, fmt.Errorf("create content copies: %w", err)
	}
	if _, err := s.itemRepo.Create(dbc, snap.orderedItems); err != nil {
		return nil, fmt.Errorf("create item copies: %w", err)
	}
	if _, err := s.bindingRepo.Create(dbc, bindings); err != nil {
		return nil, fmt.Errorf("create bindings: %w", err)
	}
	return snap, nil
}

func firstDuplicate(ids []uuid.UUID) uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return uuid.Nil
}
