package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/speakwell-backend/internal/observability"
	"github.com/yungbote/speakwell-backend/internal/platform/apierr"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
)

// TeardownPlan is the id arena deleted for one assignment, listed in deletion order.
type TeardownPlan struct {
	AssignmentID uuid.UUID
	ProgressIDs  []uuid.UUID
	ItemIDs      []uuid.UUID
	BindingIDs   []uuid.UUID
	ContentIDs   []uuid.UUID
	// Retained are bound contents left in place: templates, or copies another assignment also binds.
	Retained []uuid.UUID
}

func (p *TeardownPlan) Counts() map[string]int {
	return map[string]int{
		"item_progress":      len(p.ProgressIDs),
		"item_definition":    len(p.ItemIDs),
		"assignment_binding": len(p.BindingIDs),
		"content_definition": len(p.ContentIDs),
	}
}

type TeardownResult struct {
	AssignmentID      uuid.UUID      `json:"assignment_id"`
	StudentsWithdrawn int            `json:"students_withdrawn"`
	Deleted           map[string]int `json:"deleted"`
	Retained          []uuid.UUID    `json:"retained,omitempty"`
}

func (s *assignmentService) PlanTeardown(dbc dbctx.Context, assignmentID uuid.UUID) (*TeardownPlan, error) {
	plan := &TeardownPlan{AssignmentID: assignmentID}

	bindings, err := s.bindingRepo.GetByAssignmentIDs(dbc, []uuid.UUID{assignmentID})
	if err != nil {
		return nil, fmt.Errorf("load bindings: %w", err)
	}
	candidateIDs := make([]uuid.UUID, 0, len(bindings))
	for _, b := range bindings {
		plan.BindingIDs = append(plan.BindingIDs, b.ID)
		candidateIDs = append(candidateIDs, b.ContentID)
	}
	if len(candidateIDs) == 0 {
		return plan, nil
	}

	contents, err := s.contentRepo.GetByIDs(dbc, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("load bound contents: %w", err)
	}
	isCopy := make(map[uuid.UUID]bool, len(contents))
	for _, c := range contents {
		isCopy[c.ID] = c.IsCopy
	}
	shared, err := s.bindingRepo.GetByContentIDs(dbc, candidateIDs)
	if err != nil {
		return nil, fmt.Errorf("load shared bindings: %w", err)
	}
	boundElsewhere := map[uuid.UUID]bool{}
	for _, b := range shared {
		if b.AssignmentID != assignmentID {
			boundElsewhere[b.ContentID] = true
		}
	}
	for _, id := range candidateIDs {
		if !isCopy[id] || boundElsewhere[id] {
			plan.Retained = append(plan.Retained, id)
			continue
		}
		plan.ContentIDs = append(plan.ContentIDs, id)
	}

	plan.ItemIDs, err = s.itemRepo.IDsByContentIDs(dbc, plan.ContentIDs)
	if err != nil {
		return nil, fmt.Errorf("load copy items: %w", err)
	}
	plan.ProgressIDs, err = s.progressRepo.IDsByItemIDs(dbc, plan.ItemIDs)
	if err != nil {
		return nil, fmt.Errorf("load progress ids: %w", err)
	}
	return plan, nil
}

func (s *assignmentService) DeleteAssignment(ctx context.Context, teacherID, assignmentID uuid.UUID) (out *TeardownResult, err error) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, "assignment.delete",
		attribute.String("assignment_id", assignmentID.String()),
	)
	defer func() {
		observability.EndSpan(span, err)
		s.metrics.ObserveOp("assignment.delete", outcomeOf(err), time.Since(start))
	}()

	if teacherID == uuid.Nil || assignmentID == uuid.Nil {
		return nil, apierr.Validation("teacher and assignment ids are required")
	}

	err = s.tx.InTx(ctx, "assignment.delete", func(dbc dbctx.Context) error {

		a, err := s.assignmentRepo.GetByID(dbc, assignmentID)
		if err != nil {
			return fmt.Errorf("load assignment: %w", err)
		}
		if a == nil || !a.IsActive || a.TeacherID != teacherID {
			return apierr.NotFound("assignment %s not found", assignmentID)
		}

		instanceIDs, err := s.studentAssignmentRepo.IDsByAssignmentIDs(dbc, []uuid.UUID{a.ID})
		if err != nil {
			return fmt.Errorf("load student assignments: %w", err)
		}
		if err := s.assignmentRepo.SoftDeleteByIDs(dbc, []uuid.UUID{a.ID}); err != nil {
			return fmt.Errorf("withdraw assignment: %w", err)
		}
		if err := s.studentAssignmentRepo.SoftDeleteByAssignmentIDs(dbc, []uuid.UUID{a.ID}); err != nil {
			return fmt.Errorf("withdraw student assignments: %w", err)
		}

		plan, err := s.PlanTeardown(dbc, a.ID)
		if err != nil {
			return err
		}
		if err := s.progressRepo.FullDeleteByIDs(dbc, plan.ProgressIDs); err != nil {
			return fmt.Errorf("delete progress: %w", err)
		}
		if err := s.itemRepo.FullDeleteByIDs(dbc, plan.ItemIDs); err != nil {
			return fmt.Errorf("delete copy items: %w", err)
		}
		if err := s.bindingRepo.FullDeleteByIDs(dbc, plan.BindingIDs); err != nil {
			return fmt.Errorf("delete bindings: %w", err)
		}
		if err := s.contentRepo.FullDeleteByIDs(dbc, plan.ContentIDs); err != nil {
			return fmt.Errorf("delete content copies: %w", err)
		}

		out = &TeardownResult{
			AssignmentID:      a.ID,
			StudentsWithdrawn: len(instanceIDs),
			Deleted:           plan.Counts(),
			Retained:          plan.Retained,
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	for table, n := range out.Deleted {
		s.metrics.AddTeardownRows(table, n)
	}
	if len(out.Retained) > 0 {
		s.log.Warn("teardown retained bound contents", "assignment_id", assignmentID, "retained", len(out.Retained))
	}
	s.log.Info("assignment deleted",
		"assignment_id", assignmentID,
		"students", out.StudentsWithdrawn,
		"contents", out.Deleted["content_definition"],
		"items", out.Deleted["item_definition"],
		"progress_rows", out.Deleted["item_progress"],
	)
	return out, nil
}
