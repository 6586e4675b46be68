package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/speakwell-backend/internal/data/repos"
	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/domain/progress"
	"github.com/yungbote/speakwell-backend/internal/platform/apierr"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

type AssignmentProgressSummary struct {
	AssignmentID     uuid.UUID        `json:"assignment_id"`
	Active           bool             `json:"active"`
	Students         int              `json:"students"`
	Contents         int              `json:"contents"`
	Items            int              `json:"items"`
	ProgressByStatus map[string]int64 `json:"progress_by_status"`
	// WithWork counts progress rows holding a recording, answer or grade.
	WithWork         int64          `json:"with_work"`
	StudentsByStatus map[string]int `json:"students_by_status"`
}

type IntegrityReport struct {
	DanglingProgressIDs []uuid.UUID `json:"dangling_progress_ids"`
	OrphanCopyIDs       []uuid.UUID `json:"orphan_copy_ids"`
	TemplateBindingIDs  []uuid.UUID `json:"template_binding_ids"`
}

func (r *IntegrityReport) OK() bool {
	return r != nil && len(r.DanglingProgressIDs) == 0 && len(r.OrphanCopyIDs) == 0 && len(r.TemplateBindingIDs) == 0
}

// ProgressLedger answers questions about ItemProgress rows. It never writes submission or grading fields.
type ProgressLedger interface {
	ContentHasProgress(dbc dbctx.Context, contentID uuid.UUID) (bool, error)
	// UnsafeItems returns the items referenced by at least one non-trivial progress row.
	UnsafeItems(dbc dbctx.Context, items []*types.ItemDefinition) ([]*types.ItemDefinition, error)
	// BackfillSkeletons gives every active student instance bound to contentID a not_started row per item.
	BackfillSkeletons(dbc dbctx.Context, contentID uuid.UUID, itemIDs []uuid.UUID) (int, error)
	AssignmentSummary(ctx context.Context, teacherID, assignmentID uuid.UUID) (*AssignmentProgressSummary, error)
	VerifyIntegrity(ctx context.Context) (*IntegrityReport, error)
}

type progressLedger struct {
	log                   *logger.Logger
	itemRepo              repos.ItemDefinitionRepo
	contentRepo           repos.ContentDefinitionRepo
	assignmentRepo        repos.AssignmentRepo
	bindingRepo           repos.AssignmentBindingRepo
	studentAssignmentRepo repos.StudentAssignmentRepo
	progressRepo          repos.ItemProgressRepo
}

func NewProgressLedger(
	baseLog *logger.Logger,
	itemRepo repos.ItemDefinitionRepo,
	contentRepo repos.ContentDefinitionRepo,
	assignmentRepo repos.AssignmentRepo,
	bindingRepo repos.AssignmentBindingRepo,
	studentAssignmentRepo repos.StudentAssignmentRepo,
	progressRepo repos.ItemProgressRepo,
) ProgressLedger {
	return &progressLedger{
		log:                   baseLog.With("service", "ProgressLedger"),
		itemRepo:              itemRepo,
		contentRepo:           contentRepo,
		assignmentRepo:        assignmentRepo,
		bindingRepo:           bindingRepo,
		studentAssignmentRepo: studentAssignmentRepo,
		progressRepo:          progressRepo,
	}
}

func (l *progressLedger) ContentHasProgress(dbc dbctx.Context, contentID uuid.UUID) (bool, error) {
	itemIDs, err := l.itemRepo.IDsByContentIDs(dbc, []uuid.UUID{contentID})
	if err != nil {
		return false, fmt.Errorf("load item ids: %w", err)
	}
	withData, err := l.progressRepo.ItemIDsWithRealData(dbc, itemIDs)
	if err != nil {
		return false, fmt.Errorf("scan progress: %w", err)
	}
	return len(withData) > 0, nil
}

func (l *progressLedger) UnsafeItems(dbc dbctx.Context, items []*types.ItemDefinition) ([]*types.ItemDefinition, error) {
	if len(items) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	withData, err := l.progressRepo.ItemIDsWithRealData(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("scan progress: %w", err)
	}
	if len(withData) == 0 {
		return nil, nil
	}
	hit := make(map[uuid.UUID]bool, len(withData))
	for _, id := range withData {
		hit[id] = true
	}
	var out []*types.ItemDefinition
	for _, it := range items {
		if hit[it.ID] {
			out = append(out, it)
		}
	}
	return out, nil
}

func (l *progressLedger) BackfillSkeletons(dbc dbctx.Context, contentID uuid.UUID, itemIDs []uuid.UUID) (int, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	bindings, err := l.bindingRepo.GetByContentIDs(dbc, []uuid.UUID{contentID})
	if err != nil {
		return 0, fmt.Errorf("load bindings: %w", err)
	}
	if len(bindings) == 0 {
		return 0, nil
	}
	assignmentIDs := make([]uuid.UUID, 0, len(bindings))
	for _, b := range bindings {
		assignmentIDs = append(assignmentIDs, b.AssignmentID)
	}
	instances, err := l.studentAssignmentRepo.GetByAssignmentIDs(dbc, assignmentIDs, true)
	if err != nil {
		return 0, fmt.Errorf("load student assignments: %w", err)
	}
	rows := make([]*types.ItemProgress, 0, len(instances)*len(itemIDs))
	for _, sa := range instances {
		for _, itemID := range itemIDs {
			rows = append(rows, progress.NewSkeleton(sa.ID, itemID))
		}
	}
	if err := l.progressRepo.CreateIgnoreDuplicates(dbc, rows); err != nil {
		return 0, fmt.Errorf("create skeletons: %w", err)
	}
	return len(rows), nil
}

func (l *progressLedger) AssignmentSummary(ctx context.Context, teacherID, assignmentID uuid.UUID) (*AssignmentProgressSummary, error) {
	dbc := dbctx.Context{Ctx: ctx}
	a, err := l.assignmentRepo.GetByID(dbc, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("load assignment: %w", err)
	}
	if a == nil || a.TeacherID != teacherID {
		return nil, apierr.NotFound("assignment %s not found", assignmentID)
	}

	bindings, err := l.bindingRepo.GetByAssignmentIDs(dbc, []uuid.UUID{a.ID})
	if err != nil {
		return nil, fmt.Errorf("load bindings: %w", err)
	}
	contentIDs := make([]uuid.UUID, 0, len(bindings))
	for _, b := range bindings {
		contentIDs = append(contentIDs, b.ContentID)
	}
	itemIDs, err := l.itemRepo.IDsByContentIDs(dbc, contentIDs)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	instances, err := l.studentAssignmentRepo.GetByAssignmentIDs(dbc, []uuid.UUID{a.ID}, false)
	if err != nil {
		return nil, fmt.Errorf("load student assignments: %w", err)
	}
	instanceIDs := make([]uuid.UUID, 0, len(instances))
	byStudentStatus := map[string]int{}
	for _, sa := range instances {
		instanceIDs = append(instanceIDs, sa.ID)
		byStudentStatus[string(sa.Status)]++
	}
	rows, err := l.progressRepo.GetByStudentAssignmentIDs(dbc, instanceIDs)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	byStatus := map[string]int64{}
	var withWork int64
	for _, row := range rows {
		byStatus[string(row.Status)]++
		if row.HasRealData() {
			withWork++
		}
	}

	return &AssignmentProgressSummary{
		AssignmentID:     a.ID,
		Active:           a.IsActive,
		Students:         len(instances),
		Contents:         len(contentIDs),
		Items:            len(itemIDs),
		ProgressByStatus: byStatus,
		WithWork:         withWork,
		StudentsByStatus: byStudentStatus,
	}, nil
}

func (l *progressLedger) VerifyIntegrity(ctx context.Context) (*IntegrityReport, error) {
	dbc := dbctx.Context{Ctx: ctx}
	dangling, err := l.progressRepo.DanglingIDs(dbc)
	if err != nil {
		return nil, fmt.Errorf("scan dangling progress: %w", err)
	}
	orphans, err := l.contentRepo.GetOrphanCopyIDs(dbc)
	if err != nil {
		return nil, fmt.Errorf("scan orphan copies: %w", err)
	}
	templateBindings, err := l.bindingRepo.IDsBoundToTemplates(dbc)
	if err != nil {
		return nil, fmt.Errorf("scan bindings: %w", err)
	}
	report := &IntegrityReport{
		DanglingProgressIDs: dangling,
		OrphanCopyIDs:       orphans,
		TemplateBindingIDs:  templateBindings,
	}
	if !report.OK() {
		l.log.Warn("ledger integrity violations",
			"dangling_progress", len(dangling),
			"orphan_copies", len(orphans),
			"template_bindings", len(templateBindings),
		)
	}
	return report, nil
}
