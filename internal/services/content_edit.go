package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/speakwell-backend/internal/data/aggregates"
	"github.com/yungbote/speakwell-backend/internal/data/repos"
	types "github.com/yungbote/speakwell-backend/internal/domain"
	"github.com/yungbote/speakwell-backend/internal/modules/reconcile"
	"github.com/yungbote/speakwell-backend/internal/observability"
	"github.com/yungbote/speakwell-backend/internal/platform/apierr"
	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

const (
	EditModeReplaced   = "replaced"
	EditModeReconciled = "reconciled"
)

type EditItem struct {
	Text        string         `json:"text" validate:"required,max=2000"`
	Translation string         `json:"translation" validate:"max=2000"`
	AudioRef    *string        `json:"audio_ref" validate:"omitempty,max=1024"`
	Metadata    datatypes.JSON `json:"metadata"`
}

type ContentEditInput struct {
	TeacherID       uuid.UUID  `validate:"required"`
	ContentID       uuid.UUID  `validate:"required"`
	Items           []EditItem `validate:"max=500,dive"`
	ExpectedVersion *int       `validate:"omitempty,gte=1"`
}

type ContentEditResult struct {
	ContentID uuid.UUID               `json:"content_id"`
	Mode      string                  `json:"mode"`
	Version   int                     `json:"version"`
	Items     []*types.ItemDefinition `json:"items"`
	Matched   int                     `json:"matched"`
	Inserted  int                     `json:"inserted"`
	Deleted   int                     `json:"deleted"`
	// SnapshotCopies counts existing copies of a replaced template. They keep their own items.
	SnapshotCopies int `json:"snapshot_copies,omitempty"`
}

// UnsafeItem identifies an item an edit would delete despite recorded student work.
type UnsafeItem struct {
	ID       uuid.UUID `json:"id"`
	Text     string    `json:"text"`
	Students int       `json:"students"`
}

type ContentEditService interface {
	// ApplyContentEdit edits an assignment's private copy, preserving item ids where it can.
	ApplyContentEdit(ctx context.Context, in ContentEditInput) (*ContentEditResult, error)
	// ReplaceTemplateItems replaces every item of a template.
	ReplaceTemplateItems(ctx context.Context, in ContentEditInput) (*ContentEditResult, error)
}

type contentEditService struct {
	tx           aggregates.TxRunner
	log          *logger.Logger
	metrics      *observability.Metrics
	contentRepo  repos.ContentDefinitionRepo
	itemRepo     repos.ItemDefinitionRepo
	progressRepo repos.ItemProgressRepo
	ledger       ProgressLedger
}

func NewContentEditService(
	db *gorm.DB,
	baseLog *logger.Logger,
	metrics *observability.Metrics,
	contentRepo repos.ContentDefinitionRepo,
	itemRepo repos.ItemDefinitionRepo,
	progressRepo repos.ItemProgressRepo,
	ledger ProgressLedger,
) ContentEditService {
	return &contentEditService{
		tx:           aggregates.NewGormTxRunner(db, baseLog, aggregates.NewObservabilityHooks(metrics), aggregates.DefaultRetryPolicy),
		log:          baseLog.With("service", "ContentEditService"),
		metrics:      metrics,
		contentRepo:  contentRepo,
		itemRepo:     itemRepo,
		progressRepo: progressRepo,
		ledger:       ledger,
	}
}

func (s *contentEditService) ApplyContentEdit(ctx context.Context, in ContentEditInput) (*ContentEditResult, error) {
	return s.edit(ctx, in, true)
}

func (s *contentEditService) ReplaceTemplateItems(ctx context.Context, in ContentEditInput) (*ContentEditResult, error) {
	return s.edit(ctx, in, false)
}

func (s *contentEditService) edit(ctx context.Context, in ContentEditInput, wantCopy bool) (out *ContentEditResult, err error) {
	op := "content.edit"
	if !wantCopy {
		op = "template.replace"
	}
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, op,
		attribute.String("content_id", in.ContentID.String()),
		attribute.Int("item_count", len(in.Items)),
	)
	defer func() {
		if out != nil {
			span.SetAttributes(attribute.String("mode", out.Mode))
		}
		observability.EndSpan(span, err)
		s.metrics.ObserveOp(op, outcomeOf(err), time.Since(start))
	}()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	incoming := normalizeItems(in.Items)

	err = s.tx.InTx(ctx, op, func(dbc dbctx.Context) error {

		c, err := s.contentRepo.LockByID(dbc, in.ContentID)
		if err != nil {
			return fmt.Errorf("lock content: %w", err)
		}
		if c == nil || c.OwnerTeacherID != in.TeacherID || c.IsCopy != wantCopy {
			if wantCopy {
				return apierr.NotFound("content copy %s not found", in.ContentID)
			}
			return apierr.NotFound("template %s not found", in.ContentID)
		}
		if in.ExpectedVersion != nil && *in.ExpectedVersion != c.Version {
			return apierr.Conflict(apierr.CodeStaleVersion,
				"content %s is at version %d, edit was based on %d", c.ID, c.Version, *in.ExpectedVersion).
				WithDetails(map[string]any{"current_version": c.Version})
		}

		current, err := s.itemRepo.GetByContentIDs(dbc, []uuid.UUID{c.ID})
		if err != nil {
			return fmt.Errorf("load items: %w", err)
		}

		res := &ContentEditResult{ContentID: c.ID}
		hasProgress := false
		if wantCopy {
			hasProgress, err = s.ledger.ContentHasProgress(dbc, c.ID)
			if err != nil {
				return err
			}
		}
		if hasProgress {
			err = s.reconcile(dbc, c.ID, current, incoming, res)
		} else {
			err = s.replace(dbc, c.ID, current, incoming, wantCopy, res)
		}
		if err != nil {
			return err
		}
		if !wantCopy {
			copies, err := s.contentRepo.GetCopiesBySourceIDs(dbc, []uuid.UUID{c.ID})
			if err != nil {
				return fmt.Errorf("load copies: %w", err)
			}
			res.SnapshotCopies = len(copies)
		}

		moved, err := s.contentRepo.BumpVersion(dbc, c.ID, c.Version)
		if err != nil {
			return fmt.Errorf("bump version: %w", err)
		}
		if !moved {
			return apierr.Conflict(apierr.CodeStaleVersion, "content %s changed during edit", c.ID)
		}
		res.Version = c.Version + 1

		res.Items, err = s.itemRepo.GetByContentIDs(dbc, []uuid.UUID{c.ID})
		if err != nil {
			return fmt.Errorf("reload items: %w", err)
		}
		out = res
		return nil
	})
	if err != nil {
		if apierr.IsCode(err, apierr.CodeUnsafeDelete) {
			s.log.Warn("content edit rejected", "content_id", in.ContentID, "error", err)
		}
		return nil, storeError(err)
	}

	s.metrics.AddReconcileItems("matched", out.Matched)
	s.metrics.AddReconcileItems("inserted", out.Inserted)
	s.metrics.AddReconcileItems("deleted", out.Deleted)
	s.log.Info("content edited",
		"content_id", out.ContentID,
		"mode", out.Mode,
		"version", out.Version,
		"matched", out.Matched,
		"inserted", out.Inserted,
		"deleted", out.Deleted,
		"snapshot_copies", out.SnapshotCopies,
	)
	return out, nil
}

// replace drops every current item and inserts the new list. Only legal when no row holds real data.
func (s *contentEditService) replace(dbc dbctx.Context, contentID uuid.UUID, current []*types.ItemDefinition, incoming []reconcile.Incoming, isCopy bool, res *ContentEditResult) error {
	oldIDs := itemIDs(current)
	if err := s.progressRepo.FullDeleteByItemIDs(dbc, oldIDs); err != nil {
		return fmt.Errorf("delete skeleton progress: %w", err)
	}
	if err := s.itemRepo.FullDeleteByIDs(dbc, oldIDs); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	fresh := reconcile.Fresh(contentID, incoming)
	if _, err := s.itemRepo.Create(dbc, fresh); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	if isCopy {
		if _, err := s.ledger.BackfillSkeletons(dbc, contentID, itemIDs(fresh)); err != nil {
			return err
		}
	}
	res.Mode = EditModeReplaced
	res.Inserted = len(fresh)
	res.Deleted = len(current)
	return nil
}

// reconcile applies a matching plan in place. Unsafe deletions abort before any write.
func (s *contentEditService) reconcile(dbc dbctx.Context, contentID uuid.UUID, current []*types.ItemDefinition, incoming []reconcile.Incoming, res *ContentEditResult) error {
	plan := reconcile.Match(contentID, current, incoming)

	unsafe, err := s.ledger.UnsafeItems(dbc, plan.Deletes)
	if err != nil {
		return err
	}
	if len(unsafe) > 0 {
		rows, err := s.progressRepo.GetByItemIDs(dbc, itemIDs(unsafe))
		if err != nil {
			return fmt.Errorf("load unsafe progress: %w", err)
		}
		withWork := make(map[uuid.UUID]int, len(unsafe))
		for _, row := range rows {
			if row.HasRealData() {
				withWork[row.ContentItemID]++
			}
		}
		details := make([]UnsafeItem, 0, len(unsafe))
		texts := make([]string, 0, len(unsafe))
		for _, it := range unsafe {
			details = append(details, UnsafeItem{ID: it.ID, Text: it.Text, Students: withWork[it.ID]})
			texts = append(texts, fmt.Sprintf("%q", it.Text))
		}
		return apierr.Conflict(apierr.CodeUnsafeDelete,
			"edit would delete items with student work: %s", strings.Join(texts, ", ")).
			WithDetails(map[string]any{"unsafe_items": details})
	}

	deleteIDs := plan.DeleteIDs()
	if err := s.progressRepo.FullDeleteByItemIDs(dbc, deleteIDs); err != nil {
		return fmt.Errorf("delete candidate progress: %w", err)
	}
	if err := s.itemRepo.FullDeleteByIDs(dbc, deleteIDs); err != nil {
		return fmt.Errorf("delete candidates: %w", err)
	}

	// Park matched items on negative indexes so no step collides on (content_id, order_index).
	for i, u := range plan.Updates {
		if err := s.itemRepo.SetOrderIndex(dbc, u.Item.ID, -(i + 1)); err != nil {
			return fmt.Errorf("park item %s: %w", u.Item.ID, err)
		}
	}
	for _, u := range plan.Updates {
		if err := s.itemRepo.Overwrite(dbc, u.Item); err != nil {
			return fmt.Errorf("update item %s: %w", u.Item.ID, err)
		}
	}
	if _, err := s.itemRepo.Create(dbc, plan.Inserts); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	if _, err := s.ledger.BackfillSkeletons(dbc, contentID, plan.InsertIDs()); err != nil {
		return err
	}

	res.Mode = EditModeReconciled
	res.Matched = len(plan.Updates)
	res.Inserted = len(plan.Inserts)
	res.Deleted = len(plan.Deletes)
	return nil
}

func normalizeItems(items []EditItem) []reconcile.Incoming {
	out := make([]reconcile.Incoming, 0, len(items))
	for _, it := range items {
		in := reconcile.Incoming{
			Text:        it.Text,
			Translation: it.Translation,
		}
		if meta := strings.TrimSpace(string(it.Metadata)); meta != "" && meta != "null" {
			in.Metadata = it.Metadata
		}
		if it.AudioRef != nil && strings.TrimSpace(*it.AudioRef) != "" {
			ref := strings.TrimSpace(*it.AudioRef)
			in.AudioRef = &ref
		}
		out = append(out, in)
	}
	return out
}

func itemIDs(items []*types.ItemDefinition) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}
