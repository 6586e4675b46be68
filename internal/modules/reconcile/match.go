// Package reconcile decides how an edited item list maps onto a content's current items.
// It is pure: callers load the current items and apply the returned Plan themselves.
package reconcile

import (
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/speakwell-backend/internal/domain"
)

type Incoming struct {
	Text        string
	Translation string
	AudioRef    *string
	Metadata    datatypes.JSON
}

type MatchKind string

const (
	MatchText     MatchKind = "text"
	MatchAudio    MatchKind = "audio"
	MatchPosition MatchKind = "position"
)

type Update struct {
	// Item carries the existing id with every editable field overwritten.
	Item     *types.ItemDefinition
	Previous *types.ItemDefinition
	By       MatchKind
}

type Plan struct {
	Updates []Update
	Inserts []*types.ItemDefinition
	// Deletes are the unclaimed current items, in their original order.
	Deletes []*types.ItemDefinition
	// Final is the resulting item list in new order; Final[i].OrderIndex == i.
	Final []*types.ItemDefinition
}

func (p Plan) DeleteIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(p.Deletes))
	for _, it := range p.Deletes {
		out = append(out, it.ID)
	}
	return out
}

func (p Plan) InsertIDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(p.Inserts))
	for _, it := range p.Inserts {
		out = append(out, it.ID)
	}
	return out
}

// Match runs a single forward pass over incoming. For each new item it claims the first
// unclaimed current item with equal text, else the first with an equal non-nil audio ref,
// else the current item at the same position when that slot is still unclaimed. Positional
// claims need a list that did not shrink. Claims are never revisited, even when a later new
// item would have matched the claimed item exactly. Ties go to the lowest order_index.
func Match(contentID uuid.UUID, current []*types.ItemDefinition, incoming []Incoming) Plan {
	pool := sortedByOrder(current)
	claimed := make([]bool, len(pool))
	positional := len(incoming) >= len(pool)

	plan := Plan{
		Final: make([]*types.ItemDefinition, 0, len(incoming)),
	}
	for pos, in := range incoming {
		idx, by := -1, MatchKind("")
		for i, old := range pool {
			if !claimed[i] && old.Text == in.Text {
				idx, by = i, MatchText
				break
			}
		}
		if idx < 0 && in.AudioRef != nil {
			for i, old := range pool {
				if !claimed[i] && old.AudioRef != nil && *old.AudioRef == *in.AudioRef {
					idx, by = i, MatchAudio
					break
				}
			}
		}
		if idx < 0 && positional && pos < len(pool) && !claimed[pos] {
			idx, by = pos, MatchPosition
		}

		if idx < 0 {
			item := newItem(contentID, pos, in)
			plan.Inserts = append(plan.Inserts, item)
			plan.Final = append(plan.Final, item)
			continue
		}

		claimed[idx] = true
		prev := pool[idx]
		item := newItem(contentID, pos, in)
		item.ID = prev.ID
		item.CreatedAt = prev.CreatedAt
		plan.Updates = append(plan.Updates, Update{Item: item, Previous: prev, By: by})
		plan.Final = append(plan.Final, item)
	}

	for i, old := range pool {
		if !claimed[i] {
			plan.Deletes = append(plan.Deletes, old)
		}
	}
	return plan
}

// Fresh builds a brand-new item list for a content, order_index = position.
func Fresh(contentID uuid.UUID, incoming []Incoming) []*types.ItemDefinition {
	out := make([]*types.ItemDefinition, 0, len(incoming))
	for pos, in := range incoming {
		out = append(out, newItem(contentID, pos, in))
	}
	return out
}

func newItem(contentID uuid.UUID, pos int, in Incoming) *types.ItemDefinition {
	item := &types.ItemDefinition{
		ID:          uuid.New(),
		ContentID:   contentID,
		OrderIndex:  pos,
		Text:        in.Text,
		Translation: in.Translation,
	}
	if in.AudioRef != nil {
		ref := *in.AudioRef
		item.AudioRef = &ref
	}
	if len(in.Metadata) > 0 {
		item.Metadata = append(datatypes.JSON(nil), in.Metadata...)
	}
	return item
}

func sortedByOrder(items []*types.ItemDefinition) []*types.ItemDefinition {
	out := make([]*types.ItemDefinition, 0, len(items))
	for _, it := range items {
		if it != nil {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out
}
