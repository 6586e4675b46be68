package reconcile

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/speakwell-backend/internal/domain"
)

func strptr(s string) *string { return &s }

func items(contentID uuid.UUID, texts ...string) []*types.ItemDefinition {
	out := make([]*types.ItemDefinition, 0, len(texts))
	for i, t := range texts {
		out = append(out, &types.ItemDefinition{ID: uuid.New(), ContentID: contentID, OrderIndex: i, Text: t})
	}
	return out
}

func texts(ts ...string) []Incoming {
	out := make([]Incoming, 0, len(ts))
	for _, t := range ts {
		out = append(out, Incoming{Text: t})
	}
	return out
}

func TestMatchTypoFixKeepsIdentity(t *testing.T) {
	cid := uuid.New()
	cur := items(cid, "Good morning", "Good afternoon")

	plan := Match(cid, cur, texts("Good morning!", "Good afternoon", "Good night"))

	if len(plan.Deletes) != 0 {
		t.Fatalf("deletes: got=%d want=0", len(plan.Deletes))
	}
	if len(plan.Inserts) != 1 || plan.Inserts[0].Text != "Good night" || plan.Inserts[0].OrderIndex != 2 {
		t.Fatalf("inserts: %+v", plan.Inserts)
	}
	if plan.Final[0].ID != cur[0].ID || plan.Updates[0].By != MatchPosition {
		t.Fatalf("final[0]: id=%s by=%s", plan.Final[0].ID, plan.Updates[0].By)
	}
	if plan.Final[1].ID != cur[1].ID || plan.Updates[1].By != MatchText {
		t.Fatalf("final[1]: id=%s by=%s", plan.Final[1].ID, plan.Updates[1].By)
	}
}

func TestMatchPositionalClaimIsFirstFit(t *testing.T) {
	cid := uuid.New()
	cur := items(cid, "a", "b")

	// "z" takes slot 0 by position before "a" is seen; "a" then falls back to slot 1.
	plan := Match(cid, cur, texts("z", "a"))

	if plan.Final[0].ID != cur[0].ID || plan.Updates[0].By != MatchPosition {
		t.Fatalf("final[0]: id=%s by=%s want %s by position", plan.Final[0].ID, plan.Updates[0].By, cur[0].ID)
	}
	if plan.Final[1].ID != cur[1].ID || plan.Updates[1].By != MatchPosition {
		t.Fatalf("final[1]: id=%s by=%s want %s by position", plan.Final[1].ID, plan.Updates[1].By, cur[1].ID)
	}
	if plan.Final[0].Text != "z" || plan.Final[1].Text != "a" {
		t.Fatalf("texts: %q %q", plan.Final[0].Text, plan.Final[1].Text)
	}
	if len(plan.Inserts) != 0 || len(plan.Deletes) != 0 {
		t.Fatalf("inserts=%+v deletes=%+v", plan.Inserts, plan.Deletes)
	}
}

func TestMatchFrontInsertClaimsByPosition(t *testing.T) {
	cid := uuid.New()
	cur := items(cid, "a", "b")

	plan := Match(cid, cur, texts("x", "a", "b"))

	if plan.Final[0].ID != cur[0].ID || plan.Final[1].ID != cur[1].ID {
		t.Fatalf("positional claims: %s %s", plan.Final[0].ID, plan.Final[1].ID)
	}
	if len(plan.Inserts) != 1 || plan.Inserts[0].Text != "b" || plan.Inserts[0].OrderIndex != 2 {
		t.Fatalf("inserts: %+v", plan.Inserts)
	}
	if len(plan.Deletes) != 0 {
		t.Fatalf("deletes: %+v", plan.Deletes)
	}
}

func TestMatchNoPositionalWhenShrinking(t *testing.T) {
	cid := uuid.New()
	cur := items(cid, "a", "b", "c")

	plan := Match(cid, cur, texts("a!", "c"))

	if len(plan.Inserts) != 1 || plan.Inserts[0].Text != "a!" {
		t.Fatalf("inserts: %+v", plan.Inserts)
	}
	if len(plan.Deletes) != 2 || plan.Deletes[0].ID != cur[0].ID || plan.Deletes[1].ID != cur[1].ID {
		t.Fatalf("deletes: %+v", plan.Deletes)
	}
}

func TestMatchPositionalFallbackWhenCountsEqual(t *testing.T) {
	cid := uuid.New()
	cur := items(cid, "Good morning", "Good afternoon")

	plan := Match(cid, cur, texts("Good morning!", "Good afternoon"))

	if len(plan.Inserts) != 0 || len(plan.Deletes) != 0 {
		t.Fatalf("inserts=%d deletes=%d want 0/0", len(plan.Inserts), len(plan.Deletes))
	}
	if plan.Final[0].ID != cur[0].ID || plan.Updates[0].By != MatchPosition {
		t.Fatalf("positional: final[0]=%s by=%s", plan.Final[0].ID, plan.Updates[0].By)
	}
	if plan.Final[0].Text != "Good morning!" {
		t.Fatalf("text not overwritten: %q", plan.Final[0].Text)
	}
}

func TestMatchPositionalSkipsClaimedSlot(t *testing.T) {
	cid := uuid.New()
	cur := items(cid, "a", "b")

	// "b" claims old[1] by text first; "z" would fall back to position 1, which is taken.
	plan := Match(cid, cur, texts("b", "z"))

	if plan.Final[0].ID != cur[1].ID {
		t.Fatalf("text match: got=%s want=%s", plan.Final[0].ID, cur[1].ID)
	}
	if len(plan.Inserts) != 1 || plan.Inserts[0].Text != "z" {
		t.Fatalf("inserts: %+v", plan.Inserts)
	}
	if len(plan.Deletes) != 1 || plan.Deletes[0].ID != cur[0].ID {
		t.Fatalf("deletes: %+v", plan.Deletes)
	}
}

func TestMatchAudioFallback(t *testing.T) {
	cid := uuid.New()
	cur := items(cid, "Hola", "Adios")
	cur[1].AudioRef = strptr("audio/adios.mp3")

	plan := Match(cid, cur, []Incoming{
		{Text: "Hello"},
		{Text: "Bye", AudioRef: strptr("audio/adios.mp3")},
		{Text: "Extra"},
	})

	if plan.Final[1].ID != cur[1].ID {
		t.Fatalf("audio match: got=%s want=%s", plan.Final[1].ID, cur[1].ID)
	}
	var by MatchKind
	for _, u := range plan.Updates {
		if u.Item.ID == cur[1].ID {
			by = u.By
		}
	}
	if by != MatchAudio {
		t.Fatalf("match kind: got=%s want=%s", by, MatchAudio)
	}
	if len(plan.Deletes) != 0 || plan.Final[0].ID != cur[0].ID {
		t.Fatalf("slot 0 should be claimed positionally: deletes=%+v", plan.Deletes)
	}
}

func TestMatchNilAudioNeverMatches(t *testing.T) {
	cid := uuid.New()
	cur := items(cid, "one", "two")
	plan := Match(cid, cur, []Incoming{{Text: "uno"}})
	if len(plan.Updates) != 0 {
		t.Fatalf("nil audio refs matched: %+v", plan.Updates)
	}
}

func TestMatchDuplicateTextFirstFit(t *testing.T) {
	cid := uuid.New()
	cur := items(cid, "repeat", "other", "repeat")

	plan := Match(cid, cur, texts("repeat"))

	if plan.Final[0].ID != cur[0].ID {
		t.Fatalf("first fit: got=%s want lowest order_index %s", plan.Final[0].ID, cur[0].ID)
	}
	if len(plan.Deletes) != 2 || plan.Deletes[0].ID != cur[1].ID || plan.Deletes[1].ID != cur[2].ID {
		t.Fatalf("deletes: %+v", plan.Deletes)
	}
}

func TestMatchUsesOrderIndexNotSliceOrder(t *testing.T) {
	cid := uuid.New()
	cur := items(cid, "x", "x")
	cur[0], cur[1] = cur[1], cur[0]

	plan := Match(cid, cur, texts("x"))
	if plan.Final[0].OrderIndex != 0 || plan.Updates[0].Previous.OrderIndex != 0 {
		t.Fatalf("expected the order_index 0 item to win, got previous=%d", plan.Updates[0].Previous.OrderIndex)
	}
}

func TestMatchShrinkProducesDeletes(t *testing.T) {
	cid := uuid.New()
	cur := items(cid, "Good morning", "Good afternoon")

	plan := Match(cid, cur, texts("Good morning"))

	if len(plan.Deletes) != 1 || plan.Deletes[0].Text != "Good afternoon" {
		t.Fatalf("deletes: %+v", plan.Deletes)
	}
	if ids := plan.DeleteIDs(); len(ids) != 1 || ids[0] != cur[1].ID {
		t.Fatalf("DeleteIDs: %v", ids)
	}
}

func TestFresh(t *testing.T) {
	cid := uuid.New()
	out := Fresh(cid, texts("a", "b"))
	if len(out) != 2 || out[1].OrderIndex != 1 || out[1].ContentID != cid || out[0].ID == out[1].ID {
		t.Fatalf("Fresh: %+v", out)
	}
}
