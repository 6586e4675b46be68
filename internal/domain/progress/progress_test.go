package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHasRealData(t *testing.T) {
	ref := "rec/1.webm"
	empty := ""
	score := 0.0
	passed := false
	now := time.Now()

	cases := []struct {
		name string
		row  *ItemProgress
		want bool
	}{
		{"nil", nil, false},
		{"skeleton", NewSkeleton(uuid.New(), uuid.New()), false},
		{"blank status", &ItemProgress{}, false},
		{"recording", &ItemProgress{Status: StatusNotStarted, RecordingRef: &ref}, true},
		{"empty answer still counts", &ItemProgress{Status: StatusNotStarted, AnswerText: &empty}, true},
		{"zero ai score", &ItemProgress{Status: StatusNotStarted, AIFluencyScore: &score}, true},
		{"teacher failed", &ItemProgress{Status: StatusNotStarted, TeacherPassed: &passed}, true},
		{"reviewed at", &ItemProgress{Status: StatusNotStarted, ReviewedAt: &now}, true},
		{"status only", &ItemProgress{Status: StatusInProgress}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.row.HasRealData(); got != tc.want {
				t.Fatalf("HasRealData: got=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusReviewed.Valid() || Status("graded").Valid() {
		t.Fatal("unexpected status validity")
	}
}
