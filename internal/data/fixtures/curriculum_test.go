package fixtures_test

import (
	"context"
	"strings"
	"testing"

	"github.com/yungbote/speakwell-backend/internal/data/fixtures"
	"github.com/yungbote/speakwell-backend/internal/data/repos/testutil"
	types "github.com/yungbote/speakwell-backend/internal/domain"
)

const demo = `
teacher_id: 6f1c2b8e-0d7a-4f55-9a43-2f0f7f1d9a10
classrooms:
  - name: 3A
    students: 4
templates:
  - title: Greetings
    description: Everyday phrases
    items:
      - text: Good morning
        translation: Buenos días
        audio_ref: audio/good-morning.mp3
      - text: Good afternoon
        metadata:
          level: a1
assignments:
  - title: Week 1
    classroom: 3A
    templates: [Greetings]
`

func TestLoadAndSeedCurriculum(t *testing.T) {
	c, err := fixtures.LoadCurriculum(strings.NewReader(demo))
	if err != nil {
		t.Fatalf("LoadCurriculum: %v", err)
	}
	db := testutil.DB(t)
	ctx := context.Background()
	tx := testutil.Tx(t, db)

	seeded, err := c.Seed(ctx, tx)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if seeded.TeacherID.String() != "6f1c2b8e-0d7a-4f55-9a43-2f0f7f1d9a10" {
		t.Fatalf("teacher: %s", seeded.TeacherID)
	}
	if len(seeded.Students["3A"]) != 4 {
		t.Fatalf("students: %v", seeded.Students)
	}
	tmpl := seeded.Templates["Greetings"]
	items := testutil.CopyItems(t, ctx, tx, tmpl.ID)
	if len(items) != 2 || items[0].AudioRef == nil || *items[0].AudioRef != "audio/good-morning.mp3" {
		t.Fatalf("items: %+v", items)
	}
	if !strings.Contains(string(items[1].Metadata), "a1") {
		t.Fatalf("metadata: %s", items[1].Metadata)
	}
	var stored types.ContentDefinition
	if err := tx.Where("id = ?", tmpl.ID).First(&stored).Error; err != nil || stored.Description != "Everyday phrases" {
		t.Fatalf("template row: %+v err=%v", stored, err)
	}
	if len(seeded.Assignments) != 1 || seeded.Assignments[0].TemplateIDs[0] != tmpl.ID {
		t.Fatalf("assignments: %+v", seeded.Assignments)
	}
}

func TestLoadCurriculumRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field":      "classrooms: []\nbogus: 1\n",
		"unknown classroom":  "templates: [{title: T, items: [{text: a}]}]\nassignments: [{title: A, classroom: nope, templates: [T]}]\n",
		"unknown template":   "classrooms: [{name: C}]\nassignments: [{title: A, classroom: C, templates: [nope]}]\n",
		"blank item":         "templates: [{title: T, items: [{text: ''}]}]\n",
		"duplicate template": "templates: [{title: T}, {title: T}]\n",
		"bad teacher":        "teacher_id: nope\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := fixtures.LoadCurriculum(strings.NewReader(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
