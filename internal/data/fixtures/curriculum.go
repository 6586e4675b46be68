package fixtures

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	types "github.com/yungbote/speakwell-backend/internal/domain"
)

// Curriculum is the YAML seed format read by `speakwellctl seed`.
type Curriculum struct {
	TeacherID   string               `yaml:"teacher_id"`
	Classrooms  []CurriculumClass    `yaml:"classrooms"`
	Templates   []CurriculumTemplate `yaml:"templates"`
	Assignments []CurriculumAssign   `yaml:"assignments"`
}

type CurriculumClass struct {
	Name     string `yaml:"name"`
	Students int    `yaml:"students"`
}

type CurriculumTemplate struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Items       []Item `yaml:"items"`
}

type CurriculumAssign struct {
	Title     string   `yaml:"title"`
	Classroom string   `yaml:"classroom"`
	Templates []string `yaml:"templates"`
}

// PlannedAssignment is a curriculum assignment with names resolved to ids.
type PlannedAssignment struct {
	Title       string
	ClassroomID uuid.UUID
	TemplateIDs []uuid.UUID
}

type Seeded struct {
	TeacherID   uuid.UUID
	Classrooms  map[string]*types.Classroom
	Students    map[string][]uuid.UUID
	Templates   map[string]*types.ContentDefinition
	Assignments []PlannedAssignment
}

func LoadCurriculum(r io.Reader) (*Curriculum, error) {
	var c Curriculum
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode curriculum: %w", err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Curriculum) check() error {
	if c.TeacherID != "" {
		if _, err := uuid.Parse(c.TeacherID); err != nil {
			return fmt.Errorf("teacher_id: %w", err)
		}
	}
	classes := map[string]bool{}
	for _, cl := range c.Classrooms {
		name := strings.TrimSpace(cl.Name)
		if name == "" || classes[name] {
			return fmt.Errorf("classroom name %q is empty or repeated", cl.Name)
		}
		if cl.Students < 0 {
			return fmt.Errorf("classroom %q: negative student count", name)
		}
		classes[name] = true
	}
	templates := map[string]bool{}
	for _, t := range c.Templates {
		title := strings.TrimSpace(t.Title)
		if title == "" || templates[title] {
			return fmt.Errorf("template title %q is empty or repeated", t.Title)
		}
		for i, it := range t.Items {
			if strings.TrimSpace(it.Text) == "" {
				return fmt.Errorf("template %q item %d: text is required", title, i)
			}
		}
		templates[title] = true
	}
	for _, a := range c.Assignments {
		if !classes[strings.TrimSpace(a.Classroom)] {
			return fmt.Errorf("assignment %q: unknown classroom %q", a.Title, a.Classroom)
		}
		if len(a.Templates) == 0 {
			return fmt.Errorf("assignment %q: no templates", a.Title)
		}
		for _, t := range a.Templates {
			if !templates[strings.TrimSpace(t)] {
				return fmt.Errorf("assignment %q: unknown template %q", a.Title, t)
			}
		}
	}
	return nil
}

// Seed writes classrooms and templates. Assignments are only resolved; the caller creates
// them through the assignment service so they get real snapshots.
func (c *Curriculum) Seed(ctx context.Context, tx *gorm.DB) (*Seeded, error) {
	teacherID := uuid.New()
	if c.TeacherID != "" {
		teacherID = uuid.MustParse(c.TeacherID)
	}
	out := &Seeded{
		TeacherID:  teacherID,
		Classrooms: map[string]*types.Classroom{},
		Students:   map[string][]uuid.UUID{},
		Templates:  map[string]*types.ContentDefinition{},
	}
	for _, cl := range c.Classrooms {
		name := strings.TrimSpace(cl.Name)
		row, students, err := Classroom(ctx, tx, teacherID, name, cl.Students)
		if err != nil {
			return nil, fmt.Errorf("classroom %q: %w", name, err)
		}
		out.Classrooms[name] = row
		out.Students[name] = students
	}
	for _, t := range c.Templates {
		title := strings.TrimSpace(t.Title)
		tmpl, _, err := Template(ctx, tx, teacherID, title, t.Items)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", title, err)
		}
		if t.Description != "" {
			if err := tx.WithContext(ctx).Model(tmpl).Update("description", t.Description).Error; err != nil {
				return nil, fmt.Errorf("template %q description: %w", title, err)
			}
		}
		out.Templates[title] = tmpl
	}
	for _, a := range c.Assignments {
		plan := PlannedAssignment{
			Title:       a.Title,
			ClassroomID: out.Classrooms[strings.TrimSpace(a.Classroom)].ID,
		}
		for _, t := range a.Templates {
			plan.TemplateIDs = append(plan.TemplateIDs, out.Templates[strings.TrimSpace(t)].ID)
		}
		out.Assignments = append(out.Assignments, plan)
	}
	return out, nil
}
