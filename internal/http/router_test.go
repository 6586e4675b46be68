package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/speakwell-backend/internal/data/repos"
	"github.com/yungbote/speakwell-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/speakwell-backend/internal/http/handlers"
	httpMW "github.com/yungbote/speakwell-backend/internal/http/middleware"
	"github.com/yungbote/speakwell-backend/internal/observability"
	"github.com/yungbote/speakwell-backend/internal/platform/authtoken"
	"github.com/yungbote/speakwell-backend/internal/services"
)

const testSecret = "router-test-secret"

type apiFixture struct {
	t       *testing.T
	engine  *gin.Engine
	teacher uuid.UUID
	token   string
}

func newAPIFixture(t *testing.T) (*apiFixture, func() (classroomID, templateID uuid.UUID)) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	metrics := observability.NewMetrics()

	contentRepo := repos.NewContentDefinitionRepo(db, log)
	itemRepo := repos.NewItemDefinitionRepo(db, log)
	assignmentRepo := repos.NewAssignmentRepo(db, log)
	bindingRepo := repos.NewAssignmentBindingRepo(db, log)
	studentAssignmentRepo := repos.NewStudentAssignmentRepo(db, log)
	progressRepo := repos.NewItemProgressRepo(db, log)
	ledger := services.NewProgressLedger(log, itemRepo, contentRepo, assignmentRepo, bindingRepo, studentAssignmentRepo, progressRepo)
	assignments := services.NewAssignmentService(db, log, metrics, contentRepo, itemRepo,
		repos.NewClassroomRepo(db, log), repos.NewRosterRepo(db, log),
		assignmentRepo, bindingRepo, studentAssignmentRepo, progressRepo)
	edits := services.NewContentEditService(db, log, metrics, contentRepo, itemRepo, progressRepo, ledger)

	engine := NewRouter(RouterConfig{
		Log:               log,
		Metrics:           metrics,
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, authtoken.NewVerifier(testSecret, "")),
		AssignmentHandler: httpH.NewAssignmentHandler(assignments, ledger),
		ContentHandler:    httpH.NewContentHandler(edits),
		HealthHandler:     httpH.NewHealthHandler(nil),
		RequestTimeout:    5 * time.Second,
	})

	teacher, cls, _ := testutil.SeedTeacherClassroom(t, t.Context(), db, 2)
	tmpl, _ := testutil.SeedTemplate(t, t.Context(), db, teacher, "Greetings", "Good morning", "Good afternoon")
	token, err := authtoken.Sign(testSecret, "", teacher, authtoken.RoleTeacher, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	f := &apiFixture{t: t, engine: engine, teacher: teacher, token: token}
	return f, func() (uuid.UUID, uuid.UUID) { return cls.ID, tmpl.ID }
}

func (f *apiFixture) do(method, path string, body any, out any) int {
	f.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			f.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	if out != nil {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			f.t.Fatalf("decode %s %s (%d): %v body=%s", method, path, rec.Code, err, rec.Body.String())
		}
	}
	return rec.Code
}

type errorBody struct {
	Error struct {
		Message string         `json:"message"`
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestAssignmentLifecycleOverHTTP(t *testing.T) {
	f, ids := newAPIFixture(t)
	classroomID, templateID := ids()

	var created struct {
		Assignment services.CreateAssignmentResult `json:"assignment"`
	}
	code := f.do(nethttp.MethodPost, "/api/assignments", map[string]any{
		"classroom_id":         classroomID,
		"template_content_ids": []uuid.UUID{templateID},
		"title":                "Week 1",
	}, &created)
	if code != nethttp.StatusCreated {
		t.Fatalf("create: status=%d", code)
	}
	a := created.Assignment
	if a.StudentCount != 2 || len(a.CopyIDs) != 1 || a.ProgressRows != 4 {
		t.Fatalf("create result: %+v", a)
	}

	var edited struct {
		Content services.ContentEditResult `json:"content"`
	}
	code = f.do(nethttp.MethodPut, "/api/assignment-contents/"+a.CopyIDs[0].String()+"/items", map[string]any{
		"items":            []map[string]any{{"text": "Good morning"}, {"text": "Good night"}},
		"expected_version": 1,
	}, &edited)
	if code != nethttp.StatusOK {
		t.Fatalf("edit: status=%d", code)
	}
	if edited.Content.Mode != services.EditModeReplaced || edited.Content.Version != 2 || len(edited.Content.Items) != 2 {
		t.Fatalf("edit result: %+v", edited.Content)
	}

	var eb errorBody
	code = f.do(nethttp.MethodPut, "/api/templates/"+a.CopyIDs[0].String()+"/items", map[string]any{
		"items": []map[string]any{{"text": "x"}},
	}, &eb)
	if code != nethttp.StatusNotFound || eb.Error.Code != "not_found" {
		t.Fatalf("copy via template route: status=%d body=%+v", code, eb)
	}

	var progress struct {
		Progress services.AssignmentProgressSummary `json:"progress"`
	}
	if code = f.do(nethttp.MethodGet, "/api/assignments/"+a.AssignmentID.String()+"/progress", nil, &progress); code != nethttp.StatusOK {
		t.Fatalf("progress: status=%d", code)
	}
	if progress.Progress.Students != 2 || progress.Progress.Items != 2 {
		t.Fatalf("progress: %+v", progress.Progress)
	}

	var torn struct {
		Teardown services.TeardownResult `json:"teardown"`
	}
	if code = f.do(nethttp.MethodDelete, "/api/assignments/"+a.AssignmentID.String(), nil, &torn); code != nethttp.StatusOK {
		t.Fatalf("delete: status=%d", code)
	}
	if torn.Teardown.Deleted["content_definition"] != 1 {
		t.Fatalf("teardown: %+v", torn.Teardown)
	}
	if code = f.do(nethttp.MethodDelete, "/api/assignments/"+a.AssignmentID.String(), nil, &eb); code != nethttp.StatusNotFound {
		t.Fatalf("second delete: status=%d", code)
	}
}

func TestCreateAssignmentErrorsOverHTTP(t *testing.T) {
	f, ids := newAPIFixture(t)
	classroomID, _ := ids()

	var eb errorBody
	code := f.do(nethttp.MethodPost, "/api/assignments", map[string]any{
		"classroom_id":         classroomID,
		"template_content_ids": []uuid.UUID{},
	}, &eb)
	if code != nethttp.StatusBadRequest || eb.Error.Code != "validation_failed" {
		t.Fatalf("empty templates: status=%d body=%+v", code, eb)
	}

	code = f.do(nethttp.MethodPost, "/api/assignments", "not an object", &eb)
	if code != nethttp.StatusBadRequest {
		t.Fatalf("bad body: status=%d", code)
	}

	code = f.do(nethttp.MethodDelete, "/api/assignments/not-a-uuid", nil, &eb)
	if code != nethttp.StatusBadRequest {
		t.Fatalf("bad id: status=%d", code)
	}
}

func TestAuthRequired(t *testing.T) {
	f, _ := newAPIFixture(t)

	f.token = ""
	var eb errorBody
	if code := f.do(nethttp.MethodDelete, "/api/assignments/"+uuid.NewString(), nil, &eb); code != nethttp.StatusUnauthorized {
		t.Fatalf("no token: status=%d", code)
	}

	student, _ := authtoken.Sign(testSecret, "", uuid.New(), "student", time.Hour)
	f.token = student
	if code := f.do(nethttp.MethodDelete, "/api/assignments/"+uuid.NewString(), nil, &eb); code != nethttp.StatusForbidden {
		t.Fatalf("student token: status=%d", code)
	}

	// Health and metrics are public.
	if code := f.do(nethttp.MethodGet, "/healthcheck", nil, nil); code != nethttp.StatusOK {
		t.Fatalf("healthcheck: status=%d", code)
	}
	if code := f.do(nethttp.MethodGet, "/metrics", nil, nil); code != nethttp.StatusOK {
		t.Fatalf("metrics: status=%d", code)
	}
}
