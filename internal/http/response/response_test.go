package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/speakwell-backend/internal/platform/apierr"
)

func serve(t *testing.T, err error) (*httptest.ResponseRecorder, ErrorEnvelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	RespondAPIError(c, err)

	var env ErrorEnvelope
	if jerr := json.Unmarshal(rec.Body.Bytes(), &env); jerr != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), jerr)
	}
	return rec, env
}

func TestRespondAPIErrorUsesCode(t *testing.T) {
	err := apierr.Conflict(apierr.CodeUnsafeDelete, "would delete %q", "Good afternoon").
		WithDetails(map[string]any{"unsafe_items": []string{"x"}})
	rec, env := serve(t, err)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status: got=%d", rec.Code)
	}
	if env.Error.Code != apierr.CodeUnsafeDelete || env.Error.Details == nil {
		t.Fatalf("envelope: %+v", env)
	}
}

func TestRespondAPIErrorHidesInternalErrors(t *testing.T) {
	rec, env := serve(t, errors.New("pq: connection refused on 10.0.0.3"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got=%d", rec.Code)
	}
	if env.Error.Message != "internal error" || env.Error.Code != apierr.CodeInternalError {
		t.Fatalf("envelope: %+v", env)
	}
}

func TestRespondAPIErrorRetryable(t *testing.T) {
	_, env := serve(t, apierr.Integrity(errors.New("duplicate key")))
	if !env.Error.Retryable || env.Error.Code != apierr.CodeIntegrity {
		t.Fatalf("envelope: %+v", env)
	}
}
