package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOfWrapped(t *testing.T) {
	err := fmt.Errorf("create assignment: %w", Permission("classroom %s belongs to another teacher", "c1"))
	if got := StatusOf(err); got != http.StatusForbidden {
		t.Fatalf("StatusOf: got=%d want=%d", got, http.StatusForbidden)
	}
	if !IsCode(err, CodeForbidden) {
		t.Fatalf("IsCode: expected %q", CodeForbidden)
	}
	if got := StatusOf(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("StatusOf plain: got=%d", got)
	}
}

func TestIntegrityIsRetryable(t *testing.T) {
	base := errors.New("duplicate key")
	e := Integrity(base)
	if !e.Retryable || e.Status != http.StatusConflict {
		t.Fatalf("unexpected integrity error: %+v", e)
	}
	if !errors.Is(e, base) {
		t.Fatal("integrity error should wrap the store error")
	}
}
