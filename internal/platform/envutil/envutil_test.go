package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	t.Setenv("SW_TEST_DUR", "20s")
	if got := Duration("SW_TEST_DUR", time.Second); got != 20*time.Second {
		t.Fatalf("duration string: got=%v", got)
	}
	t.Setenv("SW_TEST_DUR", "7")
	if got := Duration("SW_TEST_DUR", time.Second); got != 7*time.Second {
		t.Fatalf("bare seconds: got=%v", got)
	}
	t.Setenv("SW_TEST_DUR", "soon")
	if got := Duration("SW_TEST_DUR", time.Second); got != time.Second {
		t.Fatalf("fallback: got=%v", got)
	}
}

func TestCSVAndBool(t *testing.T) {
	t.Setenv("SW_TEST_CSV", " a, ,b ")
	got := CSV("SW_TEST_CSV", "")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("CSV: got=%v", got)
	}
	t.Setenv("SW_TEST_BOOL", "off")
	if Bool("SW_TEST_BOOL", true) {
		t.Fatal("Bool: expected false")
	}
	if Int("SW_TEST_MISSING_INT", 5) != 5 {
		t.Fatal("Int: expected default")
	}
}
