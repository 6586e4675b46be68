package aggregates

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yungbote/speakwell-backend/internal/platform/apierr"
)

// IsRetryable reports whether err is a transient store failure worth re-running the transaction for.
// Typed API errors and context errors never are.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := apierr.As(err); ok {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "40001", "40P01", "55P03":
			return true // serialization/deadlock/lock_not_available
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "sqlite_busy"),
		strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "could not serialize"):
		return true
	default:
		return false
	}
}
