package aggregates

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/speakwell-backend/internal/platform/dbctx"
	"github.com/yungbote/speakwell-backend/internal/platform/logger"
)

// TxRunner provides a shared transaction boundary primitive for aggregate writes.
type TxRunner interface {
	// InTx runs fn in one transaction, re-running it from scratch after a transient failure.
	// fn must not leak state between attempts.
	InTx(ctx context.Context, op string, fn func(dbc dbctx.Context) error) error
}

type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Backoff: 25 * time.Millisecond}

type gormTxRunner struct {
	db     *gorm.DB
	log    *logger.Logger
	hooks  Hooks
	policy RetryPolicy
}

// NewGormTxRunner returns a transaction runner backed by GORM transactions.
func NewGormTxRunner(db *gorm.DB, baseLog *logger.Logger, hooks Hooks, policy RetryPolicy) TxRunner {
	if hooks == nil {
		hooks = noopHooks{}
	}
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &gormTxRunner{db: db, log: baseLog.With("component", "TxRunner"), hooks: hooks, policy: policy}
}

func (r *gormTxRunner) InTx(ctx context.Context, op string, fn func(dbc dbctx.Context) error) error {
	if fn == nil {
		return nil
	}
	if r == nil || r.db == nil {
		return errors.New("transaction runner has nil db")
	}
	base := dbctx.Context{Ctx: ctx}
	var err error
	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(base.WithTx(tx))
		})
		if err == nil || !IsRetryable(err) || attempt == r.policy.MaxAttempts {
			return err
		}
		r.hooks.IncRetry(op)
		r.log.Warn("retrying transaction", "op", op, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(r.policy.Backoff * time.Duration(attempt)):
		}
	}
	return err
}
