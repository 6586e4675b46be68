package aggregates

import (
	"github.com/yungbote/speakwell-backend/internal/observability"
)

// Hooks captures transaction-level observability events.
type Hooks interface {
	IncRetry(op string)
}

type noopHooks struct{}

func (noopHooks) IncRetry(string) {}

type observabilityHooks struct {
	metrics *observability.Metrics
}

// NewObservabilityHooks creates hooks backed by observability metrics.
func NewObservabilityHooks(metrics *observability.Metrics) Hooks {
	if metrics == nil {
		return noopHooks{}
	}
	return &observabilityHooks{metrics: metrics}
}

func (h *observabilityHooks) IncRetry(op string) {
	h.metrics.IncTxRetry(op)
}
