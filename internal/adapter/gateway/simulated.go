package gateway

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loopital/loopital-backend/internal/domain"
	"github.com/loopital/loopital-backend/internal/logger"
)

// Simulated is the demo payment rail. Every submission succeeds after a
// fixed latency, which is what gives the flows an observable processing step.
type Simulated struct {
	latency time.Duration
}

// NewSimulated creates a simulated gateway with the given settlement latency
func NewSimulated(latency time.Duration) *Simulated {
	return &Simulated{latency: latency}
}

// Submit waits out the configured latency, honouring ctx cancellation
func (g *Simulated) Submit(ctx context.Context, amount decimal.Decimal, method domain.PaymentMethod) error {
	timer := time.NewTimer(g.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if logger.L != nil {
		logger.L.Debug("simulated gateway settled", "amount", amount.String(), "method", method)
	}
	return nil
}
