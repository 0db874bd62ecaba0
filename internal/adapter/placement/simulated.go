package placement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/internal/core/port"
)

var _ port.OrderPlacer = (*SimulatedPlacer)(nil)

const DefaultDelay = 1500 * time.Millisecond

// A SimulatedPlacer stands in for an order backend: it waits for the
// configured delay and always succeeds.
type SimulatedPlacer struct {
	delay time.Duration
}

func NewSimulatedPlacer(delay time.Duration) SimulatedPlacer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return SimulatedPlacer{delay}
}

func (p SimulatedPlacer) PlaceOrder(ctx context.Context, o domain.Order) error {
	const op = "SimulatedPlacer.PlaceOrder"
	log := slog.With("op", op, "orderID", o.ID)

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	case <-timer.C:
	}

	log.Info("MOCK order accepted", "total", o.Summary.Total)
	return nil
}
