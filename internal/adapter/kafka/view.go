package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lovoo/goka"
	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/internal/core/port"
	"github.com/niksmo/craft-store/pkg/schema"
)

var _ port.OrderFinder = (*OrderView)(nil)

var ErrOrderNotFound = errors.New("order not found")

type viewGetter interface {
	Get(key string) (any, error)
}

// An OrderView reads the order ledger group table.
type OrderView struct {
	opPrefix string
	gv       *goka.View
	getter   viewGetter
}

func NewOrderView(
	seedBrokers []string, groupTable string, orderSerde Serde,
) (*OrderView, error) {
	const op = "NewOrderView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(groupTable)),
		newOrderCodec(orderSerde),
		withNonlogViewOpt(),
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &OrderView{opPrefix: "OrderView", gv: gv, getter: gv}, nil
}

// Run blocks until ctx is done or the view fails.
func (v *OrderView) Run(ctx context.Context, stopFn context.CancelFunc) {
	const op = "Run"
	log := slog.With("op", makeOp(v.opPrefix, op))

	defer stopFn()

	log.Info("running")
	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
		return
	}
	log.Info("stopped")
}

func (v *OrderView) FindOrder(
	ctx context.Context, orderID string,
) (domain.Order, error) {
	const op = "FindOrder"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, opErr(err, v.opPrefix, op)
	}

	value, err := v.getter.Get(orderID)
	if err != nil {
		return domain.Order{}, opErr(err, v.opPrefix, op)
	}

	if value == nil {
		return domain.Order{}, opErr(ErrOrderNotFound, v.opPrefix, op)
	}

	s, ok := value.(schema.OrderPlacedV1)
	if !ok {
		err := fmt.Errorf("%w: %T", ErrInvalidValueType, value)
		return domain.Order{}, opErr(err, v.opPrefix, op)
	}

	return schemaV1ToOrder(s), nil
}
