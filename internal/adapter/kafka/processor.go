package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/lovoo/goka"
	"github.com/niksmo/craft-store/internal/core/port"
	"github.com/niksmo/craft-store/pkg/schema"
)

var _ port.OrderLedgerProcessor = (*OrderLedgerProcessor)(nil)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// An orderCodec used for serde [schema.OrderPlacedV1]
type orderCodec struct {
	serde Serde
}

func newOrderCodec(s Serde) orderCodec {
	return orderCodec{s}
}

func (c orderCodec) Encode(v any) ([]byte, error) {
	const op = "orderCodec.Encode"
	if _, ok := v.(schema.OrderPlacedV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c orderCodec) Decode(data []byte) (any, error) {
	const op = "orderCodec.Decode"
	var s schema.OrderPlacedV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

// An OrderLedgerProcessor keeps the latest record of every placed order
// in its group table, keyed by order id.
type OrderLedgerProcessor struct {
	opPrefix string
	proc     processor
}

func NewOrderLedgerProc(
	seedBrokers []string,
	inputStream string,
	groupTable string,
	orderSerde Serde,
) (*OrderLedgerProcessor, error) {
	const op = "NewOrderLedgerProc"

	p := OrderLedgerProcessor{opPrefix: "OrderLedgerProcessor"}

	codec := newOrderCodec(orderSerde)
	gg := goka.DefineGroup(goka.Group(groupTable),
		goka.Input(goka.Stream(inputStream), codec, p.processFn),
		goka.Persist(codec),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}
	return &p, nil
}

func (p *OrderLedgerProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *OrderLedgerProcessor) Close() {
	p.proc.close()
}

func (p *OrderLedgerProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"
	log := slog.With("op", makeOp(p.opPrefix, op), "orderID", ctx.Key())

	order, ok := msg.(schema.OrderPlacedV1)
	if !ok {
		log.Error("unexpected message type")
		return
	}
	ctx.SetValue(order)
	log.Info("order recorded", "total", order.Total)
}
