package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/glowcart/sales-agent/internal/observability/metrics"
	"github.com/glowcart/sales-agent/internal/order"
	"github.com/glowcart/sales-agent/pkg/logging"
)

var engineTracer = otel.Tracer("salesagent.internal.conversation.engine")

// AdvisoryProvider generates a product-advice reply for a customer turn.
type AdvisoryProvider interface {
	Advise(ctx context.Context, o *order.Order, message string) (string, error)
}

// LeadArchiver captures contact details from raw customer text. Archiving is
// best effort and must never surface errors to the customer.
type LeadArchiver interface {
	Record(ctx context.Context, text string)
}

// Engine processes one customer message end to end: load the order record,
// archive any lead details, consult the advisor when appropriate, step the
// state machine, and persist the result. Messages for the same customer are
// serialized so concurrent webhook deliveries cannot race a payment request.
type Engine struct {
	store    order.Store
	machine  *order.Machine
	advisor  AdvisoryProvider
	archiver LeadArchiver
	metrics  *metrics.ConversationMetrics
	logger   *logging.Logger
	maxTurns int

	locks sync.Map // customerID -> *sync.Mutex
}

// EngineOptions bundles the engine's collaborators.
type EngineOptions struct {
	Store    order.Store
	Machine  *order.Machine
	Advisor  AdvisoryProvider
	Archiver LeadArchiver
	Metrics  *metrics.ConversationMetrics
	Logger   *logging.Logger
	// MaxTurns caps the persisted transcript length per customer.
	MaxTurns int
}

// NewEngine creates the conversation engine.
func NewEngine(opts EngineOptions) *Engine {
	if opts.Store == nil {
		panic("conversation: order store required")
	}
	if opts.Machine == nil {
		panic("conversation: order machine required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.MaxTurns <= 0 {
		opts.MaxTurns = 100
	}
	return &Engine{
		store:    opts.Store,
		machine:  opts.Machine,
		advisor:  opts.Advisor,
		archiver: opts.Archiver,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		maxTurns: opts.MaxTurns,
	}
}

// HandleMessage processes one customer turn and returns the agent's reply.
// An error means the turn could not be durably recorded and the caller
// should ask the channel to retry.
func (e *Engine) HandleMessage(ctx context.Context, customerID, text string) (string, error) {
	if customerID == "" {
		return "", errors.New("conversation: customer id required")
	}

	ctx, span := engineTracer.Start(ctx, "conversation.handle_message")
	defer span.End()
	span.SetAttributes(attribute.String("salesagent.customer_id", customerID))

	mu := e.lockFor(customerID)
	mu.Lock()
	defer mu.Unlock()

	o, err := e.store.Load(ctx, customerID)
	if errors.Is(err, order.ErrNotFound) {
		o = order.New(customerID)
	} else if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("conversation: load order: %w", err)
	}

	if e.archiver != nil {
		e.archiver.Record(ctx, text)
	}

	var advisory string
	if e.shouldAdvise(o) {
		advisory = e.advise(ctx, o, text)
	}

	prevState := o.State
	reply := e.machine.Step(ctx, o, order.Input{Message: text, Advisory: advisory})

	o.AppendTurn(order.SpeakerCustomer, text, e.maxTurns)
	o.AppendTurn(order.SpeakerAgent, reply, e.maxTurns)

	if err := e.store.Save(ctx, o); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("conversation: persist order: %w", err)
	}

	e.metrics.IncInboundTurn()
	if o.State != prevState {
		e.metrics.IncStateTransition(string(prevState), string(o.State))
		e.logger.Info("order state changed",
			"customer_id", customerID,
			"from", prevState,
			"to", o.State,
		)
	}
	return reply, nil
}

// shouldAdvise reports whether the advisor is worth consulting this turn.
// Once the order is awaiting confirmation or paid, replies are fully
// deterministic and the advisor is skipped.
func (e *Engine) shouldAdvise(o *order.Order) bool {
	if e.advisor == nil {
		return false
	}
	switch o.State {
	case order.StateNew:
		return true
	case order.StateCollectingInfo:
		return o.AmountDue <= 0
	default:
		return false
	}
}

func (e *Engine) advise(ctx context.Context, o *order.Order, text string) string {
	advisory, err := e.advisor.Advise(ctx, o, text)
	if err != nil {
		e.logger.Error("advisor unavailable",
			"customer_id", o.CustomerID,
			"error", err,
		)
		return ""
	}
	return advisory
}

func (e *Engine) lockFor(customerID string) *sync.Mutex {
	v, _ := e.locks.LoadOrStore(customerID, &sync.Mutex{})
	return v.(*sync.Mutex)
}
