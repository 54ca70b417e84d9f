package breakpoint

import (
	"fmt"
	"reflect"

	"github.com/drake/relsize/box"
	"github.com/drake/relsize/container"
	"github.com/drake/relsize/internal/logging"
	"github.com/drake/relsize/internal/metrics"
)

// ErrNoContainer is returned by NewEvaluator when no container handle is
// available. It matches container.ErrNoContainer under errors.Is.
var ErrNoContainer = fmt.Errorf("breakpoint evaluator: %w", container.ErrNoContainer)

// Compile-time check that Evaluator implements container.Listener
var _ container.Listener = (*Evaluator)(nil)

// Evaluator tracks one consumer's breakpoint signature and the size last
// published to it. The published size only changes when the signature does.
type Evaluator struct {
	handle      container.Handle
	breakpoints []Breakpoint
	signature   string
	published   box.Size

	lazy       bool
	onPublish  func(box.Size)
	name       string
	subscribed bool
	closed     bool

	logger  *logging.Logger
	metrics *metrics.Metrics
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// Lazy makes the consumer inactive until both container dimensions are known.
func Lazy(lazy bool) Option {
	return func(e *Evaluator) { e.lazy = lazy }
}

// OnPublish sets the function called with each newly published size.
func OnPublish(fn func(box.Size)) Option {
	return func(e *Evaluator) { e.onPublish = fn }
}

// WithName names the consumer in logs.
func WithName(name string) Option {
	return func(e *Evaluator) { e.name = name }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Evaluator) { e.metrics = m }
}

// NewEvaluator computes the initial signature and published size from the
// container's current element. The element may not be measured yet, in
// which case the published size is unmeasured. Call Subscribe to start
// receiving container notifications.
func NewEvaluator(h container.Handle, bps []Breakpoint, opts ...Option) (*Evaluator, error) {
	if h == nil || (reflect.ValueOf(h).Kind() == reflect.Ptr && reflect.ValueOf(h).IsNil()) {
		return nil, ErrNoContainer
	}

	e := &Evaluator{
		handle:      h,
		breakpoints: append([]Breakpoint(nil), bps...),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithContainer(h.ID()).WithConsumer(e.name)

	initial := box.Measure(h.Element())
	e.signature = Signature(e.breakpoints, initial)
	e.published = initial
	return e, nil
}

// Subscribe registers with the container and re-evaluates once against the
// current element, which covers a container measured before this consumer
// existed. Calling it again does nothing.
func (e *Evaluator) Subscribe() {
	if e.subscribed || e.closed {
		return
	}
	e.subscribed = true
	e.handle.AddListener(e)
	e.Evaluate(box.Measure(e.handle.Element()))
}

// OnResize implements container.Listener.
func (e *Evaluator) OnResize(el box.Element) {
	e.Evaluate(box.Measure(el))
}

// Evaluate publishes s if its signature differs from the stored one and
// reports whether it did. The published size is the raw size, not the
// breakpoint bits.
func (e *Evaluator) Evaluate(s box.Size) bool {
	sig := Signature(e.breakpoints, s)
	if sig == e.signature {
		e.metrics.Evaluation(false)
		return false
	}

	e.logger.Debug("breakpoint crossed", "from", e.signature, "to", sig, "size", s.String())
	e.signature = sig
	e.published = s
	e.metrics.Evaluation(true)
	if e.onPublish != nil {
		e.onPublish(s)
	}
	return true
}

// Size returns the last published size.
func (e *Evaluator) Size() box.Size {
	return e.published
}

// Signature returns the stored breakpoint signature.
func (e *Evaluator) Signature() string {
	return e.signature
}

// Lazy reports whether the consumer waits for a measured container.
func (e *Evaluator) Lazy() bool {
	return e.lazy
}

// Active reports whether the consumer should render this cycle.
func (e *Evaluator) Active() bool {
	return LazyGate(e.published, e.lazy)
}

// Name returns the consumer name.
func (e *Evaluator) Name() string {
	return e.name
}

// Close unsubscribes from the container. It is safe to call more than once.
func (e *Evaluator) Close() {
	if e.closed {
		return
	}
	e.closed = true
	if e.subscribed {
		e.handle.RemoveListener(e)
	}
}
