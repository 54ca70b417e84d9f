// Package container binds a single resize subscription to a relative
// container element and relays every notification to its listeners.
package container

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/drake/relsize/box"
	"github.com/drake/relsize/internal/logging"
	"github.com/drake/relsize/internal/metrics"
	"github.com/drake/relsize/resize"
)

var (
	// ErrNoContainer is returned when a consumer asks for a container that
	// does not exist.
	ErrNoContainer = errors.New("no enclosing relative container")
	// ErrClosed is returned when attaching a container that was closed.
	ErrClosed = errors.New("relative container closed")
)

// Listener receives the container element on every resize notification.
// Implementations must be comparable (typically pointer receivers) since
// listeners are stored in a set keyed by identity.
type Listener interface {
	OnResize(el box.Element)
}

// Handle is the capability a container hands to its descendants.
type Handle interface {
	ID() string
	AddListener(l Listener)
	RemoveListener(l Listener)
	Element() box.Element
}

// Compile-time check that Observer implements Handle
var _ Handle = (*Observer)(nil)

// Observer owns the resize subscription for one container element.
// It is not safe for concurrent use; all calls belong on the UI goroutine.
type Observer struct {
	id        string
	src       resize.Source
	sub       *resize.Subscription
	el        box.Element
	attached  bool
	closed    bool
	listeners map[Listener]struct{}

	logger  *logging.Logger
	metrics *metrics.Metrics
}

// Option configures an Observer.
type Option func(*Observer)

// WithID sets the container ID instead of generating one.
func WithID(id string) Option {
	return func(o *Observer) { o.id = id }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Observer) { o.logger = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Observer) { o.metrics = m }
}

// New creates an unattached observer that will subscribe through src.
func New(src resize.Source, opts ...Option) *Observer {
	o := &Observer{
		src:       src,
		listeners: make(map[Listener]struct{}),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	o.logger = o.logger.WithContainer(o.id)
	return o
}

// ID returns the container identifier.
func (o *Observer) ID() string {
	return o.id
}

// Attach starts observing el. It subscribes at most once per observer:
// later calls after a successful attach do nothing. A nil element is not an
// error; the caller should retry once the element exists.
func (o *Observer) Attach(el box.Element) error {
	if o.closed {
		return fmt.Errorf("attach %s: %w", o.id, ErrClosed)
	}
	if o.attached {
		return nil
	}
	if box.IsNil(el) {
		o.logger.Debug("attach deferred, element not mounted")
		return nil
	}

	o.el = el
	o.attached = true
	o.sub = o.src.Observe(el, o.relay)
	o.metrics.SubscriptionOpened()
	o.logger.Debug("attached", "size", box.Measure(el).String())
	return nil
}

// Attached reports whether the resize subscription is live.
func (o *Observer) Attached() bool {
	return o.attached && !o.closed
}

// Closed reports whether Close was called.
func (o *Observer) Closed() bool {
	return o.closed
}

// Element returns the observed element, or nil before attachment.
func (o *Observer) Element() box.Element {
	return o.el
}

// AddListener registers l for future notifications. Adding the same
// listener twice has no additional effect.
func (o *Observer) AddListener(l Listener) {
	if l == nil || o.closed {
		return
	}
	if !reflect.TypeOf(l).Comparable() {
		o.logger.Warn("ignoring non-comparable listener", "type", fmt.Sprintf("%T", l))
		return
	}
	if _, ok := o.listeners[l]; ok {
		return
	}
	o.listeners[l] = struct{}{}
	o.metrics.ListenerAdded()
}

// RemoveListener deregisters l. Unknown listeners are ignored.
func (o *Observer) RemoveListener(l Listener) {
	if l == nil {
		return
	}
	if !reflect.TypeOf(l).Comparable() {
		return
	}
	if _, ok := o.listeners[l]; !ok {
		return
	}
	delete(o.listeners, l)
	o.metrics.ListenersRemoved(1)
}

// ListenerCount returns the number of registered listeners.
func (o *Observer) ListenerCount() int {
	return len(o.listeners)
}

// Close releases the resize subscription and drops every listener.
func (o *Observer) Close() {
	if o.closed {
		return
	}
	o.closed = true
	if o.attached {
		o.src.Unobserve(o.sub)
		o.sub = nil
		o.metrics.SubscriptionClosed()
	}
	o.metrics.ListenersRemoved(len(o.listeners))
	clear(o.listeners)
	o.logger.Debug("closed")
}

// relay is the resize callback. Each entry is dispatched on its own to a
// snapshot of the listener set; a listener removed by an earlier listener in
// the same dispatch is skipped.
func (o *Observer) relay(entries []resize.Entry) {
	for _, entry := range entries {
		if o.closed {
			return
		}

		snapshot := make([]Listener, 0, len(o.listeners))
		for l := range o.listeners {
			snapshot = append(snapshot, l)
		}
		o.metrics.Notification(len(snapshot))

		for _, l := range snapshot {
			if _, ok := o.listeners[l]; !ok {
				continue
			}
			l.OnResize(entry.Target)
		}
	}
}
