package widget

import (
	"github.com/drake/relsize/box"
	"github.com/drake/relsize/breakpoint"
	"github.com/drake/relsize/container"
)

// Sized is implemented by content that wants the container size injected.
type Sized interface {
	SetContainerSize(s box.Size)
}

// Named is implemented by content that has a display name.
type Named interface {
	Name() string
}

// Compile-time check that Observed implements Widget
var _ Widget = (*Observed)(nil)

// Observed wraps content so it re-renders when the enclosing relative
// container crosses one of its breakpoints. The content receives the
// published size through SetContainerSize and is hidden while the
// evaluator is inactive (lazy and container not yet measured).
type Observed struct {
	eval      *breakpoint.Evaluator
	content   Widget
	publishes int
}

// Observe wraps content with breakpoints evaluated against h. It subscribes
// immediately; call Close when the content is unmounted. The wrapper owns
// the Lazy and OnPublish options, so opts should only name the consumer or
// set its logger and metrics.
func Observe(h container.Handle, bps []breakpoint.Breakpoint, lazy bool, content Widget, opts ...breakpoint.Option) (*Observed, error) {
	o := &Observed{content: content}

	opts = append(opts, breakpoint.Lazy(lazy), breakpoint.OnPublish(o.publish))
	eval, err := breakpoint.NewEvaluator(h, bps, opts...)
	if err != nil {
		return nil, err
	}
	o.eval = eval

	o.inject(eval.Size())
	eval.Subscribe()
	return o, nil
}

func (o *Observed) publish(s box.Size) {
	o.publishes++
	o.inject(s)
}

func (o *Observed) inject(s box.Size) {
	if sized, ok := o.content.(Sized); ok {
		sized.SetContainerSize(s)
	}
}

// Name returns the display name, derived from the content's name.
func (o *Observed) Name() string {
	if n, ok := o.content.(Named); ok && n.Name() != "" {
		return "ObserveRelativeContainer(" + n.Name() + ")"
	}
	return "ObserveRelativeContainer"
}

// Size returns the last published container size.
func (o *Observed) Size() box.Size {
	return o.eval.Size()
}

// Signature returns the current breakpoint signature.
func (o *Observed) Signature() string {
	return o.eval.Signature()
}

// Active reports whether the content renders this cycle.
func (o *Observed) Active() bool {
	return o.eval.Active()
}

// Publishes returns how many sizes were published after creation.
func (o *Observed) Publishes() int {
	return o.publishes
}

// Content returns the wrapped widget.
func (o *Observed) Content() Widget {
	return o.content
}

// Close unsubscribes from the container.
func (o *Observed) Close() {
	o.eval.Close()
}

// SetSize implements Widget.
func (o *Observed) SetSize(width, height int) {
	o.content.SetSize(width, height)
}

// PreferredHeight implements Widget. Returns 0 while inactive.
func (o *Observed) PreferredHeight() int {
	if !o.Active() {
		return 0
	}
	return o.content.PreferredHeight()
}

// View implements Widget. Returns "" while inactive.
func (o *Observed) View() string {
	if !o.Active() {
		return ""
	}
	return o.content.View()
}
