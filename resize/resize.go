// Package resize is the element-resize notification primitive: it watches
// boxes and reports them after a layout pass changes their dimensions.
package resize

import "github.com/drake/relsize/box"

// Entry describes one observed element whose box changed.
type Entry struct {
	Target box.Element
	Size   box.Size
}

// Callback receives the entries produced for one subscription during a
// single Check.
type Callback func(entries []Entry)

// Source is the minimal observe/unobserve contract containers rely on.
// Every Observe call yields its own subscription, so several subscribers
// watching the same element stay independent of each other.
type Source interface {
	Observe(el box.Element, cb Callback) *Subscription
	Unobserve(sub *Subscription)
}

// Compile-time check that Observer implements Source
var _ Source = (*Observer)(nil)

// Subscription is the token returned by Observe. The zero value is a valid
// token for Source implementations that track their own state.
type Subscription struct {
	el       box.Element
	cb       Callback
	last     box.Size
	reported bool
}

// Target returns the observed element.
func (s *Subscription) Target() box.Element {
	if s == nil {
		return nil
	}
	return s.el
}

// Observer polls its observed elements on Check and notifies subscribers
// whose element dimensions differ from the last report. It is not safe for
// concurrent use; drive it from the UI goroutine after sizes are assigned.
type Observer struct {
	subs  map[*Subscription]struct{}
	order []*Subscription
}

// NewObserver creates an empty observer.
func NewObserver() *Observer {
	return &Observer{subs: make(map[*Subscription]struct{})}
}

// Observe starts watching el and returns the subscription to pass to
// Unobserve. The next Check always reports the new subscription once, even
// if the size never changes. A nil element or callback returns nil.
func (o *Observer) Observe(el box.Element, cb Callback) *Subscription {
	if box.IsNil(el) || cb == nil {
		return nil
	}
	sub := &Subscription{el: el, cb: cb}
	o.subs[sub] = struct{}{}
	o.order = append(o.order, sub)
	return sub
}

// Unobserve cancels sub. Nil, unknown or already cancelled subscriptions
// are ignored; other subscriptions on the same element keep reporting.
func (o *Observer) Unobserve(sub *Subscription) {
	if sub == nil {
		return
	}
	if _, ok := o.subs[sub]; !ok {
		return
	}
	delete(o.subs, sub)
	for i, s := range o.order {
		if s == sub {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Disconnect cancels every subscription.
func (o *Observer) Disconnect() {
	clear(o.subs)
	o.order = nil
}

// Len returns the number of live subscriptions.
func (o *Observer) Len() int {
	return len(o.subs)
}

// Check measures every observed element and delivers an entry to each
// subscription whose size changed since its last report. Callbacks run
// synchronously in subscription order and may observe or unobserve; a
// subscription cancelled by an earlier callback in the same pass is
// skipped. Returns the number of entries delivered.
func (o *Observer) Check() int {
	type pending struct {
		sub *Subscription
		sz  box.Size
	}

	var changed []pending
	for _, sub := range o.order {
		sz := box.Measure(sub.el)
		if sub.reported && sz == sub.last {
			continue
		}
		changed = append(changed, pending{sub: sub, sz: sz})
	}

	delivered := 0
	for _, p := range changed {
		if _, ok := o.subs[p.sub]; !ok {
			continue
		}
		p.sub.last = p.sz
		p.sub.reported = true
		p.sub.cb([]Entry{{Target: p.sub.el, Size: p.sz}})
		delivered++
	}
	return delivered
}
