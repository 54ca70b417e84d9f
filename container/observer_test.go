package container

import (
	"errors"
	"testing"

	"github.com/drake/relsize/box"
	"github.com/drake/relsize/resize"
)

type rect struct{ w, h int }

func (r *rect) Width() int  { return r.w }
func (r *rect) Height() int { return r.h }

// fakeSource records subscriptions and lets tests fire callbacks directly.
type fakeSource struct {
	observed   map[*resize.Subscription]fakeSub
	observes   int
	unobserves int
}

type fakeSub struct {
	el box.Element
	cb resize.Callback
}

func newFakeSource() *fakeSource {
	return &fakeSource{observed: make(map[*resize.Subscription]fakeSub)}
}

func (f *fakeSource) Observe(el box.Element, cb resize.Callback) *resize.Subscription {
	f.observes++
	sub := &resize.Subscription{}
	f.observed[sub] = fakeSub{el: el, cb: cb}
	return sub
}

func (f *fakeSource) Unobserve(sub *resize.Subscription) {
	f.unobserves++
	delete(f.observed, sub)
}

func (f *fakeSource) fire(el box.Element) {
	for _, s := range f.observed {
		if s.el == el {
			s.cb([]resize.Entry{{Target: el, Size: box.Measure(el)}})
		}
	}
}

// recorder counts OnResize calls.
type recorder struct {
	calls int
	last  box.Element
	hook  func()
}

func (r *recorder) OnResize(el box.Element) {
	r.calls++
	r.last = el
	if r.hook != nil {
		r.hook()
	}
}

func TestObserver_AttachOnce(t *testing.T) {
	src := newFakeSource()
	o := New(src)
	el := &rect{80, 24}

	for i := 0; i < 3; i++ {
		if err := o.Attach(el); err != nil {
			t.Fatalf("Attach() error = %v", err)
		}
	}
	if err := o.Attach(&rect{1, 1}); err != nil {
		t.Fatalf("Attach() other element error = %v", err)
	}

	if src.observes != 1 {
		t.Errorf("observes = %d, want 1", src.observes)
	}
	if o.Element() != el {
		t.Error("Element() should return the first attached element")
	}
}

func TestObserver_AttachNilIsDeferred(t *testing.T) {
	src := newFakeSource()
	o := New(src)

	var typedNil *rect
	if err := o.Attach(nil); err != nil {
		t.Errorf("Attach(nil) error = %v", err)
	}
	if err := o.Attach(typedNil); err != nil {
		t.Errorf("Attach(typed nil) error = %v", err)
	}
	if o.Element() != nil {
		t.Error("Element() should be nil before a successful attach")
	}
	if src.observes != 0 {
		t.Errorf("observes = %d, want 0", src.observes)
	}

	// Retry succeeds once the element exists.
	el := &rect{10, 10}
	if err := o.Attach(el); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if !o.Attached() || src.observes != 1 {
		t.Error("retry after nil element should subscribe")
	}
}

func TestObserver_SingleSubscriptionManyListeners(t *testing.T) {
	src := newFakeSource()
	o := New(src)
	el := &rect{80, 24}
	o.Attach(el)

	const n = 5
	recs := make([]*recorder, n)
	for i := range recs {
		recs[i] = &recorder{}
		o.AddListener(recs[i])
	}

	if src.observes != 1 {
		t.Errorf("observes = %d, want 1", src.observes)
	}
	if o.ListenerCount() != n {
		t.Errorf("ListenerCount() = %d, want %d", o.ListenerCount(), n)
	}

	src.fire(el)
	for i, r := range recs {
		if r.calls != 1 || r.last != el {
			t.Errorf("listener %d: calls = %d, last = %v", i, r.calls, r.last)
		}
	}

	// Each listener is independently removable.
	o.RemoveListener(recs[2])
	src.fire(el)
	if recs[2].calls != 1 {
		t.Errorf("removed listener calls = %d, want 1", recs[2].calls)
	}
	if recs[0].calls != 2 {
		t.Errorf("remaining listener calls = %d, want 2", recs[0].calls)
	}
	if o.ListenerCount() != n-1 {
		t.Errorf("ListenerCount() = %d, want %d", o.ListenerCount(), n-1)
	}
}

func TestObserver_ListenerSetSemantics(t *testing.T) {
	src := newFakeSource()
	o := New(src)
	el := &rect{80, 24}
	o.Attach(el)

	r := &recorder{}
	o.AddListener(r)
	o.AddListener(r)
	o.AddListener(nil)

	if o.ListenerCount() != 1 {
		t.Errorf("ListenerCount() = %d, want 1", o.ListenerCount())
	}

	src.fire(el)
	if r.calls != 1 {
		t.Errorf("calls = %d, want 1", r.calls)
	}

	o.RemoveListener(&recorder{}) // never registered
	o.RemoveListener(nil)
	if o.ListenerCount() != 1 {
		t.Errorf("ListenerCount() = %d, want 1", o.ListenerCount())
	}
}

func TestObserver_SelfRemovalDuringDispatch(t *testing.T) {
	src := newFakeSource()
	o := New(src)
	el := &rect{80, 24}
	o.Attach(el)

	a := &recorder{}
	b := &recorder{}
	a.hook = func() { o.RemoveListener(a) }
	b.hook = func() { o.RemoveListener(b) }
	o.AddListener(a)
	o.AddListener(b)

	src.fire(el)
	src.fire(el)

	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d, %d; want 1, 1", a.calls, b.calls)
	}
	if o.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d, want 0", o.ListenerCount())
	}
}

func TestObserver_RemovedPeerIsSkipped(t *testing.T) {
	src := newFakeSource()
	o := New(src)
	el := &rect{80, 24}
	o.Attach(el)

	a := &recorder{}
	b := &recorder{}
	a.hook = func() { o.RemoveListener(b) }
	b.hook = func() { o.RemoveListener(a) }
	o.AddListener(a)
	o.AddListener(b)

	src.fire(el)

	// Whichever runs first removes the other before it is reached.
	if a.calls+b.calls != 1 {
		t.Errorf("total calls = %d, want 1", a.calls+b.calls)
	}
}

func TestObserver_Close(t *testing.T) {
	src := newFakeSource()
	o := New(src)
	el := &rect{80, 24}
	o.Attach(el)

	r := &recorder{}
	o.AddListener(r)

	o.Close()
	o.Close()

	if src.unobserves != 1 {
		t.Errorf("unobserves = %d, want 1", src.unobserves)
	}
	if o.ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d, want 0", o.ListenerCount())
	}
	if err := o.Attach(el); !errors.Is(err, ErrClosed) {
		t.Errorf("Attach() after Close error = %v, want ErrClosed", err)
	}

	o.AddListener(r)
	if o.ListenerCount() != 0 {
		t.Error("AddListener after Close should be ignored")
	}
}

func TestObserver_WithResizeObserver(t *testing.T) {
	src := resize.NewObserver()
	o := New(src, WithID("main"))
	el := &rect{80, 24}
	o.Attach(el)

	r := &recorder{}
	o.AddListener(r)

	src.Check()
	if r.calls != 1 {
		t.Fatalf("initial check: calls = %d, want 1", r.calls)
	}

	src.Check()
	if r.calls != 1 {
		t.Errorf("unchanged size: calls = %d, want 1", r.calls)
	}

	el.w = 100
	src.Check()
	if r.calls != 2 {
		t.Errorf("after resize: calls = %d, want 2", r.calls)
	}

	o.Close()
	if src.Len() != 0 {
		t.Errorf("resize observer Len() = %d, want 0 after Close", src.Len())
	}
	if o.ID() != "main" {
		t.Errorf("ID() = %q, want %q", o.ID(), "main")
	}
}

func TestNew_GeneratesID(t *testing.T) {
	a := New(newFakeSource())
	b := New(newFakeSource())
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("IDs should be unique and non-empty: %q, %q", a.ID(), b.ID())
	}
}

func TestObserver_SharedSourceSameElement(t *testing.T) {
	src := resize.NewObserver()
	el := &rect{80, 24}

	a := New(src, WithID("a"))
	b := New(src, WithID("b"))
	a.Attach(el)
	b.Attach(el)

	ra, rb := &recorder{}, &recorder{}
	a.AddListener(ra)
	b.AddListener(rb)

	src.Check()
	if ra.calls != 1 || rb.calls != 1 {
		t.Fatalf("initial check: a calls = %d, b calls = %d, want 1 each", ra.calls, rb.calls)
	}

	b.Close()
	el.w = 100
	src.Check()

	if ra.calls != 2 {
		t.Errorf("a calls = %d, want 2 after b closed", ra.calls)
	}
	if rb.calls != 1 {
		t.Errorf("b calls = %d, want 1 after Close", rb.calls)
	}
	if !a.Attached() || src.Len() != 1 {
		t.Errorf("a attached = %v, subscriptions = %d, want true and 1", a.Attached(), src.Len())
	}
}
