package layout

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/drake/relsize/box"
	"github.com/drake/relsize/breakpoint"
	"github.com/drake/relsize/container"
	"github.com/drake/relsize/internal/logging"
	"github.com/drake/relsize/resize"
	"github.com/drake/relsize/ui/style"
	"github.com/drake/relsize/ui/widget"
)

func TestEngine_SetPercentClamps(t *testing.T) {
	e := NewEngine(resize.NewObserver(), 5, nil)
	if e.Percent() != MinPercent {
		t.Errorf("Percent() = %d, want %d", e.Percent(), MinPercent)
	}
	e.SetPercent(150)
	if e.Percent() != MaxPercent {
		t.Errorf("Percent() = %d, want %d", e.Percent(), MaxPercent)
	}
}

func TestEngine_CalculateSizesAndMounts(t *testing.T) {
	src := resize.NewObserver()
	e := NewEngine(src, 50, nil)
	styles := style.DefaultStyles()

	top := NewRelativeContainer("top", src, styles, nil)
	bottom := NewRelativeContainer("bottom", src, styles, nil)
	e.Add(top)
	e.Add(bottom)

	side := &Dock{Widgets: []widget.Widget{widget.NewSeparator("", styles)}}

	// Before the first size, nothing is mounted or observed.
	if n := e.Calculate(side, 0); n != 0 {
		t.Errorf("Calculate() before sizing = %d, want 0", n)
	}
	if top.Mounted() {
		t.Error("container should not mount before it has a size")
	}

	e.SetSize(100, 21)
	if n := e.Calculate(side, 1); n != 2 {
		t.Errorf("Calculate() = %d, want 2 initial reports", n)
	}

	if got := box.Measure(top.Pane()); got != box.Of(50, 8) {
		t.Errorf("top content = %v, want 50x8", got)
	}
	if got := box.Measure(bottom.Pane()); got != box.Of(50, 8) {
		t.Errorf("bottom content = %v, want 50x8", got)
	}
	if src.Len() != 2 {
		t.Errorf("resize subscriptions = %d, want 2", src.Len())
	}

	// Same size: no entries.
	if n := e.Calculate(side, 1); n != 0 {
		t.Errorf("Calculate() unchanged = %d, want 0", n)
	}

	e.SetPercent(80)
	if n := e.Calculate(side, 1); n != 2 {
		t.Errorf("Calculate() after percent change = %d, want 2", n)
	}
}

func TestEngine_View(t *testing.T) {
	src := resize.NewObserver()
	e := NewEngine(src, 50, nil)
	rc := NewRelativeContainer("main", src, style.DefaultStyles(), nil)
	e.Add(rc)

	side := &Dock{Widgets: []widget.Widget{widget.NewSeparator("", style.DefaultStyles())}}
	e.SetSize(40, 6)
	e.Calculate(side, 0)

	view := e.View(side)
	if !strings.Contains(view, "main") {
		t.Errorf("View() missing container title: %q", view)
	}
	if !strings.Contains(view, "─") {
		t.Errorf("View() missing dock separator: %q", view)
	}
}

func TestRelativeContainer_Lifecycle(t *testing.T) {
	src := resize.NewObserver()
	reg := container.NewRegistry()
	rc := NewRelativeContainer("main", src, style.DefaultStyles(), reg, container.WithID("main"))

	if rc.Name() != "RelativeContainer(main)" {
		t.Errorf("Name() = %q", rc.Name())
	}

	rc.Pane().SetSize(60, 10)
	if err := rc.Mount(); err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	rc.Mount()

	h, err := reg.Lookup("main")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	o, err := widget.Observe(h, []breakpoint.Breakpoint{breakpoint.MinWidth(80)}, false, widget.NewSeparator("", style.DefaultStyles()),
		breakpoint.WithName("divider"))
	if err != nil {
		t.Fatalf("Observe() error = %v", err)
	}
	rc.Pane().Add(o)

	rc.Pane().SetSize(90, 10)
	src.Check()
	if o.Publishes() != 1 {
		t.Errorf("Publishes() = %d, want 1", o.Publishes())
	}

	rc.Unmount()
	if rc.Observer().ListenerCount() != 0 {
		t.Errorf("ListenerCount() = %d, want 0 after Unmount", rc.Observer().ListenerCount())
	}
	if src.Len() != 0 {
		t.Errorf("resize subscriptions = %d, want 0 after Unmount", src.Len())
	}
	if _, err := reg.Lookup("main"); !errors.Is(err, container.ErrNoContainer) {
		t.Errorf("Lookup() after Unmount error = %v, want ErrNoContainer", err)
	}

	rc.Pane().SetSize(40, 10)
	src.Check()
	if o.Publishes() != 1 {
		t.Errorf("Publishes() = %d, want 1 after Unmount", o.Publishes())
	}
}

func TestEngine_SkipsUnmountedContainers(t *testing.T) {
	var buf bytes.Buffer
	src := resize.NewObserver()
	e := NewEngine(src, 50, logging.NewWriterLogger(&buf, logging.LevelDebug))
	rc := NewRelativeContainer("main", src, style.DefaultStyles(), nil)
	e.Add(rc)
	side := &Dock{}

	e.SetSize(80, 12)
	if n := e.Calculate(side, 0); n != 1 {
		t.Fatalf("Calculate() = %d, want 1", n)
	}

	rc.Unmount()
	if !rc.Closed() {
		t.Fatal("Closed() = false after Unmount")
	}

	e.SetSize(100, 12)
	if n := e.Calculate(side, 0); n != 0 {
		t.Errorf("Calculate() after Unmount = %d, want 0", n)
	}
	if rc.Mounted() {
		t.Error("container mounted again after Unmount")
	}
	if strings.Contains(buf.String(), "mount failed") {
		t.Errorf("closed container reported a mount failure: %s", buf.String())
	}
}
