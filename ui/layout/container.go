package layout

import (
	"github.com/drake/relsize/container"
	"github.com/drake/relsize/resize"
	"github.com/drake/relsize/ui/style"
	"github.com/drake/relsize/ui/widget"
)

// RelativeContainer owns a pane and the observer that watches it. Its
// Handle is what descendants use to declare breakpoints.
type RelativeContainer struct {
	pane     *widget.Pane
	observer *container.Observer
	registry *container.Registry
	mounted  bool
}

// NewRelativeContainer creates an unmounted container. If registry is
// non-nil the container is registered under its ID while mounted.
func NewRelativeContainer(title string, src resize.Source, styles style.Styles, registry *container.Registry, opts ...container.Option) *RelativeContainer {
	obs := container.New(src, opts...)
	return &RelativeContainer{
		pane:     widget.NewPane(title, styles),
		observer: obs,
		registry: registry,
	}
}

// Name returns the display name.
func (rc *RelativeContainer) Name() string {
	if rc.pane.Title == "" {
		return "RelativeContainer"
	}
	return "RelativeContainer(" + rc.pane.Title + ")"
}

// Handle returns the capability passed to descendants.
func (rc *RelativeContainer) Handle() container.Handle {
	return rc.observer
}

// Observer returns the underlying container observer.
func (rc *RelativeContainer) Observer() *container.Observer {
	return rc.observer
}

// Pane returns the observed element.
func (rc *RelativeContainer) Pane() *widget.Pane {
	return rc.pane
}

// Mounted reports whether the container is attached.
func (rc *RelativeContainer) Mounted() bool {
	return rc.mounted
}

// Closed reports whether the container was unmounted. A closed container
// cannot be mounted again.
func (rc *RelativeContainer) Closed() bool {
	return rc.observer.Closed()
}

// Mount attaches the observer to the pane. Subsequent calls do nothing.
func (rc *RelativeContainer) Mount() error {
	if rc.mounted {
		return nil
	}
	if err := rc.observer.Attach(rc.pane); err != nil {
		return err
	}
	rc.mounted = true
	if rc.registry != nil {
		rc.registry.Register(rc.observer)
	}
	return nil
}

// Unmount releases the resize subscription and closes every child
// Observed widget.
func (rc *RelativeContainer) Unmount() {
	for _, c := range rc.pane.Children() {
		if o, ok := c.(*widget.Observed); ok {
			o.Close()
		}
	}
	rc.observer.Close()
	if rc.registry != nil {
		rc.registry.Unregister(rc.observer.ID())
	}
	rc.mounted = false
}
