package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/relsize/box"
	"github.com/drake/relsize/breakpoint"
	"github.com/drake/relsize/config"
	"github.com/drake/relsize/container"
	"github.com/drake/relsize/debug"
	"github.com/drake/relsize/internal/logging"
	"github.com/drake/relsize/internal/metrics"
	"github.com/drake/relsize/resize"
	"github.com/drake/relsize/script"
	"github.com/drake/relsize/ui/layout"
	"github.com/drake/relsize/ui/style"
	"github.com/drake/relsize/ui/widget"
)

// reservedLines is the footer height: help or input, then the error line.
const reservedLines = 2

// percentStep is how far h/l move the container column edge.
const percentStep = 5

// deps are the collaborators built by main.
type deps struct {
	cfg      *config.Config
	logger   *logging.Logger
	metrics  *metrics.Metrics
	scripts  *script.Engine
	counters *debug.Counters
}

// model is the demo's Bubble Tea model. It owns two relative containers
// stacked in the left column and a stats dock on the right.
type model struct {
	deps
	styles style.Styles

	source   *resize.Observer
	layout   *layout.Engine
	registry *container.Registry
	main     *layout.RelativeContainer
	aside    *layout.RelativeContainer
	dock     *layout.Dock

	snapshot *widget.Observed
	probes   []*widget.Observed

	input    textinput.Model
	adding   bool
	errText  string
	quitting bool
}

func newModel(d deps) (*model, error) {
	styles := style.DefaultStyles()
	source := resize.NewObserver()
	registry := container.NewRegistry()

	m := &model{
		deps:     d,
		styles:   styles,
		source:   source,
		layout:   layout.NewEngine(source, d.cfg.Demo.ContainerPercent, d.logger),
		registry: registry,
		main: layout.NewRelativeContainer("main", source, styles, registry,
			container.WithLogger(d.logger), container.WithMetrics(d.metrics)),
		aside: layout.NewRelativeContainer("aside", source, styles, registry,
			container.WithLogger(d.logger), container.WithMetrics(d.metrics)),
	}
	m.layout.Add(m.main)
	m.layout.Add(m.aside)

	ti := textinput.New()
	ti.Prompt = "breakpoint> "
	ti.Placeholder = "width >= 60 and height >= 10"
	ti.CharLimit = 0
	m.input = ti

	if err := m.mountConsumers(); err != nil {
		return nil, err
	}

	m.dock = &layout.Dock{Widgets: []widget.Widget{
		widget.NewSeparator("consumers", styles),
		&statsPanel{styles: styles, lines: m.consumerLines},
		widget.NewSeparator("containers", styles),
		&statsPanel{styles: styles, lines: m.containerLines},
	}}
	return m, nil
}

// namedOr returns the script breakpoint registered under name, or fallback
// when the configuration does not define it.
func (m *model) namedOr(name string, fallback breakpoint.Breakpoint) breakpoint.Breakpoint {
	bp, err := m.scripts.Named(name)
	if err != nil {
		m.logger.Warn("breakpoint not defined, using default", "name", name)
		return fallback
	}
	return bp
}

func (m *model) observe(rc *layout.RelativeContainer, bps []breakpoint.Breakpoint, lazy bool, content widget.Widget, name string) (*widget.Observed, error) {
	o, err := widget.Observe(rc.Handle(), bps, lazy, content,
		breakpoint.WithName(name),
		breakpoint.WithLogger(m.logger),
		breakpoint.WithMetrics(m.metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("observe %s: %w", name, err)
	}
	rc.Pane().Add(o)
	return o, nil
}

// mountConsumers creates the consumers that exist from the start. They are
// created before any container is measured.
func (m *model) mountConsumers() error {
	compact := m.namedOr("compact", breakpoint.MaxWidth(49))
	regular := m.namedOr("regular", breakpoint.WidthBetween(50, 89))
	wide := m.namedOr("wide", breakpoint.MinWidth(90))

	hdr := &header{styles: m.styles, narrow: compact, wide: wide}
	if _, err := m.observe(m.main, []breakpoint.Breakpoint{compact, regular, wide}, false, hdr, hdr.Name()); err != nil {
		return err
	}

	grid := &cardGrid{
		styles: m.styles,
		cards:  []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"},
	}
	if _, err := m.observe(m.main, gridBreakpoints(), m.cfg.Demo.Lazy, grid, grid.Name()); err != nil {
		return err
	}

	lst := &listing{
		styles: m.styles,
		items:  []string{"containers", "listeners", "signatures", "publishes"},
		roomy:  breakpoint.MinWidth(20),
	}
	if _, err := m.observe(m.aside, []breakpoint.Breakpoint{lst.roomy}, m.cfg.Demo.Lazy, lst, lst.Name()); err != nil {
		return err
	}
	return nil
}

// observed returns every observed consumer in both containers.
func (m *model) observed() []*widget.Observed {
	var out []*widget.Observed
	for _, rc := range m.layout.Containers() {
		for _, c := range rc.Pane().Children() {
			if o, ok := c.(*widget.Observed); ok {
				out = append(out, o)
			}
		}
	}
	return out
}

func (m *model) consumerLines() []string {
	var lines []string
	for _, o := range m.observed() {
		state := m.styles.ConsumerActive.Render("active")
		if !o.Active() {
			state = m.styles.ConsumerIdle.Render("waiting")
		}
		sig := o.Signature()
		if sig == "" {
			sig = "∅"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s ×%d",
			o.Name(), m.styles.Signature.Render(sig), state, o.Publishes()))
	}
	return lines
}

func (m *model) containerLines() []string {
	var lines []string
	for _, rc := range m.layout.Containers() {
		lines = append(lines, fmt.Sprintf("%s %s listeners=%d",
			rc.Name(), box.Measure(rc.Pane()).String(), rc.Observer().ListenerCount()))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("column %d%%", m.layout.Percent()),
		fmt.Sprintf("compiled chunks %d", m.scripts.CacheLen()),
	)
	return lines
}

// relayout sizes everything, runs the resize pass, and refreshes counters.
func (m *model) relayout() {
	n := m.layout.Calculate(m.dock, reservedLines)
	m.ensureSnapshot()
	m.syncCounters(n)
}

// ensureSnapshot adds the breakpoint-free consumer once the main container
// has been measured. It captures that size and never updates.
func (m *model) ensureSnapshot() {
	if m.snapshot != nil || !m.main.Mounted() {
		return
	}
	o, err := m.observe(m.main, nil, false, &snapshot{styles: m.styles}, "Snapshot")
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.snapshot = o
}

func (m *model) syncCounters(entries int) {
	if m.counters == nil {
		return
	}
	m.counters.ResizeEntries.Add(int64(entries))
	m.counters.Containers.Store(int64(m.registry.Len()))

	var listeners, publishes int64
	for _, rc := range m.layout.Containers() {
		listeners += int64(rc.Observer().ListenerCount())
	}
	for _, o := range m.observed() {
		publishes += int64(o.Publishes())
	}
	m.counters.Listeners.Store(listeners)
	m.counters.Publishes.Store(publishes)
}

// addProbe compiles expr and mounts a probe consumer for it.
func (m *model) addProbe(expr string) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return
	}
	bp, err := m.scripts.Compile(expr)
	if err != nil {
		m.errText = err.Error()
		return
	}
	p := &probe{styles: m.styles, expr: expr, bp: bp}
	o, err := m.observe(m.main, []breakpoint.Breakpoint{bp}, m.cfg.Demo.Lazy, p, p.Name())
	if err != nil {
		m.errText = err.Error()
		return
	}
	m.probes = append(m.probes, o)
	m.errText = ""
	m.relayout()
}

// dropProbe unmounts the most recent probe.
func (m *model) dropProbe() {
	if len(m.probes) == 0 {
		return
	}
	last := m.probes[len(m.probes)-1]
	m.probes = m.probes[:len(m.probes)-1]
	last.Close()
	m.main.Pane().Remove(last)
	m.relayout()
}

func (m *model) shutdown() {
	for _, rc := range m.layout.Containers() {
		rc.Unmount()
	}
	m.source.Disconnect()
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.SetSize(msg.Width, msg.Height)
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		if m.adding {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.shutdown()
		return m, tea.Quit
	case "h", "left":
		m.layout.SetPercent(m.layout.Percent() - percentStep)
		m.relayout()
	case "l", "right":
		m.layout.SetPercent(m.layout.Percent() + percentStep)
		m.relayout()
	case "a":
		m.adding = true
		m.errText = ""
		return m, m.input.Focus()
	case "d":
		m.dropProbe()
	}
	return m, nil
}

func (m *model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.quitting = true
		m.shutdown()
		return m, tea.Quit
	case tea.KeyEsc:
		m.adding = false
		m.input.Blur()
		m.input.Reset()
		return m, nil
	case tea.KeyEnter:
		expr := m.input.Value()
		m.adding = false
		m.input.Blur()
		m.input.Reset()
		m.addProbe(expr)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *model) View() string {
	if m.quitting {
		return ""
	}
	if m.counters != nil {
		m.counters.Frames.Add(1)
	}

	var footer string
	if m.adding {
		footer = m.input.View()
	} else {
		footer = m.styles.Muted.Render("h/l resize · a add probe · d drop probe · q quit")
	}
	errLine := ""
	if m.errText != "" {
		errLine = m.styles.Error.Render(m.errText)
	}
	return m.layout.View(m.dock) + "\n" + footer + "\n" + errLine
}
