// Package main implements rcdemo, a terminal demo of relative containers:
// panes that publish their size to descendants only when a descendant's
// breakpoints change.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/drake/relsize/config"
	"github.com/drake/relsize/debug"
	"github.com/drake/relsize/internal/logging"
	"github.com/drake/relsize/internal/metrics"
	"github.com/drake/relsize/script"
)

var (
	configPath  string
	percentFlag int
	lazyFlag    bool
	metricsAddr string
	logFile     string
	logLevel    string
	initScript  string

	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rcdemo",
	Short: "Relative container demo",
	Long: `rcdemo lays out two relative containers beside a stats column and
mounts consumers that react to container breakpoints.

Keys:
  h/l, left/right  move the column edge
  a                add a probe from a Lua breakpoint expression
  d                drop the last probe
  q                quit

Examples:
  # Start with the containers taking 40% of the width
  rcdemo --percent 40

  # Delay consumers until their container is measured
  rcdemo --lazy --log-file /tmp/rcdemo.log --log-level debug

  # Expose Prometheus metrics
  rcdemo --metrics-addr 127.0.0.1:9464`,
	Version:      version,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "config file (default "+config.File()+")")
	f.IntVar(&percentFlag, "percent", 0, "container column share of the width, 10-100")
	f.BoolVar(&lazyFlag, "lazy", false, "mount consumers only after their container is measured")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	f.StringVar(&logFile, "log-file", "", "write logs to this file")
	f.StringVar(&logLevel, "log-level", "", "log level: DEBUG, INFO, WARN, ERROR")
	f.StringVar(&initScript, "init", "", "Lua script defining breakpoints (default "+config.InitFile()+")")
}

// applyFlags overrides config values with flags the user set explicitly.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("percent") {
		cfg.Demo.ContainerPercent = percentFlag
	}
	if f.Changed("lazy") {
		cfg.Demo.Lazy = lazyFlag
	}
	if f.Changed("metrics-addr") {
		cfg.Metrics.Addr = metricsAddr
	}
	if f.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if f.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	return cfg.Validate()
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logger.Close()
	logger.Info("starting", "version", version, "percent", cfg.Demo.ContainerPercent, "lazy", cfg.Demo.Lazy)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	scripts, err := loadScripts(cfg, logger)
	if err != nil {
		return err
	}
	defer scripts.Close()

	var m *metrics.Metrics
	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		m = metrics.New(reg)
		stop := serveMetrics(cfg.Metrics.Addr, reg, logger)
		defer stop()
	}

	counters := &debug.Counters{}
	monitor := debug.NewMonitor(ctx, cfg.Debug.Enabled || debug.Enabled(), counters, cfg.Debug.Interval, logger)
	monitor.Start()

	mdl, err := newModel(deps{
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		scripts:  scripts,
		counters: counters,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(mdl, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("ui: %w", err)
	}
	logger.Info("stopped")
	return nil
}

// loadScripts runs the init script, if any, then defines the configured
// breakpoint expressions in name order. Configured names win over names
// the script defined.
func loadScripts(cfg *config.Config, logger *logging.Logger) (*script.Engine, error) {
	scripts := script.NewEngine(logger)

	path := initScript
	if path == "" {
		path = config.InitFile()
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		if err := scripts.DoFile(path); err != nil {
			scripts.Close()
			return nil, fmt.Errorf("init script: %w", err)
		}
		logger.Info("init script loaded", "path", path)
	}

	names := make([]string, 0, len(cfg.Breakpoints))
	for name := range cfg.Breakpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := scripts.Define(name, cfg.Breakpoints[name]); err != nil {
			scripts.Close()
			return nil, fmt.Errorf("breakpoint %q: %w", name, err)
		}
	}
	return scripts, nil
}

// serveMetrics exposes reg on addr/metrics and returns a function that
// shuts the server down.
func serveMetrics(addr string, reg *prometheus.Registry, logger *logging.Logger) func() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	logger.Info("metrics server listening", "addr", addr, "path", "/metrics")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := e.Shutdown(ctx); err != nil {
			logger.Warn("metrics server shutdown", "error", err)
		}
	}
}
