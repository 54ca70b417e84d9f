package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Log.Level != "INFO" {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, "INFO")
	}
	if cfg.Debug.Interval != 5*time.Second {
		t.Errorf("Debug.Interval = %v, want 5s", cfg.Debug.Interval)
	}
	if cfg.Demo.ContainerPercent != 60 {
		t.Errorf("Demo.ContainerPercent = %d, want 60", cfg.Demo.ContainerPercent)
	}
	if len(cfg.Breakpoints) != 3 {
		t.Errorf("len(Breakpoints) = %d, want 3", len(cfg.Breakpoints))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Demo.ContainerPercent != 60 {
		t.Errorf("Demo.ContainerPercent = %d, want default 60", cfg.Demo.ContainerPercent)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log:
  level: debug
debug:
  interval: 2s
demo:
  container_percent: 40
  lazy: true
breakpoints:
  tiny: "width < 20"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Debug.Interval != 2*time.Second {
		t.Errorf("Debug.Interval = %v, want 2s", cfg.Debug.Interval)
	}
	if cfg.Demo.ContainerPercent != 40 || !cfg.Demo.Lazy {
		t.Errorf("Demo = %+v, want 40%% lazy", cfg.Demo)
	}
	if cfg.Breakpoints["tiny"] != "width < 20" {
		t.Errorf("Breakpoints[tiny] = %q", cfg.Breakpoints["tiny"])
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("RELSIZE_LOG_LEVEL", "ERROR")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "ERROR" {
		t.Errorf("Log.Level = %q, want ERROR", cfg.Log.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	malformed := filepath.Join(dir, "bad.yaml")
	os.WriteFile(malformed, []byte("demo: [unclosed"), 0644)
	if _, err := Load(malformed); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}

	outOfRange := filepath.Join(dir, "range.yaml")
	os.WriteFile(outOfRange, []byte("demo:\n  container_percent: 5\n"), 0644)
	_, err := Load(outOfRange)
	if err == nil || !strings.Contains(err.Error(), "container_percent") {
		t.Errorf("Load() error = %v, want container_percent range error", err)
	}
}

func TestDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses APPDATA on windows")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := Dir(); got != filepath.Join("/tmp/xdg", "relsize") {
		t.Errorf("Dir() = %q", got)
	}
	if got := InitFile(); filepath.Base(got) != "init.lua" {
		t.Errorf("InitFile() = %q", got)
	}
}
