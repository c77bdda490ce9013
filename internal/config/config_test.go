package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Runner.IterLimit != 30 {
		t.Errorf("expected iter limit 30, got %d", cfg.Runner.IterLimit)
	}
	if cfg.Runner.NodeLimit != 10_000 {
		t.Errorf("expected node limit 10000, got %d", cfg.Runner.NodeLimit)
	}
	if cfg.Runner.Scheduler != "backoff" {
		t.Errorf("expected scheduler 'backoff', got %q", cfg.Runner.Scheduler)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected logging level 'warn', got %q", cfg.Logging.Level)
	}
	if cfg.Features == nil {
		t.Error("expected a non-nil Features map")
	}
}

func TestToRunConfig(t *testing.T) {
	cfg := DefaultConfig()
	rc := cfg.ToRunConfig()

	if rc.IterLimit != 30 || rc.NodeLimit != 10_000 {
		t.Errorf("unexpected RunConfig limits: %+v", rc)
	}
	if _, ok := rc.Scheduler.(interface {
		ShouldRun(int, string) bool
	}); !ok {
		t.Error("expected a Scheduler to be set")
	}

	cfg.Runner.Scheduler = "simple"
	rc = cfg.ToRunConfig()
	if _, ok := rc.Scheduler.(interface{ ShouldRun(int, string) bool }); !ok {
		t.Error("expected a Scheduler to be set for the simple variant too")
	}
}

func TestManagerLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "egraft.yaml")

	doc := DefaultConfig()
	doc.Runner.IterLimit = 42
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := NewManager()
	if err := m.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := m.Get().Runner.IterLimit; got != 42 {
		t.Errorf("expected iter limit 42 after load, got %d", got)
	}
}

func TestManagerLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "egraft.yaml")

	doc := DefaultConfig()
	doc.Runner.IterLimit = -1
	data, _ := yaml.Marshal(doc)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m := NewManager()
	if err := m.Load(path); err == nil {
		t.Error("expected Load to reject a non-positive iter_limit")
	}
}

func TestManagerOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "egraft.yaml")
	data, _ := yaml.Marshal(DefaultConfig())
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	notified := make(chan *Config, 1)
	m := NewManager()
	m.OnChange(func(cfg *Config) { notified <- cfg })

	if err := m.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	select {
	case <-notified:
	case <-time.After(time.Second):
		t.Error("expected the change hook to have fired")
	}
}
