package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/output"
)

// isolate points the dotenv lookup at an empty directory.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv(EnvPrefix+"ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Connector.Provider != "ndjson" {
		t.Fatalf("expected default provider 'ndjson', got %q", cfg.Connector.Provider)
	}
	if cfg.Session.Collector != model.CollectorG1 {
		t.Fatalf("expected default collector G1, got %v", cfg.Session.Collector)
	}
	if cfg.Session.VMVersion != model.HotSpot18 {
		t.Fatalf("expected default VM 1.8, got %v", cfg.Session.VMVersion)
	}
	if cfg.Output.Verbosity != output.Standard {
		t.Fatalf("expected standard verbosity, got %v", cfg.Output.Verbosity)
	}
	if len(cfg.Output.Sinks) != 1 || cfg.Output.Sinks[0] != OutputStdout {
		t.Fatalf("expected [stdout] sinks, got %v", cfg.Output.Sinks)
	}
	if cfg.Output.BatchSize != 500 {
		t.Fatalf("expected batch size 500, got %d", cfg.Output.BatchSize)
	}
	if cfg.Parallelism != 4 {
		t.Fatalf("expected parallelism 4, got %d", cfg.Parallelism)
	}
	if start, _ := cfg.Start(); !start.IsZero() {
		t.Fatalf("expected zero start, got %v", start)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("GCINGEST_COLLECTOR", "cms")
	t.Setenv("GCINGEST_VM_VERSION", "1.7")
	t.Setenv("GCINGEST_JVM_START", "2016-07-24T10:00:00+02:00")
	t.Setenv("GCINGEST_LINK_CYCLES", "true")
	t.Setenv("GCINGEST_OUTPUT_SINKS", "stdout, SQLite")
	t.Setenv("GCINGEST_OUTPUT_VERBOSITY", "minimal")
	t.Setenv("GCINGEST_OUTPUT_SQLITE_BATCH_SIZE", "50")
	t.Setenv("GCINGEST_SUMMARY_WINDOW", "30s")
	t.Setenv("GCINGEST_CONNECTOR_PROVIDER", "ndjson")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Session.Collector != model.CollectorCMS {
		t.Fatalf("collector = %v", cfg.Session.Collector)
	}
	if cfg.Session.VMVersion != model.HotSpot17 {
		t.Fatalf("vm version = %v", cfg.Session.VMVersion)
	}
	if !cfg.Session.LinkCycles {
		t.Fatal("expected LinkCycles")
	}
	if !cfg.HasSink(OutputSQLite) || !cfg.HasSink(OutputStdout) || cfg.HasSink(OutputFile) {
		t.Fatalf("unexpected sinks %v", cfg.Output.Sinks)
	}
	if cfg.Output.Verbosity != output.Minimal {
		t.Fatalf("verbosity = %v", cfg.Output.Verbosity)
	}
	if cfg.Output.BatchSize != 50 {
		t.Fatalf("batch size = %d", cfg.Output.BatchSize)
	}
	if cfg.SummaryWindow != 30*time.Second {
		t.Fatalf("summary window = %v", cfg.SummaryWindow)
	}
	start, err := cfg.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !start.Equal(time.Date(2016, 7, 24, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", start)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("GCINGEST_COLLECTOR=PARALLEL\nGCINGEST_PARALLELISM=2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvPrefix+"ENV_FILE", path)
	// Real environment wins over the file.
	t.Setenv("GCINGEST_PARALLELISM", "8")
	t.Cleanup(func() { os.Unsetenv("GCINGEST_COLLECTOR") })

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.Collector != model.CollectorParallel {
		t.Fatalf("collector = %v, want PARALLEL from dotenv", cfg.Session.Collector)
	}
	if cfg.Parallelism != 8 {
		t.Fatalf("parallelism = %d, want 8 from environment", cfg.Parallelism)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown collector", "GCINGEST_COLLECTOR", "zgc"},
		{"unknown vm", "GCINGEST_VM_VERSION", "11"},
		{"unknown sink", "GCINGEST_OUTPUT_SINKS", "kafka"},
		{"bad verbosity", "GCINGEST_OUTPUT_VERBOSITY", "loud"},
		{"zero parallelism", "GCINGEST_PARALLELISM", "0"},
		{"bad start", "GCINGEST_JVM_START", "yesterday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestValidate_InvalidConfigSentinel(t *testing.T) {
	cfg := Config{Parallelism: 1, Output: OutputConfig{BatchSize: 1}}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for empty sinks, got %v", err)
	}
}
