package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/output"
)

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "GCINGEST_"

// ErrInvalidConfig marks a configuration that parsed but cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// Output sink names accepted in Outputs.
const (
	OutputStdout = "stdout"
	OutputFile   = "file"
	OutputSQLite = "sqlite"
)

// Config holds all gcingest configuration.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogJSON  bool   `env:"LOG_JSON"`

	Connector ConnectorConfig `envPrefix:"CONNECTOR_"`
	Session   SessionConfig
	Output    OutputConfig `envPrefix:"OUTPUT_"`

	// Parallelism bounds concurrently ingested files.
	Parallelism   int           `env:"PARALLELISM" envDefault:"4"`
	MetricsAddr   string        `env:"METRICS_ADDR"`
	SummaryWindow time.Duration `env:"SUMMARY_WINDOW" envDefault:"0s"`
}

// ConnectorConfig selects the input source.
type ConnectorConfig struct {
	Provider string `env:"PROVIDER" envDefault:"ndjson"`
}

// SessionConfig describes the JVM that wrote the logs.
type SessionConfig struct {
	Collector  model.CollectorType `env:"COLLECTOR" envDefault:"G1"`
	VMVersion  model.VMVersion     `env:"VM_VERSION" envDefault:"1.8"`
	JVMStart   string              `env:"JVM_START"` // RFC 3339; empty means now
	LinkCycles bool                `env:"LINK_CYCLES"`
}

// OutputConfig holds output destination settings.
type OutputConfig struct {
	Sinks       []string         `env:"SINKS" envDefault:"stdout" envSeparator:","`
	Verbosity   output.Verbosity `env:"VERBOSITY" envDefault:"standard"`
	Pretty      bool             `env:"PRETTY"`
	FilePath    string           `env:"FILE_PATH" envDefault:"gc-events.jsonl"`
	FileMaxSize int64            `env:"FILE_MAX_SIZE" envDefault:"0"`
	SQLitePath  string           `env:"SQLITE_PATH" envDefault:"gc-events.db"`
	BatchSize   int              `env:"SQLITE_BATCH_SIZE" envDefault:"500"`
	Async       bool             `env:"ASYNC"`
	AsyncBuffer int              `env:"ASYNC_BUFFER" envDefault:"1024"`
	DropOnFull  bool             `env:"ASYNC_DROP_ON_FULL"`
}

// Load reads an optional dotenv file (GCINGEST_ENV_FILE, default ".env"),
// then the GCINGEST_ environment variables. Variables already set in the
// environment win over the file.
func Load() (Config, error) {
	path := os.Getenv(EnvPrefix + "ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		if err := godotenv.Load(path); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints. Flag overrides should call it again.
func (c *Config) Validate() error {
	if c.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1, got %d", ErrInvalidConfig, c.Parallelism)
	}
	if len(c.Output.Sinks) == 0 {
		return fmt.Errorf("%w: no output sinks", ErrInvalidConfig)
	}
	for i, s := range c.Output.Sinks {
		s = strings.ToLower(strings.TrimSpace(s))
		switch s {
		case OutputStdout, OutputFile, OutputSQLite:
			c.Output.Sinks[i] = s
		default:
			return fmt.Errorf("%w: unknown output sink %q", ErrInvalidConfig, s)
		}
	}
	if c.Output.BatchSize < 1 {
		return fmt.Errorf("%w: sqlite batch size must be positive", ErrInvalidConfig)
	}
	if _, err := c.Start(); err != nil {
		return err
	}
	return nil
}

// Start returns the configured JVM start instant, or the zero time if unset.
func (c *Config) Start() (time.Time, error) {
	if c.Session.JVMStart == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, c.Session.JVMStart)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: jvm start: %w", ErrInvalidConfig, err)
	}
	return t, nil
}

// HasSink reports whether name is among the configured output sinks.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Output.Sinks {
		if s == name {
			return true
		}
	}
	return false
}
