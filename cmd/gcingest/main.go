package main

import (
	"context"
	"encoding"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/gcingest/internal/config"
	"github.com/crimson-sun/gcingest/internal/logging"

	// Register connector implementations.
	_ "github.com/crimson-sun/gcingest/internal/connector/ndjson"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(&cfg).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "gcingest",
		Short: "JVM GC log ingestion",
		Long: `gcingest turns pre-parsed HotSpot GC log records into classified,
storage-ready GC events.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			logging.Init(cfg.LogJSON || cfg.HasSink(config.OutputStdout), logging.ParseLevel(cfg.LogLevel))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "emit logs as JSON on stderr")

	root.AddCommand(
		newIngestCmd(cfg),
		newSummarizeCmd(cfg),
		newFormatsCmd(),
	)
	return root
}

// textValue adapts an encoding.TextUnmarshaler to a pflag.Value.
type textValue struct {
	v interface {
		encoding.TextMarshaler
		encoding.TextUnmarshaler
	}
	typ string
}

func (t textValue) String() string {
	b, err := t.v.MarshalText()
	if err != nil {
		return ""
	}
	return string(b)
}

func (t textValue) Set(s string) error { return t.v.UnmarshalText([]byte(s)) }

func (t textValue) Type() string { return t.typ }

func logger(cmd *cobra.Command) *slog.Logger {
	return slog.Default().With("cmd", cmd.Name())
}
