package connector

import (
	"context"
	"errors"

	"github.com/crimson-sun/gcingest/internal/model"
)

// ErrStreamRead wraps any failure to read or decode the input stream.
var ErrStreamRead = errors.New("stream read failure")

// Connector defines the interface all GC log sources must implement.
type Connector interface {
	// Read delivers entries to fn in stream order until the input is
	// exhausted, ctx is cancelled, or fn returns an error.
	Read(ctx context.Context, cfg ConnectorConfig, fn func(model.Entry) error) error
}

// ConnectorConfig holds source-specific settings.
type ConnectorConfig struct {
	Provider string
	// Path is the input location; "-" means stdin.
	Path  string
	Extra map[string]string
}
