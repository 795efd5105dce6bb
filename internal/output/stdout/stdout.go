package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/output"
)

// Output writes JSON-encoded GC events to stdout.
// It is safe for concurrent use by parallel sessions.
type Output struct {
	mu        sync.Mutex
	enc       *json.Encoder
	verbosity output.Verbosity
}

// New creates a new stdout Output with verbosity-aware field omission
// and optional pretty-printed JSON.
func New(verbosity output.Verbosity, pretty bool) *Output {
	return NewWriter(os.Stdout, verbosity, pretty)
}

// NewWriter is New with an arbitrary destination.
func NewWriter(w io.Writer, verbosity output.Verbosity, pretty bool) *Output {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc, verbosity: verbosity}
}

func (o *Output) Write(_ context.Context, event model.GCEvent) error {
	formatted := output.FormatEvent(event, o.verbosity)
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.enc.Encode(formatted); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
