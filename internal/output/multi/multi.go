package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/output"
)

// Multi fans out events to several outputs, e.g. stdout plus the sqlite store.
// Each Write call delivers the event to every wrapped output in order.
// If one output fails, the remaining outputs still receive the event.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi that fans out to the given outputs. Nil entries are skipped.
func New(outputs ...output.Output) *Multi {
	m := &Multi{outputs: make([]output.Output, 0, len(outputs))}
	for _, o := range outputs {
		if o != nil {
			m.outputs = append(m.outputs, o)
		}
	}
	return m
}

// Len returns the number of wrapped outputs.
func (m *Multi) Len() int { return len(m.outputs) }

// Write delivers the event to every wrapped output and joins their errors.
func (m *Multi) Write(ctx context.Context, event model.GCEvent) error {
	var errs []error
	for i, o := range m.outputs {
		if err := o.Write(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("output %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every wrapped output, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for i, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, fmt.Errorf("output %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
