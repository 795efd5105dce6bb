package output

import (
	"context"

	"github.com/crimson-sun/gcingest/internal/model"
)

// Output defines the interface for GC event destinations.
type Output interface {
	Write(ctx context.Context, event model.GCEvent) error
	Close() error
}
