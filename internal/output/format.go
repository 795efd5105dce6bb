package output

import (
	"fmt"
	"strings"

	"github.com/crimson-sun/gcingest/internal/model"
)

// Verbosity controls how much detail an output retains.
type Verbosity int

const (
	Minimal  Verbosity = iota // core classification and timing only
	Standard                  // all fields
	Full                      // all fields
)

var verbosityNames = [...]string{
	Minimal:  "minimal",
	Standard: "standard",
	Full:     "full",
}

func (v Verbosity) String() string {
	if v >= 0 && int(v) < len(verbosityNames) {
		return verbosityNames[v]
	}
	return fmt.Sprintf("Verbosity(%d)", int(v))
}

// ParseVerbosity maps "minimal", "standard" or "full" to a Verbosity.
func ParseVerbosity(s string) (Verbosity, error) {
	for i, name := range verbosityNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Verbosity(i), nil
		}
	}
	return Standard, fmt.Errorf("invalid verbosity %q (expected minimal, standard or full)", s)
}

// FormatEvent returns a copy of the event with fields stripped according to verbosity.
// At Minimal: Description, CapacityByGeneration and Ext are zeroed (omitted from JSON via omitempty).
// At Standard/Full: all fields preserved.
func FormatEvent(e model.GCEvent, verbosity Verbosity) model.GCEvent {
	if verbosity == Minimal {
		e.Description = ""
		e.CapacityByGeneration = nil
		e.Ext = ""
	}
	return e
}

func (v Verbosity) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Verbosity) UnmarshalText(b []byte) error {
	parsed, err := ParseVerbosity(string(b))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
