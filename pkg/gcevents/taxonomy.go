package gcevents

import "github.com/crimson-sun/gcingest/internal/engine/taxonomy"

// CauseLabel pairs a collector label marker with the cause it resolves to.
type CauseLabel struct {
	Pattern string
	Cause   string
}

// PhaseLabel describes one phase rule of a collector family.
type PhaseLabel struct {
	Require        []string
	AnyOf          []string
	ConcurrentOnly bool
	Phase          string
}

// Causes returns the cause table in match order. Labels matching none of the
// patterns classify as OTHER.
func Causes() []CauseLabel {
	rules := taxonomy.DefaultCauses()
	out := make([]CauseLabel, len(rules))
	for i, r := range rules {
		out[i] = CauseLabel{Pattern: r.Pattern, Cause: r.Cause.String()}
	}
	return out
}

// Phases returns the phase table used for c, in match order.
func Phases(c Collector) []PhaseLabel {
	rules := taxonomy.PhasesFor(c.Family())
	out := make([]PhaseLabel, len(rules))
	for i, r := range rules {
		out[i] = PhaseLabel{
			Require:        r.Require,
			AnyOf:          r.AnyOf,
			ConcurrentOnly: r.ConcurrentOnly,
			Phase:          r.Phase.String(),
		}
	}
	return out
}
