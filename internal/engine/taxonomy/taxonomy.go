package taxonomy

import (
	"strings"

	"github.com/crimson-sun/gcingest/internal/model"
)

// CauseRule maps a label substring to a cause.
type CauseRule struct {
	Pattern string
	Cause   model.Cause
}

// PhaseRule matches a label when it contains every Require substring and, if
// AnyOf is non-empty, at least one AnyOf substring. ConcurrentOnly rules never
// match stop-the-world records.
type PhaseRule struct {
	Require        []string
	AnyOf          []string
	ConcurrentOnly bool
	Phase          model.Phase
}

func (r PhaseRule) matches(label string, concurrent bool) bool {
	if r.ConcurrentOnly && !concurrent {
		return false
	}
	for _, s := range r.Require {
		if !strings.Contains(label, s) {
			return false
		}
	}
	if len(r.AnyOf) == 0 {
		return true
	}
	for _, s := range r.AnyOf {
		if strings.Contains(label, s) {
			return true
		}
	}
	return false
}

// MatchCause returns the cause of the first rule whose pattern occurs in label,
// or CauseOther.
func MatchCause(rules []CauseRule, label string) model.Cause {
	for _, r := range rules {
		if strings.Contains(label, r.Pattern) {
			return r.Cause
		}
	}
	return model.CauseOther
}

// MatchPhase returns the phase of the first matching rule, or PhaseOther.
func MatchPhase(rules []PhaseRule, label string, concurrent bool) model.Phase {
	for _, r := range rules {
		if r.matches(label, concurrent) {
			return r.Phase
		}
	}
	return model.PhaseOther
}

// PhasesFor returns the phase table for a collector family.
func PhasesFor(f model.Family) []PhaseRule {
	if f == model.FamilyRegion {
		return G1Phases()
	}
	return CMSPhases()
}
