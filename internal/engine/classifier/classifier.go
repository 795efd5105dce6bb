package classifier

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/crimson-sun/gcingest/internal/engine/taxonomy"
	"github.com/crimson-sun/gcingest/internal/model"
)

// Result holds the classification of a single raw record.
type Result struct {
	Generations model.GenerationSet
	Phase       model.Phase
	Cause       model.Cause
	Properties  uint64
	// Unclassified is set when a collection record could not be assigned any
	// generation. The record is still emitted with an empty set.
	Unclassified bool
}

// Classifier assigns generation, phase, cause and property flags to raw records
// by matching their labels against ordered pattern tables.
type Classifier struct {
	causes []taxonomy.CauseRule
	g1     []taxonomy.PhaseRule
	cms    []taxonomy.PhaseRule
}

// New creates a Classifier over the built-in tables.
func New() *Classifier {
	return NewWithRules(taxonomy.DefaultCauses(), taxonomy.G1Phases(), taxonomy.CMSPhases())
}

// NewWithRules creates a Classifier over custom tables.
func NewWithRules(causes []taxonomy.CauseRule, g1, cms []taxonomy.PhaseRule) *Classifier {
	return &Classifier{causes: causes, g1: g1, cms: cms}
}

// Classify is a pure function of collector and rec: repeated calls return the same Result.
// Concurrent records are expected to have a positive phase duration; the engine
// drops the others before classification.
func (c *Classifier) Classify(collector model.CollectorType, rec model.RawRecord) Result {
	res := Result{
		Phase:      c.Phase(collector, rec),
		Cause:      c.Cause(rec.Type),
		Properties: Properties(rec.Type),
	}

	switch {
	case rec.VMEvent:
		res.Generations = model.Generations(model.OtherGeneration)
	case rec.Concurrent:
		if rec.Duration > 0 {
			res.Generations = model.Generations(model.Tenured)
		}
	default:
		res.Generations = c.generations(rec)
		res.Unclassified = res.Generations.Empty()
	}
	return res
}

// Cause returns the first cause whose pattern occurs in label.
func (c *Classifier) Cause(label string) model.Cause {
	return taxonomy.MatchCause(c.causes, label)
}

// Phase matches rec against the phase table of the collector's family.
func (c *Classifier) Phase(collector model.CollectorType, rec model.RawRecord) model.Phase {
	rules := c.cms
	if collector.Family() == model.FamilyRegion {
		rules = c.g1
	}
	return taxonomy.MatchPhase(rules, rec.Type, rec.Concurrent)
}

// MetaspaceGeneration tells metaspace apart from the permanent generation by
// a case-insensitive look at the scope label.
func (c *Classifier) MetaspaceGeneration(label string) model.Generation {
	// A Caser carries state, so each call folds with its own.
	if strings.Contains(cases.Fold().String(label), "metaspace") {
		return model.Metaspace
	}
	return model.Perm
}

func (c *Classifier) generations(rec model.RawRecord) model.GenerationSet {
	switch rec.Generation {
	case model.RawYoung:
		return model.Generations(model.Young)
	case model.RawTenured:
		return model.Generations(model.Tenured)
	case model.RawPerm:
		return model.Generations(c.MetaspaceGeneration(permLabel(rec)))
	case model.RawAll:
		var s model.GenerationSet
		if rec.Young != nil {
			s = s.With(model.Young)
		}
		if rec.Tenured != nil {
			s = s.With(model.Tenured)
		}
		if rec.Perm != nil {
			s = s.With(c.MetaspaceGeneration(rec.Perm.Type))
		}
		return s
	}
	return 0
}

// Properties derives the special-property flags from a label.
func Properties(label string) uint64 {
	var p uint64
	if strings.HasSuffix(strings.TrimSpace(label), "(mixed)") {
		p |= model.PropertyG1Mixed
	}
	return p
}

func permLabel(rec model.RawRecord) string {
	if rec.Perm != nil && rec.Perm.Type != "" {
		return rec.Perm.Type
	}
	return rec.Type
}
