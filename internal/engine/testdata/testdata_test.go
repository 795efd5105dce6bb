package testdata

import (
	"testing"

	"github.com/crimson-sun/gcingest/internal/model"
)

func TestLoadCorpus(t *testing.T) {
	entries, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("corpus is empty")
	}

	for i, e := range entries {
		if e.Label == "" {
			t.Errorf("entry[%d] has empty label", i)
		}
		if _, err := model.ParseCollectorType(e.Collector); err != nil {
			t.Errorf("entry[%d]: %v", i, err)
		}
		var c model.Cause
		if err := c.UnmarshalText([]byte(e.ExpectedCause)); err != nil {
			t.Errorf("entry[%d]: %v", i, err)
		}
		var p model.Phase
		if err := p.UnmarshalText([]byte(e.ExpectedPhase)); err != nil {
			t.Errorf("entry[%d]: %v", i, err)
		}
	}
}

func TestCorpusCoverage(t *testing.T) {
	entries, err := LoadCorpus()
	if err != nil {
		t.Fatalf("LoadCorpus() error: %v", err)
	}

	phases := map[string]bool{}
	causes := map[string]bool{}
	for _, e := range entries {
		phases[e.ExpectedPhase] = true
		causes[e.ExpectedCause] = true
	}

	for p := model.PhaseOther; p <= model.PhaseCMSConcurrentReset; p++ {
		if !phases[p.String()] {
			t.Errorf("no corpus entry for phase %s", p)
		}
	}
	for c := model.CauseOther; c <= model.CauseJVMTIEnv; c++ {
		if !causes[c.String()] {
			t.Errorf("no corpus entry for cause %s", c)
		}
	}
}
