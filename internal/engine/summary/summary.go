package summary

import (
	"fmt"
	"time"

	"github.com/crimson-sun/gcingest/internal/model"
)

// Config controls grouping.
type Config struct {
	// Window splits a phase+cause group once an event lands further than
	// Window after the group's first event. Zero groups the whole input.
	Window time.Duration
}

// Group aggregates events sharing phase, cause and concurrency mode.
type Group struct {
	Phase       model.Phase
	Cause       model.Cause
	Concurrency model.Concurrency
	Count       int
	TotalPause  time.Duration
	MaxPause    time.Duration
	FreedKB     int64 // total heap reduction over the group, kilobytes
	First       time.Time
	Last        time.Time
}

// Key returns the grouping key, e.g. "G1_COPYING/G1_EVACUATION_PAUSE".
func (g Group) Key() string {
	return g.Phase.String() + "/" + g.Cause.String()
}

// MeanPause is the average pause of the group.
func (g Group) MeanPause() time.Duration {
	if g.Count == 0 {
		return 0
	}
	return g.TotalPause / time.Duration(g.Count)
}

// Span describes the time covered by the group, e.g. "1m30s".
func (g Group) Span() string {
	return formatDuration(g.Last.Sub(g.First))
}

// Summarizer collapses GC events into per phase+cause groups.
type Summarizer struct {
	cfg Config
}

// New creates a Summarizer with the given config.
func New(cfg Config) *Summarizer {
	return &Summarizer{cfg: cfg}
}

// Summarize groups events in first-occurrence order.
func (s *Summarizer) Summarize(events []model.GCEvent) []Group {
	if len(events) == 0 {
		return nil
	}

	type key struct {
		phase model.Phase
		cause model.Cause
		conc  model.Concurrency
	}
	var order []*Group
	open := make(map[key]*Group)

	for _, e := range events {
		k := key{e.Phase, e.Cause, e.Concurrency}
		pause := time.Duration(e.PauseMu) * time.Microsecond

		g, exists := open[k]
		if !exists || (s.cfg.Window > 0 && e.Occurred.Sub(g.First) > s.cfg.Window) {
			// New group: either new key or outside window.
			g = &Group{Phase: e.Phase, Cause: e.Cause, Concurrency: e.Concurrency, First: e.Occurred, Last: e.Occurred}
			open[k] = g
			order = append(order, g)
		}

		g.Count++
		g.TotalPause += pause
		if pause > g.MaxPause {
			g.MaxPause = pause
		}
		g.FreedKB += e.TotalCapacity.Delta()
		if e.Occurred.After(g.Last) {
			g.Last = e.Occurred
		}
	}

	result := make([]Group, 0, len(order))
	for _, g := range order {
		result = append(result, *g)
	}
	return result
}

// formatDuration produces a human-readable short duration string.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	return fmt.Sprintf("%dm%ds", mins, secs)
}
