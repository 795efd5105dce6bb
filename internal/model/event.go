package model

import "time"

// GCEvent is the normalized, storage-ready form of one raw record.
// It is never mutated after the engine builds it.
type GCEvent struct {
	ID                   string                  `json:"id"`
	ParentID             string                  `json:"parent_id,omitempty"`
	SessionID            string                  `json:"session_id"`
	Occurred             time.Time               `json:"occurred"`
	Description          string                  `json:"description,omitempty"`
	VMEventType          VMEventType             `json:"vm_event_type"`
	Capacity             Capacity                `json:"capacity"`
	TotalCapacity        Capacity                `json:"total_capacity"`
	Timestamp            float64                 `json:"timestamp"` // seconds since JVM start
	PauseMu              int64                   `json:"pause_mu"`
	DurationMu           int64                   `json:"duration_mu"`
	User                 float64                 `json:"user"`
	Sys                  float64                 `json:"sys"`
	Real                 float64                 `json:"real"`
	Generations          GenerationSet           `json:"generations"`
	Phase                Phase                   `json:"phase"`
	Cause                Cause                   `json:"cause"`
	Properties           uint64                  `json:"properties,omitempty"`
	Concurrency          Concurrency             `json:"concurrency"`
	CapacityByGeneration map[Generation]Capacity `json:"capacity_by_generation,omitempty"`
	Ext                  string                  `json:"ext,omitempty"`
}

// HasProperty reports whether flag is set on e.
func (e GCEvent) HasProperty(flag uint64) bool {
	return e.Properties&flag != 0
}

// IsConcurrent reports whether e ran alongside application threads.
func (e GCEvent) IsConcurrent() bool {
	return e.Concurrency == Concurrent
}
