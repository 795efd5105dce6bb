package model

import "time"

// RawGeneration is the generation tag the tokenizer attached to a record.
type RawGeneration string

const (
	RawYoung   RawGeneration = "young"
	RawTenured RawGeneration = "tenured"
	RawPerm    RawGeneration = "perm"
	RawAll     RawGeneration = "all"
	RawOther   RawGeneration = "other"
)

// RawCapacity holds the figures a collector printed for one scope, in kilobytes.
type RawCapacity struct {
	Type     string `json:"type,omitempty"` // scope label, e.g. "PSYoungGen", "Metaspace"
	PreUsed  int64  `json:"pre_used"`
	PostUsed int64  `json:"post_used"`
	Total    int64  `json:"total"`
}

// Capacity converts the reported figures, mapping nil to NoCapacity.
func (rc *RawCapacity) Capacity() Capacity {
	if rc == nil {
		return NoCapacity
	}
	return NewCapacity(rc.PreUsed, rc.PostUsed, rc.Total)
}

// RawRecord is one pre-tokenized pause or concurrent-phase marker.
// It is consumed read-only.
type RawRecord struct {
	Type       string        `json:"type"`
	Datestamp  *time.Time    `json:"datestamp,omitempty"`
	Zone       string        `json:"zone,omitempty"`      // IANA name of the datestamp's zone, if known
	Timestamp  *float64      `json:"timestamp,omitempty"` // seconds since JVM start
	Pause      float64       `json:"pause"`
	User       *float64      `json:"user,omitempty"`
	Sys        *float64      `json:"sys,omitempty"`
	Real       *float64      `json:"real,omitempty"`
	Generation RawGeneration `json:"generation,omitempty"`
	Heap       *RawCapacity  `json:"heap,omitempty"`
	Young      *RawCapacity  `json:"young,omitempty"`
	Tenured    *RawCapacity  `json:"tenured,omitempty"`
	Perm       *RawCapacity  `json:"perm,omitempty"`
	Concurrent bool          `json:"concurrent,omitempty"`
	Duration   float64       `json:"duration,omitempty"` // concurrent phase wall time, seconds
	VMEvent    bool          `json:"vm_event,omitempty"`
}

// Entry is one unit of tokenizer output. Exactly one field is set.
type Entry struct {
	Record   *RawRecord `json:"record,omitempty"`
	Header   string     `json:"header,omitempty"`
	Excluded string     `json:"excluded,omitempty"`
}
