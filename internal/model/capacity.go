package model

import (
	"encoding/json"
	"fmt"
)

// Capacity is a (used-before, used-after, total) heap-size triple in kilobytes.
type Capacity struct {
	UsedBefore int64 `json:"used_before"`
	UsedAfter  int64 `json:"used_after"`
	Total      int64 `json:"total"`
}

// NoCapacity marks a scope whose occupancy was not reported.
var NoCapacity = Capacity{UsedBefore: -1, UsedAfter: -1, Total: -1}

// NewCapacity builds a Capacity from reported figures.
func NewCapacity(usedBefore, usedAfter, total int64) Capacity {
	return Capacity{UsedBefore: usedBefore, UsedAfter: usedAfter, Total: total}
}

// IsNone reports whether c is the "not reported" sentinel.
func (c Capacity) IsNone() bool {
	return c == NoCapacity
}

// Valid reports whether both used figures lie within [0, Total].
// The sentinel is never valid.
func (c Capacity) Valid() bool {
	if c.IsNone() || c.Total < 0 {
		return false
	}
	return c.UsedBefore >= 0 && c.UsedBefore <= c.Total &&
		c.UsedAfter >= 0 && c.UsedAfter <= c.Total
}

// Delta returns the kilobytes freed by the collection, or 0 for the sentinel.
func (c Capacity) Delta() int64 {
	if c.IsNone() {
		return 0
	}
	return c.UsedBefore - c.UsedAfter
}

func (c Capacity) String() string {
	if c.IsNone() {
		return "none"
	}
	return fmt.Sprintf("%dK->%dK(%dK)", c.UsedBefore, c.UsedAfter, c.Total)
}

// MarshalJSON encodes the sentinel as null.
func (c Capacity) MarshalJSON() ([]byte, error) {
	if c.IsNone() {
		return []byte("null"), nil
	}
	type plain Capacity
	return json.Marshal(plain(c))
}

// UnmarshalJSON decodes null back into the sentinel.
func (c *Capacity) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = NoCapacity
		return nil
	}
	type plain Capacity
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = Capacity(p)
	return nil
}
