package timestamp

import (
	"errors"
	"time"

	"github.com/crimson-sun/gcingest/internal/model"
)

// ErrMalformedTimestamp is returned for a record carrying neither a datestamp
// nor a relative timestamp.
var ErrMalformedTimestamp = errors.New("record has neither datestamp nor timestamp")

// Normalizer turns record times into UTC instants for one parsing session.
// It caches the log's timezone on the first datestamp it sees and is not safe
// for concurrent use.
type Normalizer struct {
	start time.Time
	tz    *time.Location
}

// New creates a Normalizer for a session that started at start.
func New(start time.Time) *Normalizer {
	return &Normalizer{start: start.UTC()}
}

// Location returns the cached log timezone, or nil before the first datestamp.
func (n *Normalizer) Location() *time.Location {
	return n.tz
}

// Normalize returns the UTC instant of rec, truncated to milliseconds.
//
// A datestamp's wall-clock fields are read in the session timezone, which is
// fixed by the first datestamp of the session. A log file is assumed to use a
// single timezone throughout. Records with only a relative timestamp are
// offset from the session start.
func (n *Normalizer) Normalize(rec model.RawRecord) (time.Time, error) {
	if rec.Datestamp != nil {
		ds := *rec.Datestamp
		if n.tz == nil {
			n.tz = resolveZone(rec.Zone, ds)
		}
		local := time.Date(ds.Year(), ds.Month(), ds.Day(),
			ds.Hour(), ds.Minute(), ds.Second(), ds.Nanosecond(), n.tz)
		return local.UTC().Truncate(time.Millisecond), nil
	}
	if rec.Timestamp != nil {
		ms := int64(*rec.Timestamp * 1000)
		return n.start.Add(time.Duration(ms) * time.Millisecond), nil
	}
	return time.Time{}, ErrMalformedTimestamp
}

func resolveZone(name string, ds time.Time) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return ds.Location()
}
