package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/crimson-sun/gcingest/internal/model"
)

type eventRow struct {
	SessionID      string  `db:"session_id"`
	Date           string  `db:"date"`
	Occurred       int64   `db:"occurred"`
	ID             string  `db:"id"`
	ParentID       string  `db:"parent_id"`
	Description    string  `db:"description"`
	WrittenAt      int64   `db:"written_at"`
	VMEventType    string  `db:"vm_event_type"`
	CapacityBefore int64   `db:"capacity_before"`
	CapacityAfter  int64   `db:"capacity_after"`
	CapacityTotal  int64   `db:"capacity_total"`
	TotalBefore    int64   `db:"total_before"`
	TotalAfter     int64   `db:"total_after"`
	TotalTotal     int64   `db:"total_total"`
	JVMSeconds     float64 `db:"jvm_seconds"`
	PauseMu        int64   `db:"pause_mu"`
	DurationMu     int64   `db:"duration_mu"`
	UserTime       float64 `db:"user_time"`
	SysTime        float64 `db:"sys_time"`
	RealTime       float64 `db:"real_time"`
	Generations    uint8   `db:"generations"`
	Phase          string  `db:"phase"`
	Cause          string  `db:"cause"`
	Properties     int64   `db:"properties"`
	Concurrency    string  `db:"concurrency"`
	ByGeneration   string  `db:"capacity_by_generation"`
	Ext            string  `db:"ext"`
}

// pauseRow holds the columns read by pause-only queries.
type pauseRow struct {
	ID          string `db:"id"`
	Occurred    int64  `db:"occurred"`
	VMEventType string `db:"vm_event_type"`
	PauseMu     int64  `db:"pause_mu"`
	DurationMu  int64  `db:"duration_mu"`
	Generations uint8  `db:"generations"`
	Concurrency string `db:"concurrency"`
}

func toRow(e model.GCEvent, now time.Time) (eventRow, error) {
	var byGen string
	if len(e.CapacityByGeneration) > 0 {
		b, err := json.Marshal(e.CapacityByGeneration)
		if err != nil {
			return eventRow{}, fmt.Errorf("encode capacity by generation: %w", err)
		}
		byGen = string(b)
	}
	return eventRow{
		SessionID:      e.SessionID,
		Date:           bucket(e.Occurred),
		Occurred:       e.Occurred.UnixMilli(),
		ID:             e.ID,
		ParentID:       e.ParentID,
		Description:    e.Description,
		WrittenAt:      now.UnixMilli(),
		VMEventType:    e.VMEventType.String(),
		CapacityBefore: e.Capacity.UsedBefore,
		CapacityAfter:  e.Capacity.UsedAfter,
		CapacityTotal:  e.Capacity.Total,
		TotalBefore:    e.TotalCapacity.UsedBefore,
		TotalAfter:     e.TotalCapacity.UsedAfter,
		TotalTotal:     e.TotalCapacity.Total,
		JVMSeconds:     e.Timestamp,
		PauseMu:        e.PauseMu,
		DurationMu:     e.DurationMu,
		UserTime:       e.User,
		SysTime:        e.Sys,
		RealTime:       e.Real,
		Generations:    uint8(e.Generations),
		Phase:          e.Phase.String(),
		Cause:          e.Cause.String(),
		Properties:     int64(e.Properties),
		Concurrency:    e.Concurrency.String(),
		ByGeneration:   byGen,
		Ext:            e.Ext,
	}, nil
}

func (r eventRow) event() (model.GCEvent, error) {
	e := model.GCEvent{
		ID:            r.ID,
		ParentID:      r.ParentID,
		SessionID:     r.SessionID,
		Occurred:      time.UnixMilli(r.Occurred).UTC(),
		Description:   r.Description,
		Capacity:      model.NewCapacity(r.CapacityBefore, r.CapacityAfter, r.CapacityTotal),
		TotalCapacity: model.NewCapacity(r.TotalBefore, r.TotalAfter, r.TotalTotal),
		Timestamp:     r.JVMSeconds,
		PauseMu:       r.PauseMu,
		DurationMu:    r.DurationMu,
		User:          r.UserTime,
		Sys:           r.SysTime,
		Real:          r.RealTime,
		Generations:   model.GenerationSet(r.Generations),
		Properties:    uint64(r.Properties),
		Ext:           r.Ext,
	}
	if err := e.VMEventType.UnmarshalText([]byte(r.VMEventType)); err != nil {
		return model.GCEvent{}, err
	}
	if err := e.Phase.UnmarshalText([]byte(r.Phase)); err != nil {
		return model.GCEvent{}, err
	}
	if err := e.Cause.UnmarshalText([]byte(r.Cause)); err != nil {
		return model.GCEvent{}, err
	}
	if err := e.Concurrency.UnmarshalText([]byte(r.Concurrency)); err != nil {
		return model.GCEvent{}, err
	}
	if r.ByGeneration != "" {
		if err := json.Unmarshal([]byte(r.ByGeneration), &e.CapacityByGeneration); err != nil {
			return model.GCEvent{}, fmt.Errorf("decode capacity by generation: %w", err)
		}
	}
	return e, nil
}

func (r pauseRow) event(sessionID string) (model.GCEvent, error) {
	e := model.GCEvent{
		ID:            r.ID,
		SessionID:     sessionID,
		Occurred:      time.UnixMilli(r.Occurred).UTC(),
		Capacity:      model.NoCapacity,
		TotalCapacity: model.NoCapacity,
		PauseMu:       r.PauseMu,
		DurationMu:    r.DurationMu,
		Generations:   model.GenerationSet(r.Generations),
	}
	if err := e.VMEventType.UnmarshalText([]byte(r.VMEventType)); err != nil {
		return model.GCEvent{}, err
	}
	if err := e.Concurrency.UnmarshalText([]byte(r.Concurrency)); err != nil {
		return model.GCEvent{}, err
	}
	return e, nil
}
