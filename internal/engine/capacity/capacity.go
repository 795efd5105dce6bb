package capacity

import (
	"github.com/crimson-sun/gcingest/internal/engine/classifier"
	"github.com/crimson-sun/gcingest/internal/model"
)

// YoungSnapshot is what the session remembers of its latest young collection.
type YoungSnapshot struct {
	Young model.Capacity // young generation figures of that event
	Total model.Capacity // whole-heap figures of that event
}

// Result holds the capacities derived for one record.
type Result struct {
	Capacity     model.Capacity
	Total        model.Capacity
	ByGeneration map[model.Generation]model.Capacity
	// Discarded is set when a back-calculated tenured capacity broke the
	// 0 <= used <= total invariant and was replaced by NoCapacity.
	Discarded bool
}

// Reconstructor derives primary, total and per-generation capacities.
type Reconstructor struct {
	classifier *classifier.Classifier
}

// New creates a Reconstructor. cls is used to tell metaspace from perm gen.
func New(cls *classifier.Classifier) *Reconstructor {
	return &Reconstructor{classifier: cls}
}

// Reconstruct computes the capacities of rec. lastYoung may be nil.
// Concurrent and VM records report no occupancy.
func (r *Reconstructor) Reconstruct(collector model.CollectorType, rec model.RawRecord, lastYoung *YoungSnapshot) Result {
	res := Result{Capacity: model.NoCapacity, Total: model.NoCapacity}
	if rec.Concurrent || rec.VMEvent {
		return res
	}

	res.Total = rec.Heap.Capacity()
	switch rec.Generation {
	case model.RawYoung:
		res.Capacity = rec.Young.Capacity()
	case model.RawTenured:
		res.Capacity = rec.Tenured.Capacity()
		if collector.Family() == model.FamilyRegion && res.Capacity.IsNone() {
			if c, ok := BackCalculateTenured(lastYoung, res.Total); ok {
				if c.Valid() {
					res.Capacity = c
				} else {
					res.Discarded = true
				}
			}
		}
	case model.RawPerm:
		res.Capacity = rec.Perm.Capacity()
	case model.RawAll:
		res.Capacity = res.Total
		res.ByGeneration = make(map[model.Generation]model.Capacity, 3)
		if rec.Young != nil {
			res.ByGeneration[model.Young] = rec.Young.Capacity()
		}
		if rec.Tenured != nil {
			res.ByGeneration[model.Tenured] = rec.Tenured.Capacity()
		}
		if rec.Perm != nil {
			res.ByGeneration[r.classifier.MetaspaceGeneration(rec.Perm.Type)] = rec.Perm.Capacity()
		}
	}
	return res
}

// BackCalculateTenured recovers tenured occupancy for a region-based collector
// record that only reports whole-heap figures. The tenured usage left by the
// last young collection is its heap usage minus its young usage; the current
// heap-wide reduction is then charged to the tenured space.
//
// It reports false when the last young snapshot or the current heap figures
// are missing.
func BackCalculateTenured(lastYoung *YoungSnapshot, total model.Capacity) (model.Capacity, bool) {
	if lastYoung == nil || lastYoung.Young.IsNone() || lastYoung.Total.IsNone() || total.IsNone() {
		return model.NoCapacity, false
	}
	yc, tyc := lastYoung.Young, lastYoung.Total

	usedBefore := tyc.UsedAfter - yc.UsedAfter
	usedAfter := usedBefore - (total.UsedBefore - total.UsedAfter)
	return model.NewCapacity(usedBefore, usedAfter, total.Total-yc.Total), true
}
