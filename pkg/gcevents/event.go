package gcevents

import "github.com/crimson-sun/gcingest/internal/model"

// Event is a normalized GC event. It is never mutated after a Session builds it.
type Event = model.GCEvent

// Record is one pre-tokenized pause or concurrent-phase marker.
type Record = model.RawRecord

// Entry is one line of tokenizer output.
type Entry = model.Entry

// Capacity is a used-before / used-after / total triple in KB.
type Capacity = model.Capacity

// NoCapacity marks an absent capacity.
var NoCapacity = model.NoCapacity

// Collector identifies the garbage collector that wrote a log.
type Collector = model.CollectorType

const (
	CollectorSerial   = model.CollectorSerial
	CollectorParallel = model.CollectorParallel
	CollectorCMS      = model.CollectorCMS
	CollectorG1       = model.CollectorG1
)

// VMVersion is the HotSpot release that wrote a log.
type VMVersion = model.VMVersion

const (
	HotSpot122 = model.HotSpot122
	HotSpot131 = model.HotSpot131
	HotSpot14  = model.HotSpot14
	HotSpot15  = model.HotSpot15
	HotSpot16  = model.HotSpot16
	HotSpot17  = model.HotSpot17
	HotSpot18  = model.HotSpot18
	HotSpot19  = model.HotSpot19
)
