package model

// Phase is a named sub-stage of a collection cycle.
type Phase uint8

const (
	PhaseOther Phase = iota
	PhaseG1InitialMark
	PhaseG1Copying
	PhaseG1RootRegionScanning
	PhaseG1ConcurrentMarking
	PhaseG1Remark
	PhaseG1Cleanup
	PhaseCMSInitialMark
	PhaseCMSConcurrentMark
	PhaseCMSConcurrentPreclean
	PhaseCMSRemark
	PhaseCMSConcurrentSweep
	PhaseCMSConcurrentReset
)

var phaseNames = []string{
	PhaseOther:                 "OTHER",
	PhaseG1InitialMark:         "G1_INITIAL_MARK",
	PhaseG1Copying:             "G1_COPYING",
	PhaseG1RootRegionScanning:  "G1_ROOT_REGION_SCANNING",
	PhaseG1ConcurrentMarking:   "G1_CONCURRENT_MARKING",
	PhaseG1Remark:              "G1_REMARK",
	PhaseG1Cleanup:             "G1_CLEANUP",
	PhaseCMSInitialMark:        "CMS_INITIAL_MARK",
	PhaseCMSConcurrentMark:     "CMS_CONCURRENT_MARK",
	PhaseCMSConcurrentPreclean: "CMS_CONCURRENT_PRECLEAN",
	PhaseCMSRemark:             "CMS_REMARK",
	PhaseCMSConcurrentSweep:    "CMS_CONCURRENT_SWEEP",
	PhaseCMSConcurrentReset:    "CMS_CONCURRENT_RESET",
}

func (p Phase) String() string { return enumName(phaseNames, int(p), "Phase") }

// InitialMark reports whether p opens a concurrent marking cycle.
func (p Phase) InitialMark() bool {
	return p == PhaseG1InitialMark || p == PhaseCMSInitialMark
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	v, err := parseEnum(phaseNames, string(b), "Phase")
	*p = Phase(v)
	return err
}

// Cause is the condition that triggered a collection.
type Cause uint8

const (
	CauseOther Cause = iota
	CauseAllocationFailure
	CauseG1EvacuationPause
	CauseGCLocker
	CauseSystemGC
	CauseAllocationProfiler
	CauseMetadataGCThreshold
	CausePermGenerationFull
	CauseHeapInspection
	CauseHeapDump
	CauseNoGC
	CauseAdaptiveSizeErgonomics
	CauseG1HumongousAllocation
	CauseCMSInitialMark
	CauseCMSFinalRemark
	CauseLastDitchCollection
	CauseJVMTIEnv
)

var causeNames = []string{
	CauseOther:                  "OTHER",
	CauseAllocationFailure:      "ALLOCATION_FAILURE",
	CauseG1EvacuationPause:      "G1_EVACUATION_PAUSE",
	CauseGCLocker:               "GC_LOCKER",
	CauseSystemGC:               "SYSTEM_GC",
	CauseAllocationProfiler:     "ALLOCATION_PROFILER",
	CauseMetadataGCThreshold:    "METADATA_GC_THRESHOLD",
	CausePermGenerationFull:     "PERM_GENERATION_FULL",
	CauseHeapInspection:         "HEAP_INSPECTION",
	CauseHeapDump:               "HEAP_DUMP",
	CauseNoGC:                   "NO_GC",
	CauseAdaptiveSizeErgonomics: "ADAPTIVE_SIZE_ERGONOMICS",
	CauseG1HumongousAllocation:  "G1_HUMONGOUS_ALLOCATION",
	CauseCMSInitialMark:         "CMS_INITIAL_MARK",
	CauseCMSFinalRemark:         "CMS_FINAL_REMARK",
	CauseLastDitchCollection:    "LAST_DITCH_COLLECTION",
	CauseJVMTIEnv:               "JVMTI_ENV",
}

func (c Cause) String() string { return enumName(causeNames, int(c), "Cause") }

func (c Cause) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Cause) UnmarshalText(b []byte) error {
	v, err := parseEnum(causeNames, string(b), "Cause")
	*c = Cause(v)
	return err
}

// Property flags mark special event properties.
const (
	PropertyG1Mixed uint64 = 1 << iota
)

// Concurrency tells whether an event ran stop-the-world or alongside the application.
type Concurrency uint8

const (
	Serial Concurrency = iota
	Concurrent
)

var concurrencyNames = []string{Serial: "SERIAL", Concurrent: "CONCURRENT"}

func (c Concurrency) String() string { return enumName(concurrencyNames, int(c), "Concurrency") }

func (c Concurrency) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Concurrency) UnmarshalText(b []byte) error {
	v, err := parseEnum(concurrencyNames, string(b), "Concurrency")
	*c = Concurrency(v)
	return err
}

// VMEventType separates collections from other stop-the-world pauses.
type VMEventType uint8

const (
	GarbageCollection VMEventType = iota
	StopTheWorldNonGC
)

var vmEventTypeNames = []string{GarbageCollection: "GARBAGE_COLLECTION", StopTheWorldNonGC: "STW_NON_GC"}

func (t VMEventType) String() string { return enumName(vmEventTypeNames, int(t), "VMEventType") }

func (t VMEventType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *VMEventType) UnmarshalText(b []byte) error {
	v, err := parseEnum(vmEventTypeNames, string(b), "VMEventType")
	*t = VMEventType(v)
	return err
}
