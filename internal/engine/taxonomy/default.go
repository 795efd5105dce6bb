package taxonomy

import "github.com/crimson-sun/gcingest/internal/model"

// DefaultCauses returns the built-in cause table. Order is significant: a label
// carrying several markers resolves to the earliest rule.
func DefaultCauses() []CauseRule {
	return []CauseRule{
		{Pattern: "Allocation Failure", Cause: model.CauseAllocationFailure},
		{Pattern: "G1 Evacuation Pause", Cause: model.CauseG1EvacuationPause},
		{Pattern: "GCLocker Initiated GC", Cause: model.CauseGCLocker},
		{Pattern: "System.gc()", Cause: model.CauseSystemGC},
		{Pattern: "Allocation Profiler", Cause: model.CauseAllocationProfiler},
		{Pattern: "Metadata GC Threshold", Cause: model.CauseMetadataGCThreshold},
		{Pattern: "Permanent Generation Full", Cause: model.CausePermGenerationFull},
		{Pattern: "Heap Inspection Initiated GC", Cause: model.CauseHeapInspection},
		{Pattern: "Heap Dump Initiated GC", Cause: model.CauseHeapDump},
		{Pattern: "No GC", Cause: model.CauseNoGC},
		{Pattern: "Ergonomics", Cause: model.CauseAdaptiveSizeErgonomics},
		{Pattern: "G1 Humongous Allocation", Cause: model.CauseG1HumongousAllocation},
		{Pattern: "CMS Initial Mark", Cause: model.CauseCMSInitialMark},
		{Pattern: "CMS Final Remark", Cause: model.CauseCMSFinalRemark},
		{Pattern: "Last ditch collection", Cause: model.CauseLastDitchCollection},
		{Pattern: "JvmtiEnv ForceGarbageCollection", Cause: model.CauseJVMTIEnv},
	}
}

// G1Phases returns the phase table for the region-based collector.
func G1Phases() []PhaseRule {
	return []PhaseRule{
		{Require: []string{"(initial-mark)"}, Phase: model.PhaseG1InitialMark},
		{Require: []string{"GC pause"}, AnyOf: []string{"(young)", "(mixed)"}, Phase: model.PhaseG1Copying},
		{Require: []string{"root-region-scan"}, ConcurrentOnly: true, Phase: model.PhaseG1RootRegionScanning},
		{Require: []string{"concurrent-mark"}, ConcurrentOnly: true, Phase: model.PhaseG1ConcurrentMarking},
		{Require: []string{"GC remark"}, Phase: model.PhaseG1Remark},
		{Require: []string{"concurrent-cleanup"}, ConcurrentOnly: true, Phase: model.PhaseG1Cleanup},
	}
}

// CMSPhases returns the phase table for the mark-sweep family.
func CMSPhases() []PhaseRule {
	return []PhaseRule{
		{Require: []string{"CMS-initial-mark"}, Phase: model.PhaseCMSInitialMark},
		{Require: []string{"CMS-concurrent-mark"}, ConcurrentOnly: true, Phase: model.PhaseCMSConcurrentMark},
		{Require: []string{"CMS-concurrent", "preclean"}, ConcurrentOnly: true, Phase: model.PhaseCMSConcurrentPreclean},
		{Require: []string{"CMS-remark"}, Phase: model.PhaseCMSRemark},
		{Require: []string{"CMS-concurrent-sweep"}, ConcurrentOnly: true, Phase: model.PhaseCMSConcurrentSweep},
		{Require: []string{"CMS-concurrent-reset"}, ConcurrentOnly: true, Phase: model.PhaseCMSConcurrentReset},
	}
}
