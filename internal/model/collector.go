package model

// CollectorType is the garbage collector a log was produced by.
type CollectorType uint8

const (
	CollectorSerial CollectorType = iota
	CollectorParallel
	CollectorCMS
	CollectorG1
)

var collectorNames = []string{
	CollectorSerial:   "SERIAL",
	CollectorParallel: "PARALLEL",
	CollectorCMS:      "CMS",
	CollectorG1:       "G1",
}

func (c CollectorType) String() string { return enumName(collectorNames, int(c), "Collector") }

// ParseCollectorType converts a collector name ("g1", "cms", ...) to a CollectorType.
func ParseCollectorType(s string) (CollectorType, error) {
	v, err := parseEnum(collectorNames, s, "Collector")
	return CollectorType(v), err
}

func (c CollectorType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CollectorType) UnmarshalText(b []byte) error {
	v, err := ParseCollectorType(string(b))
	*c = v
	return err
}

// Family groups collectors sharing a phase vocabulary.
type Family uint8

const (
	FamilyMarkSweep Family = iota
	FamilyRegion
)

// Family returns the phase vocabulary used by c. Only G1 is region based;
// every other collector is matched against the mark-sweep table.
func (c CollectorType) Family() Family {
	if c == CollectorG1 {
		return FamilyRegion
	}
	return FamilyMarkSweep
}

// VMVersion is the HotSpot release that wrote a log.
type VMVersion uint8

const (
	HotSpot122 VMVersion = iota
	HotSpot131
	HotSpot14
	HotSpot15
	HotSpot16
	HotSpot17
	HotSpot18
	HotSpot19
)

var vmVersionNames = []string{
	HotSpot122: "1.2.2",
	HotSpot131: "1.3.1",
	HotSpot14:  "1.4",
	HotSpot15:  "1.5",
	HotSpot16:  "1.6",
	HotSpot17:  "1.7",
	HotSpot18:  "1.8",
	HotSpot19:  "1.9",
}

func (v VMVersion) String() string { return enumName(vmVersionNames, int(v), "VMVersion") }

// ParseVMVersion accepts "1.8" as well as "8" style names.
func ParseVMVersion(s string) (VMVersion, error) {
	if len(s) == 1 && s[0] >= '2' && s[0] <= '9' {
		s = "1." + s
	}
	v, err := parseEnum(vmVersionNames, s, "VMVersion")
	return VMVersion(v), err
}

func (v VMVersion) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *VMVersion) UnmarshalText(b []byte) error {
	p, err := ParseVMVersion(string(b))
	*v = p
	return err
}
