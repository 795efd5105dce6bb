package pipeline

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Metadata is what the log preamble says about the JVM.
type Metadata struct {
	VM          string   `json:"vm,omitempty"`           // e.g. "Java HotSpot(TM) 64-Bit Server VM (25.92-b14) ..."
	Memory      string   `json:"memory,omitempty"`       // the "Memory: ..." line
	CommandLine []string `json:"command_line,omitempty"` // JVM flags
	Headers     []string `json:"headers,omitempty"`      // every header line, in order
}

type metadataCollector struct {
	md Metadata
}

func (c *metadataCollector) add(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	c.md.Headers = append(c.md.Headers, line)
	switch {
	case strings.HasPrefix(line, "Java HotSpot"), strings.HasPrefix(line, "OpenJDK"):
		c.md.VM = line
	case strings.HasPrefix(line, "Memory:"):
		c.md.Memory = strings.TrimSpace(strings.TrimPrefix(line, "Memory:"))
	case strings.HasPrefix(line, "CommandLine flags:"):
		c.md.CommandLine = strings.Fields(strings.TrimPrefix(line, "CommandLine flags:"))
	}
}

func (c *metadataCollector) result() Metadata { return c.md }

// AgeStat is the mean tenuring-distribution occupancy of one survivor age.
type AgeStat struct {
	Age       int   `json:"age"`
	MeanBytes int64 `json:"mean_bytes"`
	Samples   int   `json:"samples"`
}

// "- age   1:    2621440 bytes,    2621440 total"
var ageLine = regexp.MustCompile(`^-\s*age\s+(\d+):\s+(\d+)\s+bytes`)

// agesCollector averages the survivor age table found in excluded lines.
type agesCollector struct {
	sum     map[int]int64
	samples map[int]int
}

func newAgesCollector() *agesCollector {
	return &agesCollector{sum: map[int]int64{}, samples: map[int]int{}}
}

// add reports whether line was a survivor age entry.
func (c *agesCollector) add(line string) bool {
	m := ageLine.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return false
	}
	age, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	bytes, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return false
	}
	c.sum[age] += bytes
	c.samples[age]++
	return true
}

func (c *agesCollector) result() []AgeStat {
	out := make([]AgeStat, 0, len(c.sum))
	for age, sum := range c.sum {
		n := c.samples[age]
		out = append(out, AgeStat{Age: age, MeanBytes: sum / int64(n), Samples: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Age < out[j].Age })
	return out
}
