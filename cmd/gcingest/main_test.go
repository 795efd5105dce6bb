package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crimson-sun/gcingest/internal/config"
	"github.com/crimson-sun/gcingest/internal/engine/summary"
	"github.com/crimson-sun/gcingest/internal/model"
	"github.com/crimson-sun/gcingest/internal/output"
)

const g1Log = `{"header":"Java HotSpot(TM) 64-Bit Server VM (25.92-b14)"}
{"record":{"type":"GC pause (G1 Evacuation Pause) (young)","timestamp":1.0,"pause":0.004,"generation":"young","heap":{"pre_used":1024,"post_used":512,"total":4096},"young":{"pre_used":600,"post_used":0,"total":1200}}}
{"record":{"type":"GC concurrent-mark-start","timestamp":1.1,"concurrent":true}}
{"record":{"type":"GC concurrent-mark-end","timestamp":1.2,"concurrent":true,"duration":0.05}}
{"record":{"type":"GC pause (G1 Evacuation Pause) (mixed)","timestamp":2.0,"pause":0.006,"generation":"young","heap":{"pre_used":2048,"post_used":1024,"total":4096}}}
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		LogLevel:    "error",
		Parallelism: 2,
		Connector:   config.ConnectorConfig{Provider: "ndjson"},
		Session: config.SessionConfig{
			Collector: model.CollectorG1,
			VMVersion: model.HotSpot18,
			JVMStart:  "2016-07-24T10:00:00Z",
		},
		Output: config.OutputConfig{
			Sinks:      []string{config.OutputFile},
			Verbosity:  output.Standard,
			FilePath:   filepath.Join(dir, "events.jsonl"),
			SQLitePath: filepath.Join(dir, "events.db"),
			BatchSize:  10,
		},
	}
}

func writeInput(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd(cfg)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestIngestToFile(t *testing.T) {
	cfg := testConfig(t)
	in := writeInput(t, "gc.ndjson", g1Log)

	_, stderr, err := execute(t, cfg, "ingest", "--summary", in)
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.Output.FilePath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)

	var first model.GCEvent
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, model.PhaseG1Copying, first.Phase)
	assert.Equal(t, time.Date(2016, 7, 24, 10, 0, 1, 0, time.UTC), first.Occurred.UTC())

	var last model.GCEvent
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &last))
	assert.True(t, last.HasProperty(model.PropertyG1Mixed))

	assert.Contains(t, stderr, "G1_COPYING")
	assert.Contains(t, stderr, "G1_CONCURRENT_MARKING")
}

func TestIngestThenSummarize(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Sinks = []string{config.OutputSQLite}
	in := writeInput(t, "gc.ndjson", g1Log)

	_, _, err := execute(t, cfg, "ingest", "--session-id", "jvm-1", in)
	require.NoError(t, err)

	stdout, _, err := execute(t, cfg, "summarize", "--session", "jvm-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "session jvm-1")
	assert.Contains(t, stdout, "G1_EVACUATION_PAUSE")
	assert.Contains(t, stdout, "3 events in 2 groups")
}

func TestIngestUnsupportedVersion(t *testing.T) {
	cfg := testConfig(t)
	in := writeInput(t, "gc.ndjson", g1Log)

	_, _, err := execute(t, cfg, "ingest", "--vm-version", "1.9", "--collector", "serial", in)
	require.NoError(t, err, "1.9 shares the 1.8 layout")

	_, _, err = execute(t, cfg, "ingest", "--vm-version", "11", in)
	assert.Error(t, err)
}

func TestIngestRejectsSessionIDForManyFiles(t *testing.T) {
	cfg := testConfig(t)
	_, _, err := execute(t, cfg, "ingest", "--session-id", "x", "a", "b")
	assert.Error(t, err)
}

func TestIngestMalformedInput(t *testing.T) {
	cfg := testConfig(t)
	in := writeInput(t, "bad.ndjson", "{not json\n")

	_, _, err := execute(t, cfg, "ingest", in)
	assert.Error(t, err)
}

func TestFormatsCommand(t *testing.T) {
	stdout, _, err := execute(t, testConfig(t), "formats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "SUN1_8G1")
	assert.Contains(t, stdout, "SUN1_2_2")
}

func TestFormatRows(t *testing.T) {
	rows := formatRows()
	require.Len(t, rows, int(model.HotSpot19-model.HotSpot122)+1)

	last := rows[len(rows)-1]
	assert.Equal(t, []string{"1.9", "SUN1_8", "SUN1_8", "SUN1_8", "SUN1_8G1"}, last)
	assert.Equal(t, "SUN1_5", rows[3][4], "pre-1.6 layouts ignore the collector")
}

func TestRenderSummaryEmpty(t *testing.T) {
	out := renderSummary("s", nil)
	assert.Contains(t, out, "no events")
}

func TestRenderSummary(t *testing.T) {
	at := time.Date(2016, 7, 24, 10, 0, 0, 0, time.UTC)
	out := renderSummary("s", []summary.Group{{
		Phase:      model.PhaseCMSRemark,
		Cause:      model.CauseCMSFinalRemark,
		Count:      1200,
		TotalPause: 3 * time.Second,
		MaxPause:   40 * time.Millisecond,
		FreedKB:    2048,
		First:      at,
		Last:       at.Add(90 * time.Second),
	}})
	assert.Contains(t, out, "CMS_REMARK")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "2.0 MiB")
	assert.Contains(t, out, "1m30s")
}
