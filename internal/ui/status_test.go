package ui

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusInfo_Zero(t *testing.T) {
	// Given: zero-valued status info
	info := StatusInfo{}

	// Then: all fields are zero/empty
	assert.Empty(t, info.ProjectName)
	assert.Equal(t, 0, info.TotalMeets)
	assert.Equal(t, 0, info.TotalEntries)
	assert.True(t, info.LastBuilt.IsZero())
}

func TestStatusInfo_JSONSerialization(t *testing.T) {
	// Given: populated status info
	info := StatusInfo{
		ProjectName:    "test-federation",
		TotalMeets:     100,
		TotalEntries:   5000,
		LastBuilt:      time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		MetadataSize:   1024 * 1024,
		CacheSize:      2 * 1024 * 1024,
		SnapshotSize:   10 * 1024 * 1024,
		TotalSize:      13 * 1024 * 1024,
		SnapshotStatus: "fresh",
		CheckerStatus:  "clean",
		WatcherStatus:  "running",
	}

	// When: serializing to JSON
	data, err := json.Marshal(info)
	require.NoError(t, err)

	// Then: JSON is valid and contains expected fields
	var parsed map[string]any
	err = json.Unmarshal(data, &parsed)
	require.NoError(t, err)

	assert.Equal(t, "test-federation", parsed["project_name"])
	assert.Equal(t, float64(100), parsed["total_meets"])
	assert.Equal(t, float64(5000), parsed["total_entries"])
	assert.Equal(t, "fresh", parsed["snapshot_status"])
	assert.Equal(t, "running", parsed["watcher_status"])
}

func TestStatusRenderer_Render_Basic(t *testing.T) {
	// Given: status renderer
	buf := &bytes.Buffer{}
	r := NewStatusRenderer(buf, false)

	// When: rendering status info
	info := StatusInfo{
		ProjectName:    "my-federation",
		TotalMeets:     50,
		TotalEntries:   250,
		LastBuilt:      time.Now(),
		MetadataSize:   512 * 1024,
		CacheSize:      1024 * 1024,
		SnapshotSize:   5 * 1024 * 1024,
		TotalSize:      6*1024*1024 + 512*1024,
		SnapshotStatus: "fresh",
		CheckerStatus:  "clean",
		WatcherStatus:  "stopped",
	}

	err := r.Render(info)
	require.NoError(t, err)

	// Then: output contains key information
	output := buf.String()
	assert.Contains(t, output, "my-federation")
	assert.Contains(t, output, "50")
	assert.Contains(t, output, "250")
	assert.Contains(t, output, "fresh")
	assert.Contains(t, output, "clean")
}

func TestStatusRenderer_RenderJSON(t *testing.T) {
	// Given: status renderer
	buf := &bytes.Buffer{}
	r := NewStatusRenderer(buf, false)

	// When: rendering as JSON
	info := StatusInfo{
		ProjectName:  "json-federation",
		TotalMeets:   25,
		TotalEntries: 100,
	}

	err := r.RenderJSON(info)
	require.NoError(t, err)

	// Then: output is valid JSON
	var parsed StatusInfo
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)
	assert.Equal(t, "json-federation", parsed.ProjectName)
	assert.Equal(t, 25, parsed.TotalMeets)
}

func TestStatusRenderer_NoColor(t *testing.T) {
	// Given: status renderer with noColor
	buf := &bytes.Buffer{}
	r := NewStatusRenderer(buf, true)

	// When: rendering
	info := StatusInfo{
		ProjectName:   "nocolor-federation",
		CheckerStatus: "clean",
	}

	err := r.Render(info)
	require.NoError(t, err)

	// Then: no ANSI codes in output
	output := buf.String()
	assert.NotContains(t, output, "\x1b[")
	assert.NotContains(t, output, "\033[")
}

func TestStatusRenderer_SnapshotMissing(t *testing.T) {
	// Given: status renderer
	buf := &bytes.Buffer{}
	r := NewStatusRenderer(buf, false)

	// When: rendering with a missing snapshot
	info := StatusInfo{
		ProjectName:    "stale-federation",
		SnapshotStatus: "missing",
		CheckerStatus:  "has_errors",
	}

	err := r.Render(info)
	require.NoError(t, err)

	// Then: shows missing/error status
	output := buf.String()
	assert.Contains(t, output, "missing")
	assert.Contains(t, output, "has_errors")
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1024 * 1024, "1.0 MB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{1024 * 1024 * 1024, "1.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatBytes(tt.bytes)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestStatusRenderer_StorageSizes(t *testing.T) {
	// Given: status renderer
	buf := &bytes.Buffer{}
	r := NewStatusRenderer(buf, true) // noColor for easier assertion

	// When: rendering with storage sizes
	info := StatusInfo{
		ProjectName:  "storage-federation",
		MetadataSize: 512 * 1024,
		CacheSize:    2 * 1024 * 1024,
		SnapshotSize: 10 * 1024 * 1024,
		TotalSize:    12*1024*1024 + 512*1024,
	}

	err := r.Render(info)
	require.NoError(t, err)

	// Then: sizes are human-readable
	output := buf.String()
	assert.Contains(t, output, "KB") // Metadata size
	assert.Contains(t, output, "MB") // Snapshot size
}
