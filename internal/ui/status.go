package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// StatusInfo contains compiled-database health information.
type StatusInfo struct {
	// Database stats
	ProjectName  string    `json:"project_name"`
	TotalMeets   int       `json:"total_meets"`
	TotalEntries int       `json:"total_entries"`
	LastBuilt    time.Time `json:"last_built"`

	// Storage sizes (in bytes)
	MetadataSize int64 `json:"metadata_size"`
	CacheSize    int64 `json:"cache_size"`
	SnapshotSize int64 `json:"snapshot_size"`
	TotalSize    int64 `json:"total_size"`

	// Component status
	SnapshotStatus string `json:"snapshot_status"` // "fresh", "stale", "missing"
	CheckerStatus  string `json:"checker_status"`  // "clean", "has_errors", "has_warnings"
	WatcherStatus  string `json:"watcher_status"`  // "running", "stopped", "n/a"
}

// StatusRenderer displays index status.
type StatusRenderer struct {
	out     io.Writer
	styles  Styles
	noColor bool
}

// NewStatusRenderer creates a status renderer.
func NewStatusRenderer(out io.Writer, noColor bool) *StatusRenderer {
	return &StatusRenderer{
		out:     out,
		styles:  GetStyles(noColor),
		noColor: noColor,
	}
}

// Render displays status info to terminal.
func (r *StatusRenderer) Render(info StatusInfo) error {
	// Header
	_, _ = fmt.Fprintf(r.out, "%s\n\n", r.styles.Header.Render("Index Status: "+info.ProjectName))

	// Database stats
	_, _ = fmt.Fprintf(r.out, "  Meets:       %d\n", info.TotalMeets)
	_, _ = fmt.Fprintf(r.out, "  Entries:     %d\n", info.TotalEntries)
	if !info.LastBuilt.IsZero() {
		_, _ = fmt.Fprintf(r.out, "  Last built:  %s\n", formatTime(info.LastBuilt))
	}
	_, _ = fmt.Fprintln(r.out)

	// Storage sizes
	_, _ = fmt.Fprintln(r.out, "  Storage:")
	_, _ = fmt.Fprintf(r.out, "    Metadata: %s\n", FormatBytes(info.MetadataSize))
	_, _ = fmt.Fprintf(r.out, "    Caches:   %s\n", FormatBytes(info.CacheSize))
	_, _ = fmt.Fprintf(r.out, "    Snapshot: %s\n", FormatBytes(info.SnapshotSize))
	_, _ = fmt.Fprintf(r.out, "    Total:    %s\n", FormatBytes(info.TotalSize))
	_, _ = fmt.Fprintln(r.out)

	// Build snapshot and checker status
	_, _ = fmt.Fprintf(r.out, "  Snapshot: %s\n", r.renderStatus(info.SnapshotStatus))
	_, _ = fmt.Fprintf(r.out, "  Checker:  %s\n", r.renderStatus(info.CheckerStatus))
	_, _ = fmt.Fprintln(r.out)

	// Watcher status
	if info.WatcherStatus != "" && info.WatcherStatus != "n/a" {
		_, _ = fmt.Fprintf(r.out, "  Watcher: %s\n", r.renderStatus(info.WatcherStatus))
	}

	return nil
}

// RenderJSON outputs status as JSON.
func (r *StatusRenderer) RenderJSON(info StatusInfo) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(info)
}

// renderStatus formats a status string with color.
func (r *StatusRenderer) renderStatus(status string) string {
	switch status {
	case "fresh", "clean", "running":
		return r.styles.Success.Render(status)
	case "stale", "has_warnings", "stopped":
		return r.styles.Warning.Render(status)
	case "missing", "has_errors", "error":
		return r.styles.Error.Render(status)
	default:
		return status
	}
}

// formatTime formats a time for display.
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02 15:04")
	}
}

// FormatBytes formats bytes to human-readable format.
func FormatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
