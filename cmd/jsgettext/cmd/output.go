package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/corey/jsgettext/internal/app"
)

// ANSI color codes for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// palette returns the color codes, or empty strings when color is off.
type palette struct {
	reset, bold, cyan, green, yellow, gray string
}

func newPalette(color bool) palette {
	if !color {
		return palette{}
	}
	return palette{colorReset, colorBold, colorCyan, colorGreen, colorYellow, colorGray}
}

// formatSummary renders one line describing a run:
//
//	⚡ 42 messages │ 17 files (3 parsed, 14 cached) │ 12ms
func formatSummary(res *app.Result, color bool) string {
	c := newPalette(color)
	s := res.Stats

	var parts []string
	if s.Parsed > 0 {
		parts = append(parts, fmt.Sprintf("%d parsed", s.Parsed))
	}
	if s.Cached > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", s.Cached))
	}
	if s.Prefiltered > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", s.Prefiltered))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s⚡ %d messages%s │ %d files", c.bold, s.Messages, c.reset, s.Files)
	if len(parts) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintf(&sb, " │ %s%s%s", c.gray, formatDuration(res.Took), c.reset)
	if s.Failed > 0 {
		fmt.Fprintf(&sb, "\n  %s%d files failed to parse:%s %s", c.yellow, s.Failed, c.reset, strings.Join(res.Failed, ", "))
	}
	if s.Dropped > 0 {
		fmt.Fprintf(&sb, "\n  %s%d raw records left out of the catalog%s", c.yellow, s.Dropped, c.reset)
	}
	return sb.String()
}

// formatDuration rounds to a readable unit.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}
