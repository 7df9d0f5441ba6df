// Package ctl implements the client-side commands for dopctl.
// It talks to a running dopplerd over HTTP and WebSocket and renders the
// results to the terminal.
package ctl

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	cyan   = "\033[36m"
	white  = "\033[37m"
)

// colorEnabled reports whether stdout is a terminal. When output is piped
// or redirected, ANSI escape codes are suppressed.
func colorEnabled() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// stateColor returns the ANSI color code appropriate for a daemon state.
func stateColor(state string) string {
	if !colorEnabled() {
		return ""
	}
	switch state {
	case "IDLE":
		return green
	case "PREDICTING":
		return yellow
	case "PLANNING":
		return blue
	case "BOOTING":
		return dim
	default:
		return white
	}
}

// colorize wraps text with an ANSI color sequence.
// Returns the text unchanged when color output is disabled.
func colorize(color, text string) string {
	if !colorEnabled() {
		return text
	}
	return color + text + reset
}

// header returns a bold section header, or plain text when color is off.
func header(title string) string {
	if colorEnabled() {
		return bold + title + reset
	}
	return title
}

// padRight pads s with spaces to reach the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// formatDuration renders a time.Duration as a compact human string like
// "2h 14m 8s" or "45s".
func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// formatBytes renders a byte count as a human-readable string.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatMHz renders a frequency in Hz as MHz with kHz precision. A zero
// frequency means the side is unused.
func formatMHz(hz float64) string {
	if hz == 0 {
		return "—"
	}
	return fmt.Sprintf("%.3f MHz", hz/1e6)
}

// formatPassTime parses an RFC3339 timestamp and returns a local time string.
func formatPassTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format("2006-01-02 15:04 MST")
}

// formatClock renders an RFC3339 timestamp as a local wall-clock time.
func formatClock(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.Local().Format("15:04:05")
}

// progressBar renders a fixed-width text progress bar for a percentage.
func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	if colorEnabled() {
		return cyan + bar + reset
	}
	return bar
}

// table accumulates rows and renders them with aligned columns.
type table struct {
	indent string
	heads  []string
	rows   [][]string
}

// newTable starts a table with the given indent prefix and column headers.
func newTable(indent string, heads ...string) *table {
	return &table{indent: indent, heads: heads}
}

// row appends one row. Extra cells beyond the header count are dropped.
func (t *table) row(cells ...string) {
	if len(cells) > len(t.heads) {
		cells = cells[:len(t.heads)]
	}
	t.rows = append(t.rows, cells)
}

// flush prints the headers, a separator, and every accumulated row with
// columns padded to the widest cell.
func (t *table) flush() {
	widths := make([]int, len(t.heads))
	for i, h := range t.heads {
		widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, c := range row {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	var b strings.Builder
	for i, h := range t.heads {
		b.WriteString(padRight(h, widths[i]+2))
	}
	fmt.Println(t.indent + colorize(dim, strings.TrimRight(b.String(), " ")))

	total := 0
	for _, w := range widths {
		total += w + 2
	}
	fmt.Println(t.indent + colorize(dim, strings.Repeat("─", total-2)))

	for _, row := range t.rows {
		b.Reset()
		for i, c := range row {
			b.WriteString(padRight(c, widths[i]+2))
		}
		fmt.Println(t.indent + strings.TrimRight(b.String(), " "))
	}
}
