package ctl

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{45 * time.Second, "45s"},
		{3 * time.Minute, "3m 0s"},
		{12*time.Minute + 34*time.Second, "12m 34s"},
		{2*time.Hour + 14*time.Minute + 8*time.Second, "2h 14m 8s"},
		{0, "0s"},
	}
	for _, c := range cases {
		if got := formatDuration(c.d); got != c.want {
			t.Errorf("formatDuration(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		b    int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KB"},
		{3 << 20, "3.0 MB"},
	}
	for _, c := range cases {
		if got := formatBytes(c.b); got != c.want {
			t.Errorf("formatBytes(%d) = %q, want %q", c.b, got, c.want)
		}
	}
}

func TestFormatMHz(t *testing.T) {
	if got := formatMHz(145.88e6); got != "145.880 MHz" {
		t.Errorf("formatMHz = %q", got)
	}
	if got := formatMHz(0); got != "—" {
		t.Errorf("formatMHz(0) = %q, want em dash placeholder", got)
	}
}

func TestFormatChannelHz(t *testing.T) {
	if got := formatChannelHz(145880123); got != "145.880123 MHz" {
		t.Errorf("formatChannelHz = %q", got)
	}
}

func TestFormatPassTimeFallback(t *testing.T) {
	// Unparseable input comes back untouched rather than erroring.
	if got := formatPassTime("not-a-time"); got != "not-a-time" {
		t.Errorf("formatPassTime fallback = %q", got)
	}
}

func TestProgressBarClamps(t *testing.T) {
	// Test output is piped, so the bar renders without color codes.
	if got := progressBar(-10, 10); len([]rune(got)) != 10 {
		t.Errorf("progressBar(-10) width = %d runes", len([]rune(got)))
	}
	if got := progressBar(250, 10); len([]rune(got)) != 10 {
		t.Errorf("progressBar(250) width = %d runes", len([]rune(got)))
	}
}
