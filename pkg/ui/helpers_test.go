package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/mattn/go-runewidth"
)

func TestFormatTimeRel(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Time{}, "unknown"},
		{now.Add(time.Hour), "now"},
		{now.Add(-30 * time.Second), "now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-2 * 24 * time.Hour), "2d ago"},
		{now.Add(-14 * 24 * time.Hour), "2w ago"},
		{now.Add(-65 * 24 * time.Hour), "2mo ago"},
	}
	for _, tt := range tests {
		if got := FormatTimeRel(tt.at, now); got != tt.want {
			t.Errorf("FormatTimeRel(%v) = %q, want %q", tt.at, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"too long", 5, "too …"},
		{"anything", 1, "…"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}

	// Wide runes count double.
	got := truncate("日本語のタイトル", 7)
	if w := runewidth.StringWidth(got); w > 7 {
		t.Errorf("truncate wide = %q (width %d)", got, w)
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("truncate wide = %q, want ellipsis", got)
	}
}

func TestSpread(t *testing.T) {
	if got := spread("left", "right", 12); got != "left   right" {
		t.Errorf("spread = %q", got)
	}
	got := spread("a very long title", "12:00", 12)
	if runewidth.StringWidth(got) != 12 || !strings.HasSuffix(got, "12:00") {
		t.Errorf("spread long = %q", got)
	}
	if got := spread("x", "too wide", 4); got != "too…" {
		t.Errorf("spread narrow = %q", got)
	}
}

func TestFitLines(t *testing.T) {
	if got := fitLines("a\nb\nc", 2); got != "a\nb" {
		t.Errorf("cut = %q", got)
	}
	if got := fitLines("a", 3); got != "a\n\n" {
		t.Errorf("pad = %q", got)
	}
	if got := fitLines("a", 0); got != "" {
		t.Errorf("zero = %q", got)
	}
}

func TestOverlayBottom(t *testing.T) {
	got := overlayBottom("1\n2\n3\n4", "X\nY", 4)
	if got != "1\n2\nX\nY" {
		t.Errorf("overlay = %q", got)
	}
	got = overlayBottom("1", "A\nB\nC", 2)
	if got != "B\nC" {
		t.Errorf("tall box = %q", got)
	}
}

func TestProgressBar(t *testing.T) {
	if got := progressBar(30*time.Second, time.Minute, 4); got != "██░░" {
		t.Errorf("half = %q", got)
	}
	if got := progressBar(2*time.Minute, time.Minute, 4); got != "████" {
		t.Errorf("over = %q", got)
	}
	if got := progressBar(time.Minute, 0, 3); got != "░░░" {
		t.Errorf("unknown length = %q", got)
	}
}

func TestCentered(t *testing.T) {
	if got := centered("ab", 6); got != "  ab" {
		t.Errorf("centered = %q", got)
	}
	if got := centered("abcdef", 4); got != "abc…" {
		t.Errorf("centered narrow = %q", got)
	}
}
