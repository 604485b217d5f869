package domain

import (
	"strings"
	"time"
)

// Record dates arrive as strings from many upstream formats. Parsing is
// best-effort: anything unreadable degrades to the epoch so the record
// still sorts and filters instead of failing the scan.

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"200601",
}

// ParseDate parses a record date string. ok is false when the value is
// empty or matches no known layout.
func ParseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// EventTime is ParseDate with the epoch fallback the timeline relies on:
// undated events are excluded from bounded ranges and sort as oldest.
func EventTime(value string) time.Time {
	if t, ok := ParseDate(value); ok {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// Timestamp renders a time the way it is stored at rest.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// DedupeKey is the default near-duplicate key: the title, trimmed,
// case-preserved, cut to its first 50 characters.
func DedupeKey(title string) string {
	return Truncate(strings.TrimSpace(title), 50)
}

// Truncate returns at most n characters of s, never splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
