package engine

import (
	"testing"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name     string
		items    []string
		expected []string
	}{
		{"no duplicates", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"adjacent duplicates", []string{"a", "a", "b"}, []string{"a", "b"}},
		{"scattered duplicates", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"all same", []string{"x", "x", "x"}, []string{"x"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Dedupe(tt.items, func(s string) string { return s })
			if len(result) != len(tt.expected) {
				t.Fatalf("Dedupe(%v) kept %d items, expected %d", tt.items, len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("Dedupe(%v)[%d] = %q, expected %q", tt.items, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestDedupe_FirstSeenWins(t *testing.T) {
	type record struct {
		key   string
		value int
	}
	items := []record{
		{"dup", 1},
		{"other", 2},
		{"dup", 99},
	}

	result := Dedupe(items, func(r record) string { return r.key })

	if len(result) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(result))
	}
	if result[0].value != 1 {
		t.Errorf("Expected first occurrence to survive, got value %d", result[0].value)
	}
}

func TestDedupe_Idempotent(t *testing.T) {
	items := []string{"a", "b", "a", "c"}

	once := Dedupe(items, func(s string) string { return s })
	twice := Dedupe(once, func(s string) string { return s })

	if len(once) != len(twice) {
		t.Fatalf("Second pass changed length: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("Second pass changed item %d: %q -> %q", i, once[i], twice[i])
		}
	}
}

func TestDedupeEvents(t *testing.T) {
	sharedPrefix := "Protest organizers wanted in Phoenix metro area starting immediately"

	events := []domain.TimelineEvent{
		{Type: domain.RecordNews, Title: sharedPrefix + " this week", Score: 85},
		{Type: domain.RecordNews, Title: "Unrelated council vote", Score: 72},
		{Type: domain.RecordEvent, Title: sharedPrefix + " next month", Score: 50},
	}

	result := DedupeEvents(events)

	if len(result) != 2 {
		t.Fatalf("Expected 2 events after dedupe, got %d", len(result))
	}
	if result[0].Score != 85 {
		t.Errorf("Expected first-fed scored variant to survive, got score %d", result[0].Score)
	}
	if result[1].Title != "Unrelated council vote" {
		t.Errorf("Expected distinct title to survive, got %q", result[1].Title)
	}
}
