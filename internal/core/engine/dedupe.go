package engine

import "github.com/civiclens/turfwatch/internal/core/domain"

// Dedupe collapses items sharing a key, keeping the first seen per key in
// input order. Callers feed richer records first so the informative
// variant of a repeated event survives. Idempotent.
func Dedupe[T any](items []T, key func(T) string) []T {
	if len(items) == 0 {
		return items
	}
	seen := make(map[string]struct{}, len(items))
	kept := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, item)
	}
	return kept
}

// DedupeEvents applies the default title-prefix key to timeline events.
func DedupeEvents(events []domain.TimelineEvent) []domain.TimelineEvent {
	return Dedupe(events, func(ev domain.TimelineEvent) string {
		return domain.DedupeKey(ev.Title)
	})
}
