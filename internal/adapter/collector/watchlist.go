package collector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

// Watchlist is the curated monitoring configuration: which keywords and
// cities collectors track, plus seed knowledge folded into fresh memory.
type Watchlist struct {
	TrackedKeywords []string                `yaml:"tracked_keywords"`
	TargetCities    []string                `yaml:"target_cities"`
	KnownPatterns   domain.KnownPatterns    `yaml:"known_patterns"`
	DocumentedCases []domain.DocumentedCase `yaml:"documented_cases"`
}

// DefaultWatchlist returns the compiled-in monitoring configuration.
func DefaultWatchlist() Watchlist {
	return Watchlist{
		TrackedKeywords: []string{
			"protest", "protester", "canvasser", "community organizer",
			"grassroots", "advocacy", "rally", "demonstration",
		},
		TargetCities: []string{
			"Washington DC", "New York", "Los Angeles", "Dallas",
			"Chicago", "Phoenix", "San Francisco", "New Orleans",
			"Austin", "Denver", "Atlanta", "Seattle",
		},
	}
}

// LoadWatchlist reads a YAML watchlist file; sections present in the file
// replace the corresponding defaults, absent sections keep them.
func LoadWatchlist(path string) (Watchlist, error) {
	wl := DefaultWatchlist()
	if path == "" {
		return wl, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return wl, nil
		}
		return wl, fmt.Errorf("failed to read watchlist %s: %w", path, err)
	}

	var file Watchlist
	if err := yaml.Unmarshal(data, &file); err != nil {
		return wl, fmt.Errorf("failed to parse watchlist %s: %w", path, err)
	}

	if len(file.TrackedKeywords) > 0 {
		wl.TrackedKeywords = file.TrackedKeywords
	}
	if len(file.TargetCities) > 0 {
		wl.TargetCities = file.TargetCities
	}
	if len(file.KnownPatterns.ThreeWordNames) > 0 ||
		len(file.KnownPatterns.DelawareShells) > 0 ||
		len(file.KnownPatterns.PRFirms) > 0 {
		wl.KnownPatterns = file.KnownPatterns
	}
	if len(file.DocumentedCases) > 0 {
		wl.DocumentedCases = file.DocumentedCases
	}
	return wl, nil
}
