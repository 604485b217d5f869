package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/civiclens/turfwatch/internal/core/domain"
)

// FileProvider reads record feeds dropped as JSON files into a directory.
// Each *.json file holds a RecordSet fragment: any of "jobs",
// "organizations", "news". Files that fail to parse are skipped, never
// fatal to the scan.
type FileProvider struct {
	dir          string
	providerName string
}

func NewFileProvider(providerName, dir string) *FileProvider {
	return &FileProvider{
		dir:          dir,
		providerName: providerName,
	}
}

func (p *FileProvider) Name() string {
	return p.providerName
}

func (p *FileProvider) FetchRecords(ctx context.Context) (domain.RecordSet, error) {
	var records domain.RecordSet

	entries, err := os.ReadDir(p.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return records, nil
		}
		return records, fmt.Errorf("failed to read feed dir %s: %w", p.dir, err)
	}

	fileCount := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return records, err
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		path := filepath.Join(p.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("⚠️ %s: cannot read %s: %v", p.providerName, entry.Name(), err)
			continue
		}

		var set domain.RecordSet
		if err := json.Unmarshal(data, &set); err != nil {
			log.Printf("⚠️ %s: skipping malformed feed %s: %v", p.providerName, entry.Name(), err)
			continue
		}

		labelSource(&set, feedLabel(entry.Name()))
		records.Merge(set)
		fileCount++
	}

	log.Printf("📥 %s: loaded %d records from %d feed files", p.providerName, records.Total(), fileCount)
	return records, nil
}

// feedLabel derives a source label from the feed file name,
// e.g. "jobs-craigslist.json" -> "jobs-craigslist".
func feedLabel(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// labelSource fills in the source field on records that arrived without one.
func labelSource(set *domain.RecordSet, label string) {
	for i := range set.Jobs {
		if set.Jobs[i].Source == "" {
			set.Jobs[i].Source = label
		}
	}
	for i := range set.Orgs {
		if set.Orgs[i].Source == "" {
			set.Orgs[i].Source = label
		}
	}
	for i := range set.News {
		if set.News[i].Source == "" {
			set.News[i].Source = label
		}
	}
}
