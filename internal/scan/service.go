package scan

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civiclens/turfwatch/internal/adapter/metrics"
	"github.com/civiclens/turfwatch/internal/core/domain"
	"github.com/civiclens/turfwatch/internal/core/engine"
	"github.com/civiclens/turfwatch/internal/core/ports"
)

const (
	maxAgentNotes      = 100
	maxTimelineEvents  = 1000
	maxActiveAlerts    = 50
	maxAnalysisHistory = 100
	alertArchiveDays   = 30
)

// ErrScanInFlight means a scan cycle is already running; cycles never
// overlap.
var ErrScanInFlight = errors.New("scan already in progress")

// Config carries the watchlist-derived inputs a scan needs beyond its
// wired dependencies.
type Config struct {
	TrackedKeywords []string
	KnownPatterns   domain.KnownPatterns
	DocumentedCases []domain.DocumentedCase
}

// Scanner runs the full scan cycle: collect, analyze, fold results into
// persistent memory, persist, archive, notify. The snapshot store is the
// source of truth; an in-flight failure leaves the last good snapshot
// authoritative.
type Scanner struct {
	store     ports.SnapshotStore
	providers []ports.RecordProvider
	archive   ports.ScanArchive
	notifier  ports.Notifier
	cfg       Config

	mu sync.Mutex
}

// NewScanner wires a scanner. archive and notifier may be nil when not
// configured.
func NewScanner(store ports.SnapshotStore, providers []ports.RecordProvider, archive ports.ScanArchive, notifier ports.Notifier, cfg Config) *Scanner {
	return &Scanner{
		store:     store,
		providers: providers,
		archive:   archive,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// RunScan executes one scan cycle and returns the resulting report.
func (s *Scanner) RunScan(ctx context.Context) (*domain.ScanReport, error) {
	if !s.mu.TryLock() {
		return nil, ErrScanInFlight
	}
	defer s.mu.Unlock()

	timer := metrics.StartTimer()
	defer timer.ObserveDuration()

	start := time.Now()
	now := start.UTC()
	log.Printf("🚀 Scan cycle started (%d providers)", len(s.providers))

	mem, err := s.store.LoadMemory(ctx)
	if err != nil {
		metrics.RecordScan("error")
		return nil, fmt.Errorf("failed to load memory: %w", err)
	}
	alerts, err := s.store.LoadAlerts(ctx)
	if err != nil {
		metrics.RecordScan("error")
		return nil, fmt.Errorf("failed to load alerts: %w", err)
	}
	s.seedMemory(mem)

	records := s.collect(ctx)
	stampKeywords(records.Jobs, s.cfg.TrackedKeywords)

	res, err := engine.Run(records, mem, engine.RangeAll, now)
	if err != nil {
		metrics.RecordScan("error")
		return nil, fmt.Errorf("analysis failed: %w", err)
	}

	// A note submitted from outside since the last cycle outranks the
	// analyzer's own monitoring line.
	if note := freshestExternalNote(mem); note != nil {
		res.Confidence = engine.AggregateConfidence(res.Analysis.Factors, res.Analysis.Confidence, note, now)
	}

	newAlerts := stampAlerts(res.Analysis.Alerts, now)
	foldAlerts(alerts, newAlerts, now)
	s.foldMemory(mem, res, alerts, len(newAlerts), now)

	if err := s.store.SaveMemory(ctx, mem); err != nil {
		metrics.RecordScan("error")
		return nil, fmt.Errorf("failed to persist memory: %w", err)
	}
	if err := s.store.SaveAlerts(ctx, alerts); err != nil {
		metrics.RecordScan("error")
		return nil, fmt.Errorf("failed to persist alerts: %w", err)
	}

	report := buildReport(res, mem, newAlerts, now)
	if err := s.store.SaveReport(ctx, report); err != nil {
		metrics.RecordScan("error")
		return nil, fmt.Errorf("failed to persist report: %w", err)
	}

	if s.archive != nil {
		if err := s.archive.SaveScan(ctx, report); err != nil {
			log.Printf("⚠️ Archive write failed (scan continues): %v", err)
		}
	}

	s.notify(report, time.Since(start))

	metrics.RecordScored(string(domain.RecordJobPosting), len(report.Jobs))
	metrics.RecordScored(string(domain.RecordOrganization), len(report.Orgs))
	metrics.RecordScored(string(domain.RecordNews), len(report.News))
	for _, conn := range report.Connections {
		metrics.RecordConnection(conn.Type)
	}
	metrics.SetSystemConfidence(report.Confidence.Overall)
	metrics.SetActiveAlerts(len(alerts.Alerts))
	metrics.RecordScan("success")

	log.Printf("🏁 Scan %s done in %s: %d records, %d connections, %d new alerts, confidence %d%%",
		report.ID, time.Since(start).Round(time.Millisecond), records.Total(),
		len(report.Connections), len(newAlerts), report.Confidence.Overall)

	return report, nil
}

// RunLoop scans immediately, then on every tick. A tick that lands while
// the previous scan still runs is skipped.
func (s *Scanner) RunLoop(ctx context.Context, interval time.Duration) {
	log.Printf("🔄 Scan loop started, interval %s", interval)

	if _, err := s.RunScan(ctx); err != nil {
		log.Printf("❌ Scan failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("🛑 Scan loop stopping")
			return
		case <-ticker.C:
			if _, err := s.RunScan(ctx); err != nil {
				if errors.Is(err, ErrScanInFlight) {
					log.Println("⏭️ Previous scan still running, skipping tick")
				} else {
					log.Printf("❌ Scan failed: %v", err)
				}
			}
		}
	}
}

// SubmitNote appends an externally written agent note to memory. The next
// scan picks it up as the confidence narrative.
func (s *Scanner) SubmitNote(ctx context.Context, note domain.AgentNote) error {
	if strings.TrimSpace(note.Summary) == "" {
		return fmt.Errorf("note summary is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mem, err := s.store.LoadMemory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load memory: %w", err)
	}
	if note.Timestamp == "" {
		note.Timestamp = domain.Timestamp(time.Now().UTC())
	}
	mem.AgentNotes = capNotes(append(mem.AgentNotes, note))
	return s.store.SaveMemory(ctx, mem)
}

type fetchResult struct {
	idx int
	set domain.RecordSet
}

// collect fans out to every provider and merges results in provider
// order, so deduplication priority stays deterministic. Provider failures
// are logged and skipped, never fatal.
func (s *Scanner) collect(ctx context.Context) domain.RecordSet {
	results := make(chan fetchResult, len(s.providers))
	var wg sync.WaitGroup

	for i, p := range s.providers {
		wg.Add(1)
		go func(idx int, p ports.RecordProvider) {
			defer wg.Done()

			set, err := p.FetchRecords(ctx)
			if err != nil {
				log.Printf("❌ Provider %s failed: %v", p.Name(), err)
				return
			}
			log.Printf("✅ %s returned %d records", p.Name(), set.Total())

			select {
			case results <- fetchResult{idx: idx, set: set}:
			case <-ctx.Done():
			}
		}(i, p)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	ordered := make([]domain.RecordSet, len(s.providers))
	for res := range results {
		ordered[res.idx] = res.set
	}

	var records domain.RecordSet
	for _, set := range ordered {
		records.Merge(set)
	}
	return records
}

// seedMemory overlays watchlist seed knowledge onto memory that does not
// hold any yet.
func (s *Scanner) seedMemory(mem *domain.Memory) {
	kp := mem.KnownAstroturfPatterns
	if len(kp.ThreeWordNames) == 0 && len(kp.DelawareShells) == 0 && len(kp.PRFirms) == 0 {
		mem.KnownAstroturfPatterns = s.cfg.KnownPatterns
	}
	if len(mem.DocumentedCases) == 0 && len(s.cfg.DocumentedCases) > 0 {
		mem.DocumentedCases = s.cfg.DocumentedCases
	}
}

// foldMemory updates persistent memory with one scan's results and
// applies the pruning rules.
func (s *Scanner) foldMemory(mem *domain.Memory, res *engine.Result, alerts *domain.AlertLog, newAlerts int, now time.Time) {
	mem.JobPostingPatterns = res.Patterns.JobPatterns
	mem.Correlations = domain.CorrelationMemory{
		JobSpikeEvents:       res.Patterns.JobPatterns.Spikes,
		OrgFormationClusters: res.Patterns.OrgPatterns.FormationClusters,
		GeographicHotspots:   res.Patterns.Hotspots,
	}
	mem.FlaggedOrganizations = res.Patterns.OrgPatterns.HighRiskOrgs
	mem.SystemConfidence = res.Confidence.Overall

	mem.AgentNotes = capNotes(append(mem.AgentNotes, res.Analysis.Note))

	mem.Timeline = res.Timeline
	if len(mem.Timeline) > maxTimelineEvents {
		mem.Timeline = mem.Timeline[:maxTimelineEvents]
	}

	mem.AnalysisHistory = append(mem.AnalysisHistory, domain.AnalysisRecord{
		Timestamp:  domain.Timestamp(now),
		Confidence: res.Confidence.Overall,
		Alerts:     newAlerts,
		Records:    res.Records.Total(),
	})
	if len(mem.AnalysisHistory) > maxAnalysisHistory {
		mem.AnalysisHistory = mem.AnalysisHistory[len(mem.AnalysisHistory)-maxAnalysisHistory:]
	}

	mem.Stats.Events = len(mem.Timeline)
	mem.Stats.Alerts = len(alerts.Alerts)
	mem.Stats.Orgs = len(mem.FlaggedOrganizations)
	mem.Stats.TotalScans++
	mem.Stats.JobPostingsTracked += len(res.Records.Jobs)
	mem.Stats.NonprofitsMonitored += len(res.Records.Orgs)
	mem.LastScan = domain.Timestamp(now)
	mem.LastAnalysis = domain.Timestamp(now)
}

// stampAlerts assigns ids and timestamps to freshly raised alerts.
func stampAlerts(fresh []domain.Alert, now time.Time) []domain.Alert {
	stamped := make([]domain.Alert, len(fresh))
	for i, alert := range fresh {
		alert.ID = uuid.NewString()
		if alert.Timestamp == "" {
			alert.Timestamp = domain.Timestamp(now)
		}
		stamped[i] = alert
	}
	return stamped
}

// foldAlerts prepends the new alerts, moves aged-out alerts to the
// archive, and caps the active window. An alert whose timestamp does not
// parse stays active rather than vanishing into the archive.
func foldAlerts(logbook *domain.AlertLog, fresh []domain.Alert, now time.Time) {
	logbook.Alerts = append(append([]domain.Alert{}, fresh...), logbook.Alerts...)

	cutoff := now.AddDate(0, 0, -alertArchiveDays)
	active := make([]domain.Alert, 0, len(logbook.Alerts))
	for _, alert := range logbook.Alerts {
		if t, ok := domain.ParseDate(alert.Timestamp); ok && !t.After(cutoff) {
			logbook.ArchivedAlerts = append(logbook.ArchivedAlerts, alert)
			continue
		}
		active = append(active, alert)
	}
	if len(active) > maxActiveAlerts {
		active = active[:maxActiveAlerts]
	}
	logbook.Alerts = active
	logbook.LastUpdated = domain.Timestamp(now)
}

func buildReport(res *engine.Result, mem *domain.Memory, newAlerts []domain.Alert, now time.Time) *domain.ScanReport {
	return &domain.ScanReport{
		ID:          uuid.NewString(),
		GeneratedAt: domain.Timestamp(now),
		Jobs:        res.Records.Jobs,
		Orgs:        res.Records.Orgs,
		News:        res.Records.News,
		Timeline:    res.Timeline,
		Connections: res.Connections,
		Confidence:  res.Confidence,
		Alerts:      newAlerts,
		Patterns:    res.Patterns,
		HotStates:   res.Analysis.HotStates,
		Stats:       mem.Stats,
	}
}

// notify pushes qualifying results out. Failures are logged and never
// fail the scan.
func (s *Scanner) notify(report *domain.ScanReport, elapsed time.Duration) {
	if s.notifier == nil {
		return
	}

	for _, conn := range report.Connections {
		details := make([]string, 0, len(conn.Evidence))
		for _, ev := range conn.Evidence {
			details = append(details, ev.Detail)
		}
		err := s.notifier.NotifyConnection(ports.ConnectionNotification{
			Type:        conn.Type,
			Description: conn.Description,
			Probability: conn.Probability,
			Evidence:    details,
		})
		if err != nil {
			log.Printf("⚠️ Connection notification failed: %v", err)
		}
	}

	for _, alert := range report.Alerts {
		err := s.notifier.NotifyAlert(ports.AlertNotification{
			Title:       alert.Title,
			Description: alert.Description,
			Confidence:  alert.Confidence,
			Sources:     alert.Sources,
			Timestamp:   alert.Timestamp,
		})
		if err != nil {
			log.Printf("⚠️ Alert notification failed: %v", err)
		}
	}

	err := s.notifier.NotifyScanSummary(ports.ScanSummary{
		ScanID:      report.ID,
		Confidence:  report.Confidence.Overall,
		Narrative:   report.Confidence.Narrative,
		Jobs:        len(report.Jobs),
		Orgs:        len(report.Orgs),
		News:        len(report.News),
		Connections: len(report.Connections),
		NewAlerts:   len(report.Alerts),
		HotStates:   report.HotStates,
		Duration:    elapsed.Round(time.Millisecond).String(),
	})
	if err != nil {
		log.Printf("⚠️ Summary notification failed: %v", err)
	}
}

// stampKeywords tags jobs with the tracked keywords they mention, for
// jobs whose feed did not tag them already.
func stampKeywords(jobs []domain.JobPosting, keywords []string) {
	for i := range jobs {
		if len(jobs[i].TrackedKeywords) > 0 {
			continue
		}
		hay := strings.ToLower(jobs[i].Title + " " + jobs[i].Description)
		for _, kw := range keywords {
			if strings.Contains(hay, strings.ToLower(kw)) {
				jobs[i].TrackedKeywords = append(jobs[i].TrackedKeywords, kw)
			}
		}
	}
}

// freshestExternalNote returns the newest note submitted after the last
// analysis, or nil. Notes the analyzer itself appended carry the analysis
// timestamp exactly and never qualify.
func freshestExternalNote(mem *domain.Memory) *domain.AgentNote {
	lastAnalysis := domain.EventTime(mem.LastAnalysis)

	var freshest *domain.AgentNote
	var freshestAt time.Time
	for i := range mem.AgentNotes {
		t, ok := domain.ParseDate(mem.AgentNotes[i].Timestamp)
		if !ok || !t.After(lastAnalysis) {
			continue
		}
		if freshest == nil || t.After(freshestAt) {
			freshest = &mem.AgentNotes[i]
			freshestAt = t
		}
	}
	return freshest
}

func capNotes(notes []domain.AgentNote) []domain.AgentNote {
	if len(notes) > maxAgentNotes {
		return notes[len(notes)-maxAgentNotes:]
	}
	return notes
}
