package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/civiclens/turfwatch/internal/adapter/repository"
	"github.com/civiclens/turfwatch/internal/core/domain"
	"github.com/civiclens/turfwatch/internal/core/engine"
	"github.com/civiclens/turfwatch/internal/core/ports"
	"github.com/civiclens/turfwatch/internal/scan"
)

const (
	apiVersion = "1.0.0"

	reportCacheKey = "latest_report"
	memoryCacheKey = "memory"
	alertsCacheKey = "alerts"

	defaultListLimit = 25
)

// ScanRunner is the slice of the scan service the API needs.
type ScanRunner interface {
	RunScan(ctx context.Context) (*domain.ScanReport, error)
	SubmitNote(ctx context.Context, note domain.AgentNote) error
}

type RestHandler struct {
	store   ports.SnapshotStore
	scanner ScanRunner
	cache   *gocache.Cache
}

func NewRestHandler(store ports.SnapshotStore, scanner ScanRunner) *RestHandler {
	return &RestHandler{
		store:   store,
		scanner: scanner,
		cache:   gocache.New(15*time.Second, time.Minute),
	}
}

// Health check endpoint
func (h *RestHandler) Health(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "turfwatch-api",
		"version":   apiVersion,
	}
	writeJSON(w, http.StatusOK, response)
}

// Snapshot serves the full latest scan report bundle
func (h *RestHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Jobs serves the scored job postings, highest suspicion first
func (h *RestHandler) Jobs(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r, defaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'limit' parameter")
		return
	}

	page := report.Jobs
	if limit < len(page) {
		page = page[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"jobs":      page,
		"total":     len(report.Jobs),
		"remaining": engine.Remaining(len(report.Jobs), limit),
	})
}

// Organizations serves the scored organizations, highest risk first
func (h *RestHandler) Organizations(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r, defaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'limit' parameter")
		return
	}

	page := report.Orgs
	if limit < len(page) {
		page = page[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"organizations": page,
		"total":         len(report.Orgs),
		"remaining":     engine.Remaining(len(report.Orgs), limit),
	})
}

// News serves the scored news articles, highest relevance first
func (h *RestHandler) News(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	limit, err := parseLimit(r, defaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'limit' parameter")
		return
	}

	page := report.News
	if limit < len(page) {
		page = page[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"news":      page,
		"total":     len(report.News),
		"remaining": engine.Remaining(len(report.News), limit),
	})
}

// Timeline serves the merged event timeline with range filter and paging
func (h *RestHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	rangeDays, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'range' parameter (use 7, 30, 90 or all)")
		return
	}
	limit, err := parseLimit(r, engine.DefaultTimelineLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'limit' parameter")
		return
	}

	mem, ok := h.memory(w, r)
	if !ok {
		return
	}

	events := engine.BuildTimeline(nil, mem.Timeline, rangeDays, time.Now().UTC())
	page := engine.PageTimeline(events, limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"events":    page.Events,
		"total":     page.Total,
		"remaining": page.Remaining,
	})
}

// Connections serves the detected correlation patterns
func (h *RestHandler) Connections(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"connections": report.Connections,
		"total":       len(report.Connections),
	})
}

// Confidence serves the aggregate confidence summary
func (h *RestHandler) Confidence(w http.ResponseWriter, r *http.Request) {
	report, ok := h.report(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.Confidence)
}

// Alerts serves active alerts, or the archive with ?archived=true
func (h *RestHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	archived := r.URL.Query().Get("archived") == "true"
	limit, err := parseLimit(r, defaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid 'limit' parameter")
		return
	}

	logbook, ok := h.alerts(w, r)
	if !ok {
		return
	}

	list := logbook.Alerts
	if archived {
		list = logbook.ArchivedAlerts
	}
	total := len(list)
	if limit < len(list) {
		list = list[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"alerts":   list,
		"total":    total,
		"archived": archived,
	})
}

// Stats serves the memory stats block
func (h *RestHandler) Stats(w http.ResponseWriter, r *http.Request) {
	mem, ok := h.memory(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":            mem.Stats,
		"systemConfidence": mem.SystemConfidence,
		"lastScan":         mem.LastScan,
		"lastAnalysis":     mem.LastAnalysis,
		"version":          mem.Version,
	})
}

// SubmitNote stores an externally written agent note
func (h *RestHandler) SubmitNote(w http.ResponseWriter, r *http.Request) {
	var note domain.AgentNote
	if err := json.NewDecoder(r.Body).Decode(&note); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(note.Summary) == "" {
		writeError(w, http.StatusBadRequest, "missing 'summary' field")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.scanner.SubmitNote(ctx, note); err != nil {
		log.Printf("❌ Failed to store agent note: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store note")
		return
	}

	h.cache.Delete(memoryCacheKey)
	writeJSON(w, http.StatusOK, map[string]any{"status": "stored"})
}

// TriggerScan runs a scan cycle now
func (h *RestHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	log.Println("📥 Scan triggered via API")
	report, err := h.scanner.RunScan(ctx)
	if err != nil {
		if errors.Is(err, scan.ErrScanInFlight) {
			writeError(w, http.StatusConflict, "a scan is already running")
			return
		}
		log.Printf("❌ Triggered scan failed: %v", err)
		writeError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	h.cache.Delete(reportCacheKey)
	h.cache.Delete(memoryCacheKey)
	h.cache.Delete(alertsCacheKey)
	writeJSON(w, http.StatusOK, report)
}

// report loads the latest scan report through the short-TTL cache,
// writing the error response itself when there is nothing to serve.
func (h *RestHandler) report(w http.ResponseWriter, r *http.Request) (*domain.ScanReport, bool) {
	if v, found := h.cache.Get(reportCacheKey); found {
		if report, ok := v.(*domain.ScanReport); ok {
			return report, true
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	report, err := h.store.LoadReport(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNoReport) {
			writeError(w, http.StatusNotFound, "no scan has completed yet")
		} else {
			log.Printf("❌ Failed to load scan report: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to load scan report")
		}
		return nil, false
	}

	h.cache.Set(reportCacheKey, report, gocache.DefaultExpiration)
	return report, true
}

func (h *RestHandler) memory(w http.ResponseWriter, r *http.Request) (*domain.Memory, bool) {
	if v, found := h.cache.Get(memoryCacheKey); found {
		if mem, ok := v.(*domain.Memory); ok {
			return mem, true
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	mem, err := h.store.LoadMemory(ctx)
	if err != nil {
		log.Printf("❌ Failed to load memory: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load scan state")
		return nil, false
	}

	h.cache.Set(memoryCacheKey, mem, gocache.DefaultExpiration)
	return mem, true
}

func (h *RestHandler) alerts(w http.ResponseWriter, r *http.Request) (*domain.AlertLog, bool) {
	if v, found := h.cache.Get(alertsCacheKey); found {
		if logbook, ok := v.(*domain.AlertLog); ok {
			return logbook, true
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	logbook, err := h.store.LoadAlerts(ctx)
	if err != nil {
		log.Printf("❌ Failed to load alerts: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load alerts")
		return nil, false
	}

	h.cache.Set(alertsCacheKey, logbook, gocache.DefaultExpiration)
	return logbook, true
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func parseLimit(r *http.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return 0, errors.New("limit must be a positive integer")
	}
	return limit, nil
}

func parseRange(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("range")
	if raw == "" || raw == "all" {
		return engine.RangeAll, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return 0, errors.New("range must be a positive day count or 'all'")
	}
	return days, nil
}
