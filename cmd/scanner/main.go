package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civiclens/turfwatch/internal/adapter/collector"
	"github.com/civiclens/turfwatch/internal/adapter/metrics"
	"github.com/civiclens/turfwatch/internal/adapter/notifier"
	"github.com/civiclens/turfwatch/internal/adapter/repository"
	"github.com/civiclens/turfwatch/internal/core/ports"
	"github.com/civiclens/turfwatch/internal/scan"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found (this is fine in production)")
	}

	once := flag.Bool("once", false, "run a single scan cycle and exit")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Snapshot store
	dataDir := getEnv("TURFWATCH_DATA_DIR", "./data")
	store := repository.NewSnapshotStore(dataDir)

	// Watchlist (empty path means built-in defaults)
	wl, err := collector.LoadWatchlist(os.Getenv("TURFWATCH_WATCHLIST"))
	if err != nil {
		log.Fatalf("❌ Failed to load watchlist: %v", err)
	}

	// Record providers
	feedsDir := getEnv("TURFWATCH_FEEDS_DIR", filepath.Join(dataDir, "feeds"))
	providers := []ports.RecordProvider{collector.NewFileProvider("feeds", feedsDir)}
	if os.Getenv("TURFWATCH_DEMO") == "true" {
		providers = append(providers, collector.NewSampleProvider())
		log.Println("✅ Sample provider enabled")
	}

	// Postgres archive (optional - only if DATABASE_URL configured)
	var archive ports.ScanArchive
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		dbPool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer dbPool.Close()

		pg := repository.NewPostgresArchive(dbPool)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatalf("❌ Failed to prepare archive schema: %v", err)
		}
		archive = pg
		log.Println("✅ Postgres archive enabled")
	} else {
		log.Println("⚠️  Postgres archive disabled (no DATABASE_URL)")
	}

	// Slack notifier (optional - only if webhook configured)
	var slack ports.Notifier
	if webhookURL := os.Getenv("SLACK_WEBHOOK_URL"); webhookURL != "" {
		slack = notifier.NewSlackNotifier(
			webhookURL,
			os.Getenv("SLACK_MENTION_TEAM"),
			getEnvInt("SLACK_NOTIFY_THRESHOLD", 70),
		)
		log.Println("✅ Slack notifier enabled")
	} else {
		log.Println("⚠️  Slack notifier disabled (no SLACK_WEBHOOK_URL)")
	}

	// Initialize metrics
	metrics.InitMetrics()

	// Scan service
	scanner := scan.NewScanner(store, providers, archive, slack, scan.Config{
		TrackedKeywords: wl.TrackedKeywords,
		KnownPatterns:   wl.KnownPatterns,
		DocumentedCases: wl.DocumentedCases,
	})

	if *once {
		if _, err := scanner.RunScan(ctx); err != nil {
			log.Fatalf("❌ Scan failed: %v", err)
		}
		return
	}

	// Metrics endpoint for the long-running daemon
	metricsAddr := getEnv("TURFWATCH_METRICS_ADDR", "127.0.0.1:9091")
	go func() {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		log.Printf("✅ Metrics listening on %s", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, metricsMux); err != nil {
			log.Printf("⚠️  Metrics server stopped: %v", err)
		}
	}()

	interval := time.Duration(getEnvInt("TURFWATCH_SCAN_INTERVAL_MINUTES", 360)) * time.Minute
	scanner.RunLoop(ctx, interval)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
