package main

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/civiclens/turfwatch/internal/adapter/collector"
	"github.com/civiclens/turfwatch/internal/adapter/handler"
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

	ctx := context.Background()

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
	log.Println("✅ Prometheus metrics initialized")

	// Scan service
	scanner := scan.NewScanner(store, providers, archive, slack, scan.Config{
		TrackedKeywords: wl.TrackedKeywords,
		KnownPatterns:   wl.KnownPatterns,
		DocumentedCases: wl.DocumentedCases,
	})

	// HTTP router
	router := mux.NewRouter()

	// REST handler
	restHandler := handler.NewRestHandler(store, scanner)

	// Health check
	router.HandleFunc("/api/v1/health", restHandler.Health).Methods("GET")

	// Report endpoints
	router.HandleFunc("/api/v1/snapshot", restHandler.Snapshot).Methods("GET")
	router.HandleFunc("/api/v1/jobs", restHandler.Jobs).Methods("GET")
	router.HandleFunc("/api/v1/organizations", restHandler.Organizations).Methods("GET")
	router.HandleFunc("/api/v1/news", restHandler.News).Methods("GET")
	router.HandleFunc("/api/v1/timeline", restHandler.Timeline).Methods("GET")
	router.HandleFunc("/api/v1/connections", restHandler.Connections).Methods("GET")
	router.HandleFunc("/api/v1/confidence", restHandler.Confidence).Methods("GET")
	router.HandleFunc("/api/v1/alerts", restHandler.Alerts).Methods("GET")
	router.HandleFunc("/api/v1/stats", restHandler.Stats).Methods("GET")

	// Mutating endpoints (auth required when a token is configured)
	router.HandleFunc("/api/v1/notes", restHandler.SubmitNote).Methods("POST")
	router.HandleFunc("/api/v1/scan", restHandler.TriggerScan).Methods("POST")

	// Metrics endpoint
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Middleware
	router.Use(loggingMiddleware)
	router.Use(authMiddleware)

	// HTTP server
	host := getEnv("TURFWATCH_BIND", "127.0.0.1")
	port := getEnv("TURFWATCH_PORT", "8080")
	srv := &http.Server{
		Addr:         host + ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("🚀 TurfWatch REST API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
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

// statusRecorder captures the status code a handler writes
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("→ %s %s", r.Method, r.URL.Path)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("← %s %s %d (%v)", r.Method, r.URL.Path, rec.status, time.Since(start))
		metrics.RecordHTTPRequest(r.URL.Path, rec.status)
	})
}

func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Read-only endpoints stay open
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("Authorization")
		expectedToken := os.Getenv("TURFWATCH_API_TOKEN")

		// If no token configured, allow all requests (development mode)
		if expectedToken == "" {
			log.Println("⚠️  Warning: TURFWATCH_API_TOKEN not set - auth disabled")
			next.ServeHTTP(w, r)
			return
		}

		// Validate Bearer token in constant time
		expected := "Bearer " + expectedToken
		if subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
