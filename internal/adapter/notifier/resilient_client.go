package notifier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/civiclens/turfwatch/internal/adapter/metrics"
)

// ResilientClient wraps an HTTP client with circuit breaker and retry logic
type ResilientClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	config  ResilientClientConfig
}

// ResilientClientConfig holds configuration for the resilient client
type ResilientClientConfig struct {
	// Circuit breaker settings
	EnableCircuitBreaker bool
	MaxFailures          uint32
	CircuitTimeout       time.Duration

	// Retry settings
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultResilientClientConfig returns default configuration values
func DefaultResilientClientConfig() ResilientClientConfig {
	return ResilientClientConfig{
		EnableCircuitBreaker: getEnvBool("SLACK_CIRCUIT_BREAKER_ENABLED", true),
		MaxFailures:          uint32(getEnvInt("SLACK_CIRCUIT_BREAKER_MAX_FAILURES", 5)),
		CircuitTimeout:       time.Duration(getEnvInt("SLACK_CIRCUIT_BREAKER_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxRetries:           getEnvInt("SLACK_RETRY_MAX_ATTEMPTS", 3),
		InitialInterval:      time.Duration(getEnvInt("SLACK_RETRY_INITIAL_INTERVAL_MS", 500)) * time.Millisecond,
		MaxInterval:          time.Duration(getEnvInt("SLACK_RETRY_MAX_INTERVAL_MS", 5000)) * time.Millisecond,
	}
}

// NewResilientClient creates a new resilient HTTP client
func NewResilientClient(timeout time.Duration, config ResilientClientConfig) *ResilientClient {
	client := &http.Client{
		Timeout: timeout,
	}

	var breaker *gobreaker.CircuitBreaker
	if config.EnableCircuitBreaker {
		settings := gobreaker.Settings{
			Name:        "slack-webhook",
			MaxRequests: 1,
			Interval:    0, // Don't reset counts automatically
			Timeout:     config.CircuitTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= config.MaxFailures
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				fmt.Printf("⚡ Circuit breaker '%s' changed from %s to %s\n", name, from, to)
				if to == gobreaker.StateOpen {
					metrics.RecordDeliveryError("circuit_open")
				}
			},
		}
		breaker = gobreaker.NewCircuitBreaker(settings)
	}

	return &ResilientClient{
		client:  client,
		breaker: breaker,
		config:  config,
	}
}

// Post sends a JSON payload with circuit breaker and retry logic.
// Each attempt builds a fresh request so retries resend the full body
func (c *ResilientClient) Post(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	// If circuit breaker is disabled, just do the request with retry
	if c.breaker == nil {
		return c.postWithRetry(ctx, url, payload)
	}

	// Execute through circuit breaker
	result, err := c.breaker.Execute(func() (any, error) {
		return c.postWithRetry(ctx, url, payload)
	})

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			metrics.RecordDeliveryError("circuit_open")
			return nil, fmt.Errorf("circuit breaker is open: %w", err)
		}
		return nil, err
	}

	return result.(*http.Response), nil
}

// postWithRetry executes a POST with exponential backoff retry logic
func (c *ResilientClient) postWithRetry(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	var resp *http.Response
	var lastErr error

	// If max retries is 0, just do a single attempt
	if c.config.MaxRetries == 0 {
		resp, err := c.doPost(ctx, url, payload)
		if err != nil {
			metrics.RecordDeliveryError("connection")
			return nil, err
		}
		// Check for error status codes
		if resp.StatusCode >= 400 {
			c.recordErrorFromResponse(resp)
			resp.Body.Close()
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		}
		return resp, nil
	}

	// Configure exponential backoff
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = c.config.InitialInterval
	expBackoff.MaxInterval = c.config.MaxInterval
	expBackoff.Multiplier = 2.0
	expBackoff.MaxElapsedTime = 0 // No max elapsed time, only max retries

	// Wrap with max retries
	retryBackoff := backoff.WithMaxRetries(expBackoff, uint64(c.config.MaxRetries))

	// Create a context-aware backoff
	retryBackoff = backoff.WithContext(retryBackoff, ctx)

	operation := func() error {
		var err error
		resp, err = c.doPost(ctx, url, payload)
		if err != nil {
			lastErr = err
			metrics.RecordDeliveryError("connection")
			if c.shouldRetry(err, nil) {
				return err // Retry
			}
			return backoff.Permanent(err) // Don't retry
		}

		// Check if response indicates we should retry
		if c.shouldRetry(nil, resp) {
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
			c.recordErrorFromResponse(resp)
			resp.Body.Close()
			return lastErr // Retry
		}

		// Remaining 4xx are caller errors, retrying can't fix them
		if resp.StatusCode >= 400 {
			c.recordErrorFromResponse(resp)
			lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
			resp.Body.Close()
			return backoff.Permanent(lastErr) // Don't retry 4xx
		}

		return nil
	}

	err := backoff.Retry(operation, retryBackoff)
	if err != nil {
		return nil, fmt.Errorf("request failed after retries: %w", lastErr)
	}

	return resp, nil
}

// doPost builds and sends a single POST attempt
func (c *ResilientClient) doPost(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// shouldRetry determines if an error or response should trigger a retry
func (c *ResilientClient) shouldRetry(err error, resp *http.Response) bool {
	// Retry on network errors or timeouts
	if err != nil {
		// Check for timeout
		if errors.Is(err, context.DeadlineExceeded) {
			return true
		}
		// Check for connection errors
		if strings.Contains(err.Error(), "connection refused") ||
			strings.Contains(err.Error(), "connection reset") ||
			strings.Contains(err.Error(), "EOF") {
			return true
		}
		return false
	}

	// Retry on specific HTTP status codes
	if resp != nil {
		switch resp.StatusCode {
		case http.StatusTooManyRequests, // 429
			http.StatusServiceUnavailable,  // 503
			http.StatusGatewayTimeout,      // 504
			http.StatusBadGateway,          // 502
			http.StatusInternalServerError: // 500
			return true
		}
	}

	return false
}

// recordErrorFromResponse records the appropriate error metric based on response status
func (c *ResilientClient) recordErrorFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		metrics.RecordDeliveryError("auth")
	case http.StatusTooManyRequests:
		metrics.RecordDeliveryError("rate_limit")
	case http.StatusRequestTimeout:
		metrics.RecordDeliveryError("timeout")
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		metrics.RecordDeliveryError("server_error")
	default:
		metrics.RecordDeliveryError("http_error")
	}
}

// getEnvInt reads an integer from environment variable or returns default
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool reads a boolean from environment variable or returns default
func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
