package config

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable prefix for all spotlite settings
const envPrefix = "SPOTLITE_"

// HTTPClientConfig contains configurable HTTP client settings shared by the
// enrichment and disclosure collaborators
type HTTPClientConfig struct {
	// Response size limit for enrichment endpoints (bytes)
	MaxResponseSize int64

	// Connection pool settings
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration

	// Timeouts
	DialTimeout    time.Duration
	RequestTimeout time.Duration
	KeepAlive      time.Duration
}

// ScanConfig contains configurable scan defaults
type ScanConfig struct {
	// Fixed port sets (comma-separated, parsed at startup by pkg/scan)
	QuickPorts   string
	DefaultPorts string

	// Per-probe connect timeout
	Timeout time.Duration

	// Concurrent probes per address
	Parallelism int

	// Max probes per second within one scan (0 = unlimited)
	RateLimit int
}

// EnrichConfig contains endpoints for enrichment lookups
// Endpoints are overridable mainly so tests can point at local servers
type EnrichConfig struct {
	GeoEndpoint string

	// Use https when fetching server-version metadata
	ServerTLS bool
}

// DisclosureConfig contains disclosure-policy lookup settings
type DisclosureConfig struct {
	// URL of a newline-separated crowdsourced domain list
	BountyListURL string

	// URL of a JSON program database
	ProgramDBURL string

	// Optional bounty-platform credentials
	HackerOneUsername string
	HackerOneToken    string
	BugcrowdToken     string
}

// DefaultHTTPClientConfig returns default HTTP client configuration
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		MaxResponseSize:     getEnvInt64("MAX_RESPONSE_SIZE", 256*1024),               // 256KB
		MaxIdleConns:        getEnvInt("HTTP_MAX_IDLE_CONNS", 100),                    // 100 connections
		MaxIdleConnsPerHost: getEnvInt("HTTP_MAX_IDLE_CONNS_PER_HOST", 10),            // 10 per host
		IdleConnTimeout:     getEnvDuration("HTTP_IDLE_CONN_TIMEOUT", 90*time.Second), // 90s
		DialTimeout:         getEnvDuration("HTTP_DIAL_TIMEOUT", 5*time.Second),       // 5s
		RequestTimeout:      getEnvDuration("HTTP_REQUEST_TIMEOUT", 10*time.Second),   // 10s
		KeepAlive:           getEnvDuration("HTTP_KEEPALIVE", 30*time.Second),         // 30s
	}
}

// DefaultScanConfig returns default scan configuration
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		QuickPorts:   getEnvString("QUICK_PORTS", "21,22,80,443"),
		DefaultPorts: getEnvString("DEFAULT_PORTS", "80,443,8080,8443"),
		Timeout:      getEnvDuration("SCAN_TIMEOUT", 5*time.Second),
		Parallelism:  getEnvInt("SCAN_PARALLELISM", 4),
		RateLimit:    getEnvInt("SCAN_RATE_LIMIT", 0),
	}
}

// DefaultEnrichConfig returns default enrichment endpoints
func DefaultEnrichConfig() EnrichConfig {
	return EnrichConfig{
		GeoEndpoint: getEnvString("GEO_ENDPOINT", "http://ip-api.com/json"),
		ServerTLS:   getEnvBool("SERVER_TLS", false),
	}
}

// DefaultDisclosureConfig returns default disclosure-lookup configuration
func DefaultDisclosureConfig() DisclosureConfig {
	return DisclosureConfig{
		BountyListURL:     getEnvString("BOUNTY_LIST_URL", "https://raw.githubusercontent.com/arkadiyt/bounty-targets-data/main/data/domains.txt"),
		ProgramDBURL:      getEnvString("PROGRAM_DB_URL", "https://raw.githubusercontent.com/arkadiyt/bounty-targets-data/main/data/hackerone_data.json"),
		HackerOneUsername: getEnvString("HACKERONE_USERNAME", ""),
		HackerOneToken:    getEnvString("HACKERONE_TOKEN", ""),
		BugcrowdToken:     getEnvString("BUGCROWD_TOKEN", ""),
	}
}

// NewHTTPClient builds a pooled HTTP client from the HTTP configuration
// All single-request collaborators share one client for connection reuse
func NewHTTPClient(cfg HTTPClientConfig) *http.Client {
	transport := &http.Transport{
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
	}
	return &http.Client{
		Transport: transport,
		Timeout:   cfg.RequestTimeout,
	}
}

// getEnvInt retrieves an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(envPrefix + key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvInt64 retrieves an int64 environment variable with a default value
func getEnvInt64(key string, defaultValue int64) int64 {
	if val := os.Getenv(envPrefix + key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable with a default value
// Accepts values like "5s", "10m", "1h"
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if val := os.Getenv(envPrefix + key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable with a default value
// Accepts: "true", "false", "1", "0", "yes", "no" (case-insensitive)
func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(envPrefix + key); val != "" {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

// getEnvString retrieves a string environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(envPrefix + key); val != "" {
		return val
	}
	return defaultValue
}

// Global configuration instances (initialized once at startup)
var (
	HTTP       = DefaultHTTPClientConfig()
	Scan       = DefaultScanConfig()
	Enrich     = DefaultEnrichConfig()
	Disclosure = DefaultDisclosureConfig()
)

// Init initializes all configuration from environment variables
// Call this at application startup
func Init() {
	HTTP = DefaultHTTPClientConfig()
	Scan = DefaultScanConfig()
	Enrich = DefaultEnrichConfig()
	Disclosure = DefaultDisclosureConfig()
}
