package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration for the API server and CLI tools.
type Config struct {
	// HTTP Server
	Port string

	// Notion record store
	NotionToken      string
	NotionDatabaseID string

	// Gemini. The genai client reads the key from the environment at call
	// time; it is surfaced here only so a missing key fails at startup
	// instead of degrading every classification.
	GeminiAPIKey     string
	GeminiModel      string
	ClassifyTimeout  time.Duration
	NarrativeTimeout time.Duration

	// Record store
	FetchPageTimeout time.Duration

	// Classification cache behavior. When true, a failed semantic call
	// caches the Uncategorized sentinel permanently (legacy behavior);
	// when false, failures are left unresolved so a later request retries.
	CacheFailures bool

	// Anomaly detection. When true, the per-category average excludes the
	// candidate entry itself.
	AnomalyLeaveOneOut bool
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8080"),

		NotionToken:      getEnv("NOTION_API_KEY", ""),
		NotionDatabaseID: getEnv("NOTION_DATABASE_ID", ""),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", os.Getenv("GOOGLE_API_KEY")),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ClassifyTimeout:  getEnvDuration("CLASSIFY_TIMEOUT", 15*time.Second),
		NarrativeTimeout: getEnvDuration("NARRATIVE_TIMEOUT", 60*time.Second),

		FetchPageTimeout: getEnvDuration("FETCH_PAGE_TIMEOUT", 30*time.Second),

		CacheFailures:      getEnvBool("CACHE_FAILED_CLASSIFICATIONS", false),
		AnomalyLeaveOneOut: getEnvBool("ANOMALY_LEAVE_ONE_OUT", false),
	}
}

// Validate checks the configuration and returns an error describing every
// problem found.
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.NotionToken == "" {
		errors = append(errors, "NOTION_API_KEY is required")
	}
	if c.NotionDatabaseID == "" {
		errors = append(errors, "NOTION_DATABASE_ID is required")
	}
	if c.GeminiAPIKey == "" {
		errors = append(errors, "GEMINI_API_KEY is required")
	}
	if c.GeminiModel == "" {
		errors = append(errors, "GEMINI_MODEL must not be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errors, "; "))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
