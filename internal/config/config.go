package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL      = "http://localhost:8081"
	DefaultAPITimeout      = 15 * time.Second
	DefaultBridgePort      = "8080"
	DefaultStubAPIPort     = "8081"
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultRouteMatch      = RouteMatchExact
	DefaultStubSearchShape = "string-body"

	RouteMatchExact    = "exact"
	RouteMatchContains = "contains"
)

// Config holds the client and stub backend settings
type Config struct {
	APIBaseURL      string
	APITimeout      time.Duration
	BridgePort      string
	StubAPIPort     string
	LogLevel        string
	LogFormat       string
	RouteMatch      string
	StrictOrdering  bool
	AccessToken     string
	UserID          string
	StubSearchShape string
	// StubDuplicateResults makes the stub backend repeat every search result.
	StubDuplicateResults bool
}

// Load reads the configuration from the environment. Variables in an
// optional .env file are applied first without overriding the environment.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{
		APIBaseURL:      getEnv("API_BASE_URL", DefaultAPIBaseURL),
		APITimeout:      DefaultAPITimeout,
		BridgePort:      getEnv("BRIDGE_PORT", DefaultBridgePort),
		StubAPIPort:     getEnv("STUB_API_PORT", DefaultStubAPIPort),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", DefaultLogLevel)),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", DefaultLogFormat)),
		RouteMatch:      strings.ToLower(getEnv("ROUTE_MATCH", DefaultRouteMatch)),
		AccessToken:     os.Getenv("ACCESS_TOKEN"),
		UserID:          os.Getenv("USER_ID"),
		StubSearchShape: getEnv("STUB_SEARCH_SHAPE", DefaultStubSearchShape),
	}

	if v := os.Getenv("API_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse API_TIMEOUT: %w", err)
		}
		cfg.APITimeout = d
	}

	if v := os.Getenv("STRICT_ORDERING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STRICT_ORDERING: %w", err)
		}
		cfg.StrictOrdering = b
	}

	if v := os.Getenv("STUB_DUPLICATE_RESULTS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse STUB_DUPLICATE_RESULTS: %w", err)
		}
		cfg.StubDuplicateResults = b
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.RouteMatch {
	case RouteMatchExact, RouteMatchContains:
	default:
		return fmt.Errorf("invalid ROUTE_MATCH %q: want %s or %s", c.RouteMatch, RouteMatchExact, RouteMatchContains)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q: want text or json", c.LogFormat)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("invalid API_TIMEOUT %s: must be positive", c.APITimeout)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
