package geoproc

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

// BaseURLEnvVar selects the remote geoprocessing service base URL.
const BaseURLEnvVar = "GEOPROC_SERVICE_URL"

const (
	// DefaultBaseURL is used when GEOPROC_SERVICE_URL is unset.
	DefaultBaseURL = "http://localhost:5000"

	// DefaultTimeout bounds each individual request attempt. Long-running
	// raster algorithms routinely take over a minute on large DEMs.
	DefaultTimeout = 120 * time.Second

	// DefaultMaxRetries is the total number of attempts per dispatch,
	// including the first one.
	DefaultMaxRetries = 3

	// DefaultMaxBackoff caps the delay between attempts. With the default
	// retry count the cap is never reached (delays run 2s, 4s); it only
	// engages when callers configure unusually high retry counts.
	DefaultMaxBackoff = 5 * time.Minute
)

// Config holds the connector's connection and retry parameters.
// It is immutable after construction; the connector never re-reads the
// environment or any other global state once built.
type Config struct {
	// BaseURL is the root URL of the geoprocessing service (required).
	BaseURL string

	// Timeout bounds each individual request attempt. There is no overall
	// deadline across the retry sequence beyond the caller's context, so
	// worst-case latency is roughly MaxRetries*Timeout plus backoff delays.
	Timeout time.Duration

	// MaxRetries is the total number of attempts, including the first.
	// Must be at least 1.
	MaxRetries int

	// MaxBackoff caps the exponential backoff delay between attempts.
	MaxBackoff time.Duration
}

// DefaultConfig returns a Config populated from the environment and
// package defaults.
func DefaultConfig() Config {
	baseURL := os.Getenv(BaseURLEnvVar)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return Config{
		BaseURL:    baseURL,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
		MaxBackoff: DefaultMaxBackoff,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}

	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("base URL must include host")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", c.MaxRetries)
	}
	if c.MaxBackoff <= 0 {
		return fmt.Errorf("max backoff must be positive, got %v", c.MaxBackoff)
	}

	return nil
}
