package confluence

import (
	"os"
	"strconv"
	"time"
)

// Config configures both the producer and the downloader: the Confluence
// REST API root, credentials, the space to enumerate, and pagination and
// recency-filter knobs.
type Config struct {
	BaseURL       string
	Username      string
	APIKey        string
	Space         string
	Cloud         bool
	Skip          int
	MaxPages      int
	PageBatchSize int
	Concurrency   int
	MonthsBack    int
	RandomSelection bool
	RequestTimeout  time.Duration
}

// DefaultConfig mirrors the defaults in the original argparse layer.
func DefaultConfig() Config {
	return Config{
		PageBatchSize:  25,
		Concurrency:    4,
		MaxPages:       100,
		RequestTimeout: 30 * time.Second,
	}
}

// FromEnv overlays environment variables onto c, following the
// args-override-env precedence used throughout the CLI: call FromEnv
// first, then apply flags on top.
func (c Config) FromEnv() Config {
	if v := os.Getenv("CONFLUENCE_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("CONFLUENCE_USERNAME"); v != "" {
		c.Username = v
	}
	if v := os.Getenv("CONFLUENCE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("CONFLUENCE_SPACE"); v != "" {
		c.Space = v
	}
	if v := os.Getenv("CONFLUENCE_CLOUD"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cloud = b
		}
	}
	if v := os.Getenv("CONFLUENCE_MONTHS_BACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MonthsBack = n
		}
	}
	return c
}

// Validate reports fatal configuration errors, to be checked before the
// run loop starts.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errMissing("CONFLUENCE_BASE_URL")
	}
	if c.APIKey == "" {
		return errMissing("CONFLUENCE_API_KEY")
	}
	if c.Space == "" {
		return errMissing("CONFLUENCE_SPACE")
	}
	return nil
}
