package store

import (
	"os"
	"strconv"
	"time"
)

// Config addresses the SQLite database file and its lock-wait timeout.
type Config struct {
	Database string
	Timeout  time.Duration
}

func DefaultConfig() Config {
	return Config{Database: "slurp.db", Timeout: 30 * time.Second}
}

func (c Config) FromEnv() Config {
	if v := os.Getenv("SQLITE_DATABASE"); v != "" {
		c.Database = v
	}
	if v := os.Getenv("SQLITE_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.Timeout = time.Duration(secs) * time.Second
		}
	}
	return c
}

func (c Config) Validate() error {
	if c.Database == "" {
		return errMissingDatabase
	}
	return nil
}
