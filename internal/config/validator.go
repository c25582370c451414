package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // zone database for hosts without one

	"github.com/robfig/cron/v3"

	"github.com/osse101/PotSettle_Go/internal/calendar"
)

// Warnings lists settings that load and validate but look wrong for the
// configured environment
func (c *Config) Warnings() []string {
	var warnings []string
	prod := c.Environment == EnvironmentProduction

	if c.APIKey != "" && len(c.APIKey) < MinAPIKeyLength {
		warnings = append(warnings, fmt.Sprintf("API_KEY is shorter than %d characters; generate one with: openssl rand -hex 32", MinAPIKeyLength))
	}
	if prod && c.Store == StoreMemory {
		warnings = append(warnings, "STORE=memory loses every pot on restart")
	}
	if prod && c.Store == StorePostgres && c.DBPassword == DefaultDBPassword {
		warnings = append(warnings, "DB_PASSWORD is the default value")
	}
	if !c.SweepEnabled {
		warnings = append(warnings, "SWEEP_ENABLED=false: missed predictions are only penalized through explicit checks")
	}
	if c.EventRetentionDays <= 0 {
		warnings = append(warnings, "EVENT_RETENTION_DAYS is not positive; the audit log is never purged")
	}
	return warnings
}

// Validate checks value ranges of a loaded config. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.Store != StorePostgres && c.Store != StoreMemory {
		errs = append(errs, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, c.Store))
	}
	if c.Store == StorePostgres && c.DBMaxConns < 1 {
		errs = append(errs, fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q: %w", c.Timezone, err))
	}
	if _, err := calendar.ParseWeekday(c.ResetWeekday); err != nil {
		errs = append(errs, fmt.Errorf("RESET_WEEKDAY: %w", err))
	}
	if c.SweepEnabled {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.SweepCron); err != nil {
			errs = append(errs, fmt.Errorf("SWEEP_CRON %q: %w", c.SweepCron, err))
		}
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout))
	}
	if c.PotCacheSize < 1 {
		errs = append(errs, fmt.Errorf("POT_CACHE_SIZE must be positive, got %d", c.PotCacheSize))
	}
	if c.EventMaxRetries < 0 {
		errs = append(errs, fmt.Errorf("EVENT_MAX_RETRIES must not be negative, got %d", c.EventMaxRetries))
	}
	if c.RateLimitRequests < 1 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.RateLimitRequests))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow))
	}
	if c.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be positive, got %d", c.WorkerCount))
	}

	return errors.Join(errs...)
}

// Location returns the canonical calendar time zone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// ResetDay returns the configured weekly reset day
func (c *Config) ResetDay() (time.Weekday, error) {
	return calendar.ParseWeekday(c.ResetWeekday)
}
