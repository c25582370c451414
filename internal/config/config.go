package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	ServiceName string
	Version     string
	APIKey      string // API key for authentication
	// TrustedProxies are peer addresses or CIDR ranges whose X-Forwarded-For is honored
	TrustedProxies    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration

	Store             string // postgres | memory
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	// Calendar
	Timezone     string
	ResetWeekday string

	// Penalty sweep
	SweepEnabled bool
	SweepCron    string

	RequestTimeout time.Duration
	PotCacheSize   int
	PotCacheTTL    time.Duration

	// Event publishing
	EventMaxRetries    int
	EventRetryDelay    time.Duration
	EventRetentionDays int
	WorkerCount        int
	WorkerQueueSize    int
}

// Load loads the configuration from environment variables. The server
// refuses to start without an API key.
func Load() (*Config, error) {
	cfg, err := LoadWithoutAuth()
	if err != nil {
		return nil, err
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}
	return cfg, nil
}

// LoadWithoutAuth loads the configuration for local tooling that talks to the
// store directly and never serves HTTP
func LoadWithoutAuth() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		LogDir:         getEnv("LOG_DIR", "logs"),
		Environment:    getEnv("ENVIRONMENT", EnvironmentDev),
		ServiceName:    getEnv("SERVICE_NAME", "pot-settle"),
		Version:        getEnv("VERSION", "dev"),
		APIKey:         getEnv("API_KEY", ""),
		TrustedProxies: getEnvAsList("TRUSTED_PROXIES"),

		RateLimitRequests: getEnvAsInt("RATE_LIMIT_REQUESTS", DefaultRateLimitRequests),
		RateLimitWindow:   getEnvAsDuration("RATE_LIMIT_WINDOW", DefaultRateLimitWindow),

		Store:             strings.ToLower(getEnv("STORE", StorePostgres)),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", DefaultDBPassword),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "potsettle"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		Timezone:     getEnv("TIMEZONE", DefaultTimezone),
		ResetWeekday: getEnv("RESET_WEEKDAY", DefaultResetWeekday),

		SweepEnabled: getEnvAsBool("SWEEP_ENABLED", true),
		SweepCron:    getEnv("SWEEP_CRON", DefaultSweepCron),

		RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
		PotCacheSize:   getEnvAsInt("POT_CACHE_SIZE", DefaultPotCacheSize),
		PotCacheTTL:    getEnvAsDuration("POT_CACHE_TTL", DefaultPotCacheTTL),

		EventMaxRetries:    getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay:    getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		EventRetentionDays: getEnvAsInt("EVENT_RETENTION_DAYS", DefaultEventRetention),
		WorkerCount:        getEnvAsInt("WORKER_COUNT", DefaultWorkerCount),
		WorkerQueueSize:    getEnvAsInt("WORKER_QUEUE_SIZE", DefaultWorkerQueueSize),
	}

	portStr := getEnv("PORT", DefaultPort)
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

func getEnvAsBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return v
}

// getEnvAsList splits a comma separated variable, dropping empty items
func getEnvAsList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// DeadLetterPath is where events that exhausted their retries are written
func (c *Config) DeadLetterPath() string {
	return filepath.Join(c.LogDir, DefaultDeadLetterFile)
}
