package config

import "time"

// Store backends
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Environments
const (
	EnvironmentDev        = "dev"
	EnvironmentProduction = "prod"
)

// Defaults
const (
	DefaultPort              = "8080"
	DefaultTimezone          = "Asia/Bangkok"
	DefaultResetWeekday      = "sunday"
	DefaultSweepCron         = "0 55 23 * * *"
	DefaultRequestTimeout    = 5 * time.Second
	DefaultPotCacheSize      = 1024
	DefaultPotCacheTTL       = 5 * time.Minute
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
	DefaultEventRetention    = 30 // days
	DefaultEventMaxRetries   = 5
	DefaultEventRetryDelay   = 2 * time.Second
	DefaultWorkerCount       = 2
	DefaultWorkerQueueSize   = 16
	DefaultDeadLetterFile    = "deadletter.jsonl"
	DefaultRateLimitRequests = 1000
	DefaultRateLimitWindow   = 5 * time.Minute
	DefaultDBPassword        = "postgres"
	MinAPIKeyLength          = 32
)
