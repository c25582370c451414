package database

// DefaultMinConnections is kept open in every pool
const DefaultMinConnections = 2

// Migration commands accepted by Migrate
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
	MigrateReset  = "reset"
)

const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToSetDialect      = "failed to set migration dialect"
	ErrMsgUnknownMigrateCommand   = "unknown migrate command"
	ErrMsgMigrationFailed         = "migration failed"
)

const (
	LogMsgConnectedToDatabase      = "Connected to database"
	LogMsgFailedToCloseMigrationDB = "Failed to close migration connection"
)
