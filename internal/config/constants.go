package config

import "time"

// CreditScale is the fixed-point factor for credit arithmetic:
// 1 credit = 1000 millicredits. Balances and costs are integer millicredits
// everywhere inside the core; floats appear only in HTTP responses.
const CreditScale = 1000

// Database connection pool settings
const (
	DBMaxOpenConns    = 25
	DBMaxIdleConns    = 5
	DBConnMaxLifetime = 5 * time.Minute
)

// HTTP server timeouts. The generation call can hold a request for several
// seconds, so the request timeout is generous.
const (
	ServerRequestTimeout  = 90 * time.Second
	ServerReadTimeout     = 15 * time.Second
	ServerIdleTimeout     = 120 * time.Second
	ServerShutdownTimeout = 30 * time.Second
)

// Database ping timeout for health checks
const DBPingTimeout = 5 * time.Second

// Background job intervals
const CleanupJobInterval = 15 * time.Minute

// Outbound generation call timeout
const GenerationTimeout = 60 * time.Second

// MaxRequestBodyBytes caps inbound request payloads. The largest legitimate
// body is a generation request, which the per-spec size limits keep far
// below 1MB.
const MaxRequestBodyBytes = 1 << 20
