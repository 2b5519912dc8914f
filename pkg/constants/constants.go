// Package constants provides shared constants used throughout the rollcall codebase.
// This includes timeouts, file permissions, and other configuration values
// that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// ServerReadTimeout is the maximum duration for reading an entire request
	ServerReadTimeout = 15 * time.Second

	// ServerWriteTimeout is the maximum duration before timing out response writes
	ServerWriteTimeout = 15 * time.Second

	// ServerShutdownTimeout is how long to wait for in-flight requests on shutdown
	ServerShutdownTimeout = 5 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// MaxRequestBody is the maximum accepted size of an inbound batch payload
	MaxRequestBody = 8 << 20 // 8 MiB

	// DefaultStorePath is where the participant store is persisted when
	// no path is configured
	DefaultStorePath = "data/participants.yaml"
)
