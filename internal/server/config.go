package server

// Config holds the HTTP server configuration.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string

	// PathPrefix is prepended to all API routes, e.g. "/api/v1".
	// Health stays unprefixed either way.
	PathPrefix string
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Addr:       ":8080",
		PathPrefix: "/api/v1",
	}
}
