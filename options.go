package rollcall

import (
	"github.com/rs/zerolog"

	"github.com/eventstack/rollcall/pkg/constants"
	"github.com/eventstack/rollcall/pkg/logging"
	"github.com/eventstack/rollcall/pkg/roster"
)

// Option is a function that configures a Rollcall instance.
type Option func(*config) error

// config holds the assembled configuration for New.
type config struct {
	path   string
	store  *roster.Store
	logger *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		path:   constants.DefaultStorePath,
		logger: logging.Default(),
	}
}

// WithPath configures the file the participant store persists to.
func WithPath(path string) Option {
	return func(c *config) error {
		c.path = path
		return nil
	}
}

// WithStore configures an already-open store to use instead of opening
// one from a path. Useful for in-memory stores in tests.
func WithStore(store *roster.Store) Option {
	return func(c *config) error {
		c.store = store
		return nil
	}
}

// WithLogger configures the logger handed to the reconciler.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
