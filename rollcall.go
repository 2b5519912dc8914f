// Package rollcall is the library entry point for the participant
// reconciliation engine. It binds a durable roster store to the batch
// reconciler behind a single handle; the CLI and the HTTP server are
// thin shells over this package.
package rollcall

import (
	"context"
	"fmt"

	"github.com/eventstack/rollcall/pkg/reconcile"
	"github.com/eventstack/rollcall/pkg/roster"
)

// Rollcall manages a participant store and applies batches against it.
type Rollcall interface {
	// Apply runs one batch through the reconciliation engine. The
	// batch either fully applies or leaves the store untouched.
	Apply(ctx context.Context, batch reconcile.Batch) (*reconcile.Result, error)

	// Participant returns a copy of one stored record by identifier.
	Participant(id string) (*roster.Record, bool)

	// Participants returns copies of every stored record, ordered by
	// identifier.
	Participants() []*roster.Record

	// Store exposes the underlying store for transports that serve it
	// directly.
	Store() *roster.Store
}

// rollcall is the internal implementation of the Rollcall interface.
type rollcall struct {
	store      *roster.Store
	reconciler reconcile.Reconciler
	config     *config
}

// New creates a new Rollcall instance with the given options.
func New(opts ...Option) (Rollcall, error) {
	rc := &rollcall{config: defaultConfig()}

	if err := rc.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	// Use the provided store or open the configured path.
	if rc.config.store != nil {
		rc.store = rc.config.store
	} else {
		store, err := roster.Open(rc.config.path)
		if err != nil {
			return nil, fmt.Errorf("opening store at %s: %w", rc.config.path, err)
		}
		rc.store = store
	}

	rec, err := reconcile.New(rc.store, reconcile.WithLogger(rc.config.logger))
	if err != nil {
		return nil, fmt.Errorf("building reconciler: %w", err)
	}
	rc.reconciler = rec

	return rc, nil
}

// options applies the given options to the configuration.
func (r *rollcall) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(r.config); err != nil {
			return err
		}
	}
	return nil
}

func (r *rollcall) Apply(ctx context.Context, batch reconcile.Batch) (*reconcile.Result, error) {
	return r.reconciler.Apply(ctx, batch)
}

func (r *rollcall) Participant(id string) (*roster.Record, bool) {
	return r.store.Get(id)
}

func (r *rollcall) Participants() []*roster.Record {
	return r.store.List()
}

func (r *rollcall) Store() *roster.Store {
	return r.store
}
