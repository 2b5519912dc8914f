// Package reconcile contains the reconciliation engine: it drives a
// batch of incoming participant records through canonicalization,
// match resolution and merge decision, and commits the staged result to
// the record store in one atomic step.
package reconcile

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/eventstack/rollcall/pkg/errors"
	"github.com/eventstack/rollcall/pkg/logging"
	"github.com/eventstack/rollcall/pkg/roster"
)

// Batch is one inbound reconciliation request: optional provenance plus
// a non-empty ordered sequence of raw records, each an open field
// mapping.
type Batch struct {
	BatchID      string           `json:"batchId,omitempty" yaml:"batchId,omitempty"`
	Source       string           `json:"source,omitempty" yaml:"source,omitempty"`
	Participants []map[string]any `json:"participants" yaml:"participants"`
}

// clientRecordKey is echoed back in error items when the caller tags
// records with its own correlation id.
const clientRecordKey = "clientRecordId"

// Reconciler applies batches to a record store.
type Reconciler interface {
	// Apply validates and applies one batch. The batch either fully
	// applies or leaves the store byte-for-byte as it was; the returned
	// Result is populated in both cases.
	Apply(ctx context.Context, batch Batch) (*Result, error)
}

// reconciler is the default implementation of Reconciler.
type reconciler struct {
	store  *roster.Store
	logger *zerolog.Logger

	// mu serializes whole batches. A batch holds it for all of its
	// records plus the final flush, so two batches never interleave
	// their lookups and writes and never race on the persisted file.
	mu sync.Mutex
}

// Option configures a Reconciler.
type Option func(*reconciler) error

// WithLogger sets the logger used for per-batch reporting.
func WithLogger(logger *zerolog.Logger) Option {
	return func(r *reconciler) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		r.logger = logger
		return nil
	}
}

// New creates a Reconciler over the given store.
func New(store *roster.Store, opts ...Option) (Reconciler, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}

	r := &reconciler{
		store:  store,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Apply validates the entire batch before mutating anything, then
// processes records strictly in input order against a staged snapshot
// of the store. Because each record's decision is written to the
// snapshot immediately, later records in the same batch observe the
// effects of earlier ones (within-batch deduplication via the
// secondary match). After all records are applied the snapshot is
// committed and flushed once.
func (r *reconciler) Apply(ctx context.Context, batch Batch) (*Result, error) {
	log := r.logger
	if batch.BatchID != "" {
		ctx = logging.WithBatchID(logging.WithLogger(ctx, log), batch.BatchID)
		log = logging.FromContext(ctx)
	}

	result := &Result{BatchID: batch.BatchID, Status: StatusCompleted}

	// Fail fast: a batch with any invalid record applies nothing.
	if items, err := validate(batch); err != nil {
		result.Status = StatusFailed
		result.Errors = items
		result.Counts.Failed = len(items)
		log.Warn().
			Str("batch_id", batch.BatchID).
			Int("invalid", len(items)).
			Msg("Batch rejected by validation")
		return result, errors.NewBatchError(batch.BatchID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.store.Snapshot()

	for i, raw := range batch.Participants {
		record := roster.Decode(raw)
		roster.Canonicalize(record, batch.BatchID, batch.Source)

		match := Resolve(snap, record)
		id, decided, outcome := Decide(match, record)
		snap.Put(id, decided)

		result.Counts.Processed++
		switch outcome {
		case Created:
			result.Counts.Created++
		case NoChange:
			result.Counts.NoChange++
		case Merged:
			result.Counts.Updated++
		}

		log.Debug().
			Int("index", i).
			Str("participant_id", id).
			Str("match", match.Kind.String()).
			Str("outcome", outcome.String()).
			Msg("Record applied")
	}

	if err := r.store.Commit(snap); err != nil {
		// The store restored its previous state; report the batch as
		// fully failed.
		result.Status = StatusFailed
		result.Counts = Counts{Failed: len(batch.Participants)}
		result.Errors = nil
		log.Error().
			Err(err).
			Str("batch_id", batch.BatchID).
			Msg("Batch commit failed")
		return result, errors.NewBatchError(batch.BatchID, err)
	}

	log.Info().
		Str("batch_id", batch.BatchID).
		Int("processed", result.Counts.Processed).
		Int("created", result.Counts.Created).
		Int("updated", result.Counts.Updated).
		Int("no_change", result.Counts.NoChange).
		Msg("Batch applied")

	return result, nil
}

// validate checks the whole batch eagerly, before any store mutation.
// It reports every invalid record so callers can fix the batch in one
// round trip.
func validate(batch Batch) ([]ErrorItem, error) {
	if len(batch.Participants) == 0 {
		err := errors.NewValidationError("participants", "array is required and must be non-empty")
		return []ErrorItem{{
			Index:   -1,
			Code:    errors.CodeValidation,
			Message: err.Message,
		}}, err
	}

	var items []ErrorItem
	var first error
	for i, raw := range batch.Participants {
		pid := roster.StringField(raw, roster.KeyParticipantID)
		if strings.TrimSpace(pid) == "" {
			err := errors.NewRecordValidationError(i, roster.KeyParticipantID, "must be present and non-blank")
			if first == nil {
				first = err
			}
			items = append(items, ErrorItem{
				Index:          i,
				ClientRecordID: roster.StringField(raw, clientRecordKey),
				Code:           errors.CodeValidation,
				Message:        err.Message,
			})
		}
	}
	if first != nil {
		return items, first
	}
	return nil, nil
}
