package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventstack/rollcall/pkg/errors"
	"github.com/eventstack/rollcall/pkg/logging"
	"github.com/eventstack/rollcall/pkg/roster"
)

func newTestReconciler(t *testing.T, store *roster.Store) Reconciler {
	t.Helper()
	log := logging.NewTestLogger(t)
	rec, err := New(store, WithLogger(log.Logger))
	require.NoError(t, err)
	return rec
}

func TestApplyCreate(t *testing.T) {
	store := roster.NewMemory()
	rec := newTestReconciler(t, store)

	result, err := rec.Apply(context.Background(), Batch{
		BatchID: "b-1",
		Source:  "crm",
		Participants: []map[string]any{
			map[string]any{
				"participantId": "p-1",
				"firstName":     " Ann ",
				"lastName":      "Lee",
				"email":         " Ann@Example.com ",
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Status)
	assert.True(t, result.CreatedAny())
	assert.Equal(t, Counts{Processed: 1, Created: 1}, result.Counts)

	// The store holds the canonicalized record under its own identifier
	got, ok := store.Get("p-1")
	require.True(t, ok)
	assert.Equal(t, "Ann", got.FirstName)
	assert.Equal(t, "ann@example.com", got.Email)
	assert.Equal(t, "b-1", got.BatchID)
	assert.Equal(t, "crm", got.Source)
}

func TestApplyIdempotence(t *testing.T) {
	store := roster.NewMemory()
	rec := newTestReconciler(t, store)

	batch := Batch{
		BatchID: "b-1",
		Participants: []map[string]any{
			map[string]any{
				"participantId": "p-1",
				"firstName":     "Ann",
				"lastName":      "Lee",
				"email":         "ann@example.com",
				"metadata":      map[string]any{"tier": "gold"},
			},
			map[string]any{
				"participantId": "p-2",
				"firstName":     "Bob",
				"lastName":      "Ray",
				"email":         "bob@example.com",
			},
		},
	}

	first, err := rec.Apply(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Counts.Created)

	before := store.List()

	second, err := rec.Apply(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, Counts{Processed: 2, NoChange: 2}, second.Counts)
	assert.False(t, second.CreatedAny())

	// No business-field drift
	assert.Equal(t, before, store.List())
}

func TestApplySecondaryMatchConvergence(t *testing.T) {
	store := roster.NewMemory()
	rec := newTestReconciler(t, store)

	_, err := rec.Apply(context.Background(), Batch{
		Participants: []map[string]any{
			map[string]any{
				"participantId": "X",
				"firstName":     "Ann",
				"lastName":      "Lee",
				"email":         "a@b.com",
			},
		},
	})
	require.NoError(t, err)

	result, err := rec.Apply(context.Background(), Batch{
		Participants: []map[string]any{
			map[string]any{
				"participantId": "Y",
				"firstName":     "Ann",
				"lastName":      "Lee",
				"email":         "a@b.com",
				"phone":         "555-0100",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, Counts{Processed: 1, Updated: 1}, result.Counts)

	// Exactly one record for this person, under the original identifier
	assert.Equal(t, 1, store.Len())
	_, ok := store.Get("Y")
	assert.False(t, ok)

	got, ok := store.Get("X")
	require.True(t, ok)
	assert.Equal(t, "X", got.ParticipantID)
	assert.Equal(t, "555-0100", got.Phone)
}

func TestApplyMIDCoalescing(t *testing.T) {
	for _, key := range []string{"MID", "mId"} {
		t.Run(key, func(t *testing.T) {
			store := roster.NewMemory()
			rec := newTestReconciler(t, store)

			_, err := rec.Apply(context.Background(), Batch{
				Participants: []map[string]any{
					map[string]any{
						"participantId": "p-1",
						key:             " m-42 ",
					},
				},
			})
			require.NoError(t, err)

			got, ok := store.Get("p-1")
			require.True(t, ok)
			assert.Equal(t, "m-42", got.MID)

			m := got.AsMap()
			assert.Equal(t, "m-42", m["mid"])
			assert.NotContains(t, m, key)
		})
	}
}

func TestApplyFailFastOnInvalidBatch(t *testing.T) {
	store := roster.NewMemory()
	rec := newTestReconciler(t, store)

	result, err := rec.Apply(context.Background(), Batch{
		BatchID: "b-1",
		Participants: []map[string]any{
			map[string]any{"participantId": "p-1", "firstName": "Ann"},
			map[string]any{"participantId": "   ", "clientRecordId": "row-2"},
			map[string]any{"firstName": "NoID"},
		},
	})

	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, StatusFailed, result.Status)

	// Every invalid record is reported with its index
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Equal(t, "row-2", result.Errors[0].ClientRecordID)
	assert.Equal(t, errors.CodeValidation, result.Errors[0].Code)
	assert.Equal(t, 2, result.Errors[1].Index)

	// The store is completely unchanged: no partial creates
	assert.Equal(t, 0, store.Len())
}

func TestApplyEmptyBatchRejected(t *testing.T) {
	store := roster.NewMemory()
	rec := newTestReconciler(t, store)

	result, err := rec.Apply(context.Background(), Batch{BatchID: "b-1"})

	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, StatusFailed, result.Status)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, -1, result.Errors[0].Index)
}

func TestApplyBusinessEqualityIgnoresProvenance(t *testing.T) {
	store := roster.NewMemory()
	rec := newTestReconciler(t, store)

	_, err := rec.Apply(context.Background(), Batch{
		BatchID: "b-1",
		Source:  "crm",
		Participants: []map[string]any{
			map[string]any{
				"participantId": "p-1",
				"firstName":     "Ann",
				"lastName":      "Lee",
				"email":         "ann@example.com",
			},
		},
	})
	require.NoError(t, err)

	// Same business fields, different provenance and identifier
	// (resolves via secondary match): still a no-change outcome.
	result, err := rec.Apply(context.Background(), Batch{
		BatchID: "b-2",
		Source:  "import",
		Participants: []map[string]any{
			map[string]any{
				"participantId": "p-other",
				"firstName":     "Ann",
				"lastName":      "Lee",
				"email":         "ann@example.com",
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, Counts{Processed: 1, NoChange: 1}, result.Counts)

	// Provenance still refreshed on the existing record
	got, ok := store.Get("p-1")
	require.True(t, ok)
	assert.Equal(t, "b-2", got.BatchID)
	assert.Equal(t, "import", got.Source)
	assert.Equal(t, 1, store.Len())
}

func TestApplyWithinBatchDeduplication(t *testing.T) {
	store := roster.NewMemory()
	rec := newTestReconciler(t, store)

	// Two records for the same new person arrive consecutively under
	// different identifiers; the second resolves against the first via
	// secondary match.
	result, err := rec.Apply(context.Background(), Batch{
		Participants: []map[string]any{
			map[string]any{
				"participantId": "A",
				"firstName":     "Ann",
				"lastName":      "Lee",
				"email":         "ann@example.com",
			},
			map[string]any{
				"participantId": "B",
				"firstName":     "Ann",
				"lastName":      "Lee",
				"email":         "ann@example.com",
				"phone":         "555-0100",
			},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, Counts{Processed: 2, Created: 1, Updated: 1}, result.Counts)
	assert.Equal(t, 1, store.Len())

	got, ok := store.Get("A")
	require.True(t, ok)
	assert.Equal(t, "555-0100", got.Phone)
}

func TestApplyRoundTripDurability(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "participants.yaml")

	store, err := roster.Open(path)
	require.NoError(t, err)
	rec := newTestReconciler(t, store)

	batches := []Batch{
		{
			BatchID: "b-1",
			Source:  "crm",
			Participants: []map[string]any{
				map[string]any{
					"participantId": "p-1",
					"firstName":     "Ann",
					"lastName":      "Lee",
					"email":         "ann@example.com",
					"metadata":      map[string]any{"tier": "gold"},
				},
			},
		},
		{
			BatchID: "b-2",
			Participants: []map[string]any{
				map[string]any{
					"participantId": "p-1",
					"phone":         "555-0100",
					"firstName":     "Ann",
					"lastName":      "Lee",
					"email":         "ann@example.com",
					"metadata":      map[string]any{"tier": "gold"},
				},
				map[string]any{
					"participantId": "p-2",
					"firstName":     "Bob",
					"lastName":      "Ray",
					"email":         "bob@example.com",
				},
			},
		},
	}

	for _, batch := range batches {
		_, err := rec.Apply(context.Background(), batch)
		require.NoError(t, err)
	}

	reloaded, err := roster.Open(path)
	require.NoError(t, err)
	assert.Equal(t, store.List(), reloaded.List())
}

func TestApplyCommitFailureLeavesStoreUntouched(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	path := filepath.Join(dir, "data", "participants.yaml")

	store, err := roster.Open(path)
	require.NoError(t, err)
	rec := newTestReconciler(t, store)

	_, err = rec.Apply(context.Background(), Batch{
		Participants: []map[string]any{
			map[string]any{"participantId": "p-1", "firstName": "Ann"},
		},
	})
	require.NoError(t, err)

	// Occupy the store's directory path with a plain file so the next
	// flush must fail, then submit a batch that would merge into p-1.
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "data")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data"), []byte("in the way"), 0o644))

	result, err := rec.Apply(context.Background(), Batch{
		Participants: []map[string]any{
			map[string]any{"participantId": "p-1", "firstName": "Ann", "phone": "555-0100"},
		},
	})
	require.Error(t, err)
	assert.Equal(t, StatusFailed, result.Status)

	// The staged merge was rolled back; p-1 reads as before the batch.
	got, ok := store.Get("p-1")
	require.True(t, ok)
	assert.Equal(t, "", got.Phone)
	assert.Equal(t, 1, store.Len())
}

func TestApplyCommitFailureReportsIO(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0o755))
	path := filepath.Join(dir, "data", "participants.yaml")

	store, err := roster.Open(path)
	require.NoError(t, err)
	rec := newTestReconciler(t, store)

	// Seed one record, then make the directory path unusable by
	// replacing it with a plain file before the next batch commits.
	_, err = rec.Apply(context.Background(), Batch{
		Participants: []map[string]any{
			map[string]any{"participantId": "p-1", "firstName": "Ann"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(filepath.Join(dir, "data")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data"), []byte("in the way"), 0o644))

	result, err := rec.Apply(context.Background(), Batch{
		Participants: []map[string]any{
			map[string]any{"participantId": "p-2", "firstName": "Bob"},
		},
	})

	require.Error(t, err)
	assert.True(t, errors.IsIO(err))
	assert.Equal(t, StatusFailed, result.Status)

	// The staged record never became visible
	_, ok := store.Get("p-2")
	assert.False(t, ok)
	assert.Equal(t, 1, store.Len())
}

func TestApplyLogsBatchOutcome(t *testing.T) {
	store := roster.NewMemory()
	log := logging.NewTestLogger(t)
	rec, err := New(store, WithLogger(log.Logger))
	require.NoError(t, err)

	_, err = rec.Apply(context.Background(), Batch{
		BatchID: "b-7",
		Participants: []map[string]any{
			map[string]any{"participantId": "p-1", "firstName": "Ann"},
		},
	})
	require.NoError(t, err)

	assert.True(t, log.Contains(`"batch_id":"b-7"`))
	assert.True(t, log.Contains("Record applied"))
	assert.True(t, log.Contains("Batch applied"))
}

func TestApplyLogsValidationRejection(t *testing.T) {
	store := roster.NewMemory()
	log := logging.NewTestLogger(t)
	rec, err := New(store, WithLogger(log.Logger))
	require.NoError(t, err)

	_, err = rec.Apply(context.Background(), Batch{
		BatchID:      "b-8",
		Participants: []map[string]any{map[string]any{"firstName": "Ann"}},
	})
	require.Error(t, err)

	output := log.Output()
	assert.Contains(t, output, "Batch rejected by validation")
	assert.NotEmpty(t, log.Lines())
}
