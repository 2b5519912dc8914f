package rollcall

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventstack/rollcall/pkg/logging"
	"github.com/eventstack/rollcall/pkg/reconcile"
	"github.com/eventstack/rollcall/pkg/roster"
)

func TestNewWithStore(t *testing.T) {
	log := logging.NewTestLogger(t)
	rc, err := New(WithStore(roster.NewMemory()), WithLogger(log.Logger))
	require.NoError(t, err)

	result, err := rc.Apply(context.Background(), reconcile.Batch{
		BatchID: "b-1",
		Source:  "portal",
		Participants: []map[string]any{
			{"participantId": "p-1", "firstName": "Ada", "email": "ada@example.com"},
			{"participantId": "p-2", "firstName": "Grace"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, reconcile.StatusCompleted, result.Status)
	assert.Equal(t, 2, result.Counts.Created)

	record, ok := rc.Participant("p-1")
	require.True(t, ok)
	assert.Equal(t, "Ada", record.FirstName)

	_, ok = rc.Participant("missing")
	assert.False(t, ok)

	records := rc.Participants()
	require.Len(t, records, 2)
	assert.Equal(t, "p-1", records[0].ParticipantID)
	assert.Equal(t, "p-2", records[1].ParticipantID)
}

func TestNewOpensPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "participants.yaml")
	log := logging.NewTestLogger(t)

	rc, err := New(WithPath(path), WithLogger(log.Logger))
	require.NoError(t, err)

	_, err = rc.Apply(context.Background(), reconcile.Batch{
		Participants: []map[string]any{
			{"participantId": "p-1", "firstName": "Ada"},
		},
	})
	require.NoError(t, err)

	// A fresh instance over the same path sees the applied batch.
	reopened, err := New(WithPath(path), WithLogger(log.Logger))
	require.NoError(t, err)

	record, ok := reopened.Participant("p-1")
	require.True(t, ok)
	assert.Equal(t, "Ada", record.FirstName)
}

func TestNewOptionError(t *testing.T) {
	failing := func(*config) error { return assert.AnError }

	_, err := New(Option(failing))
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}
