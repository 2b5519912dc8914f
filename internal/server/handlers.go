package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/eventstack/rollcall/internal/server/response"
	"github.com/eventstack/rollcall/pkg/constants"
	"github.com/eventstack/rollcall/pkg/logging"
	"github.com/eventstack/rollcall/pkg/reconcile"
)

// handleUpsertBatch decodes a JSON batch and hands it to the
// reconciliation engine. Status mapping: 201 when at least one record
// was created, 200 when the batch applied with only updates or
// no-change outcomes, 400 on validation failure, 500 on IO or unknown
// failures. The aggregate result rides in the response body either way.
func (s *Server) handleUpsertBatch(w http.ResponseWriter, r *http.Request) {
	defer func() { _ = r.Body.Close() }()

	var batch reconcile.Batch
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, constants.MaxRequestBody))
	if err := dec.Decode(&batch); err != nil {
		response.BadRequest(w, "invalid JSON payload", err.Error())
		return
	}

	ctx := logging.WithLogger(r.Context(), s.logger)
	result, err := s.reconciler.Apply(ctx, batch)
	if err != nil {
		response.FromError(w, err, result)
		return
	}

	if result.CreatedAny() {
		response.Created(w, result)
		return
	}
	response.OK(w, result)
}

// handleGetParticipant serves the primary lookup.
func (s *Server) handleGetParticipant(w http.ResponseWriter, _ *http.Request, id string) {
	record, ok := s.store.Get(id)
	if !ok {
		response.NotFound(w, "participant not found")
		return
	}
	response.OK(w, record.AsMap())
}

// handleListParticipants returns every stored record, ordered by
// identifier.
func (s *Server) handleListParticipants(w http.ResponseWriter, _ *http.Request) {
	records := s.store.List()
	out := make([]map[string]any, 0, len(records))
	for _, record := range records {
		out = append(out, record.AsMap())
	}
	response.OK(w, map[string]any{
		"participants": out,
		"total":        len(out),
	})
}

// handleHealth reports liveness and the current store size.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":       "ok",
		"participants": s.store.Len(),
		"uptime":       time.Since(s.startTime).Round(time.Second).String(),
	})
}
