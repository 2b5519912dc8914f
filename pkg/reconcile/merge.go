package reconcile

import (
	"github.com/eventstack/rollcall/pkg/roster"
)

// Outcome classifies what applying one record did to the store.
type Outcome int

const (
	// Created means the record introduced a new entity.
	Created Outcome = iota
	// NoChange means the record matched an entity it is business-equal
	// to; only provenance was refreshed.
	NoChange
	// Merged means the record updated an existing entity's fields.
	Merged
)

// String returns a readable form of the outcome.
func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case NoChange:
		return "no-change"
	default:
		return "merged"
	}
}

// Decide computes the record to persist for a resolved incoming record.
// It returns the identifier to persist under, the record to store, and
// the outcome. Identity is anchored to whichever identifier the store
// already recognizes: on a secondary match the merged record keeps the
// existing participantId, so the store converges to a single canonical
// identifier per natural person.
func Decide(m Match, incoming *roster.Record) (string, *roster.Record, Outcome) {
	if m.Kind == NoMatch {
		return incoming.ParticipantID, incoming, Created
	}

	if roster.BusinessEqual(m.Existing, incoming) {
		// Keep the existing record's fields, refresh provenance only.
		kept := m.Existing.Clone()
		applyProvenance(kept, incoming)
		return m.ID, kept, NoChange
	}

	merged := shallowMerge(m.Existing, incoming)
	merged.ParticipantID = m.ID
	return m.ID, merged, Merged
}

// shallowMerge starts from the existing record and overwrites every
// field present in the incoming one: field-level replace, not deep
// merge. Extra keys replace per key; absent incoming fields leave the
// existing values untouched.
func shallowMerge(existing, incoming *roster.Record) *roster.Record {
	merged := existing.Clone()

	if incoming.ParticipantID != "" {
		merged.ParticipantID = incoming.ParticipantID
	}
	if incoming.FirstName != "" {
		merged.FirstName = incoming.FirstName
	}
	if incoming.LastName != "" {
		merged.LastName = incoming.LastName
	}
	if incoming.Email != "" {
		merged.Email = incoming.Email
	}
	if incoming.Username != "" {
		merged.Username = incoming.Username
	}
	if incoming.Phone != "" {
		merged.Phone = incoming.Phone
	}
	if incoming.AttendanceStatus != "" {
		merged.AttendanceStatus = incoming.AttendanceStatus
	}
	if incoming.Metadata != nil {
		merged.Metadata = incoming.Metadata
	}
	for k, v := range incoming.Extra {
		if merged.Extra == nil {
			merged.Extra = make(map[string]any, len(incoming.Extra))
		}
		merged.Extra[k] = v
	}

	applyProvenance(merged, incoming)
	return merged
}

// applyProvenance forces the incoming provenance fields (mid when the
// incoming record carried one, batchId, source) onto target regardless
// of the business-equality outcome.
func applyProvenance(target, incoming *roster.Record) {
	if incoming.MID != "" {
		target.MID = incoming.MID
	}
	if incoming.BatchID != "" {
		target.BatchID = incoming.BatchID
	}
	if incoming.Source != "" {
		target.Source = incoming.Source
	}
}
