package reconcile

import (
	"github.com/eventstack/rollcall/pkg/roster"
)

// MatchKind classifies how an incoming record relates to stored state.
type MatchKind int

const (
	// NoMatch means no stored entity corresponds to the record.
	NoMatch MatchKind = iota
	// MatchedSameID means the record's own participantId is already
	// stored.
	MatchedSameID
	// MatchedOtherID means the composite key hit a record stored under
	// a different identifier: the same person re-submitted under a
	// newly-assigned id.
	MatchedOtherID
)

// String returns a readable form of the match kind.
func (k MatchKind) String() string {
	switch k {
	case MatchedSameID:
		return "same-id"
	case MatchedOtherID:
		return "other-id"
	default:
		return "no-match"
	}
}

// Match is the resolver's verdict for one record. ID and Existing are
// set for both matched kinds; ID is always the identifier the store
// already recognizes.
type Match struct {
	Kind     MatchKind
	ID       string
	Existing *roster.Record
}

// StoreView is the read surface the resolver needs. Both the store and
// a staged batch snapshot satisfy it, so within-batch lookups observe
// the effects of earlier records in the same batch.
type StoreView interface {
	Get(id string) (*roster.Record, bool)
	FindByComposite(firstName, lastName, email string) (string, *roster.Record, bool)
}

// Resolve performs the two-level match, short-circuiting on the first
// hit: primary lookup by participantId, then the normalized composite
// lookup. The record must already be canonicalized.
func Resolve(view StoreView, record *roster.Record) Match {
	if existing, ok := view.Get(record.ParticipantID); ok {
		return Match{Kind: MatchedSameID, ID: record.ParticipantID, Existing: existing}
	}

	if id, existing, ok := view.FindByComposite(record.FirstName, record.LastName, record.Email); ok {
		return Match{Kind: MatchedOtherID, ID: id, Existing: existing}
	}

	return Match{Kind: NoMatch}
}
