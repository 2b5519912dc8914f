package roster

import (
	"strings"

	"golang.org/x/text/cases"
)

// folder performs Unicode case folding for case-insensitive comparison
// of composite key components.
var folder = cases.Fold()

// Canonicalize normalizes a record in place before it participates in
// matching or merging:
//
//   - firstName, lastName, username, phone and attendanceStatus are
//     trimmed of leading/trailing whitespace;
//   - email is trimmed and lower-cased;
//   - the MID key variants (mid, MID, mId) are coalesced onto the
//     canonical mid field, first present non-blank value wins;
//   - a non-empty batchID/source overwrites the record's provenance.
//
// The function is idempotent: re-applying it produces the same record.
func Canonicalize(r *Record, batchID, source string) {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Username = strings.TrimSpace(r.Username)
	r.Phone = strings.TrimSpace(r.Phone)
	r.AttendanceStatus = strings.TrimSpace(r.AttendanceStatus)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.ParticipantID = strings.TrimSpace(r.ParticipantID)

	coalesceMID(r)

	if batchID != "" {
		r.BatchID = batchID
	}
	if source != "" {
		r.Source = source
	}
}

// coalesceMID scans the MID key variants in priority order and writes
// the first present, non-blank trimmed value back under the canonical
// field. The variant keys are dropped from Extra either way; absence of
// all three leaves mid untouched.
func coalesceMID(r *Record) {
	value := ""
	for _, key := range midKeyVariants {
		var candidate string
		if key == KeyMID {
			candidate = r.MID
		} else if r.Extra != nil {
			candidate = coerceString(r.Extra[key])
		}
		if value == "" {
			if trimmed := strings.TrimSpace(candidate); trimmed != "" {
				value = trimmed
			}
		}
		if key != KeyMID {
			delete(r.Extra, key)
		}
	}
	if value != "" {
		r.MID = value
	}
	if len(r.Extra) == 0 {
		r.Extra = nil
	}
}

// CompositeKey is the normalized (firstName, lastName, email) tuple
// used for secondary identity resolution.
type CompositeKey struct {
	FirstName string
	LastName  string
	Email     string
}

// NewCompositeKey normalizes the three components (trim plus Unicode
// case folding). The second return is false when any component is empty
// after normalization; such records never participate in secondary
// matching.
func NewCompositeKey(firstName, lastName, email string) (CompositeKey, bool) {
	key := CompositeKey{
		FirstName: normalizeComponent(firstName),
		LastName:  normalizeComponent(lastName),
		Email:     normalizeComponent(email),
	}
	if key.FirstName == "" || key.LastName == "" || key.Email == "" {
		return CompositeKey{}, false
	}
	return key, true
}

// compositeKeyOf derives the composite key from a record's current
// field values.
func compositeKeyOf(r *Record) (CompositeKey, bool) {
	return NewCompositeKey(r.FirstName, r.LastName, r.Email)
}

func normalizeComponent(s string) string {
	return folder.String(strings.TrimSpace(s))
}
