// Package roster provides the participant record model and its durable
// keyed store. A record is a small typed structure for the recognized
// business and provenance fields plus one explicit extension map for
// unrecognized fields, so unknown input survives a round trip without
// losing type safety on the fields that drive matching and merging.
package roster

import (
	"fmt"
	"reflect"
)

// Canonical field keys as they appear on the wire and on disk.
const (
	KeyParticipantID    = "participantId"
	KeyFirstName        = "firstName"
	KeyLastName         = "lastName"
	KeyEmail            = "email"
	KeyUsername         = "username"
	KeyPhone            = "phone"
	KeyMID              = "mid"
	KeyAttendanceStatus = "attendanceStatus"
	KeyMetadata         = "metadata"
	KeyBatchID          = "batchId"
	KeySource           = "source"
)

// MID key variants accepted on input, in coalescing priority order.
// Canonicalize collapses them onto KeyMID.
var midKeyVariants = []string{KeyMID, "MID", "mId"}

// Record is one participant. String fields are considered absent when
// empty; Metadata is absent when nil.
type Record struct {
	ParticipantID    string
	FirstName        string
	LastName         string
	Email            string
	Username         string
	Phone            string
	MID              string
	AttendanceStatus string

	// Metadata is an opaque passthrough value. It is compared by deep
	// equality but never interpreted.
	Metadata any

	// BatchID and Source are provenance attributes. They are overwritten
	// by the current batch's values whenever present and never read for
	// matching or equality.
	BatchID string
	Source  string

	// Extra holds every unrecognized input field verbatim.
	Extra map[string]any
}

// Decode builds a Record from an open field mapping. Recognized keys
// land on typed fields, everything else is preserved in Extra. Scalar
// values arriving for string fields are coerced to their string form.
// Decode never fails; validation is the caller's concern.
func Decode(m map[string]any) *Record {
	r := &Record{}
	for k, v := range m {
		switch k {
		case KeyParticipantID:
			r.ParticipantID = coerceString(v)
		case KeyFirstName:
			r.FirstName = coerceString(v)
		case KeyLastName:
			r.LastName = coerceString(v)
		case KeyEmail:
			r.Email = coerceString(v)
		case KeyUsername:
			r.Username = coerceString(v)
		case KeyPhone:
			r.Phone = coerceString(v)
		case KeyMID:
			r.MID = coerceString(v)
		case KeyAttendanceStatus:
			r.AttendanceStatus = coerceString(v)
		case KeyMetadata:
			r.Metadata = deepCopyValue(v)
		case KeyBatchID:
			r.BatchID = coerceString(v)
		case KeySource:
			r.Source = coerceString(v)
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]any)
			}
			r.Extra[k] = deepCopyValue(v)
		}
	}
	return r
}

// AsMap returns the record as an open field mapping under canonical
// keys. Absent fields are omitted, Extra keys appear alongside the
// recognized ones. The result shares no mutable state with the record.
func (r *Record) AsMap() map[string]any {
	m := make(map[string]any)
	setIfPresent := func(k, v string) {
		if v != "" {
			m[k] = v
		}
	}
	setIfPresent(KeyParticipantID, r.ParticipantID)
	setIfPresent(KeyFirstName, r.FirstName)
	setIfPresent(KeyLastName, r.LastName)
	setIfPresent(KeyEmail, r.Email)
	setIfPresent(KeyUsername, r.Username)
	setIfPresent(KeyPhone, r.Phone)
	setIfPresent(KeyMID, r.MID)
	setIfPresent(KeyAttendanceStatus, r.AttendanceStatus)
	setIfPresent(KeyBatchID, r.BatchID)
	setIfPresent(KeySource, r.Source)
	if r.Metadata != nil {
		m[KeyMetadata] = deepCopyValue(r.Metadata)
	}
	for k, v := range r.Extra {
		m[k] = deepCopyValue(v)
	}
	return m
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Metadata = deepCopyValue(r.Metadata)
	if r.Extra != nil {
		clone.Extra = make(map[string]any, len(r.Extra))
		for k, v := range r.Extra {
			clone.Extra[k] = deepCopyValue(v)
		}
	}
	return &clone
}

// BusinessEqual reports whether two records agree on every business
// field. Missing equals missing; Metadata compares by deep equality.
// Identity and provenance fields do not participate.
func BusinessEqual(a, b *Record) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Username == b.Username &&
		a.FirstName == b.FirstName &&
		a.LastName == b.LastName &&
		a.Email == b.Email &&
		a.Phone == b.Phone &&
		a.MID == b.MID &&
		a.AttendanceStatus == b.AttendanceStatus &&
		reflect.DeepEqual(a.Metadata, b.Metadata)
}

// StringField renders one field of an open mapping as a string, using
// the same scalar coercion as Decode. Missing keys come back empty.
func StringField(m map[string]any, key string) string {
	return coerceString(m[key])
}

// coerceString renders a scalar value as a string. Non-string scalars
// (identifiers often arrive as numbers) take their printed form; nil
// stays absent.
func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

// deepCopyValue copies nested maps and slices so stored records never
// share mutable state with caller-owned input.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}
