package reconcile

import (
	"github.com/eventstack/rollcall/pkg/errors"
)

// Status is the aggregate outcome of one batch.
type Status string

// Batch statuses.
const (
	// StatusCompleted means every record in the batch was applied.
	StatusCompleted Status = "completed"
	// StatusFailed means the batch was rejected or aborted and the
	// store was left untouched.
	StatusFailed Status = "failed"
)

// Counts holds the per-record outcome tally for one batch.
type Counts struct {
	Processed int `json:"processed" yaml:"processed"`
	Created   int `json:"created" yaml:"created"`
	Updated   int `json:"updated" yaml:"updated"`
	NoChange  int `json:"noChange" yaml:"noChange"`
	Failed    int `json:"failed" yaml:"failed"`
}

// ErrorItem describes why one record failed, keyed by its zero-based
// index in the request sequence. ClientRecordID and ParticipantID are
// echoed from the input when present so callers can correlate.
type ErrorItem struct {
	Index          int         `json:"index" yaml:"index"`
	ClientRecordID string      `json:"clientRecordId,omitempty" yaml:"clientRecordId,omitempty"`
	ParticipantID  string      `json:"participantId,omitempty" yaml:"participantId,omitempty"`
	Code           errors.Code `json:"code" yaml:"code"`
	Message        string      `json:"message" yaml:"message"`
}

// Result is the aggregate report for one batch.
type Result struct {
	BatchID string      `json:"batchId,omitempty" yaml:"batchId,omitempty"`
	Status  Status      `json:"status" yaml:"status"`
	Counts  Counts      `json:"counts" yaml:"counts"`
	Errors  []ErrorItem `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// CreatedAny reports whether at least one record produced a creation.
// The transport maps this to a distinct success status.
func (r *Result) CreatedAny() bool {
	return r != nil && r.Counts.Created > 0
}
