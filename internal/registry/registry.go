// Package registry is the process-wide source of truth for render job
// state. It is created once at process start and never persisted; the
// redis backend exists as a key-value durability hook behind the same
// contract.
package registry

import (
	"context"
	"time"
)

// Status is the lifecycle state of a render job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Terminal reports whether no further transitions occur from this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// JobState is the snapshot clients poll against. VideoURL is set only on
// completed jobs, Error only on failed ones.
type JobState struct {
	ID        string    `json:"jobId"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	VideoURL  string    `json:"videoUrl,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Update is a partial state change. Nil fields are left untouched.
// Progress merges monotonically: a value below the stored one is ignored.
type Update struct {
	Status   *Status
	Progress *int
	VideoURL *string
	Error    *string
}

// Store maps job identifiers to job state. Implementations must support
// concurrent readers while a single writer per key updates.
type Store interface {
	// Create allocates a fresh unique identifier with status pending and
	// progress 0.
	Create(ctx context.Context) (string, error)
	// Update atomically merges the partial fields into the entry. Unknown
	// identifiers are ignored.
	Update(ctx context.Context, id string, u Update)
	// Get returns a read-only snapshot of the entry.
	Get(ctx context.Context, id string) (JobState, bool)
}

// StatusOf is an Update helper for a bare status change.
func StatusOf(s Status) *Status { return &s }

// ProgressOf is an Update helper for a progress checkpoint.
func ProgressOf(p int) *int { return &p }

// StringOf is an Update helper for URL and error fields.
func StringOf(s string) *string { return &s }

// merge applies an update to a state, enforcing monotonic progress.
func merge(state JobState, u Update, now time.Time) JobState {
	if u.Status != nil {
		state.Status = *u.Status
	}
	if u.Progress != nil && *u.Progress > state.Progress {
		p := *u.Progress
		if p > 100 {
			p = 100
		}
		state.Progress = p
	}
	if u.VideoURL != nil {
		state.VideoURL = *u.VideoURL
	}
	if u.Error != nil {
		state.Error = *u.Error
	}
	state.UpdatedAt = now
	return state
}
