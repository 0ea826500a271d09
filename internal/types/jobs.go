package types

import "time"

// JobKind identifies the long-running backend analysis being tracked.
type JobKind string

// Supported analysis kinds.
const (
	JobKindGitHub   JobKind = "github"
	JobKindLinkedIn JobKind = "linkedin"
	JobKindResume   JobKind = "resume"
)

// Valid reports whether k is one of the supported analysis kinds.
func (k JobKind) Valid() bool {
	switch k {
	case JobKindGitHub, JobKindLinkedIn, JobKindResume:
		return true
	}
	return false
}

// JobStatus is the backend-reported lifecycle state of an analysis job.
type JobStatus string

// Job statuses. Transitions are strictly pending -> processing -> completed|failed;
// processing may be skipped when the backend finishes before the first poll.
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status ends the polling loop.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// AnalysisJob tracks one submitted backend analysis.
type AnalysisJob struct {
	JobID       string    `json:"job_id"`
	Kind        JobKind   `json:"kind"`
	Status      JobStatus `json:"status"`
	SubmittedAt time.Time `json:"submitted_at"`
}
