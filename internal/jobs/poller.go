// Package jobs tracks long-running backend analyses with a cancellable
// polling loop: fixed-interval status checks, a hard wall-clock ceiling, and
// tolerance for transient poll errors.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/career-coach/internal/types"
)

// ErrCanceled is reported when the owning context tears the poller down
// before the job reaches a terminal state.
var ErrCanceled = errors.New("jobs: polling canceled")

// FailureError is terminal: the backend reported the job failed, or status
// checks failed too many times in a row.
type FailureError struct {
	JobID   string
	Kind    types.JobKind
	Message string
	Cause   error
}

func (e *FailureError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s job %s failed: %s: %v", e.Kind, e.JobID, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s job %s failed: %s", e.Kind, e.JobID, e.Message)
}

func (e *FailureError) Unwrap() error {
	return e.Cause
}

// TimeoutError is terminal and distinct from FailureError: the job may still
// be processing server-side, the client just stopped waiting.
type TimeoutError struct {
	JobID   string
	Kind    types.JobKind
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s job %s still processing after %s; check back later", e.Kind, e.JobID, e.Elapsed)
}

// Backend is the slice of the API client the poller needs.
type Backend interface {
	SubmitAnalysis(ctx context.Context, kind types.JobKind, params map[string]string) (*types.SubmitResponse, error)
	JobStatus(ctx context.Context, kind types.JobKind, id string) (*types.JobStatusResponse, error)
}

// Options tunes the polling loop.
type Options struct {
	AnalysisInterval       time.Duration // github/linkedin poll interval
	ResumeInterval         time.Duration // resume poll interval
	Timeout                time.Duration // wall-clock ceiling per job
	MaxConsecutiveFailures int           // poll errors tolerated before giving up
}

// DefaultOptions returns the production polling parameters.
func DefaultOptions() Options {
	return Options{
		AnalysisInterval:       5 * time.Second,
		ResumeInterval:         10 * time.Second,
		Timeout:                5 * time.Minute,
		MaxConsecutiveFailures: 3,
	}
}

func (o Options) normalized() Options {
	defaults := DefaultOptions()
	if o.AnalysisInterval <= 0 {
		o.AnalysisInterval = defaults.AnalysisInterval
	}
	if o.ResumeInterval <= 0 {
		o.ResumeInterval = defaults.ResumeInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = defaults.Timeout
	}
	if o.MaxConsecutiveFailures <= 0 {
		o.MaxConsecutiveFailures = defaults.MaxConsecutiveFailures
	}
	return o
}

// CompletionHandler runs exactly once when a job completes, before the handle
// is marked done. Typical use: fetch full results, then refresh progress.
type CompletionHandler func(ctx context.Context, job types.AnalysisJob)

// Poller starts and tracks analysis jobs. Each tracked job runs its own
// independent loop; there are no ordering guarantees across jobs.
type Poller struct {
	backend Backend
	log     *zap.Logger
	opts    Options
}

// NewPoller creates a poller over the given backend.
func NewPoller(backend Backend, log *zap.Logger, opts Options) *Poller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Poller{backend: backend, log: log, opts: opts.normalized()}
}

// Handle is the caller's view of one tracked job.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	job types.AnalysisJob
	err error
}

// Job returns a copy of the tracked job's current state.
func (h *Handle) Job() types.AnalysisJob {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.job
}

// Done is closed when polling has stopped for any reason.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the terminal error, if any, once Done is closed: nil on
// completion, ErrCanceled, a *FailureError, or a *TimeoutError.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Cancel stops polling. Safe to call multiple times and after completion.
func (h *Handle) Cancel() {
	h.cancel()
}

func (h *Handle) setStatus(status types.JobStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.job.Status = status
}

func (h *Handle) finish(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// Submit starts a github or linkedin analysis and begins polling it.
func (p *Poller) Submit(ctx context.Context, kind types.JobKind, params map[string]string, onComplete CompletionHandler) (*Handle, error) {
	resp, err := p.backend.SubmitAnalysis(ctx, kind, params)
	if err != nil {
		return nil, fmt.Errorf("failed to submit %s analysis: %w", kind, err)
	}

	job := types.AnalysisJob{
		JobID:       resp.JobID,
		Kind:        kind,
		Status:      types.JobStatusPending,
		SubmittedAt: time.Now().UTC(),
	}
	return p.Track(ctx, job, onComplete), nil
}

// Track attaches a polling loop to an already-submitted job, e.g. a resume
// upload. The loop stops when ctx is canceled, the job reaches a terminal
// state, or the timeout ceiling passes.
func (p *Poller) Track(ctx context.Context, job types.AnalysisJob, onComplete CompletionHandler) *Handle {
	pollCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{}), job: job}

	go p.loop(pollCtx, h, onComplete)
	return h
}

func (p *Poller) loop(ctx context.Context, h *Handle, onComplete CompletionHandler) {
	defer close(h.done)
	defer h.cancel()

	job := h.Job()
	started := time.Now()

	interval := p.opts.AnalysisInterval
	if job.Kind == types.JobKindResume {
		interval = p.opts.ResumeInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	deadline := time.NewTimer(p.opts.Timeout)
	defer deadline.Stop()

	consecutiveFailures := 0
	for {
		select {
		case <-ctx.Done():
			h.finish(ErrCanceled)
			return

		case <-deadline.C:
			h.finish(&TimeoutError{JobID: job.JobID, Kind: job.Kind, Elapsed: time.Since(started).Round(time.Second)})
			p.log.Warn("job polling timed out",
				zap.String("job_id", job.JobID),
				zap.String("kind", string(job.Kind)))
			return

		case <-ticker.C:
			status, err := p.backend.JobStatus(ctx, job.Kind, job.JobID)
			if err != nil {
				consecutiveFailures++
				p.log.Warn("status poll failed",
					zap.String("job_id", job.JobID),
					zap.Int("consecutive_failures", consecutiveFailures),
					zap.Error(err))
				if consecutiveFailures >= p.opts.MaxConsecutiveFailures {
					h.finish(&FailureError{
						JobID:   job.JobID,
						Kind:    job.Kind,
						Message: fmt.Sprintf("%d consecutive status checks failed", consecutiveFailures),
						Cause:   err,
					})
					return
				}
				continue
			}
			consecutiveFailures = 0

			switch status.Status {
			case types.JobStatusCompleted:
				h.setStatus(types.JobStatusCompleted)
				if onComplete != nil {
					onComplete(ctx, h.Job())
				}
				return

			case types.JobStatusFailed:
				h.setStatus(types.JobStatusFailed)
				message := status.Error
				if message == "" {
					message = "backend reported failure"
				}
				h.finish(&FailureError{JobID: job.JobID, Kind: job.Kind, Message: message})
				return

			default:
				h.setStatus(status.Status)
			}
		}
	}
}
