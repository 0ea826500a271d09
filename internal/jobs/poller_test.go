package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-coach/internal/types"
)

// scriptedBackend replays a fixed sequence of status responses, then repeats
// the last one.
type scriptedBackend struct {
	mu       sync.Mutex
	statuses []types.JobStatusResponse
	errs     []error
	polls    int

	submitErr error
}

func (b *scriptedBackend) SubmitAnalysis(_ context.Context, _ types.JobKind, _ map[string]string) (*types.SubmitResponse, error) {
	if b.submitErr != nil {
		return nil, b.submitErr
	}
	return &types.SubmitResponse{JobID: "job-1", Status: types.JobStatusPending}, nil
}

func (b *scriptedBackend) JobStatus(_ context.Context, _ types.JobKind, _ string) (*types.JobStatusResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.polls
	b.polls++
	if i >= len(b.statuses) {
		i = len(b.statuses) - 1
	}
	if b.errs != nil && b.errs[i] != nil {
		return nil, b.errs[i]
	}
	status := b.statuses[i]
	return &status, nil
}

func (b *scriptedBackend) pollCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.polls
}

func fastOptions() Options {
	return Options{
		AnalysisInterval:       5 * time.Millisecond,
		ResumeInterval:         5 * time.Millisecond,
		Timeout:                time.Second,
		MaxConsecutiveFailures: 3,
	}
}

func waitDone(t *testing.T, h *Handle) {
	t.Helper()
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not finish in time")
	}
}

func TestSubmit_PollsUntilCompleted(t *testing.T) {
	backend := &scriptedBackend{statuses: []types.JobStatusResponse{
		{JobID: "job-1", Status: types.JobStatusProcessing},
		{JobID: "job-1", Status: types.JobStatusProcessing},
		{JobID: "job-1", Status: types.JobStatusCompleted},
	}}

	var handlerCalls int
	handler := func(_ context.Context, job types.AnalysisJob) {
		handlerCalls++
		assert.Equal(t, types.JobStatusCompleted, job.Status)
	}

	poller := NewPoller(backend, nil, fastOptions())
	handle, err := poller.Submit(context.Background(), types.JobKindGitHub, map[string]string{"username": "ada"}, handler)
	require.NoError(t, err)

	waitDone(t, handle)
	require.NoError(t, handle.Err())
	assert.Equal(t, 3, backend.pollCount(), "two processing polls then the completed one")
	assert.Equal(t, 1, handlerCalls, "completion handler runs exactly once")
	assert.Equal(t, types.JobStatusCompleted, handle.Job().Status)
}

func TestSubmit_BackendRejects(t *testing.T) {
	backend := &scriptedBackend{submitErr: errors.New("422")}
	poller := NewPoller(backend, nil, fastOptions())

	_, err := poller.Submit(context.Background(), types.JobKindGitHub, nil, nil)
	require.Error(t, err)
}

func TestTrack_BackendFailureIsTerminal(t *testing.T) {
	backend := &scriptedBackend{statuses: []types.JobStatusResponse{
		{JobID: "job-1", Status: types.JobStatusProcessing},
		{JobID: "job-1", Status: types.JobStatusFailed, Error: "parse error"},
	}}

	poller := NewPoller(backend, nil, fastOptions())
	job := types.AnalysisJob{JobID: "job-1", Kind: types.JobKindResume, Status: types.JobStatusPending}
	handle := poller.Track(context.Background(), job, func(context.Context, types.AnalysisJob) {
		t.Error("completion handler must not run for failed jobs")
	})

	waitDone(t, handle)

	var failure *FailureError
	require.ErrorAs(t, handle.Err(), &failure)
	assert.Equal(t, "job-1", failure.JobID)
	assert.Equal(t, "parse error", failure.Message)
	assert.Equal(t, types.JobStatusFailed, handle.Job().Status)
}

func TestTrack_TransientErrorsTolerated(t *testing.T) {
	transient := errors.New("503")
	backend := &scriptedBackend{
		statuses: []types.JobStatusResponse{
			{}, {},
			{JobID: "job-1", Status: types.JobStatusCompleted},
		},
		errs: []error{transient, transient, nil},
	}

	poller := NewPoller(backend, nil, fastOptions())
	job := types.AnalysisJob{JobID: "job-1", Kind: types.JobKindGitHub, Status: types.JobStatusPending}
	handle := poller.Track(context.Background(), job, nil)

	waitDone(t, handle)
	assert.NoError(t, handle.Err(), "two transient errors stay under the cap of three")
}

func TestTrack_ConsecutiveFailureCap(t *testing.T) {
	transient := errors.New("503")
	backend := &scriptedBackend{
		statuses: []types.JobStatusResponse{{}},
		errs:     []error{transient},
	}

	poller := NewPoller(backend, nil, fastOptions())
	job := types.AnalysisJob{JobID: "job-1", Kind: types.JobKindGitHub, Status: types.JobStatusPending}
	handle := poller.Track(context.Background(), job, nil)

	waitDone(t, handle)

	var failure *FailureError
	require.ErrorAs(t, handle.Err(), &failure)
	assert.ErrorIs(t, handle.Err(), transient)
	assert.Equal(t, 3, backend.pollCount())
}

func TestTrack_Timeout(t *testing.T) {
	backend := &scriptedBackend{statuses: []types.JobStatusResponse{
		{JobID: "job-1", Status: types.JobStatusProcessing},
	}}

	opts := fastOptions()
	opts.Timeout = 30 * time.Millisecond
	poller := NewPoller(backend, nil, opts)
	job := types.AnalysisJob{JobID: "job-1", Kind: types.JobKindLinkedIn, Status: types.JobStatusPending}
	handle := poller.Track(context.Background(), job, nil)

	waitDone(t, handle)

	var timeout *TimeoutError
	require.ErrorAs(t, handle.Err(), &timeout)
	assert.Equal(t, "job-1", timeout.JobID)
	assert.NotErrorIs(t, handle.Err(), ErrCanceled, "timeout is distinct from cancellation")
}

func TestTrack_Cancel(t *testing.T) {
	backend := &scriptedBackend{statuses: []types.JobStatusResponse{
		{JobID: "job-1", Status: types.JobStatusProcessing},
	}}

	poller := NewPoller(backend, nil, fastOptions())
	job := types.AnalysisJob{JobID: "job-1", Kind: types.JobKindGitHub, Status: types.JobStatusPending}
	handle := poller.Track(context.Background(), job, nil)

	handle.Cancel()
	waitDone(t, handle)
	assert.ErrorIs(t, handle.Err(), ErrCanceled)

	// Repeated cancels are harmless.
	handle.Cancel()
}

func TestTrack_ParentContextCancellation(t *testing.T) {
	backend := &scriptedBackend{statuses: []types.JobStatusResponse{
		{JobID: "job-1", Status: types.JobStatusProcessing},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	poller := NewPoller(backend, nil, fastOptions())
	job := types.AnalysisJob{JobID: "job-1", Kind: types.JobKindGitHub, Status: types.JobStatusPending}
	handle := poller.Track(ctx, job, nil)

	cancel()
	waitDone(t, handle)
	assert.ErrorIs(t, handle.Err(), ErrCanceled)
}

func TestOptions_Normalized(t *testing.T) {
	opts := Options{}.normalized()
	assert.Equal(t, DefaultOptions(), opts)

	custom := Options{AnalysisInterval: time.Second}.normalized()
	assert.Equal(t, time.Second, custom.AnalysisInterval)
	assert.Equal(t, DefaultOptions().ResumeInterval, custom.ResumeInterval)
}
