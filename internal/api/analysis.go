package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonathan/career-coach/internal/types"
	"github.com/jonathan/career-coach/schemas"
)

// SubmitAnalysis starts a github or linkedin profile analysis. Resume jobs are
// started by UploadResume instead.
func (c *Client) SubmitAnalysis(ctx context.Context, kind types.JobKind, params map[string]string) (*types.SubmitResponse, error) {
	if kind != types.JobKindGitHub && kind != types.JobKindLinkedIn {
		return nil, &Error{
			Endpoint: "/profile-analysis/analyze",
			Message:  fmt.Sprintf("unsupported analysis kind %q", kind),
		}
	}

	var submit types.SubmitResponse
	path := fmt.Sprintf("/profile-analysis/analyze/%s", kind)
	if err := c.do(ctx, http.MethodPost, path, params, &submit, ""); err != nil {
		return nil, err
	}
	return &submit, nil
}

// AnalysisStatus polls the status of a profile analysis job.
func (c *Client) AnalysisStatus(ctx context.Context, id string) (*types.JobStatusResponse, error) {
	var status types.JobStatusResponse
	path := fmt.Sprintf("/profile-analysis/status/%s", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &status, schemas.JobStatus); err != nil {
		return nil, err
	}
	return &status, nil
}

// AnalysisResults fetches the full results of a completed analysis job.
func (c *Client) AnalysisResults(ctx context.Context, id string) (*types.AnalysisResults, error) {
	var results types.AnalysisResults
	path := fmt.Sprintf("/profile-analysis/results/%s", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &results, ""); err != nil {
		return nil, err
	}
	return &results, nil
}

// ListAnalyses returns every profile analysis the user has run.
func (c *Client) ListAnalyses(ctx context.Context) ([]types.AnalysisRecord, error) {
	var analyses []types.AnalysisRecord
	if err := c.do(ctx, http.MethodGet, "/profile-analysis/user/analyses", nil, &analyses, ""); err != nil {
		return nil, err
	}
	return analyses, nil
}

// JobStatus polls the status endpoint appropriate for the job kind.
func (c *Client) JobStatus(ctx context.Context, kind types.JobKind, id string) (*types.JobStatusResponse, error) {
	if kind == types.JobKindResume {
		return c.ResumeStatus(ctx, id)
	}
	return c.AnalysisStatus(ctx, id)
}
