package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/jonathan/career-coach/internal/types"
	"github.com/jonathan/career-coach/schemas"
)

// UploadResume submits a resume file for parsing and returns the job handle
// used to poll for completion.
func (c *Client) UploadResume(ctx context.Context, filename string, file io.Reader) (*types.SubmitResponse, error) {
	const endpoint = "/resume/upload"

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("resume", filename)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to build multipart body", Cause: err}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to read resume file", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to finalize multipart body", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to read response body", Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Endpoint: endpoint, StatusCode: resp.StatusCode, Message: serverMessage(data)}
	}

	var submit types.SubmitResponse
	if err := json.Unmarshal(data, &submit); err != nil {
		return nil, &Error{Endpoint: endpoint, Message: "failed to decode response", Cause: err}
	}
	return &submit, nil
}

// ResumeStatus polls the parsing status of an uploaded resume.
func (c *Client) ResumeStatus(ctx context.Context, id string) (*types.JobStatusResponse, error) {
	var status types.JobStatusResponse
	path := fmt.Sprintf("/resume/status/%s", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &status, schemas.JobStatus); err != nil {
		return nil, err
	}
	return &status, nil
}

// ResumeResults fetches the full parse results of a completed resume job.
func (c *Client) ResumeResults(ctx context.Context, id string) (*types.AnalysisResults, error) {
	var results types.AnalysisResults
	path := fmt.Sprintf("/resume/results/%s", id)
	if err := c.do(ctx, http.MethodGet, path, nil, &results, ""); err != nil {
		return nil, err
	}
	results.Kind = types.JobKindResume
	return &results, nil
}

// ResumeSummary fetches the generated summary for a parsed resume.
func (c *Client) ResumeSummary(ctx context.Context, id string) (json.RawMessage, error) {
	return c.rawGet(ctx, fmt.Sprintf("/resume/summary/%s", id))
}

// ResumeQuality fetches the quality assessment for a parsed resume.
func (c *Client) ResumeQuality(ctx context.Context, id string) (json.RawMessage, error) {
	return c.rawGet(ctx, fmt.Sprintf("/resume/quality/%s", id))
}

// ResumeSuggestions fetches improvement suggestions for a parsed resume.
func (c *Client) ResumeSuggestions(ctx context.Context, id string) (json.RawMessage, error) {
	return c.rawGet(ctx, fmt.Sprintf("/resume/suggestions/%s", id))
}

// ListResumes returns every resume the user has uploaded.
func (c *Client) ListResumes(ctx context.Context) ([]types.ResumeRecord, error) {
	var resumes []types.ResumeRecord
	if err := c.do(ctx, http.MethodGet, "/user/resumes", nil, &resumes, ""); err != nil {
		return nil, err
	}
	return resumes, nil
}

func (c *Client) rawGet(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw, ""); err != nil {
		return nil, err
	}
	return raw, nil
}
