package types

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterRequest represents the request to create a new account.
// The onboarding record collected before signup rides along so the backend
// receives it once, at account creation.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`

	Onboarding *OnboardingRecord `json:"onboarding,omitempty"`
}

// LoginRequest represents the login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login: the opaque identity used to
// namespace all state, plus the session token sent on subsequent requests.
type AuthResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// ProfilePayload is the profile shape exchanged with GET/PUT /user/profile.
// All fields are optional; PUT accepts partial updates.
type ProfilePayload struct {
	Name          string            `json:"name,omitempty"`
	Profession    string            `json:"profession,omitempty"`
	CareerChoices []string          `json:"career_choices,omitempty"`
	CollegeName   string            `json:"college_name,omitempty"`
	CollegeEmail  string            `json:"college_email,omitempty"`
	SocialLinks   map[string]string `json:"social_links,omitempty"`
}

// AddXPRequest is the body of POST /user/xp.
type AddXPRequest struct {
	Amount int    `json:"amount" validate:"required,gt=0"`
	Source string `json:"source" validate:"required"`
}

// CompletionResponse is the backend's own view of profile completion,
// from GET /user/profile/completion.
type CompletionResponse struct {
	Completion int `json:"completion"`
}

// ResumeRecord describes one uploaded resume from GET /user/resumes.
type ResumeRecord struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	Status     JobStatus `json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// AnalysisRecord describes one profile analysis from GET /profile-analysis/user/analyses.
type AnalysisRecord struct {
	ID        string    `json:"id"`
	Kind      JobKind   `json:"kind"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// SubmitResponse is returned when a long-running job is started
// (resume upload or profile analysis submission).
type SubmitResponse struct {
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`
}

// JobStatusResponse is the poll result from the status endpoints.
// Error carries the backend's message when Status is failed.
type JobStatusResponse struct {
	JobID  string    `json:"job_id"`
	Status JobStatus `json:"status"`
	Error  string    `json:"error,omitempty"`
}

// AnalysisResults is the terminal payload of a completed job. The shape varies
// per analysis kind, so the body is kept raw and narrowed by the caller.
type AnalysisResults struct {
	JobID   string          `json:"job_id"`
	Kind    JobKind         `json:"kind,omitempty"`
	Results json.RawMessage `json:"results"`
}

// Validate validates the RegisterRequest using the validator.
func (r *RegisterRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the AddXPRequest using the validator.
func (r *AddXPRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
