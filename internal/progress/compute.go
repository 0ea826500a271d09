// Package progress computes the five category completion percentages and the
// weighted overall score.
package progress

import (
	"math"

	"github.com/jonathan/career-coach/internal/types"
)

// Overall score weights. They sum to 1.0.
const (
	WeightProfile     = 0.35
	WeightSocialLinks = 0.20
	WeightResume      = 0.20
	WeightAnalysis    = 0.15
	WeightInterview   = 0.10
)

// Profile field increments. The four small increments plus the email increment
// sum to 100.01 in the original product; the cap at 100 keeps that quirk
// unobservable while preserving every intermediate fixture.
const (
	fieldIncrement = 16.67
	emailIncrement = 33.33
)

// ProfileCompletion scores a profile payload: each of name, profession,
// career choices and college name contributes 16.67 points, a college email
// 33.33, capped at 100 and rounded.
func ProfileCompletion(p *types.ProfilePayload) int {
	if p == nil {
		return 0
	}

	score := 0.0
	if p.Name != "" {
		score += fieldIncrement
	}
	if p.Profession != "" {
		score += fieldIncrement
	}
	if len(p.CareerChoices) > 0 {
		score += fieldIncrement
	}
	if p.CollegeName != "" {
		score += fieldIncrement
	}
	if p.CollegeEmail != "" {
		score += emailIncrement
	}

	if score > 100 {
		score = 100
	}
	return int(math.Round(score))
}

// SocialLinksProgress scores the fraction of the seven named platforms that
// have a non-empty link.
func SocialLinksProgress(links map[string]string) int {
	platforms := types.SocialPlatforms()

	filled := 0
	for _, platform := range platforms {
		if links[platform] != "" {
			filled++
		}
	}
	return int(math.Round(float64(filled) / float64(len(platforms)) * 100))
}

// triState maps upload/completion counts to the 0/50/100 policy: nothing
// uploaded scores 0, anything completed scores 100, in-flight scores 50.
func triState(uploaded, completed int) int {
	switch {
	case uploaded == 0:
		return 0
	case completed > 0:
		return 100
	}
	return 50
}

// ResumeProgress applies the tri-state policy to the user's resumes.
func ResumeProgress(resumes []types.ResumeRecord) int {
	completed := 0
	for _, r := range resumes {
		if r.Status == types.JobStatusCompleted {
			completed++
		}
	}
	return triState(len(resumes), completed)
}

// AnalysisProgress applies the tri-state policy to profile analyses.
func AnalysisProgress(analyses []types.AnalysisRecord) int {
	completed := 0
	for _, a := range analyses {
		if a.Status == types.JobStatusCompleted {
			completed++
		}
	}
	return triState(len(analyses), completed)
}

// InterviewStats is the placeholder interview-practice summary until a
// backend interview-stats endpoint exists.
type InterviewStats struct {
	Attempted int `json:"attempted"`
	Completed int `json:"completed"`
}

// InterviewProgress applies the tri-state policy to interview practice.
func InterviewProgress(stats InterviewStats) int {
	return triState(stats.Attempted, stats.Completed)
}

// Overall combines the five category scores with fixed weights, rounded.
func Overall(profile, socialLinks, resume, analysis, interview int) int {
	combined := WeightProfile*float64(profile) +
		WeightSocialLinks*float64(socialLinks) +
		WeightResume*float64(resume) +
		WeightAnalysis*float64(analysis) +
		WeightInterview*float64(interview)
	return int(math.Round(combined))
}
