package types

import "time"

// MaxRecentGains bounds the recent-gain history kept in ExperienceState.
const MaxRecentGains = 5

// XPGain records a single experience grant.
type XPGain struct {
	Amount    int       `json:"amount"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// ExperienceState is the persisted gamification state for one identity.
// Level, CurrentLevelXP and XPToNextLevel are always derived from TotalXP.
type ExperienceState struct {
	TotalXP        int      `json:"total_xp"`
	Level          int      `json:"level"`
	CurrentLevelXP int      `json:"current_level_xp"`
	XPToNextLevel  int      `json:"xp_to_next_level"`
	RecentGains    []XPGain `json:"recent_gains,omitempty"`
}

// Progress categories. Each maps to one sub-score of a ProgressSnapshot.
const (
	CategoryProfile     = "profile"
	CategorySocialLinks = "social_links"
	CategoryResume      = "resume"
	CategoryAnalysis    = "analysis"
	CategoryInterview   = "interview"
)

// Categories returns the five progress categories in weighting order.
func Categories() []string {
	return []string{
		CategoryProfile,
		CategorySocialLinks,
		CategoryResume,
		CategoryAnalysis,
		CategoryInterview,
	}
}

// ProgressSnapshot holds the five completion percentages plus the derived
// weighted overall score, all in [0,100].
type ProgressSnapshot struct {
	Profile     int `json:"profile"`
	SocialLinks int `json:"social_links"`
	Resume      int `json:"resume"`
	Analysis    int `json:"analysis"`
	Interview   int `json:"interview"`
	Overall     int `json:"overall"`
}

// Score returns the sub-score for the named category, or 0 for an unknown one.
func (s *ProgressSnapshot) Score(category string) int {
	switch category {
	case CategoryProfile:
		return s.Profile
	case CategorySocialLinks:
		return s.SocialLinks
	case CategoryResume:
		return s.Resume
	case CategoryAnalysis:
		return s.Analysis
	case CategoryInterview:
		return s.Interview
	}
	return 0
}

// RewardMilestone is a one-time XP reward granted the first time a category
// score is observed at or above Threshold.
type RewardMilestone struct {
	Category  string `json:"category"`
	Threshold int    `json:"threshold"`
	XP        int    `json:"xp"`
}

// DefaultMilestones returns the standard milestone table: four thresholds in
// each of the five categories.
func DefaultMilestones() []RewardMilestone {
	tiers := []struct {
		threshold int
		xp        int
	}{
		{25, 10},
		{50, 25},
		{75, 50},
		{100, 100},
	}

	var milestones []RewardMilestone
	for _, category := range Categories() {
		for _, tier := range tiers {
			milestones = append(milestones, RewardMilestone{
				Category:  category,
				Threshold: tier.threshold,
				XP:        tier.xp,
			})
		}
	}
	return milestones
}
