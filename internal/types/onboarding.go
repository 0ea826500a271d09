// Package types provides type definitions for structured data used throughout the career-coach client core.
package types

// Profession values a user can pick during onboarding step 2.
const (
	ProfessionStudent          = "student"
	ProfessionSoftwareEngineer = "software_engineer"
	ProfessionDataScientist    = "data_scientist"
	ProfessionProductManager   = "product_manager"
	ProfessionDesigner         = "designer"
)

// Professions returns the closed set of valid profession values.
func Professions() []string {
	return []string{
		ProfessionStudent,
		ProfessionSoftwareEngineer,
		ProfessionDataScientist,
		ProfessionProductManager,
		ProfessionDesigner,
	}
}

// CareerCatalog returns the fixed catalog of career options for onboarding step 3.
// A user may select between one and three of these.
func CareerCatalog() []string {
	return []string{
		"software_engineering",
		"data_science",
		"product_management",
		"ux_design",
		"devops",
	}
}

// MaxCareerChoices is the maximum number of career options a user may select.
const MaxCareerChoices = 3

// OnboardingRecord accumulates the answers collected by the onboarding wizard.
// Fields are filled strictly in step order; a skipped step leaves its field empty.
type OnboardingRecord struct {
	Name          string   `json:"name,omitempty"`
	Profession    string   `json:"profession,omitempty"`
	CareerChoices []string `json:"career_choices,omitempty"`
	CollegeName   string   `json:"college_name,omitempty"`
	CollegeEmail  string   `json:"college_email,omitempty"`
}

// IsEmpty reports whether no step has recorded any data yet.
func (r *OnboardingRecord) IsEmpty() bool {
	return r.Name == "" && r.Profession == "" && len(r.CareerChoices) == 0 &&
		r.CollegeName == "" && r.CollegeEmail == ""
}

// SocialPlatforms returns the named platforms counted by the social-links
// progress computation.
func SocialPlatforms() []string {
	return []string{
		"github",
		"linkedin",
		"twitter",
		"portfolio",
		"leetcode",
		"medium",
		"stackoverflow",
	}
}
