// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-coach/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProgress outputs the five category scores and the weighted overall.
func (p *Printer) PrintProgress(snapshot *types.ProgressSnapshot) {
	if snapshot == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Profile:       %s %3d%%\n", bar(snapshot.Profile), snapshot.Profile))
	sb.WriteString(fmt.Sprintf("Social links:  %s %3d%%\n", bar(snapshot.SocialLinks), snapshot.SocialLinks))
	sb.WriteString(fmt.Sprintf("Resume:        %s %3d%%\n", bar(snapshot.Resume), snapshot.Resume))
	sb.WriteString(fmt.Sprintf("Analyses:      %s %3d%%\n", bar(snapshot.Analysis), snapshot.Analysis))
	sb.WriteString(fmt.Sprintf("Interviews:    %s %3d%%\n", bar(snapshot.Interview), snapshot.Interview))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Overall:       %s %3d%%", bar(snapshot.Overall), snapshot.Overall))

	p.printBox("PROFILE PROGRESS", sb.String())
}

// PrintExperience outputs the level, XP within the level, and recent gains.
func (p *Printer) PrintExperience(state *types.ExperienceState) {
	if state == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Level:     %d\n", state.Level))
	sb.WriteString(fmt.Sprintf("Total XP:  %d\n", state.TotalXP))
	sb.WriteString(fmt.Sprintf("This level: %d (next level in %d)\n", state.CurrentLevelXP, state.XPToNextLevel))

	if len(state.RecentGains) > 0 {
		sb.WriteString("\nRecent gains:\n")
		for _, gain := range state.RecentGains {
			sb.WriteString(fmt.Sprintf("  +%d  %s\n", gain.Amount, gain.Source))
		}
	}

	p.printBox("EXPERIENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRewards outputs newly granted milestone rewards.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRewards(granted []types.RewardMilestone, totalXP int) {
	if len(granted) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NO NEW MILESTONES")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Crossed %d milestones (+%d XP):\n\n", len(granted), totalXP))
	for _, m := range granted {
		sb.WriteString(fmt.Sprintf("  ★ %s reached %d%%  (+%d XP)\n", m.Category, m.Threshold, m.XP))
	}

	p.printBox("NEW MILESTONES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJob outputs the state of one tracked analysis job.
func (p *Printer) PrintJob(job types.AnalysisJob) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Job:     %s\n", job.JobID))
	sb.WriteString(fmt.Sprintf("Kind:    %s\n", job.Kind))
	sb.WriteString(fmt.Sprintf("Status:  %s", job.Status))

	p.printBox("ANALYSIS JOB", sb.String())
}

// bar renders a ten-segment progress bar for a percentage.
func bar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct / 10
	return strings.Repeat("█", filled) + strings.Repeat("░", 10-filled)
}
