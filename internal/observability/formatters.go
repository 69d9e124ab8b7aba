// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/careergate/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
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

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// bar renders a ten-cell progress bar for a 0-100 value.
func bar(percent int) string {
	filled := max(0, min(10, (percent+5)/10))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 10-filled) + "]"
}

// PrintCompatibility outputs the scores and the largest skill gaps.
func (p *Printer) PrintCompatibility(result *types.CompatibilityResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Compatibility: %3d %s\n", result.CompatibilityScore, bar(result.CompatibilityScore)))
	sb.WriteString(fmt.Sprintf("Skills:        %3d %s\n", result.SkillMatchScore, bar(result.SkillMatchScore)))
	sb.WriteString(fmt.Sprintf("Experience:    %3d %s\n", result.ExperienceMatchScore, bar(result.ExperienceMatchScore)))
	sb.WriteString(fmt.Sprintf("Resume:        %3d %s\n", result.ResumeMatchScore, bar(result.ResumeMatchScore)))

	if result.AIAnalysisSummary != "" {
		sb.WriteString("\n")
		sb.WriteString(truncate(result.AIAnalysisSummary, 3*(boxWidth-4)))
		sb.WriteString("\n")
	}

	if len(result.Gaps) > 0 {
		sb.WriteString("\nSkill gaps:\n")
		count := min(len(result.Gaps), maxItemsToShow)
		for i := 0; i < count; i++ {
			gap := result.Gaps[i]
			sb.WriteString(fmt.Sprintf("  • %s (have %d, need %d)\n", gap.SkillName, gap.UserRating, gap.RequiredRating))
		}
		if len(result.Gaps) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Gaps)-maxItemsToShow))
		}
	} else {
		sb.WriteString("\nNo skill gaps.\n")
	}

	p.printBox("COMPATIBILITY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRoadmap outputs the roadmap items grouped by week.
func (p *Printer) PrintRoadmap(roadmap *types.Roadmap) {
	if roadmap == nil {
		return
	}

	var sb strings.Builder
	if roadmap.JobTitle != "" {
		sb.WriteString(fmt.Sprintf("Target role: %s\n", roadmap.JobTitle))
	}
	sb.WriteString(fmt.Sprintf("Items: %d\n", len(roadmap.Items)))

	week := 0
	for _, item := range roadmap.Items {
		if item.WeekNo != week {
			week = item.WeekNo
			sb.WriteString(fmt.Sprintf("\nWeek %d\n", week))
		}
		mark := " "
		if item.Completed {
			mark = "x"
		}
		sb.WriteString(fmt.Sprintf("  [%s] Day %d: %s\n", mark, item.DayNo, item.Title))
		if item.YouTubeVideoID != "" {
			sb.WriteString(fmt.Sprintf("      youtu.be/%s\n", item.YouTubeVideoID))
		}
	}

	p.printBox("LEARNING ROADMAP", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintProgress outputs overall and per-week completion.
func (p *Printer) PrintProgress(progress *types.Progress) {
	if progress == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall: %d/%d %3d%% %s\n",
		progress.CompletedItems, progress.TotalItems, progress.Percent, bar(progress.Percent)))
	for _, w := range progress.Weeks {
		sb.WriteString(fmt.Sprintf("Week %-2d  %d/%d %3d%% %s\n",
			w.WeekNo, w.CompletedItems, w.TotalItems, w.Percent, bar(w.Percent)))
	}

	p.printBox("PROGRESS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintStats outputs the candidate dashboard numbers.
func (p *Printer) PrintStats(stats *types.CandidateStats) {
	if stats == nil {
		return
	}

	content := fmt.Sprintf("Jobs analysed:         %d\nAverage compatibility: %.1f\nAverage skill score:   %.1f\nActive roadmaps:       %d",
		stats.JobsAnalysed, stats.AverageCompatibility, stats.AverageSkillScore, stats.ActiveRoadmaps)
	p.printBox("DASHBOARD", content)
}

// PrintRecruiterStats outputs the recruiter dashboard numbers.
func (p *Printer) PrintRecruiterStats(stats *types.RecruiterStats) {
	if stats == nil {
		return
	}

	content := fmt.Sprintf("Jobs posted:         %d\nApplicants:          %d\nAverage skill score: %.1f\nTop matches:         %d",
		stats.JobsPosted, stats.TotalApplicants, stats.AverageSkillScore, stats.TopMatches)
	p.printBox("RECRUITER DASHBOARD", content)
}
