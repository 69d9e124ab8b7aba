package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jonathan/careergate/internal/observability"
	"github.com/spf13/cobra"
)

var (
	analyzeCandidate string
	analyzeJob       string
	analyzeRoadmap   string
	analyzeJSON      bool

	dashboardRecruiter string
)

var compatibilityCmd = &cobra.Command{
	Use:   "compatibility",
	Short: "Compute a compatibility result for a candidate and job",
	Long:  "Run the compatibility pipeline once for --candidate and --job and print the stored result.",
	RunE:  runCompatibility,
}

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Generate (or show) the learning roadmap for a candidate and job",
	Long: "Generate the roadmap for --candidate and --job from the latest compatibility result. " +
		"An existing roadmap is returned unchanged.",
	RunE: runRoadmap,
}

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show progress for a candidate's roadmap",
	RunE:  runProgress,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show dashboard statistics for a candidate or recruiter",
	Long:  "Show the candidate dashboard for --candidate, or the recruiter dashboard for --recruiter.",
	RunE:  runDashboard,
}

func init() {
	for _, cmd := range []*cobra.Command{compatibilityCmd, roadmapCmd, progressCmd, dashboardCmd} {
		cmd.Flags().StringVar(&analyzeCandidate, "candidate", "", "Candidate ID (required)")
		cmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print JSON instead of a summary box")
		if cmd != dashboardCmd {
			_ = cmd.MarkFlagRequired("candidate")
		}
		rootCmd.AddCommand(cmd)
	}
	dashboardCmd.Flags().StringVar(&dashboardRecruiter, "recruiter", "", "Recruiter ID")
	for _, cmd := range []*cobra.Command{compatibilityCmd, roadmapCmd} {
		cmd.Flags().StringVar(&analyzeJob, "job", "", "Job ID (required)")
		_ = cmd.MarkFlagRequired("job")
	}
	progressCmd.Flags().StringVar(&analyzeRoadmap, "roadmap", "", "Roadmap ID (required)")
	_ = progressCmd.MarkFlagRequired("roadmap")
}

func parseIDFlag(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return id, nil
}

// printResult writes v as indented JSON, or through render when not in JSON mode.
func printResult(out io.Writer, v any, render func(*observability.Printer)) error {
	if analyzeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	render(observability.NewPrinter(out))
	return nil
}

func runCompatibility(cmd *cobra.Command, _ []string) error {
	candidateID, err := parseIDFlag("candidate", analyzeCandidate)
	if err != nil {
		return err
	}
	jobID, err := parseIDFlag("job", analyzeJob)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := contextOrBackground(cmd)
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.compatibility.ComputeCompatibility(ctx, candidateID, jobID)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), result, func(p *observability.Printer) { p.PrintCompatibility(result) })
}

func runRoadmap(cmd *cobra.Command, _ []string) error {
	candidateID, err := parseIDFlag("candidate", analyzeCandidate)
	if err != nil {
		return err
	}
	jobID, err := parseIDFlag("job", analyzeJob)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := contextOrBackground(cmd)
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	roadmap, created, err := a.roadmaps.Generate(ctx, candidateID, jobID)
	if err != nil {
		return err
	}
	if !created {
		logger.Info("roadmap already existed", "roadmap_id", roadmap.ID.String())
	}
	return printResult(cmd.OutOrStdout(), roadmap, func(p *observability.Printer) { p.PrintRoadmap(roadmap) })
}

func runProgress(cmd *cobra.Command, _ []string) error {
	candidateID, err := parseIDFlag("candidate", analyzeCandidate)
	if err != nil {
		return err
	}
	roadmapID, err := parseIDFlag("roadmap", analyzeRoadmap)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := contextOrBackground(cmd)
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	progress, err := a.roadmaps.GetProgress(ctx, candidateID, roadmapID)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), progress, func(p *observability.Printer) { p.PrintProgress(progress) })
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	if dashboardRecruiter != "" {
		return runRecruiterDashboard(cmd)
	}
	if analyzeCandidate == "" {
		return fmt.Errorf("either --candidate or --recruiter is required")
	}
	candidateID, err := parseIDFlag("candidate", analyzeCandidate)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := contextOrBackground(cmd)
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.roadmaps.Stats(ctx, candidateID)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), stats, func(p *observability.Printer) { p.PrintStats(stats) })
}

func runRecruiterDashboard(cmd *cobra.Command) error {
	recruiterID, err := parseIDFlag("recruiter", dashboardRecruiter)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := contextOrBackground(cmd)
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.compatibility.RecruiterStats(ctx, recruiterID)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), stats, func(p *observability.Printer) { p.PrintRecruiterStats(stats) })
}
