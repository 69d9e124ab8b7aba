// Package main provides the entry point for the careergate API server and
// its operator commands.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "careergate",
	Short: "careergate compatibility and roadmap service",
	Long: "careergate scores how well a candidate fits a job posting, explains the skill gaps, " +
		"and turns them into a week-by-week learning roadmap with progress tracking.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file (env vars override it)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
