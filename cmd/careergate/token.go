package main

import (
	"fmt"

	"github.com/jonathan/careergate/internal/config"
	"github.com/jonathan/careergate/internal/server"
	"github.com/spf13/cobra"
)

var tokenCandidate string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for a candidate",
	Long:  "Sign a bearer token for --candidate with JWT_SECRET. Intended for local development and operator scripts.",
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenCandidate, "candidate", "", "Candidate ID (required)")
	_ = tokenCmd.MarkFlagRequired("candidate")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	candidateID, err := parseIDFlag("candidate", tokenCandidate)
	if err != nil {
		return err
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return err
	}

	token, err := server.NewJWTService(jwtConfig).GenerateToken(candidateID)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
