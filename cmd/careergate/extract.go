package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/careergate/internal/ingestion"
	"github.com/spf13/cobra"
)

var (
	extractInput       string
	extractContentType string
)

var extractResumeCmd = &cobra.Command{
	Use:   "extract-resume",
	Short: "Extract clean text from a resume file",
	Long:  "Extract the text the resume scorer sees from a local PDF, DOCX or plain-text resume.",
	RunE:  runExtractResume,
}

func init() {
	extractResumeCmd.Flags().StringVarP(&extractInput, "in", "i", "", "Path to the resume file (required)")
	extractResumeCmd.Flags().StringVar(&extractContentType, "type", "", "Content type (detected from the extension when empty)")
	_ = extractResumeCmd.MarkFlagRequired("in")
	rootCmd.AddCommand(extractResumeCmd)
}

func runExtractResume(cmd *cobra.Command, _ []string) error {
	info, err := os.Stat(extractInput)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}
	if info.Size() > ingestion.MaxResumeBytes {
		return fmt.Errorf("resume file is %d bytes, limit is %d", info.Size(), ingestion.MaxResumeBytes)
	}

	data, err := os.ReadFile(extractInput)
	if err != nil {
		return fmt.Errorf("failed to read resume file: %w", err)
	}

	contentType := ingestion.DetectContentType(extractContentType, filepath.Base(extractInput))
	text, err := ingestion.ExtractText(contentType, data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
