package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nova0077/unravel-dspy/internal/resume"
)

var parseResumeCommand = &cobra.Command{
	Use:   "parse-resume",
	Short: "Extract and print the text of a resume PDF",
	Long:  "Parses the resume PDF the same way the apply pipeline does and prints the cleaned text, so you can check what the composer will see.",
	RunE:  runParseResumeCmd,
}

var parseResumePath string

func init() {
	parseResumeCommand.Flags().StringVarP(&parseResumePath, "resume", "r", "", "Path to resume PDF (defaults to RESUME_PATH env var)")

	rootCmd.AddCommand(parseResumeCommand)
}

func runParseResumeCmd(_ *cobra.Command, _ []string) error {
	path := parseResumePath
	if path == "" {
		path = os.Getenv("RESUME_PATH")
	}
	if path == "" {
		return fmt.Errorf("--resume flag or RESUME_PATH environment variable is required")
	}

	text, err := resume.ParseFile(path)
	if err != nil {
		return err
	}

	fmt.Printf("[resume] extracted %d chars from %s\n\n", len(text), path)
	fmt.Println(text)
	return nil
}
