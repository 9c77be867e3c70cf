// Package main provides the entry point for the Unravel.tech job
// application agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "unravel_agent",
	Short: "Unravel.tech job application agent",
	Long:  "Finds the Unravel.tech founder with \"pr\" in their name, composes a resume-grounded cover letter, and emails it with the resume attached.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
