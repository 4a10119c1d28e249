// Package main provides the entry point for the job-tailor CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job_tailor",
	Short: "Tailor a LaTeX resume to a specific job posting",
	Long:  "job_tailor fetches a job posting, researches the company, plans targeted resume edits, applies them to a LaTeX resume, and optionally drafts a matching cover letter.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
