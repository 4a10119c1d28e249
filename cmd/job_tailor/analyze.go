package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/analyze"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/observability"
	"github.com/jonathan/job-tailor/internal/types"
)

var analyzeCommand = &cobra.Command{
	Use:   "analyze",
	Short: "Extract a structured job profile from a posting without running the pipeline",
	Long:  "Fetches the job posting, extracts a structured profile, and prints it as JSON. Useful for inspecting what the pipeline would tailor against.",
	RunE:  analyzeCmd,
}

var (
	analyzeJobURL     string
	analyzeAPIKey     string
	analyzeUseBrowser bool
	analyzeVerbose    bool
)

func init() {
	analyzeCommand.Flags().StringVarP(&analyzeJobURL, "job-url", "j", "", "URL of the job posting, or a path to a saved posting file")
	analyzeCommand.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	analyzeCommand.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	analyzeCommand.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")
	_ = analyzeCommand.MarkFlagRequired("job-url")

	rootCmd.AddCommand(analyzeCommand)
}

func analyzeCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	analyzer := analyze.New(fetch.NewClient(analyzeUseBrowser, analyzeVerbose), client, analyzeVerbose)
	profile, status, err := analyzer.Run(ctx, analyzeJobURL)
	if err != nil {
		return err
	}
	if status == types.StatusDegraded {
		fmt.Fprintln(os.Stderr, "Warning: extraction produced no keywords")
	}

	if analyzeVerbose {
		observability.NewPrinter(os.Stdout).PrintJobProfile(profile)
	}

	out, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
