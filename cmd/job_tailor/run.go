package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/job-tailor/internal/analyze"
	"github.com/jonathan/job-tailor/internal/config"
	"github.com/jonathan/job-tailor/internal/coverletter"
	"github.com/jonathan/job-tailor/internal/db"
	"github.com/jonathan/job-tailor/internal/fetch"
	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/observability"
	"github.com/jonathan/job-tailor/internal/pdf"
	"github.com/jonathan/job-tailor/internal/pipeline"
	"github.com/jonathan/job-tailor/internal/refactor"
	"github.com/jonathan/job-tailor/internal/research"
	"github.com/jonathan/job-tailor/internal/search"
	"github.com/jonathan/job-tailor/internal/strategy"
	"github.com/jonathan/job-tailor/internal/types"
)

// Environment fallbacks for credential flags
const (
	envGeminiAPIKey = "GEMINI_API_KEY"
	envSearchAPIKey = "GOOGLE_SEARCH_API_KEY"
	envSearchCX     = "GOOGLE_SEARCH_CX"
	envDatabaseURL  = "DATABASE_URL"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full tailoring pipeline end-to-end",
	Long: `Orchestrates the tailoring process: job analysis -> company research -> edit strategy -> LaTeX refactoring -> optional cover letter.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.

Exit codes: 0 on success, 2 when only the cover letter failed, 1 on pipeline failure.`,
	RunE: runPipelineCmd,
}

var (
	runConfigPath   string
	runJobURL       string
	runResume       string
	runOutputDir    string
	runRunID        string
	runCoverLetter  bool
	runUseBrowser   bool
	runVerbose      bool
	runStageTimeout int
	runAPIKey       string
	runSearchAPIKey string
	runSearchCX     string
	runDatabaseURL  string
)

func init() {
	// Config file flag (processed first)
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	runCommand.Flags().StringVarP(&runJobURL, "job-url", "j", "", "URL of the job posting, or a path to a saved posting file")
	runCommand.Flags().StringVarP(&runResume, "resume", "r", "", "Path to the source LaTeX resume")
	runCommand.Flags().StringVarP(&runOutputDir, "output-dir", "o", "", "Directory for per-run output (default ./output)")
	runCommand.Flags().StringVar(&runRunID, "run-id", "", "Existing run ID to resume")
	runCommand.Flags().BoolVar(&runCoverLetter, "cover-letter", false, "Also generate a cover letter")
	runCommand.Flags().BoolVar(&runUseBrowser, "use-browser", false, "Use headless browser for SPA job boards (requires Chrome)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed debug information")
	runCommand.Flags().IntVar(&runStageTimeout, "stage-timeout", 0, "Per-stage timeout in seconds, 0 disables (default 120)")

	// API keys can be passed as flags, or read from env vars
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	runCommand.Flags().StringVar(&runSearchAPIKey, "search-api-key", "", "Google Custom Search API key (optional, defaults to GOOGLE_SEARCH_API_KEY env var)")
	runCommand.Flags().StringVar(&runSearchCX, "search-cx", "", "Google Custom Search engine ID (optional, defaults to GOOGLE_SEARCH_CX env var)")

	// Database URL for the optional artifact mirror
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runCommand)
}

func runPipelineCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if runConfigPath != "" {
		loadedCfg, err := config.LoadConfig(runConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if runVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = runJobURL
	}
	if cmd.Flags().Changed("resume") {
		cfg.Resume = runResume
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = runOutputDir
	}
	if cmd.Flags().Changed("run-id") {
		cfg.RunID = runRunID
	}
	if cmd.Flags().Changed("cover-letter") {
		cfg.CoverLetter = runCoverLetter
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = runUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = runVerbose
	}
	if cmd.Flags().Changed("stage-timeout") {
		cfg.StageTimeoutSeconds = runStageTimeout
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = runAPIKey
	}
	if cmd.Flags().Changed("search-api-key") {
		cfg.SearchAPIKey = runSearchAPIKey
	}
	if cmd.Flags().Changed("search-cx") {
		cfg.SearchCX = runSearchCX
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		OutputDir:           "output",
		StageTimeoutSeconds: 120,
	}
	cfg = cfg.MergeWithDefaults(defaults)
	cfg.StageTimeoutSeconds = resolveStageTimeout(cmd.Flags().Changed("stage-timeout"), runStageTimeout, cfg.StageTimeoutSeconds)

	// Step 4: Validate required fields
	if cfg.JobURL == "" {
		return fmt.Errorf("--job-url is required (via flag or config)")
	}
	if cfg.Resume == "" {
		return fmt.Errorf("--resume is required (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Step 5: API key handling
	cfg.APIKey = envOr(cfg.APIKey, envGeminiAPIKey)
	if cfg.APIKey == "" {
		return fmt.Errorf("%s environment variable or --api-key flag is required", envGeminiAPIKey)
	}
	cfg.SearchAPIKey = envOr(cfg.SearchAPIKey, envSearchAPIKey)
	cfg.SearchCX = envOr(cfg.SearchCX, envSearchCX)
	cfg.DatabaseURL = envOr(cfg.DatabaseURL, envDatabaseURL)

	runID := uuid.Nil
	if cfg.RunID != "" {
		parsed, err := uuid.Parse(cfg.RunID)
		if err != nil {
			return fmt.Errorf("invalid run-id format: %w", err)
		}
		runID = parsed
	}

	// Step 6: Construct clients
	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	// Missing search credentials degrade research rather than failing the run
	var searchSvc search.Service
	if cfg.SearchAPIKey != "" && cfg.SearchCX != "" {
		svc, err := search.NewGoogleService(ctx, cfg.SearchAPIKey, cfg.SearchCX)
		if err != nil {
			return fmt.Errorf("failed to create search service: %w", err)
		}
		searchSvc = svc
	} else if cfg.Verbose {
		fmt.Println("Search credentials not set; company research will be skipped")
	}

	var database *db.DB
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: database mirror unavailable: %v\n", err)
		} else {
			defer database.Close()
			if err := database.EnsureSchema(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: database mirror unavailable: %v\n", err)
				database.Close()
				database = nil
			}
		}
	}

	fetcher := fetch.NewClient(cfg.UseBrowser, cfg.Verbose)

	opts := pipeline.Options{
		JobURL:       cfg.JobURL,
		ResumePath:   cfg.Resume,
		OutputDir:    cfg.OutputDir,
		RunID:        runID,
		CoverLetter:  cfg.CoverLetter,
		StageTimeout: time.Duration(cfg.StageTimeoutSeconds) * time.Second,
		Verbose:      cfg.Verbose,
	}
	deps := pipeline.Dependencies{
		Analyzer:     analyze.New(fetcher, client, cfg.Verbose),
		Researcher:   research.New(searchSvc, client, cfg.Verbose),
		Strategist:   strategy.New(client, cfg.Verbose),
		Refactorer:   refactor.New(cfg.Verbose),
		LetterWriter: coverletter.New(client, cfg.Verbose),
		PDF:          pdf.New(cfg.Verbose),
		DB:           database,
		Printer:      observability.NewPrinter(os.Stdout),
	}

	orch, err := pipeline.NewOrchestrator(opts, deps)
	if err != nil {
		return err
	}

	summary, err := orch.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Done. Artifacts written to %s\n", orch.Store().Dir())
	if summary.Status == types.RunStatusPartialSuccess {
		os.Exit(2)
	}
	return nil
}

// resolveStageTimeout keeps an explicit --stage-timeout value, including 0 to
// disable the timeout, which the zero-means-unset merge cannot represent
func resolveStageTimeout(flagChanged bool, flagValue, merged int) int {
	if flagChanged {
		return flagValue
	}
	return merged
}

// envOr falls back to an environment variable when the flag/config value is
// unset
func envOr(value, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}
