package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nova0077/unravel-dspy/internal/composer"
	"github.com/nova0077/unravel-dspy/internal/config"
	"github.com/nova0077/unravel-dspy/internal/fetch"
	"github.com/nova0077/unravel-dspy/internal/llm"
	"github.com/nova0077/unravel-dspy/internal/mailer"
	"github.com/nova0077/unravel-dspy/internal/pipeline"
	"github.com/nova0077/unravel-dspy/internal/scout"
)

var applyCommand = &cobra.Command{
	Use:   "apply",
	Short: "Run the full application pipeline end-to-end",
	Long: `Orchestrates the entire application: resume parsing -> founder scouting -> cover letter composition -> email delivery.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runApplyCmd,
}

var (
	applyConfigPath    string
	applyResume        string
	applyAPIKey        string
	applyCacheDir      string
	applyStrategy      string
	applyMockRecipient string
	applyDryRun        bool
	applyAutoConfirm   bool
	applyVerbose       bool
)

func init() {
	// Config file flag (processed first)
	applyCommand.Flags().StringVar(&applyConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	applyCommand.Flags().StringVarP(&applyResume, "resume", "r", "", "Path to resume PDF (defaults to RESUME_PATH env var)")
	applyCommand.Flags().StringVar(&applyCacheDir, "cache-dir", "", "Directory for the fetch cache (defaults to .scout_cache)")
	applyCommand.Flags().StringVar(&applyStrategy, "strategy", "", "Founder resolution strategy: llm or heuristic (default llm)")
	applyCommand.Flags().StringVar(&applyMockRecipient, "mock-recipient", "", "Override the recipient email (for testing, e.g. your own address)")
	applyCommand.Flags().BoolVar(&applyDryRun, "dry-run", false, "Print the email instead of sending it")
	applyCommand.Flags().BoolVar(&applyAutoConfirm, "auto-confirm", false, "Skip the y/n confirmation prompt before sending")
	applyCommand.Flags().BoolVarP(&applyVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	applyCommand.Flags().StringVar(&applyAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	rootCmd.AddCommand(applyCommand)
}

func runApplyCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadApplyConfig(cmd)
	if err != nil {
		return err
	}

	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	client, err := llm.NewClient(ctx, nil, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	scoutCfg := scout.DefaultConfig()
	strategy, err := buildStrategy(ctx, client, cfg, scoutCfg)
	if err != nil {
		return err
	}

	sender := mailer.NewSender(cfg.SenderEmail, cfg.SenderAppPassword)
	if cfg.SMTPHost != "" {
		sender.Host = cfg.SMTPHost
	}
	if cfg.SMTPPort != 0 {
		sender.Port = cfg.SMTPPort
	}
	sender.DryRun = applyDryRun
	sender.AutoConfirm = applyAutoConfirm

	opts := pipeline.RunOptions{
		ResumePath:    cfg.ResumePath,
		CandidateName: cfg.CandidateName,
		AgentName:     cfg.AgentName,
		Strategy:      strategy,
		Composer:      composer.New(client, cfg.CandidateName, cfg.AgentName),
		Sender:        sender,
		EmailDomain:   scoutCfg.EmailDomain,
		MockRecipient: applyMockRecipient,
		Verbose:       cfg.Verbose,
	}

	_, err = pipeline.Run(ctx, opts)
	return err
}

// loadApplyConfig layers configuration: config file under environment,
// with explicitly-set CLI flags winning.
func loadApplyConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.FromEnv()

	if applyConfigPath != "" {
		fileCfg, err := config.LoadConfig(applyConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		merged := cfg.MergeWithDefaults(*fileCfg)
		cfg = &merged
		if applyVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", applyConfigPath)
		}
	}

	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("resume") {
		cfg.ResumePath = applyResume
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = applyAPIKey
	}
	if cmd.Flags().Changed("cache-dir") {
		cfg.CacheDir = applyCacheDir
	}
	if cmd.Flags().Changed("strategy") {
		cfg.Strategy = applyStrategy
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = applyVerbose
	}

	if cfg.CacheDir == "" {
		cfg.CacheDir = ".scout_cache"
	}
	return cfg, nil
}

// buildStrategy wires the fetcher, search provider, and the configured
// founder resolution strategy. Google Custom Search is used when both its
// key and engine ID are configured; otherwise the DuckDuckGo scraper.
func buildStrategy(ctx context.Context, client llm.Client, cfg *config.Config, scoutCfg *scout.Config) (scout.FounderResolutionStrategy, error) {
	fetcher := fetch.NewCachedFetcher(fetch.NewCache(cfg.CacheDir), nil)

	var provider scout.Provider
	if cfg.GoogleSearchKey != "" && cfg.GoogleSearchCX != "" {
		google, err := scout.NewGoogleSearch(ctx, cfg.GoogleSearchKey, cfg.GoogleSearchCX)
		if err != nil {
			return nil, err
		}
		provider = google
	} else {
		provider = scout.NewDuckDuckGo(fetcher, scoutCfg)
	}

	agg := scout.NewAggregator(provider, fetcher, scoutCfg)

	switch cfg.Strategy {
	case "heuristic":
		return scout.NewHeuristicStrategy(agg, client, scoutCfg), nil
	default:
		return scout.NewLLMStrategy(agg, client, scoutCfg), nil
	}
}
