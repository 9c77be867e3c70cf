package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nova0077/unravel-dspy/internal/config"
	"github.com/nova0077/unravel-dspy/internal/llm"
	"github.com/nova0077/unravel-dspy/internal/observability"
	"github.com/nova0077/unravel-dspy/internal/scout"
)

var scoutCommand = &cobra.Command{
	Use:   "scout",
	Short: "Run only the founder search and print the candidates",
	Long:  "Runs search aggregation, extraction, resolution, and PR selection without composing or sending anything. Useful for inspecting what the agent would do.",
	RunE:  runScoutCmd,
}

var (
	scoutAPIKey   string
	scoutCacheDir string
	scoutStrategy string
	scoutOut      string
	scoutVerbose  bool
)

func init() {
	scoutCommand.Flags().StringVar(&scoutAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	scoutCommand.Flags().StringVar(&scoutCacheDir, "cache-dir", "", "Directory for the fetch cache (defaults to .scout_cache)")
	scoutCommand.Flags().StringVar(&scoutStrategy, "strategy", "", "Founder resolution strategy: llm or heuristic (default llm)")
	scoutCommand.Flags().StringVarP(&scoutOut, "out", "o", "", "Write the candidate list as JSON to this file")
	scoutCommand.Flags().BoolVarP(&scoutVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(scoutCommand)
}

func runScoutCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := config.FromEnv()
	if scoutAPIKey != "" {
		cfg.APIKey = scoutAPIKey
	}
	if scoutCacheDir != "" {
		cfg.CacheDir = scoutCacheDir
	}
	if scoutStrategy != "" {
		cfg.Strategy = scoutStrategy
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = ".scout_cache"
	}

	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
	}

	client, err := llm.NewClient(ctx, nil, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	strategy, err := buildStrategy(ctx, client, cfg, scout.DefaultConfig())
	if err != nil {
		return err
	}

	founders, err := strategy.FindFounders(ctx)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)
	if scoutVerbose {
		printer.PrintSession(sessionFor(strategy))
	}
	printer.PrintCandidates(founders)

	if scoutOut != "" {
		data, err := json.MarshalIndent(founders, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal candidates: %w", err)
		}
		if err := os.WriteFile(scoutOut, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", scoutOut, err)
		}
		fmt.Printf("[scout] wrote %d candidates to %s\n", len(founders), scoutOut)
	}
	return nil
}

// sessionFor returns the run record when the strategy keeps one. The
// heuristic strategy has no session; PrintSession tolerates nil.
func sessionFor(strategy scout.FounderResolutionStrategy) *scout.Session {
	if s, ok := strategy.(*scout.LLMStrategy); ok {
		return s.Session
	}
	return nil
}
