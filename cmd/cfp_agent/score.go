package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cfp-scout/internal/matching"
	"github.com/jonathan/cfp-scout/internal/types"
)

var (
	scoreCandidatesPath string
	scoreJSON           bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Rank candidate CFPs against your profile",
	Long: `Score and rank a JSON file of candidate conferences against the saved
speaker profile. Falls back to plain topic matching when no interview profile
has been committed yet.`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreCandidatesPath, "candidates", "", "Path to candidates JSON file (required)")
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Emit ranked results as JSON")
	_ = scoreCmd.MarkFlagRequired("candidates")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	raw, err := os.ReadFile(scoreCandidatesPath)
	if err != nil {
		return fmt.Errorf("failed to read candidates file: %w", err)
	}
	var candidates []types.CandidateRecord
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return fmt.Errorf("failed to parse candidates JSON: %w", err)
	}

	stored, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	var ranked []matching.RankedCandidate
	if stored.Interview != nil {
		ranked, err = matching.RankAll(ctx, candidates, stored.Interview)
	} else {
		ranked, err = matching.RankAllTopics(ctx, candidates, stored.Topics)
	}
	if err != nil {
		return fmt.Errorf("ranking failed: %w", err)
	}

	if scoreJSON {
		return json.NewEncoder(os.Stdout).Encode(ranked)
	}
	for i, rc := range ranked {
		fmt.Printf("%2d. [%3d] %s", i+1, rc.Result.Score, rc.Candidate.Name)
		if len(rc.Result.Reasons) > 0 {
			fmt.Printf("  (%s)", strings.Join(rc.Result.Reasons, "; "))
		}
		fmt.Println()
	}
	return nil
}
