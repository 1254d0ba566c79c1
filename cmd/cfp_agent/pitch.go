package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cfp-scout/internal/generate"
	"github.com/jonathan/cfp-scout/internal/llm"
	"github.com/jonathan/cfp-scout/internal/types"
)

var (
	pitchCandidatesPath string
	pitchCandidateID    string
)

var pitchCmd = &cobra.Command{
	Use:   "pitch",
	Short: "Draft a submission pitch for one conference",
	Long: `Generate a tailored talk pitch for a single candidate conference using
the saved speaker profile. Requires GEMINI_API_KEY.`,
	RunE: runPitch,
}

func init() {
	pitchCmd.Flags().StringVar(&pitchCandidatesPath, "candidates", "", "Path to candidates JSON file (required)")
	pitchCmd.Flags().StringVar(&pitchCandidateID, "id", "", "ID of the candidate to pitch (required)")
	_ = pitchCmd.MarkFlagRequired("candidates")
	_ = pitchCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(pitchCmd)
}

func runPitch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	stored, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if stored.Interview == nil {
		return fmt.Errorf("no interview profile saved yet; run `cfp_agent interview` first")
	}

	raw, err := os.ReadFile(pitchCandidatesPath)
	if err != nil {
		return fmt.Errorf("failed to read candidates file: %w", err)
	}
	var candidates []types.CandidateRecord
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return fmt.Errorf("failed to parse candidates JSON: %w", err)
	}

	var target *types.CandidateRecord
	for i := range candidates {
		if candidates[i].ID == pitchCandidateID {
			target = &candidates[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("candidate %q not found in %s", pitchCandidateID, pitchCandidatesPath)
	}

	client, err := llm.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}
	defer func() { _ = client.Close() }()

	gen, err := generate.NewGenerator(client)
	if err != nil {
		return err
	}

	pitch, err := gen.Pitch(ctx, target, stored.Interview)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n\n%s\n\nTalk ideas:\n", pitch.Headline, pitch.Angle)
	for _, idea := range pitch.TalkIdeas {
		fmt.Printf("  - %s\n", idea)
	}
	return nil
}
