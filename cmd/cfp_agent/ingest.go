package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cfp-scout/internal/fetch"
	"github.com/jonathan/cfp-scout/internal/ingest"
	"github.com/jonathan/cfp-scout/internal/types"
)

var (
	ingestOutPath string
	ingestBrowser bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [urls...]",
	Short: "Fetch conference pages into a candidates JSON file",
	Long: `Fetch one or more conference or CFP pages and extract candidate records
for scoring. With --browser, pages that look like unrendered JavaScript shells
are retried in a headless browser.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestOutPath, "out", "", "Write candidates JSON to this file instead of stdout")
	ingestCmd.Flags().BoolVar(&ingestBrowser, "browser", false, "Allow headless browser fallback for SPA pages")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	var records []types.CandidateRecord
	if ingestBrowser || cfg.UseBrowser {
		// Browser fallback needs the per-page path.
		for _, url := range args {
			record, err := ingest.FetchCandidate(ctx, url, fetch.DefaultOptions(), log)
			if err != nil {
				fmt.Fprintf(os.Stderr, "skipping %s: %v\n", url, err)
				continue
			}
			records = append(records, *record)
		}
	} else {
		records, err = ingest.FetchCandidates(ctx, args, fetch.DefaultOptions(), log)
		if err != nil {
			return err
		}
	}

	if len(records) == 0 {
		return fmt.Errorf("no candidates could be ingested")
	}

	out := os.Stdout
	if ingestOutPath != "" {
		f, err := os.Create(ingestOutPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to write candidates: %w", err)
	}
	return nil
}
