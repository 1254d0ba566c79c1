package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/cfp-scout/internal/agent"
	"github.com/jonathan/cfp-scout/internal/interview"
	"github.com/jonathan/cfp-scout/internal/profilestore"
	"github.com/jonathan/cfp-scout/internal/prompts"
	"github.com/jonathan/cfp-scout/internal/suggest"
	"github.com/jonathan/cfp-scout/internal/types"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run the speaker profile interview in the terminal",
	Long: `Talk to the profile coach one question at a time. When the coach has
enough to commit your profile it is validated and saved. Type /reset to start
over or /quit to leave without saving.`,
	RunE: runInterview,
}

func init() {
	rootCmd.AddCommand(interviewCmd)
}

func runInterview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	if cfg.AgentURL == "" {
		return fmt.Errorf("agent URL is required (set AGENT_URL or agent_url in config)")
	}

	log, err := newLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()
	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	client := agent.NewClient(cfg.AgentURL, agent.WithLogger(log))
	session := agent.NewSession(client,
		agent.WithSessionLogger(log),
		agent.WithOpening(prompts.Opening()))
	interceptor := interview.NewInterceptor(session, log)

	reply, err := session.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start interview: %w", err)
	}
	printAssistant(reply.Text)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case "/quit":
			return nil
		case "/reset":
			session.Reset()
			reply, err = session.Start(ctx)
			if err != nil {
				return fmt.Errorf("failed to restart interview: %w", err)
			}
			printAssistant(reply.Text)
			continue
		}

		reply, err = session.Send(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		outcome, err := interceptor.HandleReply(ctx, reply)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		text := reply.Text
		if outcome.Handled && outcome.FollowUp != nil {
			text = outcome.FollowUp.Text
		}
		printAssistant(text)

		if outcome.Handled && outcome.Profile != nil {
			if err := saveProfile(ctx, store, outcome.Profile); err != nil {
				return err
			}
			fmt.Println("\nProfile saved. Run `cfp_agent score` to rank open CFPs.")
		}
		if session.IsComplete() {
			return nil
		}
	}
	return scanner.Err()
}

func printAssistant(text string) {
	fmt.Printf("\n%s\n", text)
	if replies := suggest.QuickReplies(text); len(replies) > 0 {
		fmt.Printf("  (e.g. %s)\n", strings.Join(replies, " / "))
	}
	fmt.Println()
}

// saveProfile merges the committed profile into the stored record.
func saveProfile(ctx context.Context, store profilestore.Store, profile *types.InterviewProfile) error {
	stored, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load stored profile: %w", err)
	}
	stored.Interview = profile
	if err := store.Save(ctx, stored); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
