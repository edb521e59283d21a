package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/wordfall-io/wordfall/internal/config"
	"github.com/wordfall-io/wordfall/internal/rating"
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Track and evaluate the rating-prompt state",
	Long: `Track a local install snapshot and evaluate it against the configured
rating-prompt policy. Useful for tuning thresholds before shipping them.`,
}

var rateSessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Record a play session",
	RunE:  runRateSession,
}

var rateCrashCmd = &cobra.Command{
	Use:   "crash",
	Short: "Record a crash",
	RunE:  runRateCrash,
}

var rateLaunchCmd = &cobra.Command{
	Use:   "launch <millis>",
	Short: "Record a launch-time sample in milliseconds",
	Args:  cobra.ExactArgs(1),
	RunE:  runRateLaunch,
}

var ratePromptedCmd = &cobra.Command{
	Use:   "prompted <app-version>",
	Short: "Record that the prompt was shown",
	Args:  cobra.ExactArgs(1),
	RunE:  runRatePrompted,
}

var rateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the tracked snapshot",
	RunE:  runRateStatus,
}

var rateEvaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate the snapshot against the policy",
	RunE:  runRateEvaluate,
}

func init() {
	rateCmd.AddCommand(rateCrashCmd)
	rateCmd.AddCommand(rateEvaluateCmd)
	rateCmd.AddCommand(rateLaunchCmd)
	rateCmd.AddCommand(ratePromptedCmd)
	rateCmd.AddCommand(rateSessionCmd)
	rateCmd.AddCommand(rateStatusCmd)
}

func runRateSession(cmd *cobra.Command, args []string) error {
	state, err := config.LoadRatingState()
	if err != nil {
		return fmt.Errorf("failed to load rating state: %w", err)
	}

	state.RecordSession(time.Now().UTC())
	if err := config.SaveRatingState(state); err != nil {
		return fmt.Errorf("failed to save rating state: %w", err)
	}

	fmt.Printf("Session recorded (%d total).\n", state.Sessions)
	return nil
}

func runRateCrash(cmd *cobra.Command, args []string) error {
	state, err := config.LoadRatingState()
	if err != nil {
		return fmt.Errorf("failed to load rating state: %w", err)
	}

	state.RecordCrash()
	if err := config.SaveRatingState(state); err != nil {
		return fmt.Errorf("failed to save rating state: %w", err)
	}

	fmt.Printf("Crash recorded (%d in current window).\n", state.Crashes)
	return nil
}

func runRateLaunch(cmd *cobra.Command, args []string) error {
	millis, err := strconv.Atoi(args[0])
	if err != nil || millis <= 0 {
		return fmt.Errorf("invalid launch time %q: expected positive milliseconds", args[0])
	}

	state, err := config.LoadRatingState()
	if err != nil {
		return fmt.Errorf("failed to load rating state: %w", err)
	}

	state.RecordLaunchMillis(millis)
	if err := config.SaveRatingState(state); err != nil {
		return fmt.Errorf("failed to save rating state: %w", err)
	}

	fmt.Printf("Launch sample recorded (rolling average %dms).\n", state.AvgLaunchMillis)
	return nil
}

func runRatePrompted(cmd *cobra.Command, args []string) error {
	state, err := config.LoadRatingState()
	if err != nil {
		return fmt.Errorf("failed to load rating state: %w", err)
	}

	state.MarkPrompted(args[0], time.Now().UTC())
	if err := config.SaveRatingState(state); err != nil {
		return fmt.Errorf("failed to save rating state: %w", err)
	}

	fmt.Printf("Prompt recorded for version %s (%d lifetime).\n", args[0], state.Prompts)
	return nil
}

func runRateStatus(cmd *cobra.Command, args []string) error {
	state, err := config.LoadRatingState()
	if err != nil {
		return fmt.Errorf("failed to load rating state: %w", err)
	}

	fmt.Println("Rating snapshot:")
	fmt.Printf("  Sessions:       %d\n", state.Sessions)
	if state.InstalledAt.IsZero() {
		fmt.Println("  Installed:      (no sessions yet)")
	} else {
		fmt.Printf("  Installed:      %s\n", state.InstalledAt.Format(time.RFC3339))
	}
	fmt.Printf("  Prompts:        %d\n", state.Prompts)
	if state.LastPromptAt != nil {
		fmt.Printf("  Last prompt:    %s (v%s)\n", state.LastPromptAt.Format(time.RFC3339), state.LastPromptVersion)
	}
	fmt.Printf("  Crashes:        %d\n", state.Crashes)
	fmt.Printf("  Avg launch:     %dms\n", state.AvgLaunchMillis)
	return nil
}

func runRateEvaluate(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	state, err := config.LoadRatingState()
	if err != nil {
		return fmt.Errorf("failed to load rating state: %w", err)
	}

	decision := rating.Evaluate(settings.Rating, *state, time.Now().UTC())
	if decision.Prompt {
		fmt.Println("Prompt: YES (all triggers passed)")
		return nil
	}

	fmt.Println("Prompt: no")
	for _, name := range decision.BlockedBy {
		fmt.Printf("  blocked by %s\n", name)
	}
	return nil
}
