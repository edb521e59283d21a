package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wordfall-io/wordfall/internal/config"
	"github.com/wordfall-io/wordfall/internal/update"
)

var configureCmd = &cobra.Command{
	Use:     "configure",
	Aliases: []string{"config"},
	Short:   "Configure Wordfall settings",
	Long: `Configure global settings interactively.

This allows you to modify:
  - Release manifest source (URL, local path, default platform)
  - Update check frequency (every_launch, daily, weekly)
  - Rating-prompt thresholds
  - Telemetry opt-in

Press Enter to keep the current value for any setting.`,
	RunE: runConfigure,
}

func runConfigure(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	changed := false

	fmt.Println("Manifest:")

	url := promptString(reader, "  Manifest URL", settings.Manifest.URL)
	if url != settings.Manifest.URL {
		settings.Manifest.URL = url
		changed = true
	}

	path := promptString(reader, "  Manifest path", settings.Manifest.Path)
	if path != settings.Manifest.Path {
		settings.Manifest.Path = path
		changed = true
	}

	platform := promptString(reader, "  Default platform", settings.Manifest.DefaultPlatform)
	if platform != settings.Manifest.DefaultPlatform {
		settings.Manifest.DefaultPlatform = platform
		changed = true
	}

	fmt.Println("\nUpdates:")

	freq := promptString(reader, "  Check frequency (every_launch/daily/weekly)", settings.Updates.CheckFrequency)
	if freq != settings.Updates.CheckFrequency {
		if !isValidFrequency(freq) {
			return fmt.Errorf("invalid frequency: %s", freq)
		}
		settings.Updates.CheckFrequency = freq
		changed = true
	}

	checkOnStartup := promptYesNoWithCurrent(reader, "Check on startup?", settings.Updates.CheckOnStartup)
	if checkOnStartup != settings.Updates.CheckOnStartup {
		settings.Updates.CheckOnStartup = checkOnStartup
		changed = true
	}

	fmt.Println("\nRating prompt:")

	minSessions := promptInt(reader, "  Minimum sessions", settings.Rating.MinSessions)
	if minSessions != settings.Rating.MinSessions {
		settings.Rating.MinSessions = minSessions
		changed = true
	}

	minDays := promptInt(reader, "  Minimum days installed", settings.Rating.MinDaysInstalled)
	if minDays != settings.Rating.MinDaysInstalled {
		settings.Rating.MinDaysInstalled = minDays
		changed = true
	}

	cooldown := promptInt(reader, "  Cooldown days", settings.Rating.CooldownDays)
	if cooldown != settings.Rating.CooldownDays {
		settings.Rating.CooldownDays = cooldown
		changed = true
	}

	maxPrompts := promptInt(reader, "  Lifetime prompt cap (0 = unlimited)", settings.Rating.MaxPrompts)
	if maxPrompts != settings.Rating.MaxPrompts {
		settings.Rating.MaxPrompts = maxPrompts
		changed = true
	}

	fmt.Println("\nTelemetry:")

	telemetry := promptYesNoWithCurrent(reader, "Enable anonymous telemetry?", settings.Telemetry.Enabled)
	if telemetry != settings.Telemetry.Enabled {
		settings.Telemetry.Enabled = telemetry
		changed = true
	}

	if !changed {
		fmt.Println("\nNo changes made.")
		return nil
	}

	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println("\nSettings updated.")
	return nil
}

// promptString prompts for a string showing the current value.
func promptString(reader *bufio.Reader, prompt, current string) string {
	fmt.Printf("%s [%s]: ", prompt, current)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(response)
	if response == "" {
		return current
	}
	return response
}

// promptInt prompts for an integer showing the current value. Invalid
// input keeps the current value.
func promptInt(reader *bufio.Reader, prompt string, current int) int {
	fmt.Printf("%s [%d]: ", prompt, current)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(response)
	if response == "" {
		return current
	}
	n, err := strconv.Atoi(response)
	if err != nil || n < 0 {
		fmt.Printf("  keeping %d (invalid input %q)\n", current, response)
		return current
	}
	return n
}

// promptYesNoWithCurrent prompts for a yes/no value showing the current value.
func promptYesNoWithCurrent(reader *bufio.Reader, prompt string, current bool) bool {
	currentStr := "no"
	if current {
		currentStr = "yes"
	}

	fmt.Printf("  %s [%s]: ", prompt, currentStr)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))

	if response == "" {
		return current
	}
	return response == "y" || response == "yes"
}

func isValidFrequency(freq string) bool {
	switch freq {
	case update.FrequencyEveryLaunch, update.FrequencyDaily, update.FrequencyWeekly:
		return true
	}
	return false
}
