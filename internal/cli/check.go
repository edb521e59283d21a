package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wordfall-io/wordfall/internal/config"
	"github.com/wordfall-io/wordfall/internal/manifest"
	"github.com/wordfall-io/wordfall/internal/update"
)

var (
	checkPlatform string
	checkCurrent  string
	checkForce    bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a client version needs an update",
	Long: `Check a client version against the release manifest.

The manifest is read from the configured path when present, otherwise
fetched from the configured URL. Checks respect the configured frequency
(every_launch, daily, weekly); pass --force to check regardless.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkPlatform, "platform", "", "Platform to check (defaults to settings)")
	checkCmd.Flags().StringVar(&checkCurrent, "current", "", "Current client version (required)")
	checkCmd.Flags().BoolVar(&checkForce, "force", false, "Check even if one is not due yet")
	_ = checkCmd.MarkFlagRequired("current")
}

func runCheck(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	platform := checkPlatform
	if platform == "" {
		platform = settings.Manifest.DefaultPlatform
	}
	if platform == "" {
		return fmt.Errorf("no platform given and no default_platform configured")
	}

	now := time.Now().UTC()
	if !checkForce && !update.ShouldCheck(settings.Updates.CheckFrequency, settings.Updates.LastChecked, now) {
		fmt.Printf("Not due yet (frequency %s, last checked %s). Use --force to check anyway.\n",
			settings.Updates.CheckFrequency, settings.Updates.LastChecked.Format(time.RFC3339))
		return nil
	}

	res, err := resolveUpdate(settings.Manifest.Path, settings.Manifest.URL, platform, checkCurrent)
	if err != nil {
		return err
	}

	settings.Updates.LastChecked = &now
	if err := config.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to record check time: %w", err)
	}

	switch {
	case res.Required:
		fmt.Printf("Update REQUIRED: %s < minimum %s (latest %s)\n", res.Current, res.Minimum, res.Latest)
	case res.Available:
		fmt.Printf("Update available: %s → latest %s\n", res.Current, res.Latest)
	default:
		fmt.Printf("Up to date (%s).\n", res.Current)
	}
	if res.StoreURL != "" {
		fmt.Printf("  Store: %s\n", res.StoreURL)
	}
	if res.NotesURL != "" {
		fmt.Printf("  Notes: %s\n", res.NotesURL)
	}

	return nil
}

// resolveUpdate loads the manifest from path, falling back to a URL fetch,
// and decides for the given platform and version.
func resolveUpdate(path, url, platform, current string) (*update.Result, error) {
	if path == "" {
		p, err := config.GlobalManifestFile()
		if err == nil {
			path = p
		}
	}

	if path != "" && config.FileExists(path) {
		m, err := manifest.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load manifest %s: %w", path, err)
		}
		return update.Resolve(m, platform, current)
	}

	if url == "" {
		return nil, fmt.Errorf("no manifest file found and no manifest URL configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := update.NewChecker(url).Check(ctx, platform, current)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", url, err)
	}
	return res, nil
}
