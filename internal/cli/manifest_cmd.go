package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/wordfall-io/wordfall/internal/config"
	"github.com/wordfall-io/wordfall/internal/manifest"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect and validate release manifests",
}

var manifestValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a manifest file against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runManifestValidate,
}

var manifestShowCmd = &cobra.Command{
	Use:   "show [file]",
	Short: "Show the manifest being served",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runManifestShow,
}

var manifestVerifyCmd = &cobra.Command{
	Use:   "verify <file> <pubkey>",
	Short: "Verify a manifest's minisign signature",
	Long: `Verify the minisign signature of a manifest file. The signature is
expected in a <file>.minisig sidecar, as produced by minisign -Sm.`,
	Args: cobra.ExactArgs(2),
	RunE: runManifestVerify,
}

func init() {
	manifestCmd.AddCommand(manifestShowCmd)
	manifestCmd.AddCommand(manifestValidateCmd)
	manifestCmd.AddCommand(manifestVerifyCmd)
}

func runManifestValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	m, err := manifest.Parse(data)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", args[0], err)
	}

	fmt.Printf("%s is valid (%d platforms).\n", args[0], len(m.Platforms))
	return nil
}

func runManifestShow(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		settings, err := config.LoadSettings()
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}
		path = settings.Manifest.Path
		if path == "" {
			path, err = config.GlobalManifestFile()
			if err != nil {
				return err
			}
		}
	}

	m, err := manifest.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load manifest %s: %w", path, err)
	}

	fmt.Printf("Manifest %s (schema v%d)\n", path, m.SchemaVersion)
	if !m.UpdatedAt.IsZero() {
		fmt.Printf("  Updated: %s\n", m.UpdatedAt.Format("2006-01-02 15:04:05 MST"))
	}

	names := make([]string, 0, len(m.Platforms))
	for name := range m.Platforms {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := m.Platforms[name]
		fmt.Printf("  %-8s latest %-10s minimum %s\n", name, p.Latest, p.Minimum)
	}
	return nil
}

func runManifestVerify(cmd *cobra.Command, args []string) error {
	path, pubKey := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := manifest.VerifySignature(data, path+".minisig", pubKey); err != nil {
		return err
	}

	fmt.Printf("%s: signature OK.\n", path)
	return nil
}
