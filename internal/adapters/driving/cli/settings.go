package cli

import (
	"fmt"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage engine settings",
	Long: `View and configure the redaction engine: parity mode, streaming
safety margin, and the vocabulary allowlist.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsModeCmd = &cobra.Command{
	Use:   "mode [mode]",
	Short: "Set the parity mode",
	Long: `Set which implementation of accelerated detectors serves each request.

Available modes:
  reference   - regex reference implementations only (default)
  accelerated - accelerated implementations, with per-call fallback
  shadow      - reference output plus differential verification records`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsMode,
}

var settingsAllowlistCmd = &cobra.Command{
	Use:   "allowlist",
	Short: "Manage the vocabulary allowlist",
	Long: `Values on the allowlist are never redacted unless the span is
structurally certain (a labelled identifier, for example).`,
}

var settingsAllowlistAddCmd = &cobra.Command{
	Use:   "add [value]",
	Short: "Add a value to the allowlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runAllowlistAdd,
}

var settingsAllowlistRemoveCmd = &cobra.Command{
	Use:   "remove [value]",
	Short: "Remove a value from the allowlist",
	Args:  cobra.ExactArgs(1),
	RunE:  runAllowlistRemove,
}

func init() {
	settingsAllowlistCmd.AddCommand(settingsAllowlistAddCmd)
	settingsAllowlistCmd.AddCommand(settingsAllowlistRemoveCmd)
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsModeCmd)
	settingsCmd.AddCommand(settingsAllowlistCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	settings, _, err := loadSettings()
	if err != nil {
		return err
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	cmd.Print(string(data))
	return nil
}

func runSettingsMode(cmd *cobra.Command, args []string) error {
	mode := domain.ParityMode(args[0])
	if !mode.Valid() {
		return fmt.Errorf("unknown mode %q (want reference, accelerated, or shadow)", args[0])
	}

	settings, store, err := loadSettings()
	if err != nil {
		return err
	}

	settings.Mode = mode
	if err := store.Save(settings); err != nil {
		return err
	}
	cmd.Printf("mode set to %s\n", mode)
	return nil
}

func runAllowlistAdd(cmd *cobra.Command, args []string) error {
	settings, store, err := loadSettings()
	if err != nil {
		return err
	}

	if slices.Contains(settings.Allowlist, args[0]) {
		cmd.Printf("%q is already allowlisted\n", args[0])
		return nil
	}

	settings.Allowlist = append(settings.Allowlist, args[0])
	if err := store.Save(settings); err != nil {
		return err
	}
	cmd.Printf("added %q to the allowlist\n", args[0])
	return nil
}

func runAllowlistRemove(cmd *cobra.Command, args []string) error {
	settings, store, err := loadSettings()
	if err != nil {
		return err
	}

	idx := slices.Index(settings.Allowlist, args[0])
	if idx < 0 {
		return fmt.Errorf("%q is not on the allowlist", args[0])
	}

	settings.Allowlist = slices.Delete(settings.Allowlist, idx, idx+1)
	if err := store.Save(settings); err != nil {
		return err
	}
	cmd.Printf("removed %q from the allowlist\n", args[0])
	return nil
}
