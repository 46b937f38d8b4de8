package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scrub-cli/internal/detectors"
)

var detectorsCmd = &cobra.Command{
	Use:   "detectors",
	Short: "List available detectors",
	RunE:  runDetectors,
}

func init() {
	rootCmd.AddCommand(detectorsCmd)
}

func runDetectors(cmd *cobra.Command, _ []string) error {
	registry := detectors.NewRegistry()
	detectors.RegisterDefaults(registry)

	settings, _, err := loadSettings()
	if err != nil {
		return err
	}

	enabled := make(map[string]bool, len(settings.Detectors))
	for _, name := range settings.Detectors {
		enabled[name] = true
	}

	for _, name := range registry.Names() {
		status := "enabled"
		if len(settings.Detectors) > 0 && !enabled[name] {
			status = "disabled"
		}
		cmd.Printf("%-14s %s\n", name, status)
	}
	return nil
}
