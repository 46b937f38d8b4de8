// Package cli implements the command-line driving adapter.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scrub-cli/internal/adapters/driven/audit"
	"github.com/custodia-labs/scrub-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scrub-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scrub-cli/internal/core/domain"
	"github.com/custodia-labs/scrub-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scrub-cli/internal/core/services"
	"github.com/custodia-labs/scrub-cli/internal/detectors"
	"github.com/custodia-labs/scrub-cli/internal/logger"
)

// version is set from the build via Execute.
var version = "dev"

var (
	verbose   bool
	configDir string
	dataDir   string
	modeFlag  string
	auditFile string
	auditDB   bool
)

var rootCmd = &cobra.Command{
	Use:   "scrub",
	Short: "Redact identifying information from text",
	Long: `scrub detects identifying information in documents and replaces it
with stable, chronology-preserving tokens. The same value always maps to
the same token within a document, and dates are encoded as day offsets
from the document's first date so clinical timelines survive redaction.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.scrub)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory for the audit store (default ~/.scrub/data)")
	rootCmd.PersistentFlags().StringVar(&modeFlag, "mode", "", "override parity mode: reference, accelerated, or shadow")
	rootCmd.PersistentFlags().StringVar(&auditFile, "audit-file", "", "append decision and parity records to a JSONL file")
	rootCmd.PersistentFlags().BoolVar(&auditDB, "audit-db", false, "record decisions and parity records in the SQLite audit store")
}

// Execute runs the root command with the given build version.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// loadSettings reads settings from the config store and applies the
// --mode override.
func loadSettings() (domain.Settings, *file.ConfigStore, error) {
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return domain.Settings{}, nil, fmt.Errorf("opening config store: %w", err)
	}

	settings, err := store.Load()
	if err != nil {
		return domain.Settings{}, nil, err
	}

	if modeFlag != "" {
		settings.Mode = domain.ParityMode(modeFlag)
	}
	if err := settings.Validate(); err != nil {
		return domain.Settings{}, nil, err
	}
	return settings, store, nil
}

// newAuditSink builds the configured audit sink, or nil when auditing is
// disabled.
func newAuditSink() (driven.AuditSink, error) {
	switch {
	case auditFile != "":
		return audit.NewJSONLSink(auditFile)
	case auditDB:
		return sqlite.NewStore(dataDir)
	default:
		return nil, nil
	}
}

// newEngine assembles the full engine: config, detector set, audit sink.
// A non-empty mode overrides both the configured and the flag-selected
// parity mode. The caller owns the engine and must Close it.
func newEngine(mode domain.ParityMode) (*services.Engine, domain.Settings, error) {
	settings, _, err := loadSettings()
	if err != nil {
		return nil, domain.Settings{}, err
	}
	if mode != "" {
		settings.Mode = mode
	}

	registry := detectors.NewRegistry()
	detectors.RegisterDefaults(registry)
	set, err := registry.BuildAll(settings.Detectors)
	if err != nil {
		return nil, domain.Settings{}, err
	}

	sink, err := newAuditSink()
	if err != nil {
		return nil, domain.Settings{}, err
	}

	engine, err := services.NewEngine(set, settings, sink)
	if err != nil {
		if sink != nil {
			sink.Close()
		}
		return nil, domain.Settings{}, err
	}
	return engine, settings, nil
}
