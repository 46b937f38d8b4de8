package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scrub-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

var (
	parityDetector string
	parityLimit    int
	parityJSON     bool
)

var parityCmd = &cobra.Command{
	Use:   "parity",
	Short: "Verify accelerated detector implementations",
	Long: `Compares the reference and accelerated implementations of detectors
that carry both. Use "run" to shadow-compare over a document and "report"
to inspect records accumulated in the audit store.`,
}

var parityRunCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Shadow-compare over a document",
	Long: `Redacts the document in shadow mode: the reference implementation
produces the output while every accelerated implementation is diffed
against it. Prints one comparison summary per detector invocation.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParityRun,
}

var parityReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show stored comparison records",
	Args:  cobra.NoArgs,
	RunE:  runParityReport,
}

func init() {
	parityRunCmd.Flags().BoolVar(&parityJSON, "json", false, "output records as JSON")
	parityReportCmd.Flags().StringVar(&parityDetector, "detector", "", "only records for this detector")
	parityReportCmd.Flags().IntVarP(&parityLimit, "limit", "n", 20, "maximum number of records")
	parityReportCmd.Flags().BoolVar(&parityJSON, "json", false, "output records as JSON")

	parityCmd.AddCommand(parityRunCmd)
	parityCmd.AddCommand(parityReportCmd)
	rootCmd.AddCommand(parityCmd)
}

func runParityRun(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	// The run is always a shadow comparison regardless of configured mode.
	engine, _, err := newEngine(domain.ModeShadow)
	if err != nil {
		return err
	}

	if _, err := engine.Redact(context.Background(), text); err != nil {
		engine.Close()
		return fmt.Errorf("redaction failed: %w", err)
	}

	// Closing the engine closes the record channel so the drain below
	// terminates.
	records := engine.Records()
	if err := engine.Close(); err != nil {
		return err
	}

	var recs []domain.ParityRecord
	for rec := range records {
		recs = append(recs, rec)
	}
	return outputParity(cmd, recs)
}

func runParityReport(cmd *cobra.Command, _ []string) error {
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("opening audit store: %w", err)
	}
	defer store.Close()

	recs, err := store.ParityRecords(context.Background(), parityDetector, parityLimit)
	if err != nil {
		return err
	}
	return outputParity(cmd, recs)
}

func outputParity(cmd *cobra.Command, recs []domain.ParityRecord) error {
	if parityJSON {
		data, err := json.MarshalIndent(recs, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal records: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(recs) == 0 {
		cmd.Println("No parity records.")
		return nil
	}

	clean := 0
	for _, rec := range recs {
		status := "DIVERGED"
		if rec.Clean() {
			status = "clean"
			clean++
		}
		cmd.Printf("%-12s %-10s matched=%d only_ref=%d only_acc=%d\n",
			rec.Detector, status, rec.Matched, rec.OnlyReference, rec.OnlyAccelerated)
		for _, d := range rec.Diffs {
			cmd.Printf("    %s only: %s [%d,%d) conf=%.2f\n",
				d.Side, d.Category, d.CharacterStart, d.CharacterEnd, d.Confidence)
		}
	}
	cmd.Printf("%d/%d records clean\n", clean, len(recs))
	return nil
}
