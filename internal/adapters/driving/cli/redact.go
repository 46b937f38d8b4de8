package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

var (
	redactJSON    bool
	redactSummary bool
)

var redactCmd = &cobra.Command{
	Use:   "redact [file]",
	Short: "Redact a document",
	Long: `Redacts identifying information from a document and writes the result
to stdout. Reads from stdin when no file is given or the file is "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRedact,
}

func init() {
	redactCmd.Flags().BoolVar(&redactJSON, "json", false, "output the full result (text, plan, log) as JSON")
	redactCmd.Flags().BoolVar(&redactSummary, "summary", false, "print a per-category span count to stderr")
	rootCmd.AddCommand(redactCmd)
}

func runRedact(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	engine, _, err := newEngine("")
	if err != nil {
		return err
	}
	defer engine.Close()

	result, err := engine.Redact(context.Background(), text)
	if err != nil {
		return fmt.Errorf("redaction failed: %w", err)
	}

	if redactJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
	} else {
		cmd.Print(result.Redacted)
	}

	if redactSummary {
		printSummary(cmd, result.Plan)
	}
	return nil
}

// readInput returns the document text from the file argument or stdin.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", args[0], err)
	}
	return string(data), nil
}

func printSummary(cmd *cobra.Command, plan *domain.ResolvedPlan) {
	summary := plan.Summary()
	if len(summary) == 0 {
		cmd.PrintErrln("no spans redacted")
		return
	}
	cmd.PrintErrf("redacted %d spans:\n", plan.Len())
	for _, cat := range []domain.Category{
		domain.CategoryName, domain.CategoryDate, domain.CategoryAddress,
		domain.CategoryIdentifier, domain.CategoryContact, domain.CategoryDevice,
		domain.CategoryBiometric, domain.CategoryVehicle, domain.CategoryUniqueID,
		domain.CategoryAge, domain.CategoryLocation,
	} {
		if n := summary[cat]; n > 0 {
			cmd.PrintErrf("  %-10s %d\n", cat, n)
		}
	}
}
