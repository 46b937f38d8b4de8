package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

func TestParityCmd_Use(t *testing.T) {
	assert.Equal(t, "parity", parityCmd.Use)
}

func TestParityRunCmd_Use(t *testing.T) {
	assert.Equal(t, "run [file]", parityRunCmd.Use)
}

func TestParityRun_CleanComparison(t *testing.T) {
	useTestConfig(t)
	rootCmd.SetIn(strings.NewReader("SSN: 123-45-6789 and card 4111 1111 1111 1111."))

	out, err := execute(t, "parity", "run")

	require.NoError(t, err)
	assert.Contains(t, out, "identifiers")
	assert.Contains(t, out, "clean")
	assert.NotContains(t, out, "DIVERGED")
	// The forced shadow comparison is scoped to the run; it must not
	// leak into the persistent mode flag.
	assert.Empty(t, modeFlag)
}

func TestParityReport_EmptyStore(t *testing.T) {
	useTestConfig(t)

	out, err := execute(t, "parity", "report")

	require.NoError(t, err)
	assert.Contains(t, out, "No parity records.")
}

func TestOutputParity_Diverged(t *testing.T) {
	cmd := &cobra.Command{}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	recs := []domain.ParityRecord{
		{Detector: "identifiers", Matched: 3},
		{
			Detector:      "contact",
			Matched:       1,
			OnlyReference: 1,
			Diffs: []domain.ParityDiff{{
				Side:           domain.SideReference,
				Category:       domain.CategoryContact,
				CharacterStart: 4,
				CharacterEnd:   19,
				Confidence:     0.9,
			}},
		},
	}

	require.NoError(t, outputParity(cmd, recs))

	out := buf.String()
	assert.Contains(t, out, "identifiers  clean")
	assert.Contains(t, out, "contact      DIVERGED")
	assert.Contains(t, out, "reference only: CONTACT [4,19) conf=0.90")
	assert.Contains(t, out, "1/2 records clean")
}

func TestOutputParity_JSON(t *testing.T) {
	originalJSON := parityJSON
	parityJSON = true
	defer func() { parityJSON = originalJSON }()

	cmd := &cobra.Command{}
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	recs := []domain.ParityRecord{{Detector: "identifiers", Matched: 2}}
	require.NoError(t, outputParity(cmd, recs))

	assert.Contains(t, buf.String(), `"detector": "identifiers"`)
	assert.Contains(t, buf.String(), `"matched": 2`)
}
