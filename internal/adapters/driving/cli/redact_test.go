package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactCmd_Use(t *testing.T) {
	assert.Equal(t, "redact [file]", redactCmd.Use)
}

func TestRedactCmd_Short(t *testing.T) {
	assert.Equal(t, "Redact a document", redactCmd.Short)
}

func TestRedactCmd_FromStdin(t *testing.T) {
	useTestConfig(t)
	rootCmd.SetIn(strings.NewReader("Patient: John Smith, DOB 01/02/1993. Seen again on 01/09/1993."))

	out, err := execute(t, "redact")

	require.NoError(t, err)
	assert.Equal(t, "Patient: {{NAME_1}}, DOB {{DATE_1:DAY_0}}. Seen again on {{DATE_2:DAY_7}}.", out)
}

func TestRedactCmd_FromFile(t *testing.T) {
	useTestConfig(t)
	path := filepath.Join(t.TempDir(), "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("SSN: 123-45-6789"), 0600))

	out, err := execute(t, "redact", path)

	require.NoError(t, err)
	assert.Equal(t, "SSN: {{ID_1}}", out)
}

func TestRedactCmd_MissingFile(t *testing.T) {
	useTestConfig(t)

	_, err := execute(t, "redact", filepath.Join(t.TempDir(), "absent.txt"))

	assert.Error(t, err)
}

func TestRedactCmd_JSONOutput(t *testing.T) {
	useTestConfig(t)
	defer func() { redactJSON = false }()
	rootCmd.SetIn(strings.NewReader("SSN: 123-45-6789"))

	out, err := execute(t, "redact", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"redacted": "SSN: {{ID_1}}"`)
	assert.Contains(t, out, `"plan"`)
	assert.Contains(t, out, `"log"`)
}

func TestRedactCmd_Summary(t *testing.T) {
	useTestConfig(t)
	defer func() { redactSummary = false }()
	rootCmd.SetIn(strings.NewReader("SSN: 123-45-6789"))

	out, err := execute(t, "redact", "--summary")

	require.NoError(t, err)
	assert.Contains(t, out, "SSN: {{ID_1}}")
	assert.Contains(t, out, "redacted 1 spans:")
	assert.Contains(t, out, "ID")
}

func TestReadInput_DashMeansStdin(t *testing.T) {
	rootCmd.SetIn(strings.NewReader("hello"))
	defer rootCmd.SetIn(nil)

	text, err := readInput(rootCmd, []string{"-"})

	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}
