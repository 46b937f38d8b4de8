package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamCmd_Use(t *testing.T) {
	assert.Equal(t, "stream", streamCmd.Use)
}

func TestStreamCmd_MatchesBatchOutput(t *testing.T) {
	useTestConfig(t)
	defer func() { streamChunkSize = 4096 }()
	input := "Patient: John Smith, DOB 01/02/1993. Seen again on 01/09/1993."
	rootCmd.SetIn(strings.NewReader(input))

	// Small chunks force matches to straddle read boundaries.
	out, err := execute(t, "stream", "--chunk-size", "7")

	require.NoError(t, err)
	assert.Equal(t, "Patient: {{NAME_1}}, DOB {{DATE_1:DAY_0}}. Seen again on {{DATE_2:DAY_7}}.", out)
}

func TestStreamCmd_EmptyInput(t *testing.T) {
	useTestConfig(t)
	defer func() { streamChunkSize = 4096 }()
	rootCmd.SetIn(strings.NewReader(""))

	out, err := execute(t, "stream")

	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestStreamCmd_RejectsNonPositiveChunkSize(t *testing.T) {
	useTestConfig(t)
	defer func() { streamChunkSize = 4096 }()
	rootCmd.SetIn(strings.NewReader("text"))

	_, err := execute(t, "stream", "--chunk-size", "0")

	assert.Error(t, err)
}
