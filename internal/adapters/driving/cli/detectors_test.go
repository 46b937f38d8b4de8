package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectorsCmd_Use(t *testing.T) {
	assert.Equal(t, "detectors", detectorsCmd.Use)
}

func TestDetectorsCmd_ListsAllEnabled(t *testing.T) {
	useTestConfig(t)

	out, err := execute(t, "detectors")

	require.NoError(t, err)
	for _, name := range []string{"identifiers", "contact", "dates", "names", "address"} {
		assert.Contains(t, out, name)
	}
	assert.NotContains(t, out, "disabled")
}
