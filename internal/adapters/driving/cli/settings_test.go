package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scrub-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/scrub-cli/internal/core/domain"
)

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsShow_PrintsTOML(t *testing.T) {
	useTestConfig(t)

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "mode = 'reference'")
	assert.Contains(t, out, "max_match_length = 256")
}

func TestSettingsMode_Persists(t *testing.T) {
	useTestConfig(t)

	out, err := execute(t, "settings", "mode", "shadow")

	require.NoError(t, err)
	assert.Contains(t, out, "mode set to shadow")

	store, err := file.NewConfigStore(configDir)
	require.NoError(t, err)
	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.ModeShadow, settings.Mode)
}

func TestSettingsMode_RejectsUnknown(t *testing.T) {
	useTestConfig(t)

	_, err := execute(t, "settings", "mode", "turbo")

	assert.Error(t, err)
}

func TestAllowlistAdd_Persists(t *testing.T) {
	useTestConfig(t)

	out, err := execute(t, "settings", "allowlist", "add", "Mercy General")

	require.NoError(t, err)
	assert.Contains(t, out, `added "Mercy General" to the allowlist`)

	store, err := file.NewConfigStore(configDir)
	require.NoError(t, err)
	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Mercy General"}, settings.Allowlist)
}

func TestAllowlistAdd_Duplicate(t *testing.T) {
	useTestConfig(t)

	_, err := execute(t, "settings", "allowlist", "add", "Mercy General")
	require.NoError(t, err)
	out, err := execute(t, "settings", "allowlist", "add", "Mercy General")

	require.NoError(t, err)
	assert.Contains(t, out, "already allowlisted")
}

func TestAllowlistRemove_Persists(t *testing.T) {
	useTestConfig(t)

	_, err := execute(t, "settings", "allowlist", "add", "Mercy General")
	require.NoError(t, err)
	out, err := execute(t, "settings", "allowlist", "remove", "Mercy General")

	require.NoError(t, err)
	assert.Contains(t, out, `removed "Mercy General" from the allowlist`)

	store, err := file.NewConfigStore(configDir)
	require.NoError(t, err)
	settings, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, settings.Allowlist)
}

func TestAllowlistRemove_Missing(t *testing.T) {
	useTestConfig(t)

	_, err := execute(t, "settings", "allowlist", "remove", "Nobody")

	assert.Error(t, err)
}
