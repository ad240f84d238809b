package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvWithDefault(t *testing.T) {
	loader := NewEnvLoader(NewLogger())

	t.Setenv("PAIRS_LAB_TEST_VAR", "from-env")
	assert.Equal(t, "from-env", loader.GetEnvWithDefault("PAIRS_LAB_TEST_VAR", "fallback"))

	t.Setenv("PAIRS_LAB_TEST_VAR", "")
	assert.Equal(t, "fallback", loader.GetEnvWithDefault("PAIRS_LAB_TEST_VAR", "fallback"))

	assert.Equal(t, "fallback", loader.GetEnvWithDefault("PAIRS_LAB_TEST_UNSET_VAR", "fallback"))
}

func TestEnvLoader_LoadEnvFile(t *testing.T) {
	loader := NewEnvLoader(NewLogger())

	const key = "PAIRS_LAB_TEST_FILE_VAR"
	t.Cleanup(func() { os.Unsetenv(key) })

	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte(key+"=from-file\n"), 0o644))

	require.NoError(t, loader.LoadEnvFile(envPath))
	assert.Equal(t, "from-file", os.Getenv(key))
}

func TestEnvLoader_LoadEnvFile_MissingFileIsNotAnError(t *testing.T) {
	loader := NewEnvLoader(NewLogger())

	err := loader.LoadEnvFile(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestNewLogger_Defaults(t *testing.T) {
	logger := NewLogger()

	assert.Equal(t, LogLevelInfo, logger.Level)
	assert.True(t, logger.ShowEmojis)
	assert.False(t, logger.SilentMode)

	logger.SetSilentMode(true)
	assert.True(t, logger.SilentMode)
}
