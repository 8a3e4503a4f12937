package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SWITCHBOARD_CONFIG",
	"SWITCHBOARD_API_URL",
	"SWITCHBOARD_TOKEN",
	"SWITCHBOARD_TOKEN_FILE",
	"SWITCHBOARD_AUTH_SCHEME",
	"SWITCHBOARD_TIMEOUT_SECONDS",
	"SWITCHBOARD_LOG_FILE",
	"SWITCHBOARD_HISTORY_DB",
	"SWITCHBOARD_DEBUG",
}

// clearTestEnv blanks every key for the duration of the test. Empty values are
// treated as unset by the loader.
func clearTestEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFrom_Defaults(t *testing.T) {
	clearTestEnv(t)
	t.Setenv("SWITCHBOARD_API_URL", "https://admin.example.com")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yml"), "")
	require.NoError(t, err)

	assert.Equal(t, "https://admin.example.com", cfg.APIURL)
	assert.Equal(t, 10, cfg.TimeoutSeconds)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, filepath.Join(GetConfigDir(), "history.db"), cfg.HistoryDB)
	assert.False(t, cfg.Debug)
}

func TestLoadFrom_FileThenEnvOverride(t *testing.T) {
	clearTestEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", `
api_url: https://file.example.com
token: from-file
auth_scheme: Bearer
timeout_seconds: 3
`)
	t.Setenv("SWITCHBOARD_TOKEN", "from-env")

	cfg, err := LoadFrom(path, "")
	require.NoError(t, err)

	assert.Equal(t, "https://file.example.com", cfg.APIURL)
	assert.Equal(t, "from-env", cfg.Token)
	assert.Equal(t, "Bearer", cfg.AuthScheme)
	assert.Equal(t, 3, cfg.TimeoutSeconds)
}

func TestLoadFrom_DotEnv(t *testing.T) {
	clearTestEnv(t)
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "SWITCHBOARD_API_URL=https://dotenv.example.com\nSWITCHBOARD_DEBUG=true\n")

	// godotenv only fills variables that are unset, so drop the blank ones.
	require.NoError(t, os.Unsetenv("SWITCHBOARD_API_URL"))
	require.NoError(t, os.Unsetenv("SWITCHBOARD_DEBUG"))
	t.Cleanup(func() {
		_ = os.Unsetenv("SWITCHBOARD_API_URL")
		_ = os.Unsetenv("SWITCHBOARD_DEBUG")
	})

	cfg, err := LoadFrom("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "https://dotenv.example.com", cfg.APIURL)
	assert.True(t, cfg.Debug)
}

func TestLoadFrom_Errors(t *testing.T) {
	t.Run("missing api url", func(t *testing.T) {
		clearTestEnv(t)
		_, err := LoadFrom("", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SWITCHBOARD_API_URL")
	})

	t.Run("invalid timeout", func(t *testing.T) {
		clearTestEnv(t)
		t.Setenv("SWITCHBOARD_API_URL", "https://x")
		t.Setenv("SWITCHBOARD_TIMEOUT_SECONDS", "soon")
		_, err := LoadFrom("", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SWITCHBOARD_TIMEOUT_SECONDS")
	})

	t.Run("zero timeout", func(t *testing.T) {
		clearTestEnv(t)
		t.Setenv("SWITCHBOARD_API_URL", "https://x")
		t.Setenv("SWITCHBOARD_TIMEOUT_SECONDS", "0")
		_, err := LoadFrom("", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be > 0")
	})

	t.Run("bad yaml", func(t *testing.T) {
		clearTestEnv(t)
		path := writeFile(t, t.TempDir(), "config.yml", "api_url: [unterminated")
		_, err := LoadFrom(path, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestTokenSource(t *testing.T) {
	cfg := &Config{Token: "static"}
	tok, err := cfg.Tokens().Token()
	require.NoError(t, err)
	assert.Equal(t, "static", tok)

	path := writeFile(t, t.TempDir(), "token", "  rotated-1\n")
	cfg.TokenFile = path
	src := cfg.Tokens()
	tok, err = src.Token()
	require.NoError(t, err)
	assert.Equal(t, "rotated-1", tok)

	require.NoError(t, os.WriteFile(path, []byte("rotated-2"), 0o600))
	tok, err = src.Token()
	require.NoError(t, err)
	assert.Equal(t, "rotated-2", tok)

	cfg.TokenFile = filepath.Join(t.TempDir(), "nope")
	_, err = cfg.Tokens().Token()
	assert.Error(t, err)
}

func TestRedactedYAML(t *testing.T) {
	cfg := Config{APIURL: "https://x", Token: "secret", TimeoutSeconds: 10}
	out, err := cfg.Redacted().YAML()
	require.NoError(t, err)
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "api_url: https://x")
	assert.Equal(t, "secret", cfg.Token)
}
