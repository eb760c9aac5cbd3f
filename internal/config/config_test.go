package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config source at a temp dir so the developer's own
// configuration never leaks into tests.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("CASEWATCH_CONFIG_DIR", "")
	t.Setenv("CASEWATCH_STATE_DIR", "")
	t.Setenv("CASEWATCH_CONFIG_PATH", "")
	t.Setenv("CASEWATCH_DOTENV_PATH", filepath.Join(dir, "missing.env"))
	for _, key := range []string{"API_BASE_URL", "API_TOKEN", "POLL_INTERVAL", "PAGE_SIZE", "STORAGE_BACKEND", "DEBUG"} {
		t.Setenv(EnvPrefix+key, "")
		os.Unsetenv(EnvPrefix + key)
	}
	return dir
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	Load()

	assert.Equal(t, "http://localhost:8080/api", Get("api_base_url", ""))
	assert.Equal(t, 10, GetInt("poll_interval", 0))
	assert.Equal(t, 10, GetInt("page_size", 0))
	assert.Equal(t, "sqlite", Get("storage_backend", ""))
	assert.False(t, GetBool("logging_enabled", true))
	assert.Equal(t, filepath.Join(dir, "config", "casewatch"), Get("config_dir", ""))
	assert.Equal(t, filepath.Join(dir, "state", "casewatch"), Get("state_dir", ""))
}

func TestLoadCreatesSampleConfigWithoutToken(t *testing.T) {
	dir := isolate(t)

	Load()

	data, err := os.ReadFile(filepath.Join(dir, "config", "casewatch", "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "poll_interval = 10")
	assert.NotContains(t, string(data), "api_token")
}

func TestLoadFromTOMLFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url = \"https://backend.example/api/\"\npage_size = 25\nlogging_enabled = true\n"), 0o644))
	t.Setenv("CASEWATCH_CONFIG_PATH", path)

	Load()

	assert.Equal(t, "https://backend.example/api", Get("api_base_url", ""))
	assert.Equal(t, 25, GetInt("page_size", 0))
	assert.True(t, GetBool("logging_enabled", false))
}

func TestEnvOverridesFileAndDotenv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval = 30\npage_size = 50\n"), 0o644))
	dotenv := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(dotenv, []byte("CASEWATCH_PAGE_SIZE=20\nCASEWATCH_API_TOKEN=from-dotenv\nOTHER=ignored\n"), 0o644))
	t.Setenv("CASEWATCH_CONFIG_PATH", path)
	t.Setenv("CASEWATCH_DOTENV_PATH", dotenv)
	t.Setenv("CASEWATCH_POLL_INTERVAL", "5")

	Load()

	assert.Equal(t, 5, GetInt("poll_interval", 0))
	assert.Equal(t, 20, GetInt("page_size", 0))
	assert.Equal(t, "from-dotenv", Get("api_token", ""))
	assert.Equal(t, "", Get("other", ""))
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("CASEWATCH_POLL_INTERVAL", "-3")
	t.Setenv("CASEWATCH_STORAGE_BACKEND", "postgres")
	t.Setenv("CASEWATCH_API_BASE_URL", "ftp://nope")
	t.Setenv("CASEWATCH_DEBUG", "maybe")

	Load()

	assert.Equal(t, 10, GetInt("poll_interval", 0))
	assert.Equal(t, "sqlite", Get("storage_backend", ""))
	assert.Equal(t, "http://localhost:8080/api", Get("api_base_url", ""))
	assert.False(t, GetBool("debug", true))
}

func TestGetDuration(t *testing.T) {
	isolate(t)
	Load()

	assert.Equal(t, 10*time.Second, GetDuration("poll_interval", time.Second, time.Minute))
	assert.Equal(t, time.Minute, GetDuration("missing", time.Second, time.Minute))
}

func TestSetNormalizes(t *testing.T) {
	isolate(t)
	Load()

	Set("storage_backend", "FILE")
	assert.Equal(t, "file", Get("storage_backend", ""))
}

func TestValidatorsNormalize(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator
		value     string
		want      string
	}{
		{"positive int trims", PositiveIntValidator(), " 7 ", "7"},
		{"positive int rejects zero", PositiveIntValidator(), "0", "def"},
		{"enum lowercases", EnumValidator(map[string]bool{"a": true}), "A", "a"},
		{"bool yes", BoolValidator(), "yes", "true"},
		{"bool off", BoolValidator(), "off", "false"},
		{"url strips slash", URLValidator(), "http://h/api/", "http://h/api"},
		{"empty uses default", URLValidator(), "", "def"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.validator("key", tt.value, "def")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
