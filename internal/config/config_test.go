package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"API_BASE_URL", "API_TIMEOUT", "BRIDGE_PORT", "STUB_API_PORT", "LOG_LEVEL", "LOG_FORMAT",
	"ROUTE_MATCH", "STRICT_ORDERING", "ACCESS_TOKEN", "USER_ID", "STUB_SEARCH_SHAPE",
	"STUB_DUPLICATE_RESULTS",
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, &Config{
		APIBaseURL:      DefaultAPIBaseURL,
		APITimeout:      DefaultAPITimeout,
		BridgePort:      DefaultBridgePort,
		StubAPIPort:     DefaultStubAPIPort,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		RouteMatch:      RouteMatchExact,
		StubSearchShape: DefaultStubSearchShape,
	}, cfg)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://api.example.com/prod")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("ROUTE_MATCH", "contains")
	t.Setenv("STRICT_ORDERING", "true")
	t.Setenv("USER_ID", "u1")
	t.Setenv("STUB_DUPLICATE_RESULTS", "1")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/prod", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, RouteMatchContains, cfg.RouteMatch)
	assert.True(t, cfg.StrictOrdering)
	assert.Equal(t, "u1", cfg.UserID)
	assert.True(t, cfg.StubDuplicateResults)
}

func TestLoad_EnvFileDoesNotOverride(t *testing.T) {
	clearEnv(t)
	t.Setenv("BRIDGE_PORT", "9000")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BRIDGE_PORT=7000\nUSER_ID=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("USER_ID") })

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.BridgePort)
	assert.Equal(t, "from-file", cfg.UserID)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"API_TIMEOUT", "soon"},
		{"API_TIMEOUT", "-1s"},
		{"STRICT_ORDERING", "maybe"},
		{"STUB_DUPLICATE_RESULTS", "twice"},
		{"ROUTE_MATCH", "fuzzy"},
		{"LOG_FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}
