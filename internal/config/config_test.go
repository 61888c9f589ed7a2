package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolatedOptions(t *testing.T) LoadOptions {
	t.Helper()
	dir := t.TempDir()
	return LoadOptions{
		EnvFile:     filepath.Join(dir, "missing.env"),
		SearchPaths: []string{dir},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(isolatedOptions(t))
	require.NoError(t, err)

	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 7*24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 3*time.Second, cfg.LookupTimeout)
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 4, cfg.EnrichConcurrency)
	assert.Equal(t, "DEMO_KEY", cfg.USDAAPIKey)
	assert.True(t, cfg.WikipediaEnabled)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Contains(t, cfg.DBPath, "gusto.db")
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoadFilePrecedence(t *testing.T) {
	opts := isolatedOptions(t)
	dir := opts.SearchPaths[0]
	writeFile(t, filepath.Join(dir, "gusto.yaml"), "cache_ttl: 48h\nwikipedia_enabled: false\nlog_level: info\nusda_api_key: from-file\n")
	t.Setenv("GUSTO_USDA_API_KEY", "from-env-1234")

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, 48*time.Hour, cfg.CacheTTL)
	assert.False(t, cfg.WikipediaEnabled)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "from-env-1234", cfg.USDAAPIKey)
	assert.Equal(t, filepath.Join(dir, "gusto.yaml"), cfg.ConfigFile)
}

func TestLoadEnvFile(t *testing.T) {
	opts := isolatedOptions(t)
	opts.EnvFile = filepath.Join(t.TempDir(), ".env")
	writeFile(t, opts.EnvFile, "GUSTO_UPCITEMDB_API_KEY=upc-secret-9876\nGUSTO_LOOKUP_TIMEOUT=750ms\n")
	t.Cleanup(func() {
		_ = os.Unsetenv("GUSTO_UPCITEMDB_API_KEY")
		_ = os.Unsetenv("GUSTO_LOOKUP_TIMEOUT")
	})

	cfg, err := Load(opts)
	require.NoError(t, err)

	assert.Equal(t, "upc-secret-9876", cfg.UPCItemDBAPIKey)
	assert.Equal(t, 750*time.Millisecond, cfg.LookupTimeout)
}

func TestLoadExplicitConfigFileMustExist(t *testing.T) {
	opts := isolatedOptions(t)
	opts.ConfigFile = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(opts)
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("GUSTO_LOG_LEVEL", "chatty")
	_, err := Load(isolatedOptions(t))
	assert.ErrorContains(t, err, "log_level")
}

func TestEntriesMaskSecrets(t *testing.T) {
	cfg := Config{
		DBPath:            "/tmp/gusto.db",
		LogLevel:          "warn",
		USDAAPIKey:        "abcdef123456",
		UPCItemDBAPIKey:   "",
		EnrichConcurrency: 4,
	}

	byKey := make(map[string]Entry)
	for _, e := range cfg.Entries() {
		byKey[e.Key] = e
	}
	assert.Equal(t, "****3456", byKey[KeyUSDAAPIKey].Value)
	assert.Equal(t, "(not set)", byKey[KeyUPCItemDBAPIKey].Value)
	assert.Equal(t, "GUSTO_USDA_API_KEY", byKey[KeyUSDAAPIKey].Env)
	assert.Equal(t, "/tmp/gusto.db", byKey[KeyDB].Value)
	assert.Equal(t, KeyDB, cfg.Entries()[0].Key)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "(not set)", Mask(""))
	assert.Equal(t, "****", Mask("abc"))
	assert.Equal(t, "****wxyz", Mask("secret-wxyz"))
}
