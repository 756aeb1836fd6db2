package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the XDG directories at a temp dir so tests never read the
// developer's real config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("CARECONNECT_CONFIG", "")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	dataDir := filepath.Join(dir, "data", AppName)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dataDir, "careconnect.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(dataDir, "session"), cfg.TokenPath)
	assert.Equal(t, filepath.Join(dataDir, "careconnect.log"), cfg.Log.Output)
	assert.Equal(t, 2500*time.Millisecond, cfg.Wizard.DiscoveryDelay)
	assert.Equal(t, 2000*time.Millisecond, cfg.Wizard.ConnectDelay)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.CatalogPath)
}

func TestLoadYAMLFromDefaultLocation(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "config", AppName, "config.yaml"), `
log:
  level: debug
  format: json
wizard:
  discovery_delay: 100ms
  connect_delay: 1s
catalog_path: /etc/careconnect/devices.json
`)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 100*time.Millisecond, cfg.Wizard.DiscoveryDelay)
	assert.Equal(t, time.Second, cfg.Wizard.ConnectDelay)
	assert.Equal(t, "/etc/careconnect/devices.json", cfg.CatalogPath)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	dir := isolate(t)
	_, err := Load(LoadOptions{ConfigPath: filepath.Join(dir, "nope.yaml")})
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "wizard: [not, a, map")
	_, err := Load(LoadOptions{ConfigPath: path})
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "cfg.yaml")
	writeFile(t, path, "log:\n  level: warn\nwizard:\n  connect_delay: 5s\n")
	t.Setenv("CARECONNECT_LOG_LEVEL", "error")
	t.Setenv("CARECONNECT_CONNECT_DELAY", "50ms")
	t.Setenv("CARECONNECT_DB", "/tmp/other.db")

	cfg, err := Load(LoadOptions{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, 50*time.Millisecond, cfg.Wizard.ConnectDelay)
	assert.Equal(t, "/tmp/other.db", cfg.DBPath)
}

func TestEnvBadDuration(t *testing.T) {
	isolate(t)
	t.Setenv("CARECONNECT_DISCOVERY_DELAY", "soon")
	_, err := Load(LoadOptions{})
	assert.ErrorContains(t, err, "CARECONNECT_DISCOVERY_DELAY")
}

func TestEnvFile(t *testing.T) {
	dir := isolate(t)
	envPath := filepath.Join(dir, "test.env")
	writeFile(t, envPath, "CARECONNECT_SIGNIN_BURST=9\n")
	t.Cleanup(func() { os.Unsetenv("CARECONNECT_SIGNIN_BURST") })

	cfg, err := Load(LoadOptions{EnvFile: envPath})
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Auth.SignInBurst)
}

func TestEnvFileMissing(t *testing.T) {
	dir := isolate(t)
	_, err := Load(LoadOptions{EnvFile: filepath.Join(dir, "missing.env")})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
		{"negative discovery", func(c *Config) { c.Wizard.DiscoveryDelay = -time.Second }},
		{"negative connect", func(c *Config) { c.Wizard.ConnectDelay = -time.Second }},
		{"zero ttl", func(c *Config) { c.Auth.SessionTTL = 0 }},
		{"zero burst", func(c *Config) { c.Auth.SignInBurst = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}
