package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `{
		"api_url": "https://staging.example.com",
		"template": "modern",
		"timeout_seconds": 15
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.com", cfg.APIURL)
	assert.Equal(t, "modern", cfg.Template)
	assert.Equal(t, 15*time.Second, cfg.Timeout())
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := writeConfig(t, `{not json`)
	_, err = LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&Config{TimeoutSeconds: 10}).Validate())
	assert.Error(t, (&Config{TimeoutSeconds: -1}).Validate())
}

func TestResolveAPIURL_Precedence(t *testing.T) {
	cfg := &Config{APIURL: "https://from-config.example.com"}

	assert.Equal(t, "https://from-flag.example.com", cfg.ResolveAPIURL("https://from-flag.example.com"))

	t.Setenv(EnvAPIURL, "https://from-env.example.com")
	assert.Equal(t, "https://from-env.example.com", cfg.ResolveAPIURL(""))

	t.Setenv(EnvAPIURL, "")
	assert.Equal(t, "https://from-config.example.com", cfg.ResolveAPIURL(""))

	assert.Equal(t, DefaultAPIURL, (&Config{}).ResolveAPIURL(""))
}

func TestTimeout_Default(t *testing.T) {
	assert.Equal(t, 30*time.Second, (&Config{}).Timeout())
}
