package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, int64(defaultUploadMaxBytes), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"jpg", "png", "gif"}, cfg.Upload.AllowedFormats)
	assert.Equal(t, defaultImageGCGraceH, cfg.Upload.GCGraceHours)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
port: 8080
env: production
public_url: https://read.example.com/
admin_emails:
  - Root@Example.com
upload:
  max_bytes: 2097152
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, int64(2097152), cfg.Upload.MaxBytes)
	assert.Equal(t, "https://read.example.com", cfg.PublicURL, "trailing slash trimmed")
	assert.Equal(t, []string{"root@example.com"}, cfg.AdminEmails, "admin emails normalized")
}

func TestLoadRejectsUnknownEnv(t *testing.T) {
	path := writeConfig(t, "env: staging\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "port: [not a number\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestProductionRequiresAdmins(t *testing.T) {
	path := writeConfig(t, "env: production\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestIsAdmin(t *testing.T) {
	cfg := &AppConfig{AdminEmails: []string{"root@example.com", "ops@example.com"}}

	assert.True(t, cfg.IsAdmin("root@example.com"))
	assert.True(t, cfg.IsAdmin("  ROOT@Example.COM "))
	assert.False(t, cfg.IsAdmin("someone@example.com"))
	assert.False(t, cfg.IsAdmin(""))
}

func TestPrimaryAdminEmail(t *testing.T) {
	cfg := &AppConfig{AdminEmails: []string{"root@example.com", "ops@example.com"}}
	assert.Equal(t, "root@example.com", cfg.PrimaryAdminEmail())

	empty := &AppConfig{}
	assert.Equal(t, "", empty.PrimaryAdminEmail())
}
