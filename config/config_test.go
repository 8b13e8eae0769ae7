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
	path := filepath.Join(t.TempDir(), "cloud_config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
clouds:
  aws:
    enabled: true
    accounts:
      production:
        credentials:
          access_key: AKIA123
          secret_key: ${AWS_PROD_SECRET}
  gcp:
    enabled: false
    projects:
      production:
        credentials:
          project_id: lyric-prod
collector:
  task_timeout: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"aws"}, cfg.EnabledClouds())
	assert.Equal(t, 30*time.Second, cfg.Collector.TaskTimeout)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, "lyricinfra", cfg.Mongo.Database)
	assert.Equal(t, "main", cfg.Provision.GitHubBranch)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/cloud_config.yaml")
		assert.Error(t, err)
	})

	t.Run("bad timeout", func(t *testing.T) {
		path := writeConfig(t, "collector:\n  task_timeout: soon\n")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestCredentials(t *testing.T) {
	path := writeConfig(t, `
clouds:
  aws:
    enabled: true
    accounts:
      production:
        credentials:
          access_key: ${FLEETSCOPE_TEST_ACCESS_KEY}
          secret_key: ${FLEETSCOPE_TEST_UNSET}
          region: us-east-1
  azure:
    enabled: true
    subscriptions:
      development:
        credentials:
          tenant_id: tid
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	t.Run("resolves env placeholders", func(t *testing.T) {
		t.Setenv("FLEETSCOPE_TEST_ACCESS_KEY", "AKIAENV")

		creds := cfg.Credentials("aws", "production")

		assert.Equal(t, "AKIAENV", creds["access_key"])
		assert.Equal(t, "us-east-1", creds["region"])
	})

	t.Run("unset env resolves to empty string", func(t *testing.T) {
		creds := cfg.Credentials("aws", "production")

		value, present := creds["secret_key"]
		assert.True(t, present)
		assert.Equal(t, "", value)
	})

	t.Run("missing account yields empty map", func(t *testing.T) {
		creds := cfg.Credentials("aws", "sandbox")

		assert.NotNil(t, creds)
		assert.Empty(t, creds)
	})

	t.Run("missing provider yields empty map", func(t *testing.T) {
		assert.Empty(t, cfg.Credentials("oci", "production"))
	})

	t.Run("subscriptions alias", func(t *testing.T) {
		creds := cfg.Credentials("azure", "development")

		assert.Equal(t, "tid", creds["tenant_id"])
	})

	t.Run("no caching between calls", func(t *testing.T) {
		t.Setenv("FLEETSCOPE_TEST_ACCESS_KEY", "first")
		assert.Equal(t, "first", cfg.Credentials("aws", "production")["access_key"])

		t.Setenv("FLEETSCOPE_TEST_ACCESS_KEY", "second")
		assert.Equal(t, "second", cfg.Credentials("aws", "production")["access_key"])
	})
}
