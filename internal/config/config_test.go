package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: \"dev\"\nbackend: \"mock\"\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, BackendMock, cfg.Backend)
	assert.Equal(t, 8085, cfg.HTTP.Port)
	assert.Equal(t, "/vote", cfg.API.VotePath)
	assert.Equal(t, 50*time.Minute, cfg.API.BearerTTL)
	assert.Equal(t, 2*time.Second, cfg.Session.ResultDisplay)
	assert.Equal(t, StorageBolt, cfg.Storage.Driver)
	assert.Equal(t, ProviderDemo, cfg.Identity.Provider)
}

func TestLoad_ReadsNestedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	body := `
env: "prod"
api:
  base_url: "http://vote.test"
  bearer_ttl: 5m
storage:
  driver: "memory"
session:
  result_display: 500ms
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://vote.test", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Minute, cfg.API.BearerTTL)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 500*time.Millisecond, cfg.Session.ResultDisplay)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
