package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8087", cfg.ListenAddr)
	assert.Equal(t, int64(1000), cfg.StartingBalance)
	assert.False(t, cfg.ElasticsearchEnabled)
	assert.Equal(t, "casino", cfg.ElasticsearchPrefix)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("STARTING_BALANCE", "2500")
	t.Setenv("ELASTICSEARCH_ENABLED", "true")
	t.Setenv("ELASTICSEARCH_URL", "http://es.internal:9200")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, int64(2500), cfg.StartingBalance)
	assert.True(t, cfg.ElasticsearchEnabled)
	assert.Equal(t, "http://es.internal:9200", cfg.ElasticsearchURL)
	assert.False(t, cfg.IsDevelopment())
}

func TestLoadInvalidStartingBalance(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("STARTING_BALANCE", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsNonPositiveBalance(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("STARTING_BALANCE", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadCreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	t.Setenv("DATA_DIR", dir)

	_, err := Load()
	require.NoError(t, err)
	assert.DirExists(t, dir)
}
