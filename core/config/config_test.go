package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Server.WorkerToken)
	assert.Equal(t, 262144, cfg.Server.MaxBodyBytes)

	assert.Equal(t, "corrections", cfg.Storage.Bucket)
	assert.Equal(t, "corrections.json", cfg.Storage.Object)

	assert.Equal(t, "oct-2024", cfg.Snapshot.OlderLabel)
	assert.Equal(t, "dec-2024", cfg.Snapshot.NewerLabel)
	assert.Equal(t, []string{"USW", "USE", "USC", "USS"}, cfg.Snapshot.RegionList())

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "locations", cfg.Database.Name)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SNAPSHOT_NEWER_LABEL", "feb-2025")
	t.Setenv("STORAGE_BUCKET", "staging-corrections")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "feb-2025", cfg.Snapshot.NewerLabel)
	assert.Equal(t, "staging-corrections", cfg.Storage.Bucket)
}
