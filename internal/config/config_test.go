package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "gymmora.db", cfg.Database.Path)
	assert.Equal(t, "gymmora", cfg.Database.Name)
	assert.Equal(t, time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, time.Second, cfg.Session.TickInterval)
	assert.True(t, cfg.Session.AutoTick)
	assert.Equal(t, 5, cfg.Analytics.TopMuscleGroups)
	assert.Equal(t, 10*time.Minute, cfg.Catalog.CacheTTL)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
database:
  driver: mongo
  uri: mongodb://db:27017/?replicaSet=rs0
session:
  tick_interval: 2s
analytics:
  timezone: Europe/Berlin
s3:
  bucket_name: exports
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://db:27017/?replicaSet=rs0", cfg.Database.URI)
	assert.Equal(t, 2*time.Second, cfg.Session.TickInterval)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.True(t, cfg.S3.Enabled())

	loc, err := cfg.Analytics.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestLoadConfig_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
