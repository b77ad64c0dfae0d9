package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Source.PageSize)
	assert.Equal(t, 3, cfg.Source.MaxRetries)
	assert.Equal(t, 3*time.Second, cfg.Source.RetryDelay.Duration)
	assert.Equal(t, "llama3.1:8b", cfg.Model.Name)
	assert.Equal(t, time.Hour, cfg.Cache.TTL.Duration)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
  read_timeout: 5s
model:
  name: mistral
  timeout: 30s
cache:
  ttl: 10m
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("SAMARTH_MODEL", "llama3.2")
	t.Setenv("DATA_GOV_API_KEY", "key-123")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, "llama3.2", cfg.Model.Name, "environment wins over file")
	assert.Equal(t, 30*time.Second, cfg.Model.Timeout.Duration)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL.Duration)
	assert.Equal(t, "key-123", cfg.Source.APIKey)
	assert.NoError(t, cfg.ValidateSource())
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  ttl: soon\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoad_InvalidEnvInt(t *testing.T) {
	t.Setenv("SAMARTH_SERVER_PORT", "eighty")

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SAMARTH_SERVER_PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, true},
		{"no page size", func(c *Config) { c.Source.PageSize = 0 }, true},
		{"no model", func(c *Config) { c.Model.Name = "" }, true},
		{"zero ttl", func(c *Config) { c.Cache.TTL = Duration{} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateSource_RequiresKey(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.ValidateSource())
}

func TestPaths(t *testing.T) {
	cfg := Default()
	cfg.Data.RawDir = "raw"
	cfg.Data.ProcessedDir = "out"

	assert.Equal(t, filepath.Join("raw", "crop_production_raw.csv"), cfg.CropRawPath())
	assert.Equal(t, filepath.Join("raw", "rainfall_subdiv_monthly_raw.csv"), cfg.RainfallRawPath())
	assert.Equal(t, filepath.Join("out", "crop_clean.parquet"), cfg.CropSnapshotPath())
	assert.Equal(t, filepath.Join("out", "rainfall_long.parquet"), cfg.RainfallSnapshotPath())
}
