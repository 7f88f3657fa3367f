package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(PathEnv, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 1, cfg.Database.MaxConnections)
	assert.Equal(t, 30*time.Minute, cfg.Database.MaxLifetime)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.SummaryTTL)
	assert.Equal(t, 400.0, cfg.Pricing.EconomyMax)
	assert.Equal(t, 1000.0, cfg.Pricing.ComfortMax)
	assert.Equal(t, 1000.0, cfg.Pricing.HighSpenderThreshold)
	assert.Equal(t, "out", cfg.Export.Dir)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv(PathEnv, "")
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("EXPORT_DIR", "/tmp/ledger")
	t.Setenv("HIGH_SPENDER_THRESHOLD", "2500.5")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pgx", cfg.Database.Driver)
	assert.Equal(t, "/tmp/ledger", cfg.Export.Dir)
	assert.Equal(t, 2500.5, cfg.Pricing.HighSpenderThreshold)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "ledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  name: ledger_from_file
  port: 6543
pricing:
  economy_max: 300
  comfort_max: 900
export:
  dir: exports
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ledger_from_file", cfg.Database.Name)
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, 300.0, cfg.Pricing.EconomyMax)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Equal(t, "localhost", cfg.Database.Host, "unset keys keep their defaults")
}

func TestLoad_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "postgres", Host: "localhost", Name: "ride_ledger", MaxConnections: 1},
			Pricing:  PricingConfig{EconomyMax: 400, ComfortMax: 1000, HighSpenderThreshold: 1000},
			Export:   ExportConfig{Dir: "out"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"pgx driver", func(c *Config) { c.Database.Driver = "pgx" }, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"no host", func(c *Config) { c.Database.Host = "" }, true},
		{"zero connections", func(c *Config) { c.Database.MaxConnections = 0 }, true},
		{"redis without host", func(c *Config) { c.Redis.Enabled = true }, true},
		{"inverted tiers", func(c *Config) { c.Pricing.ComfortMax = 100 }, true},
		{"negative threshold", func(c *Config) { c.Pricing.HighSpenderThreshold = -1 }, true},
		{"no export dir", func(c *Config) { c.Export.Dir = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
