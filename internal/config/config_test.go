package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5, cfg.Ranking.N)
	assert.Equal(t, "pearson", cfg.MetricName())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "zero n is allowed", mutate: func(c *Config) { c.Ranking.N = 0 }},
		{name: "metric alias", mutate: func(c *Config) { c.Ranking.Metric = "euclidean" }},
		{
			name:    "negative n",
			mutate:  func(c *Config) { c.Ranking.N = -2 },
			wantErr: "config.ranking.n must be at least 0",
		},
		{
			name:    "unknown metric",
			mutate:  func(c *Config) { c.Ranking.Metric = "cosine" },
			wantErr: "config.ranking.metric must be one of [distance pearson]",
		},
		{
			name:    "empty metric",
			mutate:  func(c *Config) { c.Ranking.Metric = "" },
			wantErr: "config.ranking.metric is required",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "config.logging.level must be one of",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "config.logging.format must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultConfigFile)

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err, "default config should be written")
}

func TestSaveAndLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)

	cfg := DefaultConfig()
	cfg.Ranking.N = 3
	cfg.Ranking.Metric = "distance"
	cfg.Dataset.Path = "/data/critics.json"
	cfg.Logging.File = "/tmp/prefsim.log"
	require.NoError(t, SaveTo(cfg, path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte("ranking:\n  n: 2\n"), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Ranking.N)
	assert.Equal(t, "pearson", cfg.Ranking.Metric)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromRejectsInvalid(t *testing.T) {
	dir := t.TempDir()

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("ranking:\n  metric: jaccard\n"), 0644))
	_, err := LoadFrom(invalid)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("ranking: [\n"), 0644))
	_, err = LoadFrom(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestSaveToRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ranking.N = -1
	err := SaveTo(cfg, filepath.Join(t.TempDir(), DefaultConfigFile))
	assert.ErrorContains(t, err, "cannot save invalid config")
}
