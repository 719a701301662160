package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fystack/megasena-analyzer/pkg/common/constant"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
	assert.Equal(t, filepath.Join(constant.DefaultDataDir, constant.DefaultJSONFile), cfg.JSONPath())
	assert.Equal(t, "6", cfg.CostPerGame().String())
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := writeConfig(t, `
env: production
data:
  directory: /var/lib/megasena
game:
  cost_per_game: 5.5
  target_numbers: 10
source:
  timeout: 3s
  throttle:
    concurrency: 2
simulation:
  seed: 42
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "/var/lib/megasena", cfg.Data.Directory)
	assert.Equal(t, constant.DefaultCSVFile, cfg.Data.CSVFile)
	assert.Equal(t, 10, cfg.Game.TargetNumbers)
	assert.Equal(t, "5.5", cfg.CostPerGame().String())
	assert.Equal(t, 3*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 2, cfg.Source.Throttle.Concurrency)
	assert.Equal(t, Default().Source.Throttle.RPS, cfg.Source.Throttle.RPS)
	assert.Equal(t, uint64(42), cfg.Simulation.Seed)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MEGASENA_GAME_COST_PER_GAME", "6.25")
	t.Setenv("MEGASENA_SIMULATION_WORKERS", "8")
	t.Setenv("MEGASENA_SOURCE_URLS", "https://a.example/api,https://b.example/api")
	t.Setenv("MEGASENA_NATS_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "6.25", cfg.CostPerGame().String())
	assert.Equal(t, 8, cfg.Simulation.Workers)
	assert.Equal(t, []string{"https://a.example/api", "https://b.example/api"}, cfg.Source.URLs)
	assert.True(t, cfg.NATS.Enabled)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"bad env":        "env: staging\n",
		"target too big": "game:\n  target_numbers: 16\n",
		"negative cost":  "game:\n  cost_per_game: -1\n",
		"bad url":        "source:\n  urls: [\"not a url\"]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "game: [unclosed\n"))
	assert.Error(t, err)
}
