package config

import (
	"path/filepath"
	"time"

	"github.com/fystack/megasena-analyzer/pkg/common/constant"
	"github.com/shopspring/decimal"
)

type Config struct {
	Environment string           `yaml:"env"        env:"ENV"          validate:"required,oneof=production development"`
	Data        DataConfig       `yaml:"data"       envPrefix:"DATA_"`
	Source      SourceConfig     `yaml:"source"     envPrefix:"SOURCE_"`
	Game        GameConfig       `yaml:"game"       envPrefix:"GAME_"`
	State       StateConfig      `yaml:"state"      envPrefix:"STATE_"`
	NATS        NATSConfig       `yaml:"nats"       envPrefix:"NATS_"`
	Simulation  SimulationConfig `yaml:"simulation" envPrefix:"SIMULATION_"`
	Plots       PlotsConfig      `yaml:"plots"      envPrefix:"PLOTS_"`
}

type DataConfig struct {
	Directory string `yaml:"directory" env:"DIR"       validate:"required"`
	JSONFile  string `yaml:"json_file" env:"JSON_FILE" validate:"required"`
	CSVFile   string `yaml:"csv_file"  env:"CSV_FILE"  validate:"required"`
}

type SourceConfig struct {
	URLs             []string      `yaml:"urls"              env:"URLS" envSeparator:"," validate:"required,min=1,dive,url"`
	Timeout          time.Duration `yaml:"timeout"           env:"TIMEOUT"           validate:"required"`
	MaxRetries       int           `yaml:"max_retries"       env:"MAX_RETRIES"       validate:"min=0"`
	RetryDelay       time.Duration `yaml:"retry_delay"       env:"RETRY_DELAY"`
	FailureCooldown  time.Duration `yaml:"failure_cooldown"  env:"FAILURE_COOLDOWN"`
	InitialThreshold int           `yaml:"initial_threshold" env:"INITIAL_THRESHOLD" validate:"min=1"`
	BatchPause       time.Duration `yaml:"batch_pause"       env:"BATCH_PAUSE"`
	Throttle         Throttle      `yaml:"throttle"          envPrefix:"THROTTLE_"`
}

type Throttle struct {
	RPS         int `yaml:"rps"         env:"RPS"         validate:"min=1"`
	Burst       int `yaml:"burst"       env:"BURST"       validate:"min=1"`
	BatchSize   int `yaml:"batch_size"  env:"BATCH_SIZE"  validate:"min=1"`
	Concurrency int `yaml:"concurrency" env:"CONCURRENCY" validate:"min=1,max=64"`
}

type GameConfig struct {
	CostPerGame   float64 `yaml:"cost_per_game"  env:"COST_PER_GAME"  validate:"gt=0"`
	TargetNumbers int     `yaml:"target_numbers" env:"TARGET_NUMBERS" validate:"min=6,max=15"`
}

type StateConfig struct {
	Directory string `yaml:"directory" env:"DIR"    validate:"required"`
	Prefix    string `yaml:"prefix"    env:"PREFIX"`
}

type NATSConfig struct {
	Enabled       bool   `yaml:"enabled"        env:"ENABLED"`
	URL           string `yaml:"url"            env:"URL"            validate:"required_if=Enabled true"`
	SubjectPrefix string `yaml:"subject_prefix" env:"SUBJECT_PREFIX" validate:"required"`
	Username      string `yaml:"username"       env:"USERNAME"`
	Password      string `yaml:"password"       env:"PASSWORD"`
}

type SimulationConfig struct {
	Count   int    `yaml:"count"   env:"COUNT"   validate:"min=1"`
	Seed    uint64 `yaml:"seed"    env:"SEED"`
	Workers int    `yaml:"workers" env:"WORKERS" validate:"min=1,max=256"`
}

type PlotsConfig struct {
	Disabled  bool   `yaml:"disabled"  env:"DISABLED"`
	Directory string `yaml:"directory" env:"DIR" validate:"required"`
}

// Default is merged under whatever the yaml file leaves unset.
func Default() Config {
	return Config{
		Environment: constant.EnvDevelopment,
		Data: DataConfig{
			Directory: constant.DefaultDataDir,
			JSONFile:  constant.DefaultJSONFile,
			CSVFile:   constant.DefaultCSVFile,
		},
		Source: SourceConfig{
			URLs:             []string{constant.DefaultSourceURL},
			Timeout:          10 * time.Second,
			MaxRetries:       3,
			RetryDelay:       500 * time.Millisecond,
			FailureCooldown:  30 * time.Second,
			InitialThreshold: constant.InitialDownloadThreshold,
			BatchPause:       100 * time.Millisecond,
			Throttle: Throttle{
				RPS:         10,
				Burst:       5,
				BatchSize:   50,
				Concurrency: 5,
			},
		},
		Game: GameConfig{
			CostPerGame:   6.0,
			TargetNumbers: 6,
		},
		State: StateConfig{
			Directory: constant.DefaultStateDir,
		},
		NATS: NATSConfig{
			URL:           "nats://127.0.0.1:4222",
			SubjectPrefix: constant.DefaultSubject,
		},
		Simulation: SimulationConfig{
			Count:   100000,
			Workers: 4,
		},
		Plots: PlotsConfig{
			Directory: constant.DefaultPlotsDir,
		},
	}
}

func (c *Config) JSONPath() string {
	return filepath.Join(c.Data.Directory, c.Data.JSONFile)
}

func (c *Config) CSVPath() string {
	return filepath.Join(c.Data.Directory, c.Data.CSVFile)
}

func (c *Config) CostPerGame() decimal.Decimal {
	return decimal.NewFromFloat(c.Game.CostPerGame).Round(2)
}
