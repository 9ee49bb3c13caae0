// Package config loads game tuning from a YAML file, with overrides from
// the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Du4lity5151/DestinationSol/engine"
	"github.com/Du4lity5151/DestinationSol/engine/errs"
	"github.com/Du4lity5151/DestinationSol/engine/pilot"
	"github.com/Du4lity5151/DestinationSol/engine/populate"
)

// Config is the tuning of one game.
type Config struct {
	Seed                int64     `yaml:"seed"`
	Module              string    `yaml:"module"`
	AssetsDir           string    `yaml:"assets_dir"`
	SpawnPlace          string    `yaml:"spawn_place"`
	EnemyFactionPolicy  string    `yaml:"enemy_faction_policy"`
	TimeStep            float32   `yaml:"time_step"`
	ViewDistance        float32   `yaml:"view_distance"`
	AIDetectionDistance float32   `yaml:"ai_detection_distance"`
	MouseControl        bool      `yaml:"mouse_control"`
	Mazes               int       `yaml:"mazes"`
	LedgerPath          string    `yaml:"ledger_path"`
	Log                 LogConfig `yaml:"log"`
}

// LogConfig selects the log level and format.
type LogConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// Defaults returns the built-in tuning.
func Defaults() Config {
	return Config{
		Seed:                1,
		Module:              "core",
		AssetsDir:           "assets",
		EnemyFactionPolicy:  string(populate.EnemyFromRecipe),
		TimeStep:            engine.DefaultTimeStep,
		ViewDistance:        engine.DefaultViewDistance,
		AIDetectionDistance: pilot.AIDetectionDistance,
		Mazes:               engine.DefaultMazes,
		Log:                 LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	c := Defaults()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, &errs.Error{Kind: errs.ConfigError, Document: path, Message: "invalid YAML", Err: err}
	}
	return c, nil
}

// LoadEnvFile loads a .env file into the process environment. Variables
// already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Environment overrides.
const (
	EnvSeed       = "SOL_SEED"
	EnvModule     = "SOL_MODULE"
	EnvSpawnPlace = "SOL_SPAWN_PLACE"
	EnvLogLevel   = "SOL_LOG_LEVEL"
	EnvLedgerPath = "SOL_LEDGER_PATH"
)

// ApplyEnv overrides fields from SOL_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvSeed); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errs.ConfigErrorf("%s=%q is not an integer", EnvSeed, v)
		}
		c.Seed = seed
	}
	if v, ok := os.LookupEnv(EnvModule); ok {
		c.Module = v
	}
	if v, ok := os.LookupEnv(EnvSpawnPlace); ok {
		c.SpawnPlace = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvLedgerPath); ok {
		c.LedgerPath = v
	}
	return nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	switch c.SpawnPlace {
	case populate.SpawnNearStation, populate.SpawnPlanet, populate.SpawnMaze, populate.SpawnTrader:
	default:
		return errs.ConfigErrorf("spawn_place %q: want one of \"\", planet, maze, trader", c.SpawnPlace)
	}
	switch populate.EnemyFactionPolicy(c.EnemyFactionPolicy) {
	case populate.EnemyFromRecipe, populate.EnemyFromMainStation:
	default:
		return errs.ConfigErrorf("enemy_faction_policy %q: want recipe or main_station", c.EnemyFactionPolicy)
	}
	if c.Module == "" {
		return errs.ConfigErrorf("module must be set")
	}
	if c.TimeStep <= 0 || c.ViewDistance <= 0 || c.AIDetectionDistance <= 0 {
		return errs.ConfigErrorf("time_step, view_distance and ai_detection_distance must be positive")
	}
	if c.Mazes < 0 {
		return errs.ConfigErrorf("mazes must not be negative")
	}
	return nil
}
