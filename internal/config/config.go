// Package config loads evogame settings from YAML files and EVOGAME_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"evogame/internal/engine"
	"evogame/internal/model"
)

// Config is the full file layout.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Store      StoreConfig      `yaml:"store"`
	Artifacts  ArtifactsConfig  `yaml:"artifacts"`
	Server     ServerConfig     `yaml:"server"`
}

// SimulationConfig holds run parameters. Unset fields fall back to the
// defaults of the selected rule, so explicit zeros stay distinguishable.
type SimulationConfig struct {
	Rule           string       `yaml:"rule"`
	PopulationSize *int         `yaml:"population_size,omitempty"`
	Seed           *float64     `yaml:"seed,omitempty"`
	GroupSize      string       `yaml:"group_size,omitempty"`
	LearningRate   *float64     `yaml:"learning_rate,omitempty"`
	Rounds         *int         `yaml:"rounds,omitempty"`
	Arena          *ArenaConfig `yaml:"arena,omitempty"`
	MutationRate   *float64     `yaml:"mutation_rate,omitempty"`
	StrategyLength *int         `yaml:"strategy_length,omitempty"`
	Generations    *int         `yaml:"generations,omitempty"`
	TournamentSize *int         `yaml:"tournament_size,omitempty"`
	CrossoverRate  *float64     `yaml:"crossover_rate,omitempty"`
}

type ArenaConfig struct {
	Enabled bool    `yaml:"enabled"`
	Width   float64 `yaml:"width,omitempty"`
	Height  float64 `yaml:"height,omitempty"`
}

type LoggingConfig struct {
	// Level is trace, debug, info, warn or error.
	Level string `yaml:"level"`
}

type StoreConfig struct {
	// Kind is memory or sqlite.
	Kind       string `yaml:"kind"`
	SQLitePath string `yaml:"sqlite_path,omitempty"`
}

type ArtifactsConfig struct {
	Dir string `yaml:"dir"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{Rule: string(model.RuleSocial)},
		Logging:    LoggingConfig{Level: "info"},
		Store:      StoreConfig{Kind: "memory", SQLitePath: "evogame.db"},
		Artifacts:  ArtifactsConfig{Dir: "runs"},
		Server:     ServerConfig{Addr: "127.0.0.1:8080"},
	}
}

// Load reads path (when non-empty) over the defaults and then applies
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the ambient settings. Simulation parameters are checked by
// engine.Validate when a run is set up.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("invalid store kind: %s (valid: memory, sqlite)", c.Store.Kind)
	}
	if c.Store.Kind == "sqlite" && c.Store.SQLitePath == "" {
		return fmt.Errorf("sqlite store requires sqlite_path")
	}
	validLevels := map[string]bool{"": true, "trace": true, "debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}
	return nil
}

// Params resolves the simulation section into engine parameters.
func (s SimulationConfig) Params() (model.Params, error) {
	rule, err := model.ParseRule(orDefault(s.Rule, string(model.RuleSocial)))
	if err != nil {
		return model.Params{}, err
	}

	p := engine.DefaultSocialParams()
	if rule == model.RuleGenetic {
		p = engine.DefaultGeneticParams()
	}
	if s.PopulationSize != nil {
		p.PopulationSize = *s.PopulationSize
	}
	if s.Seed != nil {
		p.Seed = *s.Seed
	}
	if s.GroupSize != "" {
		gs, err := model.ParseGroupSize(s.GroupSize)
		if err != nil {
			return model.Params{}, err
		}
		p.GroupSize = gs
	}
	if s.LearningRate != nil {
		p.LearningRate = *s.LearningRate
	}
	if s.Rounds != nil {
		p.Rounds = *s.Rounds
	}
	if s.Arena != nil && s.Arena.Enabled {
		p = engine.WithArena(p)
		if s.Arena.Width > 0 {
			p.Arena.Width = s.Arena.Width
		}
		if s.Arena.Height > 0 {
			p.Arena.Height = s.Arena.Height
		}
	}
	if s.MutationRate != nil {
		p.MutationRate = *s.MutationRate
	}
	if s.StrategyLength != nil {
		p.StrategyLength = *s.StrategyLength
	}
	if s.Generations != nil {
		p.Generations = *s.Generations
	}
	if s.TournamentSize != nil {
		p.TournamentSize = *s.TournamentSize
	}
	if s.CrossoverRate != nil {
		p.CrossoverRate = *s.CrossoverRate
	}
	return p, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("EVOGAME_RULE"); v != "" {
		cfg.Simulation.Rule = v
	}
	if v := os.Getenv("EVOGAME_SEED"); v != "" {
		seed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("EVOGAME_SEED: %w", err)
		}
		cfg.Simulation.Seed = &seed
	}
	if v := os.Getenv("EVOGAME_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("EVOGAME_STORE"); v != "" {
		cfg.Store.Kind = v
	}
	if v := os.Getenv("EVOGAME_DB_PATH"); v != "" {
		cfg.Store.SQLitePath = v
	}
	if v := os.Getenv("EVOGAME_ARTIFACTS_DIR"); v != "" {
		cfg.Artifacts.Dir = v
	}
	if v := os.Getenv("EVOGAME_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	return nil
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
