package config

import (
	"os"
	"path/filepath"
	"testing"

	"evogame/internal/engine"
	"evogame/internal/model"
)

func TestDefaultResolvesToSocialDefaults(t *testing.T) {
	p, err := Default().Simulation.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p != engine.DefaultSocialParams() {
		t.Fatalf("params=%+v", p)
	}
}

func TestParseGeneticKeepsExplicitZeros(t *testing.T) {
	cfg, err := Parse([]byte(`
simulation:
  rule: genetic
  population_size: 1
  strategy_length: 8
  generations: 0
  tournament_size: 1
  mutation_rate: 0
  seed: 42
logging:
  level: debug
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p, err := cfg.Simulation.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p.Rule != model.RuleGenetic || p.PopulationSize != 1 || p.Generations != 0 || p.MutationRate != 0 {
		t.Fatalf("unexpected params: %+v", p)
	}
	if p.CrossoverRate != 0.8 {
		t.Fatalf("unset crossover_rate should default to 0.8, got %v", p.CrossoverRate)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level=%s", cfg.Logging.Level)
	}
	if err := engine.Validate(p); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestParseSocialGroupAndArena(t *testing.T) {
	cfg, err := Parse([]byte(`
simulation:
  rule: social
  population_size: 12
  group_size: "3"
  learning_rate: 0.25
  arena:
    enabled: true
    width: 300
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p, err := cfg.Simulation.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p.GroupSize != model.GroupsOf(3) || p.LearningRate != 0.25 {
		t.Fatalf("unexpected params: %+v", p)
	}
	if !p.Arena.Enabled || p.Arena.Width != 300 || p.Arena.Height != engine.DefaultArenaHeight {
		t.Fatalf("arena=%+v", p.Arena)
	}
}

func TestParamsRejectsBadGroupSize(t *testing.T) {
	cfg, err := Parse([]byte("simulation:\n  group_size: some\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := cfg.Simulation.Params(); err == nil {
		t.Fatal("expected group size error")
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "evogame.yaml")
	if err := os.WriteFile(path, []byte("store:\n  kind: memory\nsimulation:\n  seed: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("EVOGAME_SEED", "99")
	t.Setenv("EVOGAME_STORE", "sqlite")
	t.Setenv("EVOGAME_DB_PATH", filepath.Join(t.TempDir(), "runs.db"))

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Kind != "sqlite" {
		t.Fatalf("store=%s", cfg.Store.Kind)
	}
	p, err := cfg.Simulation.Params()
	if err != nil {
		t.Fatalf("params: %v", err)
	}
	if p.Seed != 99 {
		t.Fatalf("seed=%v want 99", p.Seed)
	}
}

func TestValidateRejectsUnknownStore(t *testing.T) {
	cfg := Default()
	cfg.Store.Kind = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected store validation error")
	}
	cfg = Default()
	cfg.Logging.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected log level validation error")
	}
}
