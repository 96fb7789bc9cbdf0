package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"evogame/internal/config"
	"evogame/internal/logging"
	"evogame/internal/model"
	"evogame/pkg/evogame"
)

// loadConfig reads --config and the environment, then applies the global
// flags that were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"log-level":     &cfg.Logging.Level,
		"store":         &cfg.Store.Kind,
		"db-path":       &cfg.Store.SQLitePath,
		"artifacts-dir": &cfg.Artifacts.Dir,
	}
	for name, dst := range overrides {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr())
}

func newClient(cmd *cobra.Command, cfg *config.Config) (*evogame.Client, error) {
	return evogame.New(evogame.Options{
		StoreKind:    cfg.Store.Kind,
		DBPath:       cfg.Store.SQLitePath,
		ArtifactsDir: cfg.Artifacts.Dir,
		Logger:       newLogger(cmd, cfg),
	})
}

func addParamFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("rule", "", "Update rule: social or genetic")
	f.Int("population", 0, "Population size")
	f.Float64("seed", 0, "Random seed")
	f.String("group-size", "", `Group size: "all" or an integer`)
	f.Float64("learning-rate", 0, "Probability an agent imitates the best effort")
	f.Int("rounds", 0, "Rounds to play (social rule)")
	f.Bool("arena", false, "Enable the moving-agent arena")
	f.Int("strategy-length", 0, "Bitstring length (genetic rule)")
	f.Int("generations", 0, "Generations to evolve (genetic rule)")
	f.Float64("mutation-rate", 0, "Per-bit mutation probability")
	f.Int("tournament-size", 0, "Tournament size")
	f.Float64("crossover-rate", 0, "Crossover probability")
}

// resolveParams overlays explicitly set flags on the configured simulation.
func resolveParams(cmd *cobra.Command, cfg *config.Config) (model.Params, error) {
	f := cmd.Flags()
	sim := cfg.Simulation
	if f.Changed("rule") {
		sim.Rule, _ = f.GetString("rule")
	}
	if f.Changed("group-size") {
		sim.GroupSize, _ = f.GetString("group-size")
	}
	setInt := func(name string, dst **int) {
		if f.Changed(name) {
			v, _ := f.GetInt(name)
			*dst = &v
		}
	}
	setFloat := func(name string, dst **float64) {
		if f.Changed(name) {
			v, _ := f.GetFloat64(name)
			*dst = &v
		}
	}
	setInt("population", &sim.PopulationSize)
	setInt("rounds", &sim.Rounds)
	setInt("strategy-length", &sim.StrategyLength)
	setInt("generations", &sim.Generations)
	setInt("tournament-size", &sim.TournamentSize)
	setFloat("seed", &sim.Seed)
	setFloat("learning-rate", &sim.LearningRate)
	setFloat("mutation-rate", &sim.MutationRate)
	setFloat("crossover-rate", &sim.CrossoverRate)
	if f.Changed("arena") {
		enabled, _ := f.GetBool("arena")
		arena := config.ArenaConfig{Enabled: enabled}
		if sim.Arena != nil {
			arena.Width, arena.Height = sim.Arena.Width, sim.Arena.Height
		}
		sim.Arena = &arena
	}

	p, err := sim.Params()
	if err != nil {
		return model.Params{}, fmt.Errorf("resolve parameters: %w", err)
	}
	return p, nil
}
